package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	OrdersPlaced  prometheus.Counter
	TicketsSold   prometheus.Counter
	BookingErrors *prometheus.CounterVec // reason label: validation|conflict|storage
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "station_orders_placed_total",
			Help: "Total orders committed.",
		}),
		TicketsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "station_tickets_sold_total",
			Help: "Total tickets issued across all orders.",
		}),
		BookingErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "station_booking_errors_total",
			Help: "Orders rejected, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(c.OrdersPlaced, c.TicketsSold, c.BookingErrors)

	return c
}

// ObserveOrderPlaced satisfies the message router's BookingMetrics.
func (c *Collector) ObserveOrderPlaced(ticketCount int) {
	c.OrdersPlaced.Inc()
	c.TicketsSold.Add(float64(ticketCount))
}

func (c *Collector) ObserveBookingError(reason string) {
	c.BookingErrors.WithLabelValues(reason).Inc()
}

// Handler serves the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
