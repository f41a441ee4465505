package message

import (
	"context"
	"fmt"
	"time"

	"station/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

// OrderLogger persists an audit row for a placed order.
type OrderLogger interface {
	Record(ctx context.Context, orderID, userID int64, ticketCount int, placedAt time.Time) error
}

// BookingMetrics observes completed bookings.
type BookingMetrics interface {
	ObserveOrderPlaced(ticketCount int)
}

type RouterDeps struct {
	Logger      watermill.LoggerAdapter
	RedisClient *redis.Client
	OrderLog    OrderLogger
	Metrics     BookingMetrics
}

type Router struct {
	*message.Router
}

func NewRouter(deps RouterDeps) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}

	addMiddlewares(router, deps.Logger)

	config := cqrs.EventProcessorConfig{
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        deps.RedisClient,
				ConsumerGroup: "svc-station." + params.HandlerName,
			}, deps.Logger)
		},
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return params.EventName, nil
		},
		Marshaler: cqrs.JSONMarshaler{
			GenerateName: cqrs.StructName,
		},
		Logger: deps.Logger,
	}

	ep, err := cqrs.NewEventProcessorWithConfig(router, config)
	if err != nil {
		return nil, fmt.Errorf("creating event processor: %w", err)
	}

	handlers := []cqrs.EventHandler{
		cqrs.NewEventHandler("record-booking", handleRecordBooking(deps.OrderLog)),
		cqrs.NewEventHandler("booking-metrics", handleBookingMetrics(deps.Metrics)),
	}

	if err := ep.AddHandlers(handlers...); err != nil {
		return nil, fmt.Errorf("adding handlers: %w", err)
	}

	return &Router{router}, nil
}

func handleRecordBooking(orderLog OrderLogger) func(ctx context.Context, e *event.OrderPlaced) error {
	return func(ctx context.Context, e *event.OrderPlaced) error {
		err := orderLog.Record(ctx, e.OrderID, e.UserID, len(e.Tickets), e.PlacedAt)
		if err != nil {
			return fmt.Errorf("recording booking: %w", err)
		}
		return nil
	}
}

func handleBookingMetrics(metrics BookingMetrics) func(ctx context.Context, e *event.OrderPlaced) error {
	return func(ctx context.Context, e *event.OrderPlaced) error {
		metrics.ObserveOrderPlaced(len(e.Tickets))
		return nil
	}
}
