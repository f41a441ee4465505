package event

import (
	"time"

	"station/entity"

	"github.com/ThreeDotsLabs/watermill"
)

type header struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func newHeader(idempotencyKey string) header {
	return header{
		ID:             watermill.NewUUID(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

type PlacedTicket struct {
	Cargo     int   `json:"cargo"`
	Seat      int   `json:"seat"`
	JourneyID int64 `json:"journey_id"`
}

// OrderPlaced is published inside the booking transaction, once per order.
type OrderPlaced struct {
	Header   header         `json:"header"`
	OrderID  int64          `json:"order_id"`
	UserID   int64          `json:"user_id"`
	PlacedAt time.Time      `json:"placed_at"`
	Tickets  []PlacedTicket `json:"tickets"`
}

func NewOrderPlaced(idempotencyKey string, order entity.OrderWithTickets) OrderPlaced {
	e := OrderPlaced{
		Header:   newHeader(idempotencyKey),
		OrderID:  order.ID,
		UserID:   order.UserID,
		PlacedAt: order.CreatedAt,
	}
	for _, t := range order.Tickets {
		e.Tickets = append(e.Tickets, PlacedTicket{
			Cargo:     t.Cargo,
			Seat:      t.Seat,
			JourneyID: t.JourneyID,
		})
	}
	return e
}
