package entity

import (
	"fmt"
	"time"
)

type Order struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Ticket struct {
	ID        int64 `db:"id" json:"id"`
	Cargo     int   `db:"cargo" json:"cargo"`
	Seat      int   `db:"seat" json:"seat"`
	JourneyID int64 `db:"journey_id" json:"journey"`
	OrderID   int64 `db:"order_id" json:"-"`
}

type OrderWithTickets struct {
	Order
	Tickets []Ticket `json:"tickets"`
}

// TicketRequest is one requested (cargo, seat) placement on a journey,
// as submitted in an order.
type TicketRequest struct {
	Cargo     int   `json:"cargo"`
	Seat      int   `json:"seat"`
	JourneyID int64 `json:"journey"`
}

// ValidatePlacement checks that a requested cargo and seat fall within the
// train's capacity. It is the single range-check routine shared by the HTTP
// input validation and the booking transaction, so the two layers cannot
// drift apart.
func ValidatePlacement(cargo, seat int, train Train) error {
	fe := FieldErrors{}
	if cargo < 1 || cargo > train.CargoNum {
		fe.Add("cargo", fmt.Sprintf("Cargo must be between [1, %d]. Not %d", train.CargoNum, cargo))
	}
	if seat < 1 || seat > train.PlacesInCargo {
		fe.Add("seat", fmt.Sprintf("Seat must be between [1, %d]. Not %d", train.PlacesInCargo, seat))
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// PrefixTicketErrors rekeys field errors under the offending ticket's index
// in the order request, so a batch failure identifies which ticket was bad.
func PrefixTicketErrors(index int, err error) error {
	fe, ok := AsFieldErrors(err)
	if !ok {
		return err
	}
	prefixed := FieldErrors{}
	for field, messages := range fe {
		prefixed[fmt.Sprintf("tickets[%d].%s", index, field)] = messages
	}
	return prefixed
}
