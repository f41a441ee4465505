package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"station/entity"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// TicketRepo reads issued tickets. Tickets are only ever written through an
// order's booking transaction, so there is no write path here.
type TicketRepo struct {
	db *sqlx.DB
}

func NewTicketRepo(db *sqlx.DB) TicketRepo {
	return TicketRepo{db: db}
}

// List returns tickets belonging to the caller's own orders.
func (r TicketRepo) List(ctx context.Context, userID int64, page Page) ([]entity.Ticket, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM ticket t
		JOIN orders o ON o.id = t.order_id WHERE o.user_id = $1`, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("counting tickets: %w", err)
	}

	var tickets []entity.Ticket
	err = r.db.SelectContext(ctx, &tickets, `SELECT t.id, t.cargo, t.seat, t.journey_id, t.order_id
		FROM ticket t
		JOIN orders o ON o.id = t.order_id
		WHERE o.user_id = $1
		ORDER BY t.id LIMIT $2 OFFSET $3`, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying tickets: %w", err)
	}

	return tickets, total, nil
}

func (r TicketRepo) Get(ctx context.Context, userID, ticketID int64) (entity.Ticket, error) {
	var t entity.Ticket
	err := r.db.GetContext(ctx, &t, `SELECT t.id, t.cargo, t.seat, t.journey_id, t.order_id
		FROM ticket t
		JOIN orders o ON o.id = t.order_id
		WHERE t.id = $1 AND o.user_id = $2`, ticketID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Ticket{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.Ticket{}, fmt.Errorf("querying ticket: %w", err)
	}
	return t, nil
}

// CountForJourney is the live issued-ticket count for one journey.
func (r TicketRepo) CountForJourney(ctx context.Context, journeyID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM ticket WHERE journey_id = $1`, journeyID)
	if err != nil {
		return 0, fmt.Errorf("counting journey tickets: %w", err)
	}
	return count, nil
}
