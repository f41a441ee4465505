package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// OrderLogRepo records an audit row for every OrderPlaced event consumed
// from the stream.
type OrderLogRepo struct {
	db *sqlx.DB
}

func NewOrderLogRepo(db *sqlx.DB) OrderLogRepo {
	return OrderLogRepo{db: db}
}

func (r OrderLogRepo) Record(ctx context.Context, orderID, userID int64, ticketCount int, placedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO order_log
		(order_id, user_id, ticket_count, placed_at)
		VALUES ($1, $2, $3, $4)`, orderID, userID, ticketCount, placedAt)
	if err != nil {
		return fmt.Errorf("inserting order log row: %w", err)
	}
	return nil
}
