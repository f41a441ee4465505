package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"station/entity"
	"station/event"
	"station/message"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

type OrderRepo struct {
	db     *sqlx.DB
	logger watermill.LoggerAdapter
}

func NewOrderRepo(db *sqlx.DB, logger watermill.LoggerAdapter) OrderRepo {
	return OrderRepo{db: db, logger: logger}
}

// Create books every requested ticket under one new order, all-or-nothing.
// Each placement is re-validated against its journey's train inside the
// transaction, and an OrderPlaced event is written to the outbox in the same
// transaction, so the event exists exactly when the order does.
func (r OrderRepo) Create(ctx context.Context, userID int64, requests []entity.TicketRequest) (entity.OrderWithTickets, error) {
	if len(requests) == 0 {
		fe := entity.FieldErrors{}
		fe.Add("tickets", "This list may not be empty.")
		return entity.OrderWithTickets{}, fe
	}

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return entity.OrderWithTickets{}, fmt.Errorf("beginning transaction: %w", err)
	}

	order, err := r.create(ctx, tx, userID, requests)
	if err != nil {
		return entity.OrderWithTickets{}, errors.Join(err, tx.Rollback())
	}

	if err := tx.Commit(); err != nil {
		return entity.OrderWithTickets{}, fmt.Errorf("committing transaction: %w", err)
	}

	return order, nil
}

func (r OrderRepo) create(ctx context.Context, tx *sqlx.Tx, userID int64, requests []entity.TicketRequest) (entity.OrderWithTickets, error) {
	var order entity.OrderWithTickets
	order.UserID = userID

	err := tx.QueryRowxContext(ctx, `INSERT INTO orders (user_id)
		VALUES ($1) RETURNING id, created_at`, userID).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return entity.OrderWithTickets{}, fmt.Errorf("inserting order: %w", err)
	}

	for i, req := range requests {
		ticket, err := insertTicket(ctx, tx, order.ID, req)
		if err != nil {
			return entity.OrderWithTickets{}, entity.PrefixTicketErrors(i, err)
		}
		order.Tickets = append(order.Tickets, ticket)
	}

	e := event.NewOrderPlaced(uuid.NewString(), order)
	if err := message.PublishInTx(ctx, e, tx.Tx, r.logger); err != nil {
		return entity.OrderWithTickets{}, fmt.Errorf("publishing event in transaction: %w", err)
	}

	return order, nil
}

func insertTicket(ctx context.Context, tx *sqlx.Tx, orderID int64, req entity.TicketRequest) (entity.Ticket, error) {
	var train entity.Train
	err := tx.GetContext(ctx, &train, `SELECT t.id, t.name, t.cargo_num, t.places_in_cargo, t.train_type_id, t.image_path
		FROM train t
		JOIN journey j ON j.train_id = t.id
		WHERE j.id = $1`, req.JourneyID)
	if errors.Is(err, sql.ErrNoRows) {
		fe := entity.FieldErrors{}
		fe.Add("journey", fmt.Sprintf("Journey %d does not exist.", req.JourneyID))
		return entity.Ticket{}, fe
	}
	if err != nil {
		return entity.Ticket{}, fmt.Errorf("querying journey train: %w", err)
	}

	if err := entity.ValidatePlacement(req.Cargo, req.Seat, train); err != nil {
		return entity.Ticket{}, err
	}

	ticket := entity.Ticket{
		Cargo:     req.Cargo,
		Seat:      req.Seat,
		JourneyID: req.JourneyID,
		OrderID:   orderID,
	}
	err = tx.GetContext(ctx, &ticket.ID, `INSERT INTO ticket (cargo, seat, journey_id, order_id)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		ticket.Cargo, ticket.Seat, ticket.JourneyID, ticket.OrderID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		fe := entity.FieldErrors{}
		fe.Add("seat", fmt.Sprintf("Cargo %d seat %d is already booked on journey %d.",
			req.Cargo, req.Seat, req.JourneyID))
		return entity.Ticket{}, fe
	}
	if err != nil {
		return entity.Ticket{}, fmt.Errorf("inserting ticket: %w", err)
	}

	return ticket, nil
}

// List returns the caller's own orders, newest first.
func (r OrderRepo) List(ctx context.Context, userID int64, page Page) ([]entity.OrderWithTickets, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM orders WHERE user_id = $1`, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	var orders []entity.Order
	err = r.db.SelectContext(ctx, &orders, `SELECT id, user_id, created_at FROM orders
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying orders: %w", err)
	}

	result := make([]entity.OrderWithTickets, 0, len(orders))
	for _, order := range orders {
		tickets, err := r.orderTickets(ctx, order.ID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, entity.OrderWithTickets{Order: order, Tickets: tickets})
	}

	return result, total, nil
}

// Get returns one order, only if it belongs to userID; anyone else's order
// is indistinguishable from a missing one.
func (r OrderRepo) Get(ctx context.Context, userID, orderID int64) (entity.OrderWithTickets, error) {
	var order entity.Order
	err := r.db.GetContext(ctx, &order, `SELECT id, user_id, created_at FROM orders
		WHERE id = $1 AND user_id = $2`, orderID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.OrderWithTickets{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.OrderWithTickets{}, fmt.Errorf("querying order: %w", err)
	}

	tickets, err := r.orderTickets(ctx, order.ID)
	if err != nil {
		return entity.OrderWithTickets{}, err
	}

	return entity.OrderWithTickets{Order: order, Tickets: tickets}, nil
}

func (r OrderRepo) orderTickets(ctx context.Context, orderID int64) ([]entity.Ticket, error) {
	var tickets []entity.Ticket
	err := r.db.SelectContext(ctx, &tickets, `SELECT id, cargo, seat, journey_id, order_id
		FROM ticket WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order tickets: %w", err)
	}
	return tickets, nil
}
