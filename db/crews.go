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

type CrewRepo struct {
	db *sqlx.DB
}

func NewCrewRepo(db *sqlx.DB) CrewRepo {
	return CrewRepo{db: db}
}

func (r CrewRepo) List(ctx context.Context, page Page) ([]entity.Crew, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM crew`); err != nil {
		return nil, 0, fmt.Errorf("counting crew: %w", err)
	}

	var crews []entity.Crew
	err := r.db.SelectContext(ctx, &crews, `SELECT id, first_name, last_name FROM crew
		ORDER BY last_name, id LIMIT $1 OFFSET $2`, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying crew: %w", err)
	}

	return crews, total, nil
}

func (r CrewRepo) Get(ctx context.Context, id int64) (entity.Crew, error) {
	var c entity.Crew
	err := r.db.GetContext(ctx, &c, `SELECT id, first_name, last_name FROM crew WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Crew{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.Crew{}, fmt.Errorf("querying crew member: %w", err)
	}
	return c, nil
}

func (r CrewRepo) Create(ctx context.Context, c entity.Crew) (entity.Crew, error) {
	err := r.db.GetContext(ctx, &c.ID, `INSERT INTO crew (first_name, last_name)
		VALUES ($1, $2) RETURNING id`, c.FirstName, c.LastName)
	if err != nil {
		return entity.Crew{}, fmt.Errorf("inserting crew member: %w", err)
	}
	return c, nil
}

func (r CrewRepo) Update(ctx context.Context, c entity.Crew) error {
	res, err := r.db.ExecContext(ctx, `UPDATE crew SET first_name = $1, last_name = $2
		WHERE id = $3`, c.FirstName, c.LastName, c.ID)
	if err != nil {
		return fmt.Errorf("updating crew member: %w", err)
	}
	return oneRowAffected(res)
}
