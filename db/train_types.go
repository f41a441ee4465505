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

type TrainTypeRepo struct {
	db *sqlx.DB
}

func NewTrainTypeRepo(db *sqlx.DB) TrainTypeRepo {
	return TrainTypeRepo{db: db}
}

func (r TrainTypeRepo) List(ctx context.Context, page Page) ([]entity.TrainType, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM train_type`); err != nil {
		return nil, 0, fmt.Errorf("counting train types: %w", err)
	}

	var types []entity.TrainType
	err := r.db.SelectContext(ctx, &types, `SELECT id, name FROM train_type
		ORDER BY name, id LIMIT $1 OFFSET $2`, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying train types: %w", err)
	}

	return types, total, nil
}

func (r TrainTypeRepo) Get(ctx context.Context, id int64) (entity.TrainType, error) {
	var t entity.TrainType
	err := r.db.GetContext(ctx, &t, `SELECT id, name FROM train_type WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.TrainType{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.TrainType{}, fmt.Errorf("querying train type: %w", err)
	}
	return t, nil
}

func (r TrainTypeRepo) Create(ctx context.Context, t entity.TrainType) (entity.TrainType, error) {
	err := r.db.GetContext(ctx, &t.ID, `INSERT INTO train_type (name)
		VALUES ($1) RETURNING id`, t.Name)
	if err != nil {
		return entity.TrainType{}, fmt.Errorf("inserting train type: %w", err)
	}
	return t, nil
}

func (r TrainTypeRepo) Update(ctx context.Context, t entity.TrainType) error {
	res, err := r.db.ExecContext(ctx, `UPDATE train_type SET name = $1 WHERE id = $2`, t.Name, t.ID)
	if err != nil {
		return fmt.Errorf("updating train type: %w", err)
	}
	return oneRowAffected(res)
}

func oneRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
