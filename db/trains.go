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

type TrainRepo struct {
	db *sqlx.DB
}

func NewTrainRepo(db *sqlx.DB) TrainRepo {
	return TrainRepo{db: db}
}

func (r TrainRepo) List(ctx context.Context, page Page) ([]entity.TrainDetail, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM train`); err != nil {
		return nil, 0, fmt.Errorf("counting trains: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, `SELECT
			t.id, t.name, t.cargo_num, t.places_in_cargo, t.train_type_id, t.image_path,
			tt.id, tt.name
		FROM train t
		JOIN train_type tt ON tt.id = t.train_type_id
		ORDER BY t.name, t.id LIMIT $1 OFFSET $2`, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying trains: %w", err)
	}
	defer rows.Close()

	var trains []entity.TrainDetail
	for rows.Next() {
		var t entity.TrainDetail
		err := rows.Scan(
			&t.ID, &t.Name, &t.CargoNum, &t.PlacesInCargo, &t.TrainTypeID, &t.ImagePath,
			&t.TrainType.ID, &t.TrainType.Name,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning train row: %w", err)
		}
		trains = append(trains, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating train rows: %w", err)
	}

	return trains, total, nil
}

func (r TrainRepo) Get(ctx context.Context, id int64) (entity.TrainDetail, error) {
	var t entity.TrainDetail
	err := r.db.QueryRowxContext(ctx, `SELECT
			t.id, t.name, t.cargo_num, t.places_in_cargo, t.train_type_id, t.image_path,
			tt.id, tt.name
		FROM train t
		JOIN train_type tt ON tt.id = t.train_type_id
		WHERE t.id = $1`, id).Scan(
		&t.ID, &t.Name, &t.CargoNum, &t.PlacesInCargo, &t.TrainTypeID, &t.ImagePath,
		&t.TrainType.ID, &t.TrainType.Name,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.TrainDetail{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.TrainDetail{}, fmt.Errorf("querying train: %w", err)
	}
	return t, nil
}

func (r TrainRepo) Create(ctx context.Context, t entity.Train) (entity.Train, error) {
	err := r.db.GetContext(ctx, &t.ID, `INSERT INTO train
		(name, cargo_num, places_in_cargo, train_type_id)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		t.Name, t.CargoNum, t.PlacesInCargo, t.TrainTypeID)
	if err != nil {
		return entity.Train{}, fmt.Errorf("inserting train: %w", err)
	}
	return t, nil
}

func (r TrainRepo) Update(ctx context.Context, t entity.Train) error {
	res, err := r.db.ExecContext(ctx, `UPDATE train
		SET name = $1, cargo_num = $2, places_in_cargo = $3, train_type_id = $4
		WHERE id = $5`,
		t.Name, t.CargoNum, t.PlacesInCargo, t.TrainTypeID, t.ID)
	if err != nil {
		return fmt.Errorf("updating train: %w", err)
	}
	return oneRowAffected(res)
}

func (r TrainRepo) SetImagePath(ctx context.Context, id int64, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE train SET image_path = $1 WHERE id = $2`, path, id)
	if err != nil {
		return fmt.Errorf("updating train image: %w", err)
	}
	return oneRowAffected(res)
}
