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

type StationRepo struct {
	db *sqlx.DB
}

func NewStationRepo(db *sqlx.DB) StationRepo {
	return StationRepo{db: db}
}

func (r StationRepo) List(ctx context.Context, page Page) ([]entity.Station, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM station`); err != nil {
		return nil, 0, fmt.Errorf("counting stations: %w", err)
	}

	var stations []entity.Station
	err := r.db.SelectContext(ctx, &stations, `SELECT id, name, latitude, longitude, image_path
		FROM station ORDER BY name, id LIMIT $1 OFFSET $2`, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying stations: %w", err)
	}

	return stations, total, nil
}

func (r StationRepo) Get(ctx context.Context, id int64) (entity.Station, error) {
	var s entity.Station
	err := r.db.GetContext(ctx, &s, `SELECT id, name, latitude, longitude, image_path
		FROM station WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Station{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.Station{}, fmt.Errorf("querying station: %w", err)
	}
	return s, nil
}

func (r StationRepo) Create(ctx context.Context, s entity.Station) (entity.Station, error) {
	err := r.db.GetContext(ctx, &s.ID, `INSERT INTO station (name, latitude, longitude)
		VALUES ($1, $2, $3) RETURNING id`, s.Name, s.Latitude, s.Longitude)
	if err != nil {
		return entity.Station{}, fmt.Errorf("inserting station: %w", err)
	}
	return s, nil
}

func (r StationRepo) Update(ctx context.Context, s entity.Station) error {
	res, err := r.db.ExecContext(ctx, `UPDATE station
		SET name = $1, latitude = $2, longitude = $3 WHERE id = $4`,
		s.Name, s.Latitude, s.Longitude, s.ID)
	if err != nil {
		return fmt.Errorf("updating station: %w", err)
	}
	return oneRowAffected(res)
}

func (r StationRepo) SetImagePath(ctx context.Context, id int64, path string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE station SET image_path = $1 WHERE id = $2`, path, id)
	if err != nil {
		return fmt.Errorf("updating station image: %w", err)
	}
	return oneRowAffected(res)
}
