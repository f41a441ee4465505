package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func InitialiseDB(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("initialising schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		is_staff BOOLEAN NOT NULL DEFAULT FALSE
	);`,
	`CREATE TABLE IF NOT EXISTS train_type (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS train (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		cargo_num INTEGER NOT NULL CHECK (cargo_num > 0),
		places_in_cargo INTEGER NOT NULL CHECK (places_in_cargo > 0),
		train_type_id BIGINT NOT NULL REFERENCES train_type (id),
		image_path TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS crew (
		id BIGSERIAL PRIMARY KEY,
		first_name VARCHAR(255) NOT NULL,
		last_name VARCHAR(255) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS station (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		image_path TEXT
	);`,
	// source = destination is not rejected here, matching upstream behaviour.
	`CREATE TABLE IF NOT EXISTS route (
		id BIGSERIAL PRIMARY KEY,
		source_id BIGINT NOT NULL REFERENCES station (id),
		destination_id BIGINT NOT NULL REFERENCES station (id),
		distance INTEGER NOT NULL CHECK (distance > 0)
	);`,
	`CREATE TABLE IF NOT EXISTS journey (
		id BIGSERIAL PRIMARY KEY,
		route_id BIGINT NOT NULL REFERENCES route (id),
		train_id BIGINT NOT NULL REFERENCES train (id),
		departure_time TIMESTAMP WITH TIME ZONE NOT NULL,
		arrival_time TIMESTAMP WITH TIME ZONE NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS journey_crew (
		journey_id BIGINT NOT NULL REFERENCES journey (id),
		crew_id BIGINT NOT NULL REFERENCES crew (id),
		PRIMARY KEY (journey_id, crew_id)
	);`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users (id),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);`,
	// A seat is unique within one journey; the same (cargo, seat) may be
	// sold again on other journeys of the same train.
	`CREATE TABLE IF NOT EXISTS ticket (
		id BIGSERIAL PRIMARY KEY,
		cargo INTEGER NOT NULL,
		seat INTEGER NOT NULL,
		journey_id BIGINT NOT NULL REFERENCES journey (id),
		order_id BIGINT NOT NULL REFERENCES orders (id),
		UNIQUE (journey_id, cargo, seat)
	);`,
	`CREATE TABLE IF NOT EXISTS order_log (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		ticket_count INTEGER NOT NULL,
		placed_at TIMESTAMP WITH TIME ZONE NOT NULL
	);`,
}
