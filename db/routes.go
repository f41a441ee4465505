package db

import (
	"context"
	"fmt"
	"strings"

	"station/entity"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// RouteFilter narrows route listings. Both filters are case-insensitive
// substring matches on station names and compose with AND.
type RouteFilter struct {
	Source      string
	Destination string
}

type RouteRepo struct {
	db *sqlx.DB
}

func NewRouteRepo(db *sqlx.DB) RouteRepo {
	return RouteRepo{db: db}
}

func (r RouteRepo) List(ctx context.Context, filter RouteFilter, page Page) ([]entity.RouteDetail, int, error) {
	where, args := routeFilterClause(filter)

	var total int
	err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM route r
		JOIN station src ON src.id = r.source_id
		JOIN station dst ON dst.id = r.destination_id`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("counting routes: %w", err)
	}

	query := `SELECT
			r.id, r.source_id, r.destination_id, r.distance,
			src.id, src.name, src.latitude, src.longitude, src.image_path,
			dst.id, dst.name, dst.latitude, dst.longitude, dst.image_path
		FROM route r
		JOIN station src ON src.id = r.source_id
		JOIN station dst ON dst.id = r.destination_id` + where +
		fmt.Sprintf(" ORDER BY r.id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying routes: %w", err)
	}
	defer rows.Close()

	var routes []entity.RouteDetail
	for rows.Next() {
		route, err := scanRouteDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating route rows: %w", err)
	}

	return routes, total, nil
}

func (r RouteRepo) Get(ctx context.Context, id int64) (entity.RouteDetail, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT
			r.id, r.source_id, r.destination_id, r.distance,
			src.id, src.name, src.latitude, src.longitude, src.image_path,
			dst.id, dst.name, dst.latitude, dst.longitude, dst.image_path
		FROM route r
		JOIN station src ON src.id = r.source_id
		JOIN station dst ON dst.id = r.destination_id
		WHERE r.id = $1`, id)
	if err != nil {
		return entity.RouteDetail{}, fmt.Errorf("querying route: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return entity.RouteDetail{}, fmt.Errorf("querying route: %w", err)
		}
		return entity.RouteDetail{}, entity.ErrNotFound
	}
	return scanRouteDetail(rows)
}

func (r RouteRepo) Create(ctx context.Context, route entity.Route) (entity.Route, error) {
	err := r.db.GetContext(ctx, &route.ID, `INSERT INTO route (source_id, destination_id, distance)
		VALUES ($1, $2, $3) RETURNING id`,
		route.SourceID, route.DestinationID, route.Distance)
	if err != nil {
		return entity.Route{}, fmt.Errorf("inserting route: %w", err)
	}
	return route, nil
}

func (r RouteRepo) Update(ctx context.Context, route entity.Route) error {
	res, err := r.db.ExecContext(ctx, `UPDATE route
		SET source_id = $1, destination_id = $2, distance = $3 WHERE id = $4`,
		route.SourceID, route.DestinationID, route.Distance, route.ID)
	if err != nil {
		return fmt.Errorf("updating route: %w", err)
	}
	return oneRowAffected(res)
}

func routeFilterClause(filter RouteFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Source != "" {
		args = append(args, filter.Source)
		conditions = append(conditions, fmt.Sprintf("src.name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.Destination != "" {
		args = append(args, filter.Destination)
		conditions = append(conditions, fmt.Sprintf("dst.name ILIKE '%%' || $%d || '%%'", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanRouteDetail(rows *sqlx.Rows) (entity.RouteDetail, error) {
	var route entity.RouteDetail
	err := rows.Scan(
		&route.ID, &route.SourceID, &route.DestinationID, &route.Distance,
		&route.Source.ID, &route.Source.Name, &route.Source.Latitude, &route.Source.Longitude, &route.Source.ImagePath,
		&route.Destination.ID, &route.Destination.Name, &route.Destination.Latitude, &route.Destination.Longitude, &route.Destination.ImagePath,
	)
	if err != nil {
		return entity.RouteDetail{}, fmt.Errorf("scanning route row: %w", err)
	}
	return route, nil
}
