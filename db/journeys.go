package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"station/entity"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// JourneyFilter narrows journey listings. Date matches the calendar date of
// departure regardless of time-of-day; From and To are case-insensitive
// substring matches on the route's station names. All compose with AND.
type JourneyFilter struct {
	Date string
	From string
	To   string
}

type JourneyRepo struct {
	db *sqlx.DB
}

func NewJourneyRepo(db *sqlx.DB) JourneyRepo {
	return JourneyRepo{db: db}
}

// List returns journey rows with tickets_available computed over the live
// ticket count. The value is recalculated on every call; nothing is cached.
func (r JourneyRepo) List(ctx context.Context, filter JourneyFilter, page Page) ([]entity.JourneyRow, int, error) {
	where, args := journeyFilterClause(filter)

	var total int
	err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM journey j
		JOIN route rt ON rt.id = j.route_id
		JOIN station src ON src.id = rt.source_id
		JOIN station dst ON dst.id = rt.destination_id`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("counting journeys: %w", err)
	}

	query := `SELECT
			j.id,
			t.name AS train_name,
			src.name AS route_from,
			dst.name AS route_to,
			j.departure_time,
			j.arrival_time,
			t.cargo_num * t.places_in_cargo - count(DISTINCT tk.id) AS tickets_available,
			coalesce(
				array_agg(DISTINCT c.first_name || ' ' || c.last_name)
					FILTER (WHERE c.id IS NOT NULL),
				'{}'
			) AS crew_names
		FROM journey j
		JOIN train t ON t.id = j.train_id
		JOIN route rt ON rt.id = j.route_id
		JOIN station src ON src.id = rt.source_id
		JOIN station dst ON dst.id = rt.destination_id
		LEFT JOIN ticket tk ON tk.journey_id = j.id
		LEFT JOIN journey_crew jc ON jc.journey_id = j.id
		LEFT JOIN crew c ON c.id = jc.crew_id` + where + `
		GROUP BY j.id, t.name, t.cargo_num, t.places_in_cargo, src.name, dst.name` +
		fmt.Sprintf(" ORDER BY j.departure_time, j.id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying journeys: %w", err)
	}
	defer rows.Close()

	var journeys []entity.JourneyRow
	for rows.Next() {
		var j entity.JourneyRow
		var crewNames pq.StringArray
		err := rows.Scan(
			&j.ID, &j.TrainName, &j.RouteFrom, &j.RouteTo,
			&j.DepartureTime, &j.ArrivalTime, &j.TicketsAvailable, &crewNames,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning journey row: %w", err)
		}
		j.CrewNames = crewNames
		journeys = append(journeys, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating journey rows: %w", err)
	}

	return journeys, total, nil
}

func (r JourneyRepo) Get(ctx context.Context, id int64) (entity.JourneyDetail, error) {
	var j entity.JourneyDetail
	err := r.db.QueryRowxContext(ctx, `SELECT
			j.id, j.route_id, j.train_id, j.departure_time, j.arrival_time,
			rt.id, rt.source_id, rt.destination_id, rt.distance,
			src.id, src.name, src.latitude, src.longitude, src.image_path,
			dst.id, dst.name, dst.latitude, dst.longitude, dst.image_path,
			t.id, t.name, t.cargo_num, t.places_in_cargo, t.train_type_id, t.image_path,
			tt.id, tt.name
		FROM journey j
		JOIN route rt ON rt.id = j.route_id
		JOIN station src ON src.id = rt.source_id
		JOIN station dst ON dst.id = rt.destination_id
		JOIN train t ON t.id = j.train_id
		JOIN train_type tt ON tt.id = t.train_type_id
		WHERE j.id = $1`, id).Scan(
		&j.ID, &j.RouteID, &j.TrainID, &j.DepartureTime, &j.ArrivalTime,
		&j.Route.ID, &j.Route.SourceID, &j.Route.DestinationID, &j.Route.Distance,
		&j.Route.Source.ID, &j.Route.Source.Name, &j.Route.Source.Latitude, &j.Route.Source.Longitude, &j.Route.Source.ImagePath,
		&j.Route.Destination.ID, &j.Route.Destination.Name, &j.Route.Destination.Latitude, &j.Route.Destination.Longitude, &j.Route.Destination.ImagePath,
		&j.Train.ID, &j.Train.Name, &j.Train.CargoNum, &j.Train.PlacesInCargo, &j.Train.TrainTypeID, &j.Train.ImagePath,
		&j.Train.TrainType.ID, &j.Train.TrainType.Name,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.JourneyDetail{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.JourneyDetail{}, fmt.Errorf("querying journey: %w", err)
	}

	err = r.db.SelectContext(ctx, &j.Crews, `SELECT c.id, c.first_name, c.last_name
		FROM crew c
		JOIN journey_crew jc ON jc.crew_id = c.id
		WHERE jc.journey_id = $1
		ORDER BY c.last_name, c.id`, id)
	if err != nil {
		return entity.JourneyDetail{}, fmt.Errorf("querying journey crew: %w", err)
	}
	for _, c := range j.Crews {
		j.CrewIDs = append(j.CrewIDs, c.ID)
	}

	return j, nil
}

// Train returns the train serving a journey, for capacity checks.
func (r JourneyRepo) Train(ctx context.Context, journeyID int64) (entity.Train, error) {
	var t entity.Train
	err := r.db.GetContext(ctx, &t, `SELECT t.id, t.name, t.cargo_num, t.places_in_cargo, t.train_type_id, t.image_path
		FROM train t
		JOIN journey j ON j.train_id = t.id
		WHERE j.id = $1`, journeyID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Train{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.Train{}, fmt.Errorf("querying journey train: %w", err)
	}
	return t, nil
}

func (r JourneyRepo) Create(ctx context.Context, j entity.Journey) (entity.Journey, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return entity.Journey{}, fmt.Errorf("beginning transaction: %w", err)
	}

	if err := insertJourney(ctx, tx, &j); err != nil {
		return entity.Journey{}, errors.Join(err, tx.Rollback())
	}

	if err := tx.Commit(); err != nil {
		return entity.Journey{}, fmt.Errorf("committing transaction: %w", err)
	}
	return j, nil
}

func insertJourney(ctx context.Context, tx *sqlx.Tx, j *entity.Journey) error {
	err := tx.GetContext(ctx, &j.ID, `INSERT INTO journey
		(route_id, train_id, departure_time, arrival_time)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		j.RouteID, j.TrainID, j.DepartureTime, j.ArrivalTime)
	if err != nil {
		return fmt.Errorf("inserting journey: %w", err)
	}

	return replaceJourneyCrew(ctx, tx, j.ID, j.CrewIDs)
}

func (r JourneyRepo) Update(ctx context.Context, j entity.Journey) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := updateJourney(ctx, tx, j); err != nil {
		return errors.Join(err, tx.Rollback())
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func updateJourney(ctx context.Context, tx *sqlx.Tx, j entity.Journey) error {
	res, err := tx.ExecContext(ctx, `UPDATE journey
		SET route_id = $1, train_id = $2, departure_time = $3, arrival_time = $4
		WHERE id = $5`,
		j.RouteID, j.TrainID, j.DepartureTime, j.ArrivalTime, j.ID)
	if err != nil {
		return fmt.Errorf("updating journey: %w", err)
	}
	if err := oneRowAffected(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM journey_crew WHERE journey_id = $1`, j.ID); err != nil {
		return fmt.Errorf("clearing journey crew: %w", err)
	}
	return replaceJourneyCrew(ctx, tx, j.ID, j.CrewIDs)
}

func replaceJourneyCrew(ctx context.Context, tx *sqlx.Tx, journeyID int64, crewIDs []int64) error {
	for _, crewID := range crewIDs {
		_, err := tx.ExecContext(ctx, `INSERT INTO journey_crew (journey_id, crew_id)
			VALUES ($1, $2)`, journeyID, crewID)
		if err != nil {
			return fmt.Errorf("assigning crew %d: %w", crewID, err)
		}
	}
	return nil
}

func journeyFilterClause(filter JourneyFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Date != "" {
		args = append(args, filter.Date)
		conditions = append(conditions, fmt.Sprintf("j.departure_time::date = $%d::date", len(args)))
	}
	if filter.From != "" {
		args = append(args, filter.From)
		conditions = append(conditions, fmt.Sprintf("src.name ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if filter.To != "" {
		args = append(args, filter.To)
		conditions = append(conditions, fmt.Sprintf("dst.name ILIKE '%%' || $%d || '%%'", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
