package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/platform/obs"
	"hos-trip-service/internal/ports"
)

// SQLTripRepository is the Postgres variant of the trip store, used when
// the service runs against a shared database (DATABASE_URL) instead of
// local SQLite.
type SQLTripRepository struct{ DB *sql.DB }

func NewSQLTripRepository(db *sql.DB) *SQLTripRepository {
	return &SQLTripRepository{DB: db}
}

func (s *SQLTripRepository) Save(ctx context.Context, trip *domain.Trip) (err error) {
	defer obs.Time(ctx, "trips.repo.Save")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}
	if trip == nil {
		return errors.New("save trip: trip is nil")
	}

	legsJSON, eventsJSON, logsJSON, err := marshalTripDocuments(trip)
	if err != nil {
		return fmt.Errorf("save trip: %w", err)
	}

	query := `
	INSERT INTO trips (
		id, current_location, pickup_location, dropoff_location,
		current_cycle_used, total_miles, total_duration_hours,
		total_days, total_driving_hours, total_duty_hours,
		total_rest_hours, cycle_hours_at_end,
		legs_json, events_json, daily_logs_json, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (id) DO UPDATE
	SET legs_json = EXCLUDED.legs_json,
		events_json = EXCLUDED.events_json,
		daily_logs_json = EXCLUDED.daily_logs_json;
	`

	_, err = s.DB.ExecContext(ctx, query,
		trip.ID.String(),
		trip.CurrentLocation, trip.PickupLocation, trip.DropoffLocation,
		trip.CurrentCycleUsed, trip.TotalMiles, trip.TotalDurationHours,
		trip.Summary.TotalDays, trip.Summary.TotalDrivingHours, trip.Summary.TotalDutyHours,
		trip.Summary.TotalRestHours, trip.Summary.CycleHoursAtEnd,
		legsJSON, eventsJSON, logsJSON,
		trip.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save trip %s: insert trips row: %w", trip.ID, err)
	}

	return nil
}

func (s *SQLTripRepository) List(ctx context.Context, query string, page, pageSize int) (_ ports.TripPage, err error) {
	defer obs.Time(ctx, "trips.repo.List")(&err)

	if s.DB == nil {
		return ports.TripPage{}, errors.New("sql trip repository: DB is nil")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	where := ""
	args := []any{}
	if query != "" {
		where = `
		WHERE current_location ILIKE $1
			OR pickup_location ILIKE $1
			OR dropoff_location ILIKE $1`
		args = append(args, "%"+query+"%")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM trips" + where + ";"
	if err := s.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return ports.TripPage{}, fmt.Errorf("list trips: count rows: %w", err)
	}

	limitPos := len(args) + 1
	listQuery := fmt.Sprintf(`
	SELECT id, current_location, pickup_location, dropoff_location,
		current_cycle_used, total_miles, total_duration_hours,
		total_days, total_driving_hours, total_duty_hours,
		total_rest_hours, cycle_hours_at_end, created_at
	FROM trips%s
	ORDER BY created_at DESC
	LIMIT $%d OFFSET $%d;
	`, where, limitPos, limitPos+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := s.DB.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return ports.TripPage{}, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]*domain.Trip, 0, pageSize)
	for rows.Next() {
		trip, err := scanTripSummary(rows)
		if err != nil {
			return ports.TripPage{}, fmt.Errorf("list trips: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return ports.TripPage{}, fmt.Errorf("list trips: row iteration: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return ports.TripPage{
		Trips:      trips,
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
	}, nil
}

func (s *SQLTripRepository) Get(ctx context.Context, id string) (_ *domain.Trip, err error) {
	defer obs.Time(ctx, "trips.repo.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	query := `
	SELECT id, current_location, pickup_location, dropoff_location,
		current_cycle_used, total_miles, total_duration_hours,
		total_days, total_driving_hours, total_duty_hours,
		total_rest_hours, cycle_hours_at_end,
		legs_json, events_json, daily_logs_json, created_at
	FROM trips
	WHERE id = $1;
	`

	trip, err := scanTripFull(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}

	return trip, nil
}

func (s *SQLTripRepository) Delete(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "trips.repo.Delete")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, "DELETE FROM trips WHERE id = $1;", id)
	if err != nil {
		return fmt.Errorf("delete trip %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trip %s: rows affected: %w", id, err)
	}
	if affected == 0 {
		return ports.ErrTripNotFound
	}

	return nil
}
