package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/ports"
)

// SQLite-backed implementation of the TripRepository port. Events, legs and
// daily logs are stored as JSON documents alongside the scalar summary
// columns used by list views.
type SqliteTripRepository struct{ DB *sql.DB }

func NewSqliteTripRepository(db *sql.DB) *SqliteTripRepository {
	return &SqliteTripRepository{DB: db}
}

func (s *SqliteTripRepository) Save(ctx context.Context, trip *domain.Trip) error {
	if s.DB == nil {
		return errors.New("sqlite trip repository: DB is nil")
	}
	if trip == nil {
		return errors.New("save trip: trip is nil")
	}

	legsJSON, eventsJSON, logsJSON, err := marshalTripDocuments(trip)
	if err != nil {
		return fmt.Errorf("save trip: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO trips (
		id, current_location, pickup_location, dropoff_location,
		current_cycle_used, total_miles, total_duration_hours,
		total_days, total_driving_hours, total_duty_hours,
		total_rest_hours, cycle_hours_at_end,
		legs_json, events_json, daily_logs_json, created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
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

func (s *SqliteTripRepository) List(ctx context.Context, query string, page, pageSize int) (ports.TripPage, error) {
	if s.DB == nil {
		return ports.TripPage{}, errors.New("sqlite trip repository: DB is nil")
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
		WHERE current_location LIKE ?
			OR pickup_location LIKE ?
			OR dropoff_location LIKE ?`
		needle := "%" + query + "%"
		args = append(args, needle, needle, needle)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM trips" + where + ";"
	if err := s.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return ports.TripPage{}, fmt.Errorf("list trips: count rows: %w", err)
	}

	listQuery := `
	SELECT id, current_location, pickup_location, dropoff_location,
		current_cycle_used, total_miles, total_duration_hours,
		total_days, total_driving_hours, total_duty_hours,
		total_rest_hours, cycle_hours_at_end, created_at
	FROM trips` + where + `
	ORDER BY created_at DESC
	LIMIT ? OFFSET ?;
	`
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

func (s *SqliteTripRepository) Get(ctx context.Context, id string) (*domain.Trip, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	query := `
	SELECT id, current_location, pickup_location, dropoff_location,
		current_cycle_used, total_miles, total_duration_hours,
		total_days, total_driving_hours, total_duty_hours,
		total_rest_hours, cycle_hours_at_end,
		legs_json, events_json, daily_logs_json, created_at
	FROM trips
	WHERE id = ?;
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

func (s *SqliteTripRepository) Delete(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("sqlite trip repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, "DELETE FROM trips WHERE id = ?;", id)
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

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func marshalTripDocuments(trip *domain.Trip) (legs, events, logs string, err error) {
	legsBytes, err := json.Marshal(trip.Legs)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal legs: %w", err)
	}
	eventsBytes, err := json.Marshal(trip.Events)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal events: %w", err)
	}
	logsBytes, err := json.Marshal(trip.DailyLogs)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal daily logs: %w", err)
	}
	return string(legsBytes), string(eventsBytes), string(logsBytes), nil
}

func scanTripSummary(sc rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var idStr, createdAt string

	err := sc.Scan(
		&idStr, &trip.CurrentLocation, &trip.PickupLocation, &trip.DropoffLocation,
		&trip.CurrentCycleUsed, &trip.TotalMiles, &trip.TotalDurationHours,
		&trip.Summary.TotalDays, &trip.Summary.TotalDrivingHours, &trip.Summary.TotalDutyHours,
		&trip.Summary.TotalRestHours, &trip.Summary.CycleHoursAtEnd,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := finishTripScan(&trip, idStr, createdAt); err != nil {
		return nil, err
	}

	return &trip, nil
}

func scanTripFull(sc rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var idStr, createdAt, legsJSON, eventsJSON, logsJSON string

	err := sc.Scan(
		&idStr, &trip.CurrentLocation, &trip.PickupLocation, &trip.DropoffLocation,
		&trip.CurrentCycleUsed, &trip.TotalMiles, &trip.TotalDurationHours,
		&trip.Summary.TotalDays, &trip.Summary.TotalDrivingHours, &trip.Summary.TotalDutyHours,
		&trip.Summary.TotalRestHours, &trip.Summary.CycleHoursAtEnd,
		&legsJSON, &eventsJSON, &logsJSON, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(legsJSON), &trip.Legs); err != nil {
		return nil, fmt.Errorf("unmarshal legs: %w", err)
	}
	if err := json.Unmarshal([]byte(eventsJSON), &trip.Events); err != nil {
		return nil, fmt.Errorf("unmarshal events: %w", err)
	}
	if err := json.Unmarshal([]byte(logsJSON), &trip.DailyLogs); err != nil {
		return nil, fmt.Errorf("unmarshal daily logs: %w", err)
	}

	if err := finishTripScan(&trip, idStr, createdAt); err != nil {
		return nil, err
	}

	return &trip, nil
}

func finishTripScan(trip *domain.Trip, idStr, createdAt string) error {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("parse trip id %q: %w", idStr, err)
	}
	trip.ID = id

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	trip.CreatedAt = ts

	return nil
}
