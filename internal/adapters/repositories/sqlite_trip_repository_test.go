package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/ports"
)

func newTestRepo(t *testing.T) *SqliteTripRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return NewSqliteTripRepository(db)
}

func sampleTrip(current, pickup, dropoff string, createdAt time.Time) *domain.Trip {
	miles := 220.0
	trip := domain.NewTrip(current, pickup, dropoff, 12.5)
	trip.TotalMiles = 430
	trip.TotalDurationHours = 6.4
	trip.Legs = []domain.RouteLeg{
		{From: current, To: pickup, DistanceMiles: 113, DurationHours: 1.8},
		{From: pickup, To: dropoff, DistanceMiles: 317, DurationHours: 4.6},
	}
	trip.Events = []domain.Event{
		{Status: domain.StatusOnDutyNotDriving, Clock: 8, Duration: 0.25, Description: "Pre-trip inspection", Location: current},
		{Status: domain.StatusDriving, Clock: 8.25, Duration: 4, Description: "Driving 220.0 miles", Location: "Near " + current, Miles: &miles},
	}
	trip.DailyLogs = []domain.DailyLog{
		{
			DayNumber:  1,
			Date:       time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			TotalMiles: 220,
			Activities: []domain.Activity{
				{Status: domain.StatusOffDuty, StartHour: 0, EndHour: 8, Duration: 8, Description: "Off Duty"},
			},
			Remarks: []domain.Remark{
				{Time: "08:00", Status: domain.StatusOnDutyNotDriving, Text: "Pre-trip inspection", Location: current},
			},
			Totals: map[domain.DutyStatus]float64{
				domain.StatusOffDuty:          19.75,
				domain.StatusSleeperBerth:     0,
				domain.StatusDriving:          4,
				domain.StatusOnDutyNotDriving: 0.25,
			},
		},
	}
	trip.Summary = domain.TripSummary{
		TotalDays:         1,
		TotalDrivingHours: 4,
		TotalDutyHours:    4.25,
		TotalRestHours:    0,
		CycleHoursAtEnd:   16.75,
	}
	trip.CreatedAt = createdAt
	return trip
}

func TestSqliteTripRepositorySaveAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	trip := sampleTrip("Phoenix, AZ", "Tucson, AZ", "El Paso, TX", time.Now().UTC())
	if err := repo.Save(ctx, trip); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(ctx, trip.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.ID != trip.ID {
		t.Errorf("id = %v, want %v", got.ID, trip.ID)
	}
	if got.PickupLocation != "Tucson, AZ" {
		t.Errorf("pickup = %q, want Tucson, AZ", got.PickupLocation)
	}
	if len(got.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(got.Events))
	}
	if got.Events[1].Miles == nil || *got.Events[1].Miles != 220 {
		t.Errorf("driving event miles not preserved: %+v", got.Events[1])
	}
	if len(got.DailyLogs) != 1 {
		t.Fatalf("daily logs = %d, want 1", len(got.DailyLogs))
	}
	if got.DailyLogs[0].Totals[domain.StatusDriving] != 4 {
		t.Errorf("stored driving total = %v, want 4", got.DailyLogs[0].Totals[domain.StatusDriving])
	}
	if got.Summary != trip.Summary {
		t.Errorf("summary = %+v, want %+v", got.Summary, trip.Summary)
	}
}

func TestSqliteTripRepositoryGetMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), "8f9f0f6e-0000-0000-0000-000000000000")
	if !errors.Is(err, ports.ErrTripNotFound) {
		t.Fatalf("err = %v, want ErrTripNotFound", err)
	}
}

func TestSqliteTripRepositoryListSearchAndPaging(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	trips := []*domain.Trip{
		sampleTrip("Phoenix, AZ", "Tucson, AZ", "El Paso, TX", base),
		sampleTrip("Denver, CO", "Salt Lake City, UT", "Boise, ID", base.Add(time.Hour)),
		sampleTrip("Phoenix, AZ", "Flagstaff, AZ", "Las Vegas, NV", base.Add(2*time.Hour)),
	}
	for _, trip := range trips {
		if err := repo.Save(ctx, trip); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	page, err := repo.List(ctx, "", 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalCount != 3 || page.TotalPages != 2 || len(page.Trips) != 2 {
		t.Fatalf("page = {count:%d pages:%d len:%d}, want {3 2 2}", page.TotalCount, page.TotalPages, len(page.Trips))
	}
	// Newest first.
	if page.Trips[0].PickupLocation != "Flagstaff, AZ" {
		t.Errorf("first trip pickup = %q, want Flagstaff, AZ", page.Trips[0].PickupLocation)
	}

	second, err := repo.List(ctx, "", 2, 2)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(second.Trips) != 1 {
		t.Fatalf("page 2 len = %d, want 1", len(second.Trips))
	}

	filtered, err := repo.List(ctx, "Phoenix", 1, 10)
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if filtered.TotalCount != 2 {
		t.Errorf("filtered count = %d, want 2", filtered.TotalCount)
	}
}

func TestSqliteTripRepositoryDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	trip := sampleTrip("A", "B", "C", time.Now().UTC())
	if err := repo.Save(ctx, trip); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := repo.Delete(ctx, trip.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, trip.ID.String()); !errors.Is(err, ports.ErrTripNotFound) {
		t.Fatalf("second delete err = %v, want ErrTripNotFound", err)
	}
	if _, err := repo.Get(ctx, trip.ID.String()); !errors.Is(err, ports.ErrTripNotFound) {
		t.Fatalf("get after delete err = %v, want ErrTripNotFound", err)
	}
}
