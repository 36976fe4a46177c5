package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hos-trip-service/internal/api/dto"
	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/ports"
	"hos-trip-service/internal/services"
)

// TripHandler exposes HOS trip calculation and retrieval endpoints.
type TripHandler struct {
	Repo     ports.TripRepository
	Provider ports.DistanceProvider
	Rules    domain.HOSRules
	// Now supplies the anchor date for trips that don't pin one; separated
	// out so handler tests stay deterministic.
	Now func() time.Time
}

func (h *TripHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Calculate resolves the route, simulates the HOS schedule, stores the trip
// and returns the full result.
func (h *TripHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.CalculateTripRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if strings.TrimSpace(req.CurrentLocation) == "" ||
		strings.TrimSpace(req.PickupLocation) == "" ||
		strings.TrimSpace(req.DropoffLocation) == "" {
		writeError(w, r, http.StatusBadRequest, "current_location, pickup_location and dropoff_location are required")
		return
	}
	if req.CurrentCycleUsed < 0 || req.CurrentCycleUsed > 70 {
		writeError(w, r, http.StatusBadRequest, "current_cycle_used must be between 0 and 70")
		return
	}

	startDate := dateOnly(h.now())
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		startDate = parsed
	}

	trip, err := services.PlanTrip(r.Context(), services.PlanTripRequest{
		CurrentLocation:  req.CurrentLocation,
		PickupLocation:   req.PickupLocation,
		DropoffLocation:  req.DropoffLocation,
		CurrentCycleUsed: req.CurrentCycleUsed,
		StartDate:        startDate,
	}, h.Rules, h.Provider, h.Repo)
	if err != nil {
		log.Printf("calculate trip failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CalculateTripResponse{
		TripID:    trip.ID.String(),
		Route:     dto.RouteFromTrip(trip),
		Events:    trip.Events,
		DailyLogs: dto.DailyLogsFromDomain(trip.DailyLogs),
		Summary:   trip.Summary,
	})
}

// List returns stored trips, newest first, with optional location search.
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query().Get("q")
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 10)
	if page < 1 || pageSize < 1 || pageSize > 100 {
		writeError(w, r, http.StatusBadRequest, "page must be >= 1 and page_size between 1 and 100")
		return
	}

	result, err := h.Repo.List(r.Context(), query, page, pageSize)
	if err != nil {
		log.Printf("list trips failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListTripsResponse{
		Trips:       make([]dto.TripListItem, 0, len(result.Trips)),
		TotalCount:  result.TotalCount,
		TotalPages:  result.TotalPages,
		CurrentPage: result.Page,
		HasNext:     result.Page < result.TotalPages,
		HasPrevious: result.Page > 1,
	}
	for _, trip := range result.Trips {
		res.Trips = append(res.Trips, dto.TripListItem{
			ID:                trip.ID.String(),
			CurrentLocation:   trip.CurrentLocation,
			PickupLocation:    trip.PickupLocation,
			DropoffLocation:   trip.DropoffLocation,
			CurrentCycleUsed:  trip.CurrentCycleUsed,
			TotalMiles:        trip.TotalMiles,
			NumberOfDays:      trip.Summary.TotalDays,
			TotalDrivingHours: trip.Summary.TotalDrivingHours,
			TotalDutyHours:    trip.Summary.TotalDutyHours,
			CreatedAt:         trip.CreatedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Item dispatches GET (retrieve) and DELETE for a single trip.
func (h *TripHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "trip id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		w.Header().Set("Allow", "GET, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *TripHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	trip, err := h.Repo.Get(r.Context(), id)
	if errors.Is(err, ports.ErrTripNotFound) {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		log.Printf("get trip failed: id=%s err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GetTripResponse{
		ID: trip.ID.String(),
		FormData: dto.TripFormData{
			CurrentLocation:  trip.CurrentLocation,
			PickupLocation:   trip.PickupLocation,
			DropoffLocation:  trip.DropoffLocation,
			CurrentCycleUsed: trip.CurrentCycleUsed,
		},
		Result: dto.TripResult{
			Route:     dto.RouteFromTrip(trip),
			Events:    trip.Events,
			DailyLogs: dto.DailyLogsFromDomain(trip.DailyLogs),
			Summary:   trip.Summary,
		},
		Timestamp: trip.CreatedAt.UnixMilli(),
	})
}

func (h *TripHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.Repo.Delete(r.Context(), id)
	if errors.Is(err, ports.ErrTripNotFound) {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		log.Printf("delete trip failed: id=%s err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return v
}
