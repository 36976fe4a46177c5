package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"hos-trip-service/internal/ports"
)

// ExportCSV streams the per-day duty log grid for a stored trip as a CSV
// attachment.
func (h *TripHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "trip id is required")
		return
	}

	trip, err := h.Repo.Get(r.Context(), id)
	if errors.Is(err, ports.ErrTripNotFound) {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		log.Printf("export trip failed: id=%s err=%v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=trip_%s_logs.csv", trip.ID))
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	record := []string{"Day", "Date", "Status", "Start Hour", "End Hour", "Duration", "Description", "Location"}
	if err := cw.Write(record); err != nil {
		log.Printf("csv write failed: id=%s err=%v", id, err)
		return
	}
	for _, day := range trip.DailyLogs {
		for _, act := range day.Activities {
			record = []string{
				strconv.Itoa(day.DayNumber),
				day.Date.Format("2006-01-02"),
				string(act.Status),
				formatHours(act.StartHour),
				formatHours(act.EndHour),
				formatHours(act.Duration),
				act.Description,
				act.Location,
			}
			if err := cw.Write(record); err != nil {
				log.Printf("csv write failed: id=%s err=%v", id, err)
				return
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Printf("csv flush failed: id=%s err=%v", id, err)
	}
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
