package api

import (
	"encoding/json"
	"net/http"
	"time"

	"farewatch-service/internal/domain/repository"
	"farewatch-service/internal/usecase"
	"farewatch-service/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// Handler serves the trigger surface: manual checks, batch runs and
// read-only monitoring views.
type Handler struct {
	monitor     *usecase.PriceMonitor
	flightRepo  repository.FlightRepository
	historyRepo repository.PriceHistoryRepository
	version     string
	logger      logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	monitor *usecase.PriceMonitor,
	flightRepo repository.FlightRepository,
	historyRepo repository.PriceHistoryRepository,
	version string,
	logger logger.Logger,
) *Handler {
	return &Handler{
		monitor:     monitor,
		flightRepo:  flightRepo,
		historyRepo: historyRepo,
		version:     version,
		logger:      logger,
	}
}

// Health reports service liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   h.version,
	})
}

// CheckFlight triggers an immediate price check for one flight
func (h *Handler) CheckFlight(w http.ResponseWriter, r *http.Request) {
	flightID := chi.URLParam(r, "flightID")

	result, err := h.monitor.CheckOne(r.Context(), flightID)
	if err != nil {
		h.logger.Error("Manual check failed", "flightId", flightID, "error", err)
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": result.Results,
	})
}

// RunMonitor triggers a full batch cycle
func (h *Handler) RunMonitor(w http.ResponseWriter, r *http.Request) {
	result, err := h.monitor.CheckAll(r.Context())
	if err != nil {
		h.logger.Error("Batch run failed", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"flights_checked": result.FlightsChecked,
		"notified":        result.Notified,
		"failed":          result.Failed,
		"results":         result.Results,
	})
}

// MonitorStatus summarises monitoring state across all flights
func (h *Handler) MonitorStatus(w http.ResponseWriter, r *http.Request) {
	flights, err := h.flightRepo.ListAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	active := 0
	summaries := make([]map[string]interface{}, 0, len(flights))
	for _, f := range flights {
		if f.MonitoringEnabled {
			active++
		}
		summaries = append(summaries, map[string]interface{}{
			"id":                 f.ID,
			"description":        f.Description,
			"route":              f.Route(),
			"monitoring_enabled": f.MonitoringEnabled,
			"last_checked":       f.LastChecked,
			"current_price":      f.CurrentPrice,
			"lowest_price":       f.LowestPrice,
			"original_price":     f.OriginalPrice,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"total_flights":    len(flights),
		"active_flights":   active,
		"inactive_flights": len(flights) - active,
		"flights":          summaries,
	})
}

// PriceHistory returns recorded price points for one flight
func (h *Handler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	flightID := chi.URLParam(r, "flightID")

	if _, err := h.flightRepo.GetByID(r.Context(), flightID); err != nil {
		respondError(w, http.StatusNotFound, "flight not found")
		return
	}

	points, err := h.historyRepo.FindByFlight(r.Context(), flightID, 100)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"flight_id":     flightID,
		"price_history": points,
		"count":         len(points),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
