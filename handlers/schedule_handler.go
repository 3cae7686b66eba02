package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// Schedule runs the court scheduler over the division's unplayed matches.
// A partial fit still returns 200; the body's success flag and diagnostics
// tell the operator what did not fit.
func (h *ScheduleHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.ScheduleDivision(r.Context(), chi.URLParam(r, "divisionID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	report, err := h.scheduleService.CheckCapacity(r.Context(), chi.URLParam(r, "divisionID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, report, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
