package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/services"
)

type MatchHandler struct {
	resultService services.ResultService
}

func NewMatchHandler(resultService services.ResultService) *MatchHandler {
	return &MatchHandler{resultService: resultService}
}

// ReportResult godoc
// @Summary Record the outcome of a match
// @Tags matches
// @Accept json
// @Produce json
// @Success 200 {object} models.Match
// @Router /matches/{matchID}/result [post]
func (h *MatchHandler) ReportResult(w http.ResponseWriter, r *http.Request) {
	var input services.ReportResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	match, err := h.resultService.ReportResult(r.Context(), chi.URLParam(r, "matchID"), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, match, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
