package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/middleware"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/services"
)

type DivisionHandler struct {
	divisionService   services.DivisionService
	generationService services.GenerationService
	standingsService  services.StandingsService
}

func NewDivisionHandler(
	divisionService services.DivisionService,
	generationService services.GenerationService,
	standingsService services.StandingsService,
) *DivisionHandler {
	return &DivisionHandler{
		divisionService:   divisionService,
		generationService: generationService,
		standingsService:  standingsService,
	}
}

// Create godoc
// @Summary Create a division
// @Tags divisions
// @Accept json
// @Produce json
// @Success 201 {object} models.Division
// @Router /divisions [post]
func (h *DivisionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateDivisionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	division, err := h.divisionService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, division, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DivisionHandler) Get(w http.ResponseWriter, r *http.Request) {
	division, err := h.divisionService.Get(r.Context(), chi.URLParam(r, "divisionID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, division, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DivisionHandler) List(w http.ResponseWriter, r *http.Request) {
	divisions, err := h.divisionService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"divisions": divisions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DivisionHandler) AddParticipants(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Participants []services.ParticipantInput `json:"participants"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participants, err := h.divisionService.AddParticipants(r.Context(), chi.URLParam(r, "divisionID"), input.Participants)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DivisionHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.divisionService.ListParticipants(r.Context(), chi.URLParam(r, "divisionID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatches accepts an optional ?stage=pool|bracket filter.
func (h *DivisionHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	var stage *models.MatchStage
	if raw := r.URL.Query().Get("stage"); raw != "" {
		s := models.MatchStage(raw)
		if s != models.StagePool && s != models.StageBracket {
			badRequestResponse(w, r, fmt.Errorf("unknown stage %q", raw))
			return
		}
		stage = &s
	}
	matches, err := h.divisionService.ListMatches(r.Context(), chi.URLParam(r, "divisionID"), stage)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DivisionHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.standingsService.GetDivisionStandings(r.Context(), chi.URLParam(r, "divisionID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"pools": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Generate godoc
// @Summary Generate the division's opening stage
// @Tags divisions
// @Produce json
// @Success 201 {object} services.GenerationOutcome
// @Failure 409 {object} map[string]string
// @Router /divisions/{divisionID}/generate [post]
func (h *DivisionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.generationService.GenerateDivision(r.Context(), chi.URLParam(r, "divisionID"), requestActor(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, outcome, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DivisionHandler) GenerateKnockout(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.generationService.GenerateKnockout(r.Context(), chi.URLParam(r, "divisionID"), requestActor(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, outcome, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// requestActor identifies who triggered a generation for the lock's audit
// fields. Falls back to "system" on unauthenticated internal calls.
func requestActor(r *http.Request) string {
	if id, err := middleware.GetUserIDFromContext(r.Context()); err == nil {
		return "user:" + strconv.Itoa(id)
	}
	return "system"
}
