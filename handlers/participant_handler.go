package handlers

import (
	"net/http"

	"github.com/nexusarena/tournament-service/middleware"
	"github.com/nexusarena/tournament-service/services"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
}

func NewParticipantHandler(ps services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: ps,
	}
}

// RegisterHandler godoc
// @Summary Register a participant for a tournament
// @Tags participants
// @Description Appends a participant to the roster if capacity remains and the email is not already registered.
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body services.RegisterParticipantInput true "Registration payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Validation, capacity, or duplicate email"
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/register [post]
func (h *ParticipantHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getObjectIDFromURL(r, "tournamentID")
	if err != nil {
		notFoundResponse(w, r, services.ErrTournamentNotFound.Error())
		return
	}

	var input services.RegisterParticipantInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.participantService.Register(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message":      "registration successful",
		"tournamentId": result.TournamentID,
		"gameName":     result.GameName,
		"dateTime":     result.DateTime,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateStatusHandler godoc
// @Summary Overwrite one participant's status
// @Tags participants
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body services.UpdateParticipantStatusInput true "Participant id and new status"
// @Success 200 {object} models.Participant
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/participants [put]
func (h *ParticipantHandler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getObjectIDFromURL(r, "tournamentID")
	if err != nil {
		notFoundResponse(w, r, services.ErrTournamentNotFound.Error())
		return
	}

	var input services.UpdateParticipantStatusInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.participantService.UpdateStatus(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, participant, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler godoc
// @Summary Full ordered roster for one tournament
// @Tags participants
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {array} models.Participant
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/participants [get]
func (h *ParticipantHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getObjectIDFromURL(r, "tournamentID")
	if err != nil {
		notFoundResponse(w, r, services.ErrTournamentNotFound.Error())
		return
	}

	participants, err := h.participantService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, participants, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UserHistoryHandler godoc
// @Summary Tournament history for the authenticated user
// @Tags participants
// @Produce json
// @Success 200 {array} models.TournamentHistoryEntry
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/user/history [get]
func (h *ParticipantHandler) UserHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	history, err := h.participantService.UserHistory(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, history, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
