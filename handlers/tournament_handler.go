package handlers

import (
	"errors"
	"net/http"

	"github.com/nexusarena/tournament-service/services"
)

const maxUploadSize = 10 << 20 // 10MB

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
	}
}

// CreateHandler godoc
// @Summary Create a tournament
// @Tags tournaments
// @Accept json
// @Produce json
// @Param body body services.CreateTournamentInput true "Tournament payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, tournament, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler godoc
// @Summary Fetch one tournament
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} models.Tournament
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getObjectIDFromURL(r, "tournamentID")
	if err != nil {
		notFoundResponse(w, r, services.ErrTournamentNotFound.Error())
		return
	}

	tournament, err := h.tournamentService.GetTournamentByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, tournament, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler godoc
// @Summary List tournaments ordered by event date
// @Tags tournaments
// @Produce json
// @Success 200 {array} models.Tournament
// @Router /tournaments [get]
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.ListTournaments(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, tournaments, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler godoc
// @Summary Update tournament fields
// @Tags tournaments
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param body body services.UpdateTournamentInput true "Fields to replace"
// @Success 200 {object} models.Tournament
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID} [put]
func (h *TournamentHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getObjectIDFromURL(r, "tournamentID")
	if err != nil {
		notFoundResponse(w, r, services.ErrTournamentNotFound.Error())
		return
	}

	var input services.UpdateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.UpdateTournament(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, tournament, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler godoc
// @Summary Delete a tournament and its roster
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID} [delete]
func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getObjectIDFromURL(r, "tournamentID")
	if err != nil {
		notFoundResponse(w, r, services.ErrTournamentNotFound.Error())
		return
	}

	if err := h.tournamentService.DeleteTournament(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "tournament deleted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadImageHandler godoc
// @Summary Upload a tournament banner image
// @Tags tournaments
// @Accept mpfd
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param image formData file true "Banner image"
// @Success 200 {object} models.Tournament
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/image [post]
func (h *TournamentHandler) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getObjectIDFromURL(r, "tournamentID")
	if err != nil {
		notFoundResponse(w, r, services.ErrTournamentNotFound.Error())
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequestResponse(w, r, errors.New("request is not a valid multipart form"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		badRequestResponse(w, r, errors.New("image file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	tournament, err := h.tournamentService.UploadTournamentImage(r.Context(), id, contentType, header.Filename, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, tournament, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
