package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dkoval/warmap/internal/middleware"
	"github.com/dkoval/warmap/internal/service"
)

// TeamHandler обрабатывает эндпоинты команд
type TeamHandler struct {
	teamService *service.TeamService
}

// NewTeamHandler создает новый TeamHandler
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// CreateTeamRequest представляет тело запроса на создание команды
type CreateTeamRequest struct {
	Name string `json:"name"`
}

// CreateTeam обрабатывает POST /team/create
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	team, err := h.teamService.CreateTeam(r.Context(), req.Name, userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, team)
}

// CreateGuestTeamRequest представляет тело запроса на создание гостевой команды
type CreateGuestTeamRequest struct {
	Name      string `json:"name"`
	GuestName string `json:"guestName"`
}

// CreateGuestTeam обрабатывает POST /team/createGuest.
// Эндпоинт публичный: гостевая команда создается без аутентификации,
// гостевой токен возвращается создателю ровно один раз.
func (h *TeamHandler) CreateGuestTeam(w http.ResponseWriter, r *http.Request) {
	var req CreateGuestTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	result, err := h.teamService.CreateGuestTeam(r.Context(), req.Name, req.GuestName)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, result)
}

// JoinTeamRequest представляет тело запроса на вступление в команду
type JoinTeamRequest struct {
	Code string `json:"code"`
}

// JoinTeam обрабатывает POST /team/join
func (h *TeamHandler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	var req JoinTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	team, err := h.teamService.JoinTeam(r.Context(), req.Code, userID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, team)
}

// GetTeam обрабатывает GET /team/get?code=...
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "code query parameter is required")
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), code)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, team)
}
