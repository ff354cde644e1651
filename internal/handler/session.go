package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dkoval/warmap/internal/domain"
	"github.com/dkoval/warmap/internal/middleware"
	"github.com/dkoval/warmap/internal/service"
)

// SessionHandler обрабатывает эндпоинты сессий карт
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler создает новый SessionHandler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// CreateSessionRequest представляет тело запроса на создание сессии
type CreateSessionRequest struct {
	TeamID  string `json:"team_id"`
	Name    string `json:"name"`
	MapName string `json:"map_name"`
}

// CreateSession обрабатывает POST /session/create
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.TeamID == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "team_id is required")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	session, err := h.sessionService.CreateSession(r.Context(), userID, req.TeamID, req.Name, req.MapName)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, session)
}

// ListSessionsResponse представляет ответ со списком сессий команды
type ListSessionsResponse struct {
	TeamID   string               `json:"team_id"`
	Sessions []*domain.MapSession `json:"sessions"`
}

// ListSessions обрабатывает GET /session/list?team_id=...
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	teamID := r.URL.Query().Get("team_id")
	if teamID == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "team_id query parameter is required")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	sessions, err := h.sessionService.ListSessions(r.Context(), userID, teamID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ListSessionsResponse{
		TeamID:   teamID,
		Sessions: sessions,
	})
}
