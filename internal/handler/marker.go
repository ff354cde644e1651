package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dkoval/warmap/internal/domain"
	"github.com/dkoval/warmap/internal/middleware"
	"github.com/dkoval/warmap/internal/service"
)

// MarkerHandler обрабатывает эндпоинты маркеров
type MarkerHandler struct {
	markerService *service.MarkerService
}

// NewMarkerHandler создает новый MarkerHandler
func NewMarkerHandler(markerService *service.MarkerService) *MarkerHandler {
	return &MarkerHandler{
		markerService: markerService,
	}
}

// AddMarkerRequest представляет тело запроса на добавление маркера
type AddMarkerRequest struct {
	SessionID string              `json:"session_id"`
	Kind      string              `json:"kind"`
	X         float64             `json:"x"`
	Y         float64             `json:"y"`
	Label     string              `json:"label"`
	Base      *domain.BaseProfile `json:"base,omitempty"`
}

// AddMarker обрабатывает POST /marker/add
func (h *MarkerHandler) AddMarker(w http.ResponseWriter, r *http.Request) {
	var req AddMarkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	marker, err := h.markerService.AddMarker(r.Context(), userID, service.MarkerInput{
		SessionID: req.SessionID,
		Kind:      domain.MarkerKind(req.Kind),
		X:         req.X,
		Y:         req.Y,
		Label:     req.Label,
		Base:      req.Base,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, marker)
}

// ListMarkersResponse представляет ответ со списком маркеров сессии
type ListMarkersResponse struct {
	SessionID string           `json:"session_id"`
	Markers   []*domain.Marker `json:"markers"`
}

// ListMarkers обрабатывает GET /marker/list?session_id=...
func (h *MarkerHandler) ListMarkers(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "session_id query parameter is required")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	markers, err := h.markerService.ListMarkers(r.Context(), userID, sessionID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ListMarkersResponse{
		SessionID: sessionID,
		Markers:   markers,
	})
}

// DeleteMarkerRequest представляет тело запроса на удаление маркера
type DeleteMarkerRequest struct {
	MarkerID string `json:"marker_id"`
}

// DeleteMarker обрабатывает POST /marker/delete
func (h *MarkerHandler) DeleteMarker(w http.ResponseWriter, r *http.Request) {
	var req DeleteMarkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	if err := h.markerService.DeleteMarker(r.Context(), userID, req.MarkerID); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}
