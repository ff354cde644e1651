package handler

import (
	"net/http"
	"strconv"

	"github.com/dkoval/warmap/internal/domain"
	"github.com/dkoval/warmap/internal/service"
)

// AdminHandler обрабатывает эндпоинты админ-панели
type AdminHandler struct {
	statsService *service.StatsService
	auditService *service.AuditService
}

// NewAdminHandler создает новый AdminHandler
func NewAdminHandler(statsService *service.StatsService, auditService *service.AuditService) *AdminHandler {
	return &AdminHandler{
		statsService: statsService,
		auditService: auditService,
	}
}

// GetStats обрабатывает GET /admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetStats(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, stats)
}

// ListAuditResponse представляет ответ со списком записей журнала
type ListAuditResponse struct {
	Records []*domain.AuditRecord `json:"records"`
}

// ListAudit обрабатывает GET /admin/audit?limit=...
func (h *AdminHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "limit must be an integer")
			return
		}
		limit = parsed
	}

	records, err := h.auditService.List(r.Context(), limit)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ListAuditResponse{Records: records})
}
