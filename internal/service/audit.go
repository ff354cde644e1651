package service

import (
	"context"
	"log/slog"

	"github.com/dkoval/warmap/internal/domain"
	"github.com/dkoval/warmap/internal/repository"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 500
)

// AuditService records and lists the action log
type AuditService struct {
	auditRepo repository.AuditRepository
	logger    *slog.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo repository.AuditRepository, logger *slog.Logger) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record appends an audit record. Best effort: a failed append is logged
// but never fails the operation being audited.
func (s *AuditService) Record(ctx context.Context, userID *string, action, entity, entityID string) {
	record := &domain.AuditRecord{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	}

	if err := s.auditRepo.Append(ctx, record); err != nil {
		s.logger.Error("Failed to append audit record",
			"action", action, "entity", entity, "entity_id", entityID, "error", err)
	}
}

// List returns the most recent audit records, newest first
func (s *AuditService) List(ctx context.Context, limit int) ([]*domain.AuditRecord, error) {
	if limit <= 0 {
		limit = auditDefaultLimit
	}
	if limit > auditMaxLimit {
		limit = auditMaxLimit
	}

	return s.auditRepo.List(ctx, limit)
}
