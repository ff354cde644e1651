package service

import (
	"context"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dkoval/warmap/internal/domain"
	"github.com/dkoval/warmap/internal/repository"
)

const sessionNameMaxLen = 50

// SessionService handles business logic for map sessions
type SessionService struct {
	sessionRepo repository.SessionRepository
	teamRepo    repository.TeamRepository
	audit       *AuditService
}

// NewSessionService creates a new SessionService
func NewSessionService(sessionRepo repository.SessionRepository, teamRepo repository.TeamRepository, audit *AuditService) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		teamRepo:    teamRepo,
		audit:       audit,
	}
}

// CreateSession opens a new map session for a team. Only team members can
// open sessions.
func (s *SessionService) CreateSession(ctx context.Context, userID, teamID, name, mapName string) (*domain.MapSession, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := validateSessionName("name", name); err != nil {
		return nil, err
	}
	if err := validateSessionName("map_name", mapName); err != nil {
		return nil, err
	}

	if err := s.requireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}

	session := &domain.MapSession{
		ID:        uuid.NewString(),
		TeamID:    teamID,
		Name:      name,
		MapName:   mapName,
		CreatedBy: userID,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &userID, domain.ActionCreate, domain.EntitySession, session.ID)

	// Return the persisted session
	return s.sessionRepo.GetByID(ctx, session.ID)
}

// ListSessions returns all sessions of a team the user is a member of
func (s *SessionService) ListSessions(ctx context.Context, userID, teamID string) ([]*domain.MapSession, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if teamID == "" {
		return nil, domain.NewValidationError("team_id", "must not be empty")
	}

	if err := s.requireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}

	return s.sessionRepo.ListByTeam(ctx, teamID)
}

func (s *SessionService) requireMember(ctx context.Context, teamID, userID string) error {
	isMember, err := s.teamRepo.IsMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return domain.ErrForbidden
	}
	return nil
}

func validateSessionName(field, value string) error {
	length := utf8.RuneCountInString(value)
	if length == 0 {
		return domain.NewValidationError(field, "must not be empty")
	}
	if length > sessionNameMaxLen {
		return domain.NewValidationError(field, "must be at most 50 characters")
	}
	return nil
}
