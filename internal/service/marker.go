package service

import (
	"context"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dkoval/warmap/internal/domain"
	"github.com/dkoval/warmap/internal/repository"
)

const (
	markerLabelMaxLen = 100
	baseNoteMaxLen    = 200
	baseStrengthMin   = 1
	baseStrengthMax   = 5
	baseClanTagMaxLen = 20
)

// MarkerInput describes a marker being placed on a map session
type MarkerInput struct {
	SessionID string
	Kind      domain.MarkerKind
	X         float64
	Y         float64
	Label     string
	Base      *domain.BaseProfile
}

// MarkerService handles business logic for map markers
type MarkerService struct {
	markerRepo  repository.MarkerRepository
	sessionRepo repository.SessionRepository
	teamRepo    repository.TeamRepository
	audit       *AuditService
}

// NewMarkerService creates a new MarkerService
func NewMarkerService(
	markerRepo repository.MarkerRepository,
	sessionRepo repository.SessionRepository,
	teamRepo repository.TeamRepository,
	audit *AuditService,
) *MarkerService {
	return &MarkerService{
		markerRepo:  markerRepo,
		sessionRepo: sessionRepo,
		teamRepo:    teamRepo,
		audit:       audit,
	}
}

// AddMarker places a marker on a session's map. Only members of the
// session's team can place markers; an enemy-base profile is accepted
// only on ENEMY_BASE markers.
func (s *MarkerService) AddMarker(ctx context.Context, userID string, input MarkerInput) (*domain.Marker, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := validateMarkerInput(input); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if err := s.requireMember(ctx, session.TeamID, userID); err != nil {
		return nil, err
	}

	marker := &domain.Marker{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Kind:      input.Kind,
		X:         input.X,
		Y:         input.Y,
		Label:     input.Label,
		Base:      input.Base,
		CreatedBy: userID,
	}

	if err := s.markerRepo.Create(ctx, marker); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &userID, domain.ActionCreate, domain.EntityMarker, marker.ID)

	return s.markerRepo.GetByID(ctx, marker.ID)
}

// ListMarkers returns all markers of a session visible to the user
func (s *MarkerService) ListMarkers(ctx context.Context, userID, sessionID string) ([]*domain.Marker, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if sessionID == "" {
		return nil, domain.NewValidationError("session_id", "must not be empty")
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.requireMember(ctx, session.TeamID, userID); err != nil {
		return nil, err
	}

	return s.markerRepo.ListBySession(ctx, sessionID)
}

// DeleteMarker removes a marker. Only its author may delete it.
func (s *MarkerService) DeleteMarker(ctx context.Context, userID, markerID string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	if markerID == "" {
		return domain.NewValidationError("marker_id", "must not be empty")
	}

	marker, err := s.markerRepo.GetByID(ctx, markerID)
	if err != nil {
		return err
	}

	if marker.CreatedBy != userID {
		return domain.ErrForbidden
	}

	if err := s.markerRepo.Delete(ctx, markerID); err != nil {
		return err
	}

	s.audit.Record(ctx, &userID, domain.ActionDelete, domain.EntityMarker, markerID)

	return nil
}

func (s *MarkerService) requireMember(ctx context.Context, teamID, userID string) error {
	isMember, err := s.teamRepo.IsMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return domain.ErrForbidden
	}
	return nil
}

func validateMarkerInput(input MarkerInput) error {
	if input.SessionID == "" {
		return domain.NewValidationError("session_id", "must not be empty")
	}
	if !domain.IsValidMarkerKind(input.Kind) {
		return domain.NewValidationError("kind", "unknown marker kind")
	}
	if utf8.RuneCountInString(input.Label) > markerLabelMaxLen {
		return domain.NewValidationError("label", "must be at most 100 characters")
	}

	if input.Base != nil {
		if input.Kind != domain.MarkerEnemyBase {
			return domain.NewValidationError("base", "base profile is allowed only for ENEMY_BASE markers")
		}
		if input.Base.Strength != 0 && (input.Base.Strength < baseStrengthMin || input.Base.Strength > baseStrengthMax) {
			return domain.NewValidationError("base.strength", "must be between 1 and 5")
		}
		if utf8.RuneCountInString(input.Base.ClanTag) > baseClanTagMaxLen {
			return domain.NewValidationError("base.clan_tag", "must be at most 20 characters")
		}
		if utf8.RuneCountInString(input.Base.Note) > baseNoteMaxLen {
			return domain.NewValidationError("base.note", "must be at most 200 characters")
		}
	}

	return nil
}
