package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dkoval/warmap/internal/domain"
	"github.com/dkoval/warmap/internal/repository"
)

// codeRetryAttempts bounds the collision pre-check loop in team creation.
// The loop only reduces contention; correctness rests on the teams.code
// unique constraint.
const codeRetryAttempts = 10

const (
	teamNameMinLen  = 2
	teamNameMaxLen  = 30
	guestNameMinLen = 1
	guestNameMaxLen = 20
)

// GuestTeamResult is returned to a guest team's creator. GuestToken is
// handed out exactly once and must be treated as a secret by the caller.
type GuestTeamResult struct {
	Code       string `json:"code"`
	GuestToken string `json:"guestToken"`
	TeamName   string `json:"teamName"`
}

// TeamService handles team provisioning: guest-team creation, owned-team
// creation and the join workflow
type TeamService struct {
	teamRepo repository.TeamRepository
	codegen  *CodeGenerator
	audit    *AuditService
}

// NewTeamService creates a new TeamService
func NewTeamService(teamRepo repository.TeamRepository, codegen *CodeGenerator, audit *AuditService) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		codegen:  codegen,
		audit:    audit,
	}
}

// CreateGuestTeam creates a team anonymously: generates a unique join code
// and a guest token, persists the team with no members
func (s *TeamService) CreateGuestTeam(ctx context.Context, name, guestName string) (*GuestTeamResult, error) {
	if err := validateTeamName(name); err != nil {
		return nil, err
	}
	if err := validateGuestName(guestName); err != nil {
		return nil, err
	}

	code, err := s.pickCode(ctx)
	if err != nil {
		return nil, err
	}

	token, err := s.codegen.GenerateGuestToken()
	if err != nil {
		return nil, err
	}

	team := domain.NewGuestTeam(uuid.NewString(), name, code, token)
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, nil, domain.ActionCreate, domain.EntityTeam, team.ID)

	return &GuestTeamResult{
		Code:       code,
		GuestToken: token,
		TeamName:   name,
	}, nil
}

// CreateTeam creates a team owned by an authenticated user and attaches
// the creator as its OWNER member
func (s *TeamService) CreateTeam(ctx context.Context, name, ownerUserID string) (*domain.TeamView, error) {
	if ownerUserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := validateTeamName(name); err != nil {
		return nil, err
	}

	code, err := s.pickCode(ctx)
	if err != nil {
		return nil, err
	}

	team := domain.NewOwnedTeam(uuid.NewString(), name, code, ownerUserID)
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	if err := s.teamRepo.AddMember(ctx, team.ID, ownerUserID, domain.RoleOwner); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &ownerUserID, domain.ActionCreate, domain.EntityTeam, team.ID)

	return s.teamRepo.GetView(ctx, team.ID)
}

// JoinTeam adds an authenticated user to the team behind the given code
// and returns the enriched team view. A duplicate join is rejected with
// ErrAlreadyMember; the (team_id, user_id) unique constraint is the
// authority if two joins race past the pre-check.
func (s *TeamService) JoinTeam(ctx context.Context, code, userID string) (*domain.TeamView, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	code, err := normalizeJoinCode(code)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	members, err := s.teamRepo.GetMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	if domain.HasMember(members, userID) {
		return nil, domain.ErrAlreadyMember
	}

	if err := s.teamRepo.AddMember(ctx, team.ID, userID, domain.RoleMember); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &userID, domain.ActionJoin, domain.EntityTeam, team.ID)

	return s.teamRepo.GetView(ctx, team.ID)
}

// GetTeam returns the enriched view of the team behind the given code
func (s *TeamService) GetTeam(ctx context.Context, code string) (*domain.TeamView, error) {
	code, err := normalizeJoinCode(code)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return s.teamRepo.GetView(ctx, team.ID)
}

// pickCode generates a join code, retrying on registry collisions up to
// codeRetryAttempts. After exhaustion the last candidate is used anyway
// and the storage unique constraint settles it.
func (s *TeamService) pickCode(ctx context.Context) (string, error) {
	var code string
	for attempt := 0; attempt < codeRetryAttempts; attempt++ {
		generated, err := s.codegen.GenerateJoinCode()
		if err != nil {
			return "", err
		}
		code = generated

		exists, err := s.teamRepo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
	}

	return code, nil
}

// normalizeJoinCode validates the shape of a join code and uppercases it,
// making lookups case-insensitive for the caller
func normalizeJoinCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if utf8.RuneCountInString(code) != joinCodeLength {
		return "", domain.NewValidationError("code", "must be exactly 6 characters")
	}
	return code, nil
}

func validateTeamName(name string) error {
	length := utf8.RuneCountInString(name)
	if length < teamNameMinLen {
		return domain.NewValidationError("name", "must be at least 2 characters")
	}
	if length > teamNameMaxLen {
		return domain.NewValidationError("name", "must be at most 30 characters")
	}
	return nil
}

func validateGuestName(guestName string) error {
	length := utf8.RuneCountInString(guestName)
	if length < guestNameMinLen {
		return domain.NewValidationError("guestName", "must not be empty")
	}
	if length > guestNameMaxLen {
		return domain.NewValidationError("guestName", "must be at most 20 characters")
	}
	return nil
}
