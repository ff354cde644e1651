package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoval/warmap/internal/domain"
)

// fakeTeamRepo is an in-memory TeamRepository. The mutex plus the
// duplicate checks in Create/AddMember stand in for the storage-level
// unique constraints.
type fakeTeamRepo struct {
	mu      sync.Mutex
	teams   map[string]*domain.Team        // keyed by code
	members map[string][]domain.TeamMember // keyed by team ID

	// forceCollisions makes the first N CodeExists calls report a taken code
	forceCollisions int

	existsCalls    int
	createCalls    int
	addMemberCalls int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:   make(map[string]*domain.Team),
		members: make(map[string][]domain.TeamMember),
	}
}

func (r *fakeTeamRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.existsCalls + r.createCalls + r.addMemberCalls
}

func (r *fakeTeamRepo) Create(ctx context.Context, team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.createCalls++
	if _, taken := r.teams[team.Code]; taken {
		return fmt.Errorf("duplicate key value violates unique constraint \"teams_code_key\"")
	}
	r.teams[team.Code] = team
	return nil
}

func (r *fakeTeamRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.existsCalls++
	if r.forceCollisions > 0 {
		r.forceCollisions--
		return true, nil
	}
	_, taken := r.teams[code]
	return taken, nil
}

func (r *fakeTeamRepo) GetByCode(ctx context.Context, code string) (*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, ok := r.teams[code]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	return team, nil
}

func (r *fakeTeamRepo) GetMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members[teamID], nil
}

func (r *fakeTeamRepo) AddMember(ctx context.Context, teamID, userID string, role domain.TeamRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.addMemberCalls++
	for _, m := range r.members[teamID] {
		if m.UserID == userID {
			return domain.ErrAlreadyMember
		}
	}
	r.members[teamID] = append(r.members[teamID], domain.TeamMember{
		UserID:   userID,
		Username: "user-" + userID,
		Role:     role,
	})
	return nil
}

func (r *fakeTeamRepo) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.members[teamID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTeamRepo) GetView(ctx context.Context, teamID string) (*domain.TeamView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, team := range r.teams {
		if team.ID == teamID {
			members := r.members[teamID]
			return &domain.TeamView{
				ID:          team.ID,
				Name:        team.Name,
				Code:        team.Code,
				Members:     members,
				MemberCount: len(members),
			}, nil
		}
	}
	return nil, domain.ErrTeamNotFound
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	records []*domain.AuditRecord
}

func (r *fakeAuditRepo) Append(ctx context.Context, record *domain.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *fakeAuditRepo) List(ctx context.Context, limit int) ([]*domain.AuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.records) {
		limit = len(r.records)
	}
	return r.records[:limit], nil
}

func newTestTeamService(repo *fakeTeamRepo) *TeamService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	audit := NewAuditService(&fakeAuditRepo{}, logger)
	return NewTeamService(repo, NewCodeGenerator(), audit)
}

func TestCreateGuestTeam_Success(t *testing.T) {
	repo := newFakeTeamRepo()
	svc := newTestTeamService(repo)

	result, err := svc.CreateGuestTeam(context.Background(), "Night Raid", "Ghost")
	require.NoError(t, err)

	assert.Regexp(t, joinCodePattern, result.Code)
	assert.Regexp(t, guestTokenPattern, result.GuestToken)
	assert.Equal(t, "Night Raid", result.TeamName)

	team, err := repo.GetByCode(context.Background(), result.Code)
	require.NoError(t, err)
	assert.True(t, team.IsGuest())
	assert.Nil(t, team.OwnerUserID)
	require.NotNil(t, team.GuestToken)
	assert.Equal(t, result.GuestToken, *team.GuestToken)

	// Guest teams start with zero members
	members, err := repo.GetMembers(context.Background(), team.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestCreateGuestTeam_ValidationBeforePersistence(t *testing.T) {
	tests := []struct {
		name      string
		teamName  string
		guestName string
	}{
		{"team name too short", "A", "Ghost"},
		{"team name too long", "0123456789012345678901234567890", "Ghost"},
		{"guest name empty", "Night Raid", ""},
		{"guest name too long", "Night Raid", "012345678901234567890"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeTeamRepo()
			svc := newTestTeamService(repo)

			_, err := svc.CreateGuestTeam(context.Background(), tc.teamName, tc.guestName)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "expected validation error, got %v", err)

			// The registry must not be touched on validation failure
			assert.Zero(t, repo.calls())
		})
	}
}

func TestCreateGuestTeam_RetriesOnCollision(t *testing.T) {
	repo := newFakeTeamRepo()
	repo.forceCollisions = 3
	svc := newTestTeamService(repo)

	result, err := svc.CreateGuestTeam(context.Background(), "Night Raid", "Ghost")
	require.NoError(t, err)
	assert.Regexp(t, joinCodePattern, result.Code)

	// 3 collisions plus the free candidate
	assert.Equal(t, 4, repo.existsCalls)
	assert.Equal(t, 1, repo.createCalls)
}

func TestCreateGuestTeam_RetryExhaustionStillPersists(t *testing.T) {
	repo := newFakeTeamRepo()
	repo.forceCollisions = 100 // every pre-check reports a collision
	svc := newTestTeamService(repo)

	// After 10 attempts the last candidate is used anyway; the fake's
	// storage has no real duplicate so the insert goes through
	result, err := svc.CreateGuestTeam(context.Background(), "Night Raid", "Ghost")
	require.NoError(t, err)
	assert.Regexp(t, joinCodePattern, result.Code)

	assert.Equal(t, 10, repo.existsCalls)
	assert.Equal(t, 1, repo.createCalls)
}

func TestCreateGuestTeam_Concurrent(t *testing.T) {
	repo := newFakeTeamRepo()
	svc := newTestTeamService(repo)

	const n = 50

	var wg sync.WaitGroup
	errs := make([]error, n)
	results := make([]*GuestTeamResult, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.CreateGuestTeam(context.Background(), "Night Raid", "Ghost")
		}(i)
	}
	wg.Wait()

	codes := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		codes[results[i].Code] = struct{}{}
	}
	assert.Len(t, codes, n, "all created teams must carry distinct codes")
}

func seedTeam(t *testing.T, repo *fakeTeamRepo, code string) *domain.Team {
	t.Helper()
	team := domain.NewGuestTeam("team-"+code, "Night Raid", code, "aaaabbbbccccddddaaaabbbbccccdddd")
	require.NoError(t, repo.Create(context.Background(), team))
	return team
}

func TestJoinTeam_Success(t *testing.T) {
	repo := newFakeTeamRepo()
	svc := newTestTeamService(repo)
	team := seedTeam(t, repo, "AB23CD")

	view, err := svc.JoinTeam(context.Background(), "AB23CD", "u1")
	require.NoError(t, err)

	assert.Equal(t, team.ID, view.ID)
	assert.Equal(t, 1, view.MemberCount)
	require.Len(t, view.Members, 1)
	assert.Equal(t, "u1", view.Members[0].UserID)
	assert.Equal(t, domain.RoleMember, view.Members[0].Role)
}

func TestJoinTeam_CodeIsCaseInsensitive(t *testing.T) {
	repo := newFakeTeamRepo()
	svc := newTestTeamService(repo)
	seedTeam(t, repo, "AB23CD")

	lower, err := svc.JoinTeam(context.Background(), "ab23cd", "u1")
	require.NoError(t, err)

	upper, err := svc.JoinTeam(context.Background(), "AB23CD", "u2")
	require.NoError(t, err)

	assert.Equal(t, lower.ID, upper.ID)
	assert.Equal(t, 2, upper.MemberCount)
}

func TestJoinTeam_DuplicateMembershipRejected(t *testing.T) {
	repo := newFakeTeamRepo()
	svc := newTestTeamService(repo)
	team := seedTeam(t, repo, "AB23CD")

	first, err := svc.JoinTeam(context.Background(), "AB23CD", "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, first.MemberCount)

	_, err = svc.JoinTeam(context.Background(), "AB23CD", "u1")
	require.ErrorIs(t, err, domain.ErrAlreadyMember)

	// Member count is unchanged after the rejected join
	members, err := repo.GetMembers(context.Background(), team.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestJoinTeam_UnknownCode(t *testing.T) {
	repo := newFakeTeamRepo()
	svc := newTestTeamService(repo)

	_, err := svc.JoinTeam(context.Background(), "ZZ9999", "u1")
	require.ErrorIs(t, err, domain.ErrTeamNotFound)
	assert.Zero(t, repo.addMemberCalls)
}

func TestJoinTeam_MalformedCode(t *testing.T) {
	repo := newFakeTeamRepo()
	svc := newTestTeamService(repo)

	for _, code := range []string{"", "ABC", "AB23CDX"} {
		_, err := svc.JoinTeam(context.Background(), code, "u1")
		require.Error(t, err, "code %q", code)
		assert.True(t, domain.IsValidation(err), "expected validation error for %q, got %v", code, err)
	}
	assert.Zero(t, repo.calls())
}

func TestJoinTeam_RequiresAuthenticatedUser(t *testing.T) {
	repo := newFakeTeamRepo()
	svc := newTestTeamService(repo)
	seedTeam(t, repo, "AB23CD")

	_, err := svc.JoinTeam(context.Background(), "AB23CD", "")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateTeam_OwnerBecomesMember(t *testing.T) {
	repo := newFakeTeamRepo()
	svc := newTestTeamService(repo)

	view, err := svc.CreateTeam(context.Background(), "Recon Squad", "owner-1")
	require.NoError(t, err)

	assert.Regexp(t, joinCodePattern, view.Code)
	require.Len(t, view.Members, 1)
	assert.Equal(t, "owner-1", view.Members[0].UserID)
	assert.Equal(t, domain.RoleOwner, view.Members[0].Role)

	team, err := repo.GetByCode(context.Background(), view.Code)
	require.NoError(t, err)
	assert.False(t, team.IsGuest())
	require.NotNil(t, team.OwnerUserID)
	assert.Equal(t, "owner-1", *team.OwnerUserID)
}
