package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoval/warmap/internal/domain"
)

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.MapSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.MapSession)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *domain.MapSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, sessionID string) (*domain.MapSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (r *fakeSessionRepo) ListByTeam(ctx context.Context, teamID string) ([]*domain.MapSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.MapSession
	for _, s := range r.sessions {
		if s.TeamID == teamID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeMarkerRepo struct {
	mu      sync.Mutex
	markers map[string]*domain.Marker
}

func newFakeMarkerRepo() *fakeMarkerRepo {
	return &fakeMarkerRepo{markers: make(map[string]*domain.Marker)}
}

func (r *fakeMarkerRepo) Create(ctx context.Context, marker *domain.Marker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markers[marker.ID] = marker
	return nil
}

func (r *fakeMarkerRepo) GetByID(ctx context.Context, markerID string) (*domain.Marker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	marker, ok := r.markers[markerID]
	if !ok {
		return nil, domain.ErrMarkerNotFound
	}
	return marker, nil
}

func (r *fakeMarkerRepo) ListBySession(ctx context.Context, sessionID string) ([]*domain.Marker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Marker
	for _, m := range r.markers {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMarkerRepo) Delete(ctx context.Context, markerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.markers[markerID]; !ok {
		return domain.ErrMarkerNotFound
	}
	delete(r.markers, markerID)
	return nil
}

type markerFixture struct {
	svc      *MarkerService
	teamRepo *fakeTeamRepo
	session  *domain.MapSession
}

// newMarkerFixture seeds a team with one member ("u1") and one open session
func newMarkerFixture(t *testing.T) *markerFixture {
	t.Helper()

	teamRepo := newFakeTeamRepo()
	team := seedTeam(t, teamRepo, "AB23CD")
	require.NoError(t, teamRepo.AddMember(context.Background(), team.ID, "u1", domain.RoleMember))

	sessionRepo := newFakeSessionRepo()
	session := &domain.MapSession{
		ID:        "sess-1",
		TeamID:    team.ID,
		Name:      "Evening raid",
		MapName:   "Customs",
		CreatedBy: "u1",
	}
	require.NoError(t, sessionRepo.Create(context.Background(), session))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	audit := NewAuditService(&fakeAuditRepo{}, logger)
	svc := NewMarkerService(newFakeMarkerRepo(), sessionRepo, teamRepo, audit)

	return &markerFixture{svc: svc, teamRepo: teamRepo, session: session}
}

func TestAddMarker_Success(t *testing.T) {
	f := newMarkerFixture(t)

	marker, err := f.svc.AddMarker(context.Background(), "u1", MarkerInput{
		SessionID: f.session.ID,
		Kind:      domain.MarkerPin,
		X:         0.25,
		Y:         0.75,
		Label:     "extraction point",
	})
	require.NoError(t, err)

	assert.Equal(t, f.session.ID, marker.SessionID)
	assert.Equal(t, domain.MarkerPin, marker.Kind)
	assert.Equal(t, "u1", marker.CreatedBy)
	assert.Nil(t, marker.Base)
}

func TestAddMarker_EnemyBaseProfile(t *testing.T) {
	f := newMarkerFixture(t)

	marker, err := f.svc.AddMarker(context.Background(), "u1", MarkerInput{
		SessionID: f.session.ID,
		Kind:      domain.MarkerEnemyBase,
		X:         0.5,
		Y:         0.5,
		Label:     "fortified camp",
		Base: &domain.BaseProfile{
			ClanTag:  "WOLF",
			Strength: 4,
			Note:     "turrets on the north wall",
		},
	})
	require.NoError(t, err)

	require.NotNil(t, marker.Base)
	assert.Equal(t, "WOLF", marker.Base.ClanTag)
	assert.Equal(t, 4, marker.Base.Strength)
}

func TestAddMarker_ProfileValidation(t *testing.T) {
	f := newMarkerFixture(t)

	tests := []struct {
		name  string
		input MarkerInput
	}{
		{
			"profile on non-base marker",
			MarkerInput{SessionID: f.session.ID, Kind: domain.MarkerPin, Base: &domain.BaseProfile{ClanTag: "WOLF"}},
		},
		{
			"strength out of range",
			MarkerInput{SessionID: f.session.ID, Kind: domain.MarkerEnemyBase, Base: &domain.BaseProfile{Strength: 9}},
		},
		{
			"unknown kind",
			MarkerInput{SessionID: f.session.ID, Kind: "FLAG"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.AddMarker(context.Background(), "u1", tc.input)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestAddMarker_NonMemberForbidden(t *testing.T) {
	f := newMarkerFixture(t)

	_, err := f.svc.AddMarker(context.Background(), "outsider", MarkerInput{
		SessionID: f.session.ID,
		Kind:      domain.MarkerPin,
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeleteMarker_OnlyAuthor(t *testing.T) {
	f := newMarkerFixture(t)
	require.NoError(t, f.teamRepo.AddMember(context.Background(), f.session.TeamID, "u2", domain.RoleMember))

	marker, err := f.svc.AddMarker(context.Background(), "u1", MarkerInput{
		SessionID: f.session.ID,
		Kind:      domain.MarkerDanger,
		Label:     "sniper ridge",
	})
	require.NoError(t, err)

	err = f.svc.DeleteMarker(context.Background(), "u2", marker.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.svc.DeleteMarker(context.Background(), "u1", marker.ID))

	_, err = f.svc.ListMarkers(context.Background(), "u1", f.session.ID)
	require.NoError(t, err)
}
