package service

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// KindCount represents marker totals per kind
type KindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// TeamActivity represents per-team marker activity for the admin panel
type TeamActivity struct {
	TeamID      string `json:"team_id"`
	TeamName    string `json:"team_name"`
	MarkerCount int    `json:"marker_count"`
}

// Stats represents aggregate statistics for the admin panel
type Stats struct {
	TotalUsers    int            `json:"total_users"`
	TotalTeams    int            `json:"total_teams"`
	GuestTeams    int            `json:"guest_teams"`
	TotalSessions int            `json:"total_sessions"`
	TotalMarkers  int            `json:"total_markers"`
	MarkersByKind []KindCount    `json:"markers_by_kind"`
	TopTeams      []TeamActivity `json:"top_teams"`
}

// StatsService handles statistics queries
type StatsService struct {
	db *pgxpool.Pool
}

// NewStatsService creates a new StatsService
func NewStatsService(db *pgxpool.Pool) *StatsService {
	return &StatsService{db: db}
}

// GetStats returns aggregate statistics
func (s *StatsService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	totalsQuery := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM teams) AS total_teams,
			(SELECT COUNT(*) FROM teams WHERE guest_token IS NOT NULL) AS guest_teams,
			(SELECT COUNT(*) FROM map_sessions) AS total_sessions,
			(SELECT COUNT(*) FROM markers) AS total_markers
	`

	if err := s.db.QueryRow(ctx, totalsQuery).Scan(
		&stats.TotalUsers,
		&stats.TotalTeams,
		&stats.GuestTeams,
		&stats.TotalSessions,
		&stats.TotalMarkers,
	); err != nil {
		return nil, err
	}

	kindQuery := `
		SELECT kind, COUNT(*) AS cnt
		FROM markers
		GROUP BY kind
		ORDER BY cnt DESC, kind
	`

	rows, err := s.db.Query(ctx, kindQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, err
		}
		stats.MarkersByKind = append(stats.MarkersByKind, kc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	topQuery := `
		SELECT t.id, t.name, COUNT(m.id) AS marker_count
		FROM teams t
		LEFT JOIN map_sessions ms ON ms.team_id = t.id
		LEFT JOIN markers m ON m.session_id = ms.id
		GROUP BY t.id, t.name
		ORDER BY marker_count DESC, t.name
		LIMIT 10
	`

	topRows, err := s.db.Query(ctx, topQuery)
	if err != nil {
		return nil, err
	}
	defer topRows.Close()

	for topRows.Next() {
		var ta TeamActivity
		if err := topRows.Scan(&ta.TeamID, &ta.TeamName, &ta.MarkerCount); err != nil {
			return nil, err
		}
		stats.TopTeams = append(stats.TopTeams, ta)
	}

	return stats, topRows.Err()
}
