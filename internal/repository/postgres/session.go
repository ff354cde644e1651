package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/warmap/internal/domain"
)

// SessionRepository реализует repository.SessionRepository для PostgreSQL
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository создает новый экземпляр SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create создает новую сессию карты
func (r *SessionRepository) Create(ctx context.Context, session *domain.MapSession) error {
	query := `
		INSERT INTO map_sessions (id, team_id, name, map_name, created_by)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, session.ID, session.TeamID, session.Name, session.MapName, session.CreatedBy)
	return err
}

// GetByID получает сессию по ID
func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*domain.MapSession, error) {
	query := `
		SELECT id, team_id, name, map_name, created_by, created_at
		FROM map_sessions
		WHERE id = $1
	`

	var session domain.MapSession
	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&session.ID,
		&session.TeamID,
		&session.Name,
		&session.MapName,
		&session.CreatedBy,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return &session, nil
}

// ListByTeam возвращает все сессии команды
func (r *SessionRepository) ListByTeam(ctx context.Context, teamID string) ([]*domain.MapSession, error) {
	query := `
		SELECT id, team_id, name, map_name, created_by, created_at
		FROM map_sessions
		WHERE team_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.MapSession
	for rows.Next() {
		var session domain.MapSession
		if err := rows.Scan(
			&session.ID,
			&session.TeamID,
			&session.Name,
			&session.MapName,
			&session.CreatedBy,
			&session.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}
