package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/warmap/internal/domain"
)

// MarkerRepository реализует repository.MarkerRepository для PostgreSQL
type MarkerRepository struct {
	db *pgxpool.Pool
}

// NewMarkerRepository создает новый экземпляр MarkerRepository
func NewMarkerRepository(db *pgxpool.Pool) *MarkerRepository {
	return &MarkerRepository{db: db}
}

// Create создает новый маркер
func (r *MarkerRepository) Create(ctx context.Context, marker *domain.Marker) error {
	query := `
		INSERT INTO markers (id, session_id, kind, x, y, label, clan_tag, strength, note, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var clanTag, note *string
	var strength *int
	if marker.Base != nil {
		if marker.Base.ClanTag != "" {
			clanTag = &marker.Base.ClanTag
		}
		if marker.Base.Strength != 0 {
			strength = &marker.Base.Strength
		}
		if marker.Base.Note != "" {
			note = &marker.Base.Note
		}
	}

	_, err := r.db.Exec(ctx, query,
		marker.ID,
		marker.SessionID,
		marker.Kind,
		marker.X,
		marker.Y,
		marker.Label,
		clanTag,
		strength,
		note,
		marker.CreatedBy,
	)
	return err
}

// GetByID получает маркер по ID
func (r *MarkerRepository) GetByID(ctx context.Context, markerID string) (*domain.Marker, error) {
	query := `
		SELECT id, session_id, kind, x, y, label, clan_tag, strength, note, created_by, created_at
		FROM markers
		WHERE id = $1
	`

	marker, err := scanMarker(r.db.QueryRow(ctx, query, markerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMarkerNotFound
		}
		return nil, err
	}

	return marker, nil
}

// ListBySession возвращает все маркеры сессии
func (r *MarkerRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.Marker, error) {
	query := `
		SELECT id, session_id, kind, x, y, label, clan_tag, strength, note, created_by, created_at
		FROM markers
		WHERE session_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var markers []*domain.Marker
	for rows.Next() {
		marker, err := scanMarker(rows)
		if err != nil {
			return nil, err
		}
		markers = append(markers, marker)
	}

	return markers, rows.Err()
}

// Delete удаляет маркер
func (r *MarkerRepository) Delete(ctx context.Context, markerID string) error {
	query := `DELETE FROM markers WHERE id = $1`

	result, err := r.db.Exec(ctx, query, markerID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrMarkerNotFound
	}

	return nil
}

func scanMarker(row pgx.Row) (*domain.Marker, error) {
	var marker domain.Marker
	var clanTag, note *string
	var strength *int

	err := row.Scan(
		&marker.ID,
		&marker.SessionID,
		&marker.Kind,
		&marker.X,
		&marker.Y,
		&marker.Label,
		&clanTag,
		&strength,
		&note,
		&marker.CreatedBy,
		&marker.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Профиль базы хранится в плоских nullable колонках
	if clanTag != nil || strength != nil || note != nil {
		marker.Base = &domain.BaseProfile{}
		if clanTag != nil {
			marker.Base.ClanTag = *clanTag
		}
		if strength != nil {
			marker.Base.Strength = *strength
		}
		if note != nil {
			marker.Base.Note = *note
		}
	}

	return &marker, nil
}
