package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/warmap/internal/domain"
)

// AuditRepository реализует repository.AuditRepository для PostgreSQL
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository создает новый экземпляр AuditRepository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append добавляет запись в журнал
func (r *AuditRepository) Append(ctx context.Context, record *domain.AuditRecord) error {
	query := `
		INSERT INTO audit_log (user_id, action, entity, entity_id)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, record.UserID, record.Action, record.Entity, record.EntityID)
	return err
}

// List возвращает последние записи журнала
func (r *AuditRepository) List(ctx context.Context, limit int) ([]*domain.AuditRecord, error) {
	query := `
		SELECT id, user_id, action, entity, entity_id, created_at
		FROM audit_log
		ORDER BY id DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.AuditRecord
	for rows.Next() {
		var record domain.AuditRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Action,
			&record.Entity,
			&record.EntityID,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}
