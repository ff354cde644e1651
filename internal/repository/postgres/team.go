package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/warmap/internal/domain"
)

// TeamRepository реализует repository.TeamRepository для PostgreSQL
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create создает новую команду. Уникальность кода гарантирует
// ограничение teams_code_key — ошибка 23505 не маскируется.
func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) error {
	query := `
		INSERT INTO teams (id, name, code, owner_user_id, guest_token)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, team.ID, team.Name, team.Code, team.OwnerUserID, team.GuestToken)
	return err
}

// CodeExists проверяет занят ли код команды
func (r *TeamRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM teams WHERE code = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// GetByCode получает команду по коду
func (r *TeamRepository) GetByCode(ctx context.Context, code string) (*domain.Team, error) {
	query := `
		SELECT id, name, code, owner_user_id, guest_token, created_at
		FROM teams
		WHERE code = $1
	`

	var team domain.Team
	err := r.db.QueryRow(ctx, query, code).Scan(
		&team.ID,
		&team.Name,
		&team.Code,
		&team.OwnerUserID,
		&team.GuestToken,
		&team.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}

	return &team, nil
}

// GetMembers возвращает участников команды с именами пользователей
func (r *TeamRepository) GetMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error) {
	query := `
		SELECT tm.user_id, u.username, tm.role, tm.created_at
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.created_at, tm.user_id
	`

	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.TeamMember
	for rows.Next() {
		var member domain.TeamMember
		if err := rows.Scan(&member.UserID, &member.Username, &member.Role, &member.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// AddMember добавляет участника в команду. Ограничение
// team_members_team_id_user_id_key — финальный арбитр уникальности
// пары (team, user): его нарушение возвращается как ErrAlreadyMember.
func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID string, role domain.TeamRole) error {
	query := `INSERT INTO team_members (team_id, user_id, role) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, query, teamID, userID, role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return domain.ErrAlreadyMember
		}
		return err
	}

	return nil
}

// IsMember проверяет состоит ли пользователь в команде
func (r *TeamRepository) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, teamID, userID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// GetView возвращает команду с участниками и агрегатами
func (r *TeamRepository) GetView(ctx context.Context, teamID string) (*domain.TeamView, error) {
	query := `
		SELECT
			t.id,
			t.name,
			t.code,
			(SELECT COUNT(*) FROM team_members tm WHERE tm.team_id = t.id) AS member_count,
			(SELECT COUNT(*) FROM markers m
				JOIN map_sessions ms ON ms.id = m.session_id
				WHERE ms.team_id = t.id) AS marker_count,
			(SELECT COUNT(*) FROM map_sessions ms WHERE ms.team_id = t.id) AS session_count
		FROM teams t
		WHERE t.id = $1
	`

	var view domain.TeamView
	err := r.db.QueryRow(ctx, query, teamID).Scan(
		&view.ID,
		&view.Name,
		&view.Code,
		&view.MemberCount,
		&view.MarkerCount,
		&view.SessionCount,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}

	members, err := r.GetMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	view.Members = members

	return &view, nil
}
