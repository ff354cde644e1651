package repository

import (
	"context"

	"github.com/dkoval/warmap/internal/domain"
)

// UserRepository определяет методы для работы с данными пользователей
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID получает пользователя по ID
	GetByID(ctx context.Context, userID string) (*domain.User, error)

	// GetByUsername получает пользователя по имени
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// TeamRepository определяет методы для работы с данными команд
type TeamRepository interface {
	// Create создает новую команду
	Create(ctx context.Context, team *domain.Team) error

	// CodeExists проверяет занят ли код команды
	CodeExists(ctx context.Context, code string) (bool, error)

	// GetByCode получает команду по коду
	GetByCode(ctx context.Context, code string) (*domain.Team, error)

	// GetMembers возвращает участников команды
	GetMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error)

	// AddMember добавляет участника в команду
	AddMember(ctx context.Context, teamID, userID string, role domain.TeamRole) error

	// GetView возвращает команду с участниками и агрегатами
	GetView(ctx context.Context, teamID string) (*domain.TeamView, error)

	// IsMember проверяет состоит ли пользователь в команде
	IsMember(ctx context.Context, teamID, userID string) (bool, error)
}

// SessionRepository определяет методы для работы с сессиями карт
type SessionRepository interface {
	// Create создает новую сессию карты
	Create(ctx context.Context, session *domain.MapSession) error

	// GetByID получает сессию по ID
	GetByID(ctx context.Context, sessionID string) (*domain.MapSession, error)

	// ListByTeam возвращает все сессии команды
	ListByTeam(ctx context.Context, teamID string) ([]*domain.MapSession, error)
}

// MarkerRepository определяет методы для работы с маркерами
type MarkerRepository interface {
	// Create создает новый маркер
	Create(ctx context.Context, marker *domain.Marker) error

	// GetByID получает маркер по ID
	GetByID(ctx context.Context, markerID string) (*domain.Marker, error)

	// ListBySession возвращает все маркеры сессии
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Marker, error)

	// Delete удаляет маркер
	Delete(ctx context.Context, markerID string) error
}

// AuditRepository определяет методы для работы с журналом действий
type AuditRepository interface {
	// Append добавляет запись в журнал
	Append(ctx context.Context, record *domain.AuditRecord) error

	// List возвращает последние записи журнала
	List(ctx context.Context, limit int) ([]*domain.AuditRecord, error)
}
