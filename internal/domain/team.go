package domain

import "time"

// TeamRole представляет роль участника в команде
type TeamRole string

// Возможные роли участника команды
const (
	RoleOwner  TeamRole = "OWNER"  // Создатель команды
	RoleMember TeamRole = "MEMBER" // Обычный участник
)

// Team представляет команду. Команда создается либо аутентифицированным
// владельцем (OwnerUserID заполнен), либо анонимно как гостевая команда
// (GuestToken заполнен). Ровно одно из двух полей должно быть установлено,
// поэтому Team создается только через NewOwnedTeam / NewGuestTeam.
type Team struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	OwnerUserID *string    `json:"owner_user_id,omitempty"`
	GuestToken  *string    `json:"-"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// NewOwnedTeam создает команду с владельцем (без гостевого токена)
func NewOwnedTeam(id, name, code, ownerUserID string) *Team {
	return &Team{
		ID:          id,
		Name:        name,
		Code:        code,
		OwnerUserID: &ownerUserID,
	}
}

// NewGuestTeam создает гостевую команду (без владельца, с гостевым токеном)
func NewGuestTeam(id, name, code, guestToken string) *Team {
	return &Team{
		ID:         id,
		Name:       name,
		Code:       code,
		GuestToken: &guestToken,
	}
}

// IsGuest возвращает true если команда создана анонимно
func (t *Team) IsGuest() bool {
	return t.GuestToken != nil
}

// TeamMember представляет участника команды
type TeamMember struct {
	UserID   string     `json:"user_id"`
	Username string     `json:"username"`
	Role     TeamRole   `json:"role"`
	JoinedAt *time.Time `json:"joined_at,omitempty"`
}

// HasMember проверяет, состоит ли пользователь в списке участников
func HasMember(members []TeamMember, userID string) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// TeamView представляет команду с участниками и агрегатами,
// возвращается при вступлении в команду и при ее запросе
type TeamView struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Code         string       `json:"code"`
	Members      []TeamMember `json:"members"`
	MemberCount  int          `json:"member_count"`
	MarkerCount  int          `json:"marker_count"`
	SessionCount int          `json:"session_count"`
}
