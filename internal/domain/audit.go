package domain

import "time"

// AuditRecord представляет запись журнала действий
type AuditRecord struct {
	ID        int64      `json:"id"`
	UserID    *string    `json:"user_id,omitempty"`
	Action    string     `json:"action"`
	Entity    string     `json:"entity"`
	EntityID  string     `json:"entity_id"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Действия фиксируемые в журнале
const (
	ActionCreate = "CREATE"
	ActionJoin   = "JOIN"
	ActionDelete = "DELETE"
)

// Сущности фиксируемые в журнале
const (
	EntityTeam    = "team"
	EntitySession = "map_session"
	EntityMarker  = "marker"
	EntityUser    = "user"
)
