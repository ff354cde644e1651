package domain

import "time"

// MarkerKind представляет тип маркера на карте
type MarkerKind string

// Возможные типы маркеров
const (
	MarkerPin       MarkerKind = "PIN"        // Обычная отметка
	MarkerLoot      MarkerKind = "LOOT"       // Точка с лутом
	MarkerDanger    MarkerKind = "DANGER"     // Опасная зона
	MarkerEnemyBase MarkerKind = "ENEMY_BASE" // База противника (с профилем)
)

// IsValidMarkerKind проверяет что тип маркера известен
func IsValidMarkerKind(kind MarkerKind) bool {
	switch kind {
	case MarkerPin, MarkerLoot, MarkerDanger, MarkerEnemyBase:
		return true
	default:
		return false
	}
}

// BaseProfile описывает базу противника, заполняется только для ENEMY_BASE
type BaseProfile struct {
	ClanTag  string `json:"clan_tag,omitempty"`
	Strength int    `json:"strength,omitempty"` // Оценка силы от 1 до 5
	Note     string `json:"note,omitempty"`
}

// Marker представляет отметку на карте, видимую участникам команды
type Marker struct {
	ID        string       `json:"id"`
	SessionID string       `json:"session_id"`
	Kind      MarkerKind   `json:"kind"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	Label     string       `json:"label"`
	Base      *BaseProfile `json:"base,omitempty"`
	CreatedBy string       `json:"created_by"`
	CreatedAt *time.Time   `json:"created_at,omitempty"`
}
