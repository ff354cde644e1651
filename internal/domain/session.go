package domain

import "time"

// MapSession представляет сессию аннотирования карты внутри команды
type MapSession struct {
	ID        string     `json:"id"`
	TeamID    string     `json:"team_id"`
	Name      string     `json:"name"`
	MapName   string     `json:"map_name"`
	CreatedBy string     `json:"created_by"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
