package sim

import "time"

type SystemView struct {
	SystemType SystemType   `json:"system_type"`
	Health     int          `json:"health"`
	Status     SystemStatus `json:"status"`
}

type DailyGlitch struct {
	ID       int64              `json:"id"`
	Date     time.Time          `json:"date"`
	GlitchID string             `json:"glitch_id"`
	Name     string             `json:"name"`
	Effects  map[string]float64 `json:"effects"`
}

type Season struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	StartedAt   time.Time    `json:"started_at"`
	EndsAt      time.Time    `json:"ends_at"`
	IsActive    bool         `json:"is_active"`
	MetaModules []MetaModule `json:"meta_modules"`
}

// MetaModule is a season-scoped overlay modifier. Its effect factors are
// configuration carried on the season record and applied verbatim.
type MetaModule struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Effects map[string]float64 `json:"effects,omitempty"`
}

type Ripple struct {
	ID        string    `json:"id"`
	EventType string    `json:"event_type"`
	Narrative string    `json:"narrative"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsActive  bool      `json:"is_active"`
}

type DeathResult struct {
	PlayerID string `json:"player_id"`
	Err      error  `json:"-"`
}
