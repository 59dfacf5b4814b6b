package service

import (
	"time"

	"github.com/wricardo/quoridor/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	State          *engine.Snapshot   `json:"state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ActionResult contains the outcome of a move or wall placement.
// A refused action is not an error: Success is false and Rejection says why.
type ActionResult struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Rejection *RejectionInfo   `json:"rejection,omitempty"`
	Winner    int              `json:"winner"`
	GameOver  bool             `json:"game_over"`
	Events    []GameEvent      `json:"events,omitempty"`
	State     *engine.Snapshot `json:"state"`
}

// RejectionInfo names the rule an action broke
type RejectionInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type        string             `json:"type"` // "move", "wall", "victory", "new_game"
	Message     string             `json:"message"`
	Timestamp   time.Time          `json:"timestamp"`
	Player      int                `json:"player"`
	Position    *engine.Coordinate `json:"position,omitempty"`
	Orientation engine.Orientation `json:"orientation,omitempty"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated action history
type HistoryResponse struct {
	Actions      []engine.ActionRecord `json:"actions"`
	TotalActions int                   `json:"total_actions"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
	HasNext      bool                  `json:"has_next"`
	HasPrevious  bool                  `json:"has_previous"`
}

// ConfigInfo provides information about a rule set
type ConfigInfo struct {
	Filename       string `json:"filename"`
	ConfigID       string `json:"config_id"` // The identifier to use for session creation
	Name           string `json:"name"`      // Display name
	Description    string `json:"description"`
	PlayerCount    int    `json:"player_count"`
	TotalWalls     int    `json:"total_walls"`
	WallsPerPlayer int    `json:"walls_per_player"`
}
