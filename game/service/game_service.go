package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/quoridor/game/engine"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrConfigNotFound     = errors.New("configuration not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrGameOver           = errors.New("game is over")
	ErrInvalidCoordinate  = errors.New("invalid coordinate")
	ErrInvalidOrientation = errors.New("invalid orientation")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID string, dest engine.Coordinate) (*ActionResult, error)
	PlaceWall(ctx context.Context, sessionID string, cell engine.Coordinate, orientation string) (*ActionResult, error)
	NewGame(ctx context.Context, sessionID string) (*engine.Snapshot, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	LegalMoves(ctx context.Context, sessionID string) ([]engine.Coordinate, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles rule set loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session. Game is guarded by the service;
// the access time has its own lock because reads refresh it concurrently.
type Session struct {
	ID        string
	Game      *engine.Game
	Config    *engine.GameConfig
	CreatedAt time.Time

	// Revision grows with every accepted action and new game.
	Revision uint64

	mu           sync.Mutex
	lastAccessed time.Time
}

// NewSession creates a session created and last accessed at now
func NewSession(id string, game *engine.Game, config *engine.GameConfig, now time.Time) *Session {
	return &Session{
		ID:           id,
		Game:         game,
		Config:       config,
		CreatedAt:    now,
		Revision:     1,
		lastAccessed: now,
	}
}

// Touch records an access at t
func (s *Session) Touch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessed = t
}

// LastAccessedAt returns the time of the latest access
func (s *Session) LastAccessedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessed
}
