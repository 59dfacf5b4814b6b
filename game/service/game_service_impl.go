package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/quoridor/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given rule set name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a short hex ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Info().Str("session", session.ID).Str("config", configID).Msg("session created")
	return s.sessionInfo(session, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	return s.sessionInfo(session, s.getConfigID(session.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Move moves the current player of a session to dest
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, dest engine.Coordinate) (*ActionResult, error) {
	if !dest.InGrid() {
		return nil, fmt.Errorf("%w: %v is not on the board", ErrInvalidCoordinate, dest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.playableSession(sessionID)
	if err != nil {
		return nil, err
	}

	player := sess.Game.CurrentPlayer()
	err = sess.Game.AttemptMove(dest)

	return s.actionResult(sess, err, GameEvent{
		Type:      "move",
		Message:   fmt.Sprintf("Player %d moved to %v", player+1, dest),
		Timestamp: time.Now(),
		Player:    player,
		Position:  &dest,
	})
}

// PlaceWall places a wall for the current player of a session
func (s *gameServiceImpl) PlaceWall(ctx context.Context, sessionID string, cell engine.Coordinate, orientation string) (*ActionResult, error) {
	o, ok := engine.ParseOrientation(orientation)
	if !ok {
		return nil, fmt.Errorf("%w: %q (use horizontal or vertical)", ErrInvalidOrientation, orientation)
	}
	if !engine.ValidWallAnchor(cell) {
		return nil, fmt.Errorf("%w: wall anchor %v must have row and column between 0 and %d",
			ErrInvalidCoordinate, cell, engine.BoardSize-2)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.playableSession(sessionID)
	if err != nil {
		return nil, err
	}

	player := sess.Game.CurrentPlayer()
	err = sess.Game.AttemptPlaceWall(cell, o)

	return s.actionResult(sess, err, GameEvent{
		Type:        "wall",
		Message:     fmt.Sprintf("Player %d placed a %s wall at %v", player+1, o, cell),
		Timestamp:   time.Now(),
		Player:      player,
		Position:    &cell,
		Orientation: o,
	})
}

// NewGame replaces the session's game with a fresh one under the same rule set
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	game, err := engine.NewGameWithConfig(sess.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to start new game: %w", err)
	}
	sess.Game = game
	sess.Revision++

	log.Info().Str("session", sess.ID).Str("config", sess.Config.Name).Msg("new game")
	return s.snapshot(sess), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(sess), nil
}

// LegalMoves lists the cells the current player may move to. It is empty once
// the game is over.
func (s *gameServiceImpl) LegalMoves(ctx context.Context, sessionID string) ([]engine.Coordinate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Game.Winner() != engine.NoWinner {
		return []engine.Coordinate{}, nil
	}

	moves := sess.Game.LegalMoves()
	if moves == nil {
		moves = []engine.Coordinate{}
	}
	return moves, nil
}

// GetHistory returns paginated action history
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Game.History()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	actions := []engine.ActionRecord{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			actions = append(actions, history[i])
		}
	} else if start < total {
		actions = append(actions, history[start:end]...)
	}

	return &HistoryResponse{
		Actions:      actions,
		TotalActions: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns available rule sets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific rule set
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a rule set to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// session looks a session up and marks it as accessed.
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		log.Debug().Err(err).Str("session", sessionID).Msg("could not update last access")
	}
	return sess, nil
}

// playableSession is session for actions: a finished game refuses them.
func (s *gameServiceImpl) playableSession(sessionID string) (*Session, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if winner := sess.Game.Winner(); winner != engine.NoWinner {
		return nil, fmt.Errorf("%w: player %d has won, start a new game", ErrGameOver, winner+1)
	}
	return sess, nil
}

// actionResult builds the response for an attempted action. A rule rejection
// becomes an unsuccessful result; any other error is returned as is.
func (s *gameServiceImpl) actionResult(sess *Session, err error, event GameEvent) (*ActionResult, error) {
	result := &ActionResult{Success: err == nil}

	if err != nil {
		var rejection engine.Rejection
		if !errors.As(err, &rejection) {
			return nil, err
		}
		result.Rejection = &RejectionInfo{
			Code:    rejection.Code(),
			Message: sess.Config.Message(rejection),
		}
		result.Message = result.Rejection.Message
	} else {
		sess.Revision++
		result.Message = event.Message
		result.Events = append(result.Events, event)
		if winner := sess.Game.Winner(); winner != engine.NoWinner {
			result.Events = append(result.Events, GameEvent{
				Type:      "victory",
				Message:   fmt.Sprintf("Player %d wins!", winner+1),
				Timestamp: time.Now(),
				Player:    winner,
			})
			result.Message = result.Events[len(result.Events)-1].Message
			log.Info().Str("session", sess.ID).Int("winner", winner).Msg("game won")
		}
	}

	state := s.snapshot(sess)
	result.State = state
	result.Winner = state.Winner
	result.GameOver = state.GameOver()
	return result, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID, // Return the config_id, not the display name
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt(),
		State:          s.snapshot(sess),
		GameConfig:     sess.Config,
	}
}

// snapshot is the game's snapshot stamped with the session revision
func (s *gameServiceImpl) snapshot(sess *Session) *engine.Snapshot {
	state := sess.Game.Snapshot()
	state.Revision = sess.Revision
	return state
}
