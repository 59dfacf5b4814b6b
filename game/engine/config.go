package engine

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
)

// GameConfig represents a rule set loaded from JSON
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PlayerCount int    `json:"player_count"`
	TotalWalls  int    `json:"total_walls"`

	// Messages overrides the text shown for a rejection, keyed by rejection code.
	Messages map[string]string `json:"messages,omitempty"`
}

// DefaultGameConfig returns the classic two-player rule set.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "Two players, ten walls each",
		PlayerCount: DefaultPlayerCount,
		TotalWalls:  DefaultTotalWalls,
	}
}

// WallsPerPlayer returns the number of walls each player starts with.
func (c *GameConfig) WallsPerPlayer() int {
	if c.PlayerCount <= 0 {
		return 0
	}
	return c.TotalWalls / c.PlayerCount
}

// Message returns the text for a rejection, preferring the rule set's override.
func (c *GameConfig) Message(r Rejection) string {
	if c != nil {
		if msg, ok := c.Messages[r.Code()]; ok && msg != "" {
			return msg
		}
	}
	return r.Error()
}

// ValidateGameConfig validates a rule set for correctness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Start cells and goal rows are only defined for two players.
	if config.PlayerCount != DefaultPlayerCount {
		return fmt.Errorf("config validation: player_count must be %d, got %d", DefaultPlayerCount, config.PlayerCount)
	}

	if config.TotalWalls < 0 || config.TotalWalls > MaxTotalWalls {
		return fmt.Errorf("config validation: total_walls must be between 0 and %d, got %d", MaxTotalWalls, config.TotalWalls)
	}
	if config.TotalWalls%config.PlayerCount != 0 {
		return fmt.Errorf("config validation: total_walls (%d) must split evenly between %d players",
			config.TotalWalls, config.PlayerCount)
	}

	for _, code := range slices.Sorted(maps.Keys(config.Messages)) {
		if _, ok := ParseRejection(code); !ok {
			return fmt.Errorf("config validation: messages has unknown rejection code '%s'", code)
		}
		if strings.TrimSpace(config.Messages[code]) == "" {
			return fmt.Errorf("config validation: message override for '%s' is empty", code)
		}
	}

	return nil
}

// LoadGameConfig loads and validates a rule set from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
