// Package config provides rule set management for the board server.
//
// The config package handles:
//   - Loading rule sets from JSON files
//   - Validation through engine.ValidateGameConfig
//   - Default rule set selection
//   - Rule set discovery and listing
//
// Configuration Format:
//
// Rule sets are stored as JSON files in the configs directory:
//
//	{
//	  "name": "classic",
//	  "description": "Two players, ten walls each",
//	  "player_count": 2,
//	  "total_walls": 20,
//	  "messages": {"block_self": "That wall would trap you."}
//	}
//
// The messages map overrides the text reported for a rejection, keyed by
// rejection code (too_far, wall_overlap, block_other, ...).
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal().Err(err).Msg("config")
//	}
//
//	blitz, err := manager.LoadConfig("blitz")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// The default is classic.json when present, otherwise the first valid file,
// otherwise the built-in classic rules.
package config
