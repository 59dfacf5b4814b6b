// Package validate checks rule set JSON files before the server loads them.
// It checks:
//   - JSON structure, with unknown fields reported as typos
//   - Required fields and the rule limits enforced by the engine
//   - Message overrides: known rejection codes and non-empty text (checked by the engine)
//   - That a game built from the rule set starts with both goals reachable
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/quoridor/game/engine"
)

// Result captures the outcome of validating a single file.
// Errors lists what is wrong; Info is filled in for valid files.
type Result struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *Result) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// File loads and validates a single rule set file.
func File(filePath string) Result {
	result := Result{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var config engine.GameConfig
	if err := decoder.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
	}

	if !result.Valid {
		return result
	}

	game, err := engine.NewGameWithConfig(&config)
	if err != nil {
		result.fail("Cannot start a game: %v", err)
		return result
	}
	for p := 0; p < game.PlayerCount(); p++ {
		if !game.CanReachGoal(p, game.Lattice()) {
			result.fail("Player %d cannot reach row %d from the start", p+1, game.GoalRow(p))
		}
	}
	if !result.Valid {
		return result
	}

	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ Players: %d", config.PlayerCount),
		fmt.Sprintf("✓ Walls: %d (%d each)", config.TotalWalls, config.WallsPerPlayer()),
		fmt.Sprintf("✓ Message overrides: %d", len(config.Messages)),
	)
	return result
}

// Dir validates every *.json file in dir, in name order.
func Dir(dir string) ([]Result, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("finding rule set files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no rule set files in %s", dir)
	}
	sort.Strings(files)

	results := make([]Result, 0, len(files))
	for _, file := range files {
		results = append(results, File(file))
	}
	return results, nil
}

// Report prints a concise report and returns whether every file is valid.
func Report(w io.Writer, results []Result) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All rule sets are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some rule sets have errors")
	}
	return allValid
}
