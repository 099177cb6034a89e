// Command validate provides a small CLI that validates game preset JSON
// files in a configs directory (../configs unless one is given). It checks:
//   - JSON structure and required fields
//   - Grid size is an even number between 2 and 10
//   - Move budget is positive
//   - Mismatch delay is within range
//   - Message templates carry the placeholders they are rendered with
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/memory-match/game/engine"
)

// Preset mirrors the JSON schema of a preset. Pointers tell a missing
// field apart from a zero value.
type Preset struct {
	Name            *string         `json:"name"`
	Description     *string         `json:"description"`
	GridSize        *int            `json:"grid_size"`
	MaxMoves        *int            `json:"max_moves"`
	MismatchDelayMs *int            `json:"mismatch_delay_ms"`
	Messages        engine.Messages `json:"messages"`
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset JSON file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var preset Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	for field, missing := range map[string]bool{
		"name":        preset.Name == nil || *preset.Name == "",
		"description": preset.Description == nil || *preset.Description == "",
		"grid_size":   preset.GridSize == nil,
		"max_moves":   preset.MaxMoves == nil,
	} {
		if missing {
			result.fail("Missing required field: %s", field)
		}
	}
	if !result.Valid {
		return result
	}

	if err := engine.ValidateGridSize(*preset.GridSize); err != nil {
		result.fail("grid_size: %v", err)
	}

	if err := engine.ValidateMaxMoves(*preset.MaxMoves); err != nil {
		result.fail("max_moves: %v", err)
	}

	delay := 0
	if preset.MismatchDelayMs != nil {
		delay = *preset.MismatchDelayMs
	}

	cfg := &engine.GameConfig{
		Name:            *preset.Name,
		Description:     *preset.Description,
		GridSize:        *preset.GridSize,
		MaxMoves:        *preset.MaxMoves,
		MismatchDelayMs: delay,
		Messages:        preset.Messages,
	}

	// grid size and budget are reported above
	if result.Valid {
		if err := engine.ValidateGameConfig(cfg); err != nil {
			result.fail("%v", err)
		}
	}

	if result.Valid {
		pairs := cfg.GridSize * cfg.GridSize / 2
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", cfg.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d (%d pairs)", cfg.GridSize, cfg.GridSize, pairs))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Max moves: %d", cfg.MaxMoves))
		if delay == 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Mismatch delay: default (%dms)", engine.DefaultMismatchDelayMs))
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Mismatch delay: %dms", delay))
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Custom messages: %d", countMessages(cfg.Messages)))
	}

	return result
}

func countMessages(m engine.Messages) int {
	n := 0
	for _, s := range []string{m.Welcome, m.FirstPick, m.Match, m.Mismatch, m.Victory, m.OutOfMoves, m.InvalidGridSize, m.InvalidMaxMoves} {
		if s != "" {
			n++
		}
	}
	return n
}

// main scans the configs directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No presets found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
