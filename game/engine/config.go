package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/spriteboard/game/geometry"
)

// ValidateBoardConfig checks a board configuration and reports every problem
// found, combined into one error.
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	var errs error
	fail := func(format string, args ...interface{}) {
		errs = multierr.Append(errs, fmt.Errorf("config validation: "+format, args...))
	}

	if config.Name == "" {
		fail("name is required")
	}

	// Validate grid
	g := config.Grid
	if g.Rows < MinGridSize || g.Rows > MaxGridSize {
		fail("grid.rows must be between %d and %d, got %d", MinGridSize, MaxGridSize, g.Rows)
	}
	if g.Cols < MinGridSize || g.Cols > MaxGridSize {
		fail("grid.cols must be between %d and %d, got %d", MinGridSize, MaxGridSize, g.Cols)
	}
	if g.CellSize <= 0 {
		fail("grid.cell_size must be positive, got %g", g.CellSize)
	}
	if g.Spacing < 0 {
		fail("grid.spacing must not be negative, got %g", g.Spacing)
	}

	// Validate board geometry
	if config.Padding < 0 {
		fail("padding must not be negative, got %g", config.Padding)
	}
	if config.Viewport.W <= 0 || config.Viewport.H <= 0 {
		fail("viewport must be positive, got %gx%g", config.Viewport.W, config.Viewport.H)
	}
	if config.PlayerStep < 0 {
		fail("player_step must not be negative, got %g", config.PlayerStep)
	}
	if config.HistoryLimit < 0 {
		fail("history_limit must not be negative, got %d", config.HistoryLimit)
	}
	if config.TickInterval != "" {
		if d, err := time.ParseDuration(config.TickInterval); err != nil {
			fail("tick_interval: %v", err)
		} else if d <= 0 {
			fail("tick_interval must be positive, got %s", config.TickInterval)
		}
	}

	// Validate state
	keys := make([]string, 0, len(config.State.Sprites))
	for key := range config.State.Sprites {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	occupied := 0
	for _, key := range keys {
		kind := config.State.Sprites[key]
		c, err := ParseCoords(key)
		if err != nil {
			fail("state: %v", err)
			continue
		}
		if c.X >= g.Cols || c.Y >= g.Rows {
			fail("state: coords %s outside %dx%d grid", c, g.Cols, g.Rows)
		}
		if !kind.Valid() {
			fail("state: unknown entity kind %q at %s", kind, c)
			continue
		}
		if kind != Empty {
			occupied++
		}
	}
	if occupied > MaxSprites {
		fail("state: %d sprites exceeds the limit of %d", occupied, MaxSprites)
	}

	return errs
}

// DecodeBoardConfig parses a board configuration. format is "json" or
// "yaml"; the result is validated.
func DecodeBoardConfig(data []byte, format string) (*BoardConfig, error) {
	var config BoardConfig
	switch format {
	case "json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	if err := ValidateBoardConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// FormatOf returns the config format implied by a file name's extension.
func FormatOf(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// LoadBoardConfig loads a board configuration from a JSON or YAML file.
func LoadBoardConfig(filename string) (*BoardConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return DecodeBoardConfig(data, FormatOf(filename))
}

// DefaultBoardConfig returns the built-in board: a 9x9 grid of 40px cells
// with a player, a ring of obstacles and a few pickups.
func DefaultBoardConfig() *BoardConfig {
	sprites := map[string]EntityKind{
		"4,8": Player,
		"1,1": Pickup,
		"7,1": Pickup,
		"4,4": Pickup,
	}
	for i := 2; i <= 6; i++ {
		sprites[fmt.Sprintf("%d,2", i)] = Obstacle
		sprites[fmt.Sprintf("%d,6", i)] = Obstacle
	}

	return &BoardConfig{
		Name:        "default",
		Description: "Built-in 9x9 board",
		AspectRatio: geometry.SixteenNine,
		Padding:     20,
		Viewport:    geometry.Size{W: 1280, H: 720},
		Grid: GridConfig{
			Rows:     9,
			Cols:     9,
			Spacing:  4,
			CellSize: 40,
		},
		State: GameState{Sprites: sprites},
	}
}
