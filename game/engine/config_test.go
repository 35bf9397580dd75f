package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/wricardo/spriteboard/game/geometry"
)

func TestValidateBoardConfig(t *testing.T) {
	tests := map[string]struct {
		mutate  func(c *BoardConfig)
		wantErr string
	}{
		"valid":            {mutate: func(c *BoardConfig) {}},
		"missing name":     {mutate: func(c *BoardConfig) { c.Name = "" }, wantErr: "name is required"},
		"rows too large":   {mutate: func(c *BoardConfig) { c.Grid.Rows = MaxGridSize + 1 }, wantErr: "grid.rows"},
		"zero cols":        {mutate: func(c *BoardConfig) { c.Grid.Cols = 0 }, wantErr: "grid.cols"},
		"zero cell size":   {mutate: func(c *BoardConfig) { c.Grid.CellSize = 0 }, wantErr: "grid.cell_size"},
		"negative spacing": {mutate: func(c *BoardConfig) { c.Grid.Spacing = -1 }, wantErr: "grid.spacing"},
		"negative padding": {mutate: func(c *BoardConfig) { c.Padding = -2 }, wantErr: "padding"},
		"empty viewport":   {mutate: func(c *BoardConfig) { c.Viewport = geometry.Size{} }, wantErr: "viewport"},
		"bad tick":         {mutate: func(c *BoardConfig) { c.TickInterval = "soon" }, wantErr: "tick_interval"},
		"negative tick":    {mutate: func(c *BoardConfig) { c.TickInterval = "-1s" }, wantErr: "tick_interval"},
		"bad coords": {
			mutate:  func(c *BoardConfig) { c.State.Sprites = map[string]EntityKind{"1;2": Player} },
			wantErr: "invalid coords",
		},
		"coords outside grid": {
			mutate:  func(c *BoardConfig) { c.State.Sprites = map[string]EntityKind{"3,0": Player} },
			wantErr: "outside 3x3 grid",
		},
		"unknown kind": {
			mutate:  func(c *BoardConfig) { c.State.Sprites = map[string]EntityKind{"0,0": "dragon"} },
			wantErr: "unknown entity kind",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := createTestConfig()
			tt.mutate(cfg)
			err := ValidateBoardConfig(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateBoardConfig_ReportsEveryProblem(t *testing.T) {
	cfg := createTestConfig()
	cfg.Name = ""
	cfg.Grid.Rows = 0
	cfg.Padding = -1
	cfg.State.Sprites = map[string]EntityKind{"x": Player}

	errs := multierr.Errors(ValidateBoardConfig(cfg))
	if len(errs) != 4 {
		t.Errorf("got %d errors, want 4: %v", len(errs), errs)
	}
}

func TestDecodeBoardConfig_YAML(t *testing.T) {
	data := []byte(`
name: yaml-board
description: from yaml
aspect_ratio: "1:1"
padding: 10
viewport: {width: 300, height: 200}
grid: {rows: 2, cols: 2, spacing: 5, cell_size: 20}
tick_interval: 50ms
state:
  sprites:
    "0,0": player
    "1,1": obstacle
`)
	cfg, err := DecodeBoardConfig(data, "yaml")
	if err != nil {
		t.Fatalf("DecodeBoardConfig failed: %v", err)
	}
	if cfg.AspectRatio != geometry.OneOne {
		t.Errorf("aspect ratio = %v, want 1:1", cfg.AspectRatio)
	}
	if cfg.Viewport != (geometry.Size{W: 300, H: 200}) {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.State.Sprites["1,1"] != Obstacle {
		t.Errorf("state = %v", cfg.State.Sprites)
	}
	if cfg.Step() != 25 {
		t.Errorf("Step() = %g, want cell size plus spacing", cfg.Step())
	}
}

func TestLoadBoardConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.json")
	data := `{
		"name": "json-board",
		"aspect_ratio": "16:9",
		"padding": 20,
		"viewport": {"width": 400, "height": 400},
		"grid": {"rows": 9, "cols": 9, "spacing": 4, "cell_size": 40},
		"state": {"sprites": {"4,8": "player"}}
	}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBoardConfig(path)
	if err != nil {
		t.Fatalf("LoadBoardConfig failed: %v", err)
	}
	if cfg.Name != "json-board" || cfg.HistoryCap() != DefaultHistoryCap {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := LoadBoardConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := DecodeBoardConfig([]byte("{}"), "toml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestDefaultBoardConfig(t *testing.T) {
	if err := ValidateBoardConfig(DefaultBoardConfig()); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}
