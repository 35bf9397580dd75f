package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/wricardo/spriteboard/game/engine"
	"github.com/wricardo/spriteboard/game/geometry"
)

func createValidConfig() *engine.BoardConfig {
	return &engine.BoardConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		AspectRatio: geometry.FourFive,
		Padding:     10,
		Viewport:    geometry.Size{W: 500, H: 500},
		Grid:        engine.GridConfig{Rows: 5, Cols: 5, Spacing: 2, CellSize: 30},
		State: engine.GameState{Sprites: map[string]engine.EntityKind{
			"2,4": engine.Player,
			"1,1": engine.Obstacle,
		}},
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.BoardConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

const yamlConfig = `name: Yaml Board
description: written by hand
aspect_ratio: "1:1"
padding: 5
viewport:
  width: 300
  height: 300
grid:
  rows: 3
  cols: 3
  spacing: 1
  cell_size: 20
state:
  sprites:
    "0,0": player
    "2,2": pickup
`

func TestNewManager(t *testing.T) {
	if _, err := NewManager(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}

	// An empty directory falls back to the built-in board.
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if m.GetDefault() == nil || m.DefaultID() != "default" {
		t.Errorf("default = %v, id %q", m.GetDefault(), m.DefaultID())
	}
}

func TestManager_DefaultPrefersArena(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "aaa", createValidConfig())
	arena := createValidConfig()
	arena.Name = "Arena"
	writeConfigFile(t, dir, "arena", arena)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.DefaultID() != "arena" || m.GetDefault().Name != "Arena" {
		t.Errorf("default = %q (%s)", m.DefaultID(), m.GetDefault().Name)
	}

	if err := m.SetDefault("aaa"); err != nil {
		t.Fatal(err)
	}
	if m.DefaultID() != "aaa" {
		t.Errorf("default id = %q, want aaa", m.DefaultID())
	}
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "board", createValidConfig())
	if err := os.WriteFile(filepath.Join(dir, "hand.yaml"), []byte(yamlConfig), 0644); err != nil {
		t.Fatal(err)
	}
	bad := createValidConfig()
	bad.Grid.Rows = 0
	writeConfigFile(t, dir, "broken", bad)

	m, _ := NewManager(dir)

	tests := map[string]struct {
		name     string
		wantName string
		wantErr  error
	}{
		"json by id":      {name: "board", wantName: "Test Config"},
		"json by file":    {name: "board.json", wantName: "Test Config"},
		"yaml by id":      {name: "hand", wantName: "Yaml Board"},
		"missing":         {name: "nope", wantErr: ErrConfigNotFound},
		"path traversal":  {name: "../board", wantErr: ErrConfigNotFound},
		"invalid content": {name: "broken", wantErr: ErrInvalidConfig},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := m.LoadConfig(tt.name)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			if cfg.Name != tt.wantName {
				t.Errorf("name = %q, want %q", cfg.Name, tt.wantName)
			}
		})
	}

	yamlCfg, _ := m.LoadConfig("hand")
	if yamlCfg.AspectRatio != geometry.OneOne || yamlCfg.State.Sprites["2,2"] != engine.Pickup {
		t.Errorf("yaml config decoded wrong: %+v", yamlCfg)
	}
}

func TestManager_LoadConfigCaches(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "board", createValidConfig())
	m, _ := NewManager(dir)

	first, _ := m.LoadConfig("board")
	os.Remove(filepath.Join(dir, "board.json"))
	second, err := m.LoadConfig("board")
	if err != nil || first != second {
		t.Errorf("cached config not returned: %v", err)
	}

	m.RefreshCache()
	if _, err := m.LoadConfig("board"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("after refresh error = %v, want ErrConfigNotFound", err)
	}
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "board", createValidConfig())
	os.WriteFile(filepath.Join(dir, "hand.yml"), []byte(yamlConfig), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644)
	os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{"), 0644)
	os.Mkdir(filepath.Join(dir, "sub.json"), 0755)

	m, _ := NewManager(dir)
	configs, err := m.ListConfigs()
	if err != nil {
		t.Fatal(err)
	}
	if len(configs) != 2 {
		t.Fatalf("got %d configs, want 2: %+v", len(configs), configs)
	}

	board, hand := configs[0], configs[1]
	if board.ConfigID != "board" || board.Format != "json" || board.AspectRatio != "4:5" || board.Sprites != 2 {
		t.Errorf("board info = %+v", board)
	}
	if hand.ConfigID != "hand" || hand.Format != "yml" || hand.GridRows != 3 {
		t.Errorf("hand info = %+v", hand)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	m, _ := NewManager(dir)

	if err := m.SaveConfig("saved", createValidConfig()); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
		t.Errorf("json file not written: %v", err)
	}

	if err := m.SaveConfig("other.yaml", createValidConfig()); err != nil {
		t.Fatalf("SaveConfig yaml failed: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "other.yaml"))
	if !strings.Contains(string(data), "aspect_ratio: 4:5") && !strings.Contains(string(data), `aspect_ratio: "4:5"`) {
		t.Errorf("yaml output missing aspect ratio:\n%s", data)
	}

	// A fresh manager reads both back from disk.
	fresh, _ := NewManager(dir)
	for _, id := range []string{"saved", "other"} {
		cfg, err := fresh.LoadConfig(id)
		if err != nil {
			t.Fatalf("LoadConfig(%s) failed: %v", id, err)
		}
		if cfg.Grid.CellSize != 30 || cfg.State.Sprites["2,4"] != engine.Player {
			t.Errorf("%s round trip = %+v", id, cfg)
		}
	}

	invalid := createValidConfig()
	invalid.Name = ""
	if err := m.SaveConfig("invalid", invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
	if err := m.SaveConfig("../escape", createValidConfig()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestManager_ConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "board", createValidConfig())
	m, _ := NewManager(dir)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.LoadConfig("board"); err != nil {
				t.Errorf("LoadConfig failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestSchema(t *testing.T) {
	s := Schema()
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"aspect_ratio", "grid", "viewport", "state"} {
		if !strings.Contains(string(data), `"`+field+`"`) {
			t.Errorf("schema missing %s", field)
		}
	}
}
