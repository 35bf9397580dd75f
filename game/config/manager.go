package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/spriteboard/game/engine"
	"github.com/wricardo/spriteboard/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// extensions lists the supported config file extensions in lookup order.
var extensions = []string{".json", ".yaml", ".yml"}

// DefaultConfigID is tried first when picking the default configuration.
const DefaultConfigID = "arena"

// Manager handles board configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.BoardConfig
	defaultID     string
	configs       map[string]*engine.BoardConfig
	mu            sync.RWMutex
	logger        zerolog.Logger
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.BoardConfig),
		logger:    log.With().Str("component", "config").Logger(),
	}

	m.loadDefaultConfig()
	return m, nil
}

// ConfigID returns the identifier of a config file: its name without the
// extension.
func ConfigID(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// LoadConfig loads a configuration by ID. A name carrying a supported
// extension is accepted too.
func (m *Manager) LoadConfig(name string) (*engine.BoardConfig, error) {
	id := name
	if isConfigFile(name) {
		id = ConfigID(name)
	}

	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[id]; exists {
		return config, nil
	}

	configPath, err := m.findFile(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := engine.DecodeBoardConfig(data, engine.FormatOf(configPath))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Cache the config
	m.configs[id] = config
	return config, nil
}

// findFile resolves a config ID or file name to a path inside the config
// directory.
func (m *Manager) findFile(name string) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", ErrConfigNotFound
	}

	candidates := []string{name}
	if !isConfigFile(name) {
		candidates = candidates[:0]
		for _, ext := range extensions {
			candidates = append(candidates, name+ext)
		}
	}

	for _, c := range candidates {
		path := filepath.Join(m.configDir, c)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrConfigNotFound
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !isConfigFile(entry.Name()) {
			continue
		}

		id := ConfigID(entry.Name())
		if seen[id] {
			continue
		}

		// Try to load the config to get details
		config, err := m.LoadConfig(id)
		if err != nil {
			m.logger.Warn().Err(err).Str("file", entry.Name()).Msg("skipping invalid config")
			continue
		}
		seen[id] = true

		occupied := 0
		for _, kind := range config.State.Sprites {
			if kind != engine.Empty {
				occupied++
			}
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:    entry.Name(),
			ConfigID:    id, // This is the identifier to use for session creation
			Name:        config.Name,
			Description: config.Description,
			AspectRatio: config.AspectRatio.String(),
			GridRows:    config.Grid.Rows,
			GridCols:    config.Grid.Cols,
			Sprites:     occupied,
			Format:      engine.FormatOf(entry.Name()),
		})
	}

	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.BoardConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// DefaultID returns the identifier of the default configuration
func (m *Manager) DefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	m.defaultID = ConfigID(name)
	return nil
}

// RefreshCache drops every cached configuration and picks the default again
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*engine.BoardConfig)
	m.mu.Unlock()

	m.loadDefaultConfig()
}

// loadDefaultConfig picks the default configuration: DefaultConfigID if it
// loads, else the first valid config on disk, else the built-in board.
func (m *Manager) loadDefaultConfig() {
	id := DefaultConfigID
	config, err := m.LoadConfig(id)
	if err != nil {
		config = nil
		if configs, listErr := m.ListConfigs(); listErr == nil && len(configs) > 0 {
			id = configs[0].ConfigID
			config, err = m.LoadConfig(id)
		}
	}
	if config == nil || err != nil {
		config = engine.DefaultBoardConfig()
		id = config.Name
		m.logger.Info().Str("dir", m.configDir).Msg("no usable config on disk, using built-in board")
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.defaultID = id
	m.mu.Unlock()
}

// SaveConfig saves a configuration to disk. The format follows the name's
// extension and defaults to JSON.
func (m *Manager) SaveConfig(name string, config *engine.BoardConfig) error {
	// Validate config before saving
	if err := engine.ValidateBoardConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("%w: invalid config name %q", ErrInvalidConfig, name)
	}

	filename := name
	if !isConfigFile(filename) {
		filename = name + ".json"
	}

	var data []byte
	var err error
	switch engine.FormatOf(filename) {
	case "yaml", "yml":
		data, err = yaml.Marshal(config)
	default:
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, filename)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.configs[ConfigID(filename)] = config
	m.mu.Unlock()

	return nil
}

// Schema returns the JSON schema of board configuration files
func (m *Manager) Schema() *jsonschema.Schema {
	return Schema()
}

// Schema reflects the JSON schema of engine.BoardConfig
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{ExpandedStruct: true}
	s := r.Reflect(&engine.BoardConfig{})
	s.Title = "Board configuration"
	return s
}

func isConfigFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

var _ service.ConfigManager = (*Manager)(nil)
