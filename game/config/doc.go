// Package config provides configuration management for the sprite board server.
//
// The config package handles:
//   - Loading board configurations from JSON and YAML files
//   - Configuration validation and caching
//   - Default configuration management
//   - Configuration discovery and listing
//   - The JSON schema of configuration files
//
// Configuration Format:
//
// Board configurations are stored as .json, .yaml or .yml files in the
// configs directory. A configuration's ID is its file name without the
// extension. Each configuration defines:
//   - The board aspect ratio, padding and initial viewport
//   - The seeding grid (rows, columns, spacing, cell size)
//   - The initial sprites keyed by "x,y" grid coordinates
//   - Optional player step, tick interval and history limit
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	boardConfig, err := manager.LoadConfig("arena")
//
//	// Get default configuration
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
//
// Validation:
//
// Every configuration is validated on load and before it is saved. All
// problems in a file are reported together.
package config
