// Command validate checks board configuration files (JSON or YAML) and exits
// non-zero if any of them is invalid. It checks:
//   - the file parses and passes board config validation, with every problem
//     reported rather than just the first
//   - at least one player sprite is seeded
//   - every seeded sprite lies inside the board extent for the configured
//     viewport
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"go.uber.org/multierr"

	"github.com/wricardo/spriteboard/game/engine"
	"github.com/wricardo/spriteboard/game/geometry"
)

var errInvalidConfigs = errors.New("some configurations have errors")

// ValidationResult captures the outcome of validating a single file.
// Errors is empty when Valid is true; Info holds a summary of valid files.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(err error) {
	r.Valid = false
	for _, e := range multierr.Errors(err) {
		r.Errors = append(r.Errors, e.Error())
	}
}

// validateConfig loads and validates a single configuration file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	config, err := engine.LoadBoardConfig(filePath)
	if err != nil {
		result.fail(err)
		return result
	}

	board, err := engine.NewBoard(config)
	if err != nil {
		result.fail(err)
		return result
	}

	counts := engine.CountKinds(board.Sprites())
	if counts[engine.Player] == 0 {
		result.fail(errors.New("must have at least 1 player sprite"))
	}
	if err := validatePlacement(board); err != nil {
		result.fail(err)
	}

	if result.Valid {
		extent := board.Extent()
		result.Info = append(result.Info,
			fmt.Sprintf("Name: %s", config.Name),
			fmt.Sprintf("Grid: %dx%d", config.Grid.Rows, config.Grid.Cols),
			fmt.Sprintf("Aspect: %s, extent %gx%g", config.AspectRatio, extent.W, extent.H),
			fmt.Sprintf("Players: %d", counts[engine.Player]),
			fmt.Sprintf("Obstacles: %d", counts[engine.Obstacle]),
			fmt.Sprintf("Pickups: %d", counts[engine.Pickup]),
		)
	}
	return result
}

// validatePlacement reports every seeded sprite that does not fit inside the
// board extent of the configured viewport.
func validatePlacement(board *engine.Board) error {
	extent := board.Extent()
	bounds := geometry.NewRect(0, 0, extent.W, extent.H)

	var errs error
	for _, cell := range board.Grid().Layout(board.Grid().Size()) {
		if cell.Kind == engine.Empty {
			continue
		}
		if !bounds.Contains(cell.Area.Rect()) {
			errs = multierr.Append(errs, fmt.Errorf("%s at %s lies outside the %gx%g board",
				cell.Kind, cell.Coords, extent.W, extent.H))
		}
	}
	return errs
}

// configFiles lists the JSON and YAML files in dir, sorted by name.
func configFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read config dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch engine.FormatOf(entry.Name()) {
		case "json", "yaml", "yml":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// report prints one result and returns whether it was valid.
func report(w io.Writer, result ValidationResult) bool {
	fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
	if !result.Valid {
		fmt.Fprintln(w, "INVALID")
		for _, e := range result.Errors {
			fmt.Fprintln(w, "  - "+e)
		}
		return false
	}

	fmt.Fprintln(w, "VALID")
	for _, info := range result.Info {
		fmt.Fprintln(w, "  "+info)
	}
	return true
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate board configuration files",
		ArgsUsage: "[file ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Value: "configs",
				Usage: "Directory scanned when no files are given",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				var err error
				if files, err = configFiles(cmd.String("dir")); err != nil {
					return err
				}
			}
			if len(files) == 0 {
				return errors.New("no configuration files found")
			}

			allValid := true
			for _, file := range files {
				if !report(out, validateConfig(file)) {
					allValid = false
				}
			}

			fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
			if !allValid {
				fmt.Fprintln(out, "Some configurations have errors")
				return errInvalidConfigs
			}
			fmt.Fprintln(out, "All configurations are valid!")
			return nil
		},
	}
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, errInvalidConfigs) {
			log.Error().Err(err).Msg("validate failed")
		}
		os.Exit(1)
	}
}
