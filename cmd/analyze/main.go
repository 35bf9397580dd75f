// Command analyze prints quick, human-readable heuristics about the board
// configurations in a directory. For each config it reports the board extent
// for the configured viewport, sprite counts per kind, sprites that fall
// outside the board and the collisions present on the freshly seeded board.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/spriteboard/game/engine"
	"github.com/wricardo/spriteboard/game/geometry"
)

// Report is the analysis of one configuration file.
type Report struct {
	File        string
	Name        string
	AspectRatio geometry.AspectRatio
	Rows, Cols  int
	GridSize    geometry.Size
	Viewport    geometry.Size
	Extent      geometry.Size
	Kinds       map[engine.EntityKind]int
	Outside     []string
	Collisions  []engine.Collision
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("analyze failed")
	}
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Summarize board configurations",
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

			for _, file := range files {
				fmt.Fprintf(out, "\n=== Analyzing %s ===\n", filepath.Base(file))
				report, err := analyzeConfig(file)
				if err != nil {
					fmt.Fprintf(out, "Error: %v\n", err)
					continue
				}
				printReport(out, report)
			}
			return nil
		},
	}
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

// analyzeConfig loads a config, seeds a board from it and runs one tick.
func analyzeConfig(path string) (*Report, error) {
	config, err := engine.LoadBoardConfig(path)
	if err != nil {
		return nil, err
	}
	board, err := engine.NewBoard(config)
	if err != nil {
		return nil, err
	}

	extent := board.Extent()
	bounds := geometry.NewRect(0, 0, extent.W, extent.H)

	var outside []string
	for _, p := range board.Positions(extent) {
		if !bounds.Contains(p.Bounds) {
			outside = append(outside, p.ID)
		}
	}

	report := &Report{
		File:        filepath.Base(path),
		Name:        config.Name,
		AspectRatio: config.AspectRatio,
		Rows:        config.Grid.Rows,
		Cols:        config.Grid.Cols,
		GridSize:    board.Grid().Size(),
		Viewport:    config.Viewport,
		Extent:      extent,
		Kinds:       engine.CountKinds(board.Sprites()),
		Outside:     outside,
	}
	report.Collisions = board.Tick().Collisions
	return report, nil
}

func printReport(w io.Writer, r *Report) {
	fmt.Fprintf(w, "Name: %s\n", r.Name)
	fmt.Fprintf(w, "Grid: %d x %d (%gx%g px)\n", r.Cols, r.Rows, r.GridSize.W, r.GridSize.H)
	fmt.Fprintf(w, "Viewport: %gx%g, aspect %s, extent %gx%g\n",
		r.Viewport.W, r.Viewport.H, r.AspectRatio, r.Extent.W, r.Extent.H)

	kinds := make([]string, 0, len(r.Kinds))
	for k := range r.Kinds {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %s: %d\n", k, r.Kinds[engine.EntityKind(k)])
	}

	if r.GridSize.W > r.Extent.W || r.GridSize.H > r.Extent.H {
		fmt.Fprintf(w, "WARNING: grid is larger than the board extent\n")
	}
	if len(r.Outside) > 0 {
		fmt.Fprintf(w, "WARNING: %d sprites lie outside the board\n", len(r.Outside))
		for i, id := range r.Outside {
			if i == 5 {
				fmt.Fprintf(w, "   ... and %d more\n", len(r.Outside)-5)
				break
			}
			fmt.Fprintf(w, "   Outside: %s\n", id)
		}
	} else {
		fmt.Fprintf(w, "OK: all sprites are inside the board\n")
	}

	if n := len(r.Collisions); n > 0 {
		fmt.Fprintf(w, "WARNING: %d collisions on the seeded board\n", n)
	} else {
		fmt.Fprintf(w, "OK: no collisions on the seeded board\n")
	}
}
