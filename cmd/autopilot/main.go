// Command autopilot drives a board session over the REST API: it steers the
// player into every pickup, ticking the board after each move, and reports
// how many pickups were collected.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// Options tune one autopilot run.
type Options struct {
	MaxMoves int
	Patience int
	Delay    time.Duration
	Reset    bool
}

// Summary is the outcome of a run.
type Summary struct {
	SessionID  string
	Moves      int
	Ticks      int
	Collected  int
	Planned    int
	Skipped    []string
	Collisions int
}

// Complete reports whether every planned pickup was collected.
func (s *Summary) Complete() bool {
	return s.Collected == s.Planned
}

var errNoPlayer = errors.New("board has no player sprite")

// Run steers the player until every planned pickup is collected or skipped,
// or MaxMoves is reached.
func Run(ctx context.Context, c *Client, opts Options, logger zerolog.Logger) (*Summary, error) {
	view, err := c.Board(ctx)
	if opts.Reset && err == nil {
		view, err = c.Reset(ctx)
	}
	if err != nil {
		return nil, err
	}
	if _, ok := findPlayer(view); !ok {
		return nil, errNoPlayer
	}

	strategy := NewStrategy(view, opts.Patience)
	summary := &Summary{SessionID: c.SessionID(), Planned: len(strategy.Order())}
	logger.Info().Int("pickups", summary.Planned).Msg("route planned")

	for summary.Moves < opts.MaxMoves {
		action, ok := strategy.NextMove(view)
		if !ok {
			break
		}

		if action != "" {
			if _, err := c.Input(ctx, string(action)); err != nil {
				return summary, err
			}
			summary.Moves++
		}

		report, err := c.Tick(ctx)
		if err != nil {
			return summary, err
		}
		summary.Ticks++
		summary.Collisions += len(report.Collisions)
		for _, id := range report.Removed {
			if strategy.IsPickup(id) {
				summary.Collected++
				logger.Info().Str("pickup", id).Int("moves", summary.Moves).Msg("pickup collected")
			}
		}

		if view, err = c.Board(ctx); err != nil {
			return summary, err
		}

		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}

	summary.Skipped = strategy.Skipped()
	return summary, nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "autopilot",
		Usage: "Steer a session's player into every pickup",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8080",
				Usage:   "Board server URL",
				Sources: cli.EnvVars("SPRITEBOARD_EXTERNAL_API"),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Board configuration ID for a new session",
			},
			&cli.StringFlag{
				Name:  "continue",
				Usage: "Resume an existing session by ID",
			},
			&cli.StringFlag{
				Name:  "session-file",
				Usage: "File the session ID is read from and saved to",
			},
			&cli.IntFlag{
				Name:  "max-moves",
				Value: 3000,
				Usage: "Maximum moves per run",
			},
			&cli.IntFlag{
				Name:  "patience",
				Value: 200,
				Usage: "Moves spent on one pickup before skipping it",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "Delay between moves",
			},
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Reseed the board before driving",
			},
			&cli.BoolFlag{
				Name:  "v",
				Usage: "Verbose output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := zerolog.InfoLevel
			if cmd.Bool("v") {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
			return ctx, nil
		},
		Action: runAutopilot,
	}
}

func runAutopilot(ctx context.Context, cmd *cli.Command) error {
	logger := log.With().Str("component", "autopilot").Logger()
	c := NewClient(strings.TrimRight(cmd.String("url"), "/"))

	if err := bindSession(ctx, c, cmd.String("continue"), cmd.String("session-file"), cmd.String("config"), logger); err != nil {
		return err
	}

	summary, err := Run(ctx, c, Options{
		MaxMoves: int(cmd.Int("max-moves")),
		Patience: int(cmd.Int("patience")),
		Delay:    cmd.Duration("delay"),
		Reset:    cmd.Bool("reset"),
	}, logger)
	if err != nil {
		return err
	}

	logger.Info().
		Str("session", summary.SessionID).
		Int("moves", summary.Moves).
		Int("collected", summary.Collected).
		Int("planned", summary.Planned).
		Int("collisions", summary.Collisions).
		Strs("skipped", summary.Skipped).
		Msg("run finished")

	if !summary.Complete() {
		return fmt.Errorf("collected %d of %d pickups", summary.Collected, summary.Planned)
	}
	return nil
}

// bindSession resumes the session named by the flag or the session file and
// falls back to creating a new one, saving its ID when a file is given.
func bindSession(ctx context.Context, c *Client, resume, sessionFile, configID string, logger zerolog.Logger) error {
	if resume == "" && sessionFile != "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			resume = strings.TrimSpace(string(data))
		}
	}

	if resume != "" {
		_, err := c.Resume(ctx, resume)
		if err == nil {
			logger.Info().Str("session", resume).Msg("session resumed")
			return nil
		}
		logger.Warn().Err(err).Str("session", resume).Msg("failed to resume session, creating a new one")
	}

	info, err := c.CreateSession(ctx, configID)
	if err != nil {
		return err
	}
	logger.Info().Str("session", info.ID).Str("config", info.ConfigName).Msg("session created")

	if sessionFile != "" {
		if err := os.WriteFile(sessionFile, []byte(info.ID), 0644); err != nil {
			logger.Warn().Err(err).Msg("failed to save session ID")
		}
	}
	return nil
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("autopilot failed")
		os.Exit(1)
	}
}
