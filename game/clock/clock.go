// Package clock drives periodic ticks of every live board session and fans
// the resulting reports out to listeners such as the WebSocket hub.
package clock

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/spriteboard/game/service"
)

// DefaultInterval is the server tick period used when none is configured.
const DefaultInterval = 100 * time.Millisecond

// Ticker advances every live session by one tick.
type Ticker interface {
	TickAll(ctx context.Context) ([]*service.TickReport, error)
}

// Sink receives every tick report produced by the clock.
type Sink interface {
	BroadcastTick(report *service.TickReport)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(report *service.TickReport)

// BroadcastTick calls f(report).
func (f SinkFunc) BroadcastTick(report *service.TickReport) { f(report) }

// Clock ticks sessions on a fixed period.
type Clock struct {
	ticker   Ticker
	interval time.Duration
	sinks    []Sink
	logger   zerolog.Logger
}

// New creates a clock. A non-positive interval falls back to DefaultInterval.
func New(ticker Ticker, interval time.Duration, sinks ...Sink) *Clock {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Clock{
		ticker:   ticker,
		interval: interval,
		sinks:    sinks,
		logger:   log.With().Str("component", "clock").Logger(),
	}
}

// Interval returns the tick period.
func (c *Clock) Interval() time.Duration {
	return c.interval
}

// Step runs a single round: every due session is ticked and each report is
// delivered to every sink in order.
func (c *Clock) Step(ctx context.Context) error {
	reports, err := c.ticker.TickAll(ctx)
	for _, report := range reports {
		for _, sink := range c.sinks {
			sink.BroadcastTick(report)
		}
	}
	return err
}

// Run steps the clock every interval until ctx is done.
func (c *Clock) Run(ctx context.Context) error {
	t := time.NewTicker(c.interval)
	defer t.Stop()

	c.logger.Info().Dur("interval", c.interval).Msg("clock started")
	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("clock stopped")
			return nil
		case <-t.C:
			if err := c.Step(ctx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				c.logger.Error().Err(err).Msg("tick round failed")
			}
		}
	}
}
