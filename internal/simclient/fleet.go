package simclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Fleet runs several clients at once. They compete for the single server
// and end up served one after another.
type Fleet struct {
	count  int
	opts   Options
	logger zerolog.Logger
}

// NewFleet creates a fleet of count clients sharing opts.
func NewFleet(count int, opts Options, logger zerolog.Logger) *Fleet {
	return &Fleet{count: count, opts: opts, logger: logger}
}

// Run starts every client in its own goroutine and waits for all of them.
// A failing client does not stop the others. The returned error joins every
// client failure; reports are indexed by client number - 1.
func (f *Fleet) Run(ctx context.Context) ([]*Report, error) {
	reports := make([]*Report, f.count)
	var g errgroup.Group

	f.logger.Info().Int("clients", f.count).Str("addr", f.opts.Addr).Msg("Starting simulated clients")
	for i := 0; i < f.count; i++ {
		name := fmt.Sprintf("client-%d", i+1)
		g.Go(func() error {
			c, err := New(name, f.opts, f.logger)
			if err != nil {
				reports[i] = &Report{Name: name, Err: err}
				return nil
			}
			// the error is kept in the report so the other clients keep going
			reports[i], _ = c.Run(ctx)
			return nil
		})
	}
	// goroutines never fail: each outcome, error included, lives in its report
	_ = g.Wait()

	var errs []error
	for _, r := range reports {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name, r.Err))
		}
	}
	f.logger.Info().Int("clients", f.count).Int("failed", len(errs)).Msg("Simulated clients finished")
	return reports, errors.Join(errs...)
}
