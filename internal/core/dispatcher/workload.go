package dispatcher

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// Workload is the simulated long-running computation. It blocks the calling
// goroutine (the server loop) for a random duration so that the serialized
// handling of clients shows up in the logs.
type Workload struct {
	Min, Max time.Duration
	// Sleep blocks for the given duration. Tests replace it.
	Sleep func(time.Duration)
}

// NewWorkload returns a workload sleeping uniformly in [min, max].
func NewWorkload(min, max time.Duration) *Workload {
	return &Workload{Min: min, Max: max, Sleep: time.Sleep}
}

// Simulate picks a delay, logs the start and the end of operation around it,
// and returns the delay.
func (w *Workload) Simulate(l *zerolog.Logger, operation string) time.Duration {
	delay := w.Min
	if span := w.Max - w.Min; span > 0 {
		delay += rand.N(span + 1)
	}
	l.Info().Msgf("%s running...", operation)
	w.Sleep(delay)
	l.Info().Str("delay", delay.Round(10*time.Millisecond).String()).Msgf("%s finished", operation)
	return delay
}
