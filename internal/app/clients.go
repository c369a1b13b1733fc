package app

import (
	"context"

	"pointsrv/internal/shared/logger"
	"pointsrv/internal/shared/types"
	"pointsrv/internal/simclient"
)

// RunClients launches count simulated clients against the configured server
// and waits for all of them.
func RunClients(ctx context.Context, cfg *types.Config, count int) ([]*simclient.Report, error) {
	opts := simclient.OptionsFromConfig(cfg)
	return simclient.NewFleet(count, opts, logger.WithComponent("client")).Run(ctx)
}
