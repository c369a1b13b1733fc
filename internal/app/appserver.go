package app

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pointsrv/internal/core/dispatcher"
	"pointsrv/internal/core/server"
	"pointsrv/internal/shared/logger"
	"pointsrv/internal/shared/types"
)

// AppServer wires the dispatcher and the server loop from the configuration.
type AppServer struct {
	cfg    *types.Config
	server *server.Server
	logger zerolog.Logger

	stopOnce sync.Once
}

// New creates the application. Each component receives its own logger.
func New(cfg *types.Config) *AppServer {
	sc := cfg.ServerConf
	workload := dispatcher.NewWorkload(
		time.Duration(sc.DelayMinMs)*time.Millisecond,
		time.Duration(sc.DelayMaxMs)*time.Millisecond,
	)
	disp := dispatcher.New(workload, logger.WithComponent("dispatcher"))

	return &AppServer{
		cfg:    cfg,
		server: server.New(sc, disp, logger.WithComponent("server")),
		logger: logger.WithComponent("app"),
	}
}

// Start binds the listening socket. An error here is fatal for the process.
func (s *AppServer) Start() (net.Addr, error) {
	return s.server.Listen()
}

// Run serves until ctx is cancelled, then stops the loop cooperatively and
// waits for it to finish the connection it may be serving.
func (s *AppServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.server.Serve() }()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown signal received.")
		s.Stop()
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// Stop requests shutdown. It is safe to call more than once.
func (s *AppServer) Stop() {
	s.stopOnce.Do(func() {
		s.server.Stop()
	})
}

// Wait blocks until the server loop has exited.
func (s *AppServer) Wait() {
	<-s.server.Done()
}

// Stats exposes the server counters.
func (s *AppServer) Stats() types.ServerStats {
	return s.server.Stats()
}
