package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"pointsrv/internal/shared/protocol"
	"pointsrv/internal/shared/types"
)

// Handler executes one decoded request. *dispatcher.Dispatcher implements it.
type Handler interface {
	Handle(ctx context.Context, req *protocol.Request) *protocol.Response
}

// Server is a single-threaded accept-and-serve loop. Exactly one connection
// is served at a time: later clients wait in the listen backlog until the
// current conversation is closed.
type Server struct {
	listenAddr    string
	acceptTimeout time.Duration
	readTimeout   time.Duration

	handler  Handler
	logger   zerolog.Logger
	listener *net.TCPListener

	running     atomic.Bool
	state       atomic.Int32
	connections atomic.Int64
	requests    atomic.Int64
	done        chan struct{}
}

// New creates a server for cfg. It does not bind until Listen is called.
func New(cfg types.ServerConf, handler Handler, logger zerolog.Logger) *Server {
	s := &Server{
		listenAddr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		acceptTimeout: time.Duration(cfg.AcceptTimeoutMs) * time.Millisecond,
		readTimeout:   time.Duration(cfg.ReadTimeoutSec) * time.Second,
		handler:       handler,
		logger:        logger,
		done:          make(chan struct{}),
	}
	s.running.Store(true)
	return s
}

// Listen binds the listening socket. A failure here is a startup fault.
func (s *Server) Listen() (net.Addr, error) {
	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return nil, fmt.Errorf("server failed to listen on %s: %w", s.listenAddr, err)
	}
	s.listener = ln.(*net.TCPListener)
	s.setState(types.StateListening)
	s.logger.Info().Str("listen_addr", ln.Addr().String()).Msg(">>> Server is listening (single-threaded, one client at a time).")
	return ln.Addr(), nil
}

// Serve runs the accept loop until Stop is observed. It must be called after
// Listen, and closes the listener on return.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server: Serve called before Listen")
	}
	defer close(s.done)
	defer s.shutdown()

	for s.running.Load() {
		s.setState(types.StateAcceptWait)
		if err := s.listener.SetDeadline(time.Now().Add(s.acceptTimeout)); err != nil {
			return fmt.Errorf("server: failed to set accept deadline: %w", err)
		}
		conn, err := s.listener.Accept()
		if err != nil {
			if protocol.IsTimeout(err) {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn().Err(err).Msg("Server failed to accept connection")
			continue
		}

		n := s.connections.Add(1)
		s.setState(types.StateServing)
		s.serveConn(conn, "Client"+strconv.FormatInt(n, 10))
	}
	return nil
}

// Stop asks the loop to exit. It returns immediately; the loop notices within
// one accept timeout, after any in-flight connection has finished.
func (s *Server) Stop() {
	if s.running.CompareAndSwap(true, false) {
		s.logger.Info().Msg("Server stop requested.")
	}
}

// Done is closed when Serve has returned.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// State reports where the loop currently is.
func (s *Server) State() types.ServerState {
	return types.ServerState(s.state.Load())
}

// Stats returns the counters.
func (s *Server) Stats() types.ServerStats {
	return types.ServerStats{
		ConnectionsServed: s.connections.Load(),
		RequestsProcessed: s.requests.Load(),
	}
}

func (s *Server) setState(st types.ServerState) {
	s.state.Store(int32(st))
}

func (s *Server) shutdown() {
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.Warn().Err(err).Msg("Error closing listener")
	}
	s.setState(types.StateStopped)
	stats := s.Stats()
	s.logger.Info().
		Int64("connections", stats.ConnectionsServed).
		Int64("requests", stats.RequestsProcessed).
		Msg("Server has been shut down")
}
