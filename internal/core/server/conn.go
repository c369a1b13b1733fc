package server

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pointsrv/internal/shared"
	"pointsrv/internal/shared/protocol"
)

// serveConn drives one connection to completion:
// AWAIT_MESSAGE -> DISPATCH -> SEND_REPLY -> (AWAIT_MESSAGE | CLOSE).
// Nothing survives the connection.
func (s *Server) serveConn(raw net.Conn, clientName string) {
	conn := shared.NewCountedConn(raw)
	defer conn.Close()

	l := s.logger.With().
		Str("client", clientName).
		Str("trace_id", uuid.NewString()).
		Logger()
	ctx := l.WithContext(context.Background())
	l.Info().Str("remote_addr", raw.RemoteAddr().String()).Msg("Client connected")

	served, reason := s.converse(ctx, conn, &l)

	l.Info().
		Int("requests", served).
		Uint64("bytes_in", conn.BytesIn()).
		Uint64("bytes_out", conn.BytesOut()).
		Str("reason", reason).
		Msg("Client disconnected")
}

// converse loops over request/response exchanges and returns how many were
// served and why the connection is closing.
func (s *Server) converse(ctx context.Context, conn net.Conn, l *zerolog.Logger) (int, string) {
	codec := protocol.NewCodec(conn)
	served := 0

	for {
		// the idle limit restarts before every message
		_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))

		var req protocol.Request
		if err := codec.Read(&req); err != nil {
			switch {
			case err == io.EOF:
				return served, "peer closed"
			case protocol.IsTimeout(err):
				l.Warn().Dur("timeout", s.readTimeout).Msg("Connection timed out")
				return served, "timeout"
			case protocol.IsMalformed(err):
				l.Warn().Err(err).Msg("Malformed request")
				// best effort: the peer may already be gone
				_ = conn.SetWriteDeadline(time.Now().Add(s.readTimeout))
				_ = codec.Write(protocol.Errorf("malformed request: %v", errors.Unwrap(err)))
				return served, "malformed request"
			default:
				l.Warn().Err(err).Msg("Failed to read request")
				return served, "read error"
			}
		}

		l.Info().Str("action", string(req.Action)).Msg("Request received")
		resp := s.handler.Handle(ctx, &req)
		s.requests.Add(1)
		served++

		_ = conn.SetWriteDeadline(time.Now().Add(s.readTimeout))
		err := codec.Write(resp)
		if protocol.IsUnencodable(err) {
			l.Error().Err(err).Str("action", string(req.Action)).Msg("Response could not be encoded")
			err = codec.Write(protocol.Errorf("internal error: response could not be encoded"))
		}
		if err != nil {
			l.Warn().Err(err).Msg("Failed to write response")
			return served, "write error"
		}
		l.Debug().Str("status", string(resp.Status)).Msg("Response sent")

		if req.Action == protocol.ActionExit {
			return served, "exit"
		}
	}
}
