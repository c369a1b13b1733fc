package simclient

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/net/proxy"

	"pointsrv/internal/shared/protocol"
	"pointsrv/internal/shared/types"
)

// ErrHandshake is returned when the server does not answer ping with pong.
var ErrHandshake = errors.New("handshake failed")

// Options configure one simulated client.
type Options struct {
	Addr        string
	DialTimeout time.Duration
	IOTimeout   time.Duration // bound on one request/response exchange
	PauseMin    time.Duration
	PauseMax    time.Duration
	Socks5      string // optional SOCKS5 proxy host:port
	Script      []Step
}

// OptionsFromConfig builds client options targeting the configured server.
func OptionsFromConfig(cfg *types.Config) Options {
	return Options{
		Addr:        net.JoinHostPort(cfg.ServerConf.Host, strconv.Itoa(cfg.ServerConf.Port)),
		DialTimeout: time.Duration(cfg.ClientConf.DialTimeoutSec) * time.Second,
		IOTimeout:   time.Duration(cfg.ClientConf.IOTimeoutSec) * time.Second,
		PauseMin:    time.Duration(cfg.ClientConf.PauseMinMs) * time.Millisecond,
		PauseMax:    time.Duration(cfg.ClientConf.PauseMaxMs) * time.Millisecond,
		Socks5:      cfg.ClientConf.Socks5,
		Script:      DefaultScript(),
	}
}

// Report summarizes one run.
type Report struct {
	Name     string
	ID       string
	Started  time.Time
	Elapsed  time.Duration
	Sent     int // script steps answered by the server
	Rejected int // of those, answered with an error status
	Err      error
}

// Client runs the scripted conversation over its own connection.
type Client struct {
	name   string
	id     string
	opts   Options
	dialer proxy.ContextDialer
	logger zerolog.Logger
}

// New creates a client. name identifies it in logs; a random instance id is
// attached as well.
func New(name string, opts Options, logger zerolog.Logger) (*Client, error) {
	dialer, err := newDialer(opts)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()[:8]
	return &Client{
		name:   name,
		id:     id,
		opts:   opts,
		dialer: dialer,
		logger: logger.With().Str("client", name).Str("instance_id", id).Logger(),
	}, nil
}

func newDialer(opts Options) (proxy.ContextDialer, error) {
	direct := &net.Dialer{Timeout: opts.DialTimeout}
	if opts.Socks5 == "" {
		return direct, nil
	}
	d, err := proxy.SOCKS5("tcp", opts.Socks5, nil, direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer for %s: %w", opts.Socks5, err)
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("SOCKS5 dialer for %s does not support contexts", opts.Socks5)
	}
	return cd, nil
}

// Run executes connect, ping handshake, the script, then exit. Any
// connection fault aborts the run without retry. ctx only bounds the dial;
// once connected the script runs to completion or to its first I/O fault.
func (c *Client) Run(ctx context.Context) (*Report, error) {
	rep := &Report{Name: c.name, ID: c.id, Started: time.Now()}
	err := c.run(ctx, rep)
	rep.Elapsed = time.Since(rep.Started)
	rep.Err = err
	if err != nil {
		c.logger.Error().Err(err).Dur("elapsed", rep.Elapsed).Msg("Run aborted")
	} else {
		c.logger.Info().Int("steps", rep.Sent).Int("rejected", rep.Rejected).Dur("elapsed", rep.Elapsed).Msg("Run finished")
	}
	return rep, err
}

func (c *Client) run(ctx context.Context, rep *Report) error {
	dialCtx, cancel := context.WithTimeout(ctx, c.opts.DialTimeout)
	defer cancel()

	c.logger.Info().Str("addr", c.opts.Addr).Msg("Connecting")
	conn, err := c.dialer.DialContext(dialCtx, "tcp", c.opts.Addr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.opts.Addr, err)
	}
	defer conn.Close()
	codec := protocol.NewCodec(conn)

	sent := time.Now()
	resp, err := c.exchange(conn, codec, &protocol.Request{Action: protocol.ActionPing})
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if !resp.OK() || resp.Message != "pong" {
		return fmt.Errorf("%w: %s %q", ErrHandshake, resp.Status, resp.Message)
	}
	// the server answers nothing while it serves someone else
	c.logger.Info().Dur("waited", time.Since(sent)).Msg("Handshake complete")

	for _, step := range c.opts.Script {
		pause := c.pause()
		c.logger.Debug().Dur("pause", pause).Msgf("Waiting before %s", step.Name)
		time.Sleep(pause)

		sent := time.Now()
		req := step.Request
		resp, err := c.exchange(conn, codec, &req)
		if err != nil {
			return fmt.Errorf("%s: %w", step.Name, err)
		}
		rep.Sent++
		c.logOutcome(step, resp, time.Since(sent))
		if !resp.OK() {
			rep.Rejected++
		}
	}

	if _, err := c.exchange(conn, codec, &protocol.Request{Action: protocol.ActionExit}); err != nil {
		return fmt.Errorf("exit: %w", err)
	}
	c.logger.Info().Msg("Disconnected")
	return nil
}

func (c *Client) exchange(conn net.Conn, codec *protocol.Codec, req *protocol.Request) (*protocol.Response, error) {
	if err := conn.SetDeadline(time.Now().Add(c.opts.IOTimeout)); err != nil {
		return nil, err
	}
	if err := codec.Write(req); err != nil {
		return nil, err
	}
	var resp protocol.Response
	if err := codec.Read(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) logOutcome(step Step, resp *protocol.Response, took time.Duration) {
	if !resp.OK() {
		c.logger.Warn().Str("step", step.Name).Str("message", resp.Message).Dur("took", took).Msg("Step rejected")
		return
	}
	ev := c.logger.Info().Str("step", step.Name).Dur("took", took)
	switch {
	case resp.Result != nil:
		ev = ev.Interface("result", resp.Result)
		if resp.ExtraInfo != nil {
			ev = ev.Interface("reference", resp.ExtraInfo.Point)
		}
	case resp.Distance != nil:
		ev = ev.Float64("distance", *resp.Distance).Interface("methods", resp.Methods)
	}
	ev.Msg("Step succeeded")
}

func (c *Client) pause() time.Duration {
	d := c.opts.PauseMin
	if span := c.opts.PauseMax - c.opts.PauseMin; span > 0 {
		d += rand.N(span + 1)
	}
	return d
}
