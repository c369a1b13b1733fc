package dispatcher

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"pointsrv/internal/core/geometry"
	"pointsrv/internal/shared/protocol"
)

// Fixed inputs of the "test" diagnostic.
var (
	testDistanceA = geometry.Pt(0, 0)
	testDistanceB = geometry.Pt(3, 4)
	testNearestTo = geometry.Pt(0, 0)
	testNearestIn = []geometry.Point{geometry.Pt(0, 0), geometry.Pt(2, 0), geometry.Pt(5, 5)}
	testSumA      = geometry.Pt(1, 2)
	testSumB      = geometry.Pt(3, 4)
	testMethodSet = []geometry.Point{geometry.Pt(1, 1), geometry.Pt(4, 5), geometry.Pt(2, 3)}
)

// Dispatcher turns one decoded request into one response. It holds no
// per-connection state; the only side effect is the simulated workload.
type Dispatcher struct {
	workload *Workload
	logger   zerolog.Logger
}

// New creates a Dispatcher. logger is used when the request context carries
// no connection logger.
func New(workload *Workload, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		workload: workload,
		logger:   logger,
	}
}

// Handle executes req. Validation failures and panics are returned as error
// responses; Handle itself never fails.
func (d *Dispatcher) Handle(ctx context.Context, req *protocol.Request) (resp *protocol.Response) {
	l := d.loggerFrom(ctx)
	if req == nil {
		return protocol.Errorf("empty request")
	}

	defer func() {
		if r := recover(); r != nil {
			l.Error().Interface("panic", r).Str("action", string(req.Action)).Msg("Dispatcher recovered from panic")
			resp = protocol.Errorf("internal error: %v", r)
		}
	}()

	switch req.Action {
	case protocol.ActionPing:
		return protocol.Success("pong")
	case protocol.ActionTest:
		return d.runDiagnostics(l)
	case protocol.ActionProcess:
		return d.process(l, req)
	case protocol.ActionExit:
		return protocol.Success("bye")
	default:
		l.Warn().Str("action", string(req.Action)).Msg("Unknown action")
		return protocol.Errorf("unknown action: %q", req.Action)
	}
}

func (d *Dispatcher) process(l *zerolog.Logger, req *protocol.Request) *protocol.Response {
	if len(req.Points) == 0 {
		return protocol.Errorf("process: %v", geometry.ErrEmptyPointSet)
	}
	method, err := geometry.ParseMethod(req.Method)
	if err != nil {
		return protocol.Errorf("process: %v", err)
	}

	d.workload.Simulate(l, fmt.Sprintf("processing %d points with method %s", len(req.Points), method))

	result, err := geometry.Combine(req.Points, method)
	if err != nil {
		return protocol.Errorf("process: %v", err)
	}
	for _, p := range result {
		if !p.IsFinite() {
			l.Warn().Int("points", len(req.Points)).Str("method", string(method)).Msg("Result overflowed")
			return protocol.Errorf("process: %v", geometry.ErrOutOfRange)
		}
	}
	resp := &protocol.Response{Status: protocol.StatusSuccess, Result: result}

	if method == geometry.MethodMinSum || method == geometry.MethodMinX {
		ref, err := geometry.Reference(req.Points, method)
		if err != nil {
			return protocol.Errorf("process: %v", err)
		}
		resp.ExtraInfo = &protocol.ExtraInfo{Type: method, Point: ref}
	}
	return resp
}

// runDiagnostics exercises every geometry operation over fixed inputs.
func (d *Dispatcher) runDiagnostics(l *zerolog.Logger) *protocol.Response {
	d.workload.Simulate(l, "diagnostics")

	distance := geometry.Distance(testDistanceA, testDistanceB)
	sum := geometry.Add(testSumA, testSumB)
	resp := &protocol.Response{
		Status:   protocol.StatusSuccess,
		Distance: &distance,
		Sum:      &sum,
		Methods:  make(map[geometry.Method][]geometry.Point, len(geometry.Methods)),
	}
	if closest, ok := geometry.Nearest(testNearestTo, testNearestIn); ok {
		resp.Closest = &closest
	}

	for _, m := range geometry.Methods {
		d.workload.Simulate(l, "diagnostics: method "+string(m))
		result, err := geometry.Combine(testMethodSet, m)
		if err != nil {
			return protocol.Errorf("test: %s: %v", m, err)
		}
		resp.Methods[m] = result
	}
	return resp
}

func (d *Dispatcher) loggerFrom(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &d.logger
}
