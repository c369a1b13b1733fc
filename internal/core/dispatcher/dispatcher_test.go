package dispatcher

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pointsrv/internal/core/geometry"
	"pointsrv/internal/shared/protocol"
)

// recordingWorkload replaces the sleep with a call counter.
func recordingWorkload(calls *[]time.Duration) *Workload {
	w := NewWorkload(time.Second, 3*time.Second)
	w.Sleep = func(d time.Duration) { *calls = append(*calls, d) }
	return w
}

func setupTestDispatcher(calls *[]time.Duration) *Dispatcher {
	return New(recordingWorkload(calls), zerolog.Nop())
}

func TestHandle_Ping(t *testing.T) {
	var calls []time.Duration
	d := setupTestDispatcher(&calls)

	resp := d.Handle(context.Background(), &protocol.Request{Action: protocol.ActionPing})
	if !resp.OK() || resp.Message != "pong" {
		t.Errorf("Expected success 'pong', got %+v", resp)
	}
	if len(calls) != 0 {
		t.Errorf("ping must not simulate work, got %d delays", len(calls))
	}
}

func TestHandle_ProcessSequential(t *testing.T) {
	var calls []time.Duration
	d := setupTestDispatcher(&calls)

	resp := d.Handle(context.Background(), &protocol.Request{
		Action: protocol.ActionProcess,
		Points: []geometry.Point{geometry.Pt(1, 1), geometry.Pt(4, 5), geometry.Pt(2, 3)},
		Method: "sequential",
	})
	if !resp.OK() {
		t.Fatalf("Expected success, got %+v", resp)
	}
	want := []geometry.Point{geometry.Pt(5, 6), geometry.Pt(6, 8), geometry.Pt(3, 4)}
	if !reflect.DeepEqual(resp.Result, want) {
		t.Errorf("Expected result %v, got %v", want, resp.Result)
	}
	if resp.ExtraInfo != nil {
		t.Errorf("sequential must not report a reference point, got %+v", resp.ExtraInfo)
	}
	if len(calls) != 1 {
		t.Errorf("Expected one simulated delay, got %d", len(calls))
	}
	for _, c := range calls {
		if c < time.Second || c > 3*time.Second {
			t.Errorf("delay %v outside [1s, 3s]", c)
		}
	}
}

func TestHandle_ProcessReportsReference(t *testing.T) {
	var calls []time.Duration
	d := setupTestDispatcher(&calls)
	points := []geometry.Point{geometry.Pt(3, 5), geometry.Pt(1, 2), geometry.Pt(1, 1)}

	tests := []struct {
		method string
		ref    geometry.Point
	}{
		{"min_sum", geometry.Pt(1, 1)},
		{"min_x", geometry.Pt(1, 1)},
	}
	for _, tt := range tests {
		resp := d.Handle(context.Background(), &protocol.Request{Action: protocol.ActionProcess, Points: points, Method: tt.method})
		if !resp.OK() {
			t.Fatalf("%s: expected success, got %+v", tt.method, resp)
		}
		if resp.ExtraInfo == nil || resp.ExtraInfo.Point != tt.ref || string(resp.ExtraInfo.Type) != tt.method {
			t.Errorf("%s: expected reference %v, got %+v", tt.method, tt.ref, resp.ExtraInfo)
		}
		if len(resp.Result) != len(points) {
			t.Errorf("%s: result length %d, want %d", tt.method, len(resp.Result), len(points))
		}
	}
}

func TestHandle_ValidationErrors(t *testing.T) {
	var calls []time.Duration
	d := setupTestDispatcher(&calls)

	tests := []struct {
		name    string
		req     *protocol.Request
		message string
	}{
		{"empty points", &protocol.Request{Action: protocol.ActionProcess, Method: "original"}, "empty point set"},
		{"unknown method", &protocol.Request{Action: protocol.ActionProcess, Points: []geometry.Point{geometry.Pt(1, 1)}, Method: "bogus"}, "invalid method"},
		{"missing method", &protocol.Request{Action: protocol.ActionProcess, Points: []geometry.Point{geometry.Pt(1, 1)}}, "invalid method"},
		{"unknown action", &protocol.Request{Action: "dance"}, "unknown action"},
		{"missing action", &protocol.Request{}, "unknown action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := d.Handle(context.Background(), tt.req)
			if resp.Status != protocol.StatusError {
				t.Fatalf("Expected error status, got %+v", resp)
			}
			if !strings.Contains(resp.Message, tt.message) {
				t.Errorf("Expected message containing '%s', got '%s'", tt.message, resp.Message)
			}
		})
	}
	if len(calls) != 0 {
		t.Errorf("rejected requests must not simulate work, got %d delays", len(calls))
	}
}

func TestHandle_ProcessOverflow(t *testing.T) {
	var calls []time.Duration
	d := setupTestDispatcher(&calls)

	for _, method := range geometry.Methods {
		t.Run(string(method), func(t *testing.T) {
			resp := d.Handle(context.Background(), &protocol.Request{
				Action: protocol.ActionProcess,
				Points: []geometry.Point{geometry.Pt(1e308, 1e308), geometry.Pt(1e308, 1e307)},
				Method: string(method),
			})
			if resp.Status != protocol.StatusError || resp.Message != "process: result out of range" {
				t.Errorf("Expected out of range error, got %+v", resp)
			}
			if resp.Result != nil {
				t.Errorf("Expected no result, got %v", resp.Result)
			}
		})
	}
}

func TestHandle_Test(t *testing.T) {
	var calls []time.Duration
	d := setupTestDispatcher(&calls)

	resp := d.Handle(context.Background(), &protocol.Request{Action: protocol.ActionTest})
	if !resp.OK() {
		t.Fatalf("Expected success, got %+v", resp)
	}
	if resp.Distance == nil || *resp.Distance != 5 {
		t.Errorf("Expected distance 5, got %v", resp.Distance)
	}
	if resp.Closest == nil || *resp.Closest != geometry.Pt(2, 0) {
		t.Errorf("Expected closest (2, 0), got %v", resp.Closest)
	}
	if resp.Sum == nil || *resp.Sum != geometry.Pt(4, 6) {
		t.Errorf("Expected sum (4, 6), got %v", resp.Sum)
	}
	if len(resp.Methods) != len(geometry.Methods) {
		t.Fatalf("Expected %d method results, got %d", len(geometry.Methods), len(resp.Methods))
	}
	want := []geometry.Point{geometry.Pt(5, 6), geometry.Pt(6, 8), geometry.Pt(3, 4)}
	if !reflect.DeepEqual(resp.Methods[geometry.MethodSequential], want) {
		t.Errorf("sequential diagnostics = %v, want %v", resp.Methods[geometry.MethodSequential], want)
	}
	// one delay up front plus one per method
	if len(calls) != 1+len(geometry.Methods) {
		t.Errorf("Expected %d simulated delays, got %d", 1+len(geometry.Methods), len(calls))
	}
}

func TestHandle_Exit(t *testing.T) {
	var calls []time.Duration
	d := setupTestDispatcher(&calls)

	resp := d.Handle(context.Background(), &protocol.Request{Action: protocol.ActionExit})
	if !resp.OK() {
		t.Errorf("Expected success acknowledgment, got %+v", resp)
	}
}

func TestHandle_RecoversFromPanic(t *testing.T) {
	d := New(&Workload{Sleep: func(time.Duration) { panic("boom") }}, zerolog.Nop())

	resp := d.Handle(context.Background(), &protocol.Request{Action: protocol.ActionTest})
	if resp.Status != protocol.StatusError || !strings.Contains(resp.Message, "boom") {
		t.Errorf("Expected recovered error response, got %+v", resp)
	}
}

func TestHandle_UsesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	connLogger := zerolog.New(&buf).With().Str("client", "Client7").Logger()
	ctx := connLogger.WithContext(context.Background())

	d := New(&Workload{Sleep: func(time.Duration) {}}, zerolog.Nop())
	d.Handle(ctx, &protocol.Request{
		Action: protocol.ActionProcess,
		Points: []geometry.Point{geometry.Pt(1, 1)},
		Method: "original",
	})

	out := buf.String()
	if !strings.Contains(out, `"client":"Client7"`) || !strings.Contains(out, "processing 1 points with method original running...") {
		t.Errorf("Expected workload logs on the connection logger, got: %s", out)
	}
}
