package simclient

import (
	"pointsrv/internal/core/geometry"
	"pointsrv/internal/shared/protocol"
)

// Step is one scripted request.
type Step struct {
	Name    string
	Request protocol.Request
}

// DefaultScript is the fixed sequence every simulated client sends after
// its handshake: the diagnostics, then two processing requests.
func DefaultScript() []Step {
	return []Step{
		{Name: "test", Request: protocol.Request{Action: protocol.ActionTest}},
		{Name: "process original", Request: protocol.Request{
			Action: protocol.ActionProcess,
			Points: []geometry.Point{geometry.Pt(0, 0), geometry.Pt(2, 0), geometry.Pt(5, 5)},
			Method: string(geometry.MethodOriginal),
		}},
		{Name: "process min_sum", Request: protocol.Request{
			Action: protocol.ActionProcess,
			Points: []geometry.Point{geometry.Pt(3, 5), geometry.Pt(1, 2), geometry.Pt(4, 1)},
			Method: string(geometry.MethodMinSum),
		}},
	}
}
