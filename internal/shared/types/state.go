package types

// ServerState is a step of the server lifecycle:
// LISTENING -> (ACCEPT_WAIT <-> SERVE_CONNECTION) -> STOPPED.
type ServerState int32

const (
	StateIdle ServerState = iota // not yet listening
	StateListening
	StateAcceptWait
	StateServing
	StateStopped
)

func (s ServerState) String() string {
	switch s {
	case StateListening:
		return "LISTENING"
	case StateAcceptWait:
		return "ACCEPT_WAIT"
	case StateServing:
		return "SERVE_CONNECTION"
	case StateStopped:
		return "STOPPED"
	default:
		return "IDLE"
	}
}

// ServerStats are the counters kept by the server loop.
type ServerStats struct {
	ConnectionsServed int64 `json:"connectionsServed"`
	RequestsProcessed int64 `json:"requestsProcessed"`
}
