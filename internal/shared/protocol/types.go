package protocol

import (
	"fmt"

	"pointsrv/internal/core/geometry"
)

// Action selects which server behaviour a request invokes.
type Action string

const (
	ActionPing    Action = "ping"
	ActionTest    Action = "test"
	ActionProcess Action = "process"
	ActionExit    Action = "exit"
)

// Status is the outcome of a request.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Request is one client message. Points and Method are only read for process.
// Method stays a plain string so that unknown values reach validation.
type Request struct {
	Action Action           `json:"action"`
	Points []geometry.Point `json:"points,omitempty"`
	Method string           `json:"method,omitempty"`
}

// ExtraInfo identifies the reference point chosen by min_sum / min_x.
type ExtraInfo struct {
	Type  geometry.Method `json:"type"`
	Point geometry.Point  `json:"point"`
}

// Response is one server message. Only the fields relevant to the action are set.
type Response struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`

	// process
	Result    []geometry.Point `json:"result,omitempty"`
	ExtraInfo *ExtraInfo       `json:"extra_info,omitempty"`

	// test
	Distance *float64                             `json:"distance,omitempty"`
	Closest  *geometry.Point                      `json:"closest,omitempty"`
	Sum      *geometry.Point                      `json:"sum,omitempty"`
	Methods  map[geometry.Method][]geometry.Point `json:"methods,omitempty"`
}

// OK reports whether the response has success status.
func (r *Response) OK() bool {
	return r != nil && r.Status == StatusSuccess
}

// Success builds a success response carrying msg.
func Success(msg string) *Response {
	return &Response{Status: StatusSuccess, Message: msg}
}

// Errorf builds an error response with a formatted message.
func Errorf(format string, args ...interface{}) *Response {
	return &Response{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}
