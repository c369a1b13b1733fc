package protocol

import (
	"encoding/json"
	"errors"
	"io"
	"net"
)

// Codec exchanges JSON messages over a stream. Messages carry no length
// prefix: each one is a single complete JSON object, and the decoder finds
// its end itself.
type Codec struct {
	dec *json.Decoder
	enc *json.Encoder
}

// NewCodec wraps rw. Reads are buffered by the decoder, so rw must not be
// read from elsewhere while the codec is in use.
func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{
		dec: json.NewDecoder(rw),
		enc: json.NewEncoder(rw),
	}
}

// Read decodes the next message into v. It returns io.EOF when the peer
// closed the stream cleanly between messages, an *Error with Op "read" for
// transport failures (including timeouts) and Op "decode" for malformed
// bodies.
func (c *Codec) Read(v interface{}) error {
	err := c.dec.Decode(v)
	if err == nil {
		return nil
	}
	if err == io.EOF {
		return io.EOF
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return &Error{Op: "read", Err: err}
	}
	return &Error{Op: "decode", Err: err}
}

// Write encodes v as one message.
func (c *Codec) Write(v interface{}) error {
	if err := c.enc.Encode(v); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, net.ErrClosed) {
			return &Error{Op: "write", Err: err}
		}
		return &Error{Op: "encode", Err: err}
	}
	return nil
}

// Error wraps a failure of one codec operation.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "protocol: " + e.Op + " failed: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err came from an unparsable message body
// rather than from the transport.
func IsMalformed(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Op == "decode"
}

// IsUnencodable reports whether err came from a value that has no JSON
// form. Nothing was written to the stream in that case.
func IsUnencodable(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Op == "encode"
}

// IsTimeout reports whether err is a read or write deadline expiry.
func IsTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
