package shared

import (
	"net"
	"sync/atomic"
)

// CountedConn is a net.Conn wrapper that counts the bytes read and written.
type CountedConn struct {
	net.Conn
	in  atomic.Uint64
	out atomic.Uint64
}

// NewCountedConn wraps conn with zeroed counters.
func NewCountedConn(conn net.Conn) *CountedConn {
	return &CountedConn{Conn: conn}
}

// Read reads from the underlying connection and adds to the inbound count.
func (c *CountedConn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	if n > 0 {
		c.in.Add(uint64(n))
	}
	return n, err
}

// Write writes to the underlying connection and adds to the outbound count.
func (c *CountedConn) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	if n > 0 {
		c.out.Add(uint64(n))
	}
	return n, err
}

// BytesIn returns the number of bytes read so far.
func (c *CountedConn) BytesIn() uint64 { return c.in.Load() }

// BytesOut returns the number of bytes written so far.
func (c *CountedConn) BytesOut() uint64 { return c.out.Load() }
