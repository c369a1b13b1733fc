package shared

import (
	"io"
	"net"
	"testing"
)

func TestCountedConn(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	counted := NewCountedConn(a)
	go func() {
		buf := make([]byte, 5)
		_, _ = io.ReadFull(b, buf)
		_, _ = b.Write([]byte("pong!!!"))
	}()

	if _, err := counted.Write([]byte("ping!")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	buf := make([]byte, 7)
	if _, err := io.ReadFull(counted, buf); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if counted.BytesOut() != 5 {
		t.Errorf("Expected 5 bytes out, got %d", counted.BytesOut())
	}
	if counted.BytesIn() != 7 {
		t.Errorf("Expected 7 bytes in, got %d", counted.BytesIn())
	}
}
