package inverter

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// ErrSessionLost marks errors that invalidate the whole TCP session. A scan
// aborts on the first such error and the session reconnects.
var ErrSessionLost = errors.New("inverter session lost")

// ErrMalformedText marks a text register whose stripped bytes are not valid
// UTF-8.
var ErrMalformedText = errors.New("register text is not valid UTF-8")

// isSessionFatal reports whether err indicates the connection itself is dead,
// as opposed to a transient read failure worth retrying on the same socket.
func isSessionFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrSessionLost) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed)
}
