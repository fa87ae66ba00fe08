package scanner

import (
	"context"
	"net"
	"strconv"
)

// ProbeDirect performs a TCP connect scan of target:port bounded by
// DirectTimeout. It reports true iff the handshake completes; the connection
// is closed immediately either way.
func (d *Dialer) ProbeDirect(ctx context.Context, target string, portNum uint16) bool {
	addr := net.JoinHostPort(target, strconv.Itoa(int(portNum)))
	conn, err := d.dialTimeout(ctx, addr, d.directTimeout())
	if err != nil {
		d.logf("tcp %s: %v", addr, err)
		return false
	}
	_ = conn.Close()
	d.logf("tcp %s: open", addr)
	return true
}
