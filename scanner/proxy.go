package scanner

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"portprobe/netutil"
)

// connectEstablished is the status text an HTTP proxy returns once the
// CONNECT tunnel to the target is up.
const connectEstablished = "200 Connection established"

// maxProxyResponse caps the single read of the proxy's CONNECT reply.
const maxProxyResponse = 4096

// ProbeViaProxy asks the relay described by proxyStr to open a tunnel to
// target:port. HTTP endpoints get a CONNECT request and the port counts as
// open iff the reply carries "200 Connection established". SOCKS5 endpoints
// count as open iff the relayed CONNECT succeeds.
func (d *Dialer) ProbeViaProxy(ctx context.Context, target string, portNum uint16, proxyStr string) bool {
	ep, err := netutil.ParseProxy(proxyStr)
	if err != nil {
		d.logf("proxy %q: %v", proxyStr, err)
		return false
	}
	dest := net.JoinHostPort(target, strconv.Itoa(int(portNum)))
	if ep.IsSOCKS() {
		return d.probeSOCKS(ctx, ep, dest)
	}
	return d.probeHTTPConnect(ctx, ep, dest)
}

func (d *Dialer) probeHTTPConnect(ctx context.Context, ep netutil.ProxyEndpoint, dest string) bool {
	timeout := d.proxyTimeout()
	conn, err := d.dialTimeout(ctx, ep.Addr(), timeout)
	if err != nil {
		d.logf("proxy %s: dial: %v", ep, err)
		return false
	}
	defer conn.Close()

	// The read is bounded by the same timeout as the connect.
	_ = conn.SetDeadline(time.Now().Add(timeout))
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	req := fmt.Sprintf("CONNECT %s HTTP/1.1\r\nHost: %s\r\n\r\n", dest, dest)
	if _, err := conn.Write([]byte(req)); err != nil {
		d.logf("proxy %s: write CONNECT %s: %v", ep, dest, err)
		return false
	}

	buf := make([]byte, maxProxyResponse)
	n, err := conn.Read(buf)
	if n == 0 {
		d.logf("proxy %s: read CONNECT %s reply: %v", ep, dest, err)
		return false
	}
	reply := string(buf[:n])
	if !strings.Contains(reply, connectEstablished) {
		line, _, _ := strings.Cut(reply, "\r\n")
		d.logf("proxy %s: CONNECT %s refused: %s", ep, dest, line)
		return false
	}
	d.logf("proxy %s: CONNECT %s: open", ep, dest)
	return true
}

func (d *Dialer) probeSOCKS(ctx context.Context, ep netutil.ProxyEndpoint, dest string) bool {
	timeout := d.proxyTimeout()
	forward := &net.Dialer{Timeout: timeout}
	sd, err := proxy.SOCKS5("tcp", ep.Addr(), nil, forward)
	if err != nil {
		d.logf("proxy %s: %v", ep, err)
		return false
	}
	cd, ok := sd.(proxy.ContextDialer)
	if !ok {
		d.logf("proxy %s: dialer does not support contexts", ep)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn, err := cd.DialContext(ctx, "tcp", dest)
	if err != nil {
		d.logf("proxy %s: CONNECT %s: %v", ep, dest, err)
		return false
	}
	_ = conn.Close()
	d.logf("proxy %s: CONNECT %s: open", ep, dest)
	return true
}
