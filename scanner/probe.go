package scanner

import (
	"context"
	"log"
	"math/rand"
	"net"
	"time"
)

// Default per-probe connect timeouts.
const (
	DefaultDirectTimeout = 1 * time.Second
	DefaultProxyTimeout  = 2 * time.Second
)

// Prober decides whether a single target:port pair is reachable.
// Implementations must be safe for concurrent use and must not block past
// their own timeouts.
type Prober interface {
	Probe(ctx context.Context, target string, portNum uint16) bool
}

// Dialer is the network Prober. With no proxies configured every probe is a
// direct TCP connect; otherwise each probe picks one proxy at random and
// relays through it. Dialer holds no mutable state and may be shared by all
// workers of a scan.
type Dialer struct {
	Proxies       []string
	DirectTimeout time.Duration
	ProxyTimeout  time.Duration
	Logger        *log.Logger

	// pick returns an index in [0, n). Nil means math/rand/v2.IntN.
	pick func(n int) int
	// dial opens TCP connections. Nil means a zero net.Dialer.
	dial func(ctx context.Context, network, address string) (net.Conn, error)
}

// Probe routes one probe directly or through a randomly chosen proxy.
func (d *Dialer) Probe(ctx context.Context, target string, portNum uint16) bool {
	if len(d.Proxies) == 0 {
		return d.ProbeDirect(ctx, target, portNum)
	}
	return d.ProbeViaProxy(ctx, target, portNum, d.Proxies[d.choose(len(d.Proxies))])
}

func (d *Dialer) choose(n int) int {
	if d.pick != nil {
		return d.pick(n)
	}
	return rand.Intn(n)
}

// dialTimeout dials address with the whole attempt bounded by timeout.
func (d *Dialer) dialTimeout(ctx context.Context, address string, timeout time.Duration) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if d.dial != nil {
		return d.dial(ctx, "tcp", address)
	}
	var nd net.Dialer
	return nd.DialContext(ctx, "tcp", address)
}

func (d *Dialer) directTimeout() time.Duration {
	if d.DirectTimeout <= 0 {
		return DefaultDirectTimeout
	}
	return d.DirectTimeout
}

func (d *Dialer) proxyTimeout() time.Duration {
	if d.ProxyTimeout <= 0 {
		return DefaultProxyTimeout
	}
	return d.ProxyTimeout
}

func (d *Dialer) logf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}
