package netutil

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Proxy schemes understood by the scanner. An endpoint written without a
// scheme is treated as SchemeHTTP.
const (
	SchemeHTTP    = "http"
	SchemeHTTPS   = "https"
	SchemeSOCKS5  = "socks5"
	SchemeSOCKS5H = "socks5h"
)

// ProxyEndpoint is a relay host and port parsed from "[scheme://]host:port".
type ProxyEndpoint struct {
	Scheme string
	Host   string
	Port   int
}

// Addr returns the dialable "host:port" form of the endpoint.
func (p ProxyEndpoint) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// IsSOCKS reports whether the endpoint speaks SOCKS5 rather than HTTP CONNECT.
func (p ProxyEndpoint) IsSOCKS() bool {
	return p.Scheme == SchemeSOCKS5 || p.Scheme == SchemeSOCKS5H
}

func (p ProxyEndpoint) String() string {
	return p.Scheme + "://" + p.Addr()
}

// ParseProxy strips an optional leading "scheme://" label and splits the
// remainder into host and numeric port.
func ParseProxy(s string) (ProxyEndpoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ProxyEndpoint{}, errors.New("empty proxy")
	}
	scheme := SchemeHTTP
	if i := strings.Index(s, "://"); i >= 0 {
		scheme = strings.ToLower(s[:i])
		s = s[i+3:]
	}
	switch scheme {
	case SchemeHTTP, SchemeHTTPS, SchemeSOCKS5, SchemeSOCKS5H:
	default:
		return ProxyEndpoint{}, fmt.Errorf("unsupported proxy scheme %q", scheme)
	}
	s = strings.TrimSuffix(s, "/")

	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return ProxyEndpoint{}, fmt.Errorf("invalid proxy %q: %w", s, err)
	}
	if strings.TrimSpace(host) == "" {
		return ProxyEndpoint{}, errors.New("empty proxy host")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return ProxyEndpoint{}, fmt.Errorf("invalid proxy port %q", portStr)
	}
	return ProxyEndpoint{Scheme: scheme, Host: host, Port: port}, nil
}

// ParseProxyList splits a comma-separated proxy list, trimming whitespace and
// dropping empty entries. Entries are not validated here.
func ParseProxyList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
