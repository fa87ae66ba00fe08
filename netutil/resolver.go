package netutil

import (
	"context"
	"errors"
	"net"
)

// LookupIPAddr is the resolver used by ResolveTarget. Tests may replace it.
var LookupIPAddr = net.DefaultResolver.LookupIPAddr

// ResolveTarget resolves the given target (hostname or IP string) and returns
// the first IPv4 address as a string, falling back to the first IPv6 address.
// IP literals are returned unchanged in canonical form.
func ResolveTarget(ctx context.Context, target string) (string, error) {
	if ip := net.ParseIP(target); ip != nil {
		return ip.String(), nil
	}

	addrs, err := LookupIPAddr(ctx, target)
	if err != nil {
		return "", err
	}
	var firstV6 net.IP
	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			return v4.String(), nil
		}
		if firstV6 == nil {
			firstV6 = a.IP
		}
	}
	if firstV6 != nil {
		return firstV6.String(), nil
	}
	return "", errors.New("no addresses found for host")
}
