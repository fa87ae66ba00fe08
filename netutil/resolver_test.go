package netutil

import (
	"context"
	"errors"
	"net"
	"testing"
)

func TestResolveTarget_Literals(t *testing.T) {
	cases := map[string]string{
		"1.2.3.4":     "1.2.3.4",
		"::1":         "::1",
		"2001:db8::1": "2001:db8::1",
	}
	for in, want := range cases {
		got, err := ResolveTarget(context.Background(), in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("got %s want %s", got, want)
		}
	}
}

func stubLookup(t *testing.T, fn func(context.Context, string) ([]net.IPAddr, error)) {
	t.Helper()
	orig := LookupIPAddr
	LookupIPAddr = fn
	t.Cleanup(func() { LookupIPAddr = orig })
}

func TestResolveTarget_PrefersIPv4(t *testing.T) {
	stubLookup(t, func(context.Context, string) ([]net.IPAddr, error) {
		return []net.IPAddr{
			{IP: net.ParseIP("2001:db8::5")},
			{IP: net.ParseIP("10.1.2.3")},
		}, nil
	})
	got, err := ResolveTarget(context.Background(), "example.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "10.1.2.3" {
		t.Fatalf("got %s want 10.1.2.3", got)
	}
}

func TestResolveTarget_IPv6Only(t *testing.T) {
	stubLookup(t, func(context.Context, string) ([]net.IPAddr, error) {
		return []net.IPAddr{{IP: net.ParseIP("2001:db8::5")}}, nil
	})
	got, err := ResolveTarget(context.Background(), "v6.example.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2001:db8::5" {
		t.Fatalf("got %s want 2001:db8::5", got)
	}
}

func TestResolveTarget_LookupError(t *testing.T) {
	stubLookup(t, func(context.Context, string) ([]net.IPAddr, error) {
		return nil, errors.New("no such host")
	})
	if _, err := ResolveTarget(context.Background(), "missing.example.test"); err == nil {
		t.Fatalf("expected error")
	}
}
