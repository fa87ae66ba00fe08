package netutil

import (
	"reflect"
	"testing"
)

func TestParseProxy_Valid(t *testing.T) {
	cases := map[string]ProxyEndpoint{
		"http://10.0.0.1:8080":     {Scheme: "http", Host: "10.0.0.1", Port: 8080},
		"10.0.0.1:8080":            {Scheme: "http", Host: "10.0.0.1", Port: 8080},
		"  proxy.local:3128 ":      {Scheme: "http", Host: "proxy.local", Port: 3128},
		"HTTP://proxy.local:3128/": {Scheme: "http", Host: "proxy.local", Port: 3128},
		"https://proxy.local:443":  {Scheme: "https", Host: "proxy.local", Port: 443},
		"socks5://127.0.0.1:1080":  {Scheme: "socks5", Host: "127.0.0.1", Port: 1080},
		"socks5h://[::1]:1080":     {Scheme: "socks5h", Host: "::1", Port: 1080},
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got, err := ParseProxy(in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != want {
				t.Fatalf("got %+v want %+v", got, want)
			}
		})
	}
}

func TestParseProxy_Invalid(t *testing.T) {
	cases := []string{
		"",
		"10.0.0.1",          // missing port
		"10.0.0.1:http",     // non-numeric port
		"10.0.0.1:0",        // out of range
		"10.0.0.1:70000",    // out of range
		":8080",             // empty host
		"ftp://10.0.0.1:21", // unsupported scheme
		"http://",           // nothing after scheme
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseProxy(in); err == nil {
				t.Fatalf("expected error for %q", in)
			}
		})
	}
}

func TestProxyEndpoint_Addr(t *testing.T) {
	p := ProxyEndpoint{Scheme: SchemeSOCKS5, Host: "::1", Port: 1080}
	if got := p.Addr(); got != "[::1]:1080" {
		t.Fatalf("got %s", got)
	}
	if !p.IsSOCKS() {
		t.Fatalf("expected socks endpoint")
	}
	if got := p.String(); got != "socks5://[::1]:1080" {
		t.Fatalf("got %s", got)
	}
}

func TestParseProxyList(t *testing.T) {
	got := ParseProxyList(" http://a:1, ,b:2,,socks5://c:3 ")
	want := []string{"http://a:1", "b:2", "socks5://c:3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if got := ParseProxyList(""); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}
