package port

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Bounds of a valid TCP port.
const (
	MinPort = 1
	MaxPort = 65535
)

var errOutOfRange = errors.New("port numbers must be in 1..65535")

// ParsePortSpec parses a port specification string and returns a sorted, deduplicated slice of ports.
// Supported forms:
//   - single: "22"
//   - list: "22,80,443"
//   - range: "1-1024" (inclusive)
//   - mixed: "22,80,8000-8100"
func ParsePortSpec(spec string) ([]uint16, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.New("empty port spec")
	}
	seen := make(map[uint16]struct{})
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return nil, errors.New("invalid empty token in port spec")
		}
		lo, hi, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		for p := lo; p <= hi; p++ {
			seen[uint16(p)] = struct{}{}
		}
	}
	out := make([]uint16, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// parseToken returns the inclusive bounds described by a single token.
func parseToken(tok string) (int, int, error) {
	startStr, endStr, isRange := strings.Cut(tok, "-")
	start, err := parseNumber(startStr)
	if err != nil {
		return 0, 0, err
	}
	if !isRange {
		return start, start, nil
	}
	end, err := parseNumber(endStr)
	if err != nil {
		return 0, 0, err
	}
	if start > end {
		return 0, 0, fmt.Errorf("range start greater than end: %s", tok)
	}
	return start, end, nil
}

func parseNumber(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", s, err)
	}
	if v < MinPort || v > MaxPort {
		return 0, errOutOfRange
	}
	return v, nil
}

// All returns every valid port in ascending order.
func All() []uint16 {
	out := make([]uint16, 0, MaxPort)
	for p := MinPort; p <= MaxPort; p++ {
		out = append(out, uint16(p))
	}
	return out
}
