package util

import (
	"math"
	"strconv"
	"strings"
)

// ParseFloatDefault parses s as a number or returns def if empty/invalid.
// Unsigned 0x, 0o and 0b integer literals are accepted. NaN and infinities
// count as invalid.
func ParseFloatDefault(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if hasIntPrefix(s) {
		if strings.Contains(s, "_") {
			return def
		}
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return def
		}
		return float64(n)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func hasIntPrefix(s string) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}
