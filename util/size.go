package util

import (
	"fmt"
	"strconv"
	"strings"
)

var sizeUnits = []struct {
	suffix     string
	multiplier int64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize parses a byte size such as "100MB", "512kb", "2GB" or "1024".
// Units are binary (1MB = 1024*1024). An empty string yields defaultBytes.
func ParseSize(s string, defaultBytes int64) (int64, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return defaultBytes, nil
	}

	multiplier := int64(1)
	for _, u := range sizeUnits {
		if strings.HasSuffix(v, u.suffix) {
			multiplier = u.multiplier
			v = strings.TrimSpace(strings.TrimSuffix(v, u.suffix))
			break
		}
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n * multiplier, nil
}

// FormatSize renders n using the largest unit that divides it exactly.
func FormatSize(n int64) string {
	for _, u := range sizeUnits {
		if n >= u.multiplier && n%u.multiplier == 0 {
			return strconv.FormatInt(n/u.multiplier, 10) + u.suffix
		}
	}
	return strconv.FormatInt(n, 10) + "B"
}
