package singleinstance

import (
	"os"
	"strconv"
)

const (
	defaultPortStart = 49760
	defaultPortEnd   = 49790
)

// portRange returns the TCP range scanned for a resident. Overridable via
// PIXEL_MEASURE_PORT_START / PIXEL_MEASURE_PORT_END, clamped to
// [1024, 65535].
func portRange() (int, int) {
	start := defaultPortStart
	end := defaultPortEnd
	if v := os.Getenv("PIXEL_MEASURE_PORT_START"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			start = n
		}
	}
	if v := os.Getenv("PIXEL_MEASURE_PORT_END"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			end = n
		}
	}
	if start < 1024 {
		start = 1024
	}
	if end > 65535 {
		end = 65535
	}
	if end < start {
		start, end = end, start
	}
	return start, end
}
