package singleinstance

import (
	"os"
	"strconv"
)

const (
	defaultPortStart = 49600
	defaultPortEnd   = 49610
)

// portRange returns the loopback port range, overridable with
// REGIONSHOT_PORT_START and REGIONSHOT_PORT_END (inclusive). Values are
// clamped to [1024, 65535].
func portRange() (int, int) {
	start, end := defaultPortStart, defaultPortEnd
	if n, err := strconv.Atoi(os.Getenv("REGIONSHOT_PORT_START")); err == nil {
		start = n
	}
	if n, err := strconv.Atoi(os.Getenv("REGIONSHOT_PORT_END")); err == nil {
		end = n
	}
	start = max(start, 1024)
	end = min(end, 65535)
	if end < start {
		start, end = end, start
	}
	return start, end
}
