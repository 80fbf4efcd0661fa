// Package hms converts between HH:MM:SS duration strings and seconds.
package hms

import (
	"fmt"
	"strconv"
	"strings"
)

// ToSeconds parses a duration string into whole seconds.
// Accepted forms:
//   - "H:MM:SS" or "HH:MM:SS" (three colon-separated parts)
//   - "MM:SS" (two parts)
//   - a bare integer number of seconds
//
// Any part that fails to parse contributes 0. Unrecognized shapes
// (empty string, more than three parts, "N/A") return 0.
func ToSeconds(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		return atoiOrZero(parts[0])
	case 2:
		return atoiOrZero(parts[0])*60 + atoiOrZero(parts[1])
	case 3:
		return atoiOrZero(parts[0])*3600 + atoiOrZero(parts[1])*60 + atoiOrZero(parts[2])
	default:
		return 0
	}
}

// FromSeconds formats a non-negative number of seconds as "HH:MM:SS".
// Negative values are clamped to 0.
func FromSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// atoiOrZero parses an integer, returning 0 on failure.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
