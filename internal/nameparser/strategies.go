package nameparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TokenStrategy parses filenames carrying TP-delimited tokens:
// TP1<millis> is a millisecond Unix timestamp, TP3<digits> the phone number
// (optionally prefixed with +), and TP4<word> the call type running up to the
// next TP token or the end of the basename.
type TokenStrategy struct{}

var (
	tokenMarker = regexp.MustCompile(`TP[134]`)
	tokenMillis = regexp.MustCompile(`TP1(\d+)`)
	tokenPhone  = regexp.MustCompile(`TP3(\+?\d+)`)
	tokenType   = regexp.MustCompile(`TP4(.*?)(?:TP\d|$)`)
)

func (TokenStrategy) Name() string { return "token" }

func (TokenStrategy) CanParse(base string) bool {
	return tokenMarker.MatchString(base)
}

func (TokenStrategy) Parse(base string) CallMetadata {
	meta := EmptyMetadata()

	if m := tokenMillis.FindStringSubmatch(base); m != nil {
		if millis, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			meta.Timestamp = time.UnixMilli(millis).UTC().Format("2006-01-02 15:04:05")
		}
	}
	if m := tokenPhone.FindStringSubmatch(base); m != nil {
		meta.PhoneNumber = strings.TrimPrefix(m[1], "+")
	}
	if m := tokenType.FindStringSubmatch(base); m != nil && m[1] != "" {
		meta.CallType = m[1]
	}

	return meta
}

// PatternStrategy parses two phone-plus-timestamp encodings:
//
//	"<phone> YYYY-MM-DD HH-MM-SS"  (phone may contain spaces and dashes)
//	"<phone>-YYMMDDHHMM"           (compact, no seconds)
//
// Two-digit years map to 2000-2099.
type PatternStrategy struct{}

var (
	spacedPattern  = regexp.MustCompile(`^(\+?[\d\s-]+?)\s+(\d{4}-\d{2}-\d{2})\s+(\d{2})-(\d{2})-(\d{2})$`)
	compactPattern = regexp.MustCompile(`^(\+?\d+)-(\d{10})$`)
)

func (PatternStrategy) Name() string { return "pattern" }

func (PatternStrategy) CanParse(base string) bool {
	return spacedPattern.MatchString(base) || compactPattern.MatchString(base)
}

func (PatternStrategy) Parse(base string) CallMetadata {
	meta := EmptyMetadata()

	if m := spacedPattern.FindStringSubmatch(base); m != nil {
		meta.PhoneNumber = normalizePhone(m[1])
		meta.Timestamp = fmt.Sprintf("%s %s:%s:%s", m[2], m[3], m[4], m[5])
		return meta
	}

	if m := compactPattern.FindStringSubmatch(base); m != nil {
		meta.PhoneNumber = normalizePhone(m[1])
		digits := m[2] // YYMMDDHHMM
		meta.Timestamp = fmt.Sprintf("20%s-%s-%s %s:%s:00",
			digits[0:2], digits[2:4], digits[4:6], digits[6:8], digits[8:10])
		return meta
	}

	return meta
}

// PrefixStrategy parses filenames of the form
// "<prefix>_<phone>_<YYMMDD>_<HHMMSS>". The call type is never present in
// this encoding.
type PrefixStrategy struct {
	prefix  string
	pattern *regexp.Regexp
}

// NewPrefixStrategy builds a strategy for a literal filename prefix.
func NewPrefixStrategy(prefix string) PrefixStrategy {
	return PrefixStrategy{
		prefix:  prefix,
		pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `_(\+?\d+)_(\d{6})_(\d{6})$`),
	}
}

func (s PrefixStrategy) Name() string { return "prefix:" + s.prefix }

func (s PrefixStrategy) CanParse(base string) bool {
	return s.pattern.MatchString(base)
}

func (s PrefixStrategy) Parse(base string) CallMetadata {
	meta := EmptyMetadata()

	m := s.pattern.FindStringSubmatch(base)
	if m == nil {
		return meta
	}

	meta.PhoneNumber = strings.TrimPrefix(m[1], "+")
	date, clock := m[2], m[3]
	meta.Timestamp = fmt.Sprintf("20%s-%s-%s %s:%s:%s",
		date[0:2], date[2:4], date[4:6], clock[0:2], clock[2:4], clock[4:6])

	return meta
}
