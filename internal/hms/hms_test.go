package hms

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestToSeconds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"full HH:MM:SS", "00:01:30", 90},
		{"single-digit hour", "1:02:03", 3723},
		{"minutes and seconds", "02:30", 150},
		{"bare integer", "45", 45},
		{"bare zero", "0", 0},
		{"empty string", "", 0},
		{"not available", "N/A", 0},
		{"too many parts", "1:2:3:4", 0},
		{"garbage part defaults to zero", "xx:01:30", 90},
		{"surrounding whitespace", " 00:02:00 ", 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToSeconds(tt.input); got != tt.want {
				t.Errorf("ToSeconds(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromSeconds(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  string
	}{
		{"zero", 0, "00:00:00"},
		{"ninety seconds", 90, "00:01:30"},
		{"one hour", 3600, "01:00:00"},
		{"over a day", 90000, "25:00:00"},
		{"negative clamps to zero", -5, "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromSeconds(tt.input); got != tt.want {
				t.Errorf("FromSeconds(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Property: formatting then parsing any non-negative duration returns the
// original number of seconds.
func TestRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("ToSeconds(FromSeconds(d)) == d for d >= 0", prop.ForAll(
		func(d int) bool {
			return ToSeconds(FromSeconds(d)) == d
		},
		gen.IntRange(0, 1000000),
	))

	properties.TestingRun(t)
}
