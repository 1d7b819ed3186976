package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsMissing(t *testing.T) {
	missing := []string{"", "   ", "N/A", "n/a", "NA", "#N/A", "null", "NULL", "NaN", "none", "-"}
	for _, v := range missing {
		assert.True(t, IsMissing(v), "expected %q to be missing", v)
	}

	present := []string{"0", "false", "x", " Eng ", "--"}
	for _, v := range present {
		assert.False(t, IsMissing(v), "expected %q to be present", v)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" 3.14 ", 3.14, true},
		{"-7", -7, true},
		{"1,250.50", 1250.50, true},
		{"$60,000", 60000, true},
		{"85%", 85, true},
		{"1e3", 1000, true},
		{"N/A", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"12abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseNumber(%q) ok", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, "ParseNumber(%q)", tt.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	valid := map[string]time.Time{
		"2023-06-15":          time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		"06/15/2023":          time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		"2023/06/15":          time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		"15-Jun-2023":         time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		"Jun 15, 2023":        time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		"2023-06-15 10:30:00": time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC),
	}
	for in, want := range valid {
		got, ok := ParseDate(in)
		assert.True(t, ok, "ParseDate(%q)", in)
		assert.True(t, want.Equal(got), "ParseDate(%q) = %v, want %v", in, got, want)
	}

	for _, in := range []string{"", "N/A", "not a date", "spreadsheet"} {
		_, ok := ParseDate(in)
		assert.False(t, ok, "ParseDate(%q) should fail", in)
	}
}
