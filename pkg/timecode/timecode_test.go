package timecode

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00.000"},
		{1500 * time.Millisecond, "00:00:01.500"},
		{90 * time.Second, "00:01:30.000"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03.000"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   time.Duration
		rate float64
		want string
	}{
		{0, 25, "00:00:00:00"},
		{4 * time.Second, 25, "00:00:04:00"},
		{4500 * time.Millisecond, 30, "00:00:04:15"},
		{time.Minute + 30*time.Second, 24, "00:01:30:00"},
		{2 * time.Second, 0, "00:00:02:00"}, // rate defaults to 30
	}
	for _, tt := range tests {
		if got := Format(tt.in, tt.rate); got != tt.want {
			t.Errorf("Format(%v, %v) = %q, want %q", tt.in, tt.rate, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"45.5", 45500 * time.Millisecond},
		{"01:30", 90 * time.Second},
		{"00:01:30", 90 * time.Second},
		{" 2 ", 2 * time.Second},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "a:b", "1:2:3:4", "xx"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}

func TestParseFrameRate(t *testing.T) {
	if got := ParseFrameRate("30/1"); got != 30 {
		t.Errorf("ParseFrameRate(30/1) = %v, want 30", got)
	}
	if got := ParseFrameRate("30000/1001"); got < 29.9 || got > 30 {
		t.Errorf("ParseFrameRate(30000/1001) = %v, want ~29.97", got)
	}
	for _, in := range []string{"", "30", "x/y", "30/0"} {
		if got := ParseFrameRate(in); got != 0 {
			t.Errorf("ParseFrameRate(%q) = %v, want 0", in, got)
		}
	}
}
