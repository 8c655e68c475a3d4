// Package timecode converts between durations and the timestamp formats the
// engine displays and exports. Frame rate is advisory: internal time values
// are never frame-quantized, frames appear only in formatted output.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatDuration converts a duration to HH:MM:SS.mmm form.
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
}

// Format converts a duration to frame-accurate HH:MM:SS:FF timecode at the
// given frame rate, as used by EDL events.
func Format(d time.Duration, frameRate float64) string {
	if frameRate <= 0 {
		frameRate = 30
	}
	total := d.Seconds()
	hours := int(total / 3600)
	minutes := int(total/60) % 60
	secs := int(total) % 60
	frames := int((total - float64(int(total))) * frameRate)
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, secs, frames)
}

// Parse parses a timestamp string in HH:MM:SS.mmm, MM:SS or plain seconds
// form.
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")

	var hours, minutes, seconds float64
	var err error

	switch len(parts) {
	case 1:
		seconds, err = strconv.ParseFloat(parts[0], 64)
	case 2:
		minutes, err = strconv.ParseFloat(parts[0], 64)
		if err == nil {
			seconds, err = strconv.ParseFloat(parts[1], 64)
		}
	case 3:
		hours, err = strconv.ParseFloat(parts[0], 64)
		if err == nil {
			minutes, err = strconv.ParseFloat(parts[1], 64)
		}
		if err == nil {
			seconds, err = strconv.ParseFloat(parts[2], 64)
		}
	default:
		return 0, fmt.Errorf("invalid timestamp format: %s", s)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp format: %s", s)
	}

	total := hours*3600 + minutes*60 + seconds
	return time.Duration(total * float64(time.Second)), nil
}

// ParseFrameRate parses frame rate from ffprobe form (e.g. "30/1").
func ParseFrameRate(s string) float64 {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
