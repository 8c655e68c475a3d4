// Package export writes timelines to interchange formats. Only CMX 3600
// style EDL is supported; it is a lossy format: filters, gain and overlap
// resolution do not survive the trip.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/keagan/reelcut/internal/timeline"
	"github.com/keagan/reelcut/pkg/timecode"
)

// ErrTooManyVideoTracks is returned when the timeline has more than one
// video track; the EDL format carries a single video track.
var ErrTooManyVideoTracks = fmt.Errorf("export: EDL supports only one video track")

const defaultReel = "AX"

// EDLWriter encodes a timeline as a CMX 3600 style edit decision list.
type EDLWriter struct {
	w     io.Writer
	title string
}

// NewEDLWriter creates an EDL writer.
func NewEDLWriter(w io.Writer, title string) *EDLWriter {
	if title == "" {
		title = "UNTITLED"
	}
	return &EDLWriter{w: w, title: title}
}

// Write encodes the model. When the timeline's in/out markers span a
// non-empty range, only clips intersecting that range are exported.
func (e *EDLWriter) Write(m *timeline.Model) error {
	var video, audio []*timeline.Track
	for _, t := range m.Tracks {
		if t.Kind == timeline.Video {
			video = append(video, t)
		} else {
			audio = append(audio, t)
		}
	}
	if len(video) > 1 {
		return ErrTooManyVideoTracks
	}

	if _, err := fmt.Fprintf(e.w, "TITLE: %s\n", sanitizeTitle(e.title)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(e.w, "FCM: NON-DROP FRAME\n\n"); err != nil {
		return err
	}

	rangeIn, rangeOut := m.MarkIn, m.MarkOut
	ranged := rangeOut > rangeIn

	event := 1
	for _, t := range video {
		n, err := e.writeTrack(m, t, "V", event, ranged, rangeIn, rangeOut)
		if err != nil {
			return err
		}
		event = n
	}
	for i, t := range audio {
		label := "A"
		if len(audio) > 1 {
			label = fmt.Sprintf("A%d", i+1)
		}
		n, err := e.writeTrack(m, t, label, event, ranged, rangeIn, rangeOut)
		if err != nil {
			return err
		}
		event = n
	}
	return nil
}

func (e *EDLWriter) writeTrack(m *timeline.Model, t *timeline.Track, label string, event int, ranged bool, in, out time.Duration) (int, error) {
	for _, c := range t.Clips {
		if ranged && (c.End() <= in || c.Start >= out) {
			continue
		}
		srcIn, srcOut := c.In, c.Out
		if c.Still {
			srcIn, srcOut = 0, c.Duration
		}
		_, err := fmt.Fprintf(e.w, "%03d  %-8s %-5s C        %s %s %s %s\n",
			event,
			defaultReel,
			label,
			timecode.Format(srcIn, m.FrameRate),
			timecode.Format(srcOut, m.FrameRate),
			timecode.Format(c.Start, m.FrameRate),
			timecode.Format(c.End(), m.FrameRate),
		)
		if err != nil {
			return event, err
		}
		if c.Name != "" {
			if _, err := fmt.Fprintf(e.w, "* FROM CLIP NAME: %s\n", c.Name); err != nil {
				return event, err
			}
		}
		if c.Source != "" {
			if _, err := fmt.Fprintf(e.w, "* FROM FILE: %s\n", c.Source); err != nil {
				return event, err
			}
		}
		if _, err := fmt.Fprintln(e.w); err != nil {
			return event, err
		}
		event++
	}
	return event, nil
}

func sanitizeTitle(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
