// Package edit implements the non-destructive edit operations of the
// timeline engine. The operations in this file are stateless algorithms over
// timeline types: they validate their preconditions, then either mutate in
// place or return a typed error with nothing changed. Lock enforcement,
// history snapshots and duration recalculation live in Editor, which all
// callers are expected to go through.
package edit

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/keagan/reelcut/internal/timeline"
)

// DefaultStillDuration is used for image and generator sources that report
// no intrinsic duration.
const DefaultStillDuration = 5 * time.Second

// Source describes a media item being added to the timeline, as reported by
// the prober. Duration 0 means the source has no intrinsic duration (image
// or generator) and gets DefaultStillDuration.
type Source struct {
	Name      string
	Path      string
	Duration  time.Duration
	AudioOnly bool

	// StillDuration overrides DefaultStillDuration for sources with no
	// intrinsic duration. Zero means use the default.
	StillDuration time.Duration
}

// Kind infers the track kind a source belongs on from its file extension.
func (s Source) Kind() timeline.Kind {
	if s.AudioOnly {
		return timeline.Audio
	}
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".mp3", ".wav", ".aac", ".flac", ".ogg", ".m4a", ".opus":
		return timeline.Audio
	default:
		return timeline.Video
	}
}

func newClipFrom(src Source) *timeline.Clip {
	name := src.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	}
	if src.Duration <= 0 {
		still := src.StillDuration
		if still <= 0 {
			still = DefaultStillDuration
		}
		return timeline.NewStillClip(name, src.Path, still)
	}
	c := timeline.NewClip(name, src.Path, src.Duration)
	c.AudioOnly = src.AudioOnly
	return c
}

// Append places a new clip at the tail of the track: its start is the end of
// the last clip already there (0 on an empty track), with the trim window
// spanning the whole source. Cannot create an overlap by construction.
func Append(track *timeline.Track, src Source) (*timeline.Clip, error) {
	c := newClipFrom(src)
	c.Start = track.End()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	track.Insert(c)
	return c, nil
}

// InsertAtPlayhead places a new clip at the playhead position on the first
// track matching the source's kind, creating that track if none exists.
// Overlap with existing clips is permitted; callers that care can inspect
// Track.Overlapping afterwards.
func InsertAtPlayhead(m *timeline.Model, src Source, playhead time.Duration) (*timeline.Clip, error) {
	if playhead < 0 {
		return nil, timeline.ErrNegativeStart
	}
	kind := src.Kind()
	track := m.FirstTrack(kind)
	if track == nil {
		track = m.AddTrack(kind, defaultTrackName(kind))
	}
	c := newClipFrom(src)
	c.Start = playhead
	if err := c.Validate(); err != nil {
		return nil, err
	}
	track.Insert(c)
	return c, nil
}

func defaultTrackName(kind timeline.Kind) string {
	if kind == timeline.Audio {
		return "Audio 1"
	}
	return "Video 1"
}

// RollingEdit moves the shared edit point between two adjacent clips by
// shift, lengthening one and shortening the other. The total covered
// duration is invariant. Fails without mutating when the clips are not
// back-to-back, when the growing side runs out of source media, or when the
// shrinking side would reach zero length.
func RollingEdit(left, right *timeline.Clip, shift time.Duration) error {
	if shift == 0 {
		return nil
	}
	if left.End() != right.Start {
		return timeline.ErrNotAdjacent
	}
	if left.Still || right.Still {
		return timeline.ErrStillClip
	}
	if left.Out+shift > left.SourceDuration || right.In+shift < 0 {
		return timeline.ErrInsufficientSource
	}
	if left.Duration+shift <= 0 || right.Duration-shift <= 0 {
		return timeline.ErrZeroDuration
	}

	left.Duration += shift
	left.Out += shift
	right.Start += shift
	right.Duration -= shift
	right.In += shift
	return nil
}

// SlipEdit slides the clip's source window by shift while its timeline
// placement stays fixed: In and Out move together, Start and Duration do not
// change. Fails without mutating when either bound would leave
// [0, SourceDuration].
func SlipEdit(c *timeline.Clip, shift time.Duration) error {
	if c.Still {
		return timeline.ErrStillClip
	}
	if shift == 0 {
		return nil
	}
	if c.Out+shift > c.SourceDuration || c.In+shift < 0 {
		return timeline.ErrInsufficientSource
	}
	c.In += shift
	c.Out += shift
	return nil
}

// SlideEdit moves the clip's timeline placement by shift while its own trim
// window stays fixed, and adjusts the neighbors to absorb the change: the
// left neighbor's tail is extended or shrunk, the right neighbor's head is
// trimmed or extended. Requires at least one neighbor; with only one, only
// that side moves.
func SlideEdit(track *timeline.Track, c *timeline.Clip, shift time.Duration) error {
	if shift == 0 {
		return nil
	}
	if track.Index(c) < 0 {
		return timeline.ErrClipNotFound
	}
	left, right := track.Neighbors(c)
	if left == nil && right == nil {
		return timeline.ErrNoNeighbor
	}
	if c.Start+shift < 0 {
		return timeline.ErrNegativeStart
	}

	if left != nil {
		if left.Still {
			return timeline.ErrStillClip
		}
		if left.Out+shift > left.SourceDuration {
			return timeline.ErrInsufficientSource
		}
		if left.Duration+shift <= 0 {
			return timeline.ErrZeroDuration
		}
	}
	if right != nil {
		if right.Still {
			return timeline.ErrStillClip
		}
		if right.In+shift < 0 {
			return timeline.ErrInsufficientSource
		}
		if right.Duration-shift <= 0 {
			return timeline.ErrZeroDuration
		}
	}

	c.Start += shift
	if left != nil {
		left.Duration += shift
		left.Out += shift
	}
	if right != nil {
		right.Start += shift
		right.In += shift
		right.Duration -= shift
	}
	track.Sort()
	return nil
}

// Delete removes the clip from the track. Neighbors are not adjusted; the
// gap is left as is.
func Delete(track *timeline.Track, c *timeline.Clip) error {
	return track.Remove(c)
}

// Move repositions the clip. Neighbors are not adjusted; gaps and overlaps
// are a natural consequence.
func Move(track *timeline.Track, c *timeline.Clip, newStart time.Duration) error {
	if newStart < 0 {
		return timeline.ErrNegativeStart
	}
	if track.Index(c) < 0 {
		return timeline.ErrClipNotFound
	}
	c.Start = newStart
	track.Sort()
	return nil
}
