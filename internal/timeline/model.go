package timeline

import (
	"time"
)

// Model owns every track in an open project along with the aggregate
// duration, frame rate, loop region and in/out markers. One Model exists per
// open project; edits mutate it in place and project load replaces it
// wholesale.
//
// The Model is exclusively owned by a single control goroutine. Readers on
// other goroutines must go through the declared operations or react to
// change notifications rather than mutating it directly.
type Model struct {
	Tracks []*Track

	// FrameRate is advisory, used for timecode display and EDL export
	// only; internal time values are not frame-quantized.
	FrameRate float64

	LoopStart time.Duration
	LoopEnd   time.Duration
	Looping   bool

	MarkIn  time.Duration
	MarkOut time.Duration

	duration time.Duration
	onChange []func()
}

// NewModel creates an empty model.
func NewModel(frameRate float64) *Model {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &Model{FrameRate: frameRate}
}

// AddTrack appends a new empty track and returns it. Never fails.
func (m *Model) AddTrack(kind Kind, name string) *Track {
	t := NewTrack(kind, name)
	m.Tracks = append(m.Tracks, t)
	return t
}

// TrackByID finds a track by id, or nil.
func (m *Model) TrackByID(id string) *Track {
	for _, t := range m.Tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TrackOf returns the track holding the clip, or nil.
func (m *Model) TrackOf(c *Clip) *Track {
	for _, t := range m.Tracks {
		if t.Index(c) >= 0 {
			return t
		}
	}
	return nil
}

// FirstTrack returns the first track of the given kind, or nil.
func (m *Model) FirstTrack(kind Kind) *Track {
	for _, t := range m.Tracks {
		if t.Kind == kind {
			return t
		}
	}
	return nil
}

// Duration is the maximum clip end across all tracks, maintained by
// Recalculate.
func (m *Model) Duration() time.Duration {
	return m.duration
}

// Recalculate recomputes the aggregate duration. Idempotent; 0 for an empty
// model. The edit dispatcher calls this after every successful mutation so
// individual call sites cannot forget to.
func (m *Model) Recalculate() time.Duration {
	var max time.Duration
	for _, t := range m.Tracks {
		if end := t.End(); end > max {
			max = end
		}
	}
	m.duration = max
	return max
}

// SetMarks sets the timeline in/out markers used to seed loop regions and
// EDL export ranges.
func (m *Model) SetMarks(in, out time.Duration) {
	m.MarkIn, m.MarkOut = in, out
}

// LoopFromMarks copies the in/out markers into the loop region and enables
// looping.
func (m *Model) LoopFromMarks() {
	m.LoopStart, m.LoopEnd = m.MarkIn, m.MarkOut
	m.Looping = m.LoopEnd > m.LoopStart
}

// OnChange registers a callback invoked after every committed mutation.
// Callbacks run on the mutating goroutine.
func (m *Model) OnChange(fn func()) {
	m.onChange = append(m.onChange, fn)
}

// NotifyChanged fires the registered change callbacks.
func (m *Model) NotifyChanged() {
	for _, fn := range m.onChange {
		fn()
	}
}

// ClipCount returns the total number of clips across all tracks.
func (m *Model) ClipCount() int {
	n := 0
	for _, t := range m.Tracks {
		n += len(t.Clips)
	}
	return n
}
