package timeline

import (
	"time"

	"github.com/google/uuid"
)

// Filter is an opaque effect descriptor attached to a clip. The engine
// carries filters through edits and serialization but never interprets them.
type Filter struct {
	Name   string
	Params map[string]string
}

// Clip is the smallest addressable unit on the timeline: a reference to a
// source media file (or a generator such as a title card) plus a trim window
// into that source and a placement on the timeline.
//
// In and Out are relative to the source file's own time base; Start is the
// position on the timeline. For media-backed clips Duration always equals
// Out - In. Still clips (images, titles) have no intrinsic source duration
// and carry an independent Duration instead.
type Clip struct {
	ID     string
	Name   string
	Source string // empty for generator clips

	Start    time.Duration
	Duration time.Duration

	In             time.Duration
	Out            time.Duration
	SourceDuration time.Duration

	// Still marks image/generator sources with no intrinsic duration;
	// their Duration is fixed rather than derived from the trim window.
	Still bool

	Gain      float64 // audio level multiplier, 1.0 = unity
	Filters   []Filter
	Thumbnail string // path to a generated preview frame, if any
	AudioOnly bool
}

// NewClip creates a media-backed clip covering the full source.
func NewClip(name, source string, sourceDuration time.Duration) *Clip {
	return &Clip{
		ID:             uuid.NewString(),
		Name:           name,
		Source:         source,
		Duration:       sourceDuration,
		In:             0,
		Out:            sourceDuration,
		SourceDuration: sourceDuration,
		Gain:           1.0,
	}
}

// NewStillClip creates a fixed-duration clip for sources with no intrinsic
// duration (images, titles). Source may be empty for pure generators.
func NewStillClip(name, source string, duration time.Duration) *Clip {
	return &Clip{
		ID:       uuid.NewString(),
		Name:     name,
		Source:   source,
		Duration: duration,
		Still:    true,
		Gain:     1.0,
	}
}

// End returns the timeline position just past the clip.
func (c *Clip) End() time.Duration {
	return c.Start + c.Duration
}

// Contains reports whether the timeline position falls inside [Start, End).
func (c *Clip) Contains(pos time.Duration) bool {
	return pos >= c.Start && pos < c.End()
}

// SourceOffset maps a timeline position inside the clip to the corresponding
// offset in the clip's source media.
func (c *Clip) SourceOffset(pos time.Duration) time.Duration {
	return c.In + (pos - c.Start)
}

// Validate checks the clip's structural invariants.
func (c *Clip) Validate() error {
	if c.Start < 0 {
		return ErrNegativeStart
	}
	if c.Duration <= 0 {
		return ErrZeroDuration
	}
	if c.Still {
		return nil
	}
	if c.In < 0 || c.In > c.Out || c.Out > c.SourceDuration {
		return ErrSourceBounds
	}
	if c.Duration != c.Out-c.In {
		return ErrTrimMismatch
	}
	return nil
}

// Clone returns a deep copy of the clip.
func (c *Clip) Clone() *Clip {
	dup := *c
	if len(c.Filters) > 0 {
		dup.Filters = make([]Filter, len(c.Filters))
		for i, f := range c.Filters {
			dup.Filters[i] = Filter{Name: f.Name}
			if f.Params != nil {
				dup.Filters[i].Params = make(map[string]string, len(f.Params))
				for k, v := range f.Params {
					dup.Filters[i].Params[k] = v
				}
			}
		}
	}
	return &dup
}
