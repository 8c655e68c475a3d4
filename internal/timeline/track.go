package timeline

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the media kind a track holds.
type Kind int

const (
	Video Kind = iota
	Audio
)

func (k Kind) String() string {
	if k == Audio {
		return "audio"
	}
	return "video"
}

// Track is an ordered lane of clips of one media kind. Clips are kept sorted
// by Start; mutating operations re-sort after moving clips around.
type Track struct {
	ID   string
	Name string
	Kind Kind

	Hidden bool
	Muted  bool
	Locked bool

	Clips []*Clip
}

// NewTrack creates an empty track.
func NewTrack(kind Kind, name string) *Track {
	return &Track{
		ID:   uuid.NewString(),
		Name: name,
		Kind: kind,
	}
}

// Insert adds a clip keeping the Start ordering.
func (t *Track) Insert(c *Clip) {
	t.Clips = append(t.Clips, c)
	t.Sort()
}

// Remove takes a clip off the track. Returns ErrClipNotFound if the clip is
// not on this track.
func (t *Track) Remove(c *Clip) error {
	for i, cc := range t.Clips {
		if cc == c || cc.ID == c.ID {
			t.Clips = append(t.Clips[:i], t.Clips[i+1:]...)
			return nil
		}
	}
	return ErrClipNotFound
}

// Sort restores Start ordering after clips have been repositioned.
func (t *Track) Sort() {
	sort.SliceStable(t.Clips, func(i, j int) bool {
		return t.Clips[i].Start < t.Clips[j].Start
	})
}

// ClipAt returns the earliest-starting clip whose window contains pos, or
// nil over a gap.
func (t *Track) ClipAt(pos time.Duration) *Clip {
	for _, c := range t.Clips {
		if c.Contains(pos) {
			return c
		}
	}
	return nil
}

// ClipByID finds a clip by id, or nil.
func (t *Track) ClipByID(id string) *Clip {
	for _, c := range t.Clips {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Index returns the position of the clip in Start order, or -1.
func (t *Track) Index(c *Clip) int {
	for i, cc := range t.Clips {
		if cc == c || cc.ID == c.ID {
			return i
		}
	}
	return -1
}

// Neighbors returns the clips immediately before and after c in Start order.
// Either may be nil.
func (t *Track) Neighbors(c *Clip) (left, right *Clip) {
	i := t.Index(c)
	if i < 0 {
		return nil, nil
	}
	if i > 0 {
		left = t.Clips[i-1]
	}
	if i < len(t.Clips)-1 {
		right = t.Clips[i+1]
	}
	return left, right
}

// End returns the end of the last clip, or 0 for an empty track.
func (t *Track) End() time.Duration {
	var end time.Duration
	for _, c := range t.Clips {
		if c.End() > end {
			end = c.End()
		}
	}
	return end
}

// Overlapping returns pairs of clips whose timeline windows intersect.
// Overlap is permitted on creation; playback resolves it, and callers can
// use this to surface it.
func (t *Track) Overlapping() [][2]*Clip {
	var pairs [][2]*Clip
	for i := 0; i < len(t.Clips); i++ {
		for j := i + 1; j < len(t.Clips); j++ {
			if t.Clips[j].Start < t.Clips[i].End() {
				pairs = append(pairs, [2]*Clip{t.Clips[i], t.Clips[j]})
			}
		}
	}
	return pairs
}
