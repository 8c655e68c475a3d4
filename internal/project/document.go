// Package project is the persistence layer for timeline state. The Document
// types defined here are the project file format; the field names in the
// json tags are a stable contract that other tooling (the EDL exporter, for
// one) reads.
package project

import (
	"time"

	"github.com/google/uuid"

	"github.com/keagan/reelcut/internal/timeline"
)

// FormatVersion is written into every saved document.
const FormatVersion = 1

// Document is the serialized form of a timeline model. All times are seconds.
type Document struct {
	Version   int     `json:"version"`
	Duration  float64 `json:"duration"`
	FrameRate float64 `json:"frame_rate"`

	LoopStart float64 `json:"loop_start,omitempty"`
	LoopEnd   float64 `json:"loop_end,omitempty"`
	Looping   bool    `json:"looping,omitempty"`
	MarkIn    float64 `json:"mark_in,omitempty"`
	MarkOut   float64 `json:"mark_out,omitempty"`

	Tracks []TrackDoc `json:"tracks"`
}

// TrackDoc is the serialized form of a track.
type TrackDoc struct {
	ID     string    `json:"id,omitempty"`
	Name   string    `json:"name"`
	Kind   string    `json:"kind"`
	Hidden bool      `json:"hidden,omitempty"`
	Muted  bool      `json:"muted,omitempty"`
	Locked bool      `json:"locked,omitempty"`
	Clips  []ClipDoc `json:"clips"`
}

// ClipDoc is the serialized form of a clip.
type ClipDoc struct {
	ID             string      `json:"id,omitempty"`
	Name           string      `json:"name"`
	Source         string      `json:"source"`
	Start          float64     `json:"start"`
	Duration       float64     `json:"duration"`
	In             float64     `json:"in"`
	Out            float64     `json:"out"`
	SourceDuration float64     `json:"source_duration"`
	Gain           float64     `json:"gain"`
	Still          bool        `json:"still,omitempty"`
	AudioOnly      bool        `json:"audio_only,omitempty"`
	Thumbnail      string      `json:"thumbnail,omitempty"`
	Filters        []FilterDoc `json:"filters,omitempty"`
}

// FilterDoc is the serialized form of an opaque effect descriptor.
type FilterDoc struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

func seconds(d time.Duration) float64 {
	return d.Seconds()
}

func duration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// FromModel captures the model into a document. The result shares nothing
// with the model and is safe to keep as an undo snapshot.
func FromModel(m *timeline.Model) Document {
	doc := Document{
		Version:   FormatVersion,
		Duration:  seconds(m.Duration()),
		FrameRate: m.FrameRate,
		LoopStart: seconds(m.LoopStart),
		LoopEnd:   seconds(m.LoopEnd),
		Looping:   m.Looping,
		MarkIn:    seconds(m.MarkIn),
		MarkOut:   seconds(m.MarkOut),
	}
	for _, t := range m.Tracks {
		td := TrackDoc{
			ID:     t.ID,
			Name:   t.Name,
			Kind:   t.Kind.String(),
			Hidden: t.Hidden,
			Muted:  t.Muted,
			Locked: t.Locked,
			Clips:  make([]ClipDoc, 0, len(t.Clips)),
		}
		for _, c := range t.Clips {
			td.Clips = append(td.Clips, clipDoc(c))
		}
		doc.Tracks = append(doc.Tracks, td)
	}
	return doc
}

func clipDoc(c *timeline.Clip) ClipDoc {
	cd := ClipDoc{
		ID:             c.ID,
		Name:           c.Name,
		Source:         c.Source,
		Start:          seconds(c.Start),
		Duration:       seconds(c.Duration),
		In:             seconds(c.In),
		Out:            seconds(c.Out),
		SourceDuration: seconds(c.SourceDuration),
		Gain:           c.Gain,
		Still:          c.Still,
		AudioOnly:      c.AudioOnly,
		Thumbnail:      c.Thumbnail,
	}
	for _, f := range c.Filters {
		fd := FilterDoc{Name: f.Name}
		if len(f.Params) > 0 {
			fd.Params = make(map[string]string, len(f.Params))
			for k, v := range f.Params {
				fd.Params[k] = v
			}
		}
		cd.Filters = append(cd.Filters, fd)
	}
	return cd
}

// Apply restores the document into the model in place, replacing tracks,
// frame rate, loop region and markers. It is exact: clips are restored even
// if their source files are gone, which is what undo needs. Use Load for
// the lenient file-loading path.
func (d Document) Apply(m *timeline.Model) error {
	tracks, err := d.tracks(nil)
	if err != nil {
		return err
	}
	m.Tracks = tracks
	if d.FrameRate > 0 {
		m.FrameRate = d.FrameRate
	}
	m.LoopStart = duration(d.LoopStart)
	m.LoopEnd = duration(d.LoopEnd)
	m.Looping = d.Looping
	m.MarkIn = duration(d.MarkIn)
	m.MarkOut = duration(d.MarkOut)
	m.Recalculate()
	return nil
}

// tracks materializes the document tracks, dropping any clip for which skip
// returns true.
func (d Document) tracks(skip func(ClipDoc) bool) ([]*timeline.Track, error) {
	var out []*timeline.Track
	for _, td := range d.Tracks {
		kind, err := parseKind(td.Kind)
		if err != nil {
			return nil, err
		}
		t := timeline.NewTrack(kind, td.Name)
		if td.ID != "" {
			t.ID = td.ID
		}
		t.Hidden = td.Hidden
		t.Muted = td.Muted
		t.Locked = td.Locked
		for _, cd := range td.Clips {
			if skip != nil && skip(cd) {
				continue
			}
			c, err := cd.clip()
			if err != nil {
				return nil, err
			}
			t.Clips = append(t.Clips, c)
		}
		t.Sort()
		out = append(out, t)
	}
	return out, nil
}

func (cd ClipDoc) clip() (*timeline.Clip, error) {
	c := &timeline.Clip{
		ID:             cd.ID,
		Name:           cd.Name,
		Source:         cd.Source,
		Start:          duration(cd.Start),
		Duration:       duration(cd.Duration),
		In:             duration(cd.In),
		Out:            duration(cd.Out),
		SourceDuration: duration(cd.SourceDuration),
		Gain:           cd.Gain,
		Still:          cd.Still,
		AudioOnly:      cd.AudioOnly,
		Thumbnail:      cd.Thumbnail,
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Gain == 0 {
		c.Gain = 1.0
	}
	for _, fd := range cd.Filters {
		f := timeline.Filter{Name: fd.Name}
		if len(fd.Params) > 0 {
			f.Params = make(map[string]string, len(fd.Params))
			for k, v := range fd.Params {
				f.Params[k] = v
			}
		}
		c.Filters = append(c.Filters, f)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
