package edit

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/keagan/reelcut/internal/history"
	"github.com/keagan/reelcut/internal/project"
	"github.com/keagan/reelcut/internal/timeline"
)

// Editor dispatches edit operations against one model. Every mutation goes
// through it: the lock check, the history snapshot, the duration
// recalculation and the change notification all happen here, in one place,
// instead of at each call site.
type Editor struct {
	model   *timeline.Model
	history *history.History
	logger  zerolog.Logger
}

// NewEditor creates an editor over the model.
func NewEditor(m *timeline.Model, h *history.History, logger zerolog.Logger) *Editor {
	return &Editor{
		model:   m,
		history: h,
		logger:  logger.With().Str("component", "editor").Logger(),
	}
}

// Model returns the model the editor mutates.
func (e *Editor) Model() *timeline.Model {
	return e.model
}

// commit records the pre-edit snapshot and re-derives model state after a
// successful operation. Failed operations never reach it, so rejected edits
// leave no undo entries.
func (e *Editor) commit(snap project.Document, op string) {
	e.history.Push(snap)
	e.model.Recalculate()
	e.model.NotifyChanged()
	e.logger.Debug().
		Str("op", op).
		Dur("timeline_duration", e.model.Duration()).
		Int("clips", e.model.ClipCount()).
		Msg("edit committed")
}

func (e *Editor) guard(t *timeline.Track) error {
	if t == nil {
		return timeline.ErrTrackNotFound
	}
	if t.Locked {
		return timeline.ErrTrackLocked
	}
	return nil
}

func (e *Editor) trackOf(c *timeline.Clip) (*timeline.Track, error) {
	t := e.model.TrackOf(c)
	if t == nil {
		return nil, timeline.ErrClipNotFound
	}
	if t.Locked {
		return nil, timeline.ErrTrackLocked
	}
	return t, nil
}

// Append adds a source at the tail of the track.
func (e *Editor) Append(trackID string, src Source) (*timeline.Clip, error) {
	track := e.model.TrackByID(trackID)
	if err := e.guard(track); err != nil {
		return nil, err
	}
	snap := project.FromModel(e.model)
	c, err := Append(track, src)
	if err != nil {
		return nil, err
	}
	e.commit(snap, "append")
	return c, nil
}

// InsertAtPlayhead places a source at the playhead on the first track of the
// matching kind, creating one if needed.
func (e *Editor) InsertAtPlayhead(src Source, playhead time.Duration) (*timeline.Clip, error) {
	if t := e.model.FirstTrack(src.Kind()); t != nil && t.Locked {
		return nil, timeline.ErrTrackLocked
	}
	snap := project.FromModel(e.model)
	c, err := InsertAtPlayhead(e.model, src, playhead)
	if err != nil {
		return nil, err
	}
	e.commit(snap, "insert")
	return c, nil
}

// RollingEdit moves the shared edit point between two adjacent clips.
func (e *Editor) RollingEdit(left, right *timeline.Clip, shift time.Duration) error {
	lt, err := e.trackOf(left)
	if err != nil {
		return err
	}
	if rt := e.model.TrackOf(right); rt != lt {
		return timeline.ErrNotAdjacent
	}
	snap := project.FromModel(e.model)
	if err := RollingEdit(left, right, shift); err != nil {
		return err
	}
	e.commit(snap, "rolling")
	return nil
}

// SlipEdit slides a clip's source window under its fixed timeline placement.
func (e *Editor) SlipEdit(c *timeline.Clip, shift time.Duration) error {
	if _, err := e.trackOf(c); err != nil {
		return err
	}
	snap := project.FromModel(e.model)
	if err := SlipEdit(c, shift); err != nil {
		return err
	}
	e.commit(snap, "slip")
	return nil
}

// SlideEdit moves a clip between its neighbors, re-closing the gaps.
func (e *Editor) SlideEdit(c *timeline.Clip, shift time.Duration) error {
	track, err := e.trackOf(c)
	if err != nil {
		return err
	}
	snap := project.FromModel(e.model)
	if err := SlideEdit(track, c, shift); err != nil {
		return err
	}
	e.commit(snap, "slide")
	return nil
}

// Delete removes a clip, leaving the gap.
func (e *Editor) Delete(c *timeline.Clip) error {
	track, err := e.trackOf(c)
	if err != nil {
		return err
	}
	snap := project.FromModel(e.model)
	if err := Delete(track, c); err != nil {
		return err
	}
	e.commit(snap, "delete")
	return nil
}

// Move repositions a clip without adjusting neighbors.
func (e *Editor) Move(c *timeline.Clip, newStart time.Duration) error {
	track, err := e.trackOf(c)
	if err != nil {
		return err
	}
	snap := project.FromModel(e.model)
	if err := Move(track, c, newStart); err != nil {
		return err
	}
	e.commit(snap, "move")
	return nil
}

// Undo restores the model to the state before the last edit. No-op when the
// undo stack is empty.
func (e *Editor) Undo() {
	if e.history.Undo(e.model) {
		e.model.NotifyChanged()
		e.logger.Debug().Msg("undo")
	}
}

// Redo reverses the last undo. No-op when the redo stack is empty.
func (e *Editor) Redo() {
	if e.history.Redo(e.model) {
		e.model.NotifyChanged()
		e.logger.Debug().Msg("redo")
	}
}
