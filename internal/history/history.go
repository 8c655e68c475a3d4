// Package history provides snapshot-based undo/redo for the timeline model.
// Snapshots are whole serialized documents rather than per-operation
// inverses; timelines in this domain stay small (tens to low hundreds of
// clips), so full-model capture is cheap enough.
package history

import (
	"github.com/keagan/reelcut/internal/project"
	"github.com/keagan/reelcut/internal/timeline"
)

const defaultDepth = 100

// History holds the undo and redo stacks. Exhausting either stack is never
// an error; Undo and Redo are no-ops when empty.
type History struct {
	undo  []project.Document
	redo  []project.Document
	depth int
}

// New creates a history with the given maximum undo depth. Depth <= 0 uses
// the default.
func New(depth int) *History {
	if depth <= 0 {
		depth = defaultDepth
	}
	return &History{depth: depth}
}

// Snapshot captures the current model onto the undo stack and clears the
// redo stack: a fresh edit invalidates forward history. Callers snapshot
// immediately before committing a mutation.
func (h *History) Snapshot(m *timeline.Model) {
	h.push(project.FromModel(m))
}

// Push records an already-captured document. Used when the caller captured
// state before attempting an operation that might have failed.
func (h *History) Push(doc project.Document) {
	h.push(doc)
}

func (h *History) push(doc project.Document) {
	h.undo = append(h.undo, doc)
	h.redo = nil
	if len(h.undo) > h.depth {
		h.undo = h.undo[len(h.undo)-h.depth:]
	}
}

// Undo restores the most recent snapshot into the model, saving the current
// state for redo. Returns false (and does nothing) when there is nothing to
// undo.
func (h *History) Undo(m *timeline.Model) bool {
	if len(h.undo) == 0 {
		return false
	}
	h.redo = append(h.redo, project.FromModel(m))
	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	// Snapshots come from FromModel, so Apply cannot fail on them.
	_ = last.Apply(m)
	return true
}

// Redo restores the most recently undone state. Returns false when there is
// nothing to redo.
func (h *History) Redo(m *timeline.Model) bool {
	if len(h.redo) == 0 {
		return false
	}
	h.undo = append(h.undo, project.FromModel(m))
	last := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	_ = last.Apply(m)
	return true
}

// CanUndo reports whether an undo snapshot is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo snapshot is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the undo stack size.
func (h *History) Len() int { return len(h.undo) }
