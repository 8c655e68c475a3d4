package timeline

import "errors"

// Validation errors. Edit operations return these without mutating anything.
var (
	// ErrTrackLocked indicates an edit targeted a locked track.
	ErrTrackLocked = errors.New("timeline: track is locked")

	// ErrTrackNotFound indicates a lookup by id found no track.
	ErrTrackNotFound = errors.New("timeline: track not found")

	// ErrClipNotFound indicates the clip is not on the given track.
	ErrClipNotFound = errors.New("timeline: clip not found on track")

	// ErrNotAdjacent indicates a rolling edit on clips that do not share
	// an edit point.
	ErrNotAdjacent = errors.New("timeline: clips are not adjacent")

	// ErrInsufficientSource indicates a trim would move past the start or
	// end of the available source media.
	ErrInsufficientSource = errors.New("timeline: insufficient source media")

	// ErrZeroDuration indicates an edit would shrink a clip to zero or
	// negative length.
	ErrZeroDuration = errors.New("timeline: clip duration must be positive")

	// ErrNegativeStart indicates a placement before the timeline origin.
	ErrNegativeStart = errors.New("timeline: start time must not be negative")

	// ErrSourceBounds indicates a trim window outside [0, SourceDuration].
	ErrSourceBounds = errors.New("timeline: trim window outside source bounds")

	// ErrTrimMismatch indicates duration disagrees with the trim window.
	ErrTrimMismatch = errors.New("timeline: duration does not match trim window")

	// ErrNoNeighbor indicates a slide edit on a clip with no neighbors.
	ErrNoNeighbor = errors.New("timeline: slide edit requires a neighboring clip")

	// ErrStillClip indicates a source-window edit on a clip that has no
	// source window (image or generator).
	ErrStillClip = errors.New("timeline: clip has no source window")
)
