// Package media is the boundary to the external decoder/player. The engine
// never decodes or renders frames itself; it probes sources for metadata and
// drives a Player implementation (mpv over its JSON IPC socket in this
// repo). Everything behind the Player interface may be slow or asynchronous;
// callers must not assume a load or seek completed within the call.
package media

import (
	"context"
	"fmt"
	"time"
)

// OpenError reports a source file the player could not open.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("media: cannot open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// SeekError reports a seek outside the loaded media or with nothing loaded.
type SeekError struct {
	Offset time.Duration
	Err    error
}

func (e *SeekError) Error() string {
	return fmt.Sprintf("media: seek to %v failed: %v", e.Offset, e.Err)
}

func (e *SeekError) Unwrap() error { return e.Err }

// Player is the playback engine the synchronizer drives. Offsets passed to
// Seek are relative to the loaded source file's own timeline.
type Player interface {
	// Load opens a source file, replacing whatever was loaded before.
	// Fails with *OpenError when the file is unreadable or unsupported.
	Load(ctx context.Context, path string) error

	// Seek moves the decoder to a source-relative offset. Fails with
	// *SeekError when out of range or nothing is loaded.
	Seek(ctx context.Context, offset time.Duration) error

	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Stop(ctx context.Context) error
}

// SourceInfo is the probed metadata of a media file.
type SourceInfo struct {
	Path       string
	Duration   time.Duration
	Width      int
	Height     int
	FrameRate  float64
	VideoCodec string
	AudioCodec string
	HasVideo   bool
	HasAudio   bool
}
