// Package playback maps the moving timeline clock onto whichever clip is
// under the playhead and drives the external player accordingly. It is the
// only caller into the media player.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/keagan/reelcut/internal/media"
	"github.com/keagan/reelcut/internal/timeline"
)

// State is the synchronizer's playback state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// DefaultTickInterval is the cadence of the playback clock, roughly 30 Hz.
const DefaultTickInterval = 33 * time.Millisecond

// Synchronizer advances the timeline position while playing, resolves the
// active clip under the playhead and keeps the external player on the right
// source file at the right source offset. The player is told to load and
// seek only when the active clip changes; between changes the decoder
// advances its own clock in lock-step, and re-seeking every tick would
// stutter.
type Synchronizer struct {
	model  *timeline.Model
	player media.Player
	logger zerolog.Logger

	mu       sync.Mutex
	state    State
	pos      time.Duration
	active   *timeline.Clip
	interval time.Duration
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithTickInterval overrides the playback clock cadence.
func WithTickInterval(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.interval = d
		}
	}
}

// NewSynchronizer creates a synchronizer over the model and player.
func NewSynchronizer(m *timeline.Model, player media.Player, logger zerolog.Logger, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		model:    m,
		player:   player,
		logger:   logger.With().Str("component", "playback").Logger(),
		interval: DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current playback state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Position returns the current playhead position.
func (s *Synchronizer) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Active returns the clip currently under the playhead, nil over a gap.
func (s *Synchronizer) Active() *timeline.Clip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// resolve finds the clip under pos, scanning tracks in priority order: the
// topmost visible track with a clip at this position wins. Within a track
// the earliest-starting containing clip wins.
func (s *Synchronizer) resolve(pos time.Duration) *timeline.Clip {
	for _, t := range s.model.Tracks {
		if t.Hidden {
			continue
		}
		if c := t.ClipAt(pos); c != nil {
			return c
		}
	}
	return nil
}

// sync brings the player in line with the clip under s.pos. With force set,
// a seek is issued even when the active clip is unchanged (scrubbing, loop
// wraparound). Caller holds the lock.
func (s *Synchronizer) sync(ctx context.Context, force bool) error {
	clip := s.resolve(s.pos)

	if clip == nil {
		// Gap: nothing under the playhead, leave the player idle.
		if s.active != nil {
			s.active = nil
			return s.player.Pause(ctx)
		}
		return nil
	}

	changed := clip != s.active
	if !changed && !force {
		return nil
	}

	// Generator clips have no source file for the decoder; the player
	// stays idle while they are under the playhead.
	if clip.Source == "" {
		s.active = clip
		if changed {
			return s.player.Pause(ctx)
		}
		return nil
	}

	if changed {
		if err := s.player.Load(ctx, clip.Source); err != nil {
			return err
		}
	}
	if err := s.player.Seek(ctx, clip.SourceOffset(s.pos)); err != nil {
		return err
	}
	s.active = clip
	if s.state == Playing {
		if err := s.player.Play(ctx); err != nil {
			return err
		}
	}
	s.logger.Debug().
		Str("clip", clip.Name).
		Dur("position", s.pos).
		Dur("source_offset", clip.SourceOffset(s.pos)).
		Msg("player synced")
	return nil
}

// Play starts the clock from the current position.
func (s *Synchronizer) Play(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Playing {
		return nil
	}
	s.state = Playing
	if err := s.sync(ctx, true); err != nil {
		s.state = Paused
		return err
	}
	s.logger.Info().Dur("position", s.pos).Msg("playback started")
	return nil
}

// Pause stops the clock, keeping the position.
func (s *Synchronizer) Pause(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Playing {
		return nil
	}
	s.state = Paused
	return s.player.Pause(ctx)
}

// Stop halts playback and resets the position to 0.
func (s *Synchronizer) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Stopped
	s.pos = 0
	s.active = nil
	return s.player.Stop(ctx)
}

// Seek scrubs to an arbitrary position. The active-clip lookup runs as on a
// tick, but the seek is mandatory even when the clip is unchanged: the
// position is externally supplied and need not match the decoder's clock.
// On player failure the position is left unchanged.
func (s *Synchronizer) Seek(ctx context.Context, pos time.Duration) error {
	if pos < 0 {
		pos = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prevPos, prevActive := s.pos, s.active
	s.pos = pos
	if err := s.sync(ctx, true); err != nil {
		s.pos, s.active = prevPos, prevActive
		return err
	}
	return nil
}

// Tick advances the clock by elapsed while playing and re-syncs the player.
// Reaching the end of the timeline stops playback and resets to 0; with a
// loop region enabled the position wraps to the loop start instead. On
// player failure the position rolls back so the caller can retry or pause.
func (s *Synchronizer) Tick(ctx context.Context, elapsed time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Playing {
		return nil
	}

	prevPos, prevActive := s.pos, s.active
	s.pos += elapsed

	force := false
	if s.model.Looping && s.model.LoopEnd > s.model.LoopStart && s.pos >= s.model.LoopEnd {
		s.pos = s.model.LoopStart
		force = true
	} else if s.pos >= s.model.Duration() {
		s.state = Stopped
		s.pos = 0
		s.active = nil
		s.logger.Info().Msg("end of timeline reached")
		return s.player.Stop(ctx)
	}

	if err := s.sync(ctx, force); err != nil {
		s.pos, s.active = prevPos, prevActive
		return err
	}
	return nil
}

// Run drives Tick on the configured cadence until the context is cancelled.
// Player errors pause playback instead of killing the loop.
func (s *Synchronizer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			if err := s.Tick(ctx, elapsed); err != nil {
				s.logger.Error().Err(err).Msg("tick failed, pausing")
				if perr := s.Pause(ctx); perr != nil {
					s.logger.Error().Err(perr).Msg("pause after failed tick")
				}
			}
		}
	}
}
