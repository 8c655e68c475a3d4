package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/keagan/reelcut/internal/timeline"
	"github.com/keagan/reelcut/pkg/util"
)

// ErrInvalidProject indicates a malformed project file or one with missing
// required fields.
var ErrInvalidProject = errors.New("project: invalid project file")

func parseKind(s string) (timeline.Kind, error) {
	switch s {
	case "video":
		return timeline.Video, nil
	case "audio":
		return timeline.Audio, nil
	default:
		return 0, fmt.Errorf("%w: unknown track kind %q", ErrInvalidProject, s)
	}
}

// Save writes the model to a project file.
func Save(m *timeline.Model, path string) error {
	doc := FromModel(m)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a project file into a fresh model. Clips whose source files no
// longer exist on disk are skipped with a warning instead of failing the
// whole load; generator clips (empty source) always survive.
func Load(path string, logger zerolog.Logger) (*timeline.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	if doc.Version <= 0 {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidProject)
	}
	if doc.Version > FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidProject, doc.Version)
	}

	m := timeline.NewModel(doc.FrameRate)
	tracks, err := doc.tracks(func(cd ClipDoc) bool {
		if cd.Source == "" || util.FileExists(cd.Source) {
			return false
		}
		logger.Warn().
			Str("clip", cd.Name).
			Str("source", cd.Source).
			Msg("source media missing, skipping clip")
		return true
	})
	if err != nil {
		return nil, err
	}
	m.Tracks = tracks
	m.LoopStart = duration(doc.LoopStart)
	m.LoopEnd = duration(doc.LoopEnd)
	m.Looping = doc.Looping
	m.MarkIn = duration(doc.MarkIn)
	m.MarkOut = duration(doc.MarkOut)
	m.Recalculate()

	logger.Info().
		Str("path", path).
		Int("tracks", len(m.Tracks)).
		Int("clips", m.ClipCount()).
		Dur("duration", m.Duration()).
		Msg("project loaded")

	return m, nil
}
