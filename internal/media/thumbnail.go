package media

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog"

	"github.com/keagan/reelcut/pkg/timecode"
	"github.com/keagan/reelcut/pkg/util"
)

// DefaultThumbWidth is the width thumbnails are scaled to.
const DefaultThumbWidth = 160

// Thumbnailer grabs single frames with ffmpeg and downscales them for clip
// previews.
type Thumbnailer struct {
	logger     zerolog.Logger
	ffmpegPath string
	width      uint
}

// NewThumbnailer locates ffmpeg in PATH. width <= 0 uses the default.
func NewThumbnailer(logger zerolog.Logger, width int) (*Thumbnailer, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	if width <= 0 {
		width = DefaultThumbWidth
	}
	return &Thumbnailer{
		logger:     logger.With().Str("component", "thumbnailer").Logger(),
		ffmpegPath: path,
		width:      uint(width),
	}, nil
}

// Extract grabs the frame at a source-relative offset and writes a scaled
// JPEG to outPath.
func (t *Thumbnailer) Extract(ctx context.Context, source string, at time.Duration, outPath string) error {
	if err := util.EnsureDir(filepath.Dir(outPath)); err != nil {
		return err
	}

	tmp, err := util.TempFile(filepath.Dir(outPath), "frame", ".png")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpPath)

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-ss", timecode.FormatDuration(at),
		"-i", source,
		"-frames:v", "1",
		tmpPath,
	}
	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return &OpenError{Path: source, Err: fmt.Errorf("frame grab failed: %w: %s", err, output)}
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode frame: %w", err)
	}

	scaled := resize.Resize(t.width, 0, img, resize.Bilinear)

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := jpeg.Encode(out, scaled, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	t.logger.Debug().
		Str("source", source).
		Dur("at", at).
		Str("out", outPath).
		Msg("thumbnail written")
	return nil
}
