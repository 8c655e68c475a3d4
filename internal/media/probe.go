package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/keagan/reelcut/pkg/timecode"
)

// Prober extracts source metadata with ffprobe. Decoded duration is what the
// timeline uses as SourceDuration for new clips.
type Prober struct {
	logger      zerolog.Logger
	ffprobePath string
}

// NewProber locates ffprobe in PATH.
func NewProber(logger zerolog.Logger) (*Prober, error) {
	path, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}
	return &Prober{
		logger:      logger.With().Str("component", "prober").Logger(),
		ffprobePath: path,
	}, nil
}

// Probe reads format and stream metadata from a media file. Image sources
// come back with Duration 0; the edit layer substitutes its still-clip
// default.
func (p *Prober) Probe(ctx context.Context, filePath string) (*SourceInfo, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path is required")
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	}

	cmd := exec.CommandContext(ctx, p.ffprobePath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, &OpenError{Path: filePath, Err: fmt.Errorf("ffprobe failed: %w", err)}
	}

	var probe probeResult
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, &OpenError{Path: filePath, Err: fmt.Errorf("failed to parse ffprobe output: %w", err)}
	}

	info := &SourceInfo{Path: filePath}

	if dur, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		info.Duration = time.Duration(dur * float64(time.Second))
	}

	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			info.HasVideo = true
			info.Width = stream.Width
			info.Height = stream.Height
			info.VideoCodec = stream.CodecName
			if stream.RFrameRate != "" {
				info.FrameRate = timecode.ParseFrameRate(stream.RFrameRate)
			}
		case "audio":
			info.HasAudio = true
			info.AudioCodec = stream.CodecName
		}
	}

	p.logger.Debug().
		Str("path", filePath).
		Dur("duration", info.Duration).
		Bool("video", info.HasVideo).
		Bool("audio", info.HasAudio).
		Msg("source probed")

	return info, nil
}

// probeResult matches ffprobe JSON output structure
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}
