package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keagan/reelcut/internal/config"
	"github.com/keagan/reelcut/internal/edit"
	"github.com/keagan/reelcut/internal/export"
	"github.com/keagan/reelcut/internal/history"
	"github.com/keagan/reelcut/internal/logging"
	"github.com/keagan/reelcut/internal/media"
	"github.com/keagan/reelcut/internal/playback"
	"github.com/keagan/reelcut/internal/project"
	"github.com/keagan/reelcut/internal/timeline"
	"github.com/keagan/reelcut/pkg/timecode"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reelcut",
	Short: "reelcut - multi-track timeline editing engine",
	Long:  "A non-linear timeline editing engine: tracks, clips, trim edits, undo, playback sync and EDL export.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logging.Init(verbose)

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(appendCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(thumbCmd)
	rootCmd.AddCommand(editCmd)
}

var shiftBy time.Duration

func init() {
	editCmd.PersistentFlags().DurationVar(&shiftBy, "by", time.Second, "shift amount (e.g. 500ms, -2s)")
	editCmd.AddCommand(rollCmd)
	editCmd.AddCommand(slipCmd)
	editCmd.AddCommand(slideCmd)
	editCmd.AddCommand(moveCmd)
	editCmd.AddCommand(rmCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Trim and reposition clips",
}

func findClip(m *timeline.Model, name string) (*timeline.Clip, error) {
	for _, t := range m.Tracks {
		for _, c := range t.Clips {
			if c.Name == name || c.ID == name {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("no clip named %q", name)
}

// withProject loads the project, runs the edit and saves on success.
func withProject(cmd *cobra.Command, path string, fn func(*edit.Editor, *timeline.Model) error) error {
	m, err := openProject(path)
	if err != nil {
		return err
	}
	if err := fn(newEditor(cmd, m), m); err != nil {
		return err
	}
	return project.Save(m, path)
}

var rollCmd = &cobra.Command{
	Use:   "roll [project file] [left clip] [right clip]",
	Short: "Move the shared edit point between two adjacent clips",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(cmd, args[0], func(e *edit.Editor, m *timeline.Model) error {
			left, err := findClip(m, args[1])
			if err != nil {
				return err
			}
			right, err := findClip(m, args[2])
			if err != nil {
				return err
			}
			return e.RollingEdit(left, right, shiftBy)
		})
	},
}

var slipCmd = &cobra.Command{
	Use:   "slip [project file] [clip]",
	Short: "Slide a clip's source window under its fixed placement",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(cmd, args[0], func(e *edit.Editor, m *timeline.Model) error {
			c, err := findClip(m, args[1])
			if err != nil {
				return err
			}
			return e.SlipEdit(c, shiftBy)
		})
	},
}

var slideCmd = &cobra.Command{
	Use:   "slide [project file] [clip]",
	Short: "Move a clip between its neighbors, re-closing the gaps",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(cmd, args[0], func(e *edit.Editor, m *timeline.Model) error {
			c, err := findClip(m, args[1])
			if err != nil {
				return err
			}
			return e.SlideEdit(c, shiftBy)
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move [project file] [clip] [new start]",
	Short: "Reposition a clip without adjusting neighbors",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(cmd, args[0], func(e *edit.Editor, m *timeline.Model) error {
			c, err := findClip(m, args[1])
			if err != nil {
				return err
			}
			start, err := timecode.Parse(args[2])
			if err != nil {
				return err
			}
			return e.Move(c, start)
		})
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm [project file] [clip]",
	Short: "Delete a clip, leaving the gap",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(cmd, args[0], func(e *edit.Editor, m *timeline.Model) error {
			c, err := findClip(m, args[1])
			if err != nil {
				return err
			}
			return e.Delete(c)
		})
	},
}

func openProject(path string) (*timeline.Model, error) {
	return project.Load(path, log.Logger)
}

func newEditor(cmd *cobra.Command, m *timeline.Model) *edit.Editor {
	cfg := config.FromContext(cmd.Context())
	return edit.NewEditor(m, history.New(cfg.UndoDepth), log.Logger)
}

var newCmd = &cobra.Command{
	Use:   "new [project file]",
	Short: "Create an empty project with one video and one audio track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		m := timeline.NewModel(cfg.FrameRate)
		m.AddTrack(timeline.Video, "Video 1")
		m.AddTrack(timeline.Audio, "Audio 1")

		if err := project.Save(m, args[0]); err != nil {
			return err
		}
		log.Info().Str("project", args[0]).Msg("project created")
		return nil
	},
}

var appendCmd = &cobra.Command{
	Use:   "append [project file] [media files...]",
	Short: "Probe media files and append them to the timeline",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openProject(args[0])
		if err != nil {
			return err
		}
		editor := newEditor(cmd, m)

		prober, err := media.NewProber(log.Logger)
		if err != nil {
			return err
		}

		cfg := config.FromContext(cmd.Context())
		still := time.Duration(cfg.StillDuration * float64(time.Second))

		for _, path := range args[1:] {
			info, err := prober.Probe(cmd.Context(), path)
			if err != nil {
				return err
			}
			src := edit.Source{
				Path:          path,
				Duration:      info.Duration,
				AudioOnly:     info.HasAudio && !info.HasVideo,
				StillDuration: still,
			}
			track := m.FirstTrack(src.Kind())
			if track == nil {
				track = m.AddTrack(src.Kind(), defaultTrackName(src.Kind()))
			}
			clip, err := editor.Append(track.ID, src)
			if err != nil {
				return err
			}
			log.Info().
				Str("clip", clip.Name).
				Str("track", track.Name).
				Dur("start", clip.Start).
				Dur("duration", clip.Duration).
				Msg("clip appended")
		}

		return project.Save(m, args[0])
	},
}

func defaultTrackName(kind timeline.Kind) string {
	if kind == timeline.Audio {
		return "Audio 1"
	}
	return "Video 1"
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [project file]",
	Short: "Print the timeline layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openProject(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("duration %s  frame rate %.3g  tracks %d\n",
			timecode.FormatDuration(m.Duration()), m.FrameRate, len(m.Tracks))
		for _, t := range m.Tracks {
			flags := ""
			if t.Hidden {
				flags += " hidden"
			}
			if t.Muted {
				flags += " muted"
			}
			if t.Locked {
				flags += " locked"
			}
			fmt.Printf("%s [%s]%s\n", t.Name, t.Kind, flags)
			for _, c := range t.Clips {
				fmt.Printf("  %-20s %s - %s  (in %s out %s)  %s\n",
					c.Name,
					timecode.FormatDuration(c.Start),
					timecode.FormatDuration(c.End()),
					timecode.FormatDuration(c.In),
					timecode.FormatDuration(c.Out),
					c.Source)
			}
			for _, pair := range t.Overlapping() {
				fmt.Printf("  ! overlap: %s / %s\n", pair[0].Name, pair[1].Name)
			}
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [project file] [output.edl]",
	Short: "Export the timeline as a CMX 3600 style EDL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openProject(args[0])
		if err != nil {
			return err
		}

		f, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		title := filepath.Base(args[0])
		if err := export.NewEDLWriter(f, title).Write(m); err != nil {
			return err
		}
		log.Info().Str("output", args[1]).Msg("EDL exported")
		return nil
	},
}

var playCmd = &cobra.Command{
	Use:   "play [project file]",
	Short: "Play the timeline through mpv",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		m, err := openProject(args[0])
		if err != nil {
			return err
		}

		player := media.NewMPV(log.Logger, cfg.Playback.PlayerPath)
		if err := player.Start(cmd.Context()); err != nil {
			return err
		}
		defer player.Close()

		sync := playback.NewSynchronizer(m, player, log.Logger,
			playback.WithTickInterval(cfg.TickInterval()))

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := sync.Play(ctx); err != nil {
			return err
		}

		done := make(chan error, 1)
		go func() { done <- sync.Run(ctx) }()

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if sync.State() == playback.Stopped {
					log.Info().Msg("playback finished")
					return nil
				}
			case err := <-done:
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
	},
}

var thumbCmd = &cobra.Command{
	Use:   "thumb [project file]",
	Short: "Generate preview thumbnails for every clip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		m, err := openProject(args[0])
		if err != nil {
			return err
		}

		thumbs, err := media.NewThumbnailer(log.Logger, cfg.Thumbnails.Width)
		if err != nil {
			return err
		}

		for _, t := range m.Tracks {
			for _, c := range t.Clips {
				if c.Source == "" || c.AudioOnly {
					continue
				}
				out := filepath.Join(cfg.Thumbnails.Dir, c.ID+".jpg")
				if err := thumbs.Extract(cmd.Context(), c.Source, c.In, out); err != nil {
					log.Warn().Err(err).Str("clip", c.Name).Msg("thumbnail failed")
					continue
				}
				c.Thumbnail = out
			}
		}

		return project.Save(m, args[0])
	},
}
