package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Timeline settings
	FrameRate     float64 `yaml:"frame_rate"`
	StillDuration float64 `yaml:"still_duration_sec"` // image/generator clip length, seconds
	UndoDepth     int     `yaml:"undo_depth"`

	// Playback settings
	Playback PlaybackConfig `yaml:"playback"`

	// Thumbnail settings
	Thumbnails ThumbnailConfig `yaml:"thumbnails"`
}

type PlaybackConfig struct {
	TickMillis int    `yaml:"tick_ms"`
	PlayerPath string `yaml:"player_path"`
}

type ThumbnailConfig struct {
	Width int    `yaml:"width"`
	Dir   string `yaml:"dir"`
}

// TickInterval returns the playback clock cadence.
func (c *Config) TickInterval() time.Duration {
	if c.Playback.TickMillis <= 0 {
		return 33 * time.Millisecond
	}
	return time.Duration(c.Playback.TickMillis) * time.Millisecond
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		FrameRate:     30,
		StillDuration: 5,
		UndoDepth:     100,
		Playback: PlaybackConfig{
			TickMillis: 33,
			PlayerPath: "mpv",
		},
		Thumbnails: ThumbnailConfig{
			Width: 160,
			Dir:   "./thumbs",
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".reelcut", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
