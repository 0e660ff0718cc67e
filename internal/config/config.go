package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override config keys,
// e.g. DEVLOG2VIDEO_ASSET_ROOT -> asset_root.
const EnvPrefix = "DEVLOG2VIDEO_"

// Vertical 9:16 canvas.
const (
	DefaultWidth  = 1080
	DefaultHeight = 1920
)

type Config struct {
	ManifestPath string  `koanf:"manifest"`
	AssetRoot    string  `koanf:"asset_root"`
	OutputDir    string  `koanf:"output_dir"`
	Width        int     `koanf:"width"`
	Height       int     `koanf:"height"`
	FPS          float64 `koanf:"fps"` // 0 = take fps from the manifest
	Workers      int     `koanf:"workers"`
	Listen       string  `koanf:"listen"`
	LogLevel     string  `koanf:"log_level"`
	FFmpegPath   string  `koanf:"ffmpeg_path"`
	ShowStats    bool    `koanf:"show_stats"`
	BuildVersion string  `koanf:"-"`
}

// SegmentParams is everything the segment renderer needs besides the
// segment itself.
type SegmentParams struct {
	Width, Height    int
	FPS              float64
	Index            int
	DurationInFrames int
	IsFirst, IsLast  bool
}

// Default returns the vertical 9:16 preset.
func Default() Config {
	return Config{
		AssetRoot:  "public",
		OutputDir:  "output",
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Listen:     "127.0.0.1:8089",
		LogLevel:   "info",
		FFmpegPath: "ffmpeg",
	}
}

// Load layers defaults, an optional YAML file and DEVLOG2VIDEO_* env vars.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	for _, kv := range os.Environ() {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if err := k.Set(name, val); err != nil {
			return nil, fmt.Errorf("env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate rejects settings no render can use.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas %dx%d must be positive", c.Width, c.Height))
	}
	if c.FPS < 0 {
		errs = append(errs, fmt.Errorf("fps override %v must not be negative", c.FPS))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d must not be negative", c.Workers))
	}
	return errors.Join(errs...)
}
