package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"
	"time"
)

// VideoSource grabs single frames from a video file with ffmpeg.
type VideoSource struct {
	path   string
	ffmpeg string
}

func NewVideoSource(path, ffmpeg string) *VideoSource {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	return &VideoSource{path: path, ffmpeg: ffmpeg}
}

func (s *VideoSource) Path() string {
	return s.path
}

// Frame seeks to at and decodes one PNG frame piped from ffmpeg.
func (s *VideoSource) Frame(ctx context.Context, at time.Duration) (image.Image, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("source: open %s: %w", s.path, err)
	}

	cmd := exec.CommandContext(ctx, s.ffmpeg, s.args(at)...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("source: ffmpeg %s @%s: %w: %s", s.path, at, err, strings.TrimSpace(stderr.String()))
	}

	img, err := png.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("source: decode frame %s @%s: %w", s.path, at, err)
	}
	return img, nil
}

func (s *VideoSource) args(at time.Duration) []string {
	if at < 0 {
		at = 0
	}
	return []string{
		"-v", "error",
		"-ss", fmt.Sprintf("%.3f", at.Seconds()),
		"-i", s.path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	}
}

func (s *VideoSource) Close() error {
	return nil
}
