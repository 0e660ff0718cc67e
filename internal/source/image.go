package source

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageSource is a still image, decoded once and shared by all callers.
type ImageSource struct {
	path string

	once sync.Once
	img  image.Image
	err  error
}

func NewImageSource(path string) *ImageSource {
	return &ImageSource{path: path}
}

func (s *ImageSource) Path() string {
	return s.path
}

func (s *ImageSource) Frame(_ context.Context, _ time.Duration) (image.Image, error) {
	s.once.Do(func() {
		s.img, s.err = decodeFile(s.path)
	})
	return s.img, s.err
}

// Dimensions reads only the header.
func (s *ImageSource) Dimensions() (int, int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return 0, 0, fmt.Errorf("source: open %s: %w", s.path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("source: decode %s: %w", s.path, err)
	}
	return cfg.Width, cfg.Height, nil
}

func (s *ImageSource) Close() error {
	return nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("source: decode %s: %w", path, err)
	}
	return img, nil
}
