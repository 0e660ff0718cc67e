package source

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	r := NewResolver(root, "")

	p, err := r.Resolve("clips/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "clips", "a.mp4"), p)

	p, err = r.Resolve(`clips\b.png`)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "clips", "b.png"), p)

	_, err = r.Resolve("../secret.png")
	assert.True(t, errors.Is(err, ErrOutsideRoot))

	_, err = r.Resolve("")
	assert.Error(t, err)
}

func TestOpenImageIsCached(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "shots", "a.png"), 8, 6)
	r := NewResolver(root, "")
	defer r.Close()

	assert.True(t, r.Exists("shots/a.png"))
	assert.False(t, r.Exists("shots/missing.png"))

	src, err := r.Open("shots/a.png", true)
	require.NoError(t, err)
	again, err := r.Open("shots/a.png", true)
	require.NoError(t, err)
	assert.Same(t, src, again)

	img, err := src.Frame(context.Background(), 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())

	w, h, err := src.(*ImageSource).Dimensions()
	require.NoError(t, err)
	assert.Equal(t, 8, w)
	assert.Equal(t, 6, h)
}

func TestMissingImageKeepsPathInError(t *testing.T) {
	r := NewResolver(t.TempDir(), "")
	src, err := r.Open("nope.png", true)
	require.NoError(t, err)

	_, err = src.Frame(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.png")
}

func TestVideoArgs(t *testing.T) {
	s := NewVideoSource("/tmp/clip.mp4", "")
	assert.Equal(t, []string{
		"-v", "error", "-ss", "2.500", "-i", "/tmp/clip.mp4",
		"-frames:v", "1", "-f", "image2pipe", "-vcodec", "png", "-",
	}, s.args(2500*time.Millisecond))
	assert.Contains(t, s.args(-time.Second), "0.000")
}

func TestMissingVideo(t *testing.T) {
	s := NewVideoSource(filepath.Join(t.TempDir(), "gone.mp4"), "ffmpeg")
	_, err := s.Frame(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.mp4")
}
