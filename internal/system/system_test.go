package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendedWorkers(t *testing.T) {
	assert.Equal(t, 7, RecommendedWorkers(7))
	assert.GreaterOrEqual(t, RecommendedWorkers(0), 1)
}

func TestFindLatestFile(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "old.mp3")
	newer := filepath.Join(dir, "NEW.WAV")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, newer, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(other, future, future))

	got, err := FindLatestAudio(dir)
	require.NoError(t, err)
	assert.Equal(t, newer, got)

	_, err = FindLatestFile(dir, []string{".flac"})
	assert.Error(t, err)
}

func TestFFprobeFor(t *testing.T) {
	assert.Equal(t, "ffprobe", FFprobeFor(""))
	assert.Equal(t, "ffprobe", FFprobeFor("ffmpeg"))
	assert.Equal(t, filepath.Join("/opt/bin", "ffprobe"), FFprobeFor("/opt/bin/ffmpeg"))
}

func TestImagePoolReuseIsCleared(t *testing.T) {
	p := NewImagePool()
	rect := image.Rect(0, 0, 4, 4)

	img := p.Get(rect)
	require.Equal(t, rect, img.Rect)
	img.Pix[0] = 255
	p.Put(img)

	// sync.Pool may drop items, so only check the invariant when reused.
	again := p.Get(rect)
	assert.Equal(t, uint8(0), again.Pix[0])

	allocated, reused := p.Stats()
	assert.Equal(t, int64(2), allocated+reused)
}

func TestImagePoolIgnoresUnknownSize(t *testing.T) {
	p := NewImagePool()
	p.Put(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	p.Put(nil)

	allocated, reused := p.Stats()
	assert.Zero(t, allocated)
	assert.Zero(t, reused)
}
