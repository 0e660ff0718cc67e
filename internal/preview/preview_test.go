package preview

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/devlog2video/internal/effects"
	"github.com/ivlev/devlog2video/internal/manifest"
	"github.com/ivlev/devlog2video/internal/renderer"
	"github.com/ivlev/devlog2video/internal/source"
	"github.com/ivlev/devlog2video/internal/timeline"
)

type solidSource struct {
	img image.Image
	err error
}

func (s solidSource) Frame(context.Context, time.Duration) (image.Image, error) { return s.img, s.err }
func (s solidSource) Path() string                                               { return "mem" }
func (s solidSource) Close() error                                               { return nil }

type fakeLoader struct {
	src    source.Source
	opened []string
}

func (f *fakeLoader) Open(asset string, _ bool) (source.Source, error) {
	f.opened = append(f.opened, asset)
	return f.src, nil
}

func solid(c color.Color, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		r, g, b, a := c.RGBA()
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8)
	}
	return img
}

func smallTimeline(segs ...manifest.Segment) *timeline.Timeline {
	return timeline.Build(&manifest.Manifest{FPS: 30, Segments: segs}, 90, 160)
}

func TestParseColor(t *testing.T) {
	tests := map[string]color.NRGBA{
		"#0a0a0a":          {0x0a, 0x0a, 0x0a, 0xff},
		"#FFF":             {0xff, 0xff, 0xff, 0xff},
		"#6366f180":        {0x63, 0x66, 0xf1, 0x80},
		"rgba(0,0,0,0.5)":  {0, 0, 0, 128},
		"rgb(10, 20, 30)":  {10, 20, 30, 255},
		"white":            {255, 255, 255, 255},
		" Transparent ":    {0, 0, 0, 0},
	}
	for in, want := range tests {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "#12", "rgba(1,2)", "rgb(300,0,0)", "hsl(0,0%,0%)"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestAffine(t *testing.T) {
	assert.True(t, isIdentity(affine(nil, 100, 200)))
	assert.True(t, isIdentity(affine(effects.Transform{effects.Scale(1)}, 100, 200)))

	m := affine(effects.Transform{effects.TranslateX(50, effects.UnitPercent)}, 100, 200)
	assert.InDelta(t, 50.0, m[2], 1e-9)

	// scale about the centre keeps the centre fixed
	m = affine(effects.Transform{effects.Scale(2)}, 100, 200)
	assert.InDelta(t, 50.0, m[0]*50+m[1]*100+m[2], 1e-9)
	assert.InDelta(t, 100.0, m[3]*50+m[4]*100+m[5], 1e-9)

	// translate after scale moves by the scaled distance
	m = affine(effects.Transform{effects.Scale(2), effects.TranslateY(10, effects.UnitPixel)}, 100, 200)
	assert.InDelta(t, 120.0, m[3]*50+m[4]*100+m[5], 1e-9)
}

func TestApplyClip(t *testing.T) {
	img := solid(color.White, 10, 4).(*image.RGBA)
	applyClip(img, effects.Inset{Right: 50})

	assert.Equal(t, uint8(255), img.RGBAAt(4, 2).A)
	assert.Equal(t, uint8(0), img.RGBAAt(5, 2).A)
	assert.Equal(t, uint8(0), img.RGBAAt(9, 0).A)
}

func TestFade(t *testing.T) {
	img := solid(color.White, 2, 2).(*image.RGBA)
	fade(img, 0.5)
	assert.InDelta(t, 128, int(img.Pix[3]), 1)

	fade(img, 0)
	assert.Equal(t, uint8(0), img.Pix[3])
}

func TestBlur(t *testing.T) {
	assert.Equal(t, 0, blurRadius(0))
	assert.Equal(t, 20, blurRadius(20))

	flat := solid(color.NRGBA{200, 100, 50, 255}, 16, 16).(*image.RGBA)
	gaussianBlur(flat, 3)
	assert.Equal(t, color.RGBA{200, 100, 50, 255}, flat.RGBAAt(8, 8))

	dot := image.NewRGBA(image.Rect(0, 0, 21, 21))
	dot.SetRGBA(10, 10, color.RGBA{255, 255, 255, 255})
	gaussianBlur(dot, 2)
	assert.Less(t, dot.RGBAAt(10, 10).A, uint8(255))
	assert.Greater(t, dot.RGBAAt(11, 10).A, uint8(0))
}

func TestRenderBackgroundOnly(t *testing.T) {
	tl := smallTimeline(manifest.Segment{Media: "a.png"})
	fs := renderer.RenderFrame(tl, tl.TotalDurationInFrames())

	img := New(nil, nil).Render(context.Background(), fs, tl.FPS)
	defer Release(img)

	assert.Equal(t, image.Rect(0, 0, 90, 160), img.Bounds())
	assert.Equal(t, color.RGBA{0x0a, 0x0a, 0x0a, 0xff}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0x0a, 0x0a, 0x0a, 0xff}, img.RGBAAt(45, 80))
}

func TestRenderMediaAndVignette(t *testing.T) {
	loader := &fakeLoader{src: solidSource{img: solid(color.RGBA{255, 0, 0, 255}, 30, 30)}}
	tl := smallTimeline(manifest.Segment{
		Media:      "shots/red.png",
		Transition: manifest.TransitionCut,
		KenBurns:   manifest.KenBurnsNone,
	})
	fs := renderer.RenderFrame(tl, 0)

	img := New(loader, nil).Render(context.Background(), fs, tl.FPS)
	defer Release(img)

	assert.Equal(t, []string{"shots/red.png"}, loader.opened)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(45, 80))

	// the corners sit under the vignette
	corner := img.RGBAAt(0, 0)
	assert.Less(t, corner.R, uint8(200))
	assert.Equal(t, uint8(255), corner.A)
}

func TestRenderPlaceholderOnError(t *testing.T) {
	loader := &fakeLoader{src: solidSource{err: errors.New("boom")}}
	tl := smallTimeline(manifest.Segment{Media: "clip.mp4", Transition: manifest.TransitionCut, KenBurns: manifest.KenBurnsNone})

	img := New(loader, nil).Render(context.Background(), renderer.RenderFrame(tl, 0), tl.FPS)
	defer Release(img)

	c := img.RGBAAt(2, 80)
	assert.NotEqual(t, color.RGBA{0x0a, 0x0a, 0x0a, 0xff}, c)
}

func TestRenderSubtitle(t *testing.T) {
	tl := timeline.Build(&manifest.Manifest{
		FPS: 30,
		Segments: []manifest.Segment{{
			Media:         "a.png",
			Subtitle:      "HI",
			TextAnimation: manifest.TextNone,
			Transition:    manifest.TransitionCut,
		}},
	}, 1080, 1920)

	img := New(nil, nil).Render(context.Background(), renderer.RenderFrame(tl, 10), tl.FPS)
	defer Release(img)

	// bottom placement: the caption sits just above y = 1920-180
	white := 0
	for y := 1600; y < 1740; y++ {
		for x := 0; x < 1080; x++ {
			if img.RGBAAt(x, y) == (color.RGBA{255, 255, 255, 255}) {
				white++
			}
		}
	}
	assert.Greater(t, white, 100)
}

func TestWrap(t *testing.T) {
	rs := []textRun{{text: "aa", width: 40}, {text: "bb", width: 40}, {text: "cc", width: 40}}
	lines := wrap(rs, 10, 95)
	require.Len(t, lines, 2)
	assert.Len(t, lines[0], 2)
	assert.Equal(t, 90.0, lineWidth(lines[0], 10))

	// a single long word still gets its own line
	lines = wrap([]textRun{{text: "long", width: 500}}, 10, 95)
	require.Len(t, lines, 1)
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", FrameFileName(42))
	require.NoError(t, WritePNG(path, solid(color.White, 3, 3)))
	assert.Equal(t, "frame_000042.png", filepath.Base(path))

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, solid(color.Black, 2, 2)))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
}
