package renderer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/devlog2video/internal/config"
	"github.com/ivlev/devlog2video/internal/manifest"
	"github.com/ivlev/devlog2video/internal/timeline"
)

func params(dur int, first, last bool) config.SegmentParams {
	return config.SegmentParams{
		Width:            1080,
		Height:           1920,
		FPS:              30,
		DurationInFrames: dur,
		IsFirst:          first,
		IsLast:           last,
	}
}

func TestZoomInFirstSegment(t *testing.T) {
	seg := manifest.Segment{Media: "a.mp4", Transition: manifest.TransitionZoomIn, KenBurns: manifest.KenBurnsNone}
	st := RenderSegment(seg, params(90, true, false), 0)

	assert.Equal(t, 1.0, st.Opacity)
	require.Len(t, st.Ops, 1)
	assert.Equal(t, 1.0, st.Ops[0].Value)
	assert.Equal(t, "scale(1)", st.Transform)
}

func TestZoomInLaterSegment(t *testing.T) {
	seg := manifest.Segment{Media: "a.mp4", Transition: manifest.TransitionZoomIn, KenBurns: manifest.KenBurnsNone}
	st := RenderSegment(seg, params(90, false, false), 0)

	assert.Equal(t, 0.0, st.Opacity)
	assert.Equal(t, "scale(0.5)", st.Transform)
}

func TestPanLeft(t *testing.T) {
	seg := manifest.Segment{Media: "a.mp4", Transition: manifest.TransitionCut, KenBurns: manifest.KenBurnsPanLeft}
	p := params(60, true, true)

	assert.Equal(t, "scale(1.1) translateX(5%)", RenderSegment(seg, p, 0).Transform)
	assert.Equal(t, "scale(1.1) translateX(0%)", RenderSegment(seg, p, 30).Transform)
	assert.Equal(t, "scale(1.1) translateX(-5%)", RenderSegment(seg, p, 60).Transform)
}

func TestCropSizing(t *testing.T) {
	seg := manifest.Segment{Media: "a.png", Crop: &manifest.Crop{X: 100, Y: 50, Width: 800, Height: 1200}}
	st := RenderSegment(seg, params(90, true, true), 10)

	assert.Equal(t, FitCrop, st.Fit.Mode)
	assert.Equal(t, -100.0, st.Fit.OffsetX)
	assert.Equal(t, -50.0, st.Fit.OffsetY)
	assert.Equal(t, 800.0, st.Fit.Width)
	assert.Equal(t, 1200.0, st.Fit.Height)
	assert.Equal(t, "-100px -50px", st.Fit.ObjectPosition())

	seg.Crop = &manifest.Crop{}
	st = RenderSegment(seg, params(90, true, true), 10)
	assert.Equal(t, 0.0, st.Fit.OffsetX)
	assert.Equal(t, 1080.0, st.Fit.Width)
	assert.Equal(t, 1920.0, st.Fit.Height)
	assert.Equal(t, "0px 0px", st.Fit.ObjectPosition())
}

func TestCoverFit(t *testing.T) {
	st := RenderSegment(manifest.Segment{Media: "a.mp4"}, params(90, false, false), 5)
	assert.Equal(t, Fit{Mode: FitCover, Width: 1080, Height: 1920}, st.Fit)
}

func TestMediaSourceFrame(t *testing.T) {
	seg := manifest.Segment{Media: "clip.mp4", MediaStartTime: 2.5}
	st := RenderSegment(seg, params(90, false, false), 12)
	assert.False(t, st.IsImage)
	assert.Equal(t, 75, st.MediaStartFrame)
	assert.Equal(t, 87, st.SourceFrame)

	img := RenderSegment(manifest.Segment{Media: "still.JPG", MediaStartTime: 2.5}, params(90, false, false), 12)
	assert.True(t, img.IsImage)
	assert.Equal(t, 0, img.SourceFrame)
}

func TestBlurFilter(t *testing.T) {
	seg := manifest.Segment{Media: "a.mp4", Transition: manifest.TransitionBlur, KenBurns: manifest.KenBurnsNone}
	st := RenderSegment(seg, params(90, false, false), 0)
	assert.Equal(t, 20.0, st.Blur)
	assert.Equal(t, "blur(20px)", st.Filter)

	first := RenderSegment(seg, params(90, true, false), 0)
	assert.Equal(t, 0.0, first.Blur)
	assert.Equal(t, 1.0, first.Opacity)

	plain := RenderSegment(manifest.Segment{Media: "a.mp4"}, params(90, false, false), 0)
	assert.Empty(t, plain.Filter)
}

func TestWipeClip(t *testing.T) {
	seg := manifest.Segment{Media: "a.mp4", Transition: manifest.TransitionWipeLeft}
	st := RenderSegment(seg, params(90, false, false), 0)
	assert.Equal(t, "inset(0 100% 0 0)", st.Clip)
	assert.Equal(t, "none", RenderSegment(seg, params(90, false, false), 20).Clip)
}

func TestExitDominates(t *testing.T) {
	seg := manifest.Segment{Media: "a.mp4", Transition: manifest.TransitionCut}
	assert.Equal(t, 0.0, RenderSegment(seg, params(90, false, false), 90).Opacity)
	assert.Equal(t, 1.0, RenderSegment(seg, params(90, false, true), 90).Opacity)
}

func TestRenderFrame(t *testing.T) {
	m := manifest.Example()
	m.Segments[1].Voice = "voice/2.mp3"
	m.Segments[1].Sfx = "sfx/pop.wav"
	m.Segments[1].SfxOffset = 0.5

	tl := timeline.Build(m, 0, 0)
	fs := RenderFrame(tl, 120) // segment 1 starts at 90

	assert.Equal(t, 120, fs.Frame)
	assert.Equal(t, Background, fs.Background)
	assert.Equal(t, 1080, fs.Width)

	var kinds []timeline.LayerKind
	for _, l := range fs.Layers {
		kinds = append(kinds, l.Kind)
	}
	assert.Equal(t, []timeline.LayerKind{
		timeline.KindMedia, timeline.KindVignette, timeline.KindVoice, timeline.KindSfx, timeline.KindSubtitle,
	}, kinds)

	media := fs.Layers[0]
	assert.Equal(t, 30, media.LocalFrame)
	require.NotNil(t, media.Media)
	assert.Equal(t, "example/bug-moment.mp4", media.Media.Media)

	vig := fs.Layers[1]
	require.NotNil(t, vig.Vignette)
	assert.Equal(t, Vignette, vig.Vignette.Gradient)
	assert.Equal(t, 120, vig.LocalFrame)

	sfx := fs.Layers[3]
	require.NotNil(t, sfx.Audio)
	assert.Equal(t, 105, sfx.From)
	assert.Equal(t, 15, sfx.LocalFrame)
	assert.InDelta(t, 0.5, sfx.Audio.Offset, 1e-9)
	assert.Equal(t, manifest.DefaultSfxVolume, sfx.Audio.Volume)

	sub := fs.Layers[4]
	require.NotNil(t, sub.Subtitle)
	assert.Equal(t, manifest.TextPop, sub.Subtitle.Animation)
	assert.Equal(t, "#6366f1", sub.Subtitle.Style.Shadows[0].Color)
}

func TestRenderFrameOutOfRange(t *testing.T) {
	tl := timeline.Build(manifest.Example(), 0, 0)

	for _, f := range []int{-5, tl.TotalDurationInFrames(), 10_000} {
		fs := RenderFrame(tl, f)
		assert.Empty(t, fs.Layers, "frame %d", f)
		assert.Equal(t, Background, fs.Background)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	m := manifest.Example()
	m.Segments[0].Transition = manifest.TransitionWipeLeft
	m.Segments[1].Transition = manifest.TransitionBlur
	m.Segments[1].TextAnimation = manifest.TextWave
	m.Segments[2].KenBurns = manifest.KenBurnsPanDown

	for _, f := range []int{0, 7, 89, 90, 95, 150, 299} {
		a, err := json.Marshal(Render(m, f, 0, 0))
		require.NoError(t, err)
		b, err := json.Marshal(Render(m, f, 0, 0))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), "frame %d", f)
	}
}

func TestRenderOutOfOrder(t *testing.T) {
	tl := timeline.Build(manifest.Example(), 0, 0)

	forward := make([]FrameState, 0, 40)
	for f := 80; f < 120; f++ {
		forward = append(forward, RenderFrame(tl, f))
	}
	for f := 119; f >= 80; f-- {
		assert.Equal(t, forward[f-80], RenderFrame(tl, f))
	}
}
