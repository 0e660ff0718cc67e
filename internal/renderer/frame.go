package renderer

import (
	"github.com/ivlev/devlog2video/internal/manifest"
	"github.com/ivlev/devlog2video/internal/subtitle"
	"github.com/ivlev/devlog2video/internal/timeline"
)

// Background fills the canvas behind all media.
const Background = "#0a0a0a"

// Vignette darkens the edges above all media.
const Vignette = "radial-gradient(ellipse at center, transparent 50%, rgba(0,0,0,0.4) 100%)"

// VignetteState is the static overlay.
type VignetteState struct {
	Gradient string `json:"gradient"`
	// Inner is where darkening starts, as a fraction of the radius.
	Inner float64 `json:"inner"`
	// Alpha is the black opacity reached at the edge.
	Alpha float64 `json:"alpha"`
}

// AudioState is a mounted voice or sfx track.
type AudioState struct {
	Src    string  `json:"src"`
	Volume float64 `json:"volume"`
	// Offset is the playback position in seconds within the source.
	Offset float64 `json:"offset"`
}

// LayerState is one mounted layer at one frame.
type LayerState struct {
	Kind             timeline.LayerKind `json:"kind"`
	ID               string             `json:"id"`
	Segment          int                `json:"segment"`
	From             int                `json:"from"`
	DurationInFrames int                `json:"durationInFrames"`
	LocalFrame       int                `json:"localFrame"`

	Media    *SegmentState   `json:"media,omitempty"`
	Audio    *AudioState     `json:"audio,omitempty"`
	Subtitle *subtitle.State `json:"subtitle,omitempty"`
	Vignette *VignetteState  `json:"vignette,omitempty"`
}

// FrameState is everything needed to draw one output frame.
type FrameState struct {
	Frame      int          `json:"frame"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Background string       `json:"background"`
	Layers     []LayerState `json:"layers"`
}

// RenderFrame evaluates every layer mounted at frame. Frames outside the
// timeline render just the background.
func RenderFrame(tl *timeline.Timeline, frame int) FrameState {
	fs := FrameState{
		Frame:      frame,
		Width:      tl.Width,
		Height:     tl.Height,
		Background: Background,
		Layers:     []LayerState{},
	}

	for _, l := range tl.ActiveLayers(frame) {
		fs.Layers = append(fs.Layers, renderLayer(tl, l, frame))
	}
	return fs
}

// Render builds the timeline for m and evaluates one frame.
func Render(m *manifest.Manifest, frame, width, height int) FrameState {
	return RenderFrame(timeline.Build(m, width, height), frame)
}

func renderLayer(tl *timeline.Timeline, l timeline.Layer, frame int) LayerState {
	local := frame - l.From
	ls := LayerState{
		Kind:             l.Kind,
		ID:               l.ID,
		Segment:          l.Segment,
		From:             l.From,
		DurationInFrames: l.DurationInFrames,
		LocalFrame:       local,
	}

	if l.Kind == timeline.KindVignette {
		ls.Vignette = &VignetteState{Gradient: Vignette, Inner: 0.5, Alpha: 0.4}
		return ls
	}

	e := tl.Entries[l.Segment]
	switch l.Kind {
	case timeline.KindMedia:
		st := RenderSegment(e.Segment, tl.Params(e), float64(local))
		ls.Media = &st

	case timeline.KindVoice, timeline.KindSfx:
		ls.Audio = &AudioState{
			Src:    l.Asset,
			Volume: l.Volume,
			Offset: float64(local) / tl.FPS,
		}

	case timeline.KindSubtitle:
		st := subtitle.Render(subtitle.Params{
			Text:             e.Segment.Subtitle,
			DurationInFrames: e.DurationInFrames,
			FPS:              tl.FPS,
			Position:         tl.Style.SubtitlePosition,
			AccentColor:      tl.Style.AccentColor,
			FontFamily:       tl.Style.FontFamily,
			Animation:        e.Segment.TextAnimationType(),
		}, float64(local))
		ls.Subtitle = &st
	}

	return ls
}
