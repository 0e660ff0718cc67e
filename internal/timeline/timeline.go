// Package timeline lays a manifest out on the frame axis.
//
// Build is deterministic and cheap; callers rebuild it from the manifest
// instead of caching it across renders.
package timeline

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/ivlev/devlog2video/internal/config"
	"github.com/ivlev/devlog2video/internal/manifest"
)

// LayerKind identifies what a layer mounts.
type LayerKind string

const (
	KindMedia    LayerKind = "media"
	KindVignette LayerKind = "vignette"
	KindVoice    LayerKind = "voice"
	KindSfx      LayerKind = "sfx"
	KindSubtitle LayerKind = "subtitle"
)

// Entry is a segment placed on the timeline.
type Entry struct {
	Index            int              `json:"index"`
	Segment          manifest.Segment `json:"segment"`
	StartFrame       int              `json:"startFrame"`
	DurationInFrames int              `json:"durationInFrames"`
	IsFirst          bool             `json:"isFirst"`
	IsLast           bool             `json:"isLast"`
}

// EndFrame is the first frame after the entry.
func (e Entry) EndFrame() int {
	return e.StartFrame + e.DurationInFrames
}

// Layer is one time-bounded child of the composition.
type Layer struct {
	Kind LayerKind `json:"kind"`
	ID   string    `json:"id"`
	// Segment is the owning entry index, -1 for the vignette.
	Segment          int     `json:"segment"`
	From             int     `json:"from"`
	DurationInFrames int     `json:"durationInFrames"`
	Asset            string  `json:"asset,omitempty"`
	Volume           float64 `json:"volume,omitempty"`
}

// To is the first frame after the layer.
func (l Layer) To() int {
	return l.From + l.DurationInFrames
}

// Contains reports whether frame falls inside [From, To).
func (l Layer) Contains(frame int) bool {
	return frame >= l.From && frame < l.To()
}

// Timeline is a manifest resolved to frame ranges.
type Timeline struct {
	FPS     float64                `json:"fps"`
	Width   int                    `json:"width"`
	Height  int                    `json:"height"`
	Style   manifest.ResolvedStyle `json:"style"`
	Entries []Entry                `json:"entries"`
	// Layers are in compositing order, back to front.
	Layers []Layer `json:"layers"`
	// Upload is passed through untouched.
	Upload *manifest.Upload `json:"upload,omitempty"`
}

// Build lays out m on a width×height canvas. Non-positive canvas sizes
// fall back to the vertical defaults.
func Build(m *manifest.Manifest, width, height int) *Timeline {
	if width <= 0 {
		width = config.DefaultWidth
	}
	if height <= 0 {
		height = config.DefaultHeight
	}

	fps := m.FrameRate()
	tl := &Timeline{
		FPS:    fps,
		Width:  width,
		Height: height,
		Style:  m.ResolvedStyle(),
		Upload: m.Upload,
	}

	start := 0
	for i, seg := range m.Segments {
		dur := seg.DurationInFrames(fps)
		tl.Entries = append(tl.Entries, Entry{
			Index:            i,
			Segment:          seg,
			StartFrame:       start,
			DurationInFrames: dur,
			IsFirst:          i == 0,
			IsLast:           i == len(m.Segments)-1,
		})
		start += dur
	}

	tl.Layers = tl.layout()
	return tl
}

// layout emits media layers, the vignette, then voice, sfx and subtitle
// layers. Absent assets produce no layer at all.
func (t *Timeline) layout() []Layer {
	var layers []Layer

	for _, e := range t.Entries {
		layers = append(layers, Layer{
			Kind:             KindMedia,
			ID:               layerID(KindMedia, e.Index),
			Segment:          e.Index,
			From:             e.StartFrame,
			DurationInFrames: e.DurationInFrames,
			Asset:            e.Segment.Media,
		})
	}

	layers = append(layers, Layer{
		Kind:             KindVignette,
		ID:               string(KindVignette),
		Segment:          -1,
		From:             0,
		DurationInFrames: t.TotalDurationInFrames(),
	})

	for _, e := range t.Entries {
		if e.Segment.Voice == "" {
			continue
		}
		layers = append(layers, Layer{
			Kind:             KindVoice,
			ID:               layerID(KindVoice, e.Index),
			Segment:          e.Index,
			From:             e.StartFrame,
			DurationInFrames: e.DurationInFrames,
			Asset:            e.Segment.Voice,
			Volume:           1,
		})
	}

	for _, e := range t.Entries {
		if l, ok := sfxLayer(e, t.FPS); ok {
			layers = append(layers, l)
		}
	}

	if t.Style.ShowSubtitles {
		for _, e := range t.Entries {
			if e.Segment.Subtitle == "" {
				continue
			}
			layers = append(layers, Layer{
				Kind:             KindSubtitle,
				ID:               layerID(KindSubtitle, e.Index),
				Segment:          e.Index,
				From:             e.StartFrame,
				DurationInFrames: e.DurationInFrames,
			})
		}
	}

	return layers
}

// sfxLayer starts the effect after its offset and ends it with the segment.
func sfxLayer(e Entry, fps float64) (Layer, bool) {
	if e.Segment.Sfx == "" {
		return Layer{}, false
	}
	offset := e.Segment.SfxOffsetFrames(fps)
	if offset >= e.DurationInFrames {
		return Layer{}, false
	}
	return Layer{
		Kind:             KindSfx,
		ID:               layerID(KindSfx, e.Index),
		Segment:          e.Index,
		From:             e.StartFrame + offset,
		DurationInFrames: e.DurationInFrames - offset,
		Asset:            e.Segment.Sfx,
		Volume:           e.Segment.Volume(),
	}, true
}

func layerID(kind LayerKind, index int) string {
	return fmt.Sprintf("%s-%d", kind, index)
}

// TotalDurationInFrames is the sum of every entry's duration.
func (t *Timeline) TotalDurationInFrames() int {
	return lo.SumBy(t.Entries, func(e Entry) int { return e.DurationInFrames })
}

// TotalDurationInFrames computes the output length straight from a manifest.
func TotalDurationInFrames(m *manifest.Manifest) int {
	fps := m.FrameRate()
	return lo.SumBy(m.Segments, func(s manifest.Segment) int { return s.DurationInFrames(fps) })
}

// Seconds is the output length in seconds.
func (t *Timeline) Seconds() float64 {
	return float64(t.TotalDurationInFrames()) / t.FPS
}

// ActiveLayers returns the layers mounted at frame, in compositing order.
func (t *Timeline) ActiveLayers(frame int) []Layer {
	return lo.Filter(t.Layers, func(l Layer, _ int) bool { return l.Contains(frame) })
}

// LayersFor returns every layer owned by the entry at index.
func (t *Timeline) LayersFor(index int) []Layer {
	return lo.Filter(t.Layers, func(l Layer, _ int) bool { return l.Segment == index })
}

// EntryAt returns the entry whose window contains frame.
func (t *Timeline) EntryAt(frame int) (Entry, bool) {
	return lo.Find(t.Entries, func(e Entry) bool {
		return frame >= e.StartFrame && frame < e.EndFrame()
	})
}

// Params builds the per-segment render parameters for entry e.
func (t *Timeline) Params(e Entry) config.SegmentParams {
	return config.SegmentParams{
		Width:            t.Width,
		Height:           t.Height,
		FPS:              t.FPS,
		Index:            e.Index,
		DurationInFrames: e.DurationInFrames,
		IsFirst:          e.IsFirst,
		IsLast:           e.IsLast,
	}
}

// Kinds lists the layer kinds present, in first-seen order.
func (t *Timeline) Kinds(index int) []LayerKind {
	return lo.Uniq(lo.Map(t.LayersFor(index), func(l Layer, _ int) LayerKind { return l.Kind }))
}
