// Package renderer turns a timeline and a frame number into the visual
// state of every mounted layer. Nothing here keeps state between calls:
// any frame can be rendered on its own, in any order.
package renderer

import (
	"fmt"

	"github.com/ivlev/devlog2video/internal/config"
	"github.com/ivlev/devlog2video/internal/effects"
	"github.com/ivlev/devlog2video/internal/manifest"
)

// FitMode is how media fills the canvas.
type FitMode string

const (
	FitCover FitMode = "cover"
	FitCrop  FitMode = "crop"
)

// Fit positions the media element inside its container.
type Fit struct {
	Mode FitMode `json:"mode"`
	// OffsetX/OffsetY shift the source, in px. Always ≤ 0 for crops.
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// ObjectPosition renders the offset the way a CSS object-position does.
func (f Fit) ObjectPosition() string {
	if f.Mode != FitCrop {
		return "50% 50%"
	}
	return fmt.Sprintf("%gpx %gpx", f.OffsetX, f.OffsetY)
}

// SegmentState is the media element of one segment at one frame.
type SegmentState struct {
	Media   string `json:"media"`
	IsImage bool   `json:"isImage"`
	// MediaStartFrame and SourceFrame are zero for images.
	MediaStartFrame int `json:"mediaStartFrame"`
	SourceFrame     int `json:"sourceFrame"`

	Ops       effects.Transform `json:"ops,omitempty"`
	Transform string            `json:"transform"`
	Opacity   float64           `json:"opacity"`
	ClipInset effects.Inset     `json:"clipInset"`
	Clip      string            `json:"clip"`
	Blur      float64           `json:"blur"`
	Filter    string            `json:"filter,omitempty"`
	Fit       Fit               `json:"fit"`
}

// RenderSegment evaluates one segment at a frame relative to its start.
func RenderSegment(seg manifest.Segment, p config.SegmentParams, frame float64) SegmentState {
	st := effects.Evaluate(effects.Chain(seg), frame, p)

	out := SegmentState{
		Media:     seg.Media,
		IsImage:   seg.MediaIsImage(),
		Ops:       st.Transform,
		Transform: st.Transform.String(),
		Opacity:   st.Opacity,
		ClipInset: st.Clip,
		Clip:      st.Clip.String(),
		Blur:      st.Blur,
		Fit:       fitFor(seg.Crop, p),
	}

	if seg.TransitionType() == manifest.TransitionBlur {
		out.Filter = fmt.Sprintf("blur(%gpx)", st.Blur)
	}

	if !out.IsImage {
		fps := p.FPS
		if fps <= 0 {
			fps = manifest.DefaultFPS
		}
		out.MediaStartFrame = seg.MediaStartFrame(fps)
		out.SourceFrame = out.MediaStartFrame + int(frame)
	}

	return out
}

// fitFor places a cropped source at (-x,-y) inside a fixed box, or fills
// the canvas with cover scaling when there is no crop.
func fitFor(crop *manifest.Crop, p config.SegmentParams) Fit {
	w, h := float64(p.Width), float64(p.Height)
	if crop == nil {
		return Fit{Mode: FitCover, Width: w, Height: h}
	}

	f := Fit{
		Mode:    FitCrop,
		OffsetX: -crop.X,
		OffsetY: -crop.Y,
		Width:   crop.Width,
		Height:  crop.Height,
	}
	if f.Width <= 0 {
		f.Width = w
	}
	if f.Height <= 0 {
		f.Height = h
	}
	if f.OffsetX == 0 {
		f.OffsetX = 0 // normalise -0
	}
	if f.OffsetY == 0 {
		f.OffsetY = 0
	}
	return f
}
