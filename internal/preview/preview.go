// Package preview rasterises frame states into images. It is a reference
// renderer for checking a composition without the browser-based host: it
// reproduces placement, transforms, opacity, clipping, blur, the vignette
// and captions closely enough to judge timing and framing.
package preview

import (
	"context"
	"image"
	"image/color"
	"path"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/ivlev/devlog2video/internal/renderer"
	"github.com/ivlev/devlog2video/internal/source"
	"github.com/ivlev/devlog2video/internal/system"
	"github.com/ivlev/devlog2video/internal/timeline"
)

// Loader opens media assets. *source.Resolver implements it.
type Loader interface {
	Open(asset string, isImage bool) (source.Source, error)
}

var placeholderColor = color.NRGBA{0x1f, 0x1f, 0x24, 0xff}

// Rasterizer draws FrameStates. It is safe for concurrent use as long as
// its Loader is.
type Rasterizer struct {
	Loader Loader
	Logger *zap.Logger
	// Interpolator scales media; ApproxBiLinear unless set.
	Interpolator draw.Interpolator
}

func New(loader Loader, logger *zap.Logger) *Rasterizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rasterizer{Loader: loader, Logger: logger, Interpolator: draw.ApproxBiLinear}
}

// Render draws fs. The returned image comes from the shared buffer pool;
// hand it back with Release once encoded.
func (r *Rasterizer) Render(ctx context.Context, fs renderer.FrameState, fps float64) *image.RGBA {
	rect := image.Rect(0, 0, fs.Width, fs.Height)
	canvas := system.GetImage(rect)

	bg := mustColor(fs.Background, color.NRGBA{0x0a, 0x0a, 0x0a, 0xff})
	draw.Draw(canvas, rect, image.NewUniform(bg), image.Point{}, draw.Src)

	for i := range fs.Layers {
		l := &fs.Layers[i]
		switch l.Kind {
		case timeline.KindMedia:
			if l.Media != nil {
				r.drawMedia(ctx, canvas, l.Media, fps)
			}
		case timeline.KindVignette:
			if l.Vignette != nil {
				vignette(canvas, l.Vignette.Inner, l.Vignette.Alpha)
			}
		case timeline.KindSubtitle:
			if l.Subtitle != nil {
				drawSubtitle(canvas, l.Subtitle)
			}
		}
	}

	return canvas
}

// Release returns a rendered image to the pool.
func Release(img *image.RGBA) {
	system.PutImage(img)
}

func (r *Rasterizer) drawMedia(ctx context.Context, canvas *image.RGBA, m *renderer.SegmentState, fps float64) {
	if m.Opacity <= 0 {
		return
	}

	elem := system.GetImage(canvas.Bounds())
	defer system.PutImage(elem)

	if src := r.load(ctx, m, fps); src != nil {
		placeMedia(elem, src, m.Fit, r.interpolator())
	} else {
		placeholder(elem, m.Media)
	}

	applyClip(elem, m.ClipInset)
	gaussianBlur(elem, m.Blur)
	fade(elem, m.Opacity)

	b := canvas.Bounds()
	aff := affine(m.Ops, float64(b.Dx()), float64(b.Dy()))
	if isIdentity(aff) {
		draw.Draw(canvas, b, elem, image.Point{}, draw.Over)
		return
	}
	r.interpolator().Transform(canvas, aff, elem, elem.Bounds(), draw.Over, nil)
}

func (r *Rasterizer) interpolator() draw.Interpolator {
	if r.Interpolator == nil {
		return draw.ApproxBiLinear
	}
	return r.Interpolator
}

// load fetches the still for the current source frame, or nil when the
// asset cannot be read. Failures are logged and never abort a batch.
func (r *Rasterizer) load(ctx context.Context, m *renderer.SegmentState, fps float64) image.Image {
	if r.Loader == nil {
		return nil
	}
	src, err := r.Loader.Open(m.Media, m.IsImage)
	if err != nil {
		r.Logger.Warn("media unavailable", zap.String("media", m.Media), zap.Error(err))
		return nil
	}

	var at time.Duration
	if !m.IsImage && fps > 0 {
		at = time.Duration(float64(m.SourceFrame) / fps * float64(time.Second))
	}
	img, err := src.Frame(ctx, at)
	if err != nil {
		r.Logger.Warn("media unavailable", zap.String("media", m.Media), zap.Duration("at", at), zap.Error(err))
		return nil
	}
	return img
}

// placeholder fills the layer with a flat tile labelled with the asset name.
func placeholder(elem *image.RGBA, asset string) {
	b := elem.Bounds()
	draw.Draw(elem, b, image.NewUniform(placeholderColor), image.Point{}, draw.Src)

	label := path.Base(asset)
	mask := glyphMask(label)
	if mask == nil {
		return
	}
	const k = 3.0
	w, h := float64(mask.Rect.Dx())*k, float64(mask.Rect.Dy())*k
	x := (float64(b.Dx()) - w) / 2
	y := (float64(b.Dy()) - h) / 2
	dr := image.Rect(int(x), int(y), int(x+w), int(y+h))
	label8 := tint(mask, color.NRGBA{0x9a, 0x9a, 0xa5, 0xff}, 1)
	draw.NearestNeighbor.Scale(elem, dr, label8, label8.Rect, draw.Over, nil)
}
