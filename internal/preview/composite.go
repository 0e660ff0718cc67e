package preview

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ivlev/devlog2video/internal/effects"
	"github.com/ivlev/devlog2video/internal/renderer"
)

// placeMedia draws src into the element layer according to fit.
func placeMedia(elem *image.RGBA, src image.Image, fit renderer.Fit, interp draw.Interpolator) {
	sb := src.Bounds()
	if sb.Empty() {
		return
	}

	if fit.Mode == renderer.FitCrop {
		box := image.Rect(0, 0, int(math.Round(fit.Width)), int(math.Round(fit.Height))).Intersect(elem.Bounds())
		sp := sb.Min.Add(image.Pt(int(math.Round(-fit.OffsetX)), int(math.Round(-fit.OffsetY))))
		draw.Draw(elem, box, src, sp, draw.Src)
		return
	}

	// cover: fill the box, keep aspect, overflow is cut
	w, h := float64(elem.Bounds().Dx()), float64(elem.Bounds().Dy())
	iw, ih := float64(sb.Dx()), float64(sb.Dy())
	scale := math.Max(w/iw, h/ih)
	dw, dh := iw*scale, ih*scale
	x0, y0 := (w-dw)/2, (h-dh)/2
	dr := image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x0+dw)), int(math.Ceil(y0+dh)))
	interp.Scale(elem, dr, src, sb, draw.Src, nil)
}

// applyClip clears everything outside the inset, in % of the layer size.
func applyClip(elem *image.RGBA, in effects.Inset) {
	if in.IsZero() {
		return
	}
	b := elem.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	keep := image.Rect(
		b.Min.X+int(math.Round(in.Left/100*w)),
		b.Min.Y+int(math.Round(in.Top/100*h)),
		b.Max.X-int(math.Round(in.Right/100*w)),
		b.Min.Y+int(math.Round((100-in.Bottom)/100*h)),
	)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := elem.Pix[elem.PixOffset(b.Min.X, y):elem.PixOffset(b.Min.X, y)+b.Dx()*4]
		if y < keep.Min.Y || y >= keep.Max.Y {
			clear(row)
			continue
		}
		if left := keep.Min.X - b.Min.X; left > 0 {
			clear(row[:min(left, b.Dx())*4])
		}
		if right := keep.Max.X - b.Min.X; right < b.Dx() {
			clear(row[max(right, 0)*4:])
		}
	}
}

// fade scales the premultiplied layer by a.
func fade(elem *image.RGBA, a float64) {
	if a >= 1 {
		return
	}
	if a <= 0 {
		clear(elem.Pix)
		return
	}
	k := uint32(a*256 + 0.5)
	for i, v := range elem.Pix {
		elem.Pix[i] = uint8(uint32(v) * k >> 8)
	}
}

// blurRadius converts a CSS blur (gaussian σ in px) into the radius of
// three stacked box blurs with the same variance.
func blurRadius(sigma float64) int {
	if sigma <= 0 {
		return 0
	}
	w := math.Sqrt(4*sigma*sigma + 1)
	return int(math.Round((w - 1) / 2))
}

// gaussianBlur approximates blur(sigma) with three box passes.
func gaussianBlur(elem *image.RGBA, sigma float64) {
	r := blurRadius(sigma)
	if r <= 0 {
		return
	}
	tmp := make([]uint8, len(elem.Pix))
	for i := 0; i < 3; i++ {
		boxPass(elem.Pix, tmp, elem.Rect.Dx(), elem.Rect.Dy(), elem.Stride, r, true)
		boxPass(tmp, elem.Pix, elem.Rect.Dx(), elem.Rect.Dy(), elem.Stride, r, false)
	}
}

// boxPass averages 2r+1 pixels along one axis with a running sum.
// Edges repeat the border pixel.
func boxPass(src, dst []uint8, w, h, stride, r int, horizontal bool) {
	lines, length := h, w
	if !horizontal {
		lines, length = w, h
	}
	at := func(line, i int) int {
		if horizontal {
			return line*stride + i*4
		}
		return i*stride + line*4
	}
	clampIdx := func(i int) int {
		if i < 0 {
			return 0
		}
		if i >= length {
			return length - 1
		}
		return i
	}
	n := uint32(2*r + 1)

	for line := 0; line < lines; line++ {
		var sum [4]uint32
		for i := -r; i <= r; i++ {
			o := at(line, clampIdx(i))
			for c := 0; c < 4; c++ {
				sum[c] += uint32(src[o+c])
			}
		}
		for i := 0; i < length; i++ {
			o := at(line, i)
			for c := 0; c < 4; c++ {
				dst[o+c] = uint8((sum[c] + n/2) / n)
			}
			out := at(line, clampIdx(i-r))
			in := at(line, clampIdx(i+r+1))
			for c := 0; c < 4; c++ {
				sum[c] += uint32(src[in+c])
				sum[c] -= uint32(src[out+c])
			}
		}
	}
}

// affine builds the element→canvas matrix for a CSS transform list
// applied about the centre of a w×h box.
func affine(t effects.Transform, w, h float64) f64.Aff3 {
	// a b c / d e f
	m := [6]float64{1, 0, 0, 0, 1, 0}
	mul := func(o [6]float64) {
		m = [6]float64{
			m[0]*o[0] + m[1]*o[3], m[0]*o[1] + m[1]*o[4], m[0]*o[2] + m[1]*o[5] + m[2],
			m[3]*o[0] + m[4]*o[3], m[3]*o[1] + m[4]*o[4], m[3]*o[2] + m[4]*o[5] + m[5],
		}
	}

	for _, op := range t {
		switch op.Kind {
		case effects.OpScale:
			mul([6]float64{op.Value, 0, 0, 0, op.Value, 0})
		case effects.OpTranslateX:
			mul([6]float64{1, 0, length(op, w), 0, 1, 0})
		case effects.OpTranslateY:
			mul([6]float64{1, 0, 0, 0, 1, length(op, h)})
		}
	}

	cx, cy := w/2, h/2
	return f64.Aff3{
		m[0], m[1], m[2] + cx - m[0]*cx - m[1]*cy,
		m[3], m[4], m[5] + cy - m[3]*cx - m[4]*cy,
	}
}

func length(op effects.Op, box float64) float64 {
	if op.Unit == effects.UnitPercent {
		return op.Value / 100 * box
	}
	return op.Value
}

func isIdentity(m f64.Aff3) bool {
	return m == f64.Aff3{1, 0, 0, 0, 1, 0}
}

// vignette darkens towards the corners of an elliptical gradient sized to
// the farthest corner, starting at inner and reaching alpha at the edge.
func vignette(canvas *image.RGBA, inner, alpha float64) {
	b := canvas.Bounds()
	hw, hh := float64(b.Dx())/2, float64(b.Dy())/2
	span := 1 - inner
	if span <= 0 || alpha <= 0 {
		return
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		dy := (float64(y-b.Min.Y) + 0.5 - hh) / hh
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := (float64(x-b.Min.X) + 0.5 - hw) / hw
			d := math.Sqrt(dx*dx+dy*dy) / math.Sqrt2
			if d <= inner {
				continue
			}
			a := math.Min(1, (d-inner)/span) * alpha
			k := uint32((1-a)*256 + 0.5)
			o := canvas.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				canvas.Pix[o+c] = uint8(uint32(canvas.Pix[o+c]) * k >> 8)
			}
		}
	}
}
