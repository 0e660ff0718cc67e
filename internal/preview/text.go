package preview

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/devlog2video/internal/subtitle"
)

// The preview draws captions with the built-in 7x13 bitmap face scaled
// up to the caption font size. Letter spacing is not reproduced.
var face = basicfont.Face7x13

const faceHeight = 13

type textRun struct {
	text       string
	opacity    float64
	scale      float64
	translateY float64
	visible    bool
	width      float64 // px at caption size, before scale
}

// glyphMask renders text into an alpha mask at native face size.
func glyphMask(text string) *image.Alpha {
	w := font.MeasureString(face, text).Ceil()
	if w <= 0 {
		return nil
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, faceHeight))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)
	return mask
}

// tint turns a mask into a premultiplied image of colour c at opacity a.
func tint(mask *image.Alpha, c color.NRGBA, a float64) *image.RGBA {
	out := image.NewRGBA(mask.Rect)
	k := float64(c.A) / 255 * a
	for i, m := range mask.Pix {
		alpha := float64(m) / 255 * k
		o := i * 4
		out.Pix[o] = uint8(float64(c.R)*alpha + 0.5)
		out.Pix[o+1] = uint8(float64(c.G)*alpha + 0.5)
		out.Pix[o+2] = uint8(float64(c.B)*alpha + 0.5)
		out.Pix[o+3] = uint8(255*alpha + 0.5)
	}
	return out
}

// runs flattens a caption state into drawable word runs.
func runs(st *subtitle.State) []textRun {
	if len(st.Tokens) > 0 {
		out := make([]textRun, 0, len(st.Tokens))
		for _, tok := range st.Tokens {
			out = append(out, textRun{
				text:       tok.Text,
				opacity:    tok.Opacity,
				scale:      tok.Scale,
				translateY: tok.TranslateY,
				visible:    tok.Visible,
			})
		}
		return out
	}

	if st.Text == "" {
		return nil
	}
	words := strings.Split(st.Text, " ")
	out := make([]textRun, 0, len(words))
	for _, w := range words {
		out = append(out, textRun{text: w, opacity: st.Opacity, scale: 1, visible: true})
	}
	return out
}

// wrap greedily breaks runs into lines no wider than maxWidth.
func wrap(rs []textRun, space, maxWidth float64) [][]textRun {
	var lines [][]textRun
	var line []textRun
	width := 0.0

	for _, r := range rs {
		add := r.width
		if len(line) > 0 {
			add += space
		}
		if len(line) > 0 && width+add > maxWidth {
			lines = append(lines, line)
			line, width, add = nil, 0, r.width
		}
		line = append(line, r)
		width += add
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

func lineWidth(line []textRun, space float64) float64 {
	w := 0.0
	for i, r := range line {
		if i > 0 {
			w += space
		}
		w += r.width
	}
	return w
}

// drawSubtitle lays the caption out inside its placement and draws every
// visible word with the accent outline, the drop shadow and the fill.
func drawSubtitle(canvas *image.RGBA, st *subtitle.State) {
	rs := runs(st)
	if len(rs) == 0 {
		return
	}

	style := st.Style
	k := style.FontSize / faceHeight
	advance := float64(font.MeasureString(face, " ").Round()) * k
	for i := range rs {
		rs[i].width = float64(font.MeasureString(face, rs[i].text).Ceil()) * k
	}

	b := canvas.Bounds()
	inset := st.Placement.Inset
	maxWidth := float64(b.Dx()) - 2*inset
	lines := wrap(rs, advance, maxWidth)

	lineHeight := style.FontSize * style.LineHeight
	blockHeight := lineHeight * float64(len(lines))
	top := st.Placement.Y(b.Dy())
	if st.Placement.Anchor == subtitle.AnchorBottom {
		top -= blockHeight
	}

	fill := mustColor(style.Color, color.NRGBA{255, 255, 255, 255})
	for li, line := range lines {
		x := inset + (maxWidth-lineWidth(line, advance))/2
		y := top + float64(li)*lineHeight + (lineHeight-style.FontSize)/2
		for _, r := range line {
			if r.visible && r.opacity > 0 && r.scale > 0 && r.text != "" {
				drawWord(canvas, r, x, y, k, fill, style.Shadows)
			}
			x += r.width + advance
		}
	}
}

func drawWord(canvas *image.RGBA, r textRun, x, y, k float64, fill color.NRGBA, shadows []subtitle.Shadow) {
	mask := glyphMask(r.text)
	if mask == nil {
		return
	}
	mw, mh := float64(mask.Rect.Dx()), float64(mask.Rect.Dy())
	s := k * r.scale
	cx, cy := x+mw*k/2, y+mh*k/2+r.translateY

	place := func(img *image.RGBA, dx, dy float64) {
		m := f64.Aff3{
			s, 0, cx - s*mw/2 + dx*r.scale,
			0, s, cy - s*mh/2 + dy*r.scale,
		}
		draw.NearestNeighbor.Transform(canvas, m, img, img.Rect, draw.Over, nil)
	}

	// Shadows are listed front to back; paint them back to front.
	for i := len(shadows) - 1; i >= 0; i-- {
		sh := shadows[i]
		c := mustColor(sh.Color, color.NRGBA{0, 0, 0, 128})
		if sh.Blur > 0 {
			// soft drop shadow: cheap spread instead of a real blur
			soft := tint(mask, c, r.opacity*0.6)
			for _, off := range [][2]float64{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				place(soft, sh.X+off[0]*sh.Blur/4, sh.Y+off[1]*sh.Blur/4)
			}
			continue
		}
		place(tint(mask, c, r.opacity), sh.X, sh.Y)
	}

	place(tint(mask, fill, r.opacity), 0, 0)
}
