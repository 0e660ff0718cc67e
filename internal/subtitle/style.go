package subtitle

import (
	"fmt"

	"github.com/ivlev/devlog2video/internal/effects"
	"github.com/ivlev/devlog2video/internal/manifest"
)

// HorizontalInset is the left/right margin of the caption block in px.
const HorizontalInset = 50

// Anchor is the edge a caption block is measured from.
type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
)

// Placement positions the caption block on the canvas.
type Placement struct {
	Anchor Anchor       `json:"anchor"`
	Offset float64      `json:"offset"`
	Unit   effects.Unit `json:"unit"`
	Inset  float64      `json:"inset"` // px from the left and right edges
}

// PlacementFor maps a subtitle position to its block placement.
func PlacementFor(pos manifest.SubtitlePosition) Placement {
	switch pos {
	case manifest.PositionTop:
		return Placement{Anchor: AnchorTop, Offset: 120, Unit: effects.UnitPixel, Inset: HorizontalInset}
	case manifest.PositionCenter:
		return Placement{Anchor: AnchorTop, Offset: 45, Unit: effects.UnitPercent, Inset: HorizontalInset}
	default:
		return Placement{Anchor: AnchorBottom, Offset: 180, Unit: effects.UnitPixel, Inset: HorizontalInset}
	}
}

// Y returns the anchor line in px for a canvas of the given height.
func (p Placement) Y(canvasHeight int) float64 {
	off := p.Offset
	if p.Unit == effects.UnitPercent {
		off = float64(canvasHeight) * p.Offset / 100
	}
	if p.Anchor == AnchorBottom {
		return float64(canvasHeight) - off
	}
	return off
}

// Shadow is one text-shadow layer.
type Shadow struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Blur  float64 `json:"blur"`
	Color string  `json:"color"`
}

func (s Shadow) String() string {
	return fmt.Sprintf("%gpx %gpx %gpx %s", s.X, s.Y, s.Blur, s.Color)
}

// TextStyle is the fixed caption look.
type TextStyle struct {
	FontFamily      string   `json:"fontFamily"`
	FontSize        float64  `json:"fontSize"`
	FontWeight      int      `json:"fontWeight"`
	LineHeight      float64  `json:"lineHeight"`
	LetterSpacingEm float64  `json:"letterSpacingEm"`
	Color           string   `json:"color"`
	Align           string   `json:"align"`
	Shadows         []Shadow `json:"shadows"`
}

// OutlineWidth is the offset of the accent outline layers in px.
const OutlineWidth = 3

// StyleFor builds the caption style: bold white text with an accent
// outline made of eight offset shadows and a soft drop shadow.
func StyleFor(fontFamily, accent string) TextStyle {
	if fontFamily == "" {
		fontFamily = manifest.DefaultFontFamily
	}
	if accent == "" {
		accent = manifest.DefaultAccentColor
	}

	o := float64(OutlineWidth)
	offsets := [][2]float64{
		{o, o}, {-o, -o}, {o, -o}, {-o, o},
		{o, 0}, {-o, 0}, {0, o}, {0, -o},
	}
	shadows := make([]Shadow, 0, len(offsets)+1)
	for _, off := range offsets {
		shadows = append(shadows, Shadow{X: off[0], Y: off[1], Color: accent})
	}
	shadows = append(shadows, Shadow{Y: 6, Blur: 20, Color: "rgba(0,0,0,0.5)"})

	return TextStyle{
		FontFamily:      fontFamily,
		FontSize:        58,
		FontWeight:      800,
		LineHeight:      1.2,
		LetterSpacingEm: -0.02,
		Color:           "#ffffff",
		Align:           "center",
		Shadows:         shadows,
	}
}
