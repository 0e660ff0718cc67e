package effects

import (
	"fmt"
	"strconv"
	"strings"
)

// OpKind is a single step of a transform chain.
type OpKind string

const (
	OpScale      OpKind = "scale"
	OpTranslateX OpKind = "translateX"
	OpTranslateY OpKind = "translateY"
)

// Unit of a translate op. Percentages are relative to the element box.
type Unit string

const (
	UnitNone    Unit = ""
	UnitPercent Unit = "%"
	UnitPixel   Unit = "px"
)

// Op is one transform function, e.g. translateX(50%).
type Op struct {
	Kind  OpKind  `json:"kind"`
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit,omitempty"`
}

func (o Op) String() string {
	return fmt.Sprintf("%s(%s%s)", o.Kind, formatNumber(o.Value), o.Unit)
}

// Transform is an ordered chain of ops, applied left to right the way
// a CSS transform list is.
type Transform []Op

func Scale(v float64) Op { return Op{Kind: OpScale, Value: v} }

func TranslateX(v float64, u Unit) Op { return Op{Kind: OpTranslateX, Value: v, Unit: u} }

func TranslateY(v float64, u Unit) Op { return Op{Kind: OpTranslateY, Value: v, Unit: u} }

// Then returns t followed by next.
func (t Transform) Then(next Transform) Transform {
	if len(next) == 0 {
		return t
	}
	out := make(Transform, 0, len(t)+len(next))
	out = append(out, t...)
	return append(out, next...)
}

// String renders the chain as a CSS transform value; empty for identity.
func (t Transform) String() string {
	parts := make([]string, len(t))
	for i, op := range t {
		parts[i] = op.String()
	}
	return strings.Join(parts, " ")
}

// Inset clips each edge of the element by a percentage of its size.
type Inset struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

func (i Inset) IsZero() bool {
	return i == Inset{}
}

// String renders the inset as a CSS clip-path, "none" when nothing is clipped.
func (i Inset) String() string {
	if i.IsZero() {
		return "none"
	}
	return fmt.Sprintf("inset(%s %s %s %s)", pct(i.Top), pct(i.Right), pct(i.Bottom), pct(i.Left))
}

func pct(v float64) string {
	if v == 0 {
		return "0"
	}
	return formatNumber(v) + "%"
}

// formatNumber prints the shortest representation that round-trips,
// so 1.1 stays "1.1" and 0 stays "0".
func formatNumber(v float64) string {
	if v == 0 {
		// avoid "-0"
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
