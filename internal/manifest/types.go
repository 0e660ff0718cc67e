package manifest

import "strings"

// Transition is how a segment enters the frame.
type Transition string

const (
	TransitionFade       Transition = "fade"
	TransitionCut        Transition = "cut"
	TransitionSlideLeft  Transition = "slide-left"
	TransitionSlideRight Transition = "slide-right"
	TransitionSlideUp    Transition = "slide-up"
	TransitionSlideDown  Transition = "slide-down"
	TransitionZoomIn     Transition = "zoom-in"
	TransitionZoomOut    Transition = "zoom-out"
	TransitionWipeLeft   Transition = "wipe-left"
	TransitionBlur       Transition = "blur"
)

// KenBurns is the slow camera motion applied for a segment's whole duration.
type KenBurns string

const (
	KenBurnsZoomIn   KenBurns = "zoom-in"
	KenBurnsZoomOut  KenBurns = "zoom-out"
	KenBurnsPanLeft  KenBurns = "pan-left"
	KenBurnsPanRight KenBurns = "pan-right"
	KenBurnsPanUp    KenBurns = "pan-up"
	KenBurnsPanDown  KenBurns = "pan-down"
	KenBurnsNone     KenBurns = "none"
)

// TextAnimation is the subtitle reveal style.
type TextAnimation string

const (
	TextPop        TextAnimation = "pop"
	TextTypewriter TextAnimation = "typewriter"
	TextSlideUp    TextAnimation = "slide-up"
	TextFade       TextAnimation = "fade"
	TextWave       TextAnimation = "wave"
	TextNone       TextAnimation = "none"
)

// SubtitlePosition anchors the subtitle block vertically.
type SubtitlePosition string

const (
	PositionTop    SubtitlePosition = "top"
	PositionCenter SubtitlePosition = "center"
	PositionBottom SubtitlePosition = "bottom"
)

var (
	transitions = []Transition{
		TransitionFade, TransitionCut,
		TransitionSlideLeft, TransitionSlideRight, TransitionSlideUp, TransitionSlideDown,
		TransitionZoomIn, TransitionZoomOut, TransitionWipeLeft, TransitionBlur,
	}
	kenBurnsModes = []KenBurns{
		KenBurnsZoomIn, KenBurnsZoomOut,
		KenBurnsPanLeft, KenBurnsPanRight, KenBurnsPanUp, KenBurnsPanDown,
		KenBurnsNone,
	}
	textAnimations = []TextAnimation{
		TextPop, TextTypewriter, TextSlideUp, TextFade, TextWave, TextNone,
	}
)

// Transitions lists every supported transition.
func Transitions() []Transition { return append([]Transition(nil), transitions...) }

// KenBurnsModes lists every supported camera motion.
func KenBurnsModes() []KenBurns { return append([]KenBurns(nil), kenBurnsModes...) }

// TextAnimations lists every supported subtitle style.
func TextAnimations() []TextAnimation { return append([]TextAnimation(nil), textAnimations...) }

// ParseTransition normalises s. Empty and unknown values become fade.
func ParseTransition(s string) Transition {
	t := Transition(normalize(s))
	if t.Known() {
		return t
	}
	return TransitionFade
}

// Known reports whether t is one of the supported transitions.
func (t Transition) Known() bool {
	for _, v := range transitions {
		if v == t {
			return true
		}
	}
	return false
}

// ParseKenBurns normalises s. Empty becomes zoom-in; unknown values
// become none so an unrecognised motion renders a static shot.
func ParseKenBurns(s string) KenBurns {
	if normalize(s) == "" {
		return KenBurnsZoomIn
	}
	k := KenBurns(normalize(s))
	if k.Known() {
		return k
	}
	return KenBurnsNone
}

func (k KenBurns) Known() bool {
	for _, v := range kenBurnsModes {
		if v == k {
			return true
		}
	}
	return false
}

// ParseTextAnimation normalises s. Empty and unknown values become pop.
func ParseTextAnimation(s string) TextAnimation {
	a := TextAnimation(normalize(s))
	if a.Known() {
		return a
	}
	return TextPop
}

func (a TextAnimation) Known() bool {
	for _, v := range textAnimations {
		if v == a {
			return true
		}
	}
	return false
}

// ParseSubtitlePosition normalises s. Empty and unknown values become bottom.
func ParseSubtitlePosition(s string) SubtitlePosition {
	switch p := SubtitlePosition(normalize(s)); p {
	case PositionTop, PositionCenter, PositionBottom:
		return p
	default:
		return PositionBottom
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
