// Package subtitle computes the per-frame state of an animated caption.
//
// Captions are revealed token by token over the first 70% of their segment.
// Every function here is a pure function of the local frame, so any frame
// can be evaluated on its own.
package subtitle

import (
	"math"
	"strings"

	"github.com/ivlev/devlog2video/internal/animation"
	"github.com/ivlev/devlog2video/internal/effects"
	"github.com/ivlev/devlog2video/internal/manifest"
)

const (
	// RevealShare is the part of the segment used to reveal all tokens.
	RevealShare = 0.7
	// MinFramesPerToken keeps fast captions readable.
	MinFramesPerToken = 4
	// FadeFrames is the whole-caption fade length for the fade style.
	FadeFrames = 15
)

// Params describes one caption layer.
type Params struct {
	Text             string
	DurationInFrames int
	FPS              float64
	Position         manifest.SubtitlePosition
	AccentColor      string
	FontFamily       string
	Animation        manifest.TextAnimation
}

// Token is one revealed unit (a word for pop, slide-up and wave).
type Token struct {
	Index      int     `json:"index"`
	Text       string  `json:"text"`
	Delay      int     `json:"delay"`
	Visible    bool    `json:"visible"`
	Opacity    float64 `json:"opacity"`
	Scale      float64 `json:"scale"`
	TranslateY float64 `json:"translateY"` // px
	Transform  string  `json:"transform,omitempty"`
}

// State is the caption at one frame.
type State struct {
	Animation manifest.TextAnimation `json:"animation"`
	// Text is the visible string for typewriter, fade and none.
	Text string `json:"text,omitempty"`
	// Opacity applies to Text.
	Opacity   float64   `json:"opacity"`
	Tokens    []Token   `json:"tokens,omitempty"`
	Placement Placement `json:"placement"`
	Style     TextStyle `json:"style"`
}

// Words splits text on single spaces. Repeated spaces produce empty words,
// which still take a reveal slot.
func Words(text string) []string {
	return strings.Split(text, " ")
}

// RevealDuration is the number of frames over which tokens appear.
func RevealDuration(durationInFrames int) float64 {
	return float64(durationInFrames) * RevealShare
}

// FramesPerToken spreads the reveal evenly but never faster than
// MinFramesPerToken frames per token.
func FramesPerToken(durationInFrames, tokenCount int) int {
	if tokenCount <= 0 {
		return MinFramesPerToken
	}
	per := int(math.Floor(RevealDuration(durationInFrames) / float64(tokenCount)))
	if per < MinFramesPerToken {
		return MinFramesPerToken
	}
	return per
}

// Delays returns the reveal frame of every word in text.
func Delays(text string, durationInFrames int) []int {
	words := Words(text)
	per := FramesPerToken(durationInFrames, len(words))
	delays := make([]int, len(words))
	for i := range words {
		delays[i] = i * per
	}
	return delays
}

// Render evaluates the caption at a frame relative to the segment start.
func Render(p Params, frame float64) State {
	st := State{
		Animation: p.Animation,
		Opacity:   1,
		Placement: PlacementFor(p.Position),
		Style:     StyleFor(p.FontFamily, p.AccentColor),
	}

	switch p.Animation {
	case manifest.TextTypewriter:
		st.Text = typewriter(p.Text, p.DurationInFrames, frame)
	case manifest.TextFade:
		st.Text = p.Text
		st.Opacity = animation.Interpolate(frame, []float64{0, FadeFrames}, []float64{0, 1},
			animation.Options{Right: animation.Clamp})
	case manifest.TextNone:
		st.Text = p.Text
	case manifest.TextSlideUp, manifest.TextWave:
		st.Tokens = words(p, frame)
	default: // pop
		st.Animation = manifest.TextPop
		st.Tokens = words(p, frame)
	}

	return st
}

func words(p Params, frame float64) []Token {
	ws := Words(p.Text)
	per := FramesPerToken(p.DurationInFrames, len(ws))

	tokens := make([]Token, len(ws))
	for i, w := range ws {
		delay := i * per
		tok := Token{Index: i, Text: w, Delay: delay, Scale: 1}
		if frame >= float64(delay) {
			tok.Visible = true
			animateWord(&tok, p, frame-float64(delay))
		}
		tokens[i] = tok
	}
	return tokens
}

// animateWord fills in a visible token; local is frames since its delay.
func animateWord(tok *Token, p Params, local float64) {
	switch p.Animation {
	case manifest.TextSlideUp:
		tok.Opacity = animation.Interpolate(local, []float64{0, 6}, []float64{0, 1}, animation.Clamped(nil))
		tok.TranslateY = animation.Interpolate(local, []float64{0, 8}, []float64{40, 0}, animation.Clamped(animation.CubicOut))
		tok.Transform = effects.Transform{effects.TranslateY(tok.TranslateY, effects.UnitPixel)}.String()

	case manifest.TextWave:
		// Keeps oscillating for as long as the word is on screen.
		tok.TranslateY = math.Sin(local*0.3+float64(tok.Index)*0.5) * 8
		tok.Opacity = animation.Interpolate(local, []float64{0, 4}, []float64{0, 1}, animation.Clamped(nil))
		tok.Transform = effects.Transform{effects.TranslateY(tok.TranslateY, effects.UnitPixel)}.String()

	default: // pop
		tok.Scale = animation.Spring(local, fpsOrDefault(p.FPS), animation.PopSpring)
		tok.Opacity = animation.Interpolate(local, []float64{0, 3}, []float64{0, 1}, animation.Clamped(nil))
		tok.TranslateY = animation.Interpolate(local, []float64{0, 6}, []float64{20, 0}, animation.Clamped(animation.BackOut15))
		tok.Transform = effects.Transform{
			effects.Scale(tok.Scale),
			effects.TranslateY(tok.TranslateY, effects.UnitPixel),
		}.String()
	}
}

func typewriter(text string, durationInFrames int, frame float64) string {
	runes := []rune(text)
	shown := animation.Interpolate(frame,
		[]float64{0, RevealDuration(durationInFrames)}, []float64{0, float64(len(runes))},
		animation.Options{Right: animation.Clamp})

	n := int(math.Floor(shown))
	if n <= 0 {
		return ""
	}
	if n > len(runes) {
		n = len(runes)
	}
	return string(runes[:n])
}

func fpsOrDefault(fps float64) float64 {
	if fps <= 0 {
		return manifest.DefaultFPS
	}
	return fps
}
