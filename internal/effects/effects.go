package effects

import (
	"math"

	"github.com/ivlev/devlog2video/internal/animation"
	"github.com/ivlev/devlog2video/internal/config"
	"github.com/ivlev/devlog2video/internal/manifest"
)

// TransitionFrames is the length of the entry and exit animations.
const TransitionFrames = 10

// MaxBlur is the blur radius (px) at the start of a blur transition.
const MaxBlur = 20.0

// State is the visual contribution of one or more effects for a frame.
type State struct {
	Transform Transform
	Opacity   float64
	Clip      Inset
	Blur      float64
}

// Identity leaves the element untouched.
func Identity() State {
	return State{Opacity: 1}
}

// Compose chains next after s: transforms concatenate, the lowest opacity
// wins, the strongest blur wins and a non-empty clip replaces an empty one.
func (s State) Compose(next State) State {
	out := State{
		Transform: s.Transform.Then(next.Transform),
		Opacity:   math.Min(s.Opacity, next.Opacity),
		Clip:      s.Clip,
		Blur:      math.Max(s.Blur, next.Blur),
	}
	if out.Clip.IsZero() {
		out.Clip = next.Clip
	}
	return out
}

// Effect contributes to a segment's visual state at a given local frame.
type Effect interface {
	Apply(frame float64, p config.SegmentParams) State
}

// EntryProgress eases 0→1 over the first TransitionFrames frames.
// The first segment of a timeline is always fully entered.
func EntryProgress(frame float64, isFirst bool) float64 {
	if isFirst {
		return 1
	}
	return animation.Interpolate(frame,
		[]float64{0, TransitionFrames}, []float64{0, 1},
		animation.Clamped(animation.CubicOut))
}

// ExitProgress eases 1→0 over the last TransitionFrames frames.
// The last segment of a timeline never exits.
func ExitProgress(frame float64, durationInFrames int, isLast bool) float64 {
	if isLast {
		return 1
	}
	end := float64(durationInFrames)
	return animation.Interpolate(frame,
		[]float64{end - TransitionFrames, end}, []float64{1, 0},
		animation.Clamped(animation.CubicIn))
}

// KenBurnsProgress is the linear 0→1 progress over the whole segment.
func KenBurnsProgress(frame float64, durationInFrames int) float64 {
	return animation.Interpolate(frame,
		[]float64{0, float64(durationInFrames)}, []float64{0, 1},
		animation.Options{Right: animation.Clamp})
}

// TransitionEffect is the entry animation of a segment.
type TransitionEffect struct {
	Kind manifest.Transition
}

func (e TransitionEffect) Apply(frame float64, p config.SegmentParams) State {
	return TransitionState(e.Kind, EntryProgress(frame, p.IsFirst))
}

// TransitionState maps entry progress to the transition's visual state.
// Unknown kinds behave like fade.
func TransitionState(kind manifest.Transition, progress float64) State {
	st := Identity()
	rest := 1 - progress

	switch kind {
	case manifest.TransitionCut:
		// no-op
	case manifest.TransitionSlideLeft:
		st.Transform = Transform{TranslateX(rest*100, UnitPercent)}
	case manifest.TransitionSlideRight:
		st.Transform = Transform{TranslateX(rest*-100, UnitPercent)}
	case manifest.TransitionSlideUp:
		st.Transform = Transform{TranslateY(rest*100, UnitPercent)}
	case manifest.TransitionSlideDown:
		st.Transform = Transform{TranslateY(rest*-100, UnitPercent)}
	case manifest.TransitionZoomIn:
		st.Transform = Transform{Scale(animation.Lerp(0.5, 1, progress))}
		st.Opacity = progress
	case manifest.TransitionZoomOut:
		st.Transform = Transform{Scale(animation.Lerp(1.5, 1, progress))}
		st.Opacity = progress
	case manifest.TransitionWipeLeft:
		st.Clip = Inset{Right: rest * 100}
	case manifest.TransitionBlur:
		st.Opacity = progress
		st.Blur = rest * MaxBlur
	default: // fade
		st.Opacity = progress
	}

	return st
}

// ExitEffect fades a segment out at its end.
type ExitEffect struct{}

func (ExitEffect) Apply(frame float64, p config.SegmentParams) State {
	st := Identity()
	st.Opacity = ExitProgress(frame, p.DurationInFrames, p.IsLast)
	return st
}

// KenBurnsEffect is the continuous camera motion of a segment.
type KenBurnsEffect struct {
	Kind manifest.KenBurns
}

func (e KenBurnsEffect) Apply(frame float64, p config.SegmentParams) State {
	st := Identity()
	st.Transform = KenBurnsTransform(e.Kind, KenBurnsProgress(frame, p.DurationInFrames))
	return st
}

// KenBurnsTransform maps segment progress to the camera transform.
// Unknown kinds are static.
func KenBurnsTransform(kind manifest.KenBurns, t float64) Transform {
	switch kind {
	case manifest.KenBurnsZoomIn:
		return Transform{Scale(animation.Lerp(1.0, 1.1, t))}
	case manifest.KenBurnsZoomOut:
		return Transform{Scale(animation.Lerp(1.1, 1.0, t))}
	case manifest.KenBurnsPanLeft:
		return Transform{Scale(1.1), TranslateX(animation.Lerp(5, -5, t), UnitPercent)}
	case manifest.KenBurnsPanRight:
		return Transform{Scale(1.1), TranslateX(animation.Lerp(-5, 5, t), UnitPercent)}
	case manifest.KenBurnsPanUp:
		return Transform{Scale(1.1), TranslateY(animation.Lerp(5, -5, t), UnitPercent)}
	case manifest.KenBurnsPanDown:
		return Transform{Scale(1.1), TranslateY(animation.Lerp(-5, 5, t), UnitPercent)}
	default: // none
		return nil
	}
}

// Chain returns the effects for a segment in application order:
// entry transition, Ken Burns, exit fade.
func Chain(seg manifest.Segment) []Effect {
	return []Effect{
		TransitionEffect{Kind: seg.TransitionType()},
		KenBurnsEffect{Kind: seg.KenBurnsType()},
		ExitEffect{},
	}
}

// Evaluate applies every effect in order for one frame.
func Evaluate(chain []Effect, frame float64, p config.SegmentParams) State {
	st := Identity()
	for _, e := range chain {
		st = st.Compose(e.Apply(frame, p))
	}
	return st
}
