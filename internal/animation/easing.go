package animation

// Easing remaps a normalised progress value. Inputs are usually in [0,1]
// but extended interpolation may pass values outside that range.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 {
	return t
}

// Quad is t².
func Quad(t float64) float64 {
	return t * t
}

// Cubic is t³.
func Cubic(t float64) float64 {
	return pow(t, 3)
}

// Back returns an easing that pulls back by s before moving forward.
// Out(Back(s)) overshoots the target instead.
func Back(s float64) Easing {
	return func(t float64) float64 {
		return t * t * ((s+1)*t - s)
	}
}

// In runs an easing forwards. It exists for symmetry with Out/InOut.
func In(e Easing) Easing {
	return e
}

// Out runs an easing backwards: 1 - e(1 - t).
func Out(e Easing) Easing {
	return func(t float64) float64 {
		return 1 - e(1-t)
	}
}

// InOut runs e for the first half and Out(e) for the second.
func InOut(e Easing) Easing {
	return func(t float64) float64 {
		if t < 0.5 {
			return e(t*2) / 2
		}
		return 1 - e((1-t)*2)/2
	}
}

// Common easings used by transitions and subtitles.
var (
	CubicIn   = In(Cubic)
	CubicOut  = Out(Cubic)
	BackOut15 = Out(Back(1.5))
)

// InOutCubic applies smooth easing function
func InOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
