package animation

// Extrapolate controls what Interpolate returns outside the input range.
type Extrapolate int

const (
	// Extend continues the edge segment linearly.
	Extend Extrapolate = iota
	// Clamp holds the first/last output value.
	Clamp
	// Identity returns the input value unchanged.
	Identity
)

// Options configures a single Interpolate call.
// The zero value extends on both sides without easing.
type Options struct {
	Left   Extrapolate
	Right  Extrapolate
	Easing Easing
}

// Clamped is the common "hold both edges" option set.
func Clamped(easing Easing) Options {
	return Options{Left: Clamp, Right: Clamp, Easing: easing}
}

// Interpolate maps x through the piecewise-linear function defined by the
// inputRange/outputRange breakpoints. inputRange must be non-decreasing and
// both ranges must have the same length (at least 2). Malformed ranges
// return the first output value, or 0 if there is none.
func Interpolate(x float64, inputRange, outputRange []float64, opts Options) float64 {
	if len(inputRange) < 2 || len(inputRange) != len(outputRange) {
		if len(outputRange) > 0 {
			return outputRange[0]
		}
		return 0
	}

	i := findRange(x, inputRange)
	return interpolateSegment(x,
		inputRange[i], inputRange[i+1],
		outputRange[i], outputRange[i+1],
		opts)
}

// findRange returns the index of the breakpoint segment that x belongs to.
// Values beyond either end map to the first or last segment.
func findRange(x float64, inputRange []float64) int {
	i := 1
	for ; i < len(inputRange)-1; i++ {
		if inputRange[i] >= x {
			break
		}
	}
	return i - 1
}

func interpolateSegment(x, inMin, inMax, outMin, outMax float64, opts Options) float64 {
	result := x

	if result < inMin {
		switch opts.Left {
		case Identity:
			return result
		case Clamp:
			result = inMin
		}
	}

	if result > inMax {
		switch opts.Right {
		case Identity:
			return result
		case Clamp:
			result = inMax
		}
	}

	if outMin == outMax {
		return outMin
	}

	if inMax == inMin {
		// Zero-width segment: a step at the breakpoint.
		if result < inMin {
			return outMin
		}
		return outMax
	}

	t := (result - inMin) / (inMax - inMin)
	if opts.Easing != nil {
		t = opts.Easing(t)
	}

	return outMin + t*(outMax-outMin)
}

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
