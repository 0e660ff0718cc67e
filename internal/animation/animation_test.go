package animation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		in   []float64
		out  []float64
		opts Options
		want float64
	}{
		{"inside", 5, []float64{0, 10}, []float64{0, 1}, Options{}, 0.5},
		{"descending output", 2.5, []float64{0, 10}, []float64{1, 0}, Options{}, 0.75},
		{"extend right", 20, []float64{0, 10}, []float64{0, 1}, Options{}, 2},
		{"extend left", -10, []float64{0, 10}, []float64{0, 1}, Options{}, -1},
		{"clamp right", 20, []float64{0, 10}, []float64{0, 1}, Clamped(nil), 1},
		{"clamp left", -3, []float64{0, 10}, []float64{0, 1}, Clamped(nil), 0},
		{"identity left", -3, []float64{0, 10}, []float64{0, 1}, Options{Left: Identity}, -3},
		{"multi segment", 15, []float64{0, 10, 20}, []float64{0, 1, 3}, Options{}, 2},
		{"multi segment clamp", 50, []float64{0, 10, 20}, []float64{0, 1, 3}, Clamped(nil), 3},
		{"flat output", 7, []float64{0, 10}, []float64{4, 4}, Options{}, 4},
		{"zero width", 5, []float64{5, 5}, []float64{0, 1}, Options{}, 1},
		{"malformed", 5, []float64{0}, []float64{7}, Options{}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpolate(tt.x, tt.in, tt.out, tt.opts)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestInterpolateEased(t *testing.T) {
	// Cubic-out reaches the target early, cubic-in late.
	out := Interpolate(5, []float64{0, 10}, []float64{0, 1}, Clamped(CubicOut))
	in := Interpolate(5, []float64{0, 10}, []float64{0, 1}, Clamped(CubicIn))

	assert.InDelta(t, 0.875, out, 1e-9)
	assert.InDelta(t, 0.125, in, 1e-9)

	assert.Equal(t, 0.0, Interpolate(0, []float64{0, 10}, []float64{0, 1}, Clamped(CubicOut)))
	assert.Equal(t, 1.0, Interpolate(10, []float64{0, 10}, []float64{0, 1}, Clamped(CubicOut)))
}

func TestEasings(t *testing.T) {
	for name, e := range map[string]Easing{
		"linear":      Linear,
		"cubic-in":    CubicIn,
		"cubic-out":   CubicOut,
		"back-out":    BackOut15,
		"inout-cubic": InOutCubic,
		"inout-quad":  InOut(Quad),
	} {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, 0, e(0), 1e-9)
			assert.InDelta(t, 1, e(1), 1e-9)
		})
	}

	// Back-out overshoots past 1 before settling.
	peak := 0.0
	for i := 0; i <= 100; i++ {
		peak = math.Max(peak, BackOut15(float64(i)/100))
	}
	assert.Greater(t, peak, 1.0)
}

func TestSpring(t *testing.T) {
	assert.Equal(t, 0.0, Spring(-5, 30, PopSpring))
	assert.Equal(t, 0.0, Spring(0, 30, PopSpring))

	first := Spring(1, 30, PopSpring)
	require.Greater(t, first, 0.0)

	// Under-damped: overshoots 1 and settles back.
	peak := 0.0
	for f := 0; f < 30; f++ {
		peak = math.Max(peak, Spring(float64(f), 30, PopSpring))
	}
	assert.Greater(t, peak, 1.0)
	assert.InDelta(t, 1.0, Spring(120, 30, PopSpring), 1e-3)

	// Critically damped never overshoots.
	critical := SpringConfig{Damping: 20, Stiffness: 100, Mass: 1}
	for f := 0; f < 60; f++ {
		assert.LessOrEqual(t, Spring(float64(f), 30, critical), 1.0)
	}
}

func TestSpringDeterministic(t *testing.T) {
	// Evaluating out of order must give the same value as in order.
	a := Spring(17, 30, PopSpring)
	_ = Spring(3, 30, PopSpring)
	b := Spring(17, 30, PopSpring)
	assert.Equal(t, a, b)

	assert.Equal(t, Spring(4.5, 30, DefaultSpring), Spring(4.5, 30, SpringConfig{}))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 0.5, Lerp(0, 1, 0.5))
	assert.InDelta(t, 1.05, Lerp(1.0, 1.1, 0.5), 1e-12)
	assert.Equal(t, 0.0, Lerp(5, -5, 0.5))
}
