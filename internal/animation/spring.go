package animation

import "math"

// SpringConfig describes a damped harmonic oscillator.
type SpringConfig struct {
	Damping   float64
	Stiffness float64
	Mass      float64
}

// DefaultSpring matches the defaults of the rendering framework the
// manifests were originally authored for.
var DefaultSpring = SpringConfig{Damping: 10, Stiffness: 100, Mass: 1}

// PopSpring is the bouncy config used for word-pop subtitles.
var PopSpring = SpringConfig{Damping: 12, Stiffness: 200, Mass: 0.5}

// maxStepMs caps a single integration step, same as a browser frame budget.
const maxStepMs = 64.0

type springNode struct {
	lastTimestamp float64 // ms
	current       float64
	velocity      float64
}

// Spring returns the position of a spring released at frame 0 from 0 towards 1.
// The state is advanced once per whole frame, so the result for a given
// (frame, fps, cfg) is always the same and never depends on earlier calls.
// Negative frames return 0.
func Spring(frame, fps float64, cfg SpringConfig) float64 {
	if cfg.Damping <= 0 || cfg.Stiffness <= 0 || cfg.Mass <= 0 {
		cfg = DefaultSpring
	}
	if fps <= 0 {
		return 1
	}

	f := math.Max(0, frame)
	whole := math.Floor(f)
	rest := f - whole

	node := springNode{}
	for i := 0.0; i <= whole; i++ {
		at := i
		if i == whole {
			at += rest
		}
		node = advance(node, at/fps*1000, cfg)
	}
	return node.current
}

func advance(n springNode, now float64, cfg SpringConfig) springNode {
	const toValue = 1.0

	dt := math.Min(now-n.lastTimestamp, maxStepMs) / 1000

	c, m, k := cfg.Damping, cfg.Mass, cfg.Stiffness
	v0 := -n.velocity
	x0 := toValue - n.current

	zeta := c / (2 * math.Sqrt(k*m))
	omega0 := math.Sqrt(k / m)

	next := springNode{lastTimestamp: now}

	if zeta < 1 {
		omega1 := omega0 * math.Sqrt(1-zeta*zeta)
		sin1 := math.Sin(omega1 * dt)
		cos1 := math.Cos(omega1 * dt)
		envelope := math.Exp(-zeta * omega0 * dt)

		frag := envelope * (sin1*((v0+zeta*omega0*x0)/omega1) + x0*cos1)
		next.current = toValue - frag
		next.velocity = zeta*omega0*frag - envelope*(cos1*(v0+zeta*omega0*x0)-omega1*x0*sin1)
		return next
	}

	envelope := math.Exp(-omega0 * dt)
	next.current = toValue - envelope*(x0+(v0+omega0*x0)*dt)
	next.velocity = envelope * (v0*(dt*omega0-1) + dt*x0*omega0*omega0)
	return next
}
