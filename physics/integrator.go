package physics

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/ventrella/cluster"
)

// Radius is the margin from each screen edge at which velocity is reflected.
const Radius = 15.0

// Damping is applied to the velocity on every update.
const Damping = 0.5

// Mode selects where the velocity/position update happens inside Apply.
type Mode int

const (
	// PerTarget updates the source particle once per target particle, using
	// the force accumulated so far. This reproduces the reference dynamics.
	PerTarget Mode = iota
	// PerSource is the alternate mode: accumulate over every target, then
	// update once. It changes the visual behavior and is opt-in only.
	PerSource
)

func (m Mode) String() string {
	switch m {
	case PerTarget:
		return "per-target"
	case PerSource:
		return "per-source"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a mode name back to a Mode. The empty string selects PerTarget.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "per-target":
		return PerTarget, nil
	case "per-source":
		return PerSource, nil
	}
	return PerTarget, fmt.Errorf("unknown integration mode %q", s)
}

// Next cycles through the known modes.
func (m Mode) Next() Mode {
	if m == PerTarget {
		return PerSource
	}
	return PerTarget
}

// Apply moves every particle of source along the vectors from the particles of
// target closer than maxDistance, scaled by gain/d: a positive gain pushes
// away, a negative gain pulls in. It runs in PerTarget mode. source and target
// may be the same cluster.
func Apply(source, target *cluster.Cluster, gain, maxDistance float64, b cluster.Bounds) {
	ApplyMode(PerTarget, source, target, gain, maxDistance, b)
}

// ApplyMode is Apply with an explicit integration mode. Only source is
// mutated, and only its positions and velocities.
func ApplyMode(mode Mode, source, target *cluster.Cluster, gain, maxDistance float64, b cluster.Bounds) {
	width, height := float64(b.Width()), float64(b.Height())

	for i := range source.Particles {
		a := &source.Particles[i]
		var f r2.Vec

		for j := range target.Particles {
			// With source == target this reads positions already moved earlier
			// in this call, including a itself when j == i.
			dv := r2.Sub(a.Pos, target.Particles[j].Pos)
			d := r2.Norm(dv)
			if d > 0 && d < maxDistance {
				f = r2.Add(f, r2.Scale(gain/d, dv))
			}

			if mode == PerTarget {
				integrate(a, f, width, height)
			}
		}

		if mode == PerSource {
			integrate(a, f, width, height)
		}
	}
}

// integrate advances one particle by force f and reflects it off the edges.
func integrate(p *cluster.Particle, f r2.Vec, width, height float64) {
	p.Vel = r2.Scale(Damping, r2.Add(p.Vel, f))
	p.Pos = r2.Add(p.Pos, p.Vel)

	if p.Pos.X <= Radius || p.Pos.X >= width-Radius {
		p.Vel.X = -p.Vel.X
	}
	if p.Pos.Y <= Radius || p.Pos.Y >= height-Radius {
		p.Vel.Y = -p.Vel.Y
	}
}
