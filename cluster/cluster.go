package cluster

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// MaxParticles caps a single cluster. Requests above it are refused the same
// way an out-of-memory allocation would be.
const MaxParticles = 1 << 20

// ErrAllocation is returned when a cluster's storage cannot be reserved.
var ErrAllocation = errors.New("could not allocate cluster")

// Bounds reports the current drawable area in pixels.
type Bounds interface {
	Width() int
	Height() int
}

// Size is a fixed Bounds.
type Size struct {
	W, H int
}

func (s Size) Width() int  { return s.W }
func (s Size) Height() int { return s.H }

// Particle is one simulated body.
type Particle struct {
	Pos   r2.Vec
	Vel   r2.Vec
	Color color.RGBA
}

// Cluster is a fixed-size population of particles sharing one color.
type Cluster struct {
	Name      string
	Color     color.RGBA
	Particles []Particle
}

// Allocate creates count particles at random integer positions inside b with
// zero velocity.
func Allocate(rng *rand.Rand, count int, name string, col color.RGBA, b Bounds) (*Cluster, error) {
	if count <= 0 || count > MaxParticles {
		return nil, fmt.Errorf("%w %q: count %d out of range (1..%d)", ErrAllocation, name, count, MaxParticles)
	}
	width, height := b.Width(), b.Height()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w %q: empty screen %dx%d", ErrAllocation, name, width, height)
	}

	c := &Cluster{
		Name:      name,
		Color:     col,
		Particles: make([]Particle, count),
	}
	for i := range c.Particles {
		c.Particles[i] = Particle{
			Pos:   r2.Vec{X: float64(rng.Intn(width)), Y: float64(rng.Intn(height))},
			Color: col,
		}
	}
	return c, nil
}

// Release drops the particle buffer.
func Release(c *Cluster) {
	if c == nil {
		return
	}
	c.Particles = nil
}

// Len returns the number of live particles.
func (c *Cluster) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Particles)
}
