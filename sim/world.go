package sim

import (
	"fmt"
	"math/rand"

	"github.com/olivierh59500/ventrella/cluster"
	"github.com/olivierh59500/ventrella/config"
	"github.com/olivierh59500/ventrella/physics"
)

// rule is a config.Rule resolved to cluster indices.
type rule struct {
	source, target int
	gain           float64
	maxDistance    float64
}

// World is the whole simulation state: the clusters, the rules that move
// them and the pause flag.
type World struct {
	Paused bool
	Mode   physics.Mode

	populations []config.ClusterConfig
	clusters    []*cluster.Cluster
	rules       []rule
	rng         *rand.Rand
}

// New allocates every cluster of cfg inside b. cfg must be valid.
func New(cfg *config.Config, rng *rand.Rand, b cluster.Bounds) (*World, error) {
	index := make(map[string]int, len(cfg.Clusters))
	for i, c := range cfg.Clusters {
		index[c.Name] = i
	}

	w := &World{
		Paused:      cfg.StartPaused,
		populations: append([]config.ClusterConfig(nil), cfg.Clusters...),
		rng:         rng,
	}
	for _, r := range cfg.Rules {
		src, ok := index[r.Source]
		if !ok {
			return nil, fmt.Errorf("rule source %q: %w", r.Source, config.ErrInvalid)
		}
		dst, ok := index[r.Target]
		if !ok {
			return nil, fmt.Errorf("rule target %q: %w", r.Target, config.ErrInvalid)
		}
		w.rules = append(w.rules, rule{src, dst, r.Gain, r.MaxDistance})
	}

	w.SetMode(cfg.Mode())

	if err := w.Reset(b); err != nil {
		return nil, err
	}
	return w, nil
}

// Reset replaces every cluster with a freshly allocated one. On failure the
// current clusters are left untouched and the error wraps
// cluster.ErrAllocation; callers treat it as fatal.
func (w *World) Reset(b cluster.Bounds) error {
	fresh := make([]*cluster.Cluster, len(w.populations))
	for i, p := range w.populations {
		c, err := cluster.Allocate(w.rng, p.Count, p.Name, p.Color, b)
		if err != nil {
			for _, done := range fresh[:i] {
				cluster.Release(done)
			}
			return err
		}
		fresh[i] = c
	}

	for _, old := range w.clusters {
		cluster.Release(old)
	}
	w.clusters = fresh
	return nil
}

// Step advances the world by dt seconds. It does nothing while paused.
func (w *World) Step(dt float64, b cluster.Bounds) {
	if w.Paused {
		return
	}
	for _, r := range w.rules {
		physics.ApplyMode(w.Mode, w.clusters[r.source], w.clusters[r.target], r.gain*dt, r.maxDistance, b)
	}
}

// TogglePause flips the pause flag and returns the new value.
func (w *World) TogglePause() bool {
	w.Paused = !w.Paused
	return w.Paused
}

// SetMode selects the integration mode used by the next Step.
func (w *World) SetMode(m physics.Mode) {
	w.Mode = m
}

// CycleMode switches to the next integration mode and returns it.
func (w *World) CycleMode() physics.Mode {
	w.SetMode(w.Mode.Next())
	return w.Mode
}

// Clusters returns the live clusters in draw order.
func (w *World) Clusters() []*cluster.Cluster {
	return w.clusters
}

// Cluster returns the live cluster with the given name, or nil.
func (w *World) Cluster(name string) *cluster.Cluster {
	for _, c := range w.clusters {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Particles returns the total particle count.
func (w *World) Particles() int {
	n := 0
	for _, c := range w.clusters {
		n += c.Len()
	}
	return n
}
