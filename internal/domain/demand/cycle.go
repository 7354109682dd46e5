// Package demand advances each location's independent demand cycle and turns
// it into instantaneous per-resource demand.
package demand

import (
	"fmt"
	"hash/fnv"

	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
)

// Cycle is the position of a location inside its phase list
type Cycle struct {
	Phase   int
	Elapsed int
}

// PhaseInfo describes the current phase for display
type PhaseInfo struct {
	Location   string
	Name       string
	Progress   float64
	Multiplier float64
}

// Advance moves the cycle forward one tick, wrapping to the first phase
// after the last one. Locations without phases never move.
func Advance(loc catalog.Location, c Cycle) Cycle {
	if len(loc.Phases) == 0 {
		return c
	}
	c.Elapsed++
	if c.Elapsed >= loc.Phases[c.Phase%len(loc.Phases)].Ticks {
		c.Elapsed = 0
		c.Phase = (c.Phase + 1) % len(loc.Phases)
	}
	return c
}

// Phase returns the current phase name, progress fraction and multiplier
func Phase(loc catalog.Location, c Cycle) PhaseInfo {
	if len(loc.Phases) == 0 {
		return PhaseInfo{Location: loc.ID, Name: "steady", Multiplier: 1}
	}
	ph := loc.Phases[c.Phase%len(loc.Phases)]
	return PhaseInfo{
		Location:   loc.ID,
		Name:       ph.Name,
		Progress:   float64(c.Elapsed) / float64(ph.Ticks),
		Multiplier: ph.Multiplier,
	}
}

// Demand is the quantity of a resource end customers at the location want
// this tick: base x phase multiplier x (1 + noise), noise within +/- variance.
func Demand(loc catalog.Location, c Cycle, resource string, seed int64, tick int) float64 {
	base := loc.BaseDemand[resource]
	if base <= 0 {
		return 0
	}
	d := base * Phase(loc, c).Multiplier * (1 + Noise(seed, loc.ID, resource, tick)*loc.Variance)
	if d < 0 {
		return 0
	}
	return d
}

// Noise returns a value in [-1, 1] that depends only on its arguments, so a
// replay with the same seed sees identical demand.
func Noise(seed int64, location, resource string, tick int) float64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s|%s|%d", seed, location, resource, tick)
	const buckets = 1 << 20
	u := float64(h.Sum64()%buckets) / float64(buckets-1)
	return 2*u - 1
}
