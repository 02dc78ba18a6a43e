// Package overlay turns base edge lengths into query-specific weights.
//
// An overlay is a pure function over a frozen graph.Store. It never copies or
// mutates the store, so any number of overlays can be live at once.
package overlay

import (
	"fmt"
	"math"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/graph"
)

// Weighter maps an edge to its effective weight. +Inf means impassable.
type Weighter interface {
	Weight(e graph.Edge) float64
}

// Identity returns base lengths unchanged.
type Identity struct{}

func (Identity) Weight(e graph.Edge) float64 { return e.Length }

// Avoidance makes every edge touching one node impassable.
type Avoidance struct {
	avoid graph.Index
}

func NewAvoidance(g *graph.Store, id domain.NodeID) (*Avoidance, error) {
	i, ok := g.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("avoidance overlay %q: %w", id, domain.ErrUnknownNode)
	}
	return &Avoidance{avoid: i}, nil
}

func (a *Avoidance) Weight(e graph.Edge) float64 {
	if e.From == a.avoid || e.To == a.avoid {
		return math.Inf(1)
	}
	return e.Length
}

// Peak windows, inclusive on both ends.
var peakWindows = [...][2]int{{7, 9}, {16, 19}}

// IsPeak reports whether hour falls in a morning or evening peak window.
func IsPeak(hour int) bool {
	for _, w := range peakWindows {
		if hour >= w[0] && hour <= w[1] {
			return true
		}
	}
	return false
}

// Traffic scales edge lengths during peak hours by a congestion factor derived
// from the degree of the edge's origin node. Well connected nodes get factors
// close to 1 and sparsely connected ones close to 4. It is a proxy computed from
// topology, not measured traffic data.
//
//	denom     = maxDeg - minDeg (1 when equal)
//	factor(u) = 1 + 3 * (1 - (deg(u) - minDeg) / denom)
//
// Outside peak windows the overlay behaves like Identity.
type Traffic struct {
	g      *graph.Store
	hour   int
	peak   bool
	minDeg float64
	denom  float64
}

func NewTraffic(g *graph.Store, hour int) (*Traffic, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("traffic overlay: %w: hour=%d, want 0..23", domain.ErrInvalidParameter, hour)
	}

	lo, hi := g.DegreeBounds()
	denom := float64(hi - lo)
	if denom == 0 {
		denom = 1
	}

	return &Traffic{
		g:      g,
		hour:   hour,
		peak:   IsPeak(hour),
		minDeg: float64(lo),
		denom:  denom,
	}, nil
}

func (t *Traffic) Hour() int { return t.hour }

func (t *Traffic) Peak() bool { return t.peak }

// Factor is the peak congestion multiplier for node i.
func (t *Traffic) Factor(i graph.Index) float64 {
	norm := (float64(t.g.DegreeAt(i)) - t.minDeg) / t.denom
	return 1 + 3*(1-norm)
}

func (t *Traffic) Weight(e graph.Edge) float64 {
	if !t.peak {
		return e.Length
	}
	return e.Length * t.Factor(e.From)
}
