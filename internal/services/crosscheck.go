package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/graph"

	"github.com/LdDl/ch"
)

// CrossCheckTolerance is the largest cost difference, in meters, treated as agreement.
const CrossCheckTolerance = 1e-6

type NodePair struct {
	Source domain.NodeID
	Target domain.NodeID
}

// CrossCheckResult compares one pair. Costs are -1 when that side found no path.
type CrossCheckResult struct {
	NodePair
	DirectCost float64
	CHCost     float64
	Match      bool
}

// CrossCheck contracts the graph under base lengths with a contraction hierarchy
// and compares its shortest-path costs with DirectRoute for every pair.
// A pair matches when both sides agree on reachability and their costs are
// within CrossCheckTolerance.
func CrossCheck(ctx context.Context, svc *RouteService, pairs []NodePair) ([]CrossCheckResult, error) {
	for _, p := range pairs {
		if err := svc.requireNodes("cross check", p.Source, p.Target); err != nil {
			return nil, err
		}
	}

	h, err := buildHierarchy(svc.g)
	if err != nil {
		return nil, fmt.Errorf("cross check: %w", err)
	}

	out := make([]CrossCheckResult, 0, len(pairs))
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("cross check: %w", err)
		}

		res := CrossCheckResult{NodePair: p, DirectCost: -1, CHCost: -1}

		path, err := svc.DirectRoute(ctx, p.Source, p.Target)
		switch {
		case err == nil:
			res.DirectCost = path.Cost
		case errors.Is(err, domain.ErrNoPath):
		default:
			return nil, fmt.Errorf("cross check: %w", err)
		}

		if p.Source == p.Target {
			res.CHCost = 0
		} else {
			src, _ := svc.g.Lookup(p.Source)
			dst, _ := svc.g.Lookup(p.Target)
			if cost, _ := h.ShortestPath(int64(src), int64(dst)); cost >= 0 {
				res.CHCost = cost
			}
		}

		res.Match = (res.DirectCost < 0) == (res.CHCost < 0) &&
			math.Abs(res.DirectCost-res.CHCost) <= CrossCheckTolerance
		out = append(out, res)
	}
	return out, nil
}

// buildHierarchy keeps the cheapest of any parallel edges and drops self loops,
// neither of which can shorten a path.
func buildHierarchy(g *graph.Store) (*ch.Graph, error) {
	h := &ch.Graph{}
	for i := 0; i < g.Len(); i++ {
		if err := h.CreateVertex(int64(i)); err != nil {
			return nil, fmt.Errorf("build hierarchy: vertex %d: %w", i, err)
		}
	}

	for i := 0; i < g.Len(); i++ {
		cheapest := make(map[graph.Index]float64)
		var order []graph.Index
		for _, e := range g.Out(graph.Index(i)) {
			if e.To == e.From {
				continue
			}
			w, seen := cheapest[e.To]
			if !seen {
				order = append(order, e.To)
			}
			if !seen || e.Length < w {
				cheapest[e.To] = e.Length
			}
		}
		for _, to := range order {
			if err := h.AddEdge(int64(i), int64(to), cheapest[to]); err != nil {
				return nil, fmt.Errorf("build hierarchy: edge %d->%d: %w", i, to, err)
			}
		}
	}

	h.PrepareContractionHierarchies()
	return h, nil
}
