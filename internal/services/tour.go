package services

import (
	"context"
	"fmt"
	"math"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/platform/obs"
)

// PlanTour orders stops with a greedy nearest-neighbor heuristic over direct
// route costs, starting at start and optionally returning to it.
//
// At each step the cheapest unvisited stop is chosen, ties going to the
// lexically smaller id. It does not attempt global optimization; the result is
// deterministic, not optimal. Duplicate stops and stops equal to start are
// visited once. At most concurrency searches run while the cost matrix is filled.
func PlanTour(ctx context.Context, svc *RouteService, start domain.NodeID, stops []domain.NodeID, returnToStart bool, concurrency int) (plan domain.TourPlan, err error) {
	defer obs.Time(ctx, "route.tour")(&err)

	if start == "" {
		return domain.TourPlan{}, fmt.Errorf("plan tour: %w: start must be non-empty", domain.ErrInvalidParameter)
	}

	ids := []domain.NodeID{start}
	remaining := make(map[domain.NodeID]struct{}, len(stops))
	for _, s := range stops {
		if s == start {
			continue
		}
		if _, ok := remaining[s]; ok {
			continue
		}
		remaining[s] = struct{}{}
		ids = append(ids, s)
	}

	plan = domain.TourPlan{Start: start, Stops: []domain.NodeID{}, Legs: []domain.Path{}}
	if len(remaining) == 0 && !returnToStart {
		if err := svc.requireNodes("plan tour", start); err != nil {
			return domain.TourPlan{}, err
		}
		return plan, nil
	}

	m, err := CostMatrix(ctx, svc, ids, concurrency)
	if err != nil {
		return domain.TourPlan{}, fmt.Errorf("plan tour: %w", err)
	}

	current := start
	for len(remaining) > 0 {
		var (
			best     domain.NodeID
			bestCell MatrixCell
		)
		minCost := math.Inf(1)

		// Greedy step: cheapest reachable stop from the current position.
		for d := range remaining {
			c, _ := m.Cell(current, d)
			if !c.Reachable {
				continue
			}
			if c.Path.Cost < minCost || (c.Path.Cost == minCost && d < best) {
				minCost = c.Path.Cost
				best = d
				bestCell = c
			}
		}

		if best == "" {
			return domain.TourPlan{}, fmt.Errorf("plan tour: %w: no remaining stop reachable from %q", domain.ErrNoPath, current)
		}

		plan.Stops = append(plan.Stops, best)
		plan.AddLeg(bestCell.Path)
		delete(remaining, best)
		current = best
	}

	if returnToStart && current != start {
		c, _ := m.Cell(current, start)
		if !c.Reachable {
			return domain.TourPlan{}, fmt.Errorf("plan tour: return leg %q->%q: %w", current, start, domain.ErrNoPath)
		}
		plan.AddLeg(c.Path)
	}

	return plan, nil
}
