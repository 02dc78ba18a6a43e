package services

import (
	"context"
	"errors"
	"fmt"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/platform/obs"

	"golang.org/x/sync/errgroup"
)

// MatrixCell is the direct route between one ordered pair.
// Reachable is false when no path exists; Path is then empty.
type MatrixCell struct {
	Reachable bool
	Path      domain.Path
}

// Matrix holds direct routes between every ordered pair of IDs.
// Cells[i][j] is the route from IDs[i] to IDs[j].
type Matrix struct {
	IDs   []domain.NodeID
	Cells [][]MatrixCell
}

// Cell returns the cell for from->to and whether both ids are in the matrix.
func (m *Matrix) Cell(from, to domain.NodeID) (MatrixCell, bool) {
	i, j := -1, -1
	for k, id := range m.IDs {
		if id == from {
			i = k
		}
		if id == to {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return MatrixCell{}, false
	}
	return m.Cells[i][j], true
}

// DefaultConcurrency is the number of searches CostMatrix and PlanTour callers
// run in parallel when nothing else is configured.
const DefaultConcurrency = 4

// CostMatrix computes direct routes between all ordered pairs of ids with at most
// concurrency searches in flight. Unreachable pairs are marked, not failed; any
// other error cancels the remaining work.
func CostMatrix(ctx context.Context, svc *RouteService, ids []domain.NodeID, concurrency int) (m *Matrix, err error) {
	defer obs.Time(ctx, "route.matrix")(&err)

	if len(ids) == 0 {
		return nil, fmt.Errorf("cost matrix: %w: no ids", domain.ErrInvalidParameter)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	seen := make(map[domain.NodeID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("cost matrix: %w: duplicate id %q", domain.ErrInvalidParameter, id)
		}
		seen[id] = struct{}{}
	}
	if err := svc.requireNodes("cost matrix", ids...); err != nil {
		return nil, err
	}

	m = &Matrix{
		IDs:   append([]domain.NodeID(nil), ids...),
		Cells: make([][]MatrixCell, len(ids)),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for i := range ids {
		m.Cells[i] = make([]MatrixCell, len(ids))
		row := m.Cells[i]
		i := i

		eg.Go(func() error {
			for j := range ids {
				p, err := svc.finder.Find(egCtx, identity, ids[i], ids[j])
				switch {
				case err == nil:
					row[j] = MatrixCell{Reachable: true, Path: p}
				case errors.Is(err, domain.ErrNoPath):
					row[j] = MatrixCell{}
				default:
					return fmt.Errorf("cost matrix: %q->%q: %w", ids[i], ids[j], err)
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}
