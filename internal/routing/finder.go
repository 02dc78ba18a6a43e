// Package routing implements single-pair shortest-path search over a frozen graph.Store.
package routing

import (
	"container/heap"
	"context"
	"fmt"
	"math"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/graph"
	"poi-route-service/internal/overlay"
	"slices"
	"sync"
)

// ctx is polled once every this many settled nodes.
const cancelCheckEvery = 1024

type Option func(*Finder)

// WithMaxExpanded caps the number of nodes a single search may settle.
// Zero or negative means unlimited.
func WithMaxExpanded(n int) Option {
	return func(f *Finder) {
		f.maxExpanded = n
	}
}

// Finder runs Dijkstra searches. It is safe for concurrent use.
type Finder struct {
	g           *graph.Store
	maxExpanded int
	pool        sync.Pool
}

// scratch is the per-search working state. Only entries listed in touched
// differ from their initial values, so reset is proportional to the search
// size rather than the graph size.
type scratch struct {
	dist    []float64
	pred    []graph.Index
	predLen []float64
	settled []bool
	touched []graph.Index
	queue   pq
}

// NewFinder freezes g and returns a Finder bound to it.
func NewFinder(g *graph.Store, opts ...Option) *Finder {
	g.Freeze()

	f := &Finder{g: g}
	for _, opt := range opts {
		opt(f)
	}

	n := g.Len()
	f.pool.New = func() any {
		s := &scratch{
			dist:    make([]float64, n),
			pred:    make([]graph.Index, n),
			predLen: make([]float64, n),
			settled: make([]bool, n),
		}
		for i := range s.dist {
			s.dist[i] = math.Inf(1)
			s.pred[i] = -1
		}
		return s
	}
	return f
}

func (f *Finder) Graph() *graph.Store { return f.g }

// Find returns the minimum-cost path from source to target under w.
//
// Edges whose weight is +Inf are never relaxed. Among equal-cost paths the
// result is deterministic: the frontier is ordered by (cost, id rank), and an
// equal-cost relaxation switches to the predecessor with the lower id rank.
func (f *Finder) Find(ctx context.Context, w overlay.Weighter, source, target domain.NodeID) (domain.Path, error) {
	src, ok := f.g.Lookup(source)
	if !ok {
		return domain.Path{}, fmt.Errorf("find path: %w: source %q", domain.ErrUnknownNode, source)
	}
	dst, ok := f.g.Lookup(target)
	if !ok {
		return domain.Path{}, fmt.Errorf("find path: %w: target %q", domain.ErrUnknownNode, target)
	}

	if src == dst {
		return domain.Path{Nodes: []domain.NodeID{source}}, nil
	}

	s := f.pool.Get().(*scratch)
	defer f.release(s)

	s.touch(src)
	s.dist[src] = 0
	heap.Push(&s.queue, item{dist: 0, rank: f.g.Rank(src), node: src})

	expanded := 0
	for s.queue.Len() > 0 {
		it := heap.Pop(&s.queue).(item)
		u := it.node
		if s.settled[u] || it.dist > s.dist[u] {
			continue
		}
		s.settled[u] = true
		if u == dst {
			return f.build(s, src, dst), nil
		}

		expanded++
		if f.maxExpanded > 0 && expanded > f.maxExpanded {
			return domain.Path{}, fmt.Errorf("find path %q->%q: %w: %d nodes", source, target, domain.ErrSearchLimit, f.maxExpanded)
		}
		if expanded%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return domain.Path{}, fmt.Errorf("find path %q->%q: %w", source, target, err)
			}
		}

		du := s.dist[u]
		for _, e := range f.g.Out(u) {
			v := e.To
			if s.settled[v] {
				continue
			}
			wt := w.Weight(e)
			if math.IsInf(wt, 1) {
				continue
			}

			nd := du + wt
			switch {
			case nd < s.dist[v]:
				s.touch(v)
				s.dist[v] = nd
				s.pred[v] = u
				s.predLen[v] = e.Length
				heap.Push(&s.queue, item{dist: nd, rank: f.g.Rank(v), node: v})
			case nd == s.dist[v] && f.g.Rank(u) < f.g.Rank(s.pred[v]):
				s.pred[v] = u
				s.predLen[v] = e.Length
			}
		}
	}

	return domain.Path{}, fmt.Errorf("find path %q->%q: %w", source, target, domain.ErrNoPath)
}

func (f *Finder) build(s *scratch, src, dst graph.Index) domain.Path {
	var (
		nodes  []domain.NodeID
		length float64
	)
	for v := dst; ; v = s.pred[v] {
		nodes = append(nodes, f.g.Node(v).ID)
		if v == src {
			break
		}
		length += s.predLen[v]
	}
	slices.Reverse(nodes)

	return domain.Path{Nodes: nodes, Cost: s.dist[dst], LengthMeters: length}
}

func (s *scratch) touch(i graph.Index) {
	if math.IsInf(s.dist[i], 1) && s.pred[i] < 0 && !s.settled[i] {
		s.touched = append(s.touched, i)
	}
}

func (f *Finder) release(s *scratch) {
	for _, i := range s.touched {
		s.dist[i] = math.Inf(1)
		s.pred[i] = -1
		s.predLen[i] = 0
		s.settled[i] = false
	}
	s.touched = s.touched[:0]
	s.queue = s.queue[:0]
	f.pool.Put(s)
}
