package routing

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/graph"
	"poi-route-service/internal/overlay"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type edge struct {
	from, to domain.NodeID
	length   float64
}

func build(t *testing.T, nodes []domain.NodeID, edges []edge) *graph.Store {
	t.Helper()

	g := graph.New()
	for _, id := range nodes {
		require.NoError(t, g.AddNode(id, 14.6, -90.5, domain.KindStreet))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e.from, e.to, e.length))
	}
	return g
}

func both(a, b domain.NodeID, l float64) []edge {
	return []edge{{a, b, l}, {b, a, l}}
}

// A-X-B costs 10, A-Y-B costs 8.
func axyb(t *testing.T) *graph.Store {
	t.Helper()

	var edges []edge
	edges = append(edges, both("A", "X", 5)...)
	edges = append(edges, both("X", "B", 5)...)
	edges = append(edges, both("A", "Y", 4)...)
	edges = append(edges, both("Y", "B", 4)...)
	return build(t, []domain.NodeID{"A", "X", "Y", "B"}, edges)
}

func TestFindScenario(t *testing.T) {
	g := axyb(t)
	f := NewFinder(g)
	ctx := context.Background()

	p, err := f.Find(ctx, overlay.Identity{}, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{"A", "Y", "B"}, p.Nodes)
	assert.Equal(t, 8.0, p.Cost)
	assert.Equal(t, 8.0, p.LengthMeters)

	avoid, err := overlay.NewAvoidance(g, "Y")
	require.NoError(t, err)
	p, err = f.Find(ctx, avoid, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{"A", "X", "B"}, p.Nodes)
	assert.Equal(t, 10.0, p.Cost)
}

func TestFindSameNode(t *testing.T) {
	f := NewFinder(axyb(t))

	p, err := f.Find(context.Background(), overlay.Identity{}, "X", "X")
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{"X"}, p.Nodes)
	assert.Zero(t, p.Cost)
}

func TestFindUnknownEndpoints(t *testing.T) {
	f := NewFinder(axyb(t))
	ctx := context.Background()

	_, err := f.Find(ctx, overlay.Identity{}, "nope", "B")
	assert.ErrorIs(t, err, domain.ErrUnknownNode)

	_, err = f.Find(ctx, overlay.Identity{}, "A", "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
}

func TestFindNoPath(t *testing.T) {
	g := build(t, []domain.NodeID{"A", "B", "C"}, []edge{{"A", "B", 1}, {"C", "A", 1}})
	f := NewFinder(g)

	_, err := f.Find(context.Background(), overlay.Identity{}, "B", "A")
	assert.ErrorIs(t, err, domain.ErrNoPath)

	_, err = f.Find(context.Background(), overlay.Identity{}, "A", "C")
	assert.ErrorIs(t, err, domain.ErrNoPath)

	// Avoiding the only cut vertex disconnects the endpoints.
	chain := build(t, []domain.NodeID{"A", "M", "B"}, append(both("A", "M", 1), both("M", "B", 1)...))
	avoid, err := overlay.NewAvoidance(chain, "M")
	require.NoError(t, err)
	_, err = NewFinder(chain).Find(context.Background(), avoid, "A", "B")
	assert.ErrorIs(t, err, domain.ErrNoPath)
}

func TestFindTieBreakIsOrderIndependent(t *testing.T) {
	nodes := []domain.NodeID{"S", "A", "B", "T"}
	forward := []edge{{"S", "A", 1}, {"S", "B", 1}, {"A", "T", 1}, {"B", "T", 1}}
	reversed := []edge{{"B", "T", 1}, {"A", "T", 1}, {"S", "B", 1}, {"S", "A", 1}}

	for name, edges := range map[string][]edge{"forward": forward, "reversed": reversed} {
		t.Run(name, func(t *testing.T) {
			f := NewFinder(build(t, nodes, edges))
			p, err := f.Find(context.Background(), overlay.Identity{}, "S", "T")
			require.NoError(t, err)
			assert.Equal(t, []domain.NodeID{"S", "A", "T"}, p.Nodes)
		})
	}
}

func TestFindEqualCostRelaxationPrefersLowerRank(t *testing.T) {
	// Z is settled before A reaches T, yet the equal-cost route through A wins.
	nodes := []domain.NodeID{"S", "Z", "A", "T"}
	edges := []edge{{"S", "Z", 1}, {"Z", "T", 2}, {"S", "A", 2}, {"A", "T", 1}}

	p, err := NewFinder(build(t, nodes, edges)).Find(context.Background(), overlay.Identity{}, "S", "T")
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{"S", "A", "T"}, p.Nodes)
	assert.Equal(t, 3.0, p.Cost)
}

func TestFindParallelEdgesUseCheapest(t *testing.T) {
	g := build(t, []domain.NodeID{"A", "B"}, []edge{{"A", "B", 9}, {"A", "B", 2}})

	p, err := NewFinder(g).Find(context.Background(), overlay.Identity{}, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 2.0, p.Cost)
	assert.Equal(t, 2.0, p.LengthMeters)
}

func TestFindTrafficKeepsBaseLength(t *testing.T) {
	g := axyb(t)
	f := NewFinder(g)

	tr, err := overlay.NewTraffic(g, 8)
	require.NoError(t, err)

	p, err := f.Find(context.Background(), tr, "A", "B")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.Cost, p.LengthMeters)
	assert.Equal(t, 8.0, p.LengthMeters)
}

func TestFindSearchLimit(t *testing.T) {
	nodes := make([]domain.NodeID, 10)
	var edges []edge
	for i := range nodes {
		nodes[i] = domain.NodeID(fmt.Sprintf("n%02d", i))
		if i > 0 {
			edges = append(edges, edge{nodes[i-1], nodes[i], 1})
		}
	}
	g := build(t, nodes, edges)

	_, err := NewFinder(g, WithMaxExpanded(3)).Find(context.Background(), overlay.Identity{}, "n00", "n09")
	assert.ErrorIs(t, err, domain.ErrSearchLimit)

	p, err := NewFinder(g, WithMaxExpanded(100)).Find(context.Background(), overlay.Identity{}, "n00", "n09")
	require.NoError(t, err)
	assert.Len(t, p.Nodes, 10)
}

func TestFindHonoursCancellation(t *testing.T) {
	const n = 3 * cancelCheckEvery
	nodes := make([]domain.NodeID, n)
	var edges []edge
	for i := range nodes {
		nodes[i] = domain.NodeID(fmt.Sprintf("n%05d", i))
		if i > 0 {
			edges = append(edges, edge{nodes[i-1], nodes[i], 1})
		}
	}
	f := NewFinder(build(t, nodes, edges))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Find(ctx, overlay.Identity{}, nodes[0], nodes[n-1])
	assert.ErrorIs(t, err, context.Canceled)
}

// bruteForce enumerates every simple path and returns the minimum cost.
func bruteForce(g *graph.Store, src, dst graph.Index) float64 {
	best := math.Inf(1)
	seen := make([]bool, g.Len())

	var walk func(u graph.Index, cost float64)
	walk = func(u graph.Index, cost float64) {
		if cost >= best {
			return
		}
		if u == dst {
			best = cost
			return
		}
		seen[u] = true
		for _, e := range g.Out(u) {
			if !seen[e.To] {
				walk(e.To, cost+e.Length)
			}
		}
		seen[u] = false
	}
	walk(src, 0)
	return best
}

func TestFindMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 30; round++ {
		const n = 8
		g := graph.New()
		for i := 0; i < n; i++ {
			require.NoError(t, g.AddNode(domain.StreetNodeID(int64(i)), 0, 0, domain.KindStreet))
		}
		for k := 0; k < 18; k++ {
			u, v := rng.Intn(n), rng.Intn(n)
			l := float64(rng.Intn(20))
			require.NoError(t, g.AddEdge(domain.StreetNodeID(int64(u)), domain.StreetNodeID(int64(v)), l))
		}
		f := NewFinder(g)

		for s := 0; s < n; s++ {
			for d := 0; d < n; d++ {
				if s == d {
					continue
				}
				src, dst := domain.StreetNodeID(int64(s)), domain.StreetNodeID(int64(d))
				want := bruteForce(g, graph.Index(s), graph.Index(d))

				p, err := f.Find(context.Background(), overlay.Identity{}, src, dst)
				if math.IsInf(want, 1) {
					require.ErrorIs(t, err, domain.ErrNoPath, "round %d %s->%s", round, src, dst)
					continue
				}
				require.NoError(t, err, "round %d %s->%s", round, src, dst)
				assert.Equal(t, want, p.Cost, "round %d %s->%s", round, src, dst)
				assert.Equal(t, src, p.Nodes[0])
				assert.Equal(t, dst, p.Nodes[len(p.Nodes)-1])
			}
		}
	}
}

func TestFindConcurrentQueriesAreDeterministic(t *testing.T) {
	g := axyb(t)
	f := NewFinder(g)
	want, err := f.Find(context.Background(), overlay.Identity{}, "A", "B")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := f.Find(context.Background(), overlay.Identity{}, "A", "B")
			if err != nil {
				errs <- err
				return
			}
			if fmt.Sprint(p.Nodes) != fmt.Sprint(want.Nodes) || p.Cost != want.Cost {
				errs <- fmt.Errorf("got %v cost %v, want %v cost %v", p.Nodes, p.Cost, want.Nodes, want.Cost)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
