package overlay

import (
	"math"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/graph"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// star builds a hub with three spokes; hub degree 6, spoke degree 2.
func star(t *testing.T) *graph.Store {
	t.Helper()

	g := graph.New()
	for _, id := range []domain.NodeID{"hub", "s1", "s2", "s3"} {
		require.NoError(t, g.AddNode(id, 14.6, -90.5, domain.KindStreet))
	}
	for _, s := range []domain.NodeID{"s1", "s2", "s3"} {
		require.NoError(t, g.AddEdge("hub", s, 10))
		require.NoError(t, g.AddEdge(s, "hub", 10))
	}
	g.Freeze()
	return g
}

func edgeFrom(t *testing.T, g *graph.Store, from, to domain.NodeID) graph.Edge {
	t.Helper()

	out, err := g.Neighbors(from)
	require.NoError(t, err)
	for _, e := range out {
		if g.Node(e.To).ID == to {
			return e
		}
	}
	t.Fatalf("edge %s->%s not found", from, to)
	return graph.Edge{}
}

func TestIdentity(t *testing.T) {
	g := star(t)
	e := edgeFrom(t, g, "hub", "s1")
	assert.Equal(t, 10.0, Identity{}.Weight(e))
}

func TestAvoidance(t *testing.T) {
	g := star(t)

	_, err := NewAvoidance(g, "ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownNode)

	a, err := NewAvoidance(g, "s1")
	require.NoError(t, err)

	assert.True(t, math.IsInf(a.Weight(edgeFrom(t, g, "hub", "s1")), 1))
	assert.True(t, math.IsInf(a.Weight(edgeFrom(t, g, "s1", "hub")), 1))
	assert.Equal(t, 10.0, a.Weight(edgeFrom(t, g, "hub", "s2")))
}

func TestIsPeak(t *testing.T) {
	peak := map[int]bool{7: true, 8: true, 9: true, 16: true, 17: true, 18: true, 19: true}
	for h := 0; h <= 23; h++ {
		assert.Equal(t, peak[h], IsPeak(h), "IsPeak(%d)", h)
	}
}

func TestNewTrafficRejectsBadHour(t *testing.T) {
	g := star(t)
	for _, h := range []int{-1, 24, 100} {
		_, err := NewTraffic(g, h)
		assert.ErrorIs(t, err, domain.ErrInvalidParameter, "hour %d", h)
	}
}

func TestTrafficOffPeakMatchesIdentity(t *testing.T) {
	g := star(t)
	tr, err := NewTraffic(g, 3)
	require.NoError(t, err)
	assert.False(t, tr.Peak())

	for _, e := range g.Out(0) {
		assert.Equal(t, Identity{}.Weight(e), tr.Weight(e))
	}
}

func TestTrafficPeakFactors(t *testing.T) {
	g := star(t)
	tr, err := NewTraffic(g, 17)
	require.NoError(t, err)
	require.True(t, tr.Peak())

	hub, _ := g.Lookup("hub")
	s1, _ := g.Lookup("s1")

	// Max degree node gets the minimum factor, min degree node the maximum.
	assert.InDelta(t, 1.0, tr.Factor(hub), 1e-12)
	assert.InDelta(t, 4.0, tr.Factor(s1), 1e-12)

	assert.InDelta(t, 10.0, tr.Weight(edgeFrom(t, g, "hub", "s1")), 1e-12)
	assert.InDelta(t, 40.0, tr.Weight(edgeFrom(t, g, "s1", "hub")), 1e-12)

	for i := 0; i < g.Len(); i++ {
		f := tr.Factor(graph.Index(i))
		assert.GreaterOrEqual(t, f, 1.0)
		assert.LessOrEqual(t, f, 4.0)
	}
}

func TestTrafficUniformDegree(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode("a", 0, 0, domain.KindStreet))
	require.NoError(t, g.AddNode("b", 0, 0, domain.KindStreet))
	require.NoError(t, g.AddEdge("a", "b", 2))
	require.NoError(t, g.AddEdge("b", "a", 2))
	g.Freeze()

	tr, err := NewTraffic(g, 8)
	require.NoError(t, err)

	a, _ := g.Lookup("a")
	assert.Equal(t, 4.0, tr.Factor(a))
	assert.Equal(t, 8.0, tr.Weight(g.Out(a)[0]))
}
