package services

import (
	"poi-route-service/internal/domain"
	"poi-route-service/internal/graph"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestService builds a small network:
//
//	  X
//	5/ \5
//	A   B--poi:Cafe     Q (isolated)
//	4\ /4
//	  Y
//
// All edges are bidirectional.
func newTestService(t *testing.T, opts ...func(*graph.Store)) *RouteService {
	t.Helper()

	g := graph.New()
	nodes := []struct {
		id       domain.NodeID
		lat, lon float64
	}{
		{"A", 14.600, -90.500},
		{"X", 14.605, -90.495},
		{"Y", 14.595, -90.495},
		{"B", 14.600, -90.490},
		{"Q", 14.700, -90.600},
	}
	for _, n := range nodes {
		require.NoError(t, g.AddNode(n.id, n.lat, n.lon, domain.KindStreet))
	}

	edges := []struct {
		a, b   domain.NodeID
		length float64
	}{
		{"A", "X", 5}, {"X", "B", 5}, {"A", "Y", 4}, {"Y", "B", 4},
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e.a, e.b, e.length))
		require.NoError(t, g.AddEdge(e.b, e.a, e.length))
	}

	_, err := graph.AttachPOI(g, "Cafe", 14.6001, -90.4899)
	require.NoError(t, err)

	for _, opt := range opts {
		opt(g)
	}
	return NewRouteService(g, nil)
}
