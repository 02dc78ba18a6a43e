package services

import (
	"context"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/graph"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanTour(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	plan, err := PlanTour(ctx, svc, "A", []domain.NodeID{"poi:Cafe", "B", "X", "B"}, false, DefaultConcurrency)
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{"X", "B", "poi:Cafe"}, plan.Stops)
	require.Len(t, plan.Legs, 3)

	cafe, _ := svc.Graph().POI("Cafe")
	wantCost := 5 + 5 + cafe.AttachmentMeters
	assert.InDelta(t, wantCost, plan.TotalCost, 1e-9)

	back, err := PlanTour(ctx, svc, "A", []domain.NodeID{"poi:Cafe", "B", "X"}, true, 1)
	require.NoError(t, err)
	require.Len(t, back.Legs, 4)
	last := back.Legs[3]
	assert.Equal(t, domain.NodeID("A"), last.Nodes[len(last.Nodes)-1])
	assert.InDelta(t, wantCost+cafe.AttachmentMeters+8, back.TotalCost, 1e-9)
}

func TestPlanTourTieGoesToLexicalID(t *testing.T) {
	// W hangs off A at the same cost as Y.
	addW := func(g *graph.Store) {
		require.NoError(t, g.AddNode("W", 14.600, -90.505, domain.KindStreet))
		require.NoError(t, g.AddEdge("A", "W", 4))
		require.NoError(t, g.AddEdge("W", "A", 4))
	}
	svc := newTestService(t, addW)

	plan, err := PlanTour(context.Background(), svc, "A", []domain.NodeID{"Y", "W"}, false, DefaultConcurrency)
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{"W", "Y"}, plan.Stops)
	assert.Equal(t, 12.0, plan.TotalCost)
}

func TestPlanTourEdgeCases(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	plan, err := PlanTour(ctx, svc, "A", nil, false, DefaultConcurrency)
	require.NoError(t, err)
	assert.Empty(t, plan.Stops)
	assert.Zero(t, plan.TotalCost)

	_, err = PlanTour(ctx, svc, "A", []domain.NodeID{"B", "Q"}, false, DefaultConcurrency)
	assert.ErrorIs(t, err, domain.ErrNoPath)
	_, err = PlanTour(ctx, svc, "ghost", []domain.NodeID{"B"}, false, DefaultConcurrency)
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
	_, err = PlanTour(ctx, svc, "", []domain.NodeID{"B"}, false, DefaultConcurrency)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}
