package services

import (
	"context"
	"poi-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossCheckAgreesWithDirectRoute(t *testing.T) {
	svc := newTestService(t)

	pairs := []NodePair{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "A"},
		{Source: "X", Target: "poi:Cafe"},
		{Source: "A", Target: "Q"},
		{Source: "Y", Target: "Y"},
	}

	results, err := CrossCheck(context.Background(), svc, pairs)
	require.NoError(t, err)
	require.Len(t, results, len(pairs))

	for _, r := range results {
		assert.True(t, r.Match, "%s->%s: direct=%v ch=%v", r.Source, r.Target, r.DirectCost, r.CHCost)
	}
	assert.Equal(t, 8.0, results[0].DirectCost)
	assert.Equal(t, -1.0, results[3].DirectCost)
	assert.Equal(t, -1.0, results[3].CHCost)
}

func TestCrossCheckUnknownNode(t *testing.T) {
	svc := newTestService(t)

	_, err := CrossCheck(context.Background(), svc, []NodePair{{Source: "A", Target: "ghost"}})
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
}
