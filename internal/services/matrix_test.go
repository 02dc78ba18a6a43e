package services

import (
	"context"
	"poi-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostMatrix(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ids := []domain.NodeID{"A", "B", "Q", "poi:Cafe"}

	m, err := CostMatrix(ctx, svc, ids, 2)
	require.NoError(t, err)

	for i, from := range ids {
		for j, to := range ids {
			cell := m.Cells[i][j]
			if from == to {
				assert.True(t, cell.Reachable, "%s->%s", from, to)
				assert.Zero(t, cell.Path.Cost, "%s->%s", from, to)
				continue
			}

			unreachable := from == "Q" || to == "Q"
			require.Equal(t, !unreachable, cell.Reachable, "%s->%s", from, to)
			if !cell.Reachable {
				assert.Empty(t, cell.Path.Nodes)
				continue
			}

			want, err := svc.DirectRoute(ctx, from, to)
			require.NoError(t, err)
			assert.Equal(t, want, cell.Path, "%s->%s", from, to)
		}
	}

	c, ok := m.Cell("A", "B")
	require.True(t, ok)
	assert.Equal(t, 8.0, c.Path.Cost)

	_, ok = m.Cell("A", "ghost")
	assert.False(t, ok)
}

func TestCostMatrixRejectsBadInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := CostMatrix(ctx, svc, nil, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	_, err = CostMatrix(ctx, svc, []domain.NodeID{"A", "A"}, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	_, err = CostMatrix(ctx, svc, []domain.NodeID{"A", "ghost"}, 2)
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
}
