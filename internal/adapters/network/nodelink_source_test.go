package network

import (
	"context"
	"path/filepath"
	"poi-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeLinkSourceLoad(t *testing.T) {
	path := writeTemp(t, "net.json", `{
		"directed": true,
		"multigraph": true,
		"nodes": [
			{"id": 101, "x": -90.50, "y": 14.60},
			{"id": "102", "x": -90.51, "y": 14.61},
			{"id": "poi:Cafe", "x": -90.52, "y": 14.62}
		],
		"links": [
			{"source": 101, "target": "102", "length": 12.5, "name": ["6a Avenida", "Calle Real"], "highway": "residential"},
			{"source": "102", "target": 101, "length": 12.5},
			{"source": "poi:Cafe", "target": "102", "length": 3}
		]
	}`)

	snap, err := NodeLinkSource{Path: path}.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Nodes, 3)
	assert.Equal(t, domain.Node{ID: "101", Lat: 14.60, Lon: -90.50, Kind: domain.KindStreet}, snap.Nodes[0])
	assert.Equal(t, domain.KindPOI, snap.Nodes[2].Kind)

	require.Len(t, snap.Edges, 3)
	assert.Equal(t, domain.EdgeRecord{From: "101", To: "102", Length: 12.5, Name: "6a Avenida;Calle Real", Highway: "residential"}, snap.Edges[0])
	assert.Equal(t, domain.NodeID("poi:Cafe"), snap.Edges[2].From)
}

func TestNodeLinkSourceUndirected(t *testing.T) {
	path := writeTemp(t, "net.json", `{
		"directed": false,
		"nodes": [{"id": 1, "x": 0, "y": 0}, {"id": 2, "x": 0, "y": 0}],
		"edges": [{"source": 1, "target": 2, "length": 4}]
	}`)

	snap, err := NodeLinkSource{Path: path}.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Edges, 2)
	assert.Equal(t, domain.NodeID("2"), snap.Edges[1].From)
	assert.Equal(t, domain.NodeID("1"), snap.Edges[1].To)
}

func TestNodeLinkSourceErrors(t *testing.T) {
	_, err := NodeLinkSource{Path: filepath.Join(t.TempDir(), "nope.json")}.Load(context.Background())
	assert.Error(t, err)

	bad := writeTemp(t, "bad.json", `{"nodes": [`)
	_, err = NodeLinkSource{Path: bad}.Load(context.Background())
	assert.Error(t, err)

	noLen := writeTemp(t, "nolen.json", `{"nodes": [{"id": 1}, {"id": 2}], "links": [{"source": 1, "target": 2}]}`)
	_, err = NodeLinkSource{Path: noLen}.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidWeight)

	noID := writeTemp(t, "noid.json", `{"nodes": [{"x": 1}]}`)
	_, err = NodeLinkSource{Path: noID}.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}
