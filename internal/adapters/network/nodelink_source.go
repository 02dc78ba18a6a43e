package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"poi-route-service/internal/domain"
	"strconv"
	"strings"
)

// NodeLinkSource reads a street network from node-link JSON:
//
//	{"directed": true,
//	 "nodes": [{"id": 123, "x": -90.50, "y": 14.60}],
//	 "links": [{"source": 123, "target": 456, "length": 42.1, "name": "6a Avenida", "highway": "residential"}]}
//
// Ids may be numbers or strings. "edges" is accepted in place of "links". An
// undirected document yields both directions for every link.
type NodeLinkSource struct {
	Path string
}

type nodeLinkDoc struct {
	Directed *bool          `json:"directed"`
	Nodes    []nodeLinkNode `json:"nodes"`
	Links    []nodeLinkEdge `json:"links"`
	Edges    []nodeLinkEdge `json:"edges"`
}

type nodeLinkNode struct {
	ID json.RawMessage `json:"id"`
	X  float64         `json:"x"`
	Y  float64         `json:"y"`
}

type nodeLinkEdge struct {
	Source  json.RawMessage `json:"source"`
	Target  json.RawMessage `json:"target"`
	Length  *float64        `json:"length"`
	Name    json.RawMessage `json:"name"`
	Highway json.RawMessage `json:"highway"`
}

func (s NodeLinkSource) Load(ctx context.Context) (domain.Snapshot, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("node-link source: read %q: %w", s.Path, err)
	}
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("node-link source: %w", err)
	}

	var doc nodeLinkDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Snapshot{}, fmt.Errorf("node-link source: decode %q: %w", s.Path, err)
	}

	links := doc.Links
	if len(links) == 0 {
		links = doc.Edges
	}
	directed := doc.Directed == nil || *doc.Directed

	snap := domain.Snapshot{
		Nodes: make([]domain.Node, 0, len(doc.Nodes)),
		Edges: make([]domain.EdgeRecord, 0, len(links)),
	}
	for i, n := range doc.Nodes {
		id, err := decodeID(n.ID)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("node-link source: node %d: %w", i, err)
		}
		snap.Nodes = append(snap.Nodes, domain.Node{ID: id, Lat: n.Y, Lon: n.X, Kind: kindOf(id)})
	}

	for i, l := range links {
		from, err := decodeID(l.Source)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("node-link source: link %d source: %w", i, err)
		}
		to, err := decodeID(l.Target)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("node-link source: link %d target: %w", i, err)
		}
		if l.Length == nil {
			return domain.Snapshot{}, fmt.Errorf("node-link source: link %d: %w: missing length", i, domain.ErrInvalidWeight)
		}

		e := domain.EdgeRecord{
			From:    from,
			To:      to,
			Length:  *l.Length,
			Name:    decodeLabel(l.Name),
			Highway: decodeLabel(l.Highway),
		}
		snap.Edges = append(snap.Edges, e)
		if !directed {
			e.From, e.To = e.To, e.From
			snap.Edges = append(snap.Edges, e)
		}
	}
	return snap, nil
}

func decodeID(raw json.RawMessage) (domain.NodeID, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("%w: missing id", domain.ErrInvalidParameter)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return domain.NodeID(s), nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("%w: id %s is neither string nor number", domain.ErrInvalidParameter, raw)
	}
	if v, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return domain.StreetNodeID(v), nil
	}
	return domain.NodeID(n.String()), nil
}

// decodeLabel accepts a string or a list of strings, as produced when several
// source ways were merged into one link.
func decodeLabel(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ";")
	}
	return ""
}

func kindOf(id domain.NodeID) domain.NodeKind {
	if id.IsPOI() {
		return domain.KindPOI
	}
	return domain.KindStreet
}
