// Package graph holds the street network: an arena of nodes addressed by dense
// indices, array-backed adjacency, and the POIs attached to it.
//
// A Store has two phases. During build/attach it accepts AddNode, AddEdge and
// POI attachment. Freeze moves it into the serving phase, after which it is
// read-only and may be shared by any number of concurrent queries without locking.
package graph

import (
	"encoding/binary"
	"fmt"
	"math"
	"poi-route-service/internal/domain"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Index is the dense position of a node in the store's arena.
type Index int32

// Edge is a directed edge between two arena positions.
type Edge struct {
	From   Index
	To     Index
	Length float64
}

// edgeAttrs holds optional source attributes, kept out of Edge so the search
// loop only touches the fields it needs.
type edgeAttrs struct {
	name    string
	highway string
}

type Store struct {
	nodes []domain.Node
	index map[domain.NodeID]Index
	out   [][]Edge
	attrs [][]edgeAttrs
	inDeg []int
	edges int

	pois map[string]domain.POI

	frozen bool
	rank   []int32
	minDeg int
	maxDeg int
}

func New() *Store {
	return &Store{
		index: make(map[domain.NodeID]Index),
		pois:  make(map[string]domain.POI),
	}
}

// FromSnapshot rebuilds a store from a snapshot, preserving node and edge order.
// POI nodes and their edges come back as they were saved; the POI records are
// re-registered without repeating the nearest-node search.
func FromSnapshot(s domain.Snapshot) (*Store, error) {
	g := New()
	for _, n := range s.Nodes {
		if err := g.AddNode(n.ID, n.Lat, n.Lon, n.Kind); err != nil {
			return nil, fmt.Errorf("graph from snapshot: %w", err)
		}
	}
	for _, e := range s.Edges {
		if err := g.AddEdgeRecord(e); err != nil {
			return nil, fmt.Errorf("graph from snapshot: %w", err)
		}
	}
	for _, p := range s.POIs {
		if err := g.registerPOI(p); err != nil {
			return nil, fmt.Errorf("graph from snapshot: %w", err)
		}
	}
	return g, nil
}

// AddNode inserts a node. Identifiers are unique within a store.
func (g *Store) AddNode(id domain.NodeID, lat, lon float64, kind domain.NodeKind) error {
	if g.frozen {
		return fmt.Errorf("add node %q: %w", id, domain.ErrGraphFrozen)
	}
	if strings.TrimSpace(string(id)) == "" {
		return fmt.Errorf("add node: %w: id must be non-empty", domain.ErrInvalidParameter)
	}
	if err := (domain.Coordinates{Lon: lon, Lat: lat}).Validate(); err != nil {
		return fmt.Errorf("add node %q: %w", id, err)
	}
	if _, ok := g.index[id]; ok {
		return fmt.Errorf("add node %q: %w", id, domain.ErrDuplicateNode)
	}
	if len(g.nodes) == math.MaxInt32 {
		return fmt.Errorf("add node %q: arena is full", id)
	}

	g.index[id] = Index(len(g.nodes))
	g.nodes = append(g.nodes, domain.Node{ID: id, Lat: lat, Lon: lon, Kind: kind})
	g.out = append(g.out, nil)
	g.attrs = append(g.attrs, nil)
	g.inDeg = append(g.inDeg, 0)
	return nil
}

// AddEdge inserts a directed edge with a base length in meters.
func (g *Store) AddEdge(from, to domain.NodeID, length float64) error {
	return g.AddEdgeRecord(domain.EdgeRecord{From: from, To: to, Length: length})
}

// AddEdgeRecord inserts a directed edge together with its optional attributes.
func (g *Store) AddEdgeRecord(e domain.EdgeRecord) error {
	if g.frozen {
		return fmt.Errorf("add edge %q->%q: %w", e.From, e.To, domain.ErrGraphFrozen)
	}
	u, ok := g.index[e.From]
	if !ok {
		return fmt.Errorf("add edge %q->%q: %w: %q", e.From, e.To, domain.ErrUnknownNode, e.From)
	}
	v, ok := g.index[e.To]
	if !ok {
		return fmt.Errorf("add edge %q->%q: %w: %q", e.From, e.To, domain.ErrUnknownNode, e.To)
	}
	if e.Length < 0 || math.IsNaN(e.Length) || math.IsInf(e.Length, 0) {
		return fmt.Errorf("add edge %q->%q: %w: length=%v", e.From, e.To, domain.ErrInvalidWeight, e.Length)
	}

	g.out[u] = append(g.out[u], Edge{From: u, To: v, Length: e.Length})
	g.attrs[u] = append(g.attrs[u], edgeAttrs{name: e.Name, highway: e.Highway})
	g.inDeg[v]++
	g.edges++
	return nil
}

// Neighbors returns the outgoing edges of id. The slice is shared; callers must not modify it.
func (g *Store) Neighbors(id domain.NodeID) ([]Edge, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("neighbors %q: %w", id, domain.ErrUnknownNode)
	}
	return g.out[i], nil
}

// Out is the index-level form of Neighbors used on the search hot path.
func (g *Store) Out(i Index) []Edge { return g.out[i] }

func (g *Store) NodeExists(id domain.NodeID) bool {
	_, ok := g.index[id]
	return ok
}

func (g *Store) Lookup(id domain.NodeID) (Index, bool) {
	i, ok := g.index[id]
	return i, ok
}

func (g *Store) Node(i Index) domain.Node { return g.nodes[i] }

func (g *Store) Len() int { return len(g.nodes) }

func (g *Store) EdgeCount() int { return g.edges }

// Degree returns in-degree + out-degree. A self loop counts twice.
func (g *Store) Degree(id domain.NodeID) (int, error) {
	i, ok := g.index[id]
	if !ok {
		return 0, fmt.Errorf("degree %q: %w", id, domain.ErrUnknownNode)
	}
	return g.DegreeAt(i), nil
}

func (g *Store) DegreeAt(i Index) int { return len(g.out[i]) + g.inDeg[i] }

// DegreeBounds returns the minimum and maximum degree over the whole graph.
// An empty graph reports (0, 0).
func (g *Store) DegreeBounds() (int, int) {
	if g.frozen {
		return g.minDeg, g.maxDeg
	}
	return g.degreeBounds()
}

func (g *Store) degreeBounds() (int, int) {
	if len(g.nodes) == 0 {
		return 0, 0
	}
	lo, hi := math.MaxInt, 0
	for i := range g.nodes {
		d := g.DegreeAt(Index(i))
		lo = min(lo, d)
		hi = max(hi, d)
	}
	return lo, hi
}

// Rank returns the position of the node id in lexical order.
// Only available once the store is frozen.
func (g *Store) Rank(i Index) int32 { return g.rank[i] }

// StreetNodes calls fn for every street node in arena order until fn returns false.
func (g *Store) StreetNodes(fn func(Index, domain.Node) bool) {
	for i, n := range g.nodes {
		if n.Kind != domain.KindStreet {
			continue
		}
		if !fn(Index(i), n) {
			return
		}
	}
}

func (g *Store) POI(name string) (domain.POI, bool) {
	p, ok := g.pois[name]
	return p, ok
}

// POIs returns the attached POIs sorted by name.
func (g *Store) POIs() []domain.POI {
	out := make([]domain.POI, 0, len(g.pois))
	for _, p := range g.pois {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b domain.POI) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (g *Store) registerPOI(p domain.POI) error {
	i, ok := g.index[p.NodeID]
	if !ok {
		return fmt.Errorf("register poi %q: %w: %q", p.Name, domain.ErrUnknownNode, p.NodeID)
	}
	if g.nodes[i].Kind != domain.KindPOI {
		return fmt.Errorf("register poi %q: %w: node %q is not a poi node", p.Name, domain.ErrInvalidParameter, p.NodeID)
	}
	if !g.NodeExists(p.AttachedTo) {
		return fmt.Errorf("register poi %q: %w: %q", p.Name, domain.ErrUnknownNode, p.AttachedTo)
	}
	if _, ok := g.pois[p.Name]; ok {
		return fmt.Errorf("register poi %q: %w", p.Name, domain.ErrDuplicateNode)
	}
	g.pois[p.Name] = p
	return nil
}

// Freeze ends the build/attach phase. It is idempotent.
func (g *Store) Freeze() {
	if g.frozen {
		return
	}

	order := make([]Index, len(g.nodes))
	for i := range order {
		order[i] = Index(i)
	}
	slices.SortFunc(order, func(a, b Index) int {
		return strings.Compare(string(g.nodes[a].ID), string(g.nodes[b].ID))
	})
	g.rank = make([]int32, len(g.nodes))
	for r, i := range order {
		g.rank[i] = int32(r)
	}

	g.minDeg, g.maxDeg = g.degreeBounds()
	g.frozen = true
}

func (g *Store) Frozen() bool { return g.frozen }

// Snapshot returns the graph in arena order: nodes by index, edges by origin
// index then insertion order, POIs by name.
func (g *Store) Snapshot() domain.Snapshot {
	s := domain.Snapshot{
		Nodes: make([]domain.Node, len(g.nodes)),
		Edges: make([]domain.EdgeRecord, 0, g.edges),
		POIs:  g.POIs(),
	}
	copy(s.Nodes, g.nodes)
	for u, edges := range g.out {
		for k, e := range edges {
			s.Edges = append(s.Edges, domain.EdgeRecord{
				From:    g.nodes[u].ID,
				To:      g.nodes[e.To].ID,
				Length:  e.Length,
				Name:    g.attrs[u][k].name,
				Highway: g.attrs[u][k].highway,
			})
		}
	}
	return s
}

// Fingerprint identifies the graph's content. Two stores built from equal
// snapshots share a fingerprint.
func (g *Store) Fingerprint() string {
	h := xxhash.New()
	var buf [8]byte
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}

	for _, n := range g.nodes {
		_, _ = h.WriteString(string(n.ID))
		_, _ = h.Write([]byte{0, byte(n.Kind)})
		writeFloat(n.Lat)
		writeFloat(n.Lon)
	}
	for _, edges := range g.out {
		for _, e := range edges {
			binary.LittleEndian.PutUint32(buf[:4], uint32(e.From))
			binary.LittleEndian.PutUint32(buf[4:], uint32(e.To))
			_, _ = h.Write(buf[:])
			writeFloat(e.Length)
		}
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
