package network

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/geo"
	"slices"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

// DriveHighways is the set of highway values routable by car.
var DriveHighways = []string{
	"motorway", "motorway_link",
	"trunk", "trunk_link",
	"primary", "primary_link",
	"secondary", "secondary_link",
	"tertiary", "tertiary_link",
	"unclassified", "residential", "living_street", "service",
}

// OSMScanner is the common surface of the osmxml and osmpbf scanners.
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// OSMSource reads a street network from an OSM extract (.osm, .xml or .pbf).
//
// Only ways whose highway tag is listed in Highways are kept (DriveHighways
// when empty). Nodes outside Boundary are dropped together with every edge
// that touches them. Edge lengths are great-circle distances between
// consecutive way nodes.
type OSMSource struct {
	Path     string
	Highways []string
	Boundary geo.Boundary
}

type osmWay struct {
	id      osm.WayID
	nodes   []osm.NodeID
	name    string
	highway string
	forward bool
	reverse bool
}

func (s OSMSource) Load(ctx context.Context) (domain.Snapshot, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return domain.Snapshot{}, errors.Wrap(err, "osm source: open")
	}
	defer f.Close()

	ways, seen, err := s.scanWays(ctx, f)
	if err != nil {
		return domain.Snapshot{}, err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return domain.Snapshot{}, errors.Wrap(err, "osm source: rewind after ways")
	}

	coords, err := s.scanNodes(ctx, f, seen)
	if err != nil {
		return domain.Snapshot{}, err
	}

	return buildSnapshot(ways, coords), nil
}

func (s OSMSource) scanner(ctx context.Context, r io.Reader) (OSMScanner, error) {
	switch ext := filepath.Ext(s.Path); ext {
	case ".osm", ".xml":
		return osmxml.New(ctx, r), nil
	case ".pbf":
		return osmpbf.New(ctx, r, 4), nil
	default:
		return nil, fmt.Errorf("osm source: %w: unsupported file extension %q", domain.ErrInvalidParameter, ext)
	}
}

func (s OSMSource) scanWays(ctx context.Context, r io.Reader) ([]osmWay, map[osm.NodeID]struct{}, error) {
	sc, err := s.scanner(ctx, r)
	if err != nil {
		return nil, nil, err
	}
	defer sc.Close()

	allowed := s.Highways
	if len(allowed) == 0 {
		allowed = DriveHighways
	}

	var ways []osmWay
	seen := make(map[osm.NodeID]struct{})
	for sc.Scan() {
		way, ok := sc.Object().(*osm.Way)
		if !ok {
			continue
		}
		highway := way.Tags.Find("highway")
		if !slices.Contains(allowed, highway) || way.Tags.Find("area") == "yes" {
			continue
		}

		w := osmWay{
			id:      way.ID,
			nodes:   make([]osm.NodeID, 0, len(way.Nodes)),
			name:    way.Tags.Find("name"),
			highway: highway,
			forward: true,
			reverse: true,
		}
		switch way.Tags.Find("oneway") {
		case "yes", "1", "true":
			w.reverse = false
		case "-1", "reverse":
			w.forward = false
		case "":
			if way.Tags.Find("junction") == "roundabout" || highway == "motorway" {
				w.reverse = false
			}
		}

		for _, n := range way.Nodes {
			w.nodes = append(w.nodes, n.ID)
			seen[n.ID] = struct{}{}
		}
		ways = append(ways, w)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "osm source: scan ways")
	}
	return ways, seen, nil
}

func (s OSMSource) scanNodes(ctx context.Context, r io.Reader, seen map[osm.NodeID]struct{}) (map[osm.NodeID]domain.Coordinates, error) {
	sc, err := s.scanner(ctx, r)
	if err != nil {
		return nil, err
	}
	defer sc.Close()

	coords := make(map[osm.NodeID]domain.Coordinates, len(seen))
	for sc.Scan() {
		node, ok := sc.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, ok := seen[node.ID]; !ok {
			continue
		}
		c := domain.Coordinates{Lon: node.Lon, Lat: node.Lat}
		if !s.Boundary.Contains(c) {
			continue
		}
		coords[node.ID] = c
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "osm source: scan nodes")
	}
	return coords, nil
}

// buildSnapshot emits nodes in ascending OSM id order and edges in way order.
// Nodes that end up with no edges are left out.
func buildSnapshot(ways []osmWay, coords map[osm.NodeID]domain.Coordinates) domain.Snapshot {
	var snap domain.Snapshot
	used := make(map[osm.NodeID]struct{})

	for _, w := range ways {
		for i := 1; i < len(w.nodes); i++ {
			a, b := w.nodes[i-1], w.nodes[i]
			if a == b {
				continue
			}
			ca, okA := coords[a]
			cb, okB := coords[b]
			if !okA || !okB {
				continue
			}

			length := geo.Distance(ca, cb)
			from, to := domain.StreetNodeID(int64(a)), domain.StreetNodeID(int64(b))
			if w.forward {
				snap.Edges = append(snap.Edges, domain.EdgeRecord{From: from, To: to, Length: length, Name: w.name, Highway: w.highway})
			}
			if w.reverse {
				snap.Edges = append(snap.Edges, domain.EdgeRecord{From: to, To: from, Length: length, Name: w.name, Highway: w.highway})
			}
			used[a] = struct{}{}
			used[b] = struct{}{}
		}
	}

	ids := make([]osm.NodeID, 0, len(used))
	for id := range used {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	snap.Nodes = make([]domain.Node, 0, len(ids))
	for _, id := range ids {
		c := coords[id]
		snap.Nodes = append(snap.Nodes, domain.Node{ID: domain.StreetNodeID(int64(id)), Lat: c.Lat, Lon: c.Lon, Kind: domain.KindStreet})
	}
	return snap
}
