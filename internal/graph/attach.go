package graph

import (
	"context"
	"fmt"
	"math"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/geo"
	"strings"

	"go.uber.org/zap"
)

// AttachPOI links a named location to its geodesically nearest street node.
//
// The nearest node is found by a linear scan over the current street nodes
// (ties go to the lowest node id). A node "poi:<name>" is created and joined to
// the nearest node by two directed edges, poi->nearest and nearest->poi, whose
// length is the great-circle distance between the two. Mutates g in place.
func AttachPOI(g *Store, name string, lat, lon float64) (domain.POI, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.POI{}, fmt.Errorf("attach poi: %w: name must be non-empty", domain.ErrInvalidParameter)
	}

	at := domain.Coordinates{Lon: lon, Lat: lat}
	if err := at.Validate(); err != nil {
		return domain.POI{}, fmt.Errorf("attach poi %q: %w", name, err)
	}

	nearest, meters, ok := nearestStreetNode(g, at)
	if !ok {
		return domain.POI{}, fmt.Errorf("attach poi %q: %w", name, domain.ErrNoStreetNodes)
	}

	poiID := domain.POINodeID(name)
	if err := g.AddNode(poiID, lat, lon, domain.KindPOI); err != nil {
		return domain.POI{}, fmt.Errorf("attach poi %q: %w", name, err)
	}

	nearestID := g.Node(nearest).ID
	if err := g.AddEdge(poiID, nearestID, meters); err != nil {
		return domain.POI{}, fmt.Errorf("attach poi %q: %w", name, err)
	}
	if err := g.AddEdge(nearestID, poiID, meters); err != nil {
		return domain.POI{}, fmt.Errorf("attach poi %q: %w", name, err)
	}

	poi := domain.POI{
		Name:             name,
		Lat:              lat,
		Lon:              lon,
		NodeID:           poiID,
		AttachedTo:       nearestID,
		AttachmentMeters: meters,
	}
	if err := g.registerPOI(poi); err != nil {
		return domain.POI{}, fmt.Errorf("attach poi %q: %w", name, err)
	}

	return poi, nil
}

// AttachAll attaches a catalogue of POIs in order, stopping at the first failure.
// It must run to completion before the store is frozen.
func AttachAll(ctx context.Context, g *Store, seeds []domain.POISeed, logger *zap.Logger) ([]domain.POI, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	out := make([]domain.POI, 0, len(seeds))
	for _, s := range seeds {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("attach pois: %w", err)
		}

		poi, err := AttachPOI(g, s.Name, s.Lat, s.Lon)
		if err != nil {
			return nil, fmt.Errorf("attach pois: %w", err)
		}

		logger.Info("poi attached",
			zap.String("poi", poi.Name),
			zap.String("node", string(poi.AttachedTo)),
			zap.Float64("meters", poi.AttachmentMeters),
		)
		out = append(out, poi)
	}

	logger.Info("pois attached", zap.Int("count", len(out)), zap.Int("nodes", g.Len()), zap.Int("edges", g.EdgeCount()))
	return out, nil
}

// AdoptPOI registers the POI record for a "poi:<name>" node that is already in
// the store, as when a network document carries its POIs. The attachment is the
// cheapest outgoing edge to a street node, ties going to the lowest node id.
func AdoptPOI(g *Store, name string) (domain.POI, error) {
	name = strings.TrimSpace(name)
	poiID := domain.POINodeID(name)

	i, ok := g.Lookup(poiID)
	if !ok {
		return domain.POI{}, fmt.Errorf("adopt poi %q: %w", name, domain.ErrUnknownNode)
	}
	n := g.Node(i)
	if n.Kind != domain.KindPOI {
		return domain.POI{}, fmt.Errorf("adopt poi %q: %w: node %q is not a poi node", name, domain.ErrInvalidParameter, poiID)
	}

	best := Index(-1)
	bestMeters := math.Inf(1)
	for _, e := range g.Out(i) {
		to := g.Node(e.To)
		if to.Kind != domain.KindStreet {
			continue
		}
		if best < 0 || e.Length < bestMeters || (e.Length == bestMeters && to.ID < g.Node(best).ID) {
			best = e.To
			bestMeters = e.Length
		}
	}
	if best < 0 {
		return domain.POI{}, fmt.Errorf("adopt poi %q: %w: no edge to a street node", name, domain.ErrInvalidParameter)
	}

	poi := domain.POI{
		Name:             name,
		Lat:              n.Lat,
		Lon:              n.Lon,
		NodeID:           poiID,
		AttachedTo:       g.Node(best).ID,
		AttachmentMeters: bestMeters,
	}
	if err := g.registerPOI(poi); err != nil {
		return domain.POI{}, fmt.Errorf("adopt poi %q: %w", name, err)
	}
	return poi, nil
}

func nearestStreetNode(g *Store, at domain.Coordinates) (Index, float64, bool) {
	best := Index(-1)
	bestMeters := math.Inf(1)

	g.StreetNodes(func(i Index, n domain.Node) bool {
		d := geo.Distance(at, n.Coordinates())
		if best < 0 || d < bestMeters || (d == bestMeters && n.ID < g.Node(best).ID) {
			best = i
			bestMeters = d
		}
		return true
	})

	if best < 0 {
		return 0, 0, false
	}
	return best, bestMeters, true
}
