// Package geo holds the geodesic helpers used for POI attachment and OSM edge lengths.
package geo

import (
	"poi-route-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// Distance returns the great-circle distance between a and b in meters.
// It is independent of the network's edges.
func Distance(a, b domain.Coordinates) float64 {
	return geo.DistanceHaversine(point(a), point(b))
}

// Boundary is an optional polygon used to clip an ingested network.
// A zero Boundary contains every point.
type Boundary struct {
	polygon orb.Polygon
}

// NewBoundary builds a boundary from a ring of [lon, lat] pairs.
// The ring is closed automatically when the last vertex differs from the first.
func NewBoundary(ring [][2]float64) Boundary {
	if len(ring) < 3 {
		return Boundary{}
	}

	r := make(orb.Ring, 0, len(ring)+1)
	for _, p := range ring {
		r = append(r, orb.Point{p[0], p[1]})
	}
	if !r.Closed() {
		r = append(r, r[0])
	}
	return Boundary{polygon: orb.Polygon{r}}
}

func (b Boundary) IsZero() bool { return len(b.polygon) == 0 }

// Contains reports whether c lies inside the boundary.
func (b Boundary) Contains(c domain.Coordinates) bool {
	if b.IsZero() {
		return true
	}
	return planar.PolygonContains(b.polygon, point(c))
}

func point(c domain.Coordinates) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}
