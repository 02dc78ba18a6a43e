// Package render draws routes as GeoJSON for map viewers.
package render

import (
	"fmt"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/graph"

	geojson "github.com/paulmach/go.geojson"
)

// RenderGeoJSON builds a FeatureCollection holding the route as a LineString,
// every attached POI as a Point and, when withNetwork is set, each street edge
// as its own LineString. Coordinates are [lon, lat].
func RenderGeoJSON(g *graph.Store, path domain.Path, withNetwork bool) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	if withNetwork {
		for i := 0; i < g.Len(); i++ {
			from := g.Node(graph.Index(i))
			for _, e := range g.Out(graph.Index(i)) {
				to := g.Node(e.To)
				f := geojson.NewLineStringFeature([][]float64{
					from.Coordinates().CoordsToList(),
					to.Coordinates().CoordsToList(),
				})
				f.SetProperty("kind", "edge")
				f.SetProperty("from", string(from.ID))
				f.SetProperty("to", string(to.ID))
				f.SetProperty("length_meters", e.Length)
				fc.AddFeature(f)
			}
		}
	}

	for _, p := range g.POIs() {
		f := geojson.NewPointFeature(domain.Coordinates{Lon: p.Lon, Lat: p.Lat}.CoordsToList())
		f.SetProperty("kind", "poi")
		f.SetProperty("name", p.Name)
		f.SetProperty("node", string(p.NodeID))
		f.SetProperty("attached_to", string(p.AttachedTo))
		fc.AddFeature(f)
	}

	if len(path.Nodes) > 0 {
		coords := make([][]float64, 0, len(path.Nodes))
		for _, id := range path.Nodes {
			i, ok := g.Lookup(id)
			if !ok {
				return nil, fmt.Errorf("render geojson: %w: %q", domain.ErrUnknownNode, id)
			}
			coords = append(coords, g.Node(i).Coordinates().CoordsToList())
		}

		f := geojson.NewLineStringFeature(coords)
		f.SetProperty("kind", "route")
		f.SetProperty("cost", path.Cost)
		f.SetProperty("length_meters", path.LengthMeters)
		f.SetProperty("nodes", path.Nodes)
		fc.AddFeature(f)
	}

	return fc, nil
}
