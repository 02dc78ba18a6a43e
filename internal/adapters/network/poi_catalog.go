package network

import (
	"fmt"
	"os"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/geo"
	"strings"

	"gopkg.in/yaml.v3"
)

// POICatalog is the on-disk list of POIs to attach, with an optional area
// boundary used to clip the OSM network.
type POICatalog struct {
	Boundary [][2]float64    `yaml:"boundary"`
	POIs     []domain.POISeed `yaml:"pois"`
}

func (c POICatalog) BoundaryPolygon() geo.Boundary {
	return geo.NewBoundary(c.Boundary)
}

// LoadPOICatalog reads and validates a YAML catalogue. Names must be non-empty and unique.
func LoadPOICatalog(path string) (POICatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return POICatalog{}, fmt.Errorf("load poi catalog: %w", err)
	}

	var c POICatalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return POICatalog{}, fmt.Errorf("load poi catalog %q: %w", path, err)
	}

	seen := make(map[string]struct{}, len(c.POIs))
	for i, p := range c.POIs {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return POICatalog{}, fmt.Errorf("load poi catalog: entry %d: %w: empty name", i, domain.ErrInvalidParameter)
		}
		if _, dup := seen[name]; dup {
			return POICatalog{}, fmt.Errorf("load poi catalog: %w: %q listed twice", domain.ErrDuplicateNode, name)
		}
		seen[name] = struct{}{}

		if err := (domain.Coordinates{Lon: p.Lon, Lat: p.Lat}).Validate(); err != nil {
			return POICatalog{}, fmt.Errorf("load poi catalog: %q: %w", name, err)
		}
		c.POIs[i].Name = name
	}
	return c, nil
}
