package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates (longitude, latitude) in WGS 84 degrees.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for GeoJSON compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Validate reports whether the coordinates fall inside the WGS 84 ranges.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return fmt.Errorf("%w: coordinates must be numbers", ErrInvalidParameter)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %f out of range [-90,90]", ErrInvalidParameter, c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %f out of range [-180,180]", ErrInvalidParameter, c.Lon)
	}
	return nil
}
