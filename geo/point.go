// Package geo provides the point type, distance function and bounding-box
// math used to plug great-circle geometry into a generic metric-space tree.
package geo

import (
	"encoding/json"
	"errors"
)

// Point is a <latitude, longitude> coordinate pair in degrees.
type Point struct {
	Lat  float64 // latitude, e.g. 42.338947 (Boston)
	Long float64 // longitude, e.g. -70.919635 (Boston)
}

// MarshalJSON returns the GeoJSON coordinate representation, [long, lat].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Long, p.Lat})
}

// UnmarshalJSON reads the GeoJSON coordinate representation, [long, lat].
func (p *Point) UnmarshalJSON(b []byte) error {
	var s []float64
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if len(s) != 2 {
		return errors.New("geo: wrong dimensionality for a Point")
	}
	p.Long, p.Lat = s[0], s[1]
	return nil
}

// LegalCoord reports whether lat/long fall within their valid ranges.
// lat=-90 and long=-180 are permitted since they're useful as the corner
// of a bounding rectangle.
func LegalCoord(lat, long float64) bool {
	return lat <= 90.0 && lat >= -90.0 && long <= 180.0 && long >= -180.0
}
