package geo

import (
	"errors"
	"math"
)

// Rectangle is an axis-aligned lat/long bounding box. max holds the most
// north-eastern corner, min the most south-western.
type Rectangle struct {
	max Point
	min Point
}

// NewRectangle returns a Rectangle spanning [minLat,maxLat] x
// [minLong,maxLong], or an error if the bounds are inverted or out of
// range.
func NewRectangle(minLat, minLong, maxLat, maxLong float64) (*Rectangle, error) {
	if minLat > maxLat || minLong > maxLong {
		return nil, errors.New("geo: rectangle bounds are inverted (min > max)")
	}
	if !LegalCoord(minLat, minLong) || !LegalCoord(maxLat, maxLong) {
		return nil, errors.New("geo: illegal rectangle coordinates")
	}
	return &Rectangle{
		min: Point{Lat: minLat, Long: minLong},
		max: Point{Lat: maxLat, Long: maxLong},
	}, nil
}

// Max returns the rectangle's most north-eastern corner.
func (r *Rectangle) Max() Point { return r.max }

// Min returns the rectangle's most south-western corner.
func (r *Rectangle) Min() Point { return r.min }

// ContainsPoint reports whether p lies within r, inclusive of the border.
func (r *Rectangle) ContainsPoint(p Point) bool {
	return p.Lat >= r.min.Lat && p.Lat <= r.max.Lat &&
		p.Long >= r.min.Long && p.Long <= r.max.Long
}

// Centroid computes the mid-of-great-circle point of a rectangle's four
// corners, resolved to radian inputs per the bounding-box adaptor's
// contract (see DESIGN.md, "Open questions resolved" #1): each corner is
// converted to a unit 3D vector, the vectors are averaged, and the average
// is projected back onto the sphere's surface as a lat/long pair. sw/nw/ne/se
// are given in degrees.
func Centroid(sw, nw, ne, se Point) Point {
	corners := [4]Point{sw, nw, ne, se}
	var x, y, z float64
	for _, c := range corners {
		lat, long := radians(c.Lat), radians(c.Long)
		cosLat := math.Cos(lat)
		x += cosLat * math.Cos(long)
		y += cosLat * math.Sin(long)
		z += math.Sin(lat)
	}
	x /= 4
	y /= 4
	z /= 4

	long := math.Atan2(y, x)
	hyp := math.Sqrt(x*x + y*y)
	lat := math.Atan2(z, hyp)
	return Point{Lat: degrees(lat), Long: degrees(long)}
}

// SafeRadius returns the maximum Haversine distance from center to any of
// corners, suitable as the radius of a circle guaranteed to cover every
// corner (bounding-box adaptor step 2).
func SafeRadius(center Point, corners ...Point) float64 {
	r := 0.0
	for _, c := range corners {
		if d := Haversine(center, c); d > r {
			r = d
		}
	}
	return r
}

// InLongitudeArc reports whether p's longitude lies on the arc running
// eastward from west to east (inclusive), handling the antimeridian crossing
// the way the reference's date-line-aware view splitting did (adapted from
// the teacher's SplitViewRect, which built two non-overlapping rectangles
// instead of one wraparound predicate). The eastward arc is tested even when
// it spans more than 180 degrees; the shorter westward arc is not chosen
// instead.
func InLongitudeArc(p Point, west, east float64) bool {
	west, east, long := normalizeLong(west), normalizeLong(east), normalizeLong(p.Long)
	if west <= east {
		return long >= west && long <= east
	}
	// the arc crosses the antimeridian
	return long >= west || long <= east
}

// normalizeLong maps a longitude to the half-open range [-180, 180), so a
// point exactly on the antimeridian (+180) normalizes to -180 (see
// DESIGN.md, "Open questions resolved" #2 — the spec leaves this wrap
// behavior unspecified, so this is a documented implementation choice, not
// a correctness requirement).
func normalizeLong(long float64) float64 {
	long = math.Mod(long+180, 360)
	if long < 0 {
		long += 360
	}
	return long - 180
}
