// Package geoindex adapts the generic vptree core to geospatial points: it
// plugs the great-circle distance function into a Tree[geo.Point, E] and
// layers a bounding-box query on top of a centroid-anchored radius search
// (the contract a bounding-box caller actually wants).
package geoindex

import (
	"strconv"
	"strings"

	"github.com/skipvik/vptree/geo"
	"github.com/skipvik/vptree/vptree"
)

// Index wraps a vptree.Tree[geo.Point, E] with a Locate accessor, exposing
// the geospatial query surface: nearest neighbors, radius queries and the
// bounding-box adaptor.
type Index[E comparable] struct {
	tree   *vptree.Tree[geo.Point, E]
	locate func(E) geo.Point
}

// New returns an empty index with the given leaf capacity (vptree.DefaultBinSize
// if unsure) whose elements are located by locate.
func New[E comparable](binSize int, locate func(E) geo.Point) (*Index[E], error) {
	tr, err := vptree.New[geo.Point, E](binSize, geo.Haversine, vptree.Locator[E, geo.Point](locate))
	if err != nil {
		return nil, err
	}
	return &Index[E]{tree: tr, locate: locate}, nil
}

// From bulk-loads elements into a fresh index.
func From[E comparable](binSize int, locate func(E) geo.Point, elements []E) (*Index[E], error) {
	tr, err := vptree.From[geo.Point, E](binSize, geo.Haversine, vptree.Locator[E, geo.Point](locate), elements)
	if err != nil {
		return nil, err
	}
	return &Index[E]{tree: tr, locate: locate}, nil
}

// Add inserts e.
func (idx *Index[E]) Add(e E) bool { return idx.tree.Add(e) }

// AddAll inserts every element of es.
func (idx *Index[E]) AddAll(es []E) bool { return idx.tree.AddAll(es) }

// Remove removes e.
func (idx *Index[E]) Remove(e E) bool { return idx.tree.Remove(e) }

// RemoveAll removes every element of es.
func (idx *Index[E]) RemoveAll(es []E) bool { return idx.tree.RemoveAll(es) }

// Contains reports whether e is stored.
func (idx *Index[E]) Contains(e E) bool { return idx.tree.Contains(e) }

// Size returns the number of stored elements.
func (idx *Index[E]) Size() int { return idx.tree.Size() }

// IsEmpty reports whether the index stores no elements.
func (idx *Index[E]) IsEmpty() bool { return idx.tree.IsEmpty() }

// MovePoint relocates oldElem (located at its current position) to newElem
// (located at dest), mirroring the reference's explicit-coordinates
// Update(mmsi, oldLat, oldLong, newLat, newLong) convenience.
func (idx *Index[E]) MovePoint(oldElem, newElem E, dest geo.Point) error {
	return idx.tree.MovePoint(oldElem, newElem, dest)
}

// Nearest returns the single closest element to q, and whether any element
// qualified.
func (idx *Index[E]) Nearest(q geo.Point, filter func(E) bool) (E, bool) {
	var opts []vptree.SearchOption[E]
	if filter != nil {
		opts = append(opts, vptree.WithFilter(filter))
	}
	return idx.tree.GetNearestNeighbor(q, opts...)
}

// NearestN returns up to k elements closest to q, ascending by distance.
func (idx *Index[E]) NearestN(q geo.Point, k int, filter func(E) bool) ([]E, error) {
	var opts []vptree.SearchOption[E]
	if filter != nil {
		opts = append(opts, vptree.WithFilter(filter))
	}
	return idx.tree.GetNearestNeighbors(q, k, opts...)
}

// Within implements the bounding-box adaptor's three-step algorithm: find
// the great-circle centroid of the box's four corners, run a radius query
// around it wide enough to cover every corner, then narrow the candidates
// to those actually inside the box (and admitted by filter).
func (idx *Index[E]) Within(box *geo.Rectangle, filter func(E) bool) ([]E, error) {
	sw := box.Min()
	ne := box.Max()
	nw := geo.Point{Lat: ne.Lat, Long: sw.Long}
	se := geo.Point{Lat: sw.Lat, Long: ne.Long}

	centroid := geo.Centroid(sw, nw, ne, se)
	radius := geo.SafeRadius(centroid, sw, nw, ne, se)

	inBox := func(e E) bool {
		p := idx.locate(e)
		if p.Lat < sw.Lat || p.Lat > ne.Lat {
			return false
		}
		if !geo.InLongitudeArc(p, sw.Long, ne.Long) {
			return false
		}
		return filter == nil || filter(e)
	}
	return idx.tree.GetAllWithinDistance(centroid, radius, inBox)
}

// DebugGeoJSON renders every stored element as a GeoJSON FeatureCollection
// of Point features, adapted from the reference's manual (non-encoding/json)
// GeoJSON string building — a transient, human-facing diagnostic dump, not
// a load path, so it builds the string by hand the same way the reference
// did rather than reaching for a marshaling type just for this one caller.
func (idx *Index[E]) DebugGeoJSON(label func(E) string) string {
	var b strings.Builder
	b.WriteString(`{"type":"FeatureCollection","features":[`)
	first := true
	for _, e := range idx.tree.ToArray() {
		if !first {
			b.WriteString(",")
		}
		first = false
		p := idx.locate(e)
		b.WriteString(`{"type":"Feature","geometry":{"type":"Point","coordinates":[`)
		b.WriteString(strconv.FormatFloat(p.Long, 'f', 6, 64))
		b.WriteString(", ")
		b.WriteString(strconv.FormatFloat(p.Lat, 'f', 6, 64))
		b.WriteString(`]},"properties":{"label":`)
		name, _ := marshalJSONString(label(e))
		b.WriteString(name)
		b.WriteString("}}")
	}
	b.WriteString("]}")
	return b.String()
}

func marshalJSONString(s string) (string, error) {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String(), nil
}
