package geo

import "testing"

func TestNewRectangleRejectsInvertedBounds(t *testing.T) {
	if _, err := NewRectangle(10, 10, 0, 0); err == nil {
		t.Error("expected error for inverted bounds, got nil")
	}
}

func TestRectangleContainsPoint(t *testing.T) {
	r, err := NewRectangle(30, -80, 45, -65)
	if err != nil {
		t.Fatalf("NewRectangle: %v", err)
	}
	boston := Point{Lat: 42.338947, Long: -70.919635}
	if !r.ContainsPoint(boston) {
		t.Error("expected rectangle to contain Boston")
	}
	sf := Point{Lat: 37.766529, Long: -122.39577}
	if r.ContainsPoint(sf) {
		t.Error("expected rectangle to not contain San Francisco")
	}
}

func TestCentroidOfSymmetricBox(t *testing.T) {
	sw := Point{Lat: -10, Long: -10}
	nw := Point{Lat: 10, Long: -10}
	ne := Point{Lat: 10, Long: 10}
	se := Point{Lat: -10, Long: 10}
	c := Centroid(sw, nw, ne, se)
	if abs(c.Lat) > 0.01 || abs(c.Long) > 0.01 {
		t.Errorf("Centroid of symmetric box = %+v, want near (0,0)", c)
	}
}

func TestSafeRadiusCoversAllCorners(t *testing.T) {
	sw := Point{Lat: 30, Long: -80}
	nw := Point{Lat: 45, Long: -80}
	ne := Point{Lat: 45, Long: -65}
	se := Point{Lat: 30, Long: -65}
	center := Centroid(sw, nw, ne, se)
	r := SafeRadius(center, sw, nw, ne, se)
	for _, corner := range []Point{sw, nw, ne, se} {
		if d := Haversine(center, corner); d > r+1e-6 {
			t.Errorf("corner %+v at distance %v exceeds safe radius %v", corner, d, r)
		}
	}
}

func TestInLongitudeArcOrdinary(t *testing.T) {
	if !InLongitudeArc(Point{Long: -70}, -80, -65) {
		t.Error("expected -70 to be within [-80,-65]")
	}
	if InLongitudeArc(Point{Long: -90}, -80, -65) {
		t.Error("expected -90 to be outside [-80,-65]")
	}
}

func TestInLongitudeArcCrossesAntimeridian(t *testing.T) {
	// arc runs eastward from 170 to -170, crossing the date line
	if !InLongitudeArc(Point{Long: 179}, 170, -170) {
		t.Error("expected 179 to be within the wrapping arc [170, -170]")
	}
	if !InLongitudeArc(Point{Long: -179}, 170, -170) {
		t.Error("expected -179 to be within the wrapping arc [170, -170]")
	}
	if InLongitudeArc(Point{Long: 0}, 170, -170) {
		t.Error("expected 0 to be outside the wrapping arc [170, -170]")
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
