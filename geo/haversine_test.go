package geo

import "testing"

func TestHaversineIdentity(t *testing.T) {
	boston := Point{Lat: 42.338947, Long: -70.919635}
	if d := Haversine(boston, boston); d != 0 {
		t.Errorf("Haversine(p, p) = %v, want 0", d)
	}
}

func TestHaversineSymmetry(t *testing.T) {
	boston := Point{Lat: 42.338947, Long: -70.919635}
	newYork := Point{Lat: 40.780751, Long: -73.977182}
	if a, b := Haversine(boston, newYork), Haversine(newYork, boston); a != b {
		t.Errorf("Haversine not symmetric: %v != %v", a, b)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	boston := Point{Lat: 42.338947, Long: -70.919635}
	newYork := Point{Lat: 40.780751, Long: -73.977182}
	d := Haversine(boston, newYork)
	// Boston-New York is roughly 306 km great-circle.
	const want = 306000.0
	const tolerance = 5000.0
	if diff := d - want; diff < -tolerance || diff > tolerance {
		t.Errorf("Haversine(Boston, NYC) = %v, want within %v of %v", d, tolerance, want)
	}
}

func TestHaversineTriangleInequality(t *testing.T) {
	a := Point{Lat: 42.338947, Long: -70.919635}
	b := Point{Lat: 34.048411, Long: -118.34015}
	c := Point{Lat: 32.787629, Long: -96.79941}
	if Haversine(a, c) > Haversine(a, b)+Haversine(b, c)+1e-6 {
		t.Errorf("triangle inequality violated: d(a,c)=%v > d(a,b)+d(b,c)=%v",
			Haversine(a, c), Haversine(a, b)+Haversine(b, c))
	}
}
