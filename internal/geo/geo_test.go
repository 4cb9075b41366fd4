package geo

import (
	"math"
	"testing"
)

var (
	madrid    = Coordinate{Latitude: 40.4168, Longitude: -3.7038}
	barcelona = Coordinate{Latitude: 41.3851, Longitude: 2.1734}
)

func TestDistanceKmZeroForSamePoint(t *testing.T) {
	if d := DistanceKm(madrid, madrid); d != 0 {
		t.Fatalf("expected zero distance, got %f", d)
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	pairs := []struct{ a, b Coordinate }{
		{madrid, barcelona},
		{Coordinate{Latitude: -33.4489, Longitude: -70.6693}, Coordinate{Latitude: 51.5074, Longitude: -0.1278}},
		{Coordinate{Latitude: 89.9, Longitude: 179.9}, Coordinate{Latitude: -89.9, Longitude: -179.9}},
	}
	for _, p := range pairs {
		ab := DistanceKm(p.a, p.b)
		ba := DistanceKm(p.b, p.a)
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("distance not symmetric: %f vs %f", ab, ba)
		}
	}
}

func TestDistanceKmMadridBarcelona(t *testing.T) {
	d := DistanceKm(madrid, barcelona)
	if d <= 500 || d >= 650 {
		t.Fatalf("Madrid-Barcelona distance out of range: %f km", d)
	}
}

func TestDistanceKmFiniteForAntipodalPairs(t *testing.T) {
	halfCircumference := math.Pi * 6371.0
	for lat := -90.0; lat <= 90.0; lat += 0.5 {
		a := Coordinate{Latitude: lat, Longitude: -180}
		b := Coordinate{Latitude: -lat + 1e-9, Longitude: -1e-9}
		d := DistanceKm(a, b)
		if math.IsNaN(d) || d < 0 {
			t.Fatalf("invalid distance for a=%v b=%v: %f", a, b, d)
		}
		if d > halfCircumference+1e-6 {
			t.Fatalf("distance beyond half circumference for a=%v b=%v: %f", a, b, d)
		}
	}

	poles := DistanceKm(Coordinate{Latitude: 90}, Coordinate{Latitude: -90})
	if math.Abs(poles-halfCircumference) > 1 {
		t.Fatalf("pole-to-pole distance = %f, want about %f", poles, halfCircumference)
	}
}

func TestWithin(t *testing.T) {
	nearby := Coordinate{Latitude: 40.42, Longitude: -3.70}
	if !Within(madrid, nearby, DefaultRadiusKm) {
		t.Fatalf("expected nearby point within default radius")
	}
	if Within(madrid, barcelona, DefaultRadiusKm) {
		t.Fatalf("expected Barcelona outside default radius of Madrid")
	}
	if !Within(madrid, barcelona, 1000) {
		t.Fatalf("expected Barcelona within 1000 km of Madrid")
	}
}
