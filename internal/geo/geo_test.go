package geo

import (
	"math"
	"testing"
)

func TestDistanceKmOneDegreeLongitudeAtEquator(t *testing.T) {
	// One degree of longitude on the equator is ~111.19 km.
	d := DistanceKm(0, 0, 0, 1)
	if math.Abs(d-111.19) > 0.5 {
		t.Fatalf("expected ~111.19 km, got %v", d)
	}
}

func TestDistanceKmZero(t *testing.T) {
	if d := DistanceKm(43.25, 76.9, 43.25, 76.9); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	a := DistanceKm(43.25, 76.9, 51.1, 71.4)
	b := DistanceKm(51.1, 71.4, 43.25, 76.9)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
	// Almaty to Astana is roughly 970 km as the crow flies.
	if a < 900 || a > 1050 {
		t.Fatalf("implausible Almaty-Astana distance %v", a)
	}
}
