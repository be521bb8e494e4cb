package arable

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

// roughly 100m x 100m on the equator
const squareSide = 0.0009

func testSquare() orb.Polygon {
	return orb.Polygon{orb.Ring{
		{0, 0}, {squareSide, 0}, {squareSide, squareSide}, {0, squareSide}, {0, 0},
	}}
}

func TestValidateGeometry(t *testing.T) {
	tests := []struct {
		name    string
		geom    orb.Geometry
		wantErr bool
	}{
		{"square", testSquare(), false},
		{"multipolygon", orb.MultiPolygon{testSquare()}, false},
		{"point", orb.Point{0, 0}, true},
		{"linestring", orb.LineString{{0, 0}, {1, 1}}, true},
		{"empty multipolygon", orb.MultiPolygon{}, true},
		{"too few coords", orb.Polygon{orb.Ring{{0, 0}, {1, 0}, {0, 0}}}, true},
		{"unclosed ring", orb.Polygon{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}}}, true},
		{"bowtie", orb.Polygon{orb.Ring{{0, 0}, {1, 1}, {1, 0}, {0, 1}, {0, 0}}}, true},
		{"nan coordinate", orb.Polygon{orb.Ring{{0, 0}, {math.NaN(), 0}, {1, 1}, {0, 1}, {0, 0}}}, true},
		{"degenerate ring", orb.Polygon{orb.Ring{{0, 0}, {0, 0}, {0, 0}, {0, 0}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateGeometry(tt.geom)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidGeometry) {
					t.Fatalf("expected ErrInvalidGeometry, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateNormalizesWinding(t *testing.T) {
	// clockwise input must come out counter clockwise
	cw := orb.Polygon{orb.Ring{
		{0, 0}, {0, squareSide}, {squareSide, squareSide}, {squareSide, 0}, {0, 0},
	}}
	p, err := validateGeometry(cw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.geom[0][0].Orientation() != orb.CCW {
		t.Error("exterior ring not normalized to CCW")
	}
}

func TestSphericalAreaSquare(t *testing.T) {
	p, err := validateGeometry(testSquare())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// ~100m square => ~1 hectare, allow a few percent for the sphere
	if p.areaM2 < 9000 || p.areaM2 > 11000 {
		t.Errorf("expected roughly 10000 m², got %v", p.areaM2)
	}
}

func TestSphericalAreaHole(t *testing.T) {
	outer := orb.Ring{
		{0, 0}, {squareSide, 0}, {squareSide, squareSide}, {0, squareSide}, {0, 0},
	}
	q := squareSide / 4
	inner := orb.Ring{
		{q, q}, {3 * q, q}, {3 * q, 3 * q}, {q, 3 * q}, {q, q},
	}
	whole, err := validateGeometry(orb.Polygon{outer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	holed, err := validateGeometry(orb.Polygon{outer, inner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ratio := holed.areaM2 / whole.areaM2
	if math.Abs(ratio-0.75) > 0.01 {
		t.Errorf("hole should remove a quarter of the area, got ratio %v", ratio)
	}
}

func TestParcelContains(t *testing.T) {
	p, err := validateGeometry(testSquare())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.contains(orb.Point{squareSide / 2, squareSide / 2}) {
		t.Error("centre should be inside")
	}
	if p.contains(orb.Point{2 * squareSide, squareSide / 2}) {
		t.Error("point east of the square should be outside")
	}
}
