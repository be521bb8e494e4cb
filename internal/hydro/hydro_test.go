package hydro

import (
	"testing"
)

func TestFillRaisesDepression(t *testing.T) {
	// ring of height 1 around a single height 0 pit
	elev := []float64{
		1, 1, 1,
		1, 0, 1,
		1, 1, 1,
	}
	filled, passes := Fill(elev, 3)

	if filled[4] != 1 {
		t.Errorf("expected pit raised to 1, got %v", filled[4])
	}
	if passes < 1 {
		t.Errorf("expected at least one fill pass, got %d", passes)
	}
	// untouched input
	if elev[4] != 0 {
		t.Error("Fill mutated its input")
	}
}

func TestFillMonotone(t *testing.T) {
	elev := []float64{
		5, 3, 4, 6,
		2, 1, 0, 5,
		4, 0, 2, 4,
		6, 5, 4, 3,
	}
	filled, _ := Fill(elev, 4)
	for i := range elev {
		if filled[i] < elev[i] {
			t.Errorf("cell %d lowered: %v -> %v", i, elev[i], filled[i])
		}
	}
}

func TestDirectionsSteepestDescent(t *testing.T) {
	// plane rising west to east; everything should drain west or stop
	// at the western edge
	elev := []float64{
		0, 1, 2,
		0, 1, 2,
		0, 1, 2,
	}
	dir := Directions(elev, 3)

	for y := 0; y < 3; y++ {
		if d := dir[y*3+0]; d != Terminal {
			t.Errorf("western edge cell (0,%d) should be terminal, got %d", y, d)
		}
		if d := dir[y*3+2]; d != 4 { // W
			t.Errorf("cell (2,%d) should drain west, got %d", y, d)
		}
	}
}

func TestFlatResolution(t *testing.T) {
	// a plateau of 5s with one lower outlet in the corner; every
	// plateau cell must find a way out
	elev := []float64{
		0, 5, 5,
		5, 5, 5,
		5, 5, 5,
	}
	dir := Directions(elev, 3)

	acc := Accumulate(dir, 3)
	if acc[0] != 9 {
		t.Errorf("expected all 9 cells to drain through the outlet, got accumulation %d", acc[0])
	}
}

func TestFlowAcyclic(t *testing.T) {
	elev := []float64{
		5, 3, 4, 6,
		2, 1, 0, 5,
		4, 0, 2, 4,
		6, 5, 4, 3,
	}
	n := 4
	f := Route(&Grid{N: n, Elev: elev, CellSize: 10})

	for start := range f.Dir {
		i := start
		for steps := 0; ; steps++ {
			if steps > n*n {
				t.Fatalf("flow chain from %d did not terminate in %d steps", start, n*n)
			}
			next := Downstream(f.Dir, n, i)
			if next == Terminal {
				break
			}
			i = next
		}
	}
}

func TestAccumulateChain(t *testing.T) {
	// west to east descent: each column feeds the one west of it
	elev := []float64{
		2, 1, 0,
		2, 1, 0,
		2, 1, 0,
	}
	dir := Directions(elev, 3)
	acc := Accumulate(dir, 3)

	want := []int{1, 2, 3}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if acc[y*3+x] != want[x] {
				t.Errorf("cell (%d,%d) accumulation = %d, want %d", x, y, acc[y*3+x], want[x])
			}
		}
	}
}

func TestAccumulateMinimumOne(t *testing.T) {
	f := Route(&Grid{N: 3, Elev: make([]float64, 9), CellSize: 10})
	for i, a := range f.Acc {
		if a < 1 {
			t.Errorf("cell %d accumulation %d < 1", i, a)
		}
	}
}
