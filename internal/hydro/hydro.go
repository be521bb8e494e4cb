// Package hydro routes water over a square elevation raster using the
// D8 model: depressions are filled, every cell is pointed at its
// steepest downhill neighbour (flat regions resolved by a BFS sweep
// from their spill edges) and flow is accumulated down the chains.
package hydro

import (
	"math"

	"github.com/boljen/go-bitmap"
)

// Terminal marks a cell that drains off-grid or sits in a true pit.
const Terminal = -1

// neighbour offsets in fixed order: E, SE, S, SW, W, NW, N, NE.
// A cell's flow direction is an index into this table (or Terminal).
var neighbours = [8]struct {
	DX, DY int
	Dist   float64
}{
	{1, 0, 1}, {1, 1, math.Sqrt2}, {0, 1, 1}, {-1, 1, math.Sqrt2},
	{-1, 0, 1}, {-1, -1, math.Sqrt2}, {0, -1, 1}, {1, -1, math.Sqrt2},
}

// Grid is a square raster of interpolated elevations, row-major,
// CellSize metres on a side per cell.
type Grid struct {
	N        int
	Elev     []float64
	CellSize float64
}

// Flow is the routed result over a Grid.
type Flow struct {
	N          int
	Filled     []float64 // depression-filled elevations
	Dir        []int     // per-cell neighbour index, or Terminal
	Acc        []int     // per-cell accumulation, >= 1
	FillPasses int       // how many passes filling took (bounded by N²)
}

// Route runs the full D8 pipeline over the grid.
func Route(g *Grid) *Flow {
	filled, passes := Fill(g.Elev, g.N)
	dir := Directions(filled, g.N)
	acc := Accumulate(dir, g.N)
	return &Flow{N: g.N, Filled: filled, Dir: dir, Acc: acc, FillPasses: passes}
}

// Fill raises every interior pit to its 8-neighbour minimum, repeating
// until a pass changes nothing. Elevations only ever rise & are capped
// by the initial maximum, so this terminates; we still bound it at n²
// passes. Cells on the raster border are left alone - they can drain
// off-grid.
func Fill(elev []float64, n int) ([]float64, int) {
	out := make([]float64, len(elev))
	copy(out, elev)

	passes := 0
	for ; passes < n*n; passes++ {
		changed := false
		for y := 1; y < n-1; y++ {
			for x := 1; x < n-1; x++ {
				i := y*n + x
				lowest := math.Inf(1)
				for _, nb := range neighbours {
					j := (y+nb.DY)*n + (x + nb.DX)
					if out[j] < lowest {
						lowest = out[j]
					}
				}
				if out[i] < lowest {
					out[i] = lowest
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return out, passes
}

// Directions assigns each cell its steepest-descent neighbour.
// Cells with no strictly lower neighbour are either part of a flat
// region (resolved below) or terminal.
func Directions(filled []float64, n int) []int {
	dir := make([]int, n*n)
	for i := range dir {
		dir[i] = Terminal
	}

	assigned := make([]bool, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*n + x
			best := 0.0
			bestDir := Terminal
			for d, nb := range neighbours {
				nx, ny := x+nb.DX, y+nb.DY
				if nx < 0 || nx >= n || ny < 0 || ny >= n {
					continue
				}
				drop := (filled[i] - filled[ny*n+nx]) / nb.Dist
				if drop > best {
					best = drop
					bestDir = d
				}
			}
			if bestDir != Terminal {
				dir[i] = bestDir
				assigned[i] = true
			}
		}
	}

	resolveFlats(filled, dir, assigned, n)
	return dir
}

// resolveFlats sweeps each flat region from its spill edges inward.
// Seeds are cells that already have a direction & sit next to an
// unassigned cell of equal elevation; each wavefront step points the
// unassigned cell back at its predecessor, so the whole plateau drains
// towards wherever water can actually leave it. Plateaus with no spill
// edge at all (eg. a perfectly flat raster) stay terminal.
func resolveFlats(filled []float64, dir []int, assigned []bool, n int) {
	var queue []int
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*n + x
			if !assigned[i] {
				continue
			}
			if hasFlatNeighbour(filled, assigned, n, x, y) {
				queue = append(queue, i)
			}
		}
	}

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		x, y := i%n, i/n

		for d, nb := range neighbours {
			nx, ny := x+nb.DX, y+nb.DY
			if nx < 0 || nx >= n || ny < 0 || ny >= n {
				continue
			}
			j := ny*n + nx
			if assigned[j] || filled[j] != filled[i] {
				continue
			}
			// j drains towards i: the direction table is symmetric so
			// the reverse of d is d+4 mod 8
			dir[j] = (d + 4) % 8
			assigned[j] = true
			queue = append(queue, j)
		}
	}
}

func hasFlatNeighbour(filled []float64, assigned []bool, n, x, y int) bool {
	i := y*n + x
	for _, nb := range neighbours {
		nx, ny := x+nb.DX, y+nb.DY
		if nx < 0 || nx >= n || ny < 0 || ny >= n {
			continue
		}
		j := ny*n + nx
		if !assigned[j] && filled[j] == filled[i] {
			return true
		}
	}
	return false
}

// Accumulate walks every cell's flow chain, crediting each downstream
// cell. Every cell starts at 1 (it catches its own rain), so acc[i]
// ends up counting every cell draining through i, itself included,
// and a terminal cell holds the size of its whole catchment. A visited
// bitmap breaks the walk if a cell repeats - flow is acyclic after
// filling, but a bad direction field must not hang us.
func Accumulate(dir []int, n int) []int {
	acc := make([]int, n*n)
	for i := range acc {
		acc[i] = 1
	}

	visited := bitmap.New(n * n)
	touched := make([]int, 0, n)

	for start := range dir {
		touched = touched[:0]
		i := start
		for {
			if visited.Get(i) {
				break
			}
			visited.Set(i, true)
			touched = append(touched, i)

			d := dir[i]
			if d == Terminal {
				break
			}
			x, y := i%n, i/n
			nx, ny := x+neighbours[d].DX, y+neighbours[d].DY
			if nx < 0 || nx >= n || ny < 0 || ny >= n {
				break
			}
			i = ny*n + nx
			acc[i]++
		}
		for _, t := range touched {
			visited.Set(t, false)
		}
	}
	return acc
}

// Downstream returns the cell index dir points at from i, or Terminal.
func Downstream(dir []int, n, i int) int {
	d := dir[i]
	if d == Terminal {
		return Terminal
	}
	x, y := i%n, i/n
	nx, ny := x+neighbours[d].DX, y+neighbours[d].DY
	if nx < 0 || nx >= n || ny < 0 || ny >= n {
		return Terminal
	}
	return ny*n + nx
}
