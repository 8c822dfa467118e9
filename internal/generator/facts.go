package generator

import (
	"sort"

	"github.com/SilasReinagel/SchrodingersShapes/internal/rng"
	"github.com/SilasReinagel/SchrodingersShapes/internal/shapes"
)

// A fact is one true statement about a solution board, a candidate
// constraint. Every fact holds an exact count or a cell relation read
// straight off the solution.
type factKind uint8

const (
	factRowCount factKind = iota
	factColCount
	factGlobalCount
	factCellIs
	factCellIsNot
)

type fact struct {
	kind  factKind
	shape shapes.Shape
	count uint8
	index uint8 // row or column index
	x, y  uint8 // cell coordinates
}

func (f fact) isCount() bool {
	return f.kind == factRowCount || f.kind == factColCount || f.kind == factGlobalCount
}

func (f fact) constraint() shapes.Constraint {
	switch f.kind {
	case factRowCount:
		return shapes.RowCount(int(f.index), f.shape, shapes.OpExactly, int(f.count))
	case factColCount:
		return shapes.ColumnCount(int(f.index), f.shape, shapes.OpExactly, int(f.count))
	case factGlobalCount:
		return shapes.GlobalCount(f.shape, shapes.OpExactly, int(f.count))
	case factCellIs:
		return shapes.CellIs(int(f.x), int(f.y), f.shape)
	default:
		return shapes.CellIsNot(int(f.x), int(f.y), f.shape)
	}
}

// extractFacts enumerates every true statement about a solution board:
// global, row and column exact counts for each shape, plus one "is" and
// three "is not" facts per cell.
func extractFacts(width, height int, solution []shapes.Shape) []fact {
	cells := width * height
	facts := make([]fact, 0, 4*(1+width+height)+4*cells)

	for s := shapes.Shape(0); s < shapes.ShapeCount; s++ {
		n := 0
		for i := 0; i < cells; i++ {
			if solution[i] == s {
				n++
			}
		}
		facts = append(facts, fact{kind: factGlobalCount, shape: s, count: uint8(n)})
	}

	for y := 0; y < height; y++ {
		for s := shapes.Shape(0); s < shapes.ShapeCount; s++ {
			n := 0
			for x := 0; x < width; x++ {
				if solution[y*width+x] == s {
					n++
				}
			}
			facts = append(facts, fact{kind: factRowCount, shape: s, count: uint8(n), index: uint8(y)})
		}
	}

	for x := 0; x < width; x++ {
		for s := shapes.Shape(0); s < shapes.ShapeCount; s++ {
			n := 0
			for y := 0; y < height; y++ {
				if solution[y*width+x] == s {
					n++
				}
			}
			facts = append(facts, fact{kind: factColCount, shape: s, count: uint8(n), index: uint8(x)})
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cell := solution[y*width+x]
			facts = append(facts, fact{kind: factCellIs, shape: cell, x: uint8(x), y: uint8(y)})
			for s := shapes.Shape(0); s < shapes.ShapeCount; s++ {
				if s != cell {
					facts = append(facts, fact{kind: factCellIsNot, shape: s, x: uint8(x), y: uint8(y)})
				}
			}
		}
	}

	return facts
}

// scoreFact biases selection toward facts that force deductions. Region
// counts dominate; edge counts (empty or full regions) score extra.
// Cell reveals sit at the bottom so the quota gates rarely matter early.
func scoreFact(f fact, cfg Config) int {
	switch f.kind {
	case factRowCount, factColCount:
		length := cfg.Width
		if f.kind == factColCount {
			length = cfg.Height
		}
		score := 100
		switch {
		case f.count == 0:
			score += 30
		case int(f.count) == length:
			score += 20
		default:
			score += 15
		}
		return score
	case factGlobalCount:
		score := 70
		switch {
		case f.count == 0:
			score += 40
		case int(f.count) == cfg.Width*cfg.Height:
			score += 30
		}
		return score
	case factCellIsNot:
		if f.shape == shapes.Cat {
			return 30
		}
		return 60
	default: // factCellIs
		if f.shape == shapes.Cat {
			return 10
		}
		return 20
	}
}

// sortFacts orders facts by jittered score, descending. The sort is
// stable so ties keep extraction order, which keeps a seed's output
// deterministic.
func sortFacts(facts []fact, cfg Config, r *rng.RNG) {
	type scored struct {
		f     fact
		score int
	}
	ranked := make([]scored, len(facts))
	for i, f := range facts {
		ranked[i] = scored{f: f, score: scoreFact(f, cfg) + r.Intn(40)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	for i, s := range ranked {
		facts[i] = s.f
	}
}
