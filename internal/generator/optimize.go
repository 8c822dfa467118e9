package generator

import (
	"github.com/SilasReinagel/SchrodingersShapes/internal/rng"
	"github.com/SilasReinagel/SchrodingersShapes/internal/shapes"
)

// OptimizeConstraints rewrites the solver constraint list into the
// display list: drop everything a human could infer from what is
// already shown, consolidate fully-determined rows and columns into
// single counts, then shuffle for presentation. The mandatory global
// Cat census, when present, stays pinned at slot 0. Idempotent for a
// given solver list and seed.
func OptimizeConstraints(p *shapes.Puzzle, seed uint64) {
	kept := make([]shapes.Constraint, 0, len(p.Constraints))

	// The Cat census leads the display; everything else is measured
	// against what has been kept so far.
	pinnedIdx := -1
	for i, c := range p.Constraints {
		if c.Type == shapes.ConstraintGlobal && c.Op == shapes.OpExactly && c.Shape == shapes.Cat {
			pinnedIdx = i
			kept = append(kept, c)
			break
		}
	}

	for i, c := range p.Constraints {
		if i == pinnedIdx {
			continue
		}
		if redundantForDisplay(p, kept, c) {
			continue
		}
		kept = append(kept, c)
	}

	kept = consolidate(p, kept)

	r := rng.New(seed)
	start := 0
	if pinnedIdx >= 0 && len(kept) > 0 {
		start = 1
	}
	tail := kept[start:]
	r.Shuffle(len(tail), func(i, j int) { tail[i], tail[j] = tail[j], tail[i] })

	if len(kept) > shapes.MaxDisplayConstraints {
		kept = kept[:shapes.MaxDisplayConstraints]
	}
	p.Display = kept
}

// redundantForDisplay reports whether c adds nothing on top of the
// kept set and the locked cells.
func redundantForDisplay(p *shapes.Puzzle, kept []shapes.Constraint, c shapes.Constraint) bool {
	for _, k := range kept {
		if k.Equal(c) {
			return true
		}
	}

	if c.Type != shapes.ConstraintCell {
		return false
	}

	// Locked cells are rendered with their value; restating them is noise.
	if p.Locked(p.CellIndex(int(c.X), int(c.Y))) {
		return true
	}

	for _, k := range kept {
		switch k.Type {
		case shapes.ConstraintCell:
			// "is T" at this cell subsumes any "is not S" for S != T.
			if k.Op == shapes.OpIs && c.Op == shapes.OpIsNot &&
				k.X == c.X && k.Y == c.Y && k.Shape != c.Shape {
				return true
			}
		case shapes.ConstraintRow:
			if k.Index == c.Y && countImpliesCell(k, c, p.Width) {
				return true
			}
		case shapes.ConstraintColumn:
			if k.Index == c.X && countImpliesCell(k, c, p.Height) {
				return true
			}
		case shapes.ConstraintGlobal:
			if countImpliesCell(k, c, p.Cells()) {
				return true
			}
		}
	}
	return false
}

// countImpliesCell reports whether an exact region count of size
// regionSize forces the cell constraint c: a zero count implies every
// "is not", a full count implies every "is".
func countImpliesCell(k, c shapes.Constraint, regionSize int) bool {
	if k.Op != shapes.OpExactly || k.Shape != c.Shape {
		return false
	}
	if k.Count == 0 && c.Op == shapes.OpIsNot {
		return true
	}
	if int(k.Count) == regionSize && c.Op == shapes.OpIs {
		return true
	}
	return false
}

// consolidate folds cell facts into region counts. A row (or column)
// qualifies only when every one of its cells is positively determined,
// by a kept "is" constraint or a locked cell; then each shape held by
// two or more of those cells trades its cell constraints for one exact
// count on that row or column. Runs to fixpoint since folding one line can expose another.
func consolidate(p *shapes.Puzzle, kept []shapes.Constraint) []shapes.Constraint {
	for changed := true; changed; {
		changed = false
		for y := 0; y < p.Height; y++ {
			if next, ok := consolidateLine(p, kept, true, y, p.Width); ok {
				kept = next
				changed = true
			}
		}
		for x := 0; x < p.Width; x++ {
			if next, ok := consolidateLine(p, kept, false, x, p.Height); ok {
				kept = next
				changed = true
			}
		}
	}
	return kept
}

func consolidateLine(p *shapes.Puzzle, kept []shapes.Constraint, isRow bool, line, length int) ([]shapes.Constraint, bool) {
	// Positive determination per cell along the line.
	determined := make([]shapes.Shape, length)
	known := make([]bool, length)

	for pos := 0; pos < length; pos++ {
		x, y := pos, line
		if !isRow {
			x, y = line, pos
		}
		idx := p.CellIndex(x, y)
		if p.Locked(idx) {
			determined[pos] = p.Board[idx]
			known[pos] = true
		}
	}
	for _, k := range kept {
		if k.Type != shapes.ConstraintCell || k.Op != shapes.OpIs {
			continue
		}
		var pos int
		if isRow {
			if int(k.Y) != line {
				continue
			}
			pos = int(k.X)
		} else {
			if int(k.X) != line {
				continue
			}
			pos = int(k.Y)
		}
		determined[pos] = k.Shape
		known[pos] = true
	}

	for _, ok := range known {
		if !ok {
			return kept, false
		}
	}

	// Fold every shape held by >= 2 determined cells into one count.
	// Determination was computed above, before any fold, so removing one
	// shape's cell constraints cannot hide a second shape's fold in the
	// same line.
	changed := false
	for s := shapes.Shape(0); s < shapes.ShapeCount; s++ {
		n := 0
		for _, d := range determined {
			if d == s {
				n++
			}
		}
		if n < 2 {
			continue
		}

		out := kept[:0:0]
		removed := 0
		for _, k := range kept {
			if k.Type == shapes.ConstraintCell && k.Op == shapes.OpIs && k.Shape == s &&
				((isRow && int(k.Y) == line) || (!isRow && int(k.X) == line)) {
				removed++
				continue
			}
			out = append(out, k)
		}
		if removed == 0 {
			// Already consolidated (all n cells are locked); nothing to fold.
			continue
		}
		count := shapes.RowCount(line, s, shapes.OpExactly, n)
		if !isRow {
			count = shapes.ColumnCount(line, s, shapes.OpExactly, n)
		}
		dup := false
		for _, k := range out {
			if k.Equal(count) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, count)
		}
		kept = out
		changed = true
	}
	return kept, changed
}
