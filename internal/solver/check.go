package solver

import (
	"math/bits"

	"github.com/SilasReinagel/SchrodingersShapes/internal/shapes"
)

// PrecomputeMasks fills each solver constraint's region bitmask. Called
// once per solve; region iteration afterwards is a popcount loop.
func PrecomputeMasks(p *shapes.Puzzle) {
	for i := range p.Constraints {
		c := &p.Constraints[i]
		c.CellMask = 0
		switch c.Type {
		case shapes.ConstraintGlobal:
			c.CellMask = 1<<p.Cells() - 1
		case shapes.ConstraintRow:
			for x := 0; x < p.Width; x++ {
				c.CellMask |= 1 << p.CellIndex(x, int(c.Index))
			}
		case shapes.ConstraintColumn:
			for y := 0; y < p.Height; y++ {
				c.CellMask |= 1 << p.CellIndex(int(c.Index), y)
			}
		case shapes.ConstraintCell:
			c.CellMask = 1 << p.CellIndex(int(c.X), int(c.Y))
		}
	}
}

// countMatching counts cells in the mask region that match target under
// the superposition rule: a Cat cell matches any concrete target.
func countMatching(p *shapes.Puzzle, mask uint64, target shapes.Shape) int {
	count := 0
	for mask != 0 {
		idx := bits.TrailingZeros64(mask)
		mask &= mask - 1
		cell := p.Board[idx]
		if cell == target || (target != shapes.Cat && cell == shapes.Cat) {
			count++
		}
	}
	return count
}

// countCommitted counts exact matches and Cats separately. Cats are
// counted apart because a Cat cell may still become anything: committed
// is the floor of the final count, committed+cats the ceiling.
func countCommitted(p *shapes.Puzzle, mask uint64, target shapes.Shape) (committed, cats int) {
	for mask != 0 {
		idx := bits.TrailingZeros64(mask)
		mask &= mask - 1
		switch p.Board[idx] {
		case target:
			committed++
		case shapes.Cat:
			cats++
		}
	}
	return committed, cats
}

// checkConstraint evaluates one constraint against a fully-assigned board.
func checkConstraint(p *shapes.Puzzle, c *shapes.Constraint) bool {
	if c.Type == shapes.ConstraintCell {
		cell := p.At(int(c.X), int(c.Y))
		if c.Op == shapes.OpIs {
			if c.Shape == shapes.Cat {
				return cell == shapes.Cat
			}
			// Cat satisfies "is X" for any concrete X.
			return cell == c.Shape || cell == shapes.Cat
		}
		if c.Shape == shapes.Cat {
			return cell != shapes.Cat
		}
		// "is not X": the cell may be neither X nor Cat, since a Cat
		// stands in for X.
		return cell != c.Shape && cell != shapes.Cat
	}

	count := countMatching(p, c.CellMask, c.Shape)
	switch c.Op {
	case shapes.OpExactly:
		return count == int(c.Count)
	case shapes.OpAtLeast:
		return count >= int(c.Count)
	case shapes.OpAtMost:
		return count <= int(c.Count)
	case shapes.OpNone:
		return count == 0
	}
	return false
}

func allSatisfied(p *shapes.Puzzle) bool {
	for i := range p.Constraints {
		if !checkConstraint(p, &p.Constraints[i]) {
			return false
		}
	}
	return true
}

// hasViolated reports whether some constraint is already beyond repair,
// letting search prune the subtree. Cat-target count constraints are
// skipped: a Cat on the board may be a pending cell rather than a
// committed Cat, so no bound can be trusted for them.
func hasViolated(p *shapes.Puzzle) bool {
	for i := range p.Constraints {
		c := &p.Constraints[i]
		if c.Type == shapes.ConstraintCell {
			cell := p.At(int(c.X), int(c.Y))
			if cell == shapes.Cat {
				continue
			}
			switch c.Op {
			case shapes.OpIsNot:
				if cell == c.Shape {
					return true
				}
			case shapes.OpIs:
				if c.Shape != shapes.Cat && cell != c.Shape {
					return true
				}
			}
			continue
		}

		if c.Shape == shapes.Cat {
			continue
		}
		committed, cats := countCommitted(p, c.CellMask, c.Shape)
		maxPossible := committed + cats
		n := int(c.Count)
		switch c.Op {
		case shapes.OpExactly:
			if committed > n || maxPossible < n {
				return true
			}
		case shapes.OpAtLeast:
			if maxPossible < n {
				return true
			}
		case shapes.OpAtMost:
			if committed > n {
				return true
			}
		case shapes.OpNone:
			if committed > 0 {
				return true
			}
		}
	}
	return false
}
