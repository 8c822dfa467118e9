package shapes

import "fmt"

// ConstraintType discriminates the region a constraint applies to.
type ConstraintType uint8

const (
	ConstraintRow ConstraintType = iota
	ConstraintColumn
	ConstraintGlobal
	ConstraintCell
)

func (t ConstraintType) String() string {
	switch t {
	case ConstraintRow:
		return "row"
	case ConstraintColumn:
		return "column"
	case ConstraintGlobal:
		return "global"
	case ConstraintCell:
		return "cell"
	}
	return fmt.Sprintf("ConstraintType(%d)", uint8(t))
}

// Operator is the relation a constraint asserts.
type Operator uint8

const (
	OpExactly Operator = iota
	OpAtLeast
	OpAtMost
	OpNone
	OpIs
	OpIsNot
)

func (op Operator) String() string {
	switch op {
	case OpExactly:
		return "exactly"
	case OpAtLeast:
		return "at least"
	case OpAtMost:
		return "at most"
	case OpNone:
		return "none"
	case OpIs:
		return "is"
	case OpIsNot:
		return "is not"
	}
	return fmt.Sprintf("Operator(%d)", uint8(op))
}

// Constraint is a single declarative statement about the board. Count
// constraints (row, column, global) restrict how many cells in a region
// match a shape; cell constraints fix one cell's relation to a shape.
// CellMask caches the region bitmask and is filled by the solver's
// mask precompute pass; it is not part of the constraint's identity.
type Constraint struct {
	Type  ConstraintType `json:"type"`
	Op    Operator       `json:"op"`
	Shape Shape          `json:"shape"`
	Count uint8          `json:"count"`
	Index uint8          `json:"index"`
	X     uint8          `json:"x"`
	Y     uint8          `json:"y"`

	CellMask uint64 `json:"-"`
}

// RowCount asserts the number of cells matching s in row y.
func RowCount(y int, s Shape, op Operator, n int) Constraint {
	return Constraint{Type: ConstraintRow, Op: op, Shape: s, Count: uint8(n), Index: uint8(y)}
}

// ColumnCount asserts the number of cells matching s in column x.
func ColumnCount(x int, s Shape, op Operator, n int) Constraint {
	return Constraint{Type: ConstraintColumn, Op: op, Shape: s, Count: uint8(n), Index: uint8(x)}
}

// GlobalCount asserts the number of cells matching s on the whole board.
func GlobalCount(s Shape, op Operator, n int) Constraint {
	return Constraint{Type: ConstraintGlobal, Op: op, Shape: s, Count: uint8(n)}
}

// CellIs asserts that the cell at (x, y) holds s.
func CellIs(x, y int, s Shape) Constraint {
	return Constraint{Type: ConstraintCell, Op: OpIs, Shape: s, X: uint8(x), Y: uint8(y)}
}

// CellIsNot asserts that the cell at (x, y) does not hold s.
func CellIsNot(x, y int, s Shape) Constraint {
	return Constraint{Type: ConstraintCell, Op: OpIsNot, Shape: s, X: uint8(x), Y: uint8(y)}
}

// IsCount reports whether c is a region-count constraint.
func (c Constraint) IsCount() bool { return c.Type != ConstraintCell }

// SameTarget reports whether two constraints address the same target:
// the same shape on the same region, or the same shape on the same cell.
// The operator is deliberately ignored so that, say, an "is" and an
// "is not" on one cell and shape count as duplicates of each other.
func (c Constraint) SameTarget(o Constraint) bool {
	if c.Type != o.Type || c.Shape != o.Shape {
		return false
	}
	switch c.Type {
	case ConstraintCell:
		return c.X == o.X && c.Y == o.Y
	case ConstraintGlobal:
		return true
	default:
		return c.Index == o.Index
	}
}

// Equal reports full identity apart from the cached mask.
func (c Constraint) Equal(o Constraint) bool {
	return c.Type == o.Type && c.Op == o.Op && c.Shape == o.Shape &&
		c.Count == o.Count && c.Index == o.Index && c.X == o.X && c.Y == o.Y
}

func (c Constraint) String() string {
	switch c.Type {
	case ConstraintCell:
		return fmt.Sprintf("cell (%d,%d) %s %s", c.X, c.Y, c.Op, c.Shape)
	case ConstraintGlobal:
		return fmt.Sprintf("board has %s %d %s", c.Op, c.Count, c.Shape)
	case ConstraintRow:
		return fmt.Sprintf("row %d has %s %d %s", c.Index, c.Op, c.Count, c.Shape)
	default:
		return fmt.Sprintf("column %d has %s %d %s", c.Index, c.Op, c.Count, c.Shape)
	}
}
