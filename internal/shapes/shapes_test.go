package shapes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShapeRoundTrip(t *testing.T) {
	for s := Shape(0); s < ShapeCount; s++ {
		parsed, err := ParseShape(s.Letter())
		require.NoError(t, err)
		require.Equal(t, s, parsed)
	}
	_, err := ParseShape('x')
	require.ErrorIs(t, err, ErrBadBoardString)
}

func TestConcrete(t *testing.T) {
	require.False(t, Cat.Concrete())
	require.True(t, Square.Concrete())
	require.True(t, Circle.Concrete())
	require.True(t, Triangle.Concrete())
}

func TestDomain(t *testing.T) {
	require.True(t, DomainAll.Has(Cat))
	require.False(t, DomainConcrete.Has(Cat))
	require.True(t, DomainConcrete.Has(Triangle))

	d := DomainOf(Square, Cat)
	require.True(t, d.Has(Square))
	require.True(t, d.Has(Cat))
	require.False(t, d.Has(Circle))

	require.True(t, d.Without(Square).Without(Cat).Empty())
}

func TestNewRejectsBadSizes(t *testing.T) {
	cases := []struct{ w, h int }{
		{0, 2}, {2, 0}, {7, 2}, {2, 7}, {-1, 3},
	}
	for _, tc := range cases {
		_, err := New(tc.w, tc.h)
		require.ErrorIs(t, err, ErrBadSize, "size %dx%d", tc.w, tc.h)
	}

	p, err := New(6, 6)
	require.NoError(t, err)
	require.Equal(t, 36, p.Cells())
}

func TestCellIndexMath(t *testing.T) {
	p, err := New(3, 4)
	require.NoError(t, err)
	require.Equal(t, 0, p.CellIndex(0, 0))
	require.Equal(t, 5, p.CellIndex(2, 1))
	require.Equal(t, 2, p.CellX(5))
	require.Equal(t, 1, p.CellY(5))
	require.Equal(t, 11, p.CellIndex(2, 3))
}

// TestLockedMaskLastCell verifies the top cell of a 6x6 board (index 35)
// is representable in the lock mask.
func TestLockedMaskLastCell(t *testing.T) {
	p, err := New(6, 6)
	require.NoError(t, err)
	require.False(t, p.Locked(35))
	p.Lock(35)
	require.True(t, p.Locked(35))
	require.False(t, p.Locked(34))
}

func TestResetUnlockedKeepsLockedCells(t *testing.T) {
	p, err := New(2, 2)
	require.NoError(t, err)
	p.Board[0] = Square
	p.Board[1] = Circle
	p.Lock(0)

	p.ResetUnlocked()
	require.Equal(t, Square, p.Board[0])
	require.Equal(t, Cat, p.Board[1])
	require.Equal(t, Cat, p.Board[2])
}

func TestAddConstraintLimit(t *testing.T) {
	p, err := New(2, 2)
	require.NoError(t, err)
	for i := 0; i < MaxConstraints; i++ {
		require.NoError(t, p.AddConstraint(GlobalCount(Square, OpAtMost, i%5)))
	}
	require.ErrorIs(t, p.AddConstraint(GlobalCount(Cat, OpNone, 0)), ErrTooManyConstraints)
}

func TestBoardStringRoundTrip(t *testing.T) {
	p, err := New(2, 2)
	require.NoError(t, err)
	require.NoError(t, p.SetBoardString("SOTC"))
	require.Equal(t, Square, p.At(0, 0))
	require.Equal(t, Circle, p.At(1, 0))
	require.Equal(t, Triangle, p.At(0, 1))
	require.Equal(t, Cat, p.At(1, 1))
	require.Equal(t, "SOTC", p.BoardString())

	require.Error(t, p.SetBoardString("SO"))
	require.Error(t, p.SetBoardString("SOTX"))
}

func TestCloneIsDeep(t *testing.T) {
	p, err := New(2, 2)
	require.NoError(t, err)
	require.NoError(t, p.AddConstraint(GlobalCount(Cat, OpExactly, 1)))

	q := p.Clone()
	q.Board[0] = Triangle
	q.Constraints[0].Count = 9
	require.Equal(t, Cat, p.Board[0])
	require.Equal(t, uint8(1), p.Constraints[0].Count)
}

func TestSameTargetIgnoresOp(t *testing.T) {
	a := CellIs(1, 0, Square)
	b := CellIsNot(1, 0, Square)
	c := CellIs(1, 0, Circle)
	require.True(t, a.SameTarget(b))
	require.False(t, a.SameTarget(c))

	r1 := RowCount(2, Square, OpExactly, 1)
	r2 := RowCount(2, Square, OpExactly, 3)
	r3 := RowCount(1, Square, OpExactly, 1)
	require.True(t, r1.SameTarget(r2))
	require.False(t, r1.SameTarget(r3))

	g1 := GlobalCount(Cat, OpExactly, 1)
	g2 := GlobalCount(Cat, OpNone, 0)
	require.True(t, g1.SameTarget(g2))
	require.False(t, g1.SameTarget(r1))
}

func TestConstraintString(t *testing.T) {
	require.Equal(t, "cell (1,0) is Square", CellIs(1, 0, Square).String())
	require.Equal(t, "row 2 has exactly 3 Circle", RowCount(2, Circle, OpExactly, 3).String())
	require.Equal(t, "board has exactly 1 Cat", GlobalCount(Cat, OpExactly, 1).String())
}
