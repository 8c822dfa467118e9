package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SilasReinagel/SchrodingersShapes/internal/shapes"
)

func mustPuzzle(t *testing.T, w, h int, cs ...shapes.Constraint) *shapes.Puzzle {
	t.Helper()
	p, err := shapes.New(w, h)
	require.NoError(t, err)
	for _, c := range cs {
		require.NoError(t, p.AddConstraint(c))
	}
	return p
}

// TestValidateKnownBoard: a concrete 2x2 board satisfies an exact
// global count with no Cats involved.
func TestValidateKnownBoard(t *testing.T) {
	p := mustPuzzle(t, 2, 2, shapes.GlobalCount(shapes.Square, shapes.OpExactly, 2))
	require.NoError(t, p.SetBoardString("SOTS"))
	require.True(t, Validate(p))
}

// TestValidateCatWildcard: a Cat cell counts toward any concrete target
// and satisfies any "is X".
func TestValidateCatWildcard(t *testing.T) {
	p := mustPuzzle(t, 2, 2,
		shapes.GlobalCount(shapes.Square, shapes.OpExactly, 2),
		shapes.CellIs(0, 0, shapes.Square),
	)
	// One real Square plus one Cat standing in for it.
	require.NoError(t, p.SetBoardString("CSTO"))
	require.True(t, Validate(p))

	// "is not X" is strict: a Cat there fails, since the Cat could be X.
	q := mustPuzzle(t, 2, 2, shapes.CellIsNot(0, 0, shapes.Square))
	require.NoError(t, q.SetBoardString("CSTO"))
	require.False(t, Validate(q))
}

func TestValidateCatTargetIsExact(t *testing.T) {
	// Counts targeting Cat itself count only real Cats.
	p := mustPuzzle(t, 2, 2, shapes.GlobalCount(shapes.Cat, shapes.OpExactly, 1))
	require.NoError(t, p.SetBoardString("CSTO"))
	require.True(t, Validate(p))

	require.NoError(t, p.SetBoardString("CCTO"))
	require.False(t, Validate(p))
}

func TestCountSolutionsUnconstrained(t *testing.T) {
	p := mustPuzzle(t, 2, 2)
	require.Equal(t, uint64(256), CountSolutions(p), "4 shapes ^ 4 cells")
}

func TestSolveExCapStopsEarly(t *testing.T) {
	p := mustPuzzle(t, 2, 2)
	r := SolveEx(nil, p, 2)
	require.Equal(t, uint64(2), r.SolutionCount)
	require.True(t, r.Solvable)
	require.Greater(t, r.StatesExplored, uint64(0))
}

// TestUniqueByConstruction: no Cats allowed plus an all-square census
// leaves exactly one assignment.
func TestUniqueByConstruction(t *testing.T) {
	p := mustPuzzle(t, 2, 2,
		shapes.GlobalCount(shapes.Cat, shapes.OpExactly, 0),
		shapes.GlobalCount(shapes.Square, shapes.OpExactly, 4),
	)
	require.True(t, HasUniqueSolution(p))
	require.Equal(t, uint64(1), CountSolutions(p))

	sol, ok := FirstSolution(nil, p)
	require.True(t, ok)
	require.Equal(t, "SSSS", sol)
}

func TestUnsolvable(t *testing.T) {
	p := mustPuzzle(t, 2, 2,
		shapes.GlobalCount(shapes.Cat, shapes.OpExactly, 0),
		shapes.GlobalCount(shapes.Cat, shapes.OpExactly, 1),
	)
	r := SolveEx(nil, p, 0)
	require.Zero(t, r.SolutionCount)
	require.False(t, r.Solvable)
	require.False(t, IsSolvable(p))
}

// TestEmptyDomainShortCircuits: contradictory cell constraints are
// detected before any search states are explored.
func TestEmptyDomainShortCircuits(t *testing.T) {
	p := mustPuzzle(t, 2, 2,
		shapes.CellIs(0, 0, shapes.Square),
		shapes.CellIsNot(0, 0, shapes.Square),
	)
	r := SolveEx(nil, p, 0)
	require.Zero(t, r.SolutionCount)
	require.Zero(t, r.StatesExplored)
}

func TestLockedCellsAreFixed(t *testing.T) {
	p := mustPuzzle(t, 2, 2, shapes.GlobalCount(shapes.Cat, shapes.OpExactly, 0))
	require.NoError(t, p.SetBoardString("SCCC"))
	p.Lock(0)

	// Remaining three cells range over the concrete shapes.
	require.Equal(t, uint64(27), CountSolutions(p))
}

func TestLockedConflictWithCellConstraint(t *testing.T) {
	p := mustPuzzle(t, 2, 2, shapes.CellIs(0, 0, shapes.Circle))
	require.NoError(t, p.SetBoardString("SCCC"))
	p.Lock(0)
	require.Zero(t, CountSolutions(p))
}

// TestCountBoundaries: n = 0 and n = region size are both legal and
// correctly satisfied.
func TestCountBoundaries(t *testing.T) {
	p := mustPuzzle(t, 3, 2,
		shapes.GlobalCount(shapes.Cat, shapes.OpExactly, 0),
		shapes.RowCount(0, shapes.Square, shapes.OpExactly, 3),
		shapes.RowCount(1, shapes.Square, shapes.OpExactly, 0),
		shapes.RowCount(1, shapes.Circle, shapes.OpExactly, 3),
	)
	require.True(t, HasUniqueSolution(p))
	sol, ok := FirstSolution(nil, p)
	require.True(t, ok)
	require.Equal(t, "SSSOOO", sol)
}

func TestOperators(t *testing.T) {
	cases := []struct {
		name  string
		c     shapes.Constraint
		board string
		want  bool
	}{
		{"at_least met", shapes.GlobalCount(shapes.Square, shapes.OpAtLeast, 2), "SSOT", true},
		{"at_least unmet", shapes.GlobalCount(shapes.Square, shapes.OpAtLeast, 3), "SSOT", false},
		{"at_most met", shapes.GlobalCount(shapes.Triangle, shapes.OpAtMost, 1), "SSOT", true},
		{"at_most unmet", shapes.GlobalCount(shapes.Triangle, shapes.OpAtMost, 0), "SSOT", false},
		{"none met", shapes.ColumnCount(0, shapes.Triangle, shapes.OpNone, 0), "SSOT", true},
		{"none unmet", shapes.ColumnCount(1, shapes.Circle, shapes.OpNone, 0), "SOST", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustPuzzle(t, 2, 2, tc.c)
			require.NoError(t, p.SetBoardString(tc.board))
			require.Equal(t, tc.want, Validate(p))
		})
	}
}

// TestBoardRestoredAfterSolve: search unwinds fully, so the entry board
// survives a solve.
func TestBoardRestoredAfterSolve(t *testing.T) {
	p := mustPuzzle(t, 2, 2, shapes.GlobalCount(shapes.Square, shapes.OpAtLeast, 1))
	require.NoError(t, p.SetBoardString("CCCC"))
	SolveEx(nil, p, 0)
	require.Equal(t, "CCCC", p.BoardString())
}

func TestContextReuse(t *testing.T) {
	ctx := NewContext()
	p := mustPuzzle(t, 2, 2,
		shapes.GlobalCount(shapes.Cat, shapes.OpExactly, 0),
		shapes.GlobalCount(shapes.Circle, shapes.OpExactly, 4),
	)
	r1 := SolveEx(ctx, p, 0)
	r2 := SolveEx(ctx, p, 0)
	require.Equal(t, r1.SolutionCount, r2.SolutionCount)
	require.Equal(t, r1.StatesExplored, r2.StatesExplored, "reset context must replay identically")
}

func TestSolveNilPuzzle(t *testing.T) {
	r := SolveEx(nil, nil, 0)
	require.Zero(t, r.SolutionCount)
	require.False(t, r.Solvable)
	require.False(t, Validate(nil))
}

func TestPrecomputeMasks(t *testing.T) {
	p := mustPuzzle(t, 3, 2,
		shapes.RowCount(1, shapes.Square, shapes.OpExactly, 0),
		shapes.ColumnCount(2, shapes.Square, shapes.OpExactly, 0),
		shapes.GlobalCount(shapes.Square, shapes.OpExactly, 0),
		shapes.CellIs(1, 1, shapes.Square),
	)
	PrecomputeMasks(p)
	require.Equal(t, uint64(0b111000), p.Constraints[0].CellMask, "row 1 of a 3x2 board")
	require.Equal(t, uint64(0b100100), p.Constraints[1].CellMask, "column 2")
	require.Equal(t, uint64(0b111111), p.Constraints[2].CellMask, "global")
	require.Equal(t, uint64(0b010000), p.Constraints[3].CellMask, "cell (1,1)")
}
