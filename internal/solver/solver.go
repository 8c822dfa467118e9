// Package solver counts satisfying assignments of a puzzle by
// depth-first backtracking with constraint pruning, per-cell domain
// reduction, and a Zobrist-keyed transposition cache of barren subtrees.
package solver

import (
	"time"

	"github.com/SilasReinagel/SchrodingersShapes/internal/shapes"
)

// Result summarizes one solve.
type Result struct {
	SolutionCount  uint64
	StatesExplored uint64
	Duration       time.Duration
	Solvable       bool
}

// tryOrder is the value ordering at each cell: concrete shapes first,
// because committing a concrete shape tightens count constraints
// immediately, then Cat, which defers commitment and prunes poorly.
var tryOrder = [shapes.ShapeCount]shapes.Shape{
	shapes.Square, shapes.Circle, shapes.Triangle, shapes.Cat,
}

type search struct {
	p       *shapes.Puzzle
	ctx     *Context
	max     uint64
	count   uint64
	states  uint64
	total   int
	domains [shapes.MaxCells]shapes.Domain

	// capture, when non-nil, receives the first full assignment found.
	capture *[shapes.MaxCells]shapes.Shape
}

// SolveEx counts satisfying assignments, stopping once maxSolutions have
// been found (0 means unbounded). ctx may be nil, in which case a
// throwaway context is allocated. The board is mutated during search and
// restored along the backtrack path; the final board state is not
// guaranteed to equal the input.
func SolveEx(ctx *Context, p *shapes.Puzzle, maxSolutions uint64) Result {
	r, _ := solve(ctx, p, maxSolutions, nil)
	return r
}

// FirstSolution searches for one satisfying assignment and returns its
// board string. The input board is left as the solver found it on
// entry, same as SolveEx.
func FirstSolution(ctx *Context, p *shapes.Puzzle) (string, bool) {
	var board [shapes.MaxCells]shapes.Shape
	r, captured := solve(ctx, p, 1, &board)
	if !r.Solvable || !captured {
		return "", false
	}
	b := make([]byte, p.Cells())
	for i := range b {
		b[i] = board[i].Letter()
	}
	return string(b), true
}

func solve(ctx *Context, p *shapes.Puzzle, maxSolutions uint64, capture *[shapes.MaxCells]shapes.Shape) (Result, bool) {
	if p == nil {
		return Result{}, false
	}
	if ctx == nil {
		ctx = NewContext()
	} else {
		ctx.Reset()
	}
	PrecomputeMasks(p)

	s := &search{p: p, ctx: ctx, max: maxSolutions, total: p.Cells(), capture: capture}
	start := time.Now()
	if s.initDomains() {
		s.run(0)
	}
	return Result{
		SolutionCount:  s.count,
		StatesExplored: s.states,
		Duration:       time.Since(start),
		Solvable:       s.count > 0,
	}, s.count > 0 && capture != nil
}

// Solve counts all solutions with a fresh context.
func Solve(p *shapes.Puzzle) Result {
	return SolveEx(nil, p, 0)
}

// HasUniqueSolution reports whether exactly one assignment satisfies the
// puzzle. The count is capped at two, so this is much cheaper than a
// full count on multi-solution puzzles.
func HasUniqueSolution(p *shapes.Puzzle) bool {
	return SolveEx(nil, p, 2).SolutionCount == 1
}

// CountSolutions counts every satisfying assignment.
func CountSolutions(p *shapes.Puzzle) uint64 {
	return Solve(p).SolutionCount
}

// IsSolvable reports whether at least one assignment satisfies the puzzle.
func IsSolvable(p *shapes.Puzzle) bool {
	return SolveEx(nil, p, 1).Solvable
}

// Validate checks the board as-is against every constraint, with no
// search. Cat cells count as wildcards per the superposition rule.
func Validate(p *shapes.Puzzle) bool {
	if p == nil {
		return false
	}
	PrecomputeMasks(p)
	return allSatisfied(p)
}

// initDomains seeds per-cell domains from locked values and cell
// constraints. Reports false when some domain is already empty, which
// means zero solutions without any search.
func (s *search) initDomains() bool {
	p := s.p
	for i := 0; i < s.total; i++ {
		if p.Locked(i) {
			s.domains[i] = shapes.DomainOf(p.Board[i])
		} else {
			s.domains[i] = shapes.DomainAll
		}
	}
	for i := range p.Constraints {
		c := &p.Constraints[i]
		if c.Type != shapes.ConstraintCell {
			continue
		}
		idx := p.CellIndex(int(c.X), int(c.Y))
		switch c.Op {
		case shapes.OpIs:
			if c.Shape == shapes.Cat {
				s.domains[idx] &= shapes.DomainOf(shapes.Cat)
			} else {
				// Cat stays possible: a Cat cell satisfies "is X".
				s.domains[idx] &= shapes.DomainOf(c.Shape, shapes.Cat)
			}
		case shapes.OpIsNot:
			if c.Shape == shapes.Cat {
				s.domains[idx] &= shapes.DomainConcrete
			} else {
				s.domains[idx] &= shapes.DomainConcrete.Without(c.Shape)
			}
		}
		if s.domains[idx].Empty() {
			return false
		}
	}
	return true
}

func (s *search) run(idx int) {
	if s.max > 0 && s.count >= s.max {
		return
	}
	s.states++

	p := s.p
	// Locked cells and pre-committed concrete cells are not search
	// variables; skip forward to the next open cell.
	for idx < s.total && (p.Locked(idx) || p.Board[idx] != shapes.Cat) {
		idx++
	}
	if idx >= s.total {
		if allSatisfied(p) {
			s.count++
			if s.capture != nil && s.count == 1 {
				copy(s.capture[:], p.Board[:s.total])
			}
		}
		return
	}

	if hasViolated(p) {
		return
	}

	hash := s.boardHash()
	if s.ctx.cacheHit(hash) {
		// Subtree already proved barren under this constraint set.
		return
	}

	before := s.count
	dom := s.domains[idx]
	for _, sh := range tryOrder {
		if !dom.Has(sh) {
			continue
		}
		p.Board[idx] = sh
		s.run(idx + 1)
		if s.max > 0 && s.count >= s.max {
			break
		}
	}
	p.Board[idx] = shapes.Cat

	// Cache negative subtrees only. A positive subtree must stay
	// re-discoverable, and a cap-truncated one may be incomplete; in
	// both cases the counter moved.
	if s.count == before {
		s.ctx.cacheAdd(hash)
	}
}

func (s *search) boardHash() uint64 {
	var h uint64
	for i := 0; i < s.total; i++ {
		h ^= s.ctx.zobrist[i][s.p.Board[i]]
	}
	return h
}
