// Package generator synthesizes puzzles solution-first: sample a full
// board, enumerate true statements about it, then grow a constraint set
// until the solver proves exactly one assignment survives. Construction
// guarantees solvability; the uniqueness loop supplies the rest.
package generator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/SilasReinagel/SchrodingersShapes/internal/rng"
	"github.com/SilasReinagel/SchrodingersShapes/internal/shapes"
	"github.com/SilasReinagel/SchrodingersShapes/internal/solver"
)

const (
	// serialAttempts bounds how many candidate solution boards the
	// serial path tries before giving up.
	serialAttempts = 50

	// parallelWorkers and parallelAttempts bound the parallel path:
	// four workers, fifteen candidates each.
	parallelWorkers  = 4
	parallelAttempts = 15

	// parallelThreshold is the cell count at which generation goes
	// parallel. Small boards finish faster than workers spin up.
	parallelThreshold = 12

	// workerSeedStride separates worker RNG streams.
	workerSeedStride = 1000

	// solutionCap: one solution past unique is all the oracle needs.
	solutionCap = 2
)

// ErrNoUniquePuzzle reports that no uniquely-solvable puzzle was found
// within the retry budget.
var ErrNoUniquePuzzle = errors.New("generator: no unique puzzle within retry budget")

// ErrBadConfig reports an unusable generation config.
var ErrBadConfig = errors.New("generator: invalid config")

// Generator runs generation under one config. The logger is a debug
// observer; the zero value logs nowhere.
type Generator struct {
	cfg Config
	log zerolog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger injects a debug logger for generation diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// New builds a Generator for cfg.
func New(cfg Config, opts ...Option) *Generator {
	g := &Generator{cfg: cfg, log: zerolog.Nop()}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate produces a puzzle with exactly one solution, or
// ErrNoUniquePuzzle if the retry budget runs dry. Serial generation is
// fully determined by the seed; the parallel path used for large boards
// returns some successful worker's puzzle, which may vary with
// scheduling. Set cfg.Serial to pin large-board output to the seed.
func Generate(cfg Config, seed uint64) (*shapes.Puzzle, error) {
	return New(cfg).Generate(seed)
}

// Quick generates with the default config for a difficulty level.
func Quick(level int, seed uint64) (*shapes.Puzzle, error) {
	return Generate(DefaultConfig(level), seed)
}

// ValidateUnique re-checks a finished puzzle with the solver.
func ValidateUnique(p *shapes.Puzzle) bool {
	return solver.HasUniqueSolution(p)
}

// Generate runs generation with this generator's config.
func (g *Generator) Generate(seed uint64) (*shapes.Puzzle, error) {
	cfg := g.cfg
	if cfg.Width < 1 || cfg.Width > shapes.MaxWidth ||
		cfg.Height < 1 || cfg.Height > shapes.MaxHeight {
		return nil, fmt.Errorf("%w: %dx%d board", ErrBadConfig, cfg.Width, cfg.Height)
	}
	if cfg.MaxConstraints > shapes.MaxConstraints {
		return nil, fmt.Errorf("%w: max constraints %d", ErrBadConfig, cfg.MaxConstraints)
	}

	if cfg.Width*cfg.Height >= parallelThreshold && !cfg.Serial {
		return g.generateParallel(seed)
	}

	r := rng.New(seed)
	ctx := solver.NewContext()
	for attempt := 0; attempt < serialAttempts; attempt++ {
		p, ok := g.attempt(r, ctx)
		if ok {
			g.log.Debug().Int("attempt", attempt+1).Int("constraints", len(p.Constraints)).
				Msg("generated unique puzzle")
			OptimizeConstraints(p, seed)
			return p, nil
		}
	}
	return nil, ErrNoUniquePuzzle
}

// generateParallel fans candidates across workers, each with a private
// RNG stream and solver context. The first success wins under the
// shared mutex; the rest observe the flag and bail at their next
// candidate boundary.
func (g *Generator) generateParallel(seed uint64) (*shapes.Puzzle, error) {
	var (
		mu     sync.Mutex
		found  bool
		result *shapes.Puzzle
	)

	var eg errgroup.Group
	for w := 0; w < parallelWorkers; w++ {
		worker := w
		eg.Go(func() error {
			r := rng.New(seed + uint64(worker)*workerSeedStride)
			ctx := solver.NewContext()
			for i := 0; i < parallelAttempts; i++ {
				mu.Lock()
				done := found
				mu.Unlock()
				if done {
					return nil
				}

				p, ok := g.attempt(r, ctx)
				if !ok {
					continue
				}
				mu.Lock()
				if !found {
					found = true
					result = p
				}
				mu.Unlock()
				g.log.Debug().Int("worker", worker).Int("candidate", i+1).
					Msg("worker found unique puzzle")
				return nil
			}
			return nil
		})
	}
	_ = eg.Wait()

	if result == nil {
		return nil, ErrNoUniquePuzzle
	}
	OptimizeConstraints(result, seed)
	return result, nil
}

// quotas tracks per-puzzle consumption of the gated fact kinds. Adds
// and rollbacks go through addFact/removeLastFact so every counter
// moves symmetrically.
type quotas struct {
	cellIs       int
	cellIsNotCat int
	counts       int
}

// attempt runs one full candidate: sample a solution, lock cells,
// select constraints, and ask the solver for uniqueness.
func (g *Generator) attempt(r *rng.RNG, ctx *solver.Context) (*shapes.Puzzle, bool) {
	cfg := g.cfg
	cells := cfg.Width * cfg.Height

	p, err := shapes.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, false
	}

	solution := g.sampleSolution(r)
	g.lockCells(r, solution, p)

	facts := extractFacts(cfg.Width, cfg.Height, solution)
	sortFacts(facts, cfg, r)

	var q quotas

	// The Cat census is mandatory: superposition counts are invisible
	// to every other constraint kind, so without this anchor a board of
	// extra Cats would satisfy nearly anything.
	catCount := 0
	for _, s := range solution {
		if s == shapes.Cat {
			catCount++
		}
	}
	if catCount > 0 {
		_ = p.AddConstraint(shapes.GlobalCount(shapes.Cat, shapes.OpExactly, catCount))
		q.counts++
	}

	// Bulk phase: batch the top-ranked facts before paying for a solve.
	target := cfg.MinConstraints + batchBonus(cells)
	if target > cfg.MaxConstraints {
		target = cfg.MaxConstraints
	}
	i := 0
	for ; i < len(facts) && len(p.Constraints) < target; i++ {
		if g.eligible(p, facts[i], &q) {
			g.addFact(p, facts[i], &q)
		}
	}

	switch n := g.solutionCount(p, ctx); {
	case n == 1:
		p.ResetUnlocked()
		return p, true
	case n == 0:
		// The batch over-constrained; cheaper to resample than untangle.
		return nil, false
	}

	// Tightening phase: one fact at a time, rolling back any that kill
	// the last solution, until unique or out of room.
	for ; i < len(facts) && len(p.Constraints) < cfg.MaxConstraints; i++ {
		if !g.eligible(p, facts[i], &q) {
			continue
		}
		g.addFact(p, facts[i], &q)
		switch n := g.solutionCount(p, ctx); {
		case n == 0:
			g.removeLastFact(p, facts[i], &q)
		case n == 1:
			p.ResetUnlocked()
			return p, true
		}
	}

	return nil, false
}

// sampleSolution fills the board with uniform concrete shapes, then
// stamps the required Cats at shuffled positions.
func (g *Generator) sampleSolution(r *rng.RNG) []shapes.Shape {
	cells := g.cfg.Width * g.cfg.Height
	solution := make([]shapes.Shape, cells)
	for i := range solution {
		solution[i] = shapes.Square + shapes.Shape(r.Intn(3))
	}
	if g.cfg.RequiredCats > 0 {
		order := r.Perm(cells)
		for i := 0; i < g.cfg.RequiredCats && i < cells; i++ {
			solution[order[i]] = shapes.Cat
		}
	}
	return solution
}

// lockCells pre-reveals up to MaxLockedCells concrete solution cells.
// Cat cells are never locked; revealing a superposition tells the
// player nothing worth a reveal.
func (g *Generator) lockCells(r *rng.RNG, solution []shapes.Shape, p *shapes.Puzzle) {
	p.ResetUnlocked()
	if g.cfg.MaxLockedCells <= 0 {
		return
	}
	candidates := make([]int, 0, len(solution))
	for i, s := range solution {
		if s != shapes.Cat {
			candidates = append(candidates, i)
		}
	}
	r.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	n := g.cfg.MaxLockedCells
	if n > len(candidates) {
		n = len(candidates)
	}
	for _, idx := range candidates[:n] {
		p.Board[idx] = solution[idx]
		p.Lock(idx)
	}
}

// eligible gates a fact on redundancy, locked-cell conflicts, and the
// difficulty quotas, mirroring what addFact will consume.
func (g *Generator) eligible(p *shapes.Puzzle, f fact, q *quotas) bool {
	cfg := g.cfg
	c := f.constraint()

	if c.Type == shapes.ConstraintCell {
		// Locked cells are already shown; any cell constraint there is
		// either redundant or contradicts the reveal.
		if p.Locked(p.CellIndex(int(c.X), int(c.Y))) {
			return false
		}
		if f.kind == factCellIs && q.cellIs >= cfg.MaxCellIs {
			return false
		}
		if f.kind == factCellIsNot && f.shape == shapes.Cat && q.cellIsNotCat >= cfg.MaxCellIsNotCat {
			return false
		}
	}

	// Reserve room for the count-constraint floor: a cell fact may not
	// take a slot the count quota still needs.
	if !f.isCount() && cfg.MinCountConstraints > q.counts {
		remaining := cfg.MaxConstraints - len(p.Constraints)
		if remaining <= cfg.MinCountConstraints-q.counts {
			return false
		}
	}

	for _, existing := range p.Constraints {
		if existing.SameTarget(c) {
			return false
		}
	}
	return true
}

func (g *Generator) addFact(p *shapes.Puzzle, f fact, q *quotas) {
	_ = p.AddConstraint(f.constraint())
	switch {
	case f.isCount():
		q.counts++
	case f.kind == factCellIs:
		q.cellIs++
	case f.kind == factCellIsNot && f.shape == shapes.Cat:
		q.cellIsNotCat++
	}
}

func (g *Generator) removeLastFact(p *shapes.Puzzle, f fact, q *quotas) {
	p.Constraints = p.Constraints[:len(p.Constraints)-1]
	switch {
	case f.isCount():
		q.counts--
	case f.kind == factCellIs:
		q.cellIs--
	case f.kind == factCellIsNot && f.shape == shapes.Cat:
		q.cellIsNotCat--
	}
}

// solutionCount resets the open cells and asks the solver for up to two
// solutions: enough to distinguish none, unique, and ambiguous.
func (g *Generator) solutionCount(p *shapes.Puzzle, ctx *solver.Context) uint64 {
	p.ResetUnlocked()
	return solver.SolveEx(ctx, p, solutionCap).SolutionCount
}
