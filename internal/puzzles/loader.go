// Package puzzles loads pre-generated puzzle banks. Generating the
// harder levels on demand is too slow for request paths, so a bank is
// produced offline (cmd/generate) and mapped deterministically onto
// seeds and calendar dates here.
package puzzles

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SilasReinagel/SchrodingersShapes/internal/shapes"
	"github.com/SilasReinagel/SchrodingersShapes/pkg/constants"
)

// CompactPuzzle stores one puzzle in minimal JSON form. The solution
// board is a letter string (one of C/S/O/T per cell); constraints are
// the display set plus the solver set needed for re-validation.
type CompactPuzzle struct {
	ID       string              `json:"id,omitempty"`
	Width    int                 `json:"w"`
	Height   int                 `json:"h"`
	Level    int                 `json:"level"`
	Solution string              `json:"s"`
	Locked   []int               `json:"locked,omitempty"`
	Solver   []shapes.Constraint `json:"constraints"`
	Display  []shapes.Constraint `json:"display,omitempty"`
}

// PuzzleFile is the top-level structure of the bank file.
type PuzzleFile struct {
	Version int             `json:"version"`
	Count   int             `json:"count"`
	Puzzles []CompactPuzzle `json:"puzzles"`
}

// Loader serves puzzles from a loaded bank. Safe for concurrent reads.
type Loader struct {
	puzzles []CompactPuzzle
	byLevel map[int][]int
	mu      sync.RWMutex
}

var (
	globalLoader *Loader
	loadOnce     sync.Once
	loadErr      error
)

// Load reads a puzzle bank from disk. Puzzles without an ID are minted one.
func Load(path string) (*Loader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read puzzle file: %w", err)
	}

	var file PuzzleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse puzzle file: %w", err)
	}
	if file.Version != constants.PuzzleFileVersion {
		return nil, fmt.Errorf("unsupported puzzle file version %d", file.Version)
	}

	return NewLoaderFromPuzzles(file.Puzzles), nil
}

// LoadGlobal loads the bank into the global loader (singleton).
func LoadGlobal(path string) error {
	loadOnce.Do(func() {
		globalLoader, loadErr = Load(path)
	})
	return loadErr
}

// Global returns the global loader instance, nil if none loaded.
func Global() *Loader {
	return globalLoader
}

// SetGlobal sets the global loader instance (for testing).
func SetGlobal(l *Loader) {
	globalLoader = l
}

// NewLoaderFromPuzzles creates a loader from in-memory puzzle data.
func NewLoaderFromPuzzles(ps []CompactPuzzle) *Loader {
	l := &Loader{puzzles: ps, byLevel: make(map[int][]int)}
	for i := range l.puzzles {
		if l.puzzles[i].ID == "" {
			l.puzzles[i].ID = uuid.NewString()
		}
		l.byLevel[l.puzzles[i].Level] = append(l.byLevel[l.puzzles[i].Level], i)
	}
	return l
}

// Count returns the number of puzzles in the bank.
func (l *Loader) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.puzzles)
}

// CountByLevel returns how many bank puzzles carry the given level.
func (l *Loader) CountByLevel(level int) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byLevel[level])
}

// GetPuzzle returns a bank puzzle by absolute index.
func (l *Loader) GetPuzzle(index int) (CompactPuzzle, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index < 0 || index >= len(l.puzzles) {
		return CompactPuzzle{}, fmt.Errorf("puzzle index %d out of range (0-%d)", index, len(l.puzzles)-1)
	}
	return l.puzzles[index], nil
}

// GetPuzzleBySeed maps a seed string onto the bank for one level via
// FNV hashing, so the same seed always lands on the same puzzle.
func (l *Loader) GetPuzzleBySeed(seed string, level int) (CompactPuzzle, int, error) {
	l.mu.RLock()
	indices := l.byLevel[level]
	l.mu.RUnlock()

	if len(indices) == 0 {
		return CompactPuzzle{}, 0, fmt.Errorf("no puzzles loaded for level %d", level)
	}

	h := fnv.New64a()
	h.Write([]byte(seed))
	idx := indices[int(h.Sum64()%uint64(len(indices)))]

	cp, err := l.GetPuzzle(idx)
	return cp, idx, err
}

// GetDailyPuzzle returns the bank puzzle for a UTC date.
func (l *Loader) GetDailyPuzzle(date time.Time, level int) (CompactPuzzle, int, error) {
	dateStr := date.UTC().Format(constants.DateFormat)
	return l.GetPuzzleBySeed("daily:"+dateStr, level)
}

// Inflate rebuilds a solver-ready Puzzle from its compact form: locked
// cells revealed with their solution value, everything else in
// superposition.
func (cp CompactPuzzle) Inflate() (*shapes.Puzzle, error) {
	p, err := shapes.New(cp.Width, cp.Height)
	if err != nil {
		return nil, err
	}
	if err := p.SetBoardString(cp.Solution); err != nil {
		return nil, err
	}
	for _, idx := range cp.Locked {
		if idx < 0 || idx >= p.Cells() {
			return nil, fmt.Errorf("locked index %d out of range", idx)
		}
		p.Lock(idx)
	}
	p.Constraints = append([]shapes.Constraint(nil), cp.Solver...)
	p.Display = append([]shapes.Constraint(nil), cp.Display...)
	p.ResetUnlocked()
	return p, nil
}

// Compact flattens a generated puzzle and its solution board into bank form.
func Compact(p *shapes.Puzzle, solution string, level int) CompactPuzzle {
	cp := CompactPuzzle{
		ID:       uuid.NewString(),
		Width:    p.Width,
		Height:   p.Height,
		Level:    level,
		Solution: solution,
		Solver:   append([]shapes.Constraint(nil), p.Constraints...),
		Display:  append([]shapes.Constraint(nil), p.Display...),
	}
	for i := 0; i < p.Cells(); i++ {
		if p.Locked(i) {
			cp.Locked = append(cp.Locked, i)
		}
	}
	return cp
}
