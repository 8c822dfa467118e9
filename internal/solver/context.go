package solver

import "github.com/SilasReinagel/SchrodingersShapes/internal/shapes"

const (
	// CacheSize is the direct-mapped transposition table size. Power of
	// two so indexing is a mask instead of a modulo.
	CacheSize = 1 << 17
	cacheMask = CacheSize - 1

	// zobristSeed pins the Zobrist key stream so solver behavior is
	// reproducible across runs and platforms.
	zobristSeed = 0x123456789ABCDEF
)

type cacheEntry struct {
	hash  uint64
	valid bool
}

// Context bundles the allocations a solve needs: the transposition
// cache and the Zobrist key table. Creating one allocates once; a
// generator worker reuses its context across many solves. A Context
// must not be shared between goroutines.
type Context struct {
	cache   []cacheEntry
	zobrist [shapes.MaxCells][shapes.ShapeCount]uint64
}

// NewContext allocates a context with a cold cache.
func NewContext() *Context {
	ctx := &Context{cache: make([]cacheEntry, CacheSize)}
	seed := uint64(zobristSeed)
	for i := 0; i < shapes.MaxCells; i++ {
		for s := 0; s < shapes.ShapeCount; s++ {
			seed ^= seed >> 12
			seed ^= seed << 25
			seed ^= seed >> 27
			ctx.zobrist[i][s] = seed * 0x2545F4914F6CDD1D
		}
	}
	return ctx
}

// Reset clears the cache. Required between solves of different
// constraint sets: entries are keyed by board alone, so results proved
// under one constraint set must not leak into another.
func (ctx *Context) Reset() {
	for i := range ctx.cache {
		ctx.cache[i] = cacheEntry{}
	}
}

func (ctx *Context) cacheHit(hash uint64) bool {
	e := &ctx.cache[hash&cacheMask]
	return e.valid && e.hash == hash
}

func (ctx *Context) cacheAdd(hash uint64) {
	ctx.cache[hash&cacheMask] = cacheEntry{hash: hash, valid: true}
}
