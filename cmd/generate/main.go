// Batch pre-generation tool: fills a puzzle bank file that the server
// loads at startup, so request paths never pay for generation.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/SilasReinagel/SchrodingersShapes/internal/generator"
	"github.com/SilasReinagel/SchrodingersShapes/internal/puzzles"
	"github.com/SilasReinagel/SchrodingersShapes/internal/solver"
	"github.com/SilasReinagel/SchrodingersShapes/pkg/constants"
)

func main() {
	count := flag.Int("n", 1000, "Number of puzzles to generate per level")
	output := flag.String("o", "puzzles.json", "Output file path")
	workers := flag.Int("w", 0, "Number of worker goroutines (default: num CPUs)")
	startSeed := flag.Uint64("seed", 1, "Starting seed value")
	level := flag.Int("level", 0, "Single level to generate (default: all levels)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *workers <= 0 {
		*workers = runtime.NumCPU()
	}
	if *level != 0 && (*level < constants.MinLevel || *level > constants.MaxLevel) {
		log.Fatal().Int("level", *level).Msg("level out of range")
	}

	levels := []int{*level}
	if *level == 0 {
		levels = levels[:0]
		for l := constants.MinLevel; l <= constants.MaxLevel; l++ {
			levels = append(levels, l)
		}
	}

	total := *count * len(levels)
	log.Info().Int("count", total).Int("workers", *workers).Msg("generating puzzles")
	start := time.Now()

	type job struct {
		index int
		level int
		seed  uint64
	}
	work := make(chan job, total)
	idx := 0
	for _, l := range levels {
		for i := 0; i < *count; i++ {
			work <- job{index: idx, level: l, seed: *startSeed + uint64(idx)}
			idx++
		}
	}
	close(work)

	bank := make([]puzzles.CompactPuzzle, total)
	var generated, failed int64

	// Progress reporter
	done := make(chan bool)
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g := atomic.LoadInt64(&generated)
				elapsed := time.Since(start)
				rate := float64(g) / elapsed.Seconds()
				log.Info().Int64("done", g).Int("total", total).
					Float64("per_sec", rate).Msg("progress")
			case <-done:
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range work {
				cp, ok := generateOne(j.level, j.seed)
				if !ok {
					atomic.AddInt64(&failed, 1)
					continue
				}
				bank[j.index] = cp
				atomic.AddInt64(&generated, 1)
			}
		}()
	}

	wg.Wait()
	done <- true

	// Drop any failed slots before writing.
	out := bank[:0]
	for _, cp := range bank {
		if cp.Solution != "" {
			out = append(out, cp)
		}
	}

	elapsed := time.Since(start)
	log.Info().Int("generated", len(out)).Int64("failed", failed).
		Dur("elapsed", elapsed).Msg("generation complete")

	file := puzzles.PuzzleFile{
		Version: constants.PuzzleFileVersion,
		Count:   len(out),
		Puzzles: out,
	}

	data, err := json.Marshal(file)
	if err != nil {
		log.Fatal().Err(err).Msg("marshaling puzzle bank")
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		log.Fatal().Err(err).Msg("writing puzzle bank")
	}

	info, _ := os.Stat(*output)
	log.Info().Str("path", *output).Int64("bytes", info.Size()).Msg("done")
}

// generateOne builds a single bank entry: generate, recover the unique
// solution, and flatten.
func generateOne(level int, seed uint64) (puzzles.CompactPuzzle, bool) {
	cfg := generator.DefaultConfig(level)
	// Workers already saturate the CPU; keep each generation serial so
	// a bank puzzle (everything but its minted ID) is a pure function
	// of its seed.
	cfg.Serial = true

	p, err := generator.Generate(cfg, seed)
	if err != nil {
		return puzzles.CompactPuzzle{}, false
	}

	solution, ok := solver.FirstSolution(nil, p)
	if !ok {
		return puzzles.CompactPuzzle{}, false
	}
	p.ResetUnlocked()
	return puzzles.Compact(p, solution, level), true
}
