// Command shapes is the development CLI around the puzzle core:
//
//	shapes --solve --level N --seed S     generate one puzzle and solve it
//	shapes --test                         quick self-check suite
//	shapes --benchmark --level N          timed generation sweep
//	shapes --batch --count C              generation success rates per level
//	shapes --serial                       force single-threaded generation
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/SilasReinagel/SchrodingersShapes/internal/generator"
	"github.com/SilasReinagel/SchrodingersShapes/internal/rng"
	"github.com/SilasReinagel/SchrodingersShapes/internal/shapes"
	"github.com/SilasReinagel/SchrodingersShapes/internal/solver"
	"github.com/SilasReinagel/SchrodingersShapes/pkg/constants"
)

func main() {
	solveMode := flag.Bool("solve", false, "Generate and solve a puzzle")
	testMode := flag.Bool("test", false, "Run the quick self-check suite")
	benchMode := flag.Bool("benchmark", false, "Run a generation benchmark")
	batchMode := flag.Bool("batch", false, "Batch generate and validate across levels")
	level := flag.Int("level", constants.DefaultLevel, "Difficulty level (1-5)")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Generation seed")
	count := flag.Int("count", 20, "Iterations for benchmark/batch modes")
	serial := flag.Bool("serial", false, "Force serial generation (seed-deterministic output)")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	logLevel := zerolog.InfoLevel
	if *verbose {
		logLevel = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(logLevel).
		With().Timestamp().Logger()

	if *level < constants.MinLevel || *level > constants.MaxLevel {
		log.Fatal().Int("level", *level).Msg("level out of range")
	}

	switch {
	case *solveMode:
		solvePuzzle(log, *level, *seed, *serial)
	case *testMode:
		os.Exit(runSelfTests())
	case *benchMode:
		runBenchmark(*level, *seed, *count, *serial)
	case *batchMode:
		runBatch(*seed, *count, *serial)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func buildConfig(level int, serial bool) generator.Config {
	cfg := generator.DefaultConfig(level)
	cfg.Serial = serial
	return cfg
}

func solvePuzzle(log zerolog.Logger, level int, seed uint64, serial bool) {
	fmt.Printf("=== Solving Puzzle ===\nLevel: %d, Seed: %d\n\n", level, seed)

	g := generator.New(buildConfig(level, serial), generator.WithLogger(log))
	start := time.Now()
	p, err := g.Generate(seed)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate puzzle")
	}
	genTime := time.Since(start)

	fmt.Println(p)
	fmt.Printf("Constraints (%d shown of %d):\n", len(p.Display), len(p.Constraints))
	for _, c := range p.Display {
		fmt.Printf("  - %s\n", c)
	}

	result := solver.SolveEx(nil, p, 0)
	status := "unsolvable"
	if result.SolutionCount == 1 {
		status = "unique"
	} else if result.SolutionCount > 1 {
		status = "ambiguous"
	}

	fmt.Printf("\nResults:\n")
	fmt.Printf("  Solutions:    %d\n", result.SolutionCount)
	fmt.Printf("  States:       %d\n", result.StatesExplored)
	fmt.Printf("  Gen time:     %.3f ms\n", ms(genTime))
	fmt.Printf("  Solve time:   %.3f ms\n", ms(result.Duration))
	fmt.Printf("  Status:       %s\n", status)

	if solution, ok := solver.FirstSolution(nil, p); ok {
		fmt.Printf("  Solution:     %s\n", solution)
	}
}

func runBenchmark(level int, seed uint64, iterations int, serial bool) {
	cfg := buildConfig(level, serial)
	fmt.Printf("=== Benchmark Level %d (%dx%d) ===\n\n", level, cfg.Width, cfg.Height)

	var (
		generated, unique     int
		genTotal, solveTotal  time.Duration
		statesTotal           uint64
	)
	g := generator.New(cfg)
	for i := 0; i < iterations; i++ {
		s := seed + uint64(i)
		start := time.Now()
		p, err := g.Generate(s)
		if err != nil {
			fmt.Printf("  seed %d: generation failed\n", s)
			continue
		}
		genTotal += time.Since(start)
		generated++

		result := solver.SolveEx(nil, p, constants.SolutionCountLimit)
		solveTotal += result.Duration
		statesTotal += result.StatesExplored
		if result.SolutionCount == 1 {
			unique++
		} else {
			fmt.Printf("  seed %d: %d solutions\n", s, result.SolutionCount)
		}
	}

	fmt.Printf("\nResults:\n")
	fmt.Printf("  Generated:    %d/%d puzzles\n", generated, iterations)
	if generated > 0 {
		fmt.Printf("  Unique:       %d/%d (%.1f%%)\n", unique, generated,
			100*float64(unique)/float64(generated))
		fmt.Printf("  Avg gen time: %.3f ms\n", ms(genTotal)/float64(generated))
		fmt.Printf("  Avg solve:    %.3f ms\n", ms(solveTotal)/float64(generated))
		fmt.Printf("  Avg states:   %d\n", statesTotal/uint64(generated))
	}
}

func runBatch(seed uint64, count int, serial bool) {
	fmt.Printf("=== Batch Validation ===\n\n")
	for level := constants.MinLevel; level <= constants.MaxLevel; level++ {
		g := generator.New(buildConfig(level, serial))
		ok, uniq := 0, 0
		start := time.Now()
		for i := 0; i < count; i++ {
			p, err := g.Generate(seed + uint64(level*10000+i))
			if err != nil {
				continue
			}
			ok++
			if generator.ValidateUnique(p) {
				uniq++
			}
		}
		fmt.Printf("  Level %d: generated %d/%d, unique %d/%d (%.1f ms total)\n",
			level, ok, count, uniq, ok, ms(time.Since(start)))
	}
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

// runSelfTests is a quick smoke suite for builds without the full test
// harness. Returns a process exit code.
func runSelfTests() int {
	passed, failed := 0, 0
	check := func(name string, ok bool) {
		if ok {
			passed++
			fmt.Printf("  %-44s PASS\n", name)
		} else {
			failed++
			fmt.Printf("  %-44s FAIL\n", name)
		}
	}

	fmt.Printf("=== Self Tests ===\n\n")

	r1, r2 := rng.New(12345), rng.New(12345)
	same := true
	for i := 0; i < 100; i++ {
		if r1.Next() != r2.Next() {
			same = false
			break
		}
	}
	check("rng: identical seeds, identical streams", same)

	p, err := shapes.New(2, 2)
	valid := err == nil
	if valid {
		_ = p.AddConstraint(shapes.GlobalCount(shapes.Square, shapes.OpExactly, 2))
		valid = p.SetBoardString("SOTS") == nil && solver.Validate(p)
	}
	check("solver: validates a known board", valid)

	q, err := generator.Quick(1, 42)
	check("generator: level 1 produces a puzzle", err == nil)
	check("generator: level 1 puzzle is unique", err == nil && generator.ValidateUnique(q))

	unique := 0
	for s := uint64(0); s < 5; s++ {
		if gp, err := generator.Quick(2, s); err == nil && solver.HasUniqueSolution(gp) {
			unique++
		}
	}
	check("generator: level 2 uniqueness sweep", unique == 5)

	fmt.Printf("\nResults: %d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}
