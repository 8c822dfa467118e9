package http

import (
	"hash/fnv"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SilasReinagel/SchrodingersShapes/internal/generator"
	"github.com/SilasReinagel/SchrodingersShapes/internal/puzzles"
	"github.com/SilasReinagel/SchrodingersShapes/internal/solver"
	"github.com/SilasReinagel/SchrodingersShapes/pkg/config"
	"github.com/SilasReinagel/SchrodingersShapes/pkg/constants"
)

var cfg *config.Config

func RegisterRoutes(r *gin.Engine, c *config.Config) {
	cfg = c

	r.GET("/health", healthHandler)

	api := r.Group("/api")
	{
		api.GET("/daily", dailyHandler)
		api.GET("/puzzle/:seed", puzzleHandler)
		api.POST("/generate", generateHandler)
		api.POST("/solve", solveHandler)
		api.POST("/validate", validateBoardHandler)
		api.POST("/session/start", sessionStartHandler)
		api.GET("/session/verify", sessionVerifyHandler)
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": constants.APIVersion,
	})
}

// TodayUTC returns today's UTC date string
func TodayUTC() string {
	return time.Now().UTC().Format(constants.DateFormat)
}

// hashSeed maps a seed string onto the generator's 64-bit seed space.
func hashSeed(seed string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return h.Sum64()
}

func parseLevel(c *gin.Context, key string) (int, bool) {
	level := constants.DefaultLevel
	if v := c.Query(key); v != "" {
		n := 0
		for _, r := range v {
			if r < '0' || r > '9' {
				return 0, false
			}
			n = n*10 + int(r-'0')
		}
		level = n
	}
	if level < constants.MinLevel || level > constants.MaxLevel {
		return 0, false
	}
	return level, true
}

func dailyHandler(c *gin.Context) {
	dateUTC := TodayUTC()
	seed := "D" + dateUTC

	level, ok := parseLevel(c, "level")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_level"})
		return
	}

	puzzleIndex := -1
	if loader := puzzles.Global(); loader != nil {
		if _, idx, err := loader.GetDailyPuzzle(time.Now(), level); err == nil {
			puzzleIndex = idx
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"date_utc":     dateUTC,
		"seed":         seed,
		"level":        level,
		"puzzle_index": puzzleIndex,
	})
}

func puzzleHandler(c *gin.Context) {
	seed := c.Param("seed")
	level, ok := parseLevel(c, "level")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_level"})
		return
	}

	// Pre-generated bank first; fall back to on-demand generation.
	if loader := puzzles.Global(); loader != nil {
		if cp, idx, err := loader.GetPuzzleBySeed(seed, level); err == nil {
			p, err := cp.Inflate()
			if err == nil {
				c.JSON(http.StatusOK, gin.H{
					"seed":         seed,
					"puzzle_index": idx,
					"puzzle":       toPuzzleDTO(p, cp.ID, level),
				})
				return
			}
		}
	}

	p, err := generator.Quick(level, hashSeed(seed))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"seed":         seed,
		"puzzle_index": -1,
		"puzzle":       toPuzzleDTO(p, seed, level),
	})
}

type generateRequest struct {
	Level int    `json:"level"`
	Seed  uint64 `json:"seed"`
}

func generateHandler(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if req.Level < constants.MinLevel || req.Level > constants.MaxLevel {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_level"})
		return
	}

	p, err := generator.Quick(req.Level, req.Seed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"puzzle": toPuzzleDTO(p, "", req.Level),
	})
}

type solveRequest struct {
	Puzzle PuzzleDTO `json:"puzzle"`

	// MaxSolutions caps the count; zero means the uniqueness cap, not
	// unbounded, so a constraint-free board cannot pin the server.
	MaxSolutions uint64 `json:"max_solutions"`
}

func solveHandler(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	p, err := fromPuzzleDTO(req.Puzzle)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := req.MaxSolutions
	if limit == 0 {
		limit = constants.SolutionCountLimit
	}
	result := solver.SolveEx(nil, p, limit)
	c.JSON(http.StatusOK, gin.H{
		"solution_count":  result.SolutionCount,
		"states_explored": result.StatesExplored,
		"duration_ms":     float64(result.Duration.Microseconds()) / 1000.0,
		"solvable":        result.Solvable,
	})
}

func validateBoardHandler(c *gin.Context) {
	var req struct {
		Puzzle PuzzleDTO `json:"puzzle"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	p, err := fromPuzzleDTO(req.Puzzle)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": solver.Validate(p),
	})
}

type sessionStartRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
	Seed     string `json:"seed" binding:"required"`
	Level    int    `json:"level"`
}

func sessionStartHandler(c *gin.Context) {
	var req sessionStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	level := req.Level
	if level == 0 {
		level = constants.DefaultLevel
	}
	if level < constants.MinLevel || level > constants.MaxLevel {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_level"})
		return
	}

	// Bind the session to the bank puzzle this seed resolves to, when a
	// bank is loaded; on-demand puzzles are identified by seed alone.
	puzzleID := ""
	if loader := puzzles.Global(); loader != nil {
		if cp, _, err := loader.GetPuzzleBySeed(req.Seed, level); err == nil {
			puzzleID = cp.ID
		}
	}

	now := time.Now().UTC()
	expires := now.Add(constants.SessionTokenExpiry)
	token, err := createToken(cfg.SessionSecret, SessionToken{
		DeviceID:  req.DeviceID,
		PuzzleID:  puzzleID,
		Seed:      req.Seed,
		Level:     level,
		StartedAt: now,
		ExpiresAt: expires,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_creation_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"puzzle_id":  puzzleID,
		"started_at": now,
		"expires_at": expires,
	})
}

func sessionVerifyHandler(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
		return
	}
	session, err := verifyToken(cfg.SessionSecret, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"device_id":  session.DeviceID,
		"puzzle_id":  session.PuzzleID,
		"seed":       session.Seed,
		"level":      session.Level,
		"started_at": session.StartedAt,
		"expires_at": session.ExpiresAt,
	})
}
