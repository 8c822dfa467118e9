package constants

import "time"

// Difficulty levels
const (
	MinLevel     = 1
	MaxLevel     = 5
	DefaultLevel = 2
)

// Solver limits
const (
	// SolutionCountLimit is the cap used by uniqueness checks: one
	// solution past unique is all that matters.
	SolutionCountLimit = 2
)

// Puzzle bank
const (
	PuzzleFileVersion = 1
)

// Session
const (
	SessionTokenExpiry = 24 * time.Hour
)

// API version
const APIVersion = "1.0.0"

// Default ports
const DefaultPort = "8080"

// Date format
const DateFormat = "2006-01-02"
