package config

import (
	"fmt"
	"os"

	"github.com/SilasReinagel/SchrodingersShapes/pkg/constants"
)

// Config carries the process-level settings for the API server.
type Config struct {
	SessionSecret string
	Port          string
	PuzzlesFile   string
}

// minSecretLen guards against trivially brute-forceable HMAC keys.
const minSecretLen = 32

// Load reads configuration from the environment. The session secret is
// mandatory: every session token is signed with it, so a missing,
// placeholder, or short SESSION_SECRET fails startup instead of
// shipping forgeable tokens.
func Load() (*Config, error) {
	secret := os.Getenv("SESSION_SECRET")
	switch {
	case secret == "":
		return nil, fmt.Errorf("SESSION_SECRET is not set")
	case secret == "changeme" || secret == "secret":
		return nil, fmt.Errorf("SESSION_SECRET is a placeholder value, set a real secret")
	case len(secret) < minSecretLen:
		return nil, fmt.Errorf("SESSION_SECRET is %d characters, need at least %d", len(secret), minSecretLen)
	}

	return &Config{
		SessionSecret: secret,
		Port:          envOr("PORT", constants.DefaultPort),
		PuzzlesFile:   envOr("PUZZLES_FILE", "/data/puzzles.json"),
	}, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
