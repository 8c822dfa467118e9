package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// sessionVersion tags the token payload layout; verification rejects
// claims minted under a different layout.
const sessionVersion = 1

var (
	errTokenMalformed = errors.New("session token malformed")
	errTokenSignature = errors.New("session token signature mismatch")
	errTokenExpired   = errors.New("session token expired")
)

// SessionToken is the signed claim handed to a client when it starts a
// puzzle: which bank puzzle (if any) the seed resolved to, the seed and
// level the board was derived from, and the window in which a finish
// may be submitted. The server stores nothing; the claim is the session.
type SessionToken struct {
	Version   int       `json:"v"`
	DeviceID  string    `json:"device_id"`
	PuzzleID  string    `json:"puzzle_id,omitempty"`
	Seed      string    `json:"seed"`
	Level     int       `json:"level"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func signPayload(secret string, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// createToken signs a session claim as "<payload>.<mac>", both parts
// unpadded URL-safe base64.
func createToken(secret string, session SessionToken) (string, error) {
	session.Version = sessionVersion
	payload, err := json.Marshal(session)
	if err != nil {
		return "", err
	}
	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + signPayload(secret, body), nil
}

// verifyToken checks the signature before touching the payload, then
// decodes and validates the claim.
func verifyToken(secret, token string) (*SessionToken, error) {
	body, mac, ok := strings.Cut(token, ".")
	if !ok || body == "" || mac == "" {
		return nil, errTokenMalformed
	}

	// hmac.Equal is constant-time; the MAC is recomputed rather than
	// decoded so a forged token never reaches the JSON layer.
	if !hmac.Equal([]byte(mac), []byte(signPayload(secret, body))) {
		return nil, errTokenSignature
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errTokenMalformed, err)
	}
	var session SessionToken
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", errTokenMalformed, err)
	}
	if session.Version != sessionVersion {
		return nil, fmt.Errorf("%w: version %d", errTokenMalformed, session.Version)
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, errTokenExpired
	}
	return &session, nil
}
