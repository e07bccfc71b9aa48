// Package session provides login sessions for the sketchgraph service.
//
// A session identifies who owns a diagram while the editor is served
// over HTTP, and backs the CLI login/logout/whoami commands. Two
// backends are provided:
//   - file: JSON files under the config directory, for single-user CLI use
//   - redis: Redis-backed storage for multi-instance deployments
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// ErrExpired is returned when a session exists but has exceeded its TTL.
var ErrExpired = errors.New("session expired")

// DefaultTTL is the default session duration.
const DefaultTTL = 30 * 24 * time.Hour

// User identifies the session owner.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Session stores an authenticated user's token and identity.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	// Returns nil, ErrExpired if the session exists but has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op where the backend
	// expires keys itself).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// New creates a session for the given user and token.
func New(token string, user User, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        id,
		Token:     token,
		User:      user,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}
