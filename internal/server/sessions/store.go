// Package sessions implements the session-token store behind bearer
// authentication. Two backends exist: a process-local in-memory map (single
// instance only) and a shared Redis store whose native TTL handles expiry.
// Switching backends does not change the contract.
package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/dmitrijs2005/recipebox/internal/shared"
)

// tokenBytes is the number of random bytes per session token; hex-encoded
// tokens are twice as long.
const tokenBytes = 32

// Store issues, resolves, and revokes opaque session tokens.
//
// Expiration is enforced by the backend itself, so an expired token and a
// revoked token are indistinguishable to callers: both make Resolve return
// common.ErrInvalidToken.
type Store interface {
	// Issue creates a new token bound to userID with the configured TTL.
	Issue(ctx context.Context, userID string) (string, error)

	// Resolve returns the user id a token was issued to, or
	// common.ErrInvalidToken if the token is absent, revoked, or expired.
	Resolve(ctx context.Context, token string) (string, error)

	// Revoke invalidates a token before its TTL elapses. Revoking an unknown
	// token is not an error.
	Revoke(ctx context.Context, token string) error

	// Close releases backend resources.
	Close() error
}

// newToken generates an opaque session token.
func newToken() (string, error) {
	return shared.MakeRandHexString(tokenBytes)
}

// NewFromConfig selects the backend at process start based on configuration.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Store, error) {
	ttl := cfg.SessionTTL()
	switch cfg.SessionBackend {
	case config.SessionBackendMemory:
		return NewMemoryStore(ttl), nil
	case config.SessionBackendRedis:
		return NewRedisStore(ctx, cfg.RedisURL, cfg.SessionKeyPrefix, ttl)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

// timeNow is a seam for tests that exercise memory-store expiry.
var timeNow = time.Now
