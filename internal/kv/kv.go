// Package kv defines the durable local key-value store that holds auth
// tokens, the cached user profile, and per-submission countdown timers.
package kv

import (
	"context"
	"strconv"
)

// Store abstracts how local state is persisted (in-memory, Redis, file).
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Well-known keys. Auth keys are cleared together on logout; timer keys are
// cleared one at a time when their submission completes.
const (
	KeyAccessToken  = "auth:access"
	KeyRefreshToken = "auth:refresh"
	KeyProfile      = "auth:profile"
)

// TimerKey returns the key holding the remaining seconds for a submission.
func TimerKey(submissionID int64) string {
	return "quiz:timer:" + strconv.FormatInt(submissionID, 10)
}

// AuthKeys lists every key cleared on logout.
func AuthKeys() []string {
	return []string{KeyAccessToken, KeyRefreshToken, KeyProfile}
}
