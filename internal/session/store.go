// Package session holds the current actor: profile, tokens, and the
// authorization predicates consulted before protected commands run.
package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"edulearn-cli/internal/api"
	"edulearn-cli/internal/domain"
	"edulearn-cli/internal/kv"
)

// AuthClient is the slice of the API the store needs.
type AuthClient interface {
	Login(ctx context.Context, creds domain.Credentials) (api.LoginResult, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Store is the single source of truth for "who is the current actor and
// what are they allowed to do". It is constructed explicitly and injected
// into consumers; state survives restarts through the kv store.
type Store struct {
	kv   kv.Store
	auth AuthClient

	mu      sync.RWMutex
	user    *domain.User
	loading bool
}

func NewStore(store kv.Store, auth AuthClient) *Store {
	return &Store{kv: store, auth: auth, loading: true}
}

// Load restores the persisted profile at startup. A missing or corrupt
// profile degrades to logged-out; no error surfaces to the caller. The
// loading flag resolves to false exactly once, whatever the outcome.
func (s *Store) Load(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	raw, ok, err := s.kv.Get(ctx, kv.KeyProfile)
	if err != nil || !ok {
		return
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Printf("session: discarding unreadable profile: %v", err)
		return
	}
	s.mu.Lock()
	s.user = withNonNilSets(&user)
	s.mu.Unlock()
}

// Loading reports whether the initial Load has not yet resolved.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Login authenticates against the backend and replaces the session
// wholesale: tokens, profile, in-memory user.
func (s *Store) Login(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	result, err := s.auth.Login(ctx, creds)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.kv.Set(ctx, kv.KeyAccessToken, result.Access); err != nil {
		return domain.User{}, err
	}
	if err := s.kv.Set(ctx, kv.KeyRefreshToken, result.Refresh); err != nil {
		return domain.User{}, err
	}
	s.SetUser(result.User)
	s.persistProfile(ctx)
	return result.User, nil
}

// SetUser replaces the in-memory user (registration response path).
// Idempotent; overwrites any prior user.
func (s *Store) SetUser(user domain.User) {
	s.mu.Lock()
	s.user = withNonNilSets(&user)
	s.mu.Unlock()
}

// Logout revokes the refresh token best-effort, then clears local state
// unconditionally. A failed revocation never blocks the logout.
func (s *Store) Logout(ctx context.Context) {
	if refresh, ok, _ := s.kv.Get(ctx, kv.KeyRefreshToken); ok && refresh != "" {
		if err := s.auth.Logout(ctx, refresh); err != nil {
			log.Printf("session: token revocation failed (ignored): %v", err)
		}
	}
	for _, key := range kv.AuthKeys() {
		if err := s.kv.Delete(ctx, key); err != nil {
			log.Printf("session: clearing %s failed: %v", key, err)
		}
	}
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// UserPatch is a partial profile update. Nil slice pointers mean "leave
// as-is"; pointers to empty slices mean "replace with empty".
type UserPatch struct {
	Username    *string
	Email       *string
	Roles       *[]domain.Role
	Permissions *[]string
}

// UpdateUser shallow-merges the patch into the current user. No-op when
// logged out.
func (s *Store) UpdateUser(ctx context.Context, patch UserPatch) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	if patch.Username != nil {
		s.user.Username = *patch.Username
	}
	if patch.Email != nil {
		s.user.Email = *patch.Email
	}
	if patch.Roles != nil {
		s.user.Roles = append([]domain.Role(nil), (*patch.Roles)...)
	}
	if patch.Permissions != nil {
		s.user.Permissions = append([]string(nil), (*patch.Permissions)...)
	}
	s.user = withNonNilSets(s.user)
	s.mu.Unlock()
	s.persistProfile(ctx)
}

// User returns the current user, if any.
func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Store) HasPermission(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	for _, p := range s.user.Permissions {
		if p == code {
			return true
		}
	}
	return false
}

func (s *Store) HasAnyPermission(codes ...string) bool {
	for _, code := range codes {
		if s.HasPermission(code) {
			return true
		}
	}
	return false
}

func (s *Store) HasAllPermissions(codes ...string) bool {
	for _, code := range codes {
		if !s.HasPermission(code) {
			return false
		}
	}
	return true
}

// HasRole compares by role name only.
func (s *Store) HasRole(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	for _, role := range s.user.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) HasAnyRole(names ...string) bool {
	for _, name := range names {
		if s.HasRole(name) {
			return true
		}
	}
	return false
}

// AccessTokenExpiry reads the exp claim from the stored access token
// without verifying the signature (the server is the verifier; this is
// only for warning the user before a doomed call).
func (s *Store) AccessTokenExpiry(ctx context.Context) (time.Time, bool) {
	token, ok, err := s.kv.Get(ctx, kv.KeyAccessToken)
	if err != nil || !ok || token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Store) persistProfile(ctx context.Context) {
	s.mu.RLock()
	user := s.user
	s.mu.RUnlock()
	if user == nil {
		return
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, kv.KeyProfile, string(raw)); err != nil {
		log.Printf("session: persisting profile failed: %v", err)
	}
}

// withNonNilSets enforces the invariant that a present user always has
// non-nil role and permission slices.
func withNonNilSets(user *domain.User) *domain.User {
	if user.Roles == nil {
		user.Roles = []domain.Role{}
	}
	if user.Permissions == nil {
		user.Permissions = []string{}
	}
	return user
}
