package session_test

import (
	"context"
	"errors"
	"testing"

	"edulearn-cli/internal/api"
	"edulearn-cli/internal/domain"
	"edulearn-cli/internal/kv"
	"edulearn-cli/internal/kv/memory"
	"edulearn-cli/internal/session"
)

type fakeAuth struct {
	loginResult api.LoginResult
	loginErr    error
	logoutErr   error
	logoutCalls int
}

func (f *fakeAuth) Login(_ context.Context, _ domain.Credentials) (api.LoginResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeAuth) Logout(_ context.Context, _ string) error {
	f.logoutCalls++
	return f.logoutErr
}

func TestLoadRestoresPersistedProfile(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_ = store.Set(ctx, kv.KeyProfile, `{"id":1,"username":"alice","roles":[{"name":"student"}],"permissions":["quiz.take"]}`)

	s := session.NewStore(store, &fakeAuth{})
	if !s.Loading() {
		t.Fatalf("expected loading before Load")
	}
	s.Load(ctx)
	if s.Loading() {
		t.Fatalf("expected loading resolved after Load")
	}

	user, ok := s.User()
	if !ok || user.Username != "alice" {
		t.Fatalf("expected alice, got %+v ok=%v", user, ok)
	}
	if !s.HasRole("student") || !s.HasPermission("quiz.take") {
		t.Fatalf("expected restored capabilities")
	}
}

func TestLoadCorruptProfileDegradesToLoggedOut(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_ = store.Set(ctx, kv.KeyProfile, `{not json`)

	s := session.NewStore(store, &fakeAuth{})
	s.Load(ctx)
	if s.Loading() {
		t.Fatalf("loading must resolve even on parse failure")
	}
	if _, ok := s.User(); ok {
		t.Fatalf("expected logged-out state")
	}
}

func TestLoginPersistsTokensAndProfile(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	auth := &fakeAuth{loginResult: api.LoginResult{
		Access:  "acc",
		Refresh: "ref",
		User:    domain.User{ID: 7, Username: "bob"},
	}}
	s := session.NewStore(store, auth)

	user, err := s.Login(ctx, domain.Credentials{Username: "bob", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Roles == nil || user.Permissions == nil {
		t.Fatalf("roles/permissions must be non-nil once a user is set")
	}

	if v, ok, _ := store.Get(ctx, kv.KeyAccessToken); !ok || v != "acc" {
		t.Fatalf("access token not persisted: %q", v)
	}
	if v, ok, _ := store.Get(ctx, kv.KeyRefreshToken); !ok || v != "ref" {
		t.Fatalf("refresh token not persisted: %q", v)
	}
	if _, ok, _ := store.Get(ctx, kv.KeyProfile); !ok {
		t.Fatalf("profile not persisted")
	}
}

func TestLogoutSwallowsRevocationFailureAndClearsState(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_ = store.Set(ctx, kv.KeyAccessToken, "acc")
	_ = store.Set(ctx, kv.KeyRefreshToken, "ref")
	_ = store.Set(ctx, kv.KeyProfile, `{"id":1,"username":"alice"}`)

	auth := &fakeAuth{logoutErr: errors.New("network down")}
	s := session.NewStore(store, auth)
	s.Load(ctx)

	s.Logout(ctx)
	if auth.logoutCalls != 1 {
		t.Fatalf("expected revocation attempt")
	}
	for _, key := range kv.AuthKeys() {
		if _, ok, _ := store.Get(ctx, key); ok {
			t.Fatalf("expected %s cleared", key)
		}
	}
	if _, ok := s.User(); ok {
		t.Fatalf("expected user cleared despite revocation failure")
	}
}

func TestUpdateUserReplaceIfPresentSemantics(t *testing.T) {
	ctx := context.Background()
	s := session.NewStore(memory.NewStore(), &fakeAuth{})
	s.SetUser(domain.User{
		ID:          1,
		Username:    "alice",
		Roles:       []domain.Role{{Name: "student"}},
		Permissions: []string{"quiz.take"},
	})

	// Absent keys keep prior values.
	name := "alice2"
	s.UpdateUser(ctx, session.UserPatch{Username: &name})
	user, _ := s.User()
	if user.Username != "alice2" || len(user.Roles) != 1 || len(user.Permissions) != 1 {
		t.Fatalf("absent sets must be kept: %+v", user)
	}

	// Present-but-empty fully replaces.
	empty := []string{}
	s.UpdateUser(ctx, session.UserPatch{Permissions: &empty})
	user, _ = s.User()
	if len(user.Permissions) != 0 {
		t.Fatalf("present-but-empty must replace, got %v", user.Permissions)
	}
	if user.Permissions == nil {
		t.Fatalf("permissions must stay non-nil")
	}
	if len(user.Roles) != 1 {
		t.Fatalf("roles untouched by permissions patch: %+v", user.Roles)
	}
}

func TestPredicates(t *testing.T) {
	s := session.NewStore(memory.NewStore(), &fakeAuth{})
	s.SetUser(domain.User{
		Roles:       []domain.Role{{Name: "teacher"}, {Name: "student"}},
		Permissions: []string{"quiz.take", "course.view"},
	})

	if !s.HasPermission("quiz.take") || s.HasPermission("quiz.manage") {
		t.Fatalf("HasPermission wrong")
	}
	if !s.HasAnyPermission("quiz.manage", "course.view") {
		t.Fatalf("HasAnyPermission wrong")
	}
	if s.HasAllPermissions("quiz.take", "quiz.manage") {
		t.Fatalf("HasAllPermissions must require every code")
	}
	if !s.HasAllPermissions("quiz.take", "course.view") {
		t.Fatalf("HasAllPermissions wrong for held codes")
	}
	if !s.HasRole("teacher") || s.HasRole("admin") {
		t.Fatalf("HasRole wrong")
	}
	if !s.HasAnyRole("admin", "student") {
		t.Fatalf("HasAnyRole wrong")
	}
}
