package session_test

import (
	"testing"

	"edulearn-cli/internal/domain"
	"edulearn-cli/internal/kv/memory"
	"edulearn-cli/internal/session"
)

func TestAuthorizeAbsentUserAlwaysRedirectsToLogin(t *testing.T) {
	s := session.NewStore(memory.NewStore(), &fakeAuth{})

	// Even a requirement with an empty required set is denied without a user.
	outcomes := []session.Requirement{
		{},
		{Required: []string{"quiz.manage"}, RequireAll: true},
		{Kind: session.ByRole, Required: []string{"admin"}, RedirectOnDeny: true, Fallback: "/home"},
	}
	for _, req := range outcomes {
		if got := s.Authorize(req); got.Decision != session.DecisionLoginRedirect {
			t.Fatalf("expected login redirect for %+v, got %v", req, got.Decision)
		}
	}
}

func TestAuthorizeAlgebra(t *testing.T) {
	s := session.NewStore(memory.NewStore(), &fakeAuth{})
	s.SetUser(domain.User{
		Roles:       []domain.Role{{Name: "teacher"}},
		Permissions: []string{"quiz.manage", "course.view"},
	})

	cases := []struct {
		name string
		req  session.Requirement
		want session.Decision
	}{
		{
			name: "requireAll subset held",
			req:  session.Requirement{Required: []string{"quiz.manage", "course.view"}, RequireAll: true},
			want: session.DecisionAllowed,
		},
		{
			name: "requireAll one missing",
			req:  session.Requirement{Required: []string{"quiz.manage", "user.manage"}, RequireAll: true},
			want: session.DecisionDenied,
		},
		{
			name: "any with one held",
			req:  session.Requirement{Required: []string{"user.manage", "course.view"}},
			want: session.DecisionAllowed,
		},
		{
			name: "any with none held",
			req:  session.Requirement{Required: []string{"user.manage", "site.admin"}},
			want: session.DecisionDenied,
		},
		{
			name: "requireAll empty set is vacuously allowed",
			req:  session.Requirement{RequireAll: true},
			want: session.DecisionAllowed,
		},
		{
			name: "any empty set is denied",
			req:  session.Requirement{},
			want: session.DecisionDenied,
		},
		{
			name: "role match by name",
			req:  session.Requirement{Kind: session.ByRole, Required: []string{"teacher"}},
			want: session.DecisionAllowed,
		},
		{
			name: "role mismatch",
			req:  session.Requirement{Kind: session.ByRole, Required: []string{"admin"}, RequireAll: true},
			want: session.DecisionDenied,
		},
	}

	for _, tc := range cases {
		if got := s.Authorize(tc.req); got.Decision != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got.Decision)
		}
	}
}

func TestAuthorizeDenyRedirectsToFallbackWhenAsked(t *testing.T) {
	s := session.NewStore(memory.NewStore(), &fakeAuth{})
	s.SetUser(domain.User{Permissions: []string{}})

	got := s.Authorize(session.Requirement{
		Required:       []string{"quiz.manage"},
		RedirectOnDeny: true,
		Fallback:       "/courses",
	})
	if got.Decision != session.DecisionFallbackRedirect || got.Fallback != "/courses" {
		t.Fatalf("expected fallback redirect to /courses, got %+v", got)
	}
}
