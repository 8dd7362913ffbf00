package session

// RequirementKind selects which of the user's capability sets a
// requirement is checked against.
type RequirementKind int

const (
	ByPermission RequirementKind = iota
	ByRole
)

// Requirement is the capability set a protected view demands.
type Requirement struct {
	Kind       RequirementKind
	Required   []string
	RequireAll bool
	// RedirectOnDeny selects the fallback redirect instead of the inline
	// denial message.
	RedirectOnDeny bool
	Fallback       string
}

// RequireLogin demands an authenticated user and nothing more. The empty
// required set with RequireAll is vacuously satisfied once a user exists.
func RequireLogin() Requirement {
	return Requirement{RequireAll: true}
}

// Decision is the outcome of an authorization check.
type Decision int

const (
	// DecisionAllowed renders the guarded content unchanged.
	DecisionAllowed Decision = iota
	// DecisionLoginRedirect takes precedence over every other outcome.
	DecisionLoginRedirect
	// DecisionDenied shows the inline access-denied message.
	DecisionDenied
	// DecisionFallbackRedirect redirects to the requirement's fallback path.
	DecisionFallbackRedirect
)

// Outcome pairs a decision with its redirect target when relevant.
type Outcome struct {
	Decision Decision
	Fallback string
}

// Authorize is a pure function of (user presence, held set, required set,
// policy). It holds no state and is re-evaluated on every call.
func (s *Store) Authorize(req Requirement) Outcome {
	user, ok := s.User()
	if !ok {
		return Outcome{Decision: DecisionLoginRedirect}
	}

	held := make(map[string]struct{})
	switch req.Kind {
	case ByRole:
		for _, role := range user.Roles {
			held[role.Name] = struct{}{}
		}
	default:
		for _, code := range user.Permissions {
			held[code] = struct{}{}
		}
	}

	allowed := false
	if req.RequireAll {
		allowed = true
		for _, want := range req.Required {
			if _, ok := held[want]; !ok {
				allowed = false
				break
			}
		}
	} else {
		for _, want := range req.Required {
			if _, ok := held[want]; ok {
				allowed = true
				break
			}
		}
	}

	if allowed {
		return Outcome{Decision: DecisionAllowed}
	}
	if req.RedirectOnDeny {
		return Outcome{Decision: DecisionFallbackRedirect, Fallback: req.Fallback}
	}
	return Outcome{Decision: DecisionDenied}
}
