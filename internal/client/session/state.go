package session

import "github.com/dmitrijs2005/zeroos/internal/client/identity"

// Kind is the variant of a session State.
type Kind int

const (
	Resolving Kind = iota
	Authenticated
	MockAuthenticated
	Unauthenticated
)

func (k Kind) String() string {
	switch k {
	case Resolving:
		return "resolving"
	case Authenticated:
		return "authenticated"
	case MockAuthenticated:
		return "mock-authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// State is the session as seen by the rest of the client.
//
// Identity is set for Authenticated and MockAuthenticated only. Mock
// reports that the gate runs against the development identity; for
// Unauthenticated it means a login will succeed without a provider.
type State struct {
	Kind     Kind
	Identity *identity.Identity
	Mock     bool
}

func (s State) Ready() bool { return s.Kind != Resolving }

func (s State) IsAuthenticated() bool {
	return s.Kind == Authenticated || s.Kind == MockAuthenticated
}

// Principal returns the signed-in principal, or "".
func (s State) Principal() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Principal()
}

func resolving() State { return State{Kind: Resolving} }

func authenticated(id *identity.Identity) State {
	return State{Kind: Authenticated, Identity: id}
}

func mockAuthenticated() State {
	return State{Kind: MockAuthenticated, Identity: identity.Mock(), Mock: true}
}

func unauthenticated(mock bool) State {
	return State{Kind: Unauthenticated, Mock: mock}
}
