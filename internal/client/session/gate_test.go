package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/zeroos/internal/client/identity"
	"github.com/dmitrijs2005/zeroos/internal/client/notify"
	"github.com/dmitrijs2005/zeroos/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	authed    bool
	id        *identity.Identity
	loginErr  error
	logoutErr error

	loginURL string
	logouts  int
}

func (f *fakeProvider) IsAuthenticated(ctx context.Context) bool { return f.authed }

func (f *fakeProvider) Identity() *identity.Identity {
	if !f.authed {
		return nil
	}
	return f.id
}

func (f *fakeProvider) Login(ctx context.Context, url string) (*identity.Identity, error) {
	f.loginURL = url
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.authed = true
	return f.id, nil
}

func (f *fakeProvider) Logout(ctx context.Context) error {
	f.logouts++
	f.authed = false
	return f.logoutErr
}

func factoryOf(p identity.Provider) identity.Factory {
	return func(ctx context.Context) (identity.Provider, error) { return p, nil }
}

func newGate(t *testing.T, factory identity.Factory) (*Gate, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	g := NewGate(Options{
		Factory:         factory,
		ProviderURL:     "https://identity.example",
		ProviderTimeout: 200 * time.Millisecond,
		Notifier:        rec,
	})
	return g, rec
}

func TestGate_StartsResolving(t *testing.T) {
	g, _ := newGate(t, nil)
	s := g.State()
	assert.Equal(t, Resolving, s.Kind)
	assert.False(t, s.Ready())
	assert.False(t, s.IsAuthenticated())

	assert.ErrorIs(t, g.Login(context.Background()), ErrNotReady)
	assert.ErrorIs(t, g.Logout(context.Background()), ErrNotReady)
}

func TestGate_FallsBackToMock(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	tests := []struct {
		name    string
		factory identity.Factory
	}{
		{"no factory", nil},
		{"construction error", func(ctx context.Context) (identity.Provider, error) {
			return nil, errors.New("module not found")
		}},
		{"panic", func(ctx context.Context) (identity.Provider, error) {
			panic("boom")
		}},
		{"nil provider", func(ctx context.Context) (identity.Provider, error) {
			return nil, nil
		}},
		{"timeout", func(ctx context.Context) (identity.Provider, error) {
			<-release
			return &fakeProvider{}, nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, rec := newGate(t, tt.factory)

			s := g.Initialize(context.Background())

			assert.Equal(t, MockAuthenticated, s.Kind)
			assert.True(t, s.Mock)
			assert.Equal(t, common.MockPrincipal, s.Principal())
			assert.Equal(t, s, g.State())
			assert.Empty(t, rec.Entries(), "fallback is not surfaced to the user")
		})
	}
}

func TestGate_ResolvesRealProvider(t *testing.T) {
	id := identity.Mock()

	g, _ := newGate(t, factoryOf(&fakeProvider{authed: true, id: id}))
	s := g.Initialize(context.Background())
	assert.Equal(t, Authenticated, s.Kind)
	assert.Same(t, id, s.Identity)
	assert.False(t, s.Mock)

	g, _ = newGate(t, factoryOf(&fakeProvider{id: id}))
	s = g.Initialize(context.Background())
	assert.Equal(t, Unauthenticated, s.Kind)
	assert.False(t, s.Mock)
	assert.Nil(t, s.Identity)
}

func TestGate_LoginLogout_Real(t *testing.T) {
	p := &fakeProvider{id: identity.Mock()}
	g, rec := newGate(t, factoryOf(p))
	g.Initialize(context.Background())

	var seen []Kind
	g.Subscribe(func(s State) { seen = append(seen, s.Kind) })

	require.NoError(t, g.Login(context.Background()))
	assert.Equal(t, "https://identity.example", p.loginURL)
	assert.Equal(t, Authenticated, g.State().Kind)
	last, _ := rec.Last()
	assert.Equal(t, notify.Entry{Level: notify.LevelSuccess, Message: "Successfully logged in!"}, last)

	require.NoError(t, g.Logout(context.Background()))
	assert.Equal(t, 1, p.logouts)
	assert.Equal(t, Unauthenticated, g.State().Kind)
	last, _ = rec.Last()
	assert.Equal(t, "Successfully logged out!", last.Message)

	assert.Equal(t, []Kind{Authenticated, Unauthenticated}, seen)
}

func TestGate_LoginFailureKeepsState(t *testing.T) {
	p := &fakeProvider{id: identity.Mock(), loginErr: errors.New("user closed window")}
	g, rec := newGate(t, factoryOf(p))
	before := g.Initialize(context.Background())

	err := g.Login(context.Background())
	require.Error(t, err)
	assert.Equal(t, before, g.State())

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.Entry{Level: notify.LevelError, Message: "Login failed"}, last)
}

func TestGate_LogoutFailureStillSignsOut(t *testing.T) {
	p := &fakeProvider{authed: true, id: identity.Mock(), logoutErr: errors.New("network")}
	g, rec := newGate(t, factoryOf(p))
	require.Equal(t, Authenticated, g.Initialize(context.Background()).Kind)

	err := g.Logout(context.Background())
	require.Error(t, err)
	assert.Equal(t, Unauthenticated, g.State().Kind)
	assert.False(t, g.State().IsAuthenticated())

	last, _ := rec.Last()
	assert.Equal(t, notify.Entry{Level: notify.LevelError, Message: "Logout failed"}, last)
}

func TestGate_MockLoginLogout(t *testing.T) {
	g, rec := newGate(t, nil)
	g.Initialize(context.Background())

	require.NoError(t, g.Logout(context.Background()))
	s := g.State()
	assert.Equal(t, Unauthenticated, s.Kind)
	assert.True(t, s.Mock)

	require.NoError(t, g.Login(context.Background()))
	s = g.State()
	assert.Equal(t, MockAuthenticated, s.Kind)
	assert.Equal(t, common.MockPrincipal, s.Principal())

	entries := rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Logged out", entries[0].Message)
	assert.Equal(t, "Logged in (development mode)", entries[1].Message)
}

func TestGate_Unsubscribe(t *testing.T) {
	g, _ := newGate(t, nil)

	calls := 0
	unsubscribe := g.Subscribe(func(State) { calls++ })
	g.Initialize(context.Background())
	assert.Equal(t, 1, calls)

	unsubscribe()
	require.NoError(t, g.Logout(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "resolving", Resolving.String())
	assert.Equal(t, "mock-authenticated", MockAuthenticated.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
