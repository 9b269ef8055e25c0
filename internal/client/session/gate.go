// Package session resolves who the user is and keeps that answer current
// across login and logout.
//
// A Gate starts in Resolving. Initialize moves it to Authenticated or
// Unauthenticated when the identity provider can be constructed, and to
// MockAuthenticated (the fixed development identity) when it cannot.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/zeroos/internal/client/identity"
	"github.com/dmitrijs2005/zeroos/internal/client/notify"
	"github.com/dmitrijs2005/zeroos/internal/logging"
)

var ErrNotReady = errors.New("session is still resolving")

const (
	msgMockLogin     = "Logged in (development mode)"
	msgMockLogout    = "Logged out"
	msgLoginSuccess  = "Successfully logged in!"
	msgLoginFailed   = "Login failed"
	msgLogoutSuccess = "Successfully logged out!"
	msgLogoutFailed  = "Logout failed"
)

type Options struct {
	Factory         identity.Factory
	ProviderURL     string
	ProviderTimeout time.Duration
	Notifier        notify.Notifier
	Logger          logging.Logger
}

// Gate owns the session state.
type Gate struct {
	mu       sync.Mutex
	state    State
	provider identity.Provider

	factory     identity.Factory
	providerURL string
	timeout     time.Duration
	notes       notify.Notifier
	log         logging.Logger

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(State)
}

func NewGate(opts Options) *Gate {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = &notify.Recorder{}
	}
	return &Gate{
		state:       resolving(),
		factory:     opts.Factory,
		providerURL: opts.ProviderURL,
		timeout:     opts.ProviderTimeout,
		notes:       opts.Notifier,
		log:         opts.Logger.With("component", "session"),
		subs:        map[int]func(State){},
	}
}

// State returns the current session state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Subscribe registers fn to receive every state the gate moves to. The
// returned func removes it.
func (g *Gate) Subscribe(fn func(State)) func() {
	g.subMu.Lock()
	defer g.subMu.Unlock()

	id := g.nextID
	g.nextID++
	g.subs[id] = fn

	return func() {
		g.subMu.Lock()
		delete(g.subs, id)
		g.subMu.Unlock()
	}
}

func (g *Gate) set(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()

	g.subMu.Lock()
	fns := make([]func(State), 0, len(g.subs))
	for i := 0; i < g.nextID; i++ {
		if fn, ok := g.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	g.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

type built struct {
	p   identity.Provider
	err error
}

func (g *Gate) buildProvider(ctx context.Context) (identity.Provider, error) {
	if g.factory == nil {
		return nil, errors.New("no identity provider configured")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	ch := make(chan built, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- built{err: fmt.Errorf("identity provider panicked: %v", r)}
			}
		}()
		p, err := g.factory(ctx)
		ch <- built{p: p, err: err}
	}()

	select {
	case b := <-ch:
		if b.err == nil && b.p == nil {
			b.err = errors.New("identity provider factory returned nil")
		}
		return b.p, b.err
	case <-ctx.Done():
		return nil, fmt.Errorf("identity provider: %w", ctx.Err())
	}
}

// Initialize resolves the session. It always leaves Resolving: provider
// failures are logged and absorbed into the development identity.
func (g *Gate) Initialize(ctx context.Context) State {
	p, err := g.buildProvider(ctx)
	if err != nil {
		g.log.Warn(ctx, "identity provider unavailable, using development identity", "err", err)
		g.mu.Lock()
		g.provider = nil
		g.mu.Unlock()
		s := mockAuthenticated()
		g.set(s)
		return s
	}

	g.mu.Lock()
	g.provider = p
	g.mu.Unlock()

	s := unauthenticated(false)
	if p.IsAuthenticated(ctx) {
		if id := p.Identity(); id != nil {
			s = authenticated(id)
		}
	}
	g.log.Info(ctx, "session resolved", "state", s.Kind.String(), "principal", s.Principal())
	g.set(s)
	return s
}

func (g *Gate) snapshot() (State, identity.Provider) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state, g.provider
}

// Login signs the user in. In mock mode it succeeds at once with the
// development identity. A failed provider login leaves the state as is.
func (g *Gate) Login(ctx context.Context) error {
	s, p := g.snapshot()
	if !s.Ready() {
		return ErrNotReady
	}

	if s.Mock || p == nil {
		g.set(mockAuthenticated())
		g.notes.Success(msgMockLogin)
		return nil
	}

	id, err := p.Login(ctx, g.providerURL)
	if err != nil {
		g.log.Error(ctx, "login failed", "provider", g.providerURL, "err", err)
		g.notes.Error(msgLoginFailed)
		return err
	}

	g.set(authenticated(id))
	g.notes.Success(msgLoginSuccess)
	return nil
}

// Logout signs the user out. The session ends Unauthenticated even when
// the provider call fails; the failure is still reported.
func (g *Gate) Logout(ctx context.Context) error {
	s, p := g.snapshot()
	if !s.Ready() {
		return ErrNotReady
	}

	if s.Mock || p == nil {
		g.set(unauthenticated(true))
		g.notes.Info(msgMockLogout)
		return nil
	}

	err := p.Logout(ctx)
	g.set(unauthenticated(false))
	if err != nil {
		g.log.Error(ctx, "logout failed", "err", err)
		g.notes.Error(msgLogoutFailed)
		return err
	}

	g.notes.Success(msgLogoutSuccess)
	return nil
}
