package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/zeroos/internal/client/client"
	"github.com/dmitrijs2005/zeroos/internal/client/identity"
	"github.com/dmitrijs2005/zeroos/internal/client/notify"
	"github.com/dmitrijs2005/zeroos/internal/client/session"
	"github.com/dmitrijs2005/zeroos/internal/logging"
)

// GatewayFactory opens a gateway bound to id.
type GatewayFactory func(ctx context.Context, id *identity.Identity) (client.Client, error)

// Workspace keeps the synchronizer's gateway in step with the session: a
// gateway is opened when an identity becomes available and closed on
// logout.
type Workspace struct {
	gate       *session.Gate
	syncer     *Synchronizer
	newGateway GatewayFactory
	notifier   notify.Notifier
	log        logging.Logger

	mu        sync.Mutex
	ctx       context.Context
	gw        client.Client
	principal string
}

func NewWorkspace(gate *session.Gate, s *Synchronizer, factory GatewayFactory, n notify.Notifier, log logging.Logger) *Workspace {
	if log == nil {
		log = logging.NewNop()
	}
	return &Workspace{
		gate:       gate,
		syncer:     s,
		newGateway: factory,
		notifier:   n,
		log:        log.With("component", "workspace"),
	}
}

// Start applies the current session state and follows later changes until
// the returned func is called.
func (w *Workspace) Start(ctx context.Context) func() {
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()

	unsubscribe := w.gate.Subscribe(func(s session.State) { _ = w.apply(ctx, s) })
	_ = w.apply(ctx, w.gate.State())
	return unsubscribe
}

func (w *Workspace) apply(ctx context.Context, s session.State) error {
	if !s.IsAuthenticated() {
		w.disconnect(ctx)
		return nil
	}
	return w.connect(ctx, s.Identity)
}

func (w *Workspace) connect(ctx context.Context, id *identity.Identity) error {
	w.mu.Lock()
	if w.gw != nil && w.principal == id.Principal() {
		w.mu.Unlock()
		return nil
	}
	old := w.gw
	w.gw, w.principal = nil, ""
	w.mu.Unlock()

	if old != nil {
		w.syncer.Unbind()
		_ = old.Close()
	}

	gw, err := w.newGateway(ctx, id)
	if err != nil {
		w.log.Error(ctx, "gateway init failed", "err", err)
		if errors.Is(err, client.ErrConfiguration) {
			w.notifier.Error(err.Error())
		} else {
			w.notifier.Error(msgBackendUnavailable)
		}
		return err
	}

	w.mu.Lock()
	w.gw, w.principal = gw, id.Principal()
	w.mu.Unlock()

	w.syncer.Bind(gw)
	w.log.Info(ctx, "gateway bound", "principal", id.Principal())
	return w.syncer.LoadAll(ctx)
}

func (w *Workspace) disconnect(ctx context.Context) {
	w.mu.Lock()
	gw := w.gw
	w.gw, w.principal = nil, ""
	w.mu.Unlock()

	if gw == nil {
		return
	}
	w.syncer.Unbind()
	if err := gw.Close(); err != nil {
		w.log.Warn(ctx, "gateway close failed", "err", err)
	}
	w.log.Info(ctx, "gateway released")
}

// Connected reports whether a gateway is open.
func (w *Workspace) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.gw != nil
}

// Ping checks that the service answers. It returns ErrNotConnected when no
// gateway is open.
func (w *Workspace) Ping(ctx context.Context) error {
	w.mu.Lock()
	gw := w.gw
	w.mu.Unlock()

	if gw == nil {
		return ErrNotConnected
	}
	return gw.Ping(ctx)
}

// Close releases the gateway.
func (w *Workspace) Close() {
	w.mu.Lock()
	ctx := w.ctx
	w.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	w.disconnect(ctx)
}
