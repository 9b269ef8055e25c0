package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/zeroos/internal/client/client"
	"github.com/dmitrijs2005/zeroos/internal/client/config"
	"github.com/dmitrijs2005/zeroos/internal/client/identity"
	"github.com/dmitrijs2005/zeroos/internal/client/notify"
	"github.com/dmitrijs2005/zeroos/internal/client/services"
	"github.com/dmitrijs2005/zeroos/internal/client/session"
	"github.com/dmitrijs2005/zeroos/internal/client/storage"
	"github.com/dmitrijs2005/zeroos/internal/logging"
	"golang.org/x/term"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// folderRef is one step of the path shown in the prompt.
type folderRef struct {
	id   string
	name string
}

type App struct {
	config     *config.Config
	log        logging.Logger
	notifier   notify.Notifier
	passphrase *identity.Passphrase
	gate       *session.Gate
	syncer     *services.Synchronizer
	transfer   *services.Transfer
	workspace  *services.Workspace
	store      *storage.Store

	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	Mode Mode
	path []folderRef
}

// deps are the collaborators App is assembled from.
type deps struct {
	passphrase *identity.Passphrase
	factory    identity.Factory
	newGateway services.GatewayFactory
	notifier   notify.Notifier
	store      *storage.Store
	in         io.Reader
	out        io.Writer
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{Timeout: c.ProviderTimeout}
	reader := bufio.NewReader(os.Stdin)

	passphrase := identity.NewPassphrase(func() ([]byte, error) {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, identity.ErrNoPassphrase
		}
		return GetPassword(os.Stdout)
	})

	newGateway := func(ctx context.Context, id *identity.Identity) (client.Client, error) {
		return client.NewGRPCClient(ctx, client.Options{
			Endpoint:    c.Endpoint(),
			CanisterID:  c.CanisterID,
			Production:  c.IsProduction(),
			CallTimeout: c.CallTimeout,
			Identity:    id,
			Logger:      log,
		})
	}

	return newApp(c, log, deps{
		passphrase: passphrase,
		factory:    identity.NewKeystoreFactory(c.KeystoreDir, passphrase.Get, httpClient),
		newGateway: newGateway,
		notifier:   notify.NewConsole(os.Stdout),
		store:      storage.New(c.S3, httpClient),
		in:         reader,
		out:        os.Stdout,
	}), nil
}

func newApp(c *config.Config, log logging.Logger, d deps) *App {
	if log == nil {
		log = logging.NewNop()
	}

	gate := session.NewGate(session.Options{
		Factory:         d.factory,
		ProviderURL:     c.IdentityProviderURL(),
		ProviderTimeout: c.ProviderTimeout,
		Notifier:        d.notifier,
		Logger:          log,
	})
	syncer := services.NewSynchronizer(d.notifier, log)

	reader, ok := d.in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(d.in)
	}

	return &App{
		config:     c,
		log:        log,
		notifier:   d.notifier,
		passphrase: d.passphrase,
		gate:       gate,
		syncer:     syncer,
		transfer:   services.NewTransfer(syncer, c.ChunkSize, d.notifier, log),
		workspace:  services.NewWorkspace(gate, syncer, d.newGateway, d.notifier, log),
		store:      d.store,
		reader:     reader,
		out:        d.out,
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

// start resolves the session and binds the workspace to it. The returned
// func releases both.
//
// The passphrase is read before the session resolves: only opening the
// keystore is bounded by ProviderTimeout, and no read of the terminal
// outlives this call.
func (a *App) start(ctx context.Context) func() {
	if a.passphrase != nil {
		if err := a.passphrase.Prompt(); err != nil {
			a.log.Warn(ctx, "keystore passphrase unavailable", "err", err)
		}
		defer a.passphrase.Wipe()
	}
	a.gate.Initialize(ctx)
	stop := a.workspace.Start(ctx)
	if a.workspace.Connected() {
		a.setMode(ModeOnline)
	}
	return func() {
		stop()
		a.workspace.Close()
	}
}

// Run starts the session, the connectivity watcher and the REPL, and blocks
// until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to ZeroOS workspace (type 'help' for commands)")

	stop := a.start(ctx)
	defer stop()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.gate.State().IsAuthenticated()
}

func (a *App) getStatus() string {
	s := a.gate.State()
	who := "guest"
	if s.IsAuthenticated() {
		who = shorten(s.Principal())
		if s.Mock {
			who += "*"
		}
	}
	status := fmt.Sprintf("%s %s", who, a.cwd())
	if m := a.mode(); m != "" {
		status += " " + string(m)
	}
	return "(" + status + ")"
}

func shorten(principal string) string {
	if len(principal) <= 11 {
		return principal
	}
	return principal[:5] + "…" + principal[len(principal)-5:]
}

// StartOnlineStatusWatcher pings the service every interval and flips Mode
// between online and offline.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.workspace.Ping(pctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
