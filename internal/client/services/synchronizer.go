// Package services holds the workspace client's application services: the
// collection synchronizer that mirrors files, notes and tasks, the transfer
// orchestrator for chunked uploads and downloads, and the workspace binding
// that follows the session.
package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/zeroos/internal/client/client"
	"github.com/dmitrijs2005/zeroos/internal/client/models"
	"github.com/dmitrijs2005/zeroos/internal/client/notify"
	"github.com/dmitrijs2005/zeroos/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Synchronizer owns the files, notes and tasks mirrors and every mutation
// of them.
//
// Each mutation calls the service through the bound gateway and, on
// success, either re-fetches the files listing or patches the notes/tasks
// mirror with the returned record. Failures become notices and leave the
// mirrors untouched. With no gateway bound, mutations are silent no-ops.
type Synchronizer struct {
	mu            sync.RWMutex
	gw            client.Client
	gen           uint64
	currentFolder string

	files mirror[models.FileEntry]
	notes mirror[models.Note]
	tasks mirror[models.Task]

	loading atomic.Int32

	notifier notify.Notifier
	log      logging.Logger
}

func NewSynchronizer(n notify.Notifier, log logging.Logger) *Synchronizer {
	if log == nil {
		log = logging.NewNop()
	}
	return &Synchronizer{notifier: n, log: log.With("component", "sync")}
}

// binding is the gateway a call started on and the bind generation it
// belongs to.
type binding struct {
	gw  client.Client
	gen uint64
}

// Bind sets the gateway mutations go through.
func (s *Synchronizer) Bind(gw client.Client) {
	s.mu.Lock()
	s.gw = gw
	s.gen++
	s.mu.Unlock()
}

// Unbind drops the gateway and clears all mirrors. Results of calls that
// started before Unbind are discarded.
func (s *Synchronizer) Unbind() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gw = nil
	s.gen++
	s.currentFolder = ""

	s.files.reset()
	s.notes.reset()
	s.tasks.reset()
}

func (s *Synchronizer) gateway() client.Client {
	return s.binding().gw
}

func (s *Synchronizer) binding() binding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return binding{gw: s.gw, gen: s.gen}
}

// commit applies fn to the mirrors only while b is still the live binding.
// Unbind and Bind wait for fn to return.
func (s *Synchronizer) commit(ctx context.Context, b binding, fn func()) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.gw == nil || s.gen != b.gen {
		s.log.Debug(ctx, "gateway rebound, dropping result")
		return false
	}
	fn()
	return true
}

// Bound reports whether a gateway is bound.
func (s *Synchronizer) Bound() bool { return s.gateway() != nil }

func (s *Synchronizer) Files() []models.FileEntry { return s.files.snapshot() }
func (s *Synchronizer) Notes() []models.Note      { return s.notes.snapshot() }
func (s *Synchronizer) Tasks() []models.Task      { return s.tasks.snapshot() }

// CurrentFolder is the folder whose contents the files mirror holds; ""
// is the root.
func (s *Synchronizer) CurrentFolder() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentFolder
}

// IsLoading reports whether a listing or initial load is in flight.
func (s *Synchronizer) IsLoading() bool { return s.loading.Load() > 0 }

func (s *Synchronizer) track() func() {
	s.loading.Add(1)
	return func() { s.loading.Add(-1) }
}

// fail reports err to the user and returns it. Service rejections are shown
// verbatim; transport failures get a generic connection notice; anything
// else gets fallback.
func (s *Synchronizer) fail(ctx context.Context, op, fallback string, err error) error {
	var rej *client.RejectedError
	switch {
	case errors.As(err, &rej):
		s.notifier.Error(rej.Message)
	case errors.Is(err, client.ErrUnavailable):
		s.notifier.Error(msgBackendUnavailable)
	default:
		s.notifier.Error(fallback + ": " + err.Error())
	}
	s.log.Error(ctx, op+" failed", "err", err)
	return err
}

// LoadAll fetches the files listing for the current folder, the notes and
// the tasks in parallel. The mirrors are replaced together once all three
// fetches succeed; any failure leaves every mirror as it was.
func (s *Synchronizer) LoadAll(ctx context.Context) error {
	b := s.binding()
	if b.gw == nil {
		return nil
	}
	defer s.track()()

	var (
		files []models.FileEntry
		notes []models.Note
		tasks []models.Task
	)

	folder := s.CurrentFolder()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		files, err = b.gw.ListFiles(gctx, folder)
		return err
	})
	g.Go(func() (err error) {
		notes, err = b.gw.GetNotes(gctx)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = b.gw.GetTasks(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return s.fail(ctx, "load", msgLoadFailed, err)
	}

	s.commit(ctx, b, func() {
		s.files.replace(files)
		s.notes.replace(notes)
		s.tasks.replace(tasks)
	})
	return nil
}

// StorageInfo returns the caller's usage statistics, or an empty map when
// they cannot be fetched.
func (s *Synchronizer) StorageInfo(ctx context.Context) models.StorageInfo {
	gw := s.gateway()
	if gw == nil {
		return models.StorageInfo{}
	}
	info, err := gw.GetUserStorageInfo(ctx)
	if err != nil {
		s.log.Warn(ctx, "storage info unavailable", "err", err)
		return models.StorageInfo{}
	}
	if info == nil {
		info = models.StorageInfo{}
	}
	return info
}
