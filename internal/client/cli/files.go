package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/zeroos/internal/client/client"
	"github.com/dmitrijs2005/zeroos/internal/client/models"
	"github.com/dmitrijs2005/zeroos/internal/client/services"
	"github.com/dustin/go-humanize"
)

func (a *App) cwd() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	names := make([]string, 0, len(a.path))
	for _, f := range a.path {
		names = append(names, f.name)
	}
	return "/" + strings.Join(names, "/")
}

func (a *App) resetPath() {
	a.mu.Lock()
	a.path = nil
	a.mu.Unlock()
}

// resolveFile finds a mirrored entry by id or, failing that, by name.
func (a *App) resolveFile(ref string) (models.FileEntry, bool) {
	if f, ok := a.syncer.File(ref); ok {
		return f, true
	}
	for _, f := range a.syncer.Files() {
		if f.Name == ref {
			return f, true
		}
	}
	return models.FileEntry{}, false
}

func (a *App) ListFiles(ctx context.Context) error {
	if err := a.syncer.ListFiles(ctx, a.syncer.CurrentFolder()); err != nil {
		return err
	}
	files := a.syncer.Files()
	if len(files) == 0 {
		fmt.Fprintln(a.out, "(empty)")
		return nil
	}
	renderFiles(a.out, files)
	return nil
}

// ChangeDir moves into a folder of the current listing; ".." goes up and
// "/" returns to the root.
func (a *App) ChangeDir(ctx context.Context, ref string) error {
	a.mu.Lock()
	path := append([]folderRef(nil), a.path...)
	a.mu.Unlock()

	switch ref {
	case "", "/":
		path = nil
	case "..":
		if len(path) > 0 {
			path = path[:len(path)-1]
		}
	default:
		f, ok := a.resolveFile(ref)
		if !ok || !f.IsFolder {
			fmt.Fprintf(a.out, "No such folder: %s\n", ref)
			return client.ErrNotFound
		}
		path = append(path, folderRef{id: f.ID, name: f.Name})
	}

	target := ""
	if len(path) > 0 {
		target = path[len(path)-1].id
	}
	if err := a.syncer.SetCurrentFolder(ctx, target); err != nil {
		return err
	}

	a.mu.Lock()
	a.path = path
	a.mu.Unlock()
	return nil
}

func (a *App) MakeDir(ctx context.Context, name string) error {
	_, err := a.syncer.CreateFolder(ctx, name, a.syncer.CurrentFolder())
	return err
}

// Put uploads a local file, s3:// object or http(s) URL into the current
// folder.
func (a *App) Put(ctx context.Context, ref string) error {
	src, err := a.store.Read(ctx, ref)
	if err != nil {
		a.notifier.Error(fmt.Sprintf("Cannot read %s: %v", ref, err))
		return err
	}

	id, err := a.transfer.Upload(ctx, src, nil, a.progress("Uploading", src.Name))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s uploaded as %s (%s)\n", src.Name, id, humanize.Bytes(uint64(len(src.Data))))
	return nil
}

// Get downloads a file to dest (default: the working directory).
func (a *App) Get(ctx context.Context, ref, dest string) error {
	id := ref
	if f, ok := a.resolveFile(ref); ok {
		id = f.ID
	}

	art, err := a.transfer.Download(ctx, id, a.progress("Downloading", ref))
	if err != nil {
		return err
	}

	loc, err := a.store.Write(ctx, dest, art)
	if err != nil {
		a.notifier.Error(fmt.Sprintf("Cannot write %s: %v", dest, err))
		return err
	}
	fmt.Fprintf(a.out, "Saved %s (%s, %s)\n", loc, art.MediaType, humanize.Bytes(uint64(len(art.Data))))
	return nil
}

func (a *App) Remove(ctx context.Context, ref string) error {
	id := ref
	if f, ok := a.resolveFile(ref); ok {
		id = f.ID
	}
	return a.syncer.DeleteFile(ctx, id)
}

func (a *App) Stats(ctx context.Context) error {
	renderStats(a.out, a.syncer.StorageInfo(ctx))
	return nil
}

func (a *App) progress(verb, name string) services.ProgressFunc {
	return func(p services.Progress) {
		if p.Phase == services.PhaseTransferring {
			fmt.Fprintf(a.out, "%s %s: chunk %d/%d\n", verb, name, p.Chunk+1, p.Chunks)
		}
	}
}
