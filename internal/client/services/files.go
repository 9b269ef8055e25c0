package services

import (
	"context"

	"github.com/dmitrijs2005/zeroos/internal/client/models"
)

// ListFiles replaces the files mirror with the contents of folderID ("" is
// the root). Entries from other folders are dropped.
func (s *Synchronizer) ListFiles(ctx context.Context, folderID string) error {
	b := s.binding()
	if b.gw == nil {
		return nil
	}
	defer s.track()()

	files, err := b.gw.ListFiles(ctx, folderID)
	if err != nil {
		return s.fail(ctx, "list files", msgLoadFailed, err)
	}
	s.commit(ctx, b, func() { s.files.replace(files) })
	return nil
}

// SetCurrentFolder switches the files mirror to folderID.
func (s *Synchronizer) SetCurrentFolder(ctx context.Context, folderID string) error {
	s.mu.Lock()
	s.currentFolder = folderID
	s.mu.Unlock()
	return s.ListFiles(ctx, folderID)
}

func (s *Synchronizer) refresh(ctx context.Context) {
	_ = s.ListFiles(ctx, s.CurrentFolder())
}

// File returns the mirrored entry with the given id.
func (s *Synchronizer) File(id string) (models.FileEntry, bool) {
	return find(s.files.snapshot(), func(f models.FileEntry) bool { return f.ID == id })
}

// CreateFolder creates a folder under parent ("" is the root) and refreshes
// the listing.
func (s *Synchronizer) CreateFolder(ctx context.Context, name, parent string) (models.FileEntry, error) {
	gw := s.gateway()
	if gw == nil {
		return models.FileEntry{}, nil
	}

	folder, err := gw.CreateFolder(ctx, name, parent)
	if err != nil {
		return models.FileEntry{}, s.fail(ctx, "create folder", msgFolderFailed, err)
	}

	s.notifier.Success(msgFolderCreated)
	s.refresh(ctx)
	return folder, nil
}

// DeleteFile deletes a file or folder and refreshes the listing.
func (s *Synchronizer) DeleteFile(ctx context.Context, fileID string) error {
	gw := s.gateway()
	if gw == nil {
		return nil
	}

	if err := gw.DeleteFile(ctx, fileID); err != nil {
		return s.fail(ctx, "delete file", msgDeleteFailed, err)
	}

	s.notifier.Success(msgFileDeleted)
	s.refresh(ctx)
	return nil
}
