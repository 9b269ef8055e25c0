package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/zeroos/internal/timex"
)

// FolderMediaType is the file_type the service assigns to folders.
const FolderMediaType = "folder"

// FileEntry is a file or folder record. For files, the chunk payloads named
// by ContentChunks add up to Size bytes; folders carry no chunks.
type FileEntry struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	MediaType     string            `json:"file_type"`
	Size          uint64            `json:"size"`
	CreatedAt     uint64            `json:"created_at"`
	UpdatedAt     uint64            `json:"updated_at"`
	ParentFolder  *string           `json:"parent_folder"`
	Owner         string            `json:"owner"`
	ContentChunks []string          `json:"content_chunks"`
	IsFolder      bool              `json:"is_folder"`
	Metadata      map[string]string `json:"metadata"`
}

func (f FileEntry) Created() time.Time { return timex.FromNanos(f.CreatedAt) }
func (f FileEntry) Updated() time.Time { return timex.FromNanos(f.UpdatedAt) }

// Parent returns the parent folder id, or "" for the root.
func (f FileEntry) Parent() string {
	if f.ParentFolder == nil {
		return ""
	}
	return *f.ParentFolder
}

// ChunkID is the service-side id of chunk index of fileID.
func ChunkID(fileID string, index int) string {
	return fmt.Sprintf("%s_%d", fileID, index)
}

// Artifact is a downloaded file payload tagged with its media type.
type Artifact struct {
	Name      string
	MediaType string
	Data      []byte
}

// Source is a local payload about to be uploaded.
type Source struct {
	Name      string
	MediaType string
	Data      []byte
}
