package client

import (
	"context"

	"github.com/dmitrijs2005/zeroos/internal/client/models"
)

//go:generate go run go.uber.org/mock/mockgen -source=client.go -destination=../mocks/mock_client.go -package=mocks

// Client is the typed surface of the workspace service. Optional string
// arguments use "" for "absent".
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	ListFiles(ctx context.Context, folderID string) ([]models.FileEntry, error)
	CreateFolder(ctx context.Context, name string, parent string) (models.FileEntry, error)
	UploadFileChunk(ctx context.Context, chunk ChunkUpload) error
	GetFileInfo(ctx context.Context, fileID string) (models.FileEntry, error)
	GetFileChunk(ctx context.Context, chunkID string) ([]byte, error)
	DeleteFile(ctx context.Context, fileID string) error

	GetNotes(ctx context.Context) ([]models.Note, error)
	CreateNote(ctx context.Context, title, content string, tags []string) (models.Note, error)
	UpdateNote(ctx context.Context, id, title, content string, tags []string) (models.Note, error)
	DeleteNote(ctx context.Context, id string) error

	GetTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, title, description string, due *uint64, priority models.Priority) (models.Task, error)
	UpdateTask(ctx context.Context, id, title, description string, completed bool, due *uint64, priority models.Priority) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error

	GetUserStorageInfo(ctx context.Context) (models.StorageInfo, error)
}
