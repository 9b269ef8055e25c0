package client

import "github.com/dmitrijs2005/zeroos/internal/client/models"

// ServiceName is the gRPC service exposing the workspace operations.
const ServiceName = "zeroos.workspace.v1.Workspace"

// Method names under ServiceName.
const (
	MethodRootKey            = "RootKey"
	MethodListFiles          = "ListFiles"
	MethodCreateFolder       = "CreateFolder"
	MethodUploadFileChunk    = "UploadFileChunk"
	MethodGetFileInfo        = "GetFileInfo"
	MethodGetFileChunk       = "GetFileChunk"
	MethodDeleteFile         = "DeleteFile"
	MethodGetNotes           = "GetNotes"
	MethodCreateNote         = "CreateNote"
	MethodUpdateNote         = "UpdateNote"
	MethodDeleteNote         = "DeleteNote"
	MethodGetTasks           = "GetTasks"
	MethodCreateTask         = "CreateTask"
	MethodUpdateTask         = "UpdateTask"
	MethodDeleteTask         = "DeleteTask"
	MethodGetUserStorageInfo = "GetUserStorageInfo"
)

// FullMethod returns the gRPC path of a workspace method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type ListFilesRequest struct {
	FolderID *string `json:"folder_id"`
}

type CreateFolderRequest struct {
	Name         string  `json:"name"`
	ParentFolder *string `json:"parent_folder"`
}

type UploadFileChunkRequest struct {
	FileID       string  `json:"file_id"`
	ChunkIndex   uint32  `json:"chunk_index"`
	Data         []byte  `json:"data"`
	FileName     string  `json:"file_name"`
	FileType     string  `json:"file_type"`
	TotalSize    uint64  `json:"total_size"`
	ParentFolder *string `json:"parent_folder"`
}

type FileIDRequest struct {
	FileID string `json:"file_id"`
}

type ChunkIDRequest struct {
	ChunkID string `json:"chunk_id"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type NoteRequest struct {
	ID      string   `json:"id,omitempty"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type TaskRequest struct {
	ID          string          `json:"id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Completed   *bool           `json:"completed,omitempty"`
	DueDate     *uint64         `json:"due_date"`
	Priority    models.Priority `json:"priority"`
}

type ChunkPayload struct {
	Data []byte `json:"data"`
}

// ChunkUpload describes one chunk upload call. Parent "" means the root.
type ChunkUpload struct {
	FileID    string
	Index     int
	Data      []byte
	Name      string
	MediaType string
	TotalSize uint64
	Parent    string
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
