package services

import "errors"

var (
	ErrNotConnected = errors.New("workspace is not connected")
	ErrEmptyFile    = errors.New("cannot upload an empty file")
	ErrIsFolder     = errors.New("is a folder")
)

// User-visible notices.
const (
	msgBackendUnavailable = "Failed to connect to backend"
	msgLoadFailed         = "Failed to load files"
	msgFolderCreated      = "Folder created successfully"
	msgFolderFailed       = "Failed to create folder"
	msgFileUploaded       = "File uploaded successfully"
	msgUploadFailed       = "Failed to upload file"
	msgFileDeleted        = "File deleted successfully"
	msgDeleteFailed       = "Failed to delete file"
	msgDownloadFailed     = "Failed to download file"
	msgFileNotFound       = "File not found"
	msgNoteCreated        = "Note created successfully"
	msgNoteCreateFailed   = "Failed to create note"
	msgNoteUpdated        = "Note updated successfully"
	msgNoteUpdateFailed   = "Failed to update note"
	msgNoteDeleted        = "Note deleted successfully"
	msgNoteDeleteFailed   = "Failed to delete note"
	msgTaskCreated        = "Task created successfully"
	msgTaskCreateFailed   = "Failed to create task"
	msgTaskUpdated        = "Task updated successfully"
	msgTaskUpdateFailed   = "Failed to update task"
	msgTaskDeleted        = "Task deleted successfully"
	msgTaskDeleteFailed   = "Failed to delete task"
	msgTaskNotFound       = "Task not found"
)
