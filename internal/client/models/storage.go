package models

// Storage statistic keys reported by the service.
const (
	StatFileCount     = "file_count"
	StatTotalFileSize = "total_file_size"
	StatNoteCount     = "note_count"
	StatTaskCount     = "task_count"
)

// StorageInfo maps statistic names to values. Missing keys read as zero.
type StorageInfo map[string]uint64

func (s StorageInfo) FileCount() uint64     { return s[StatFileCount] }
func (s StorageInfo) TotalFileSize() uint64 { return s[StatTotalFileSize] }
func (s StorageInfo) NoteCount() uint64     { return s[StatNoteCount] }
func (s StorageInfo) TaskCount() uint64     { return s[StatTaskCount] }
