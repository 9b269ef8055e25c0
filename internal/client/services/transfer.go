package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/zeroos/internal/chunk"
	"github.com/dmitrijs2005/zeroos/internal/client/client"
	"github.com/dmitrijs2005/zeroos/internal/client/models"
	"github.com/dmitrijs2005/zeroos/internal/client/notify"
	"github.com/dmitrijs2005/zeroos/internal/logging"
	"github.com/gabriel-vasile/mimetype"
)

// Phase is a step of a transfer.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseChunking
	PhaseTransferring
	PhaseFinalizing
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseChunking:
		return "chunking"
	case PhaseTransferring:
		return "transferring"
	case PhaseFinalizing:
		return "finalizing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress describes where a transfer is. Chunk is the zero-based index of
// the chunk being sent or fetched during PhaseTransferring.
type Progress struct {
	Phase  Phase
	Chunk  int
	Chunks int
	Err    error
}

// ProgressFunc observes a transfer. It may be nil.
type ProgressFunc func(Progress)

// Transfer sequences chunked uploads and downloads through the
// synchronizer's gateway. Chunks are sent and fetched strictly in order; the
// first failure aborts the transfer.
type Transfer struct {
	syncer    *Synchronizer
	chunkSize int
	now       func() time.Time
	notifier  notify.Notifier
	log       logging.Logger
}

func NewTransfer(s *Synchronizer, chunkSize int, n notify.Notifier, log logging.Logger) *Transfer {
	if chunkSize <= 0 {
		chunkSize = chunk.DefaultSize
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Transfer{
		syncer:    s,
		chunkSize: chunkSize,
		now:       time.Now,
		notifier:  n,
		log:       log.With("component", "transfer"),
	}
}

// FileID derives the id of a new upload from the current time and the file
// name.
func (t *Transfer) FileID(name string) string {
	return fmt.Sprintf("%d_%s", t.now().UnixMilli(), name)
}

func report(fn ProgressFunc, p Progress) {
	if fn != nil {
		fn(p)
	}
}

// InFolder uploads into folderID; "" is the root.
func InFolder(folderID string) *string { return &folderID }

// Upload sends src in chunks into parent and refreshes the listing once
// every chunk is accepted. A nil parent means the current folder. It
// returns the new file id.
func (t *Transfer) Upload(ctx context.Context, src models.Source, parent *string, progress ProgressFunc) (string, error) {
	gw := t.syncer.gateway()
	if gw == nil {
		return "", ErrNotConnected
	}
	if len(src.Data) == 0 {
		t.notifier.Error(ErrEmptyFile.Error())
		return "", ErrEmptyFile
	}
	folder := t.syncer.CurrentFolder()
	if parent != nil {
		folder = *parent
	}

	mediaType := src.MediaType
	if mediaType == "" {
		mediaType = mimetype.Detect(src.Data).String()
	}

	report(progress, Progress{Phase: PhaseChunking})
	chunks, err := chunk.Split(src.Data, t.chunkSize)
	if err != nil {
		report(progress, Progress{Phase: PhaseFailed, Err: err})
		return "", t.syncer.fail(ctx, "upload", msgUploadFailed, err)
	}

	fileID := t.FileID(src.Name)
	total := uint64(len(src.Data))

	for _, c := range chunks {
		report(progress, Progress{Phase: PhaseTransferring, Chunk: c.Index, Chunks: len(chunks)})

		err := gw.UploadFileChunk(ctx, client.ChunkUpload{
			FileID:    fileID,
			Index:     c.Index,
			Data:      c.Data,
			Name:      src.Name,
			MediaType: mediaType,
			TotalSize: total,
			Parent:    folder,
		})
		if err != nil {
			err = fmt.Errorf("chunk %d of %d: %w", c.Index+1, len(chunks), err)
			report(progress, Progress{Phase: PhaseFailed, Chunk: c.Index, Chunks: len(chunks), Err: err})
			return fileID, t.syncer.fail(ctx, "upload", msgUploadFailed, err)
		}
	}

	report(progress, Progress{Phase: PhaseFinalizing, Chunks: len(chunks)})
	t.log.Info(ctx, "upload complete", "file_id", fileID, "size", total, "chunks", len(chunks))
	t.notifier.Success(msgFileUploaded)
	t.syncer.refresh(ctx)

	report(progress, Progress{Phase: PhaseDone, Chunks: len(chunks)})
	return fileID, nil
}

// Download fetches the chunks of fileID in listed order and returns the
// reassembled payload with its declared media type.
func (t *Transfer) Download(ctx context.Context, fileID string, progress ProgressFunc) (models.Artifact, error) {
	gw := t.syncer.gateway()
	if gw == nil {
		return models.Artifact{}, ErrNotConnected
	}

	entry, err := gw.GetFileInfo(ctx, fileID)
	if err != nil {
		report(progress, Progress{Phase: PhaseFailed, Err: err})
		if errors.Is(err, client.ErrNotFound) {
			t.notifier.Error(msgFileNotFound)
			return models.Artifact{}, fmt.Errorf("file %s: %w", fileID, client.ErrNotFound)
		}
		return models.Artifact{}, t.syncer.fail(ctx, "download", msgDownloadFailed, err)
	}
	if entry.IsFolder {
		err := fmt.Errorf("%s: %w", entry.Name, ErrIsFolder)
		t.notifier.Error(err.Error())
		return models.Artifact{}, err
	}

	n := len(entry.ContentChunks)
	parts := make([]chunk.Chunk, 0, n)
	for i, id := range entry.ContentChunks {
		report(progress, Progress{Phase: PhaseTransferring, Chunk: i, Chunks: n})

		data, err := gw.GetFileChunk(ctx, id)
		if err != nil {
			err = fmt.Errorf("chunk %s: %w", id, err)
			report(progress, Progress{Phase: PhaseFailed, Chunk: i, Chunks: n, Err: err})
			return models.Artifact{}, t.syncer.fail(ctx, "download", msgDownloadFailed, err)
		}
		parts = append(parts, chunk.Chunk{Index: i, Data: data})
	}

	report(progress, Progress{Phase: PhaseFinalizing, Chunks: n})
	buf, err := chunk.Reassemble(parts, n)
	if err == nil && uint64(len(buf)) != entry.Size {
		err = fmt.Errorf("%w: got %d of %d bytes", chunk.ErrIncompleteTransfer, len(buf), entry.Size)
	}
	if err != nil {
		report(progress, Progress{Phase: PhaseFailed, Chunks: n, Err: err})
		return models.Artifact{}, t.syncer.fail(ctx, "download", msgDownloadFailed, err)
	}

	report(progress, Progress{Phase: PhaseDone, Chunks: n})
	return models.Artifact{Name: entry.Name, MediaType: entry.MediaType, Data: buf}, nil
}
