package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/zeroos/internal/chunk"
	"github.com/dmitrijs2005/zeroos/internal/client/client"
	"github.com/dmitrijs2005/zeroos/internal/client/mocks"
	"github.com/dmitrijs2005/zeroos/internal/client/models"
	"github.com/dmitrijs2005/zeroos/internal/client/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const mib = 1 << 20

func newTransfer(t *testing.T) (*Transfer, *Synchronizer, *mocks.MockClient, *notify.Recorder) {
	t.Helper()
	s, m, rec := newBoundSync(t)
	tr := NewTransfer(s, mib, rec, nil)
	tr.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return tr, s, m, rec
}

func payload(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

func TestTransfer_FileID(t *testing.T) {
	tr, _, _, _ := newTransfer(t)
	assert.Equal(t, "1700000000000_report.pdf", tr.FileID("report.pdf"))
}

func TestTransfer_UploadSendsChunksInOrder(t *testing.T) {
	tr, s, m, rec := newTransfer(t)
	ctx := context.Background()
	data := payload(5 * mib / 2)

	var sent []client.ChunkUpload
	m.EXPECT().UploadFileChunk(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c client.ChunkUpload) error {
			sent = append(sent, c)
			return nil
		}).Times(3)
	m.EXPECT().ListFiles(gomock.Any(), "").Return([]models.FileEntry{{ID: "1700000000000_big.bin"}}, nil)

	var phases []Phase
	id, err := tr.Upload(ctx, models.Source{Name: "big.bin", MediaType: "application/octet-stream", Data: data}, nil,
		func(p Progress) { phases = append(phases, p.Phase) })
	require.NoError(t, err)
	assert.Equal(t, "1700000000000_big.bin", id)

	require.Len(t, sent, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{sent[0].Index, sent[1].Index, sent[2].Index})
	assert.Equal(t, []int{mib, mib, mib / 2}, []int{len(sent[0].Data), len(sent[1].Data), len(sent[2].Data)})
	for _, c := range sent {
		assert.Equal(t, id, c.FileID)
		assert.Equal(t, "big.bin", c.Name)
		assert.Equal(t, "application/octet-stream", c.MediaType)
		assert.Equal(t, uint64(len(data)), c.TotalSize)
	}
	assert.Equal(t, data, bytes.Join([][]byte{sent[0].Data, sent[1].Data, sent[2].Data}, nil))

	assert.Len(t, s.Files(), 1)
	assert.Equal(t, notify.Entry{Level: notify.LevelSuccess, Message: "File uploaded successfully"}, lastNotice(t, rec))
	assert.Equal(t, []Phase{PhaseChunking, PhaseTransferring, PhaseTransferring, PhaseTransferring, PhaseFinalizing, PhaseDone}, phases)
}

func TestTransfer_UploadAbortsOnFirstFailure(t *testing.T) {
	tr, s, m, rec := newTransfer(t)
	data := payload(5 * mib / 2)

	calls := 0
	m.EXPECT().UploadFileChunk(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c client.ChunkUpload) error {
			calls++
			if c.Index == 1 {
				return &client.RejectedError{Op: client.MethodUploadFileChunk, Message: "Storage quota exceeded"}
			}
			return nil
		}).Times(2)
	// no ListFiles expectation: a failed upload must not refresh

	var last Progress
	_, err := tr.Upload(context.Background(), models.Source{Name: "big.bin", Data: data}, nil,
		func(p Progress) { last = p })
	require.Error(t, err)

	assert.Equal(t, 2, calls)
	assert.Empty(t, s.Files())
	assert.Equal(t, PhaseFailed, last.Phase)
	assert.Equal(t, 1, last.Chunk)
	assert.Equal(t, notify.Entry{Level: notify.LevelError, Message: "Storage quota exceeded"}, lastNotice(t, rec))
}

func TestTransfer_UploadDefaultsParentAndMediaType(t *testing.T) {
	tr, s, m, _ := newTransfer(t)
	ctx := context.Background()
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	m.EXPECT().ListFiles(gomock.Any(), "photos").Return(nil, nil).Times(2)
	require.NoError(t, s.SetCurrentFolder(ctx, "photos"))

	m.EXPECT().UploadFileChunk(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c client.ChunkUpload) error {
			assert.Equal(t, "photos", c.Parent)
			assert.Equal(t, "image/png", c.MediaType)
			return nil
		})

	_, err := tr.Upload(ctx, models.Source{Name: "pixel.png", Data: png}, nil, nil)
	require.NoError(t, err)
}

func TestTransfer_UploadToExplicitFolder(t *testing.T) {
	tr, s, m, _ := newTransfer(t)
	ctx := context.Background()

	m.EXPECT().ListFiles(gomock.Any(), "photos").Return(nil, nil).Times(3)
	require.NoError(t, s.SetCurrentFolder(ctx, "photos"))

	var parents []string
	m.EXPECT().UploadFileChunk(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c client.ChunkUpload) error {
			parents = append(parents, c.Parent)
			return nil
		}).Times(2)

	_, err := tr.Upload(ctx, models.Source{Name: "a.txt", Data: []byte("a")}, InFolder(""), nil)
	require.NoError(t, err)
	_, err = tr.Upload(ctx, models.Source{Name: "b.txt", Data: []byte("b")}, InFolder("docs"), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "docs"}, parents)
}

func TestTransfer_UploadGuards(t *testing.T) {
	rec := &notify.Recorder{}
	tr := NewTransfer(NewSynchronizer(rec, nil), 0, rec, nil)

	_, err := tr.Upload(context.Background(), models.Source{Name: "a", Data: []byte("x")}, nil, nil)
	require.ErrorIs(t, err, ErrNotConnected)
	assert.Equal(t, chunk.DefaultSize, tr.chunkSize)

	tr2, _, _, rec2 := newTransfer(t)
	_, err = tr2.Upload(context.Background(), models.Source{Name: "empty"}, nil, nil)
	require.ErrorIs(t, err, ErrEmptyFile)
	assert.Equal(t, notify.LevelError, lastNotice(t, rec2).Level)
}

func TestTransfer_DownloadReassemblesInListedOrder(t *testing.T) {
	tr, _, m, _ := newTransfer(t)

	entry := models.FileEntry{
		ID:            "f",
		Name:          "notes.txt",
		MediaType:     "text/plain",
		Size:          9,
		ContentChunks: []string{"f_0", "f_1", "f_2"},
	}
	gomock.InOrder(
		m.EXPECT().GetFileInfo(gomock.Any(), "f").Return(entry, nil),
		m.EXPECT().GetFileChunk(gomock.Any(), "f_0").Return([]byte("abc"), nil),
		m.EXPECT().GetFileChunk(gomock.Any(), "f_1").Return([]byte("def"), nil),
		m.EXPECT().GetFileChunk(gomock.Any(), "f_2").Return([]byte("ghi"), nil),
	)

	var chunks []int
	a, err := tr.Download(context.Background(), "f", func(p Progress) {
		if p.Phase == PhaseTransferring {
			chunks = append(chunks, p.Chunk)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, models.Artifact{Name: "notes.txt", MediaType: "text/plain", Data: []byte("abcdefghi")}, a)
	assert.Equal(t, []int{0, 1, 2}, chunks)
}

func TestTransfer_DownloadNotFound(t *testing.T) {
	tr, _, m, rec := newTransfer(t)

	m.EXPECT().GetFileInfo(gomock.Any(), "x").Return(models.FileEntry{}, &client.RejectedError{Message: "File not found"})

	_, err := tr.Download(context.Background(), "x", nil)
	require.ErrorIs(t, err, client.ErrNotFound)
	assert.Equal(t, "File not found", lastNotice(t, rec).Message)
}

func TestTransfer_DownloadRejectsFolder(t *testing.T) {
	tr, _, m, _ := newTransfer(t)

	m.EXPECT().GetFileInfo(gomock.Any(), "d").Return(models.FileEntry{ID: "d", Name: "docs", IsFolder: true}, nil)

	_, err := tr.Download(context.Background(), "d", nil)
	require.ErrorIs(t, err, ErrIsFolder)
}

func TestTransfer_DownloadAbortsOnChunkFailure(t *testing.T) {
	tr, _, m, _ := newTransfer(t)

	m.EXPECT().GetFileInfo(gomock.Any(), "f").
		Return(models.FileEntry{ID: "f", Size: 9, ContentChunks: []string{"f_0", "f_1", "f_2"}}, nil)
	m.EXPECT().GetFileChunk(gomock.Any(), "f_0").Return([]byte("abc"), nil)
	m.EXPECT().GetFileChunk(gomock.Any(), "f_1").Return(nil, client.ErrUnavailable)

	_, err := tr.Download(context.Background(), "f", nil)
	require.ErrorIs(t, err, client.ErrUnavailable)
}

func TestTransfer_DownloadSizeMismatch(t *testing.T) {
	tr, _, m, _ := newTransfer(t)

	m.EXPECT().GetFileInfo(gomock.Any(), "f").
		Return(models.FileEntry{ID: "f", Size: 10, ContentChunks: []string{"f_0"}}, nil)
	m.EXPECT().GetFileChunk(gomock.Any(), "f_0").Return([]byte("abc"), nil)

	_, err := tr.Download(context.Background(), "f", nil)
	require.ErrorIs(t, err, chunk.ErrIncompleteTransfer)
}

func TestTransfer_DownloadNotConnected(t *testing.T) {
	rec := &notify.Recorder{}
	tr := NewTransfer(NewSynchronizer(rec, nil), mib, rec, nil)

	_, err := tr.Download(context.Background(), "f", nil)
	require.True(t, errors.Is(err, ErrNotConnected))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "transferring", PhaseTransferring.String())
	assert.Equal(t, "failed", PhaseFailed.String())
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "unknown", Phase(42).String())
	assert.Equal(t, "unknown", Phase(-1).String())
}
