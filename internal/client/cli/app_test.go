package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/zeroos/internal/client/client"
	"github.com/dmitrijs2005/zeroos/internal/client/config"
	"github.com/dmitrijs2005/zeroos/internal/client/identity"
	"github.com/dmitrijs2005/zeroos/internal/client/mocks"
	"github.com/dmitrijs2005/zeroos/internal/client/models"
	"github.com/dmitrijs2005/zeroos/internal/client/notify"
	"github.com/dmitrijs2005/zeroos/internal/client/session"
	"github.com/dmitrijs2005/zeroos/internal/client/storage"
	"github.com/dmitrijs2005/zeroos/internal/common"
	"github.com/dmitrijs2005/zeroos/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var rootListing = []models.FileEntry{
	{ID: "d1", Name: "Docs", MediaType: models.FolderMediaType, IsFolder: true},
	{ID: "f1", Name: "report.txt", MediaType: "text/plain", Size: 2048},
}

type testApp struct {
	*App
	gw  *mocks.MockClient
	rec *notify.Recorder
	buf *bytes.Buffer
}

// newTestApp starts an App on the development identity with a mocked
// gateway. input feeds the interactive prompts.
func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()

	ctrl := gomock.NewController(t)
	gw := mocks.NewMockClient(ctrl)
	gw.EXPECT().ListFiles(gomock.Any(), "").Return(rootListing, nil)
	gw.EXPECT().GetNotes(gomock.Any()).Return(nil, nil)
	gw.EXPECT().GetTasks(gomock.Any()).Return(nil, nil)
	gw.EXPECT().Close().Return(nil).AnyTimes()

	c := &config.Config{}
	c.LoadDefaults()
	c.ChunkSize = 4

	rec := &notify.Recorder{}
	buf := &bytes.Buffer{}
	a := newApp(c, logging.NewNop(), deps{
		newGateway: func(ctx context.Context, id *identity.Identity) (client.Client, error) {
			return gw, nil
		},
		notifier: rec,
		store:    storage.New(c.S3, nil),
		in:       strings.NewReader(input),
		out:      buf,
	})

	stop := a.start(context.Background())
	t.Cleanup(stop)

	return &testApp{App: a, gw: gw, rec: rec, buf: buf}
}

func lastNotice(t *testing.T, rec *notify.Recorder) notify.Entry {
	t.Helper()
	e, ok := rec.Last()
	require.True(t, ok, "no notice recorded")
	return e
}

func TestApp_StartsOnDevelopmentIdentity(t *testing.T) {
	a := newTestApp(t, "")

	assert.True(t, a.isLoggedIn())
	assert.Equal(t, ModeOnline, a.mode())
	assert.Len(t, a.syncer.Files(), 2)
	assert.Equal(t, "("+shorten(common.MockPrincipal)+"* / online)", a.getStatus())

	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Contains(t, a.buf.String(), "development identity")
}

func TestApp_LogoutAndLogin(t *testing.T) {
	a := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, a.Logout(ctx))
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, a.syncer.Files())
	assert.Equal(t, "(guest / online)", a.getStatus())

	a.gw.EXPECT().ListFiles(gomock.Any(), "").Return(rootListing, nil)
	a.gw.EXPECT().GetNotes(gomock.Any()).Return(nil, nil)
	a.gw.EXPECT().GetTasks(gomock.Any()).Return(nil, nil)

	require.NoError(t, a.Login(ctx))
	assert.True(t, a.isLoggedIn())
	assert.Len(t, a.syncer.Files(), 2)
}

func TestApp_ChangeDir(t *testing.T) {
	a := newTestApp(t, "")
	ctx := context.Background()

	parent := "d1"
	a.gw.EXPECT().ListFiles(gomock.Any(), "d1").Return([]models.FileEntry{
		{ID: "f2", Name: "inner.txt", ParentFolder: &parent},
	}, nil)

	require.NoError(t, a.ChangeDir(ctx, "Docs"))
	assert.Equal(t, "/Docs", a.cwd())
	assert.Equal(t, "d1", a.syncer.CurrentFolder())

	err := a.ChangeDir(ctx, "inner.txt")
	require.ErrorIs(t, err, client.ErrNotFound)
	assert.Contains(t, a.buf.String(), "No such folder: inner.txt")
	assert.Equal(t, "/Docs", a.cwd())

	a.gw.EXPECT().ListFiles(gomock.Any(), "").Return(rootListing, nil)
	require.NoError(t, a.ChangeDir(ctx, ".."))
	assert.Equal(t, "/", a.cwd())
	assert.Empty(t, a.syncer.CurrentFolder())
}

func TestApp_ListFiles(t *testing.T) {
	a := newTestApp(t, "")

	a.gw.EXPECT().ListFiles(gomock.Any(), "").Return(rootListing, nil)
	require.NoError(t, a.ListFiles(context.Background()))

	out := a.buf.String()
	assert.Contains(t, out, "Docs")
	assert.Contains(t, out, "folder")
	assert.Contains(t, out, "report.txt")
	assert.Contains(t, out, "2.0 kB")
}

func TestApp_PutAndGet(t *testing.T) {
	a := newTestApp(t, "")
	ctx := context.Background()
	dir := t.TempDir()

	src := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello world"), 0o600))

	var uploaded []client.ChunkUpload
	a.gw.EXPECT().UploadFileChunk(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c client.ChunkUpload) error {
			uploaded = append(uploaded, c)
			return nil
		}).Times(3)

	entry := models.FileEntry{
		ID:            "x",
		Name:          "hello.txt",
		MediaType:     "text/plain",
		Size:          11,
		ContentChunks: []string{"x_0", "x_1", "x_2"},
	}
	a.gw.EXPECT().ListFiles(gomock.Any(), "").Return(append(rootListing, entry), nil)

	require.NoError(t, a.Put(ctx, src))
	require.Len(t, uploaded, 3)
	assert.Equal(t, "hell", string(uploaded[0].Data))
	assert.Equal(t, "rld", string(uploaded[2].Data))
	assert.Equal(t, uint64(11), uploaded[2].TotalSize)
	assert.Contains(t, a.buf.String(), "chunk 3/3")

	a.gw.EXPECT().GetFileInfo(gomock.Any(), "x").Return(entry, nil)
	a.gw.EXPECT().GetFileChunk(gomock.Any(), "x_0").Return([]byte("hell"), nil)
	a.gw.EXPECT().GetFileChunk(gomock.Any(), "x_1").Return([]byte("o wo"), nil)
	a.gw.EXPECT().GetFileChunk(gomock.Any(), "x_2").Return([]byte("rld"), nil)

	out := t.TempDir()
	require.NoError(t, a.Get(ctx, "hello.txt", out))

	got, err := os.ReadFile(filepath.Join(out, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
}

func TestApp_PutMissingFile(t *testing.T) {
	a := newTestApp(t, "")

	err := a.Put(context.Background(), filepath.Join(t.TempDir(), "nope.bin"))
	require.Error(t, err)
	assert.Equal(t, notify.LevelError, lastNotice(t, a.rec).Level)
}

func TestApp_MakeDirAndRemove(t *testing.T) {
	a := newTestApp(t, "")
	ctx := context.Background()

	a.gw.EXPECT().CreateFolder(gomock.Any(), "Photos", "").Return(models.FileEntry{ID: "d2", Name: "Photos", IsFolder: true}, nil)
	a.gw.EXPECT().ListFiles(gomock.Any(), "").Return(rootListing, nil)
	require.NoError(t, a.MakeDir(ctx, "Photos"))

	a.gw.EXPECT().DeleteFile(gomock.Any(), "f1").Return(nil)
	a.gw.EXPECT().ListFiles(gomock.Any(), "").Return(rootListing[:1], nil)
	require.NoError(t, a.Remove(ctx, "report.txt"))
	assert.Len(t, a.syncer.Files(), 1)
}

func TestApp_NoteFlow(t *testing.T) {
	input := strings.Join([]string{
		"Groceries",
		"home, errands",
		"milk",
		"eggs",
		"",
		"",
		"",
		"bread",
		"",
	}, "\n")
	a := newTestApp(t, input)
	ctx := context.Background()

	created := models.Note{ID: "n1", Title: "Groceries", Content: "milk\neggs", Tags: []string{"home", "errands"}}
	a.gw.EXPECT().CreateNote(gomock.Any(), "Groceries", "milk\neggs", []string{"home", "errands"}).Return(created, nil)
	require.NoError(t, a.AddNote(ctx))
	require.Len(t, a.syncer.Notes(), 1)

	updated := created
	updated.Content = "bread"
	a.gw.EXPECT().UpdateNote(gomock.Any(), "n1", "Groceries", "bread", []string{"home", "errands"}).Return(updated, nil)
	require.NoError(t, a.EditNote(ctx, "n1"))

	n, ok := a.syncer.Note("n1")
	require.True(t, ok)
	assert.Equal(t, "bread", n.Content)

	a.buf.Reset()
	require.NoError(t, a.ShowNote(ctx, "n1"))
	assert.Contains(t, a.buf.String(), "tags: home, errands")

	require.ErrorIs(t, a.EditNote(ctx, "missing"), client.ErrNotFound)

	a.gw.EXPECT().DeleteNote(gomock.Any(), "n1").Return(nil)
	require.NoError(t, a.RemoveNote(ctx, "n1"))
	assert.Empty(t, a.syncer.Notes())
}

func TestApp_TaskFlow(t *testing.T) {
	input := strings.Join([]string{
		"Pay rent",
		"",
		"next week",
		"2030-01-15",
		"urgent",
		"high",
	}, "\n") + "\n"
	a := newTestApp(t, input)
	ctx := context.Background()

	wantDue := uint64(time.Date(2030, 1, 15, 0, 0, 0, 0, time.Local).UnixMilli())
	a.gw.EXPECT().CreateTask(gomock.Any(), "Pay rent", "", gomock.Any(), models.PriorityHigh).
		DoAndReturn(func(_ context.Context, title, desc string, due *uint64, p models.Priority) (models.Task, error) {
			require.NotNil(t, due)
			assert.Equal(t, wantDue, *due)
			return models.Task{ID: "t1", Title: title, DueDate: due, Priority: p}, nil
		})
	require.NoError(t, a.AddTask(ctx))
	assert.Contains(t, a.buf.String(), "Invalid date")

	a.gw.EXPECT().UpdateTask(gomock.Any(), "t1", "Pay rent", "", true, gomock.Any(), models.PriorityHigh).
		Return(models.Task{ID: "t1", Title: "Pay rent", Completed: true, Priority: models.PriorityHigh}, nil)
	require.NoError(t, a.CompleteTask(ctx, "t1"))

	task, ok := a.syncer.Task("t1")
	require.True(t, ok)
	assert.True(t, task.Completed)

	a.buf.Reset()
	require.NoError(t, a.Tasks(ctx))
	assert.Contains(t, a.buf.String(), "[x]")

	a.gw.EXPECT().DeleteTask(gomock.Any(), "t1").Return(nil)
	require.NoError(t, a.RemoveTask(ctx, "t1"))
	assert.Empty(t, a.syncer.Tasks())
}

func TestApp_Stats(t *testing.T) {
	a := newTestApp(t, "")

	a.gw.EXPECT().GetUserStorageInfo(gomock.Any()).Return(models.StorageInfo{
		models.StatFileCount:     1200,
		models.StatTotalFileSize: 5 << 20,
	}, nil)
	require.NoError(t, a.Stats(context.Background()))

	out := a.buf.String()
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "5.2 MB")
}

func TestApp_OnlineWatcher(t *testing.T) {
	a := newTestApp(t, "")
	ctx := context.Background()

	a.gw.EXPECT().Ping(gomock.Any()).Return(client.ErrUnavailable)
	a.checkOnline(ctx)
	assert.Equal(t, ModeOffline, a.mode())

	a.gw.EXPECT().Ping(gomock.Any()).Return(nil)
	a.checkOnline(ctx)
	assert.Equal(t, ModeOnline, a.mode())
}

type signedOutProvider struct{}

func (signedOutProvider) IsAuthenticated(context.Context) bool { return false }
func (signedOutProvider) Identity() *identity.Identity         { return nil }
func (signedOutProvider) Login(context.Context, string) (*identity.Identity, error) {
	return nil, errors.New("not in this test")
}
func (signedOutProvider) Logout(context.Context) error { return nil }

func TestApp_SlowPassphraseIsNotBoundedByProviderTimeout(t *testing.T) {
	c := &config.Config{}
	c.LoadDefaults()
	c.ProviderTimeout = 20 * time.Millisecond

	pp := identity.NewPassphrase(func() ([]byte, error) {
		time.Sleep(5 * c.ProviderTimeout)
		return []byte("pw"), nil
	})

	var seen string
	factory := func(ctx context.Context) (identity.Provider, error) {
		pass, err := pp.Get()
		if err != nil {
			return nil, err
		}
		seen = string(pass)
		return signedOutProvider{}, nil
	}

	a := newApp(c, logging.NewNop(), deps{
		passphrase: pp,
		factory:    factory,
		newGateway: func(context.Context, *identity.Identity) (client.Client, error) {
			t.Fatal("no gateway without a session")
			return nil, nil
		},
		notifier: &notify.Recorder{},
		store:    storage.New(c.S3, nil),
		in:       strings.NewReader(""),
		out:      &bytes.Buffer{},
	})
	stop := a.start(context.Background())
	t.Cleanup(stop)

	st := a.gate.State()
	assert.Equal(t, session.Unauthenticated, st.Kind)
	assert.False(t, st.Mock)
	assert.Equal(t, "pw", seen)

	_, err := pp.Get()
	require.ErrorIs(t, err, identity.ErrNoPassphrase, "secret is wiped once the session resolved")
}

func TestApp_MissingPassphraseFallsBackToDevelopmentIdentity(t *testing.T) {
	c := &config.Config{}
	c.LoadDefaults()

	pp := identity.NewPassphrase(func() ([]byte, error) { return nil, identity.ErrNoPassphrase })
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockClient(ctrl)
	gw.EXPECT().ListFiles(gomock.Any(), "").Return(nil, nil)
	gw.EXPECT().GetNotes(gomock.Any()).Return(nil, nil)
	gw.EXPECT().GetTasks(gomock.Any()).Return(nil, nil)
	gw.EXPECT().Close().Return(nil).AnyTimes()

	a := newApp(c, logging.NewNop(), deps{
		passphrase: pp,
		factory:    identity.NewKeystoreFactory(t.TempDir(), pp.Get, nil),
		newGateway: func(context.Context, *identity.Identity) (client.Client, error) { return gw, nil },
		notifier:   &notify.Recorder{},
		store:      storage.New(c.S3, nil),
		in:         strings.NewReader(""),
		out:        &bytes.Buffer{},
	})
	stop := a.start(context.Background())
	t.Cleanup(stop)

	assert.Equal(t, session.MockAuthenticated, a.gate.State().Kind)
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "abc", shorten("abc"))
	assert.Equal(t, "abcde…vwxyz", shorten("abcdefghijklmnopqrstuvwxyz"))
}
