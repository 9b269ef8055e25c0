package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/zeroos/internal/client/client"
	"github.com/dmitrijs2005/zeroos/internal/client/identity"
	"github.com/dmitrijs2005/zeroos/internal/client/mocks"
	"github.com/dmitrijs2005/zeroos/internal/client/models"
	"github.com/dmitrijs2005/zeroos/internal/client/notify"
	"github.com/dmitrijs2005/zeroos/internal/client/session"
	"github.com/dmitrijs2005/zeroos/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func expectInitialLoad(m *mocks.MockClient) {
	m.EXPECT().ListFiles(gomock.Any(), "").Return([]models.FileEntry{{ID: "f"}}, nil)
	m.EXPECT().GetNotes(gomock.Any()).Return([]models.Note{{ID: "n"}}, nil)
	m.EXPECT().GetTasks(gomock.Any()).Return(nil, nil)
}

func TestWorkspace_FollowsSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	rec := &notify.Recorder{}

	gate := session.NewGate(session.Options{Notifier: rec})
	gate.Initialize(ctx) // no provider: development identity

	var built []*mocks.MockClient
	var principals []string
	factory := func(ctx context.Context, id *identity.Identity) (client.Client, error) {
		m := mocks.NewMockClient(ctrl)
		expectInitialLoad(m)
		m.EXPECT().Close().Return(nil)
		built = append(built, m)
		principals = append(principals, id.Principal())
		return m, nil
	}

	syncer := NewSynchronizer(rec, nil)
	ws := NewWorkspace(gate, syncer, factory, rec, nil)
	stop := ws.Start(ctx)
	defer stop()

	require.Len(t, built, 1)
	assert.True(t, ws.Connected())
	assert.True(t, syncer.Bound())
	assert.Len(t, syncer.Files(), 1)
	assert.Len(t, syncer.Notes(), 1)
	assert.Equal(t, []string{common.MockPrincipal}, principals)

	built[0].EXPECT().Ping(gomock.Any()).Return(nil)
	require.NoError(t, ws.Ping(ctx))

	require.NoError(t, gate.Logout(ctx))
	assert.False(t, ws.Connected())
	assert.False(t, syncer.Bound())
	assert.Empty(t, syncer.Files())
	require.ErrorIs(t, ws.Ping(ctx), ErrNotConnected)

	require.NoError(t, gate.Login(ctx))
	require.Len(t, built, 2)
	assert.True(t, ws.Connected())

	ws.Close()
	assert.False(t, ws.Connected())
}

func TestWorkspace_SamePrincipalKeepsGateway(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	rec := &notify.Recorder{}

	gate := session.NewGate(session.Options{Notifier: rec})
	gate.Initialize(ctx)

	calls := 0
	factory := func(ctx context.Context, id *identity.Identity) (client.Client, error) {
		calls++
		m := mocks.NewMockClient(ctrl)
		expectInitialLoad(m)
		m.EXPECT().Close().Return(nil).AnyTimes()
		return m, nil
	}

	ws := NewWorkspace(gate, NewSynchronizer(rec, nil), factory, rec, nil)
	defer ws.Start(ctx)()

	require.NoError(t, gate.Login(ctx))
	assert.Equal(t, 1, calls)
}

func TestWorkspace_GatewayFailure(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		err    error
		notice string
	}{
		{"configuration", fmt.Errorf("%w: backend canister id not found", client.ErrConfiguration), "configuration error: backend canister id not found"},
		{"transport", errors.New("dial failed"), "Failed to connect to backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &notify.Recorder{}
			gate := session.NewGate(session.Options{Notifier: rec})
			gate.Initialize(ctx)

			factory := func(ctx context.Context, id *identity.Identity) (client.Client, error) {
				return nil, tt.err
			}

			syncer := NewSynchronizer(rec, nil)
			ws := NewWorkspace(gate, syncer, factory, rec, nil)
			defer ws.Start(ctx)()

			assert.False(t, ws.Connected())
			assert.False(t, syncer.Bound())
			assert.Equal(t, notify.Entry{Level: notify.LevelError, Message: tt.notice}, lastNotice(t, rec))
		})
	}
}
