package application

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldenis/synctray/internal/domain"
)

func newTestSession(account domain.Account, auth *fakeAuth, dir *fakeDirectory) *Session {
	if auth == nil {
		auth = newFakeAuth()
	}
	if dir == nil {
		dir = &fakeDirectory{}
	}
	return newSession(account, auth, dir, &fakeAvatarFetcher{}, &fakeActivityAPI{}, fixedClock{}, zerolog.Nop(), false)
}

func TestSessionNameFallsBackToLoginName(t *testing.T) {
	s := newTestSession(testAccount("acc-1", "jdoe", "", "https://cloud.example.com"), nil, nil)
	assert.Equal(t, "jdoe", s.Name())
}

func TestSessionConnectivity(t *testing.T) {
	auth := newFakeAuth()
	s := newTestSession(testAccount("acc-1", "alice", "Alice", "https://cloud.example.com"), auth, nil)

	assert.False(t, s.IsConnected())

	auth.connectivity["acc-1"] = domain.ConnectivityConnected
	assert.True(t, s.IsConnected())

	auth.connectivity["acc-1"] = domain.ConnectivityMaintenance
	assert.False(t, s.IsConnected())
}

func TestSessionLoginClearsRejectedCertificatesFirst(t *testing.T) {
	auth := newFakeAuth()
	s := newTestSession(testAccount("acc-1", "alice", "Alice", "https://cloud.example.com"), auth, nil)

	require.NoError(t, s.Login(context.Background()))
	require.Len(t, auth.certsCleared, 1)
	require.Len(t, auth.signIns, 1)
}

func TestSessionRemoveRecordDeletesAndPersists(t *testing.T) {
	dir := &fakeDirectory{accounts: []domain.Account{
		testAccount("acc-1", "alice", "Alice", "https://cloud.example.com"),
	}}
	s := newTestSession(dir.accounts[0], nil, dir)

	require.NoError(t, s.RemoveRecord(context.Background()))
	assert.Equal(t, []domain.AccountID{"acc-1"}, dir.deleted)
	assert.Equal(t, 1, dir.persists)
}

func TestSessionRoutesOnlyOwnEvents(t *testing.T) {
	s := newTestSession(testAccount("acc-1", "alice", "Alice", "https://cloud.example.com"), nil, nil)

	s.RouteSyncError("acc-2", domain.SyncError{Message: "not ours"})
	s.RouteItemCompleted("acc-2", "f1", domain.SyncItem{File: "/x", Status: domain.StatusSuccess})
	assert.Equal(t, 0, s.Feed().Len())

	s.RouteSyncError("acc-1", domain.SyncError{Message: "ours"})
	s.RouteItemCompleted("acc-1", "f1", domain.SyncItem{File: "/x", OriginalFile: "/x", Status: domain.StatusSuccess})
	assert.Equal(t, 2, s.Feed().Len())
}
