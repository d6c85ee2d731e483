package tray

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldenis/synctray/internal/application"
	"github.com/ldenis/synctray/internal/domain"
)

type noopDirectory struct{}

func (noopDirectory) List(context.Context) ([]domain.Account, error) { return nil, nil }
func (noopDirectory) Delete(context.Context, domain.AccountID) error { return nil }
func (noopDirectory) Persist(context.Context) error                  { return nil }
func (noopDirectory) OnAccountAdded(func())                          {}

type noopAuth struct{}

func (noopAuth) SignIn(context.Context, domain.AccountID) error  { return nil }
func (noopAuth) SignOut(context.Context, domain.AccountID) error { return nil }
func (noopAuth) ClearRejectedCertificates(domain.AccountID)      {}
func (noopAuth) Connectivity(domain.AccountID) domain.Connectivity {
	return domain.ConnectivityDisconnected
}
func (noopAuth) HasTalk(domain.AccountID) bool       { return false }
func (noopAuth) HasActivities(domain.AccountID) bool { return false }

type noopAvatars struct{}

func (noopAvatars) Fetch(context.Context, domain.Account) ([]byte, error) { return nil, nil }

type noopActivities struct{}

func (noopActivities) FetchActivities(context.Context, domain.Account, int64, int) ([]domain.ActivityRecord, int64, error) {
	return nil, 0, nil
}

func newRenderRegistry() *application.Registry {
	return application.NewRegistry(noopDirectory{}, noopAuth{}, noopAvatars{}, noopActivities{}, nil, zerolog.Nop())
}

func TestRenderAccountsEmpty(t *testing.T) {
	out := RenderAccounts(nil)
	assert.Contains(t, out, "No accounts configured.")
}

func TestRenderAccountsMarksCurrentAndConnectivity(t *testing.T) {
	roles := []application.Role{
		{Name: "Alice", Server: "one.example.com", IsCurrentUser: true, IsConnected: true, ID: 0},
		{Name: "Bob", Server: "two.example.com", ID: 1},
	}

	out := RenderAccounts(roles)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "one.example.com")
	assert.Contains(t, out, "online")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "offline")
}

func TestRenderFeedShowsActionLinks(t *testing.T) {
	records := []domain.ActivityRecord{
		{
			Kind:    domain.KindSyncResult,
			Status:  domain.StatusError,
			Subject: "quota exceeded",
			Message: "/home/alice/Nextcloud",
			ActionLinks: []domain.ActionLink{
				{Label: "Retry all uploads", Target: "/home/alice/Nextcloud", Primary: true},
			},
		},
		{
			Kind:    domain.KindSyncFileItem,
			Status:  domain.StatusSuccess,
			Message: "Synced /a/b.txt",
		},
	}

	out := RenderFeed(records)
	assert.Contains(t, out, "quota exceeded")
	assert.Contains(t, out, "[Retry all uploads]")
	assert.Contains(t, out, "Synced /a/b.txt")
}

func TestModelTracksRegistryMutations(t *testing.T) {
	r := newRenderRegistry()
	m := NewModel(r)

	r.AddSession(domain.Account{ID: "acc-1", LoginName: "alice", DisplayName: "Alice", ServerURL: "https://one.example.com"}, true)
	r.AddSession(domain.Account{ID: "acc-2", LoginName: "bob", DisplayName: "Bob", ServerURL: "https://two.example.com"}, false)

	rows := m.Rows()
	require.Len(t, rows, 2)
	assert.True(t, rows[0].IsCurrentUser)
	assert.Equal(t, "Bob", rows[1].Name)

	require.NoError(t, r.SwitchCurrent(1))
	rows = m.Rows()
	assert.False(t, rows[0].IsCurrentUser)
	assert.True(t, rows[1].IsCurrentUser)

	require.NoError(t, r.RemoveSession(context.Background(), 0))
	rows = m.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Bob", rows[0].Name)
	assert.True(t, rows[0].IsCurrentUser)
	assert.Equal(t, 0, rows[0].ID)
}
