package application

import (
	"context"
	"time"

	"github.com/ldenis/synctray/internal/domain"
)

// Hand-rolled port fakes shared by the suites in this package.

type fakeDirectory struct {
	accounts []domain.Account
	deleted  []domain.AccountID
	persists int
	added    []func()
}

func (d *fakeDirectory) List(context.Context) ([]domain.Account, error) {
	out := make([]domain.Account, len(d.accounts))
	copy(out, d.accounts)
	return out, nil
}

func (d *fakeDirectory) Delete(_ context.Context, id domain.AccountID) error {
	d.deleted = append(d.deleted, id)
	for i, a := range d.accounts {
		if a.ID == id {
			d.accounts = append(d.accounts[:i], d.accounts[i+1:]...)
			break
		}
	}
	return nil
}

func (d *fakeDirectory) Persist(context.Context) error {
	d.persists++
	return nil
}

func (d *fakeDirectory) OnAccountAdded(fn func()) {
	d.added = append(d.added, fn)
}

func (d *fakeDirectory) add(a domain.Account) {
	d.accounts = append(d.accounts, a)
	for _, fn := range d.added {
		fn()
	}
}

type fakeAuth struct {
	connectivity map[domain.AccountID]domain.Connectivity
	talk         map[domain.AccountID]bool
	activities   map[domain.AccountID]bool
	signIns      []domain.AccountID
	signOuts     []domain.AccountID
	certsCleared []domain.AccountID
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		connectivity: map[domain.AccountID]domain.Connectivity{},
		talk:         map[domain.AccountID]bool{},
		activities:   map[domain.AccountID]bool{},
	}
}

func (a *fakeAuth) SignIn(_ context.Context, id domain.AccountID) error {
	a.signIns = append(a.signIns, id)
	return nil
}

func (a *fakeAuth) SignOut(_ context.Context, id domain.AccountID) error {
	a.signOuts = append(a.signOuts, id)
	return nil
}

func (a *fakeAuth) ClearRejectedCertificates(id domain.AccountID) {
	a.certsCleared = append(a.certsCleared, id)
}

func (a *fakeAuth) Connectivity(id domain.AccountID) domain.Connectivity {
	if c, ok := a.connectivity[id]; ok {
		return c
	}
	return domain.ConnectivityDisconnected
}

func (a *fakeAuth) HasTalk(id domain.AccountID) bool {
	return a.talk[id]
}

func (a *fakeAuth) HasActivities(id domain.AccountID) bool {
	return a.activities[id]
}

type fakeAvatarFetcher struct {
	data    []byte
	err     error
	fetches int
}

func (f *fakeAvatarFetcher) Fetch(context.Context, domain.Account) ([]byte, error) {
	f.fetches++
	return f.data, f.err
}

type fakeActivityAPI struct {
	pages  [][]domain.ActivityRecord
	calls  int
	cursor int64
}

func (f *fakeActivityAPI) FetchActivities(_ context.Context, _ domain.Account, since int64, _ int) ([]domain.ActivityRecord, int64, error) {
	f.calls++
	if len(f.pages) == 0 {
		return nil, since, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	f.cursor = since + int64(len(page))
	return page, f.cursor, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func testAccount(id, login, display, server string) domain.Account {
	return domain.Account{
		ID:          domain.AccountID(id),
		LoginName:   login,
		DisplayName: display,
		ServerURL:   server,
	}
}
