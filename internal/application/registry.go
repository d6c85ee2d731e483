package application

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ldenis/synctray/internal/domain"
	"github.com/ldenis/synctray/internal/notify"
	"github.com/ldenis/synctray/internal/ports"
)

// noUsersLabel is what the current-user surfaces show before any account
// is configured.
const noUsersLabel = "No users"

type initState int

const (
	initPending initState = iota
	initDone
)

// Registry is the process-wide ordered collection of account sessions.
// Index is identity: removing a session renumbers everything after it, so
// observers must not cache indices across mutations. All methods must be
// called from one control goroutine; the registry holds no locks.
type Registry struct {
	sessions []*Session
	current  int
	state    initState
	bus      *notify.Bus

	dir      ports.AccountDirectory
	auth     ports.Authenticator
	avatars  ports.AvatarFetcher
	activity ports.ActivityAPI
	clock    ports.Clock
	log      zerolog.Logger
}

// NewRegistry builds a registry over its collaborators and subscribes to
// directory additions so the session list follows the directory. The
// caller constructs exactly one registry per process and hands it to
// every consumer; there is no lazy global instance.
func NewRegistry(
	dir ports.AccountDirectory,
	auth ports.Authenticator,
	avatars ports.AvatarFetcher,
	activity ports.ActivityAPI,
	clock ports.Clock,
	log zerolog.Logger,
) *Registry {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	r := &Registry{
		bus:      notify.NewBus(),
		dir:      dir,
		auth:     auth,
		avatars:  avatars,
		activity: activity,
		clock:    clock,
		log:      log,
	}

	r.dir.OnAccountAdded(func() {
		if err := r.LoadFromDirectory(context.Background()); err != nil {
			r.log.Warn().Err(err).Msg("reload sessions after account added")
		}
	})

	return r
}

// Subscribe registers an observer for structural and selection changes.
func (r *Registry) Subscribe(fn func(notify.Payload)) {
	r.bus.Subscribe(fn)
}

// LoadFromDirectory populates the registry from the account directory.
// Accounts already present are skipped. On the first population that
// yields any session, the first session becomes current; the init state
// is consumed exactly once.
func (r *Registry) LoadFromDirectory(ctx context.Context) error {
	accounts, err := r.dir.List(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	for _, account := range accounts {
		r.AddSession(account, false)
	}

	if r.state == initPending && len(r.sessions) > 0 {
		r.sessions[0].setCurrent(true)
		r.current = 0
		r.state = initDone
	}

	return nil
}

// AddSession appends a session for account. Adding an identity that is
// already registered is a silent no-op. When makeCurrent is set the new
// session becomes the selection.
func (r *Registry) AddSession(account domain.Account, makeCurrent bool) {
	duplicate := false
	for _, s := range r.sessions {
		if s.ID() == account.ID {
			duplicate = true
		}
	}
	if duplicate {
		r.log.Debug().Str("account", string(account.ID)).Msg("duplicate account ignored")
		return
	}

	s := newSession(account, r.auth, r.dir, r.avatars, r.activity, r.clock, r.log, makeCurrent)
	r.sessions = append(r.sessions, s)
	idx := len(r.sessions) - 1

	if makeCurrent {
		if r.state == initDone && r.current != idx && r.current < len(r.sessions) {
			r.sessions[r.current].setCurrent(false)
		}
		r.current = idx
		r.state = initDone
	}

	r.bus.Publish(notify.SessionsInserted{From: idx, To: idx})
}

// SwitchCurrent moves the selection to index.
func (r *Registry) SwitchCurrent(index int) error {
	if !r.validIndex(index) {
		return fmt.Errorf("switch to %d: %w", index, domain.ErrOutOfRange)
	}

	r.sessions[r.current].setCurrent(false)
	r.sessions[index].setCurrent(true)
	r.current = index
	r.bus.Publish(notify.SelectionChanged{Index: index})
	return nil
}

// RemoveSession signs the session out, deletes its account record and
// removes it from the registry. When the removed session is current and
// others remain, the selection is moved first so the registry never holds
// sessions without a current one. The structural notification always
// precedes the trailing selection notification.
func (r *Registry) RemoveSession(ctx context.Context, index int) error {
	if !r.validIndex(index) {
		return fmt.Errorf("remove %d: %w", index, domain.ErrOutOfRange)
	}

	s := r.sessions[index]
	if s.IsCurrent() && len(r.sessions) > 1 {
		next := 0
		if index == 0 {
			next = 1
		}
		if err := r.SwitchCurrent(next); err != nil {
			return err
		}
	}

	if err := s.Logout(ctx); err != nil {
		r.log.Warn().Err(err).Str("account", string(s.ID())).Msg("sign out before removal")
	}
	if err := s.RemoveRecord(ctx); err != nil {
		return fmt.Errorf("remove account record: %w", err)
	}

	r.sessions = append(r.sessions[:index], r.sessions[index+1:]...)
	if index < r.current {
		r.current--
	}
	if len(r.sessions) == 0 {
		r.current = 0
	}

	r.bus.Publish(notify.SessionsRemoved{From: index, To: index})
	r.bus.Publish(notify.SelectionChanged{Index: r.CurrentIndex()})
	return nil
}

// Login delegates to the session's sign-in and tells observers to re-read
// derived fields; connectivity may change asynchronously afterwards.
func (r *Registry) Login(ctx context.Context, index int) error {
	if !r.validIndex(index) {
		return fmt.Errorf("login %d: %w", index, domain.ErrOutOfRange)
	}
	if err := r.sessions[index].Login(ctx); err != nil {
		return err
	}
	r.bus.Publish(notify.SessionsChanged{From: index, To: index})
	return nil
}

// Logout mirrors Login for sign-out.
func (r *Registry) Logout(ctx context.Context, index int) error {
	if !r.validIndex(index) {
		return fmt.Errorf("logout %d: %w", index, domain.ErrOutOfRange)
	}
	if err := r.sessions[index].Logout(ctx); err != nil {
		return err
	}
	r.bus.Publish(notify.SessionsChanged{From: index, To: index})
	return nil
}

func (r *Registry) Count() int {
	return len(r.sessions)
}

// IndexOf returns the session index owning id, or -1 when the identity is
// not registered.
func (r *Registry) IndexOf(id domain.AccountID) int {
	for i, s := range r.sessions {
		if s.ID() == id {
			return i
		}
	}
	return -1
}

// CurrentIndex returns the selected session's index, or -1 while the
// registry is empty.
func (r *Registry) CurrentIndex() int {
	if len(r.sessions) == 0 {
		return -1
	}
	return r.current
}

func (r *Registry) IsConnected(index int) (bool, error) {
	if !r.validIndex(index) {
		return false, fmt.Errorf("connected %d: %w", index, domain.ErrOutOfRange)
	}
	return r.sessions[index].IsConnected(), nil
}

func (r *Registry) DisplayName(index int) (string, error) {
	if !r.validIndex(index) {
		return "", fmt.Errorf("display name %d: %w", index, domain.ErrOutOfRange)
	}
	return r.sessions[index].Name(), nil
}

func (r *Registry) ServerURL(index int, shortened bool) (string, error) {
	if !r.validIndex(index) {
		return "", fmt.Errorf("server url %d: %w", index, domain.ErrOutOfRange)
	}
	return r.sessions[index].ServerURL(shortened), nil
}

// Avatar returns the session's small list avatar, themed for a white
// background.
func (r *Registry) Avatar(ctx context.Context, index int) (image.Image, error) {
	if !r.validIndex(index) {
		return nil, fmt.Errorf("avatar %d: %w", index, domain.ErrOutOfRange)
	}
	return r.sessions[index].Avatar(ctx, true), nil
}

func (r *Registry) HasActivities(index int) (bool, error) {
	if !r.validIndex(index) {
		return false, fmt.Errorf("has activities %d: %w", index, domain.ErrOutOfRange)
	}
	return r.sessions[index].HasActivities(), nil
}

func (r *Registry) Feed(index int) (*Feed, error) {
	if !r.validIndex(index) {
		return nil, fmt.Errorf("feed %d: %w", index, domain.ErrOutOfRange)
	}
	return r.sessions[index].Feed(), nil
}

// Current-user conveniences. These degrade gracefully on an empty
// registry instead of failing: the tray shows them before any account
// exists.

func (r *Registry) CurrentDisplayName() string {
	if len(r.sessions) == 0 {
		return noUsersLabel
	}
	return r.sessions[r.current].Name()
}

func (r *Registry) CurrentServerURL() string {
	if len(r.sessions) == 0 {
		return ""
	}
	return r.sessions[r.current].ServerURL(false)
}

func (r *Registry) CurrentHasTalk() bool {
	if len(r.sessions) == 0 {
		return false
	}
	return r.sessions[r.current].HasTalk()
}

func (r *Registry) CurrentHasActivities() bool {
	if len(r.sessions) == 0 {
		return false
	}
	return r.sessions[r.current].HasActivities()
}

// CurrentAvatar returns the large current-user avatar, themed for the
// default dark surface. Never nil, even while the registry is empty.
func (r *Registry) CurrentAvatar(ctx context.Context) image.Image {
	if len(r.sessions) == 0 {
		return placeholderAvatar(false)
	}
	return r.sessions[r.current].Avatar(ctx, false)
}

func (r *Registry) CurrentFeed() *Feed {
	if len(r.sessions) == 0 {
		return nil
	}
	return r.sessions[r.current].Feed()
}

// FetchCurrentActivity pulls the next activity page for the current
// session. A disconnected or empty registry makes this a no-op.
func (r *Registry) FetchCurrentActivity(ctx context.Context) error {
	if len(r.sessions) == 0 {
		return nil
	}
	return r.sessions[r.current].Feed().FetchMore(ctx)
}

// TalkURL returns the Talk app URL on the session's server, prefixing a
// scheme when the stored URL has none.
func (r *Registry) TalkURL(index int) (string, error) {
	if !r.validIndex(index) {
		return "", fmt.Errorf("talk url %d: %w", index, domain.ErrOutOfRange)
	}

	url := r.sessions[index].ServerURL(false)
	if !strings.Contains(url, "http://") && !strings.Contains(url, "https://") {
		url = "https://" + url
	}
	return url + "/apps/spreed", nil
}

// Role is the field set observers query per index when redrawing a list
// row.
type Role struct {
	Name          string
	Server        string
	Avatar        image.Image
	IsCurrentUser bool
	IsConnected   bool
	ID            int
}

// Role resolves the observer field set for index. Out-of-range indices
// yield a zero Role rather than an error: list adapters probe freely.
func (r *Registry) Role(ctx context.Context, index int) Role {
	if !r.validIndex(index) {
		return Role{}
	}

	s := r.sessions[index]
	return Role{
		Name:          s.Name(),
		Server:        s.ServerURL(true),
		Avatar:        s.Avatar(ctx, true),
		IsCurrentUser: s.IsCurrent(),
		IsConnected:   s.IsConnected(),
		ID:            index,
	}
}

// HandleSyncError routes a folder-level sync error to the owning session.
// Events for identities no longer in the registry are dropped; late
// completions for removed sessions land here and disappear harmlessly.
func (r *Registry) HandleSyncError(source domain.AccountID, ev domain.SyncError) {
	for _, s := range r.sessions {
		s.RouteSyncError(source, ev)
	}
}

// HandleItemCompleted routes a per-file completion to the owning session.
func (r *Registry) HandleItemCompleted(source domain.AccountID, folderID string, item domain.SyncItem) {
	for _, s := range r.sessions {
		s.RouteItemCompleted(source, folderID, item)
	}
}

func (r *Registry) validIndex(index int) bool {
	return index >= 0 && index < len(r.sessions)
}
