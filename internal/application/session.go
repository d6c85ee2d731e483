package application

import (
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/ldenis/synctray/internal/domain"
	"github.com/ldenis/synctray/internal/ports"
)

// Session binds one connected account to its connectivity state, its
// activity feed and its avatar resolver. Exactly one session in a registry
// is current at a time.
type Session struct {
	account   domain.Account
	auth      ports.Authenticator
	dir       ports.AccountDirectory
	isCurrent bool
	feed      *Feed
	avatars   *AvatarResolver
	log       zerolog.Logger
}

func newSession(
	account domain.Account,
	auth ports.Authenticator,
	dir ports.AccountDirectory,
	avatarFetch ports.AvatarFetcher,
	activity ports.ActivityAPI,
	clock ports.Clock,
	log zerolog.Logger,
	isCurrent bool,
) *Session {
	s := &Session{
		account:   account,
		auth:      auth,
		dir:       dir,
		isCurrent: isCurrent,
		avatars:   newAvatarResolver(account, avatarFetch, log),
		log:       log.With().Str("account", string(account.ID)).Logger(),
	}
	s.feed = newFeed(account, activity, s.IsConnected, clock, log)
	return s
}

func (s *Session) Account() domain.Account {
	return s.account
}

func (s *Session) ID() domain.AccountID {
	return s.account.ID
}

// Name returns the account's preferred display name, falling back to the
// raw login identifier.
func (s *Session) Name() string {
	return s.account.PreferredName()
}

// ServerURL returns the account's base URL, optionally with the scheme
// prefix stripped for compact display.
func (s *Session) ServerURL(shortened bool) string {
	if shortened {
		return s.account.ShortServerURL()
	}
	return s.account.ServerURL
}

func (s *Session) IsConnected() bool {
	return s.auth.Connectivity(s.account.ID) == domain.ConnectivityConnected
}

func (s *Session) IsCurrent() bool {
	return s.isCurrent
}

func (s *Session) setCurrent(current bool) {
	s.isCurrent = current
}

func (s *Session) HasTalk() bool {
	return s.auth.HasTalk(s.account.ID)
}

func (s *Session) HasActivities() bool {
	return s.auth.HasActivities(s.account.ID)
}

// Login clears any previously rejected TLS certificates and requests an
// interactive sign-in. The auth collaborator may complete asynchronously;
// connectivity is re-read later, not assumed.
func (s *Session) Login(ctx context.Context) error {
	s.auth.ClearRejectedCertificates(s.account.ID)
	if err := s.auth.SignIn(ctx, s.account.ID); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	return nil
}

// Logout requests a sign-out. Unlike RemoveRecord this is reversible.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.auth.SignOut(ctx, s.account.ID); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// RemoveRecord asks the account directory to delete this account and
// persist the change. Irreversible for this process.
func (s *Session) RemoveRecord(ctx context.Context) error {
	if err := s.dir.Delete(ctx, s.account.ID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if err := s.dir.Persist(ctx); err != nil {
		return fmt.Errorf("persist directory: %w", err)
	}
	return nil
}

// RouteSyncError forwards a folder-level error to the feed if the event
// belongs to this session's account. Events for other accounts are ignored.
func (s *Session) RouteSyncError(source domain.AccountID, ev domain.SyncError) {
	if source != s.account.ID {
		return
	}
	s.feed.AddError(ev)
}

// RouteItemCompleted forwards a per-file outcome to the feed if the event
// belongs to this session's account.
func (s *Session) RouteItemCompleted(source domain.AccountID, folderID string, item domain.SyncItem) {
	if source != s.account.ID {
		return
	}
	s.feed.AddCompletedItem(folderID, item)
}

func (s *Session) Feed() *Feed {
	return s.feed
}

func (s *Session) Avatar(ctx context.Context, preferWhiteBackground bool) image.Image {
	return s.avatars.Resolve(ctx, preferWhiteBackground)
}
