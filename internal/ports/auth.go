package ports

import (
	"context"

	"github.com/ldenis/synctray/internal/domain"
)

// Authenticator is the per-account auth collaborator. Sign-in and sign-out
// may be interactive and complete asynchronously; connectivity reflects
// whatever state the collaborator has reached so far.
type Authenticator interface {
	SignIn(ctx context.Context, id domain.AccountID) error
	SignOut(ctx context.Context, id domain.AccountID) error
	ClearRejectedCertificates(id domain.AccountID)
	Connectivity(id domain.AccountID) domain.Connectivity
	HasTalk(id domain.AccountID) bool
	HasActivities(id domain.AccountID) bool
}
