package ports

import (
	"context"

	"github.com/ldenis/synctray/internal/domain"
)

// AvatarFetcher retrieves raw avatar image bytes for an account.
// A nil slice with a nil error means the server has no avatar; the
// resolver falls back to its placeholder either way.
type AvatarFetcher interface {
	Fetch(ctx context.Context, account domain.Account) ([]byte, error)
}
