package ports

import (
	"context"

	"github.com/ldenis/synctray/internal/domain"
)

// AccountDirectory is the persistence collaborator owning the set of
// configured accounts. The session core never writes account records
// itself; it only enumerates, deletes and asks for a persist.
type AccountDirectory interface {
	List(ctx context.Context) ([]domain.Account, error)
	Delete(ctx context.Context, id domain.AccountID) error
	Persist(ctx context.Context) error
	// OnAccountAdded registers a callback fired after a new account lands
	// in the directory. Callbacks run on the caller's goroutine.
	OnAccountAdded(fn func())
}
