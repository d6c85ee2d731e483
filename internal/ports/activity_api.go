package ports

import (
	"context"

	"github.com/ldenis/synctray/internal/domain"
)

// ActivityAPI pages through server-recorded activities for an account.
// It returns the records of one page plus the cursor for the next call;
// an empty page with the same cursor means the feed is exhausted.
type ActivityAPI interface {
	FetchActivities(ctx context.Context, account domain.Account, since int64, limit int) ([]domain.ActivityRecord, int64, error)
}
