package application

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ldenis/synctray/internal/domain"
	"github.com/ldenis/synctray/internal/ports"
)

// syncedMarker prefixes the message of successfully synced items. Kept as
// a plain constant until the client grows a translation layer.
const syncedMarker = "Synced"

const retryAllUploadsLabel = "Retry all uploads"

const activityPageSize = 50

// Feed is the append-only activity log of one account session. Every
// ingested event yields exactly one record; records are immutable and kept
// in insertion order. The error/ignored partitions are filtered views over
// the same sequence.
type Feed struct {
	account   domain.Account
	api       ports.ActivityAPI
	connected func() bool
	clock     ports.Clock
	log       zerolog.Logger

	records []domain.ActivityRecord
	cursor  int64
}

func newFeed(account domain.Account, api ports.ActivityAPI, connected func() bool, clock ports.Clock, log zerolog.Logger) *Feed {
	return &Feed{
		account:   account,
		api:       api,
		connected: connected,
		clock:     clock,
		log:       log.With().Str("account", string(account.ID)).Logger(),
	}
}

// AddError ingests a folder-level sync error.
func (f *Feed) AddError(ev domain.SyncError) {
	f.log.Warn().
		Str("folder", ev.FolderID).
		Str("message", ev.Message).
		Msg("sync error ingested")

	record := domain.ActivityRecord{
		Kind:        domain.KindSyncResult,
		Status:      domain.StatusError,
		Timestamp:   f.clock.Now(),
		Subject:     ev.Message,
		Message:     ev.FolderPath,
		Link:        ev.FolderPath,
		AccountName: f.account.PreferredName(),
		FolderID:    ev.FolderID,
	}

	if ev.Category == domain.CategoryInsufficientRemoteStorage {
		record.ActionLinks = append(record.ActionLinks, domain.ActionLink{
			Label:   retryAllUploadsLabel,
			Target:  ev.FolderPath,
			Primary: true,
		})
	}

	f.records = append(f.records, record)
}

// AddCompletedItem ingests one per-file sync outcome.
func (f *Feed) AddCompletedItem(folderID string, item domain.SyncItem) {
	record := domain.ActivityRecord{
		Kind:        domain.KindSyncFileItem,
		Status:      item.Status,
		Timestamp:   f.clock.Now(),
		Message:     item.OriginalFile,
		Link:        f.account.ServerURL,
		AccountName: f.account.PreferredName(),
		FolderID:    folderID,
		File:        item.File,
	}

	switch item.Status {
	case domain.StatusNone, domain.StatusSuccess:
		f.log.Debug().Str("file", item.File).Msg("item synced")
		record.Message = syncedMarker + " " + record.Message
	case domain.StatusFileIgnored:
		record.Subject = item.ErrorString
	default:
		f.log.Warn().Str("file", item.File).Str("error", item.ErrorString).Msg("item failed")
		record.Subject = item.ErrorString
	}

	f.records = append(f.records, record)
}

// All returns every record in insertion order.
func (f *Feed) All() []domain.ActivityRecord {
	out := make([]domain.ActivityRecord, len(f.records))
	copy(out, f.records)
	return out
}

// Errors returns the error partition: folder-level sync errors plus file
// items that failed with anything other than an ignore.
func (f *Feed) Errors() []domain.ActivityRecord {
	return f.filter(func(r domain.ActivityRecord) bool {
		if r.Kind == domain.KindSyncResult {
			return true
		}
		if r.Kind != domain.KindSyncFileItem {
			return false
		}
		switch r.Status {
		case domain.StatusNone, domain.StatusSuccess, domain.StatusFileIgnored:
			return false
		}
		return true
	})
}

// Ignored returns file items the engine skipped over.
func (f *Feed) Ignored() []domain.ActivityRecord {
	return f.filter(func(r domain.ActivityRecord) bool {
		return r.Kind == domain.KindSyncFileItem && r.Status == domain.StatusFileIgnored
	})
}

func (f *Feed) filter(keep func(domain.ActivityRecord) bool) []domain.ActivityRecord {
	var out []domain.ActivityRecord
	for _, r := range f.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (f *Feed) Len() int {
	return len(f.records)
}

// FetchMore pulls the next page of server-side activity and appends it in
// insertion order. It is a no-op while the owning session is disconnected.
func (f *Feed) FetchMore(ctx context.Context) error {
	if !f.connected() {
		f.log.Debug().Msg("fetch more skipped, not connected")
		return nil
	}

	page, next, err := f.api.FetchActivities(ctx, f.account, f.cursor, activityPageSize)
	if err != nil {
		return fmt.Errorf("fetch activities: %w", err)
	}

	f.records = append(f.records, page...)
	f.cursor = next
	return nil
}
