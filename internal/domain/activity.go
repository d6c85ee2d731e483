package domain

import "time"

type ActivityKind string

const (
	// KindSyncResult marks records built from folder-level sync errors.
	KindSyncResult ActivityKind = "sync_result"
	// KindSyncFileItem marks records built from per-file sync outcomes.
	KindSyncFileItem ActivityKind = "sync_file_item"
	// KindServerActivity marks records fetched from the server activity API.
	KindServerActivity ActivityKind = "server_activity"
)

// SyncStatus mirrors the sync engine's per-item status enumeration.
type SyncStatus string

const (
	StatusNone             SyncStatus = "no_status"
	StatusSuccess          SyncStatus = "success"
	StatusError            SyncStatus = "error"
	StatusFileIgnored      SyncStatus = "file_ignored"
	StatusFatalError       SyncStatus = "fatal_error"
	StatusSoftError        SyncStatus = "soft_error"
	StatusNormalError      SyncStatus = "normal_error"
	StatusConflict         SyncStatus = "conflict"
	StatusRestoration      SyncStatus = "restoration"
	StatusBlacklistedError SyncStatus = "blacklisted_error"
	StatusExcluded         SyncStatus = "excluded"
)

// ActionLink offers a remediation the user can trigger from a record.
type ActionLink struct {
	Label   string
	Target  string
	Primary bool
}

// ActivityRecord is one normalized, user-facing entry of an activity feed.
// Records are immutable once appended.
type ActivityRecord struct {
	Kind        ActivityKind
	Status      SyncStatus
	Timestamp   time.Time
	Subject     string
	Message     string
	Link        string
	AccountName string
	FolderID    string
	File        string
	ActionLinks []ActionLink
}

// ErrorCategory classifies folder-level sync errors.
type ErrorCategory string

const (
	CategoryNormal                    ErrorCategory = "normal"
	CategoryInsufficientRemoteStorage ErrorCategory = "insufficient_remote_storage"
	CategoryNetwork                   ErrorCategory = "network"
)

// SyncError is a folder-level error event from the sync engine.
type SyncError struct {
	FolderID   string
	FolderPath string
	Message    string
	Category   ErrorCategory
}

// SyncItem is one per-file completion outcome from the sync engine.
type SyncItem struct {
	File         string
	OriginalFile string
	Status       SyncStatus
	ErrorString  string
}
