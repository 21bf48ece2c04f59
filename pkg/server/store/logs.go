package store

import (
	"context"
	"time"
)

// LogEntry is one persisted audit record
type LogEntry struct {
	ID        int64
	Timestamp time.Time
	Severity  int
	MessageID string
	User      string
	ClientIP  string
	Operation string
	Result    string
	Message   string
}

// LogFilter selects a page of audit records, newest first. Keyword matches
// the message and User the acting account's email. Zero values do not
// filter.
type LogFilter struct {
	Keyword string
	User    string
	Limit   int
	Offset  int
}

// LogsStore reads back the audit trail
type LogsStore interface {
	// ListLogs returns one page of matching records and the total number
	// of matches
	ListLogs(ctx context.Context, f LogFilter) ([]LogEntry, int64, error)
}
