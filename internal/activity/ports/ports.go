// Package ports defines shared interfaces for the activity module.
// Interfaces are placed here when consumed by multiple services to avoid
// duplication.
package ports

import (
	"context"
	"log/slog"
	"time"

	"agrilog/internal/activity/models"
	id "agrilog/pkg/domain"
	"agrilog/pkg/requestcontext"
)

// HistoryStore is the single read/append port over a user's past activity.
// The geo, frequency, and pattern checks all read through it so the pipeline
// stays testable with one in-memory fake. Reads are point-in-time snapshots;
// two near-simultaneous submissions from the same user may both pass the
// window checks.
type HistoryStore interface {
	// Append writes one immutable activity record.
	Append(ctx context.Context, record *models.ActivityRecord) error

	// ListByUserSince returns the user's records created at or after since,
	// newest first.
	ListByUserSince(ctx context.Context, userID id.UserID, since time.Time) ([]*models.ActivityRecord, error)

	// CountByUserSince returns how many records the user created at or after
	// since.
	CountByUserSince(ctx context.Context, userID id.UserID, since time.Time) (int, error)

	// ListRecent returns up to limit of the user's most recent records,
	// newest first.
	ListRecent(ctx context.Context, userID id.UserID, limit int) ([]*models.ActivityRecord, error)
}

// AudioStore holds submitted audio blobs until the pipeline is done with
// them. Delete is idempotent so cleanup can run on every exit path.
type AudioStore interface {
	// Size returns the stored blob's size in bytes.
	Size(ctx context.Context, ref string) (int64, error)

	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, ref string) error
}

// Transcriber converts a stored audio blob to text.
type Transcriber interface {
	Transcribe(ctx context.Context, ref string) (string, error)
}

// Extractor produces a structured activity from free text. Implementations
// degrade to a best-effort fallback rather than failing the pipeline.
type Extractor interface {
	Extract(ctx context.Context, text string) (*models.ExtractedActivity, error)
}

// LogAudit is a shared helper for logging audit events across activity
// services with consistent fields.
func LogAudit(ctx context.Context, logger *slog.Logger, event string, attrs ...any) {
	if logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}
	args := append(attrs, "event", event, "log_type", "audit")
	logger.InfoContext(ctx, event, args...)
}
