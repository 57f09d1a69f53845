package ports

import (
	"context"
	"time"

	"farmtycoon/internal/domain/farm"
)

type FarmSession struct {
	ID        string
	State     farm.FarmState
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FarmStateRepository interface {
	GetBySessionID(ctx context.Context, sessionID string) (FarmSession, error)
	SaveWithVersion(ctx context.Context, session FarmSession, expectedVersion int64) error
	Delete(ctx context.Context, sessionID string) error
	ListSessionIDs(ctx context.Context) ([]string, error)
}

type JournalEntry struct {
	SessionID  string         `json:"session_id"`
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// JournalRepository is an append-only audit trail. It is never read back
// into simulation state.
type JournalRepository interface {
	Append(ctx context.Context, entries []JournalEntry) error
	ListBySessionID(ctx context.Context, sessionID string, limit int) ([]JournalEntry, error)
}
