package journal

import (
	"context"
	"errors"
	"fmt"

	"farmtycoon/internal/app/ports"
)

// Sink is a secondary journal destination. Tx, when set, wraps each batch.
type Sink struct {
	Name string
	Repo ports.JournalRepository
	Tx   ports.TxManager
}

// Fanout reads from Primary and copies every append to all sinks. A failing
// sink does not stop the others.
type Fanout struct {
	Primary ports.JournalRepository
	Sinks   []Sink
}

func (f Fanout) Append(ctx context.Context, entries []ports.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	var errs []error
	if err := f.Primary.Append(ctx, entries); err != nil {
		errs = append(errs, fmt.Errorf("primary: %w", err))
	}
	for _, s := range f.Sinks {
		if err := s.append(ctx, entries); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]ports.JournalEntry, error) {
	return f.Primary.ListBySessionID(ctx, sessionID, limit)
}

func (s Sink) append(ctx context.Context, entries []ports.JournalEntry) error {
	if s.Tx == nil {
		return s.Repo.Append(ctx, entries)
	}
	return s.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.Repo.Append(txCtx, entries)
	})
}
