package memory

import (
	"context"

	"farmtycoon/internal/app/ports"
)

type JournalRepo struct {
	store *Store
}

func NewJournalRepo(store *Store) JournalRepo {
	return JournalRepo{store: store}
}

func (r JournalRepo) Append(_ context.Context, entries []ports.JournalEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, e := range entries {
		list := append(r.store.journal[e.SessionID], e)
		if over := len(list) - r.store.journalCap; r.store.journalCap > 0 && over > 0 {
			list = append([]ports.JournalEntry(nil), list[over:]...)
		}
		r.store.journal[e.SessionID] = list
	}
	return nil
}

// ListBySessionID returns newest entries first. A non-positive limit returns
// everything kept.
func (r JournalRepo) ListBySessionID(_ context.Context, sessionID string, limit int) ([]ports.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	list := r.store.journal[sessionID]
	n := len(list)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]ports.JournalEntry, 0, n)
	for i := len(list) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, list[i])
	}
	return out, nil
}
