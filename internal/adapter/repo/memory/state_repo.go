package memory

import (
	"context"
	"sort"

	"farmtycoon/internal/app/ports"
)

type FarmStateRepo struct {
	store *Store
}

func NewFarmStateRepo(store *Store) FarmStateRepo {
	return FarmStateRepo{store: store}
}

func (r FarmStateRepo) GetBySessionID(_ context.Context, sessionID string) (ports.FarmSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	sess, ok := r.store.sessions[sessionID]
	if !ok {
		return ports.FarmSession{}, ports.ErrNotFound
	}
	return sess, nil
}

func (r FarmStateRepo) SaveWithVersion(_ context.Context, session ports.FarmSession, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.sessions[session.ID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.sessions[session.ID] = session
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.sessions[session.ID] = session
	return nil
}

func (r FarmStateRepo) Delete(_ context.Context, sessionID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.sessions[sessionID]; !ok {
		return ports.ErrNotFound
	}
	delete(r.store.sessions, sessionID)
	return nil
}

func (r FarmStateRepo) ListSessionIDs(context.Context) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	ids := make([]string, 0, len(r.store.sessions))
	for id := range r.store.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
