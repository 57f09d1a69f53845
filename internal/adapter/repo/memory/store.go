package memory

import (
	"sync"

	"farmtycoon/internal/app/ports"
	"farmtycoon/internal/domain/farm"
)

// DefaultJournalCap bounds the in-memory journal per session.
const DefaultJournalCap = 5000

type Store struct {
	// txMu serializes transactions; mu guards the maps for readers outside one.
	txMu       sync.Mutex
	mu         sync.RWMutex
	sessions   map[string]ports.FarmSession
	journal    map[string][]ports.JournalEntry
	journalCap int
}

func NewStore() *Store {
	return &Store{
		sessions:   make(map[string]ports.FarmSession),
		journal:    make(map[string][]ports.JournalEntry),
		journalCap: DefaultJournalCap,
	}
}

func (s *Store) SeedState(sessionID string, state farm.FarmState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = ports.FarmSession{ID: sessionID, State: state, Version: 1}
}
