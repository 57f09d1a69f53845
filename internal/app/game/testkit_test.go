package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"farmtycoon/internal/app/ports"
	"farmtycoon/internal/domain/farm"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubStateRepo struct {
	bySession map[string]ports.FarmSession
}

func newStubStateRepo() *stubStateRepo {
	return &stubStateRepo{bySession: map[string]ports.FarmSession{}}
}

func (r *stubStateRepo) GetBySessionID(_ context.Context, sessionID string) (ports.FarmSession, error) {
	s, ok := r.bySession[sessionID]
	if !ok {
		return ports.FarmSession{}, ports.ErrNotFound
	}
	return s, nil
}

func (r *stubStateRepo) SaveWithVersion(_ context.Context, session ports.FarmSession, expectedVersion int64) error {
	current, ok := r.bySession[session.ID]
	if ok && current.Version != expectedVersion {
		return ports.ErrConflict
	}
	if !ok && expectedVersion != 0 {
		return ports.ErrConflict
	}
	r.bySession[session.ID] = session
	return nil
}

func (r *stubStateRepo) Delete(_ context.Context, sessionID string) error {
	if _, ok := r.bySession[sessionID]; !ok {
		return ports.ErrNotFound
	}
	delete(r.bySession, sessionID)
	return nil
}

func (r *stubStateRepo) ListSessionIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.bySession))
	for id := range r.bySession {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *stubStateRepo) seed(id string, state farm.FarmState) {
	r.bySession[id] = ports.FarmSession{ID: id, State: state, Version: 1}
}

type stubJournal struct {
	entries []ports.JournalEntry
	err     error
}

func (j *stubJournal) Append(_ context.Context, entries []ports.JournalEntry) error {
	if j.err != nil {
		return j.err
	}
	j.entries = append(j.entries, entries...)
	return nil
}

func (j *stubJournal) ListBySessionID(_ context.Context, sessionID string, limit int) ([]ports.JournalEntry, error) {
	return nil, errors.New("not used")
}

func (j *stubJournal) types() []string {
	out := make([]string, 0, len(j.entries))
	for _, e := range j.entries {
		out = append(out, e.Type)
	}
	return out
}

type sentNotification struct {
	SessionID string
	Message   string
	Type      ports.NotificationType
}

type stubNotifier struct {
	sent []sentNotification
}

func (n *stubNotifier) Notify(sessionID, message string, typ ports.NotificationType) {
	n.sent = append(n.sent, sentNotification{SessionID: sessionID, Message: message, Type: typ})
}

type stubMetrics struct {
	ticks, skipped, rollovers, fenceHits, feedings int
	dispatches                                     map[farm.ActionType]int
	produced                                       map[farm.Resource]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{dispatches: map[farm.ActionType]int{}, produced: map[farm.Resource]int{}}
}

func (m *stubMetrics) RecordTick()                           { m.ticks++ }
func (m *stubMetrics) RecordSkippedTick()                    { m.skipped++ }
func (m *stubMetrics) RecordDispatch(t farm.ActionType)      { m.dispatches[t]++ }
func (m *stubMetrics) RecordDayRollover()                    { m.rollovers++ }
func (m *stubMetrics) RecordFenceHits(n int)                 { m.fenceHits += n }
func (m *stubMetrics) RecordFeedings(n int)                  { m.feedings += n }
func (m *stubMetrics) RecordProduced(r farm.Resource, n int) { m.produced[r] += n }

type constRandom float64

func (r constRandom) Float64() float64 { return float64(r) }

type fixture struct {
	engine   Engine
	states   *stubStateRepo
	journal  *stubJournal
	notifier *stubNotifier
	metrics  *stubMetrics
}

func newFixture() fixture {
	states := newStubStateRepo()
	journal := &stubJournal{}
	notifier := &stubNotifier{}
	metrics := newStubMetrics()
	seq := 0
	tuning := DefaultTuning()
	tuning.SeedPerimeter = false
	return fixture{
		engine: Engine{
			TxManager: stubTxManager{},
			States:    states,
			Journal:   journal,
			Metrics:   metrics,
			Notifier:  notifier,
			Rand:      constRandom(0.5),
			Spawner: farm.Spawner{
				Rand: constRandom(0.5),
				Now:  func() time.Time { return fixedNow },
				NewID: func() string {
					seq++
					return fmt.Sprintf("id%d", seq)
				},
			},
			Tuning: tuning,
			Now:    func() time.Time { return fixedNow },
		},
		states:   states,
		journal:  journal,
		notifier: notifier,
		metrics:  metrics,
	}
}

func ptr[T any](v T) *T { return &v }

func cowAt(id string, x, y float64) farm.Entity {
	return farm.Entity{
		ID:             id,
		Kind:           farm.KindCow,
		X:              x,
		Y:              y,
		Velocity:       farm.AnimalVelocities[farm.KindCow],
		Happiness:      100,
		LastNeedUpdate: ptr(farm.InitialTime),
		LastProduced:   fixedNow.UnixMilli(),
	}
}

func troughAt(id string, x, y, food float64) farm.Entity {
	return farm.Entity{ID: id, Kind: farm.KindTrough, X: x, Y: y, Width: farm.TroughWidth, Height: farm.TroughHeight, FoodLevel: food}
}

func stateWith(entities ...farm.Entity) farm.FarmState {
	s := farm.InitialState()
	s.Entities = append(s.Entities, entities...)
	return s
}

func mustFind(state farm.FarmState, id string) farm.Entity {
	e, ok := state.Find(id)
	if !ok {
		panic("entity not found: " + id)
	}
	return e
}
