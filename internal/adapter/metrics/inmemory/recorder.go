package inmemory

import (
	"sync"

	"farmtycoon/internal/domain/farm"
)

type Snapshot struct {
	TicksRun     uint64            `json:"ticks_run"`
	TicksSkipped uint64            `json:"ticks_skipped"`
	DayRollovers uint64            `json:"day_rollovers"`
	FenceHits    uint64            `json:"fence_hits"`
	Feedings     uint64            `json:"feedings"`
	Dispatches   map[string]uint64 `json:"dispatches"`
	Produced     map[string]uint64 `json:"produced"`
}

type Recorder struct {
	mu         sync.Mutex
	ticks      uint64
	skipped    uint64
	rollovers  uint64
	fenceHits  uint64
	feedings   uint64
	dispatches map[string]uint64
	produced   map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		dispatches: map[string]uint64{},
		produced:   map[string]uint64{},
	}
}

func (r *Recorder) RecordTick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
}

func (r *Recorder) RecordSkippedTick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
}

func (r *Recorder) RecordDispatch(actionType farm.ActionType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatches[string(actionType)]++
}

func (r *Recorder) RecordDayRollover() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rollovers++
}

func (r *Recorder) RecordFenceHits(n int) {
	if n <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fenceHits += uint64(n)
}

func (r *Recorder) RecordFeedings(n int) {
	if n <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feedings += uint64(n)
}

func (r *Recorder) RecordProduced(resource farm.Resource, n int) {
	if n <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.produced[string(resource)] += uint64(n)
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		TicksRun:     r.ticks,
		TicksSkipped: r.skipped,
		DayRollovers: r.rollovers,
		FenceHits:    r.fenceHits,
		Feedings:     r.feedings,
		Dispatches:   make(map[string]uint64, len(r.dispatches)),
		Produced:     make(map[string]uint64, len(r.produced)),
	}
	for k, v := range r.dispatches {
		out.Dispatches[k] = v
	}
	for k, v := range r.produced {
		out.Produced[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
