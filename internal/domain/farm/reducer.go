package farm

import "time"

type Reducer struct {
	Now func() time.Time
}

// Reduce applies action with the wall clock as the lastUpdate source.
func Reduce(state FarmState, action Action) FarmState {
	return Reducer{}.Reduce(state, action)
}

// Reduce never mutates state; every branch builds the slices it changes.
// Unknown or nil actions return state unchanged.
func (r Reducer) Reduce(state FarmState, action Action) FarmState {
	switch a := action.(type) {
	case SpawnAnimal:
		return appendEntity(state, a.Entity)
	case SpawnStatic:
		return appendEntity(state, a.Entity)
	case UpdatePosition:
		return r.applyPositions(state, []PositionUpdate{a.PositionUpdate})
	case BatchUpdatePositions:
		if len(a.Updates) == 0 {
			return state
		}
		return r.applyPositions(state, a.Updates)
	case RemoveEntity:
		return removeEntity(state, a.ID)
	case UpdateStats:
		return mergeStats(state, a.StatsUpdate)
	case TogglePause:
		state.IsPaused = !state.IsPaused
		return state
	case PatchEntities:
		if len(a.Patches) == 0 {
			return state
		}
		return patchEntities(state, a.Patches)
	default:
		return state
	}
}

func (r Reducer) nowMillis() int64 {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	return now().UnixMilli()
}

func appendEntity(state FarmState, e Entity) FarmState {
	next := make([]Entity, len(state.Entities), len(state.Entities)+1)
	copy(next, state.Entities)
	state.Entities = append(next, e)
	return state
}

func (r Reducer) applyPositions(state FarmState, updates []PositionUpdate) FarmState {
	byID := make(map[string]PositionUpdate, len(updates))
	for _, u := range updates {
		byID[u.ID] = u
	}
	stamp := r.nowMillis()
	next := cloneEntities(state.Entities)
	for i := range next {
		u, ok := byID[next[i].ID]
		if !ok {
			continue
		}
		next[i].X = u.X
		next[i].Y = u.Y
		if u.Direction != nil {
			next[i].Direction = *u.Direction
		}
		next[i].LastUpdate = stamp
	}
	state.Entities = next
	return state
}

func removeEntity(state FarmState, id string) FarmState {
	next := make([]Entity, 0, len(state.Entities))
	for _, e := range state.Entities {
		if e.ID == id {
			continue
		}
		next = append(next, e)
	}
	state.Entities = next
	return state
}

func mergeStats(state FarmState, u StatsUpdate) FarmState {
	if u.Money != nil {
		state.Money = *u.Money
	}
	if u.Day != nil {
		state.Day = *u.Day
	}
	if u.Time != nil {
		state.Time = *u.Time
	}
	if u.FenceHealth != nil {
		state.FenceHealth = *u.FenceHealth
	}
	if u.AnimalHealth != nil {
		state.AnimalHealth = *u.AnimalHealth
	}
	if u.Resources != nil {
		state.Resources = cloneResources(u.Resources)
	}
	if u.IsPaused != nil {
		state.IsPaused = *u.IsPaused
	}
	if u.Entities != nil {
		state.Entities = cloneEntities(u.Entities)
	}
	return state
}

func patchEntities(state FarmState, patches []EntityPatch) FarmState {
	byID := make(map[string]EntityPatch, len(patches))
	for _, p := range patches {
		byID[p.ID] = byID[p.ID].Merge(p)
	}
	next := cloneEntities(state.Entities)
	for i := range next {
		if p, ok := byID[next[i].ID]; ok {
			next[i] = p.apply(next[i])
		}
	}
	state.Entities = next
	return state
}
