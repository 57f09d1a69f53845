package farm

// FarmState is the aggregate simulation state. Values returned by the reducer
// share backing arrays with their inputs and must be treated as read-only.
type FarmState struct {
	Entities     []Entity         `json:"entities"`
	Money        float64          `json:"money"`
	Day          int              `json:"day"`
	Time         float64          `json:"time"`
	FenceHealth  float64          `json:"fence_health"`
	AnimalHealth float64          `json:"animal_health"`
	IsPaused     bool             `json:"is_paused"`
	Resources    map[Resource]int `json:"resources"`
}

func InitialState() FarmState {
	return FarmState{
		Entities: []Entity{
			{
				ID:     "barn-1",
				Kind:   KindBarn,
				X:      InitialBarnX,
				Y:      InitialBarnY,
				Width:  BarnWidth,
				Height: BarnHeight,
			},
			{
				ID:          "fence-1",
				Kind:        KindFence,
				X:           InitialFenceX,
				Y:           InitialFenceY,
				Width:       StaticFenceWidth,
				Height:      StaticFenceHeight,
				Health:      MaxHealth,
				Orientation: Horizontal,
			},
		},
		Money:        InitialMoney,
		Day:          InitialDay,
		Time:         InitialTime,
		FenceHealth:  MaxHealth,
		AnimalHealth: MaxHealth,
		Resources: map[Resource]int{
			ResourceMilk: 15,
			ResourceEggs: 42,
			ResourceMeat: 8,
			ResourceWool: 12,
		},
	}
}

// Clone deep-copies the entity list and resource map.
func (s FarmState) Clone() FarmState {
	out := s
	out.Entities = cloneEntities(s.Entities)
	out.Resources = cloneResources(s.Resources)
	return out
}

func (s FarmState) Find(id string) (Entity, bool) {
	for _, e := range s.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}

func (s FarmState) Animals() []Entity {
	out := make([]Entity, 0, len(s.Entities))
	for _, e := range s.Entities {
		if e.IsAnimal() {
			out = append(out, e)
		}
	}
	return out
}

func (s FarmState) CountByKind() map[Kind]int {
	out := map[Kind]int{}
	for _, e := range s.Entities {
		out[e.Kind]++
	}
	return out
}

func cloneEntities(in []Entity) []Entity {
	if in == nil {
		return nil
	}
	out := make([]Entity, len(in))
	copy(out, in)
	return out
}

func cloneResources(in map[Resource]int) map[Resource]int {
	if in == nil {
		return nil
	}
	out := make(map[Resource]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
