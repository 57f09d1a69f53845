package farm

type ActionType string

const (
	ActionSpawnAnimal          ActionType = "SPAWN_ANIMAL"
	ActionSpawnStatic          ActionType = "SPAWN_STATIC"
	ActionUpdatePosition       ActionType = "UPDATE_POSITION"
	ActionBatchUpdatePositions ActionType = "BATCH_UPDATE_POSITIONS"
	ActionRemoveEntity         ActionType = "REMOVE_ENTITY"
	ActionUpdateStats          ActionType = "UPDATE_STATS"
	ActionTogglePause          ActionType = "TOGGLE_PAUSE"
	ActionPatchEntities        ActionType = "PATCH_ENTITIES"
)

// Action is the closed set of state transitions accepted by the reducer.
type Action interface {
	Type() ActionType
	isAction()
}

type SpawnAnimal struct {
	Entity Entity `json:"entity"`
}

type SpawnStatic struct {
	Entity Entity `json:"entity"`
}

type PositionUpdate struct {
	ID        string   `json:"id"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Direction *float64 `json:"direction,omitempty"`
}

type UpdatePosition struct {
	PositionUpdate
}

type BatchUpdatePositions struct {
	Updates []PositionUpdate `json:"updates"`
}

type RemoveEntity struct {
	ID string `json:"id"`
}

// StatsUpdate merges only the fields that are set.
type StatsUpdate struct {
	Money        *float64         `json:"money,omitempty"`
	Day          *int             `json:"day,omitempty"`
	Time         *float64         `json:"time,omitempty"`
	FenceHealth  *float64         `json:"fence_health,omitempty"`
	AnimalHealth *float64         `json:"animal_health,omitempty"`
	Resources    map[Resource]int `json:"resources,omitempty"`
	IsPaused     *bool            `json:"is_paused,omitempty"`
	Entities     []Entity         `json:"entities,omitempty"`
}

type UpdateStats struct {
	StatsUpdate
}

type TogglePause struct{}

// EntityPatch replaces only the fields that are set on the entity named by ID.
type EntityPatch struct {
	ID             string   `json:"id"`
	Hunger         *float64 `json:"hunger,omitempty"`
	Happiness      *float64 `json:"happiness,omitempty"`
	LastNeedUpdate *float64 `json:"last_need_update,omitempty"`
	IsFeeding      *bool    `json:"is_feeding,omitempty"`
	Inventory      *int     `json:"inventory,omitempty"`
	LastProduced   *int64   `json:"last_produced,omitempty"`
	FoodLevel      *float64 `json:"food_level,omitempty"`
	Health         *float64 `json:"health,omitempty"`
}

func (p EntityPatch) Empty() bool {
	return p.Hunger == nil && p.Happiness == nil && p.LastNeedUpdate == nil && p.IsFeeding == nil &&
		p.Inventory == nil && p.LastProduced == nil && p.FoodLevel == nil && p.Health == nil
}

func (p EntityPatch) apply(e Entity) Entity {
	if p.Hunger != nil {
		e.Hunger = *p.Hunger
	}
	if p.Happiness != nil {
		e.Happiness = *p.Happiness
	}
	if p.LastNeedUpdate != nil {
		v := *p.LastNeedUpdate
		e.LastNeedUpdate = &v
	}
	if p.IsFeeding != nil {
		e.IsFeeding = *p.IsFeeding
	}
	if p.Inventory != nil {
		e.Inventory = *p.Inventory
	}
	if p.LastProduced != nil {
		e.LastProduced = *p.LastProduced
	}
	if p.FoodLevel != nil {
		e.FoodLevel = *p.FoodLevel
	}
	if p.Health != nil {
		e.Health = *p.Health
	}
	return e
}

// Merge folds other into p; fields set on other win.
func (p EntityPatch) Merge(other EntityPatch) EntityPatch {
	if other.Hunger != nil {
		p.Hunger = other.Hunger
	}
	if other.Happiness != nil {
		p.Happiness = other.Happiness
	}
	if other.LastNeedUpdate != nil {
		p.LastNeedUpdate = other.LastNeedUpdate
	}
	if other.IsFeeding != nil {
		p.IsFeeding = other.IsFeeding
	}
	if other.Inventory != nil {
		p.Inventory = other.Inventory
	}
	if other.LastProduced != nil {
		p.LastProduced = other.LastProduced
	}
	if other.FoodLevel != nil {
		p.FoodLevel = other.FoodLevel
	}
	if other.Health != nil {
		p.Health = other.Health
	}
	return p
}

type PatchEntities struct {
	Patches []EntityPatch `json:"patches"`
}

func (SpawnAnimal) Type() ActionType          { return ActionSpawnAnimal }
func (SpawnStatic) Type() ActionType          { return ActionSpawnStatic }
func (UpdatePosition) Type() ActionType       { return ActionUpdatePosition }
func (BatchUpdatePositions) Type() ActionType { return ActionBatchUpdatePositions }
func (RemoveEntity) Type() ActionType         { return ActionRemoveEntity }
func (UpdateStats) Type() ActionType          { return ActionUpdateStats }
func (TogglePause) Type() ActionType          { return ActionTogglePause }
func (PatchEntities) Type() ActionType        { return ActionPatchEntities }

func (SpawnAnimal) isAction()          {}
func (SpawnStatic) isAction()          {}
func (UpdatePosition) isAction()       {}
func (BatchUpdatePositions) isAction() {}
func (RemoveEntity) isAction()         {}
func (UpdateStats) isAction()          {}
func (TogglePause) isAction()          {}
func (PatchEntities) isAction()        {}
