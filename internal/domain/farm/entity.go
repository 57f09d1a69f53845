package farm

import "farmtycoon/internal/domain/grid"

type Kind string

const (
	KindCow     Kind = "cow"
	KindChicken Kind = "chicken"
	KindPig     Kind = "pig"
	KindSheep   Kind = "sheep"
	KindBarn    Kind = "barn"
	KindPond    Kind = "pond"
	KindFence   Kind = "fence"
	KindTrough  Kind = "trough"
)

func (k Kind) IsAnimal() bool {
	switch k {
	case KindCow, KindChicken, KindPig, KindSheep:
		return true
	default:
		return false
	}
}

func (k Kind) IsStatic() bool {
	switch k {
	case KindBarn, KindPond, KindFence:
		return true
	default:
		return false
	}
}

func AnimalKinds() []Kind {
	return []Kind{KindCow, KindChicken, KindPig, KindSheep}
}

type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

type Resource string

const (
	ResourceMilk Resource = "milk"
	ResourceEggs Resource = "eggs"
	ResourceMeat Resource = "meat"
	ResourceWool Resource = "wool"
)

func Resources() []Resource {
	return []Resource{ResourceMilk, ResourceEggs, ResourceMeat, ResourceWool}
}

// Entity is a flat record tagged by Kind. Animal, fence and trough fields are
// zero for kinds that do not use them.
type Entity struct {
	ID         string  `json:"id"`
	Kind       Kind    `json:"type"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	LastUpdate int64   `json:"last_update,omitempty"`

	Velocity       float64  `json:"velocity,omitempty"`
	Direction      float64  `json:"direction,omitempty"`
	Inventory      int      `json:"inventory,omitempty"`
	Hunger         float64  `json:"hunger"`
	Happiness      float64  `json:"happiness"`
	LastNeedUpdate *float64 `json:"last_need_update,omitempty"`
	IsFeeding      bool     `json:"is_feeding,omitempty"`
	LastProduced   int64    `json:"last_produced,omitempty"`

	Health      float64     `json:"health,omitempty"`
	Orientation Orientation `json:"orientation,omitempty"`
	GridX       *int        `json:"grid_x,omitempty"`
	GridY       *int        `json:"grid_y,omitempty"`

	FoodLevel float64 `json:"food_level,omitempty"`
}

func (e Entity) Position() grid.Percent {
	return grid.Percent{X: e.X, Y: e.Y}
}

// Cell reports the entity's grid cell when it was placed on the grid.
func (e Entity) Cell() (grid.Cell, bool) {
	if e.GridX == nil || e.GridY == nil {
		return grid.Cell{}, false
	}
	return grid.Cell{X: *e.GridX, Y: *e.GridY}, true
}

func (e Entity) IsAnimal() bool {
	return e.Kind.IsAnimal()
}
