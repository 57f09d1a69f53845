package farm

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"farmtycoon/internal/domain/grid"

	"github.com/google/uuid"
)

// Random is the subset of *rand.Rand the simulation draws from.
type Random interface {
	Float64() float64
}

type processRandom struct{}

func (processRandom) Float64() float64 { return rand.Float64() }

// DefaultRandom draws from the process-wide generator.
func DefaultRandom() Random { return processRandom{} }

// NewSeededRandom returns a deterministic generator for tests and replays.
func NewSeededRandom(seed uint64) Random {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func newShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

type Spawner struct {
	Rand  Random
	Now   func() time.Time
	NewID func() string
}

func NewSpawner() Spawner {
	return Spawner{Rand: DefaultRandom(), Now: time.Now, NewID: newShortID}
}

func (s Spawner) withDefaults() Spawner {
	if s.Rand == nil {
		s.Rand = DefaultRandom()
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	if s.NewID == nil {
		s.NewID = newShortID
	}
	return s
}

// SpawnAnimal places a fresh animal at a random spot inside the safe spawn
// rectangle. It reports false for non-animal kinds.
func (s Spawner) SpawnAnimal(kind Kind) (Entity, bool) {
	if !kind.IsAnimal() {
		return Entity{}, false
	}
	s = s.withDefaults()
	now := s.Now().UnixMilli()
	return Entity{
		ID:           fmt.Sprintf("%s-%s", kind, s.NewID()),
		Kind:         kind,
		X:            SpawnMinX + s.Rand.Float64()*(SpawnMaxX-SpawnMinX),
		Y:            SpawnMinY + s.Rand.Float64()*(SpawnMaxY-SpawnMinY),
		LastUpdate:   now,
		Velocity:     AnimalVelocities[kind],
		Direction:    s.Rand.Float64() * FullTurn,
		Hunger:       0,
		Happiness:    MaxNeed,
		LastProduced: now,
	}, true
}

// SpawnStatic builds a barn, pond or fence at the given percent coordinates.
func (s Spawner) SpawnStatic(kind Kind, x, y float64) (Entity, bool) {
	size, ok := staticSizes[kind]
	if !ok {
		return Entity{}, false
	}
	s = s.withDefaults()
	e := Entity{
		ID:         fmt.Sprintf("%s-%s", kind, s.NewID()),
		Kind:       kind,
		X:          x,
		Y:          y,
		Width:      size[0],
		Height:     size[1],
		LastUpdate: s.Now().UnixMilli(),
	}
	if kind == KindFence {
		e.Health = MaxHealth
		e.Orientation = Horizontal
	}
	return e, true
}

func (s Spawner) CreateFence(gridX, gridY int, orientation Orientation) Entity {
	s = s.withDefaults()
	if orientation != Vertical {
		orientation = Horizontal
	}
	return s.newFence(fmt.Sprintf("fence-%d-%d-%s", gridX, gridY, s.NewID()), gridX, gridY, orientation)
}

func (s Spawner) newFence(id string, gridX, gridY int, orientation Orientation) Entity {
	pos := grid.GridToPercent(gridX, gridY)
	w, h := FenceLength, FenceThickness
	if orientation == Vertical {
		w, h = FenceThickness, FenceLength
	}
	gx, gy := gridX, gridY
	return Entity{
		ID:          id,
		Kind:        KindFence,
		X:           pos.X,
		Y:           pos.Y,
		Width:       w,
		Height:      h,
		LastUpdate:  s.Now().UnixMilli(),
		Health:      MaxHealth,
		Orientation: orientation,
		GridX:       &gx,
		GridY:       &gy,
	}
}

func (s Spawner) CreateTrough(gridX, gridY int) Entity {
	s = s.withDefaults()
	pos := grid.GridToPercent(gridX, gridY)
	gx, gy := gridX, gridY
	return Entity{
		ID:         fmt.Sprintf("trough-%d-%d-%s", gridX, gridY, s.NewID()),
		Kind:       KindTrough,
		X:          pos.X,
		Y:          pos.Y,
		Width:      TroughWidth,
		Height:     TroughHeight,
		LastUpdate: s.Now().UnixMilli(),
		FoodLevel:  TroughCapacity,
		GridX:      &gx,
		GridY:      &gy,
	}
}

// CreateFencePerimeter emits the closed ring on grid cells [2,17]x[2,17]:
// full horizontal rows top and bottom, vertical columns without the corners.
func (s Spawner) CreateFencePerimeter() []Entity {
	s = s.withDefaults()
	span := PerimeterMax - PerimeterMin + 1
	out := make([]Entity, 0, 2*span+2*(span-2))
	for x := PerimeterMin; x <= PerimeterMax; x++ {
		out = append(out, s.newFence(s.perimeterID("top", x, PerimeterMin), x, PerimeterMin, Horizontal))
	}
	for x := PerimeterMin; x <= PerimeterMax; x++ {
		out = append(out, s.newFence(s.perimeterID("bottom", x, PerimeterMax), x, PerimeterMax, Horizontal))
	}
	for y := PerimeterMin + 1; y < PerimeterMax; y++ {
		out = append(out, s.newFence(s.perimeterID("left", PerimeterMin, y), PerimeterMin, y, Vertical))
	}
	for y := PerimeterMin + 1; y < PerimeterMax; y++ {
		out = append(out, s.newFence(s.perimeterID("right", PerimeterMax, y), PerimeterMax, y, Vertical))
	}
	return out
}

func (s Spawner) perimeterID(side string, x, y int) string {
	return fmt.Sprintf("fence-%s-%d-%d-%s", side, x, y, s.NewID())
}
