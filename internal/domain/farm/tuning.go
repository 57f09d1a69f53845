package farm

import "math"

const (
	MaxHealth      = 100.0
	MaxNeed        = 100.0
	TroughCapacity = 100.0

	InitialMoney = 5876.0
	InitialDay   = 27
	InitialTime  = 14.5

	InitialBarnX  = 50.0
	InitialBarnY  = 30.0
	InitialFenceX = 25.0
	InitialFenceY = 75.0

	BarnWidth         = 200.0
	BarnHeight        = 180.0
	PondWidth         = 150.0
	PondHeight        = 100.0
	StaticFenceWidth  = 100.0
	StaticFenceHeight = 20.0

	FenceLength    = 60.0
	FenceThickness = 10.0
	TroughWidth    = 40.0
	TroughHeight   = 30.0

	SpawnMinX = 15.0
	SpawnMaxX = 85.0
	SpawnMinY = 20.0
	SpawnMaxY = 80.0

	PerimeterMin = 2
	PerimeterMax = 17
)

// AnimalVelocities in game units per second.
var AnimalVelocities = map[Kind]float64{
	KindCow:     0.5,
	KindChicken: 1.2,
	KindPig:     0.7,
	KindSheep:   0.8,
}

var staticSizes = map[Kind][2]float64{
	KindBarn:  {BarnWidth, BarnHeight},
	KindPond:  {PondWidth, PondHeight},
	KindFence: {StaticFenceWidth, StaticFenceHeight},
}

const FullTurn = 2 * math.Pi
