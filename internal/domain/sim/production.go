package sim

import (
	"time"

	"farmtycoon/internal/domain/farm"
)

// ProductionHappinessGate must be exceeded before an animal produces.
const ProductionHappinessGate = 50.0

var ProducedResource = map[farm.Kind]farm.Resource{
	farm.KindCow:     farm.ResourceMilk,
	farm.KindChicken: farm.ResourceEggs,
	farm.KindPig:     farm.ResourceMeat,
	farm.KindSheep:   farm.ResourceWool,
}

// ProductionRates are units per game-hour.
var ProductionRates = map[farm.Kind]float64{
	farm.KindCow:     1,
	farm.KindChicken: 2,
	farm.KindPig:     0.5,
	farm.KindSheep:   0.75,
}

// ProductionInterval is the real time between units for kind.
func ProductionInterval(kind farm.Kind) (time.Duration, bool) {
	rate, ok := ProductionRates[kind]
	if !ok || rate <= 0 {
		return 0, false
	}
	realSecondsPerHour := 1 / GameHoursPerSecond
	return time.Duration(realSecondsPerHour / rate * float64(time.Second)), true
}

type ProductionUpdate struct {
	Resource     farm.Resource `json:"resource"`
	Inventory    int           `json:"inventory"`
	LastProduced int64         `json:"last_produced"`
}

func (u ProductionUpdate) Patch(id string) farm.EntityPatch {
	inv, last := u.Inventory, u.LastProduced
	return farm.EntityPatch{ID: id, Inventory: &inv, LastProduced: &last}
}

// Produce yields one unit when the animal is happy enough and its interval
// has elapsed since lastProduced.
func Produce(e farm.Entity, nowMillis int64) (ProductionUpdate, bool) {
	res, ok := ProducedResource[e.Kind]
	if !ok {
		return ProductionUpdate{}, false
	}
	if e.Happiness <= ProductionHappinessGate {
		return ProductionUpdate{}, false
	}
	interval, ok := ProductionInterval(e.Kind)
	if !ok {
		return ProductionUpdate{}, false
	}
	if nowMillis-e.LastProduced < interval.Milliseconds() {
		return ProductionUpdate{}, false
	}
	return ProductionUpdate{
		Resource:     res,
		Inventory:    e.Inventory + 1,
		LastProduced: nowMillis,
	}, true
}
