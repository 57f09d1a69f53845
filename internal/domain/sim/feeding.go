package sim

import (
	"math"

	"farmtycoon/internal/domain/farm"
)

const (
	FeedRange       = 10.0
	FeedPortion     = 30.0
	FeedHappinessUp = 10.0
)

func FindNearestTrough(animal farm.Entity, entities []farm.Entity) (farm.Entity, bool) {
	var best farm.Entity
	bestDist := math.Inf(1)
	found := false
	for _, e := range entities {
		if e.Kind != farm.KindTrough || e.FoodLevel <= 0 {
			continue
		}
		d := GetDistance(animal.Position(), e.Position())
		if d < bestDist {
			best, bestDist, found = e, d, true
		}
	}
	return best, found
}

func CanFeedFromTrough(animal, trough farm.Entity) bool {
	return GetDistance(animal.Position(), trough.Position()) < FeedRange && trough.FoodLevel > 0
}

type AnimalFeedUpdate struct {
	Hunger    float64 `json:"hunger"`
	Happiness float64 `json:"happiness"`
	IsFeeding bool    `json:"is_feeding"`
}

type TroughFeedUpdate struct {
	FoodLevel float64 `json:"food_level"`
}

type FeedResult struct {
	Animal AnimalFeedUpdate `json:"animal"`
	Trough TroughFeedUpdate `json:"trough"`
}

// Patches turns the result into reducer patches for both entities.
func (r FeedResult) Patches(animalID, troughID string) []farm.EntityPatch {
	hunger, happiness, feeding := r.Animal.Hunger, r.Animal.Happiness, r.Animal.IsFeeding
	food := r.Trough.FoodLevel
	return []farm.EntityPatch{
		{ID: animalID, Hunger: &hunger, Happiness: &happiness, IsFeeding: &feeding},
		{ID: troughID, FoodLevel: &food},
	}
}

// FeedAnimal eats one portion from the trough. Hunger drops by a full
// portion while the trough loses at most what it still holds.
func FeedAnimal(animal, trough farm.Entity) (FeedResult, bool) {
	if !CanFeedFromTrough(animal, trough) {
		return FeedResult{}, false
	}
	eaten := math.Min(FeedPortion, trough.FoodLevel)
	return FeedResult{
		Animal: AnimalFeedUpdate{
			Hunger:    round1(clamp(animal.Hunger-FeedPortion, 0, farm.MaxNeed)),
			Happiness: round1(clamp(animal.Happiness+FeedHappinessUp, 0, farm.MaxNeed)),
			IsFeeding: true,
		},
		Trough: TroughFeedUpdate{
			FoodLevel: round1(clamp(trough.FoodLevel-eaten, 0, farm.TroughCapacity)),
		},
	}, true
}
