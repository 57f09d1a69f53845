package sim

import "farmtycoon/internal/domain/farm"

const (
	MinNeedInterval = 0.1

	HungerPerHour           = 5.0
	HappinessLossPerHour    = 2.0
	UnhappyHappinessPerHour = 4.0

	HungryThreshold   = 60.0
	StarvingThreshold = 80.0
)

type NeedState string

const (
	NeedSatisfied NeedState = "satisfied"
	NeedHungry    NeedState = "hungry"
	NeedStarving  NeedState = "starving"
)

func ClassifyNeeds(hunger float64) NeedState {
	switch {
	case hunger > StarvingThreshold:
		return NeedStarving
	case hunger > HungryThreshold:
		return NeedHungry
	default:
		return NeedSatisfied
	}
}

type NeedsUpdate struct {
	Hunger         float64 `json:"hunger"`
	Happiness      float64 `json:"happiness"`
	LastNeedUpdate float64 `json:"last_need_update"`
}

func (u NeedsUpdate) Patch(id string) farm.EntityPatch {
	hunger, happiness, last := u.Hunger, u.Happiness, u.LastNeedUpdate
	return farm.EntityPatch{ID: id, Hunger: &hunger, Happiness: &happiness, LastNeedUpdate: &last}
}

// UpdateAnimalNeeds decays hunger and happiness by the game-hours elapsed
// since the animal was last updated. It reports false for non-animals and
// when less than MinNeedInterval hours have passed. An animal that has never
// been tracked keeps its needs and only gets its timestamp; a zero-valued
// untracked animal starts at happiness 100.
func UpdateAnimalNeeds(e farm.Entity, currentHour float64) (NeedsUpdate, bool) {
	if !e.IsAnimal() {
		return NeedsUpdate{}, false
	}
	if e.LastNeedUpdate == nil {
		happiness := e.Happiness
		if e.Hunger == 0 && happiness == 0 {
			happiness = farm.MaxNeed
		}
		return NeedsUpdate{
			Hunger:         round1(clamp(e.Hunger, 0, farm.MaxNeed)),
			Happiness:      round1(clamp(happiness, 0, farm.MaxNeed)),
			LastNeedUpdate: round1(currentHour),
		}, true
	}

	elapsed := currentHour - *e.LastNeedUpdate
	if elapsed < -HoursPerDay/2 {
		// clock wrapped past midnight
		elapsed += HoursPerDay
	}
	if elapsed < MinNeedInterval {
		return NeedsUpdate{}, false
	}

	hunger := clamp(e.Hunger+HungerPerHour*elapsed, 0, farm.MaxNeed)
	rate := HappinessLossPerHour
	if hunger > HungryThreshold {
		rate = UnhappyHappinessPerHour
	}
	happiness := clamp(e.Happiness-rate*elapsed, 0, farm.MaxNeed)

	return NeedsUpdate{
		Hunger:         round1(hunger),
		Happiness:      round1(happiness),
		LastNeedUpdate: round1(currentHour),
	}, true
}
