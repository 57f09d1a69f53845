package sim

import (
	"testing"

	"farmtycoon/internal/domain/farm"
)

func TestUpdateAnimalNeeds_IgnoresStructures(t *testing.T) {
	barn := farm.Entity{ID: "barn", Kind: farm.KindBarn}
	if _, ok := UpdateAnimalNeeds(barn, 10); ok {
		t.Fatalf("expected no update for barn")
	}
}

func TestUpdateAnimalNeeds_InitializesUntrackedAnimal(t *testing.T) {
	cow := farm.Entity{ID: "cow-t", Kind: farm.KindCow, X: 50, Y: 50}
	u, ok := UpdateAnimalNeeds(cow, 14.5)
	if !ok {
		t.Fatalf("expected initialization update")
	}
	want := NeedsUpdate{Hunger: 0, Happiness: 100, LastNeedUpdate: 14.5}
	if u != want {
		t.Fatalf("init mismatch: got=%+v want=%+v", u, want)
	}
}

func TestUpdateAnimalNeeds_UntrackedAnimalKeepsNeeds(t *testing.T) {
	cow := animalAt(farm.KindCow, 50, 50)
	cow.Hunger = 75
	cow.Happiness = 20
	u, ok := UpdateAnimalNeeds(cow, 14.5)
	if !ok {
		t.Fatalf("expected timestamp update")
	}
	want := NeedsUpdate{Hunger: 75, Happiness: 20, LastNeedUpdate: 14.5}
	if u != want {
		t.Fatalf("untracked needs mismatch: got=%+v want=%+v", u, want)
	}
}

func TestUpdateAnimalNeeds_Debounces(t *testing.T) {
	cow := animalAt(farm.KindCow, 50, 50)
	cow.LastNeedUpdate = ptr(10.0)
	if _, ok := UpdateAnimalNeeds(cow, 10.05); ok {
		t.Fatalf("expected debounce under 0.1 hours")
	}
	if _, ok := UpdateAnimalNeeds(cow, 10.2); !ok {
		t.Fatalf("expected update after 0.2 hours")
	}
}

func TestUpdateAnimalNeeds_DecaysAndDoublesWhenHungry(t *testing.T) {
	cow := animalAt(farm.KindCow, 50, 50)
	cow.LastNeedUpdate = ptr(10.0)
	cow.Hunger = 20
	cow.Happiness = 90

	u, _ := UpdateAnimalNeeds(cow, 12)
	if u.Hunger != 30 || u.Happiness != 86 || u.LastNeedUpdate != 12 {
		t.Fatalf("unexpected update %+v", u)
	}

	cow.Hunger = 58
	u, _ = UpdateAnimalNeeds(cow, 11)
	if u.Hunger != 63 {
		t.Fatalf("expected hunger 63, got %v", u.Hunger)
	}
	if u.Happiness != 86 {
		t.Fatalf("expected doubled happiness loss to 86, got %v", u.Happiness)
	}
}

func TestUpdateAnimalNeeds_HandlesMidnightWrap(t *testing.T) {
	cow := animalAt(farm.KindCow, 50, 50)
	cow.LastNeedUpdate = ptr(23.5)
	u, ok := UpdateAnimalNeeds(cow, 0.5)
	if !ok {
		t.Fatalf("expected update across midnight")
	}
	if u.Hunger != 5 {
		t.Fatalf("expected one hour of hunger (5), got %v", u.Hunger)
	}

	cow.LastNeedUpdate = ptr(14.6)
	if _, ok := UpdateAnimalNeeds(cow, 14.56); ok {
		t.Fatalf("expected rounding jitter to be ignored")
	}
}

func TestUpdateAnimalNeeds_AlwaysClamped(t *testing.T) {
	for _, start := range []float64{0, 35, 60, 99.9, 100} {
		for _, hours := range []float64{0.1, 3, 11.9} {
			cow := animalAt(farm.KindSheep, 50, 50)
			cow.Hunger = start
			cow.Happiness = 100 - start
			cow.LastNeedUpdate = ptr(0.0)
			u, ok := UpdateAnimalNeeds(cow, hours)
			if !ok {
				t.Fatalf("expected update for start=%v hours=%v", start, hours)
			}
			if u.Hunger > 100 || u.Hunger < 0 || u.Happiness < 0 || u.Happiness > 100 {
				t.Fatalf("out of range for start=%v hours=%v: %+v", start, hours, u)
			}
		}
	}
}

func TestClassifyNeeds(t *testing.T) {
	cases := map[float64]NeedState{
		0:    NeedSatisfied,
		60:   NeedSatisfied,
		60.1: NeedHungry,
		80:   NeedHungry,
		80.1: NeedStarving,
		100:  NeedStarving,
	}
	for hunger, want := range cases {
		if got := ClassifyNeeds(hunger); got != want {
			t.Fatalf("ClassifyNeeds(%v)=%s want %s", hunger, got, want)
		}
	}
}

func TestNeedsUpdate_Patch(t *testing.T) {
	p := NeedsUpdate{Hunger: 1, Happiness: 2, LastNeedUpdate: 3}.Patch("cow-1")
	if p.ID != "cow-1" || *p.Hunger != 1 || *p.Happiness != 2 || *p.LastNeedUpdate != 3 {
		t.Fatalf("unexpected patch %+v", p)
	}
}
