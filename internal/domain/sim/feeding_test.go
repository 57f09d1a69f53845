package sim

import (
	"math"
	"testing"

	"farmtycoon/internal/domain/farm"
)

func TestFindNearestTrough(t *testing.T) {
	cow := animalAt(farm.KindCow, 50, 50)
	entities := []farm.Entity{
		troughAt("far", 90, 90, 100),
		troughAt("empty", 51, 51, 0),
		troughAt("near", 55, 50, 10),
		cow,
	}
	got, ok := FindNearestTrough(cow, entities)
	if !ok || got.ID != "near" {
		t.Fatalf("expected near trough, got %q ok=%v", got.ID, ok)
	}

	if _, ok := FindNearestTrough(cow, []farm.Entity{troughAt("empty", 50, 50, 0)}); ok {
		t.Fatalf("expected no trough when all empty")
	}
}

func TestCanFeedFromTrough_DistanceGate(t *testing.T) {
	for _, d := range []float64{0, 3, 9.99, 10, 10.01, 25} {
		for _, angle := range []float64{0, math.Pi / 3, math.Pi} {
			cow := animalAt(farm.KindCow, 50, 50)
			cow.Hunger = 80
			tr := troughAt("t", 50+d*math.Cos(angle), 50+d*math.Sin(angle), 50)
			got := CanFeedFromTrough(cow, tr)
			want := GetDistance(cow.Position(), tr.Position()) < 10
			if got != want {
				t.Fatalf("distance %v angle %v: got=%v want=%v", d, angle, got, want)
			}
		}
	}
	if CanFeedFromTrough(animalAt(farm.KindCow, 50, 50), troughAt("t", 50, 50, 0)) {
		t.Fatalf("expected empty trough to be rejected")
	}
}

func TestFeedAnimal(t *testing.T) {
	cow := animalAt(farm.KindCow, 50, 50)
	cow.Hunger = 70
	cow.Happiness = 95

	res, ok := FeedAnimal(cow, troughAt("t", 52, 50, 100))
	if !ok {
		t.Fatalf("expected feeding")
	}
	if res.Animal.Hunger != 40 || res.Animal.Happiness != 100 || !res.Animal.IsFeeding {
		t.Fatalf("unexpected animal update %+v", res.Animal)
	}
	if res.Trough.FoodLevel != 70 {
		t.Fatalf("expected trough 70, got %v", res.Trough.FoodLevel)
	}

	res, _ = FeedAnimal(cow, troughAt("t", 52, 50, 12.5))
	if res.Trough.FoodLevel != 0 || res.Animal.Hunger != 40 {
		t.Fatalf("expected emptied trough and full hunger drop, got %+v", res)
	}

	cow.Hunger = 10
	res, _ = FeedAnimal(cow, troughAt("t", 52, 50, 100))
	if res.Animal.Hunger != 0 {
		t.Fatalf("expected hunger clamped at 0, got %v", res.Animal.Hunger)
	}

	if _, ok := FeedAnimal(cow, troughAt("t", 70, 50, 100)); ok {
		t.Fatalf("expected out of range trough to be rejected")
	}
}

func TestFeedResult_Patches(t *testing.T) {
	patches := FeedResult{
		Animal: AnimalFeedUpdate{Hunger: 1, Happiness: 2, IsFeeding: true},
		Trough: TroughFeedUpdate{FoodLevel: 3},
	}.Patches("cow-1", "t-1")
	if len(patches) != 2 || patches[0].ID != "cow-1" || patches[1].ID != "t-1" || *patches[1].FoodLevel != 3 {
		t.Fatalf("unexpected patches %+v", patches)
	}
}
