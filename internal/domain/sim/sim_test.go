package sim

import "farmtycoon/internal/domain/farm"

type seqRandom struct {
	vals []float64
	i    int
}

func (r *seqRandom) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func noTurn() *seqRandom { return &seqRandom{vals: []float64{0.5}} }

func animalAt(kind farm.Kind, x, y float64) farm.Entity {
	return farm.Entity{ID: string(kind) + "-t", Kind: kind, X: x, Y: y, Happiness: 100}
}

func troughAt(id string, x, y, food float64) farm.Entity {
	return farm.Entity{ID: id, Kind: farm.KindTrough, X: x, Y: y, FoodLevel: food}
}

func ptr[T any](v T) *T { return &v }
