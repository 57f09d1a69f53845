package sim

import (
	"math"

	"farmtycoon/internal/domain/farm"
	"farmtycoon/internal/domain/grid"
)

const (
	TurnChance = 0.05
	MaxTurn    = math.Pi / 4

	// VelocityScale converts game velocity into percent-space distance per second.
	VelocityScale = 10.0
)

type Bounds struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

func CanvasBounds() Bounds {
	return Bounds{MinX: grid.MinPercent, MaxX: grid.MaxPercent, MinY: grid.MinPercent, MaxY: grid.MaxPercent}
}

type WanderResult struct {
	X         float64
	Y         float64
	Direction float64
	HitFence  bool
}

// Wander advances one random-walk step. Walls reflect the heading with
// pi-d on x and -d on y; this is a mirror approximation and can leave the
// heading pointing outward after simultaneous x and y hits in a corner.
// A nil fence uses the canvas bounds.
func Wander(rng farm.Random, x, y, direction, velocity, deltaSeconds float64, fence *Bounds) WanderResult {
	if rng == nil {
		rng = farm.DefaultRandom()
	}
	if rng.Float64() < TurnChance {
		direction += (rng.Float64()*2 - 1) * MaxTurn
	}

	step := velocity * deltaSeconds * VelocityScale
	nx := x + math.Cos(direction)*step
	ny := y + math.Sin(direction)*step

	b := CanvasBounds()
	if fence != nil {
		b = *fence
	}

	hit := false
	if nx < b.MinX || nx > b.MaxX {
		direction = math.Pi - direction
		nx = clamp(nx, b.MinX, b.MaxX)
		hit = true
	}
	if ny < b.MinY || ny > b.MaxY {
		direction = -direction
		ny = clamp(ny, b.MinY, b.MaxY)
		hit = true
	}

	return WanderResult{
		X:         round2(nx),
		Y:         round2(ny),
		Direction: direction,
		HitFence:  hit,
	}
}

// EnclosureBounds spans the cell centers of every gridded fence. It reports
// false when no fence sits on the grid or when the fences lie in a single
// row or column, since such a span encloses no area.
func EnclosureBounds(entities []farm.Entity) (Bounds, bool) {
	found := false
	var minX, maxX, minY, maxY int
	for _, e := range entities {
		if e.Kind != farm.KindFence {
			continue
		}
		cell, ok := e.Cell()
		if !ok {
			continue
		}
		if !found {
			minX, maxX, minY, maxY = cell.X, cell.X, cell.Y, cell.Y
			found = true
			continue
		}
		minX = min(minX, cell.X)
		maxX = max(maxX, cell.X)
		minY = min(minY, cell.Y)
		maxY = max(maxY, cell.Y)
	}
	if !found || minX == maxX || minY == maxY {
		return Bounds{}, false
	}
	lo := grid.GridToPercent(minX, minY)
	hi := grid.GridToPercent(maxX, maxY)
	return Bounds{MinX: lo.X, MaxX: hi.X, MinY: lo.Y, MaxY: hi.Y}, true
}
