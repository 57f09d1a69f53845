package sim

import (
	"math"

	"farmtycoon/internal/domain/grid"
)

const DefaultCollisionThreshold = 5.0

func GetDistance(a, b grid.Percent) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// CheckCollision uses DefaultCollisionThreshold when threshold is not positive.
func CheckCollision(a, b grid.Percent, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultCollisionThreshold
	}
	return GetDistance(a, b) < threshold
}

// MoveTowards steps speed units toward the target and lands on it when it is
// within one step.
func MoveTowards(x, y, targetX, targetY, speed float64) grid.Percent {
	dx, dy := targetX-x, targetY-y
	dist := math.Hypot(dx, dy)
	if dist <= speed || dist == 0 {
		return grid.Percent{X: targetX, Y: targetY}
	}
	return grid.Percent{
		X: x + dx/dist*speed,
		Y: y + dy/dist*speed,
	}
}

// Bearing is the heading in radians from (x,y) to the target.
func Bearing(x, y, targetX, targetY float64) float64 {
	return math.Atan2(targetY-y, targetX-x)
}
