package grid

import "math"

const (
	// CellSize is the width of one grid cell in percent-of-canvas units.
	CellSize = 5.0
	Size     = 20

	TileWidth  = 64.0
	TileHeight = 32.0
	OffsetX    = 640.0
	OffsetY    = 100.0

	MinPercent = 5.0
	MaxPercent = 95.0
)

type Cell struct {
	X int `json:"grid_x"`
	Y int `json:"grid_y"`
}

type Percent struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Screen struct {
	X float64 `json:"screen_x"`
	Y float64 `json:"screen_y"`
}

func PercentToGrid(x, y float64) Cell {
	return Cell{
		X: int(math.Floor(x / CellSize)),
		Y: int(math.Floor(y / CellSize)),
	}
}

// GridToPercent returns the center of the cell.
func GridToPercent(gridX, gridY int) Percent {
	return Percent{
		X: float64(gridX)*CellSize + CellSize/2,
		Y: float64(gridY)*CellSize + CellSize/2,
	}
}

func ToGridCoords(x, y float64) Cell {
	return PercentToGrid(x, y)
}

func ToPercentCoords(gridX, gridY int) Percent {
	return GridToPercent(gridX, gridY)
}

func GridToScreen(gridX, gridY int) Screen {
	return Screen{
		X: float64(gridX-gridY)*(TileWidth/2) + OffsetX,
		Y: float64(gridX+gridY)*(TileHeight/2) + OffsetY,
	}
}

func ScreenToGrid(screenX, screenY float64) Cell {
	diff := (screenX - OffsetX) / (TileWidth / 2)
	sum := (screenY - OffsetY) / (TileHeight / 2)
	return Cell{
		X: int(math.Floor((sum + diff) / 2)),
		Y: int(math.Floor((sum - diff) / 2)),
	}
}

func IsValidGridPosition(gridX, gridY int) bool {
	return gridX >= 0 && gridX < Size && gridY >= 0 && gridY < Size
}

// CalculateZIndex is the isometric depth-sort key; larger values draw in front.
func CalculateZIndex(gridX, gridY int) int {
	return gridX + gridY
}

func IsInBounds(x, y float64) bool {
	return x >= MinPercent && x <= MaxPercent && y >= MinPercent && y <= MaxPercent
}
