package terrain

// Grid is an immutable rows x cols terrain map indexed [y][x].
type Grid struct {
	rows  int
	cols  int
	tiles [][]Tile
}

func CreateDefault(rows, cols int) Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	tiles := make([][]Tile, rows)
	for y := 0; y < rows; y++ {
		row := make([]Tile, cols)
		for x := 0; x < cols; x++ {
			row[x] = Tile{GridX: x, GridY: y, Kind: kindAt(x, y)}
		}
		tiles[y] = row
	}
	return Grid{rows: rows, cols: cols, tiles: tiles}
}

func kindAt(x, y int) TileKind {
	switch {
	case x >= 4 && x <= 7 && y >= 8 && y <= 11:
		return TilePond
	case x == 10 && y >= 5 && y <= 15, y == 10 && x >= 5 && x <= 15:
		return TileDirt
	default:
		return TilePasture
	}
}

func (g Grid) Rows() int { return g.rows }
func (g Grid) Cols() int { return g.cols }

func (g Grid) At(x, y int) (Tile, bool) {
	if x < 0 || y < 0 || y >= g.rows || x >= g.cols {
		return Tile{}, false
	}
	return g.tiles[y][x], true
}

// WalkableAt is false outside the grid.
func (g Grid) WalkableAt(x, y int) bool {
	t, ok := g.At(x, y)
	if !ok {
		return false
	}
	return IsWalkable(t.Kind)
}

// Tiles returns a row-major copy of every tile.
func (g Grid) Tiles() []Tile {
	out := make([]Tile, 0, g.rows*g.cols)
	for _, row := range g.tiles {
		out = append(out, row...)
	}
	return out
}
