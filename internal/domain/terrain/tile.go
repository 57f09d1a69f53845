package terrain

type TileKind string

const (
	TileGrass   TileKind = "grass"
	TilePasture TileKind = "pasture"
	TileDirt    TileKind = "dirt"
	TilePond    TileKind = "pond"
)

type Tile struct {
	GridX int      `json:"grid_x"`
	GridY int      `json:"grid_y"`
	Kind  TileKind `json:"type"`
}

var tileColors = map[TileKind]string{
	TileGrass:   "#7cb342",
	TilePasture: "#9ccc65",
	TileDirt:    "#a1887f",
	TilePond:    "#4fc3f7",
}

// Color falls back to the pasture color for unknown kinds.
func Color(kind TileKind) string {
	if c, ok := tileColors[kind]; ok {
		return c
	}
	return tileColors[TilePasture]
}

func IsWalkable(kind TileKind) bool {
	return kind != TilePond
}
