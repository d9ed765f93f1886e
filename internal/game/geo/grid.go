package geo

import (
	"math/rand/v2"
)

// Grid is a tile collision map with per-tile entity occupancy.
// Not safe for concurrent use: owned by the simulation loop.
type Grid struct {
	width, height int
	tiles         []Tile
	blocked       []bool
	rnd           *rand.Rand
}

// NewGrid creates an all-empty grid.
func NewGrid(width, height int, rnd *rand.Rand) *Grid {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Grid{
		width:   width,
		height:  height,
		tiles:   make([]Tile, width*height),
		blocked: make([]bool, width*height),
		rnd:     rnd,
	}
}

// ParseGrid builds a grid from rows of '.', '#' (wall) and '~' (pit).
// Short rows are padded with empty tiles.
func ParseGrid(rows []string, rnd *rand.Rand) *Grid {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	g := NewGrid(width, len(rows), rnd)
	for y, r := range rows {
		for x, c := range r {
			switch c {
			case '#':
				g.SetTile(x, y, TileWall)
			case '~':
				g.SetTile(x, y, TilePit)
			}
		}
	}
	return g
}

// Width returns the grid width in tiles.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in tiles.
func (g *Grid) Height() int { return g.height }

// SetTile sets the static tile class. Out-of-bounds writes are ignored.
func (g *Grid) SetTile(x, y int, t Tile) {
	if g.inBounds(x, y) {
		g.tiles[y*g.width+x] = t
	}
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// tileAt treats everything outside the map as wall.
func (g *Grid) tileAt(x, y int) Tile {
	if !g.inBounds(x, y) {
		return TileWall
	}
	return g.tiles[y*g.width+x]
}

func (g *Grid) blockedAt(x, y int) bool {
	return g.inBounds(x, y) && g.blocked[y*g.width+x]
}

// IsEmpty reports whether the tile at (x,y) is inside the map, walkable and unoccupied.
func (g *Grid) IsEmpty(x, y float64) bool {
	p := FPoint{x, y}.Floor()
	return g.inBounds(p.X, p.Y) && g.tileAt(p.X, p.Y) == TileEmpty && !g.blockedAt(p.X, p.Y)
}

// IsWall reports whether the tile at (x,y) is a wall or outside the map.
func (g *Grid) IsWall(x, y float64) bool {
	p := FPoint{x, y}.Floor()
	return g.tileAt(p.X, p.Y) == TileWall
}

// Block marks the tile at (x,y) as occupied by an entity.
func (g *Grid) Block(x, y float64) {
	p := FPoint{x, y}.Floor()
	if g.inBounds(p.X, p.Y) {
		g.blocked[p.Y*g.width+p.X] = true
	}
}

// Unblock clears entity occupancy of the tile at (x,y).
func (g *Grid) Unblock(x, y float64) {
	p := FPoint{x, y}.Floor()
	if g.inBounds(p.X, p.Y) {
		g.blocked[p.Y*g.width+p.X] = false
	}
}

// IsValidPosition reports whether an entity with the given movement type may stand at (x,y).
// checkBlocked also rejects tiles occupied by other entities.
func (g *Grid) IsValidPosition(x, y float64, movement MovementType, checkBlocked bool) bool {
	p := FPoint{x, y}.Floor()
	if !g.inBounds(p.X, p.Y) {
		return false
	}
	if checkBlocked && g.blockedAt(p.X, p.Y) {
		return false
	}

	switch movement {
	case MovementIntangible:
		return true
	case MovementFlying:
		return g.tileAt(p.X, p.Y) != TileWall
	default:
		return g.tileAt(p.X, p.Y) == TileEmpty
	}
}

// RandomNeighbor picks a random tile centre within radius of target, excluding target itself.
// Unless ignoreBlocked is set, only positions valid for normal movement qualify.
// Returns the centre of target when nothing qualifies.
func (g *Grid) RandomNeighbor(target Point, radius int, ignoreBlocked bool) FPoint {
	var candidates []FPoint
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			c := Point{target.X + dx, target.Y + dy}
			if !g.inBounds(c.X, c.Y) {
				continue
			}
			pos := c.Center()
			if ignoreBlocked || g.IsValidPosition(pos.X, pos.Y, MovementNormal, true) {
				candidates = append(candidates, pos)
			}
		}
	}

	if len(candidates) == 0 {
		return target.Center()
	}
	return candidates[g.rnd.IntN(len(candidates))]
}
