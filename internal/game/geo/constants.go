package geo

// Tile is the static collision class of a map tile.
type Tile int8

const (
	TileEmpty Tile = iota // walkable
	TileWall              // blocks movement, projectiles and sight
	TilePit               // blocks walking only
)

// MovementType is how an entity moves across tiles.
type MovementType int8

const (
	MovementNormal     MovementType = iota // walks; blocked by walls, pits and entities
	MovementFlying                         // flies over pits
	MovementIntangible                     // passes through everything inside the map
)

// Diagonal step factor for 8-way vectors (sqrt(2)/2).
const diagonalFactor = 0.7071
