package geo

import "math"

// FPoint is a position in map units (1 unit = 1 tile).
type FPoint struct {
	X, Y float64
}

// Point is a tile coordinate.
type Point struct {
	X, Y int
}

// Floor returns the tile containing p.
func (p FPoint) Floor() Point {
	return Point{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

// Center returns the centre of the tile.
func (p Point) Center() FPoint {
	return FPoint{X: float64(p.X) + 0.5, Y: float64(p.Y) + 0.5}
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b FPoint) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Theta returns the polar angle (radians) from (x1,y1) to (x2,y2).
func Theta(x1, y1, x2, y2 float64) float64 {
	return math.Atan2(y2-y1, x2-x1)
}

// Direction returns the 8-way facing (0..7) from (x0,y0) towards (x1,y1).
func Direction(x0, y0, x1, y1 float64) int {
	val := Theta(x0, y0, x1, y1) / (math.Pi / 4)
	var dir int
	if val < 0 {
		dir = int(math.Ceil(val-0.5)) + 4
	} else {
		dir = int(math.Floor(val+0.5)) + 4
	}
	dir = (dir + 1) % 8
	if dir < 0 || dir >= 8 {
		return 0
	}
	return dir
}

// Vector returns the point dist units from pos along an 8-way direction.
func Vector(pos FPoint, direction int, dist float64) FPoint {
	straight := dist
	diag := dist * diagonalFactor

	switch direction {
	case 0:
		pos.X -= diag
		pos.Y += diag
	case 1:
		pos.X -= straight
	case 2:
		pos.X -= diag
		pos.Y -= diag
	case 3:
		pos.Y -= straight
	case 4:
		pos.X += diag
		pos.Y -= diag
	case 5:
		pos.X += straight
	case 6:
		pos.X += diag
		pos.Y += diag
	case 7:
		pos.Y += straight
	}
	return pos
}

// LimitRange clamps target into a square of half-size rng around src.
// A non-positive rng leaves target unchanged.
func LimitRange(rng float64, src, target FPoint) FPoint {
	if rng <= 0 {
		return target
	}
	target.X = min(max(target.X, src.X-rng), src.X+rng)
	target.Y = min(max(target.Y, src.Y-rng), src.Y+rng)
	return target
}
