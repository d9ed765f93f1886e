package geo

// LineOfSight reports whether no wall lies on the tile line between a and b.
// The end points themselves are not checked.
func (g *Grid) LineOfSight(a, b FPoint) bool {
	from, to := a.Floor(), b.Floor()
	if from == to {
		return true
	}

	it := NewLineIterator(from.X, from.Y, to.X, to.Y)
	it.Next() // skip start

	for it.Next() {
		if it.X() == to.X && it.Y() == to.Y {
			break
		}
		if g.tileAt(it.X(), it.Y()) == TileWall {
			return false
		}
	}
	return true
}
