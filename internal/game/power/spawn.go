package power

import (
	"math"

	"github.com/oklog/ulid/v2"

	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/game/geo"
	"github.com/udisondev/powercore/internal/model"
)

// SpawnRequest describes a creature for the external entity factory.
type SpawnRequest struct {
	ID        ulid.ULID
	Type      string
	Pos       geo.FPoint
	Direction int

	// Summoner is nil for map-triggered spawns. Not owned.
	Summoner      *model.StatBlock
	SummonPowerID int
	HeroAlly      bool
}

// spawn summons count creatures of the power's spawn type.
// Fails without side effects when no empty tile can be found.
func (m *Manager) spawn(p *data.PowerDef, actor *model.StatBlock, target geo.FPoint) bool {
	var pos geo.FPoint
	switch p.StartingPos {
	case data.StartingPosSource:
		pos = actor.Pos
	case data.StartingPosTarget:
		pos = target
	case data.StartingPosMelee:
		pos = geo.Vector(actor.Pos, actor.Direction, actor.MeleeRange)
	}

	// an occupied spawn point forces a neighbour search
	neighbor := p.TargetNeighbor
	if !m.collider.IsEmpty(pos.X, pos.Y) && neighbor < 1 {
		neighbor = 1
	}
	if neighbor > 0 {
		pos = floorPoint(m.collider.RandomNeighbor(actor.Pos.Floor(), neighbor, false))
	}

	if !m.collider.IsEmpty(pos.X, pos.Y) {
		return false
	}

	req := SpawnRequest{
		Type:          p.SpawnType,
		Pos:           pos,
		Direction:     geo.Direction(actor.Pos.X, actor.Pos.Y, target.X, target.Y),
		Summoner:      actor,
		SummonPowerID: p.ID,
		HeroAlly:      actor.Hero || actor.HeroAlly,
	}
	for range p.Count {
		req.ID = ulid.Make()
		m.spawns = append(m.spawns, req)
	}

	m.PayCost(p, actor)
	m.buff(p, actor, target)
	m.playSound(p)
	return true
}

// SpawnMapCreature queues a map-triggered spawn facing a random direction.
// No cost, buff or sound applies.
func (m *Manager) SpawnMapCreature(creatureType string, target geo.Point) bool {
	m.spawns = append(m.spawns, SpawnRequest{
		ID:        ulid.Make(),
		Type:      creatureType,
		Pos:       geo.FPoint{X: float64(target.X), Y: float64(target.Y)},
		Direction: m.rnd.IntN(8),
	})
	return true
}

func floorPoint(p geo.FPoint) geo.FPoint {
	return geo.FPoint{X: math.Floor(p.X), Y: math.Floor(p.Y)}
}
