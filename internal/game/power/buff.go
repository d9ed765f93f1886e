package power

import (
	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/game/geo"
	"github.com/udisondev/powercore/internal/model"
)

// LootDrop is a loot entry to roll at a tile.
type LootDrop struct {
	Entry data.LootEntry
	Pos   geo.Point
}

// buff handles the self-targeted part of an activation:
// teleport, self and party effects, and chains for powers without hazards.
func (m *Manager) buff(p *data.PowerDef, actor *model.StatBlock, target geo.FPoint) {
	if p.BuffTeleport {
		m.teleport(p, actor, target)
	}

	if p.Buff || (p.BuffParty && actor.HeroAlly) {
		m.ApplyEffects(actor, actor, p, p.PassiveTrigger, actor.SourceType())
	}

	if p.BuffParty && !p.Passive {
		m.partyBuffs = append(m.partyBuffs, p.ID)
	}

	// powers with hazards chain from the hazard itself
	if p.UseHazard {
		return
	}

	if p.PostPower > 0 {
		m.chain(p.PostPower, actor)
	}

	at := geo.Point{X: int(actor.Pos.X), Y: int(actor.Pos.Y)}
	for _, entry := range p.Loot {
		m.loot = append(m.loot, LootDrop{Entry: entry, Pos: at})
	}
}

func (m *Manager) teleport(p *data.PowerDef, actor *model.StatBlock, target geo.FPoint) {
	target = geo.LimitRange(p.TargetRange, actor.Pos, target)

	if p.TargetNeighbor < 1 {
		actor.Teleportation = true
		actor.TeleportDestination = target
		return
	}

	dest := m.collider.RandomNeighbor(target.Floor(), p.TargetNeighbor, false)
	if dest.Floor() == target.Floor() {
		actor.Teleportation = false
		return
	}
	actor.Teleportation = true
	actor.TeleportDestination = dest
}

// chain activates a post power at the actor's own position.
func (m *Manager) chain(id int, actor *model.StatBlock) {
	if m.chainDepth >= maxChainDepth {
		m.log.Warn("post_power chain too deep, stopping", "power", id, "depth", m.chainDepth)
		return
	}
	m.chainDepth++
	defer func() { m.chainDepth-- }()

	m.Activate(id, actor, actor.Pos)
}
