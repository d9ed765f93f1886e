package power

import (
	"slices"

	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/model"
)

// CanActivate reports whether actor can currently afford p.
//
// Rules:
//   - heroes need at least requires_mp mana
//   - a living actor can't use a non-sacrifice power whose hp cost is lethal
//   - the power must not be cooling down for actor
func (m *Manager) CanActivate(p *data.PowerDef, actor *model.StatBlock) bool {
	if actor.Hero && p.RequiresMP > actor.MP {
		return false
	}

	if actor.HP > 0 && !p.Sacrifice && p.RequiresHP >= actor.HP {
		return false
	}

	if m.CooldownRemaining(actor, p.ID) > 0 {
		return false
	}

	return true
}

// PayCost deducts the cost of p from actor.
// Heroes pay mana and queue item consumption; everyone pays hp, floored at 0.
func (m *Manager) PayCost(p *data.PowerDef, actor *model.StatBlock) {
	if actor == nil {
		return
	}

	if actor.Hero {
		actor.MP -= p.RequiresMP

		// carried items
		if p.RequiresItem != -1 {
			for range p.RequiresItemQuantity {
				m.usedItems = append(m.usedItems, p.RequiresItem)
			}
		}

		// equipped item: one pending consumption per item id,
		// so a pair of identical equipped items loses only one per cast
		if p.RequiresEquippedItem != -1 && !slices.Contains(m.usedEquippedItems, p.RequiresEquippedItem) {
			for range p.RequiresEquippedItemQuantity {
				m.usedEquippedItems = append(m.usedEquippedItems, p.RequiresEquippedItem)
			}
		}
	}

	actor.HP = max(actor.HP-p.RequiresHP, 0)
}

// Tick advances the cooldown clock by deltaMs.
func (m *Manager) Tick(deltaMs int) {
	m.nowMs += int64(deltaMs)

	for actor, byID := range m.cooldowns {
		for id, readyAt := range byID {
			if readyAt <= m.nowMs {
				delete(byID, id)
			}
		}
		if len(byID) == 0 {
			delete(m.cooldowns, actor)
		}
	}
}

// CooldownRemaining returns how many milliseconds remain before actor may use power id again.
func (m *Manager) CooldownRemaining(actor *model.StatBlock, id int) int {
	readyAt, ok := m.cooldowns[actor][id]
	if !ok || readyAt <= m.nowMs {
		return 0
	}
	return int(readyAt - m.nowMs)
}

// Forget drops cooldown state of an actor that left the simulation.
func (m *Manager) Forget(actor *model.StatBlock) {
	delete(m.cooldowns, actor)
}

func (m *Manager) startCooldown(actor *model.StatBlock, p *data.PowerDef) {
	if p.CooldownMs <= 0 {
		return
	}
	byID, ok := m.cooldowns[actor]
	if !ok {
		byID = make(map[int]int64)
		m.cooldowns[actor] = byID
	}
	byID[p.ID] = m.nowMs + int64(p.CooldownMs)
}
