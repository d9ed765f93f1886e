package power

import (
	"math"

	"github.com/oklog/ulid/v2"

	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/game/geo"
	"github.com/udisondev/powercore/internal/model"
)

// Hazard is a projectile or area effect created by an activation.
// The external hazard simulation owns it once drained from the queue.
type Hazard struct {
	ID ulid.ULID

	// Src is the activating actor. Not owned.
	Src        *model.StatBlock
	PowerID    int
	SourceType data.SourceType

	TargetParty bool
	CritChance  int
	Accuracy    int
	DmgMin      int
	DmgMax      int

	Animation     string
	Directional   bool
	AnimationKind int

	BaseLifespan      int // frames
	Lifespan          int // frames
	DelayFrames       int
	OnFloor           bool
	CompleteAnimation bool

	BaseSpeed float64 // map units per frame
	Angle     float64 // radians
	Velocity  geo.FPoint
	Pos       geo.FPoint

	Radius                float64
	TraitElemental        int
	Active                bool
	Multitarget           bool
	TraitArmorPenetration bool
	TraitCritsImpaired    int
	Beacon                bool
	HPSteal               int
	MPSteal               int

	PostPower int
	WallPower int
	Loot      []data.LootEntry

	// Missile hazards can be reflected.
	Missile bool

	TargetMovementNormal     bool
	TargetMovementFlying     bool
	TargetMovementIntangible bool
	WallsBlockAOE            bool
}

// SetAngle points the hazard along angle at its base speed.
func (h *Hazard) SetAngle(angle float64) {
	h.Angle = angle
	h.Velocity = geo.FPoint{
		X: h.BaseSpeed * math.Cos(angle),
		Y: h.BaseSpeed * math.Sin(angle),
	}
}

// NewHazard creates an empty hazard with a fresh id.
func NewHazard() *Hazard {
	return &Hazard{ID: ulid.Make()}
}

// InitHazard fills h from power p fired by actor towards target.
//
// Calling it again with another power layers that power onto h:
// plain fields are overwritten, crits-vs-impaired and steal accumulate,
// and base damage is only resolved while h carries no damage yet.
func (m *Manager) InitHazard(p *data.PowerDef, actor *model.StatBlock, target geo.FPoint, h *Hazard) {
	// 1. Source attribution
	h.Src = actor
	h.PowerID = p.ID
	if p.SourceType == data.SourceTypeDefault {
		h.SourceType = actor.SourceType()
	} else {
		h.SourceType = p.SourceType
	}

	// 2. Party targeting
	h.TargetParty = p.TargetParty

	// 3. Combat stats snapshot
	h.CritChance = statModify(p.ModCritMode, actor.Get(model.StatCrit), p.ModCritValue)
	h.Accuracy = statModify(p.ModAccuracyMode, actor.Get(model.StatAccuracy), p.ModAccuracyValue)

	// 4. Base damage, unless an earlier layer already set it
	if h.DmgMax == 0 {
		h.DmgMin, h.DmgMax = actor.Damage(p.BaseDamage)
		h.DmgMin, h.DmgMax = modifyDamage(p, h.DmgMin, h.DmgMax)
	}

	// 5. Visual row
	if p.Animation != "" {
		h.Animation = p.Animation
	}
	switch {
	case p.Directional:
		h.Directional = true
		h.AnimationKind = geo.Direction(actor.Pos.X, actor.Pos.Y, target.X, target.Y)
	case p.VisualRandom > 0:
		h.AnimationKind = m.rnd.IntN(p.VisualRandom)
	case p.VisualOption != 0:
		h.AnimationKind = p.VisualOption
	}

	// 6. Timing and combat traits
	h.BaseLifespan = m.frames(p.LifespanMs)
	h.Lifespan = h.BaseLifespan
	h.OnFloor = p.Floor
	h.BaseSpeed = m.perFrame(p.Speed)
	h.CompleteAnimation = p.CompleteAnimation

	h.Radius = p.Radius
	h.TraitElemental = p.TraitElemental
	h.Active = !p.NoAttack
	h.Multitarget = p.Multitarget
	h.TraitArmorPenetration = p.TraitArmorPenetration
	h.TraitCritsImpaired += p.TraitCritsImpaired
	h.Beacon = p.Beacon
	h.HPSteal += p.HPSteal
	h.MPSteal += p.MPSteal

	// 7. Starting position
	switch p.StartingPos {
	case data.StartingPosSource:
		h.Pos = actor.Pos
	case data.StartingPosTarget:
		h.Pos = geo.LimitRange(p.TargetRange, actor.Pos, target)
	case data.StartingPosMelee:
		h.Pos = geo.Vector(actor.Pos, actor.Direction, actor.MeleeRange)
	}
	if p.TargetNeighbor > 0 {
		h.Pos = m.collider.RandomNeighbor(actor.Pos.Floor(), p.TargetNeighbor, true)
	}

	// 8. Chains, loot and targeting filters
	h.PostPower = p.PostPower
	h.WallPower = p.WallPower
	if len(p.Loot) > 0 {
		h.Loot = p.Loot
	}
	h.Missile = p.Type == data.PowerTypeMissile
	h.TargetMovementNormal = p.TargetMovementNormal
	h.TargetMovementFlying = p.TargetMovementFlying
	h.TargetMovementIntangible = p.TargetMovementIntangible
	h.WallsBlockAOE = p.WallsBlockAOE
}

// newHazard creates and initializes a hazard for p.
func (m *Manager) newHazard(p *data.PowerDef, actor *model.StatBlock, target geo.FPoint) *Hazard {
	h := NewHazard()
	m.InitHazard(p, actor, target, h)
	return h
}

// statModify applies a modifier_* rule to a base stat.
func statModify(mode data.StatModifierMode, base, value int) int {
	switch mode {
	case data.StatModifierMultiply:
		return base * value / 100
	case data.StatModifierAdd:
		return base + value
	case data.StatModifierAbsolute:
		return value
	default:
		return base
	}
}

// modifyDamage applies modifier_damage to a base damage range.
func modifyDamage(p *data.PowerDef, lo, hi int) (int, int) {
	switch p.ModDamageMode {
	case data.StatModifierMultiply:
		return lo * p.ModDamageMin / 100, hi * p.ModDamageMin / 100
	case data.StatModifierAdd:
		return lo + p.ModDamageMin, hi + p.ModDamageMin
	case data.StatModifierAbsolute:
		return p.ModDamageMin, max(p.ModDamageMax, p.ModDamageMin)
	default:
		return lo, hi
	}
}
