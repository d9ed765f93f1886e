// Package model holds the live actor state read and written by power activation.
package model

import (
	"github.com/udisondev/powercore/internal/data"
	"github.com/udisondev/powercore/internal/game/effect"
	"github.com/udisondev/powercore/internal/game/geo"
)

// Stat is a derived combat stat.
type Stat int8

const (
	StatHPMax Stat = iota
	StatMPMax
	StatAccuracy
	StatCrit
	StatDmgMeleeMin
	StatDmgMeleeMax
	StatDmgRangedMin
	StatDmgRangedMax
	StatDmgMentalMin
	StatDmgMentalMax
	StatSpeed

	statCount
)

// StatBlock is the live state of one actor: hero, ally or enemy.
// Not safe for concurrent use: exactly one activation touches a StatBlock at a time.
type StatBlock struct {
	Name     string
	Hero     bool
	HeroAlly bool
	Level    int

	HP int
	MP int

	base    [statCount]int
	Primary [4]int // indexed by data.PrimaryStat

	Pos          geo.FPoint
	Direction    int
	MeleeRange   float64
	SpeedDefault float64
	Movement     geo.MovementType
	InCombat     bool

	// Transform state, applied by the external transform system.
	Transformed            bool
	TransformType          string
	TransformDurationMs    int // -1 = until untransformed
	ManualUntransform      bool
	TransformWithEquipment bool
	UntransformOnHit       bool

	Teleportation       bool
	TeleportDestination geo.FPoint

	KnockbackSrc  geo.FPoint
	KnockbackDest geo.FPoint

	RefreshStats bool

	// Passive power ids from unlocked powers and from equipped items.
	PowersPassive   []int
	PowersListItems []int

	Effects *effect.Stack
}

// NewStatBlock creates an actor at pos with full hp and mp.
func NewStatBlock(name string, pos geo.FPoint, maxHP, maxMP int) *StatBlock {
	sb := &StatBlock{
		Name:       name,
		Level:      1,
		Pos:        pos,
		MeleeRange: 1,
		Effects:    effect.NewStack(),
	}
	sb.SetBase(StatHPMax, maxHP)
	sb.SetBase(StatMPMax, maxMP)
	sb.HP = maxHP
	sb.MP = maxMP
	return sb
}

// SetBase sets the unbuffed value of stat.
func (s *StatBlock) SetBase(stat Stat, v int) {
	if stat >= 0 && stat < statCount {
		s.base[stat] = v
	}
}

// Get returns stat including bonuses from active effects.
func (s *StatBlock) Get(stat Stat) int {
	if stat < 0 || stat >= statCount {
		return 0
	}
	v := s.base[stat]
	if s.Effects != nil {
		if key := stat.effectKey(); key != "" {
			v += s.Effects.Bonus(key)
		}
	}
	return v
}

// effectKey maps a stat to the post_effect keyword that modifies it.
func (st Stat) effectKey() string {
	switch st {
	case StatHPMax:
		return "hp"
	case StatMPMax:
		return "mp"
	case StatAccuracy:
		return "accuracy"
	case StatCrit:
		return "crit"
	case StatSpeed:
		return "speed"
	default:
		return ""
	}
}

// GetPrimary returns a primary attribute.
func (s *StatBlock) GetPrimary(p data.PrimaryStat) int {
	if p < 0 || int(p) >= len(s.Primary) {
		return 0
	}
	return s.Primary[p]
}

// Alive reports whether hp is above zero.
func (s *StatBlock) Alive() bool {
	return s.HP > 0
}

// Heal adds hp clamped to the maximum.
func (s *StatBlock) Heal(amount int) {
	s.HP = min(s.HP+amount, s.Get(StatHPMax))
}

// SetDamage sets the min/max damage pair for a damage source.
func (s *StatBlock) SetDamage(src data.BaseDamage, lo, hi int) {
	switch src {
	case data.BaseDamageMelee:
		s.SetBase(StatDmgMeleeMin, lo)
		s.SetBase(StatDmgMeleeMax, hi)
	case data.BaseDamageRanged:
		s.SetBase(StatDmgRangedMin, lo)
		s.SetBase(StatDmgRangedMax, hi)
	case data.BaseDamageMental:
		s.SetBase(StatDmgMentalMin, lo)
		s.SetBase(StatDmgMentalMax, hi)
	}
}

// Damage returns the min/max damage pair for a damage source, zeros for none.
func (s *StatBlock) Damage(src data.BaseDamage) (lo, hi int) {
	switch src {
	case data.BaseDamageMelee:
		return s.Get(StatDmgMeleeMin), s.Get(StatDmgMeleeMax)
	case data.BaseDamageRanged:
		return s.Get(StatDmgRangedMin), s.Get(StatDmgRangedMax)
	case data.BaseDamageMental:
		return s.Get(StatDmgMentalMin), s.Get(StatDmgMentalMax)
	default:
		return 0, 0
	}
}

// SourceType classifies the actor for hazard attribution.
func (s *StatBlock) SourceType() data.SourceType {
	switch {
	case s.Hero:
		return data.SourceTypeHero
	case s.HeroAlly:
		return data.SourceTypeAlly
	default:
		return data.SourceTypeEnemy
	}
}
