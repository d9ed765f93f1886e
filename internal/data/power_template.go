package data

// PowerType selects the activation strategy of a power.
type PowerType int8

const (
	PowerTypeNone      PowerType = iota // no type line seen; never activates
	PowerTypeFixed                      // static hazards and/or buffs
	PowerTypeMissile                    // fan of travelling hazards
	PowerTypeRepeater                   // hazards stepped along a line
	PowerTypeSpawn                      // summon creatures
	PowerTypeTransform                  // change the caster into a creature
	PowerTypeBlock                      // stationary block with effects
)

// SourceType classifies who a hazard belongs to.
type SourceType int8

const (
	SourceTypeDefault SourceType = iota // derived from the activating actor
	SourceTypeHero
	SourceTypeNeutral
	SourceTypeEnemy
	SourceTypeAlly
)

// BaseDamage selects which weapon stats seed hazard damage.
type BaseDamage int8

const (
	BaseDamageNone BaseDamage = iota
	BaseDamageMelee
	BaseDamageRanged
	BaseDamageMental
)

// StartingPos is where a hazard or spawn appears.
type StartingPos int8

const (
	StartingPosSource StartingPos = iota
	StartingPosTarget
	StartingPosMelee
)

// StatModifierMode is how a modifier_* value combines with the base stat.
type StatModifierMode int8

const (
	StatModifierNone StatModifierMode = iota
	StatModifierMultiply
	StatModifierAdd
	StatModifierAbsolute
)

// SpawnLimitMode limits how many summons of a power may exist.
type SpawnLimitMode int8

const (
	SpawnLimitUnlimited SpawnLimitMode = iota
	SpawnLimitFixed
	SpawnLimitStat
)

// SpawnLevelMode decides the level of summoned creatures.
type SpawnLevelMode int8

const (
	SpawnLevelDefault SpawnLevelMode = iota
	SpawnLevelFixed
	SpawnLevelStat
	SpawnLevelLevel
)

// PrimaryStat is a primary attribute used by spawn scaling.
type PrimaryStat int8

const (
	PrimaryStatPhysical PrimaryStat = iota
	PrimaryStatMental
	PrimaryStatOffense
	PrimaryStatDefense
)

// PowerState is the animation state entered on use.
type PowerState int8

const (
	PowerStateNone PowerState = iota
	PowerStateInstant
	PowerStateAttack
)

// Trigger is the event class gating a passive power.
type Trigger int8

const (
	TriggerUnconditional Trigger = iota // fires once when scanned
	TriggerBlock
	TriggerHit
	TriggerHalfDeath
	TriggerJoinCombat
	TriggerDeath
)

// Spawn type used by transform powers to revert.
const SpawnTypeUntransform = "untransform"

// PostEffect is one effect applied by a power.
type PostEffect struct {
	ID         string `json:"id"`
	Magnitude  int    `json:"magnitude"`
	DurationMs int    `json:"duration_ms"`
}

// LootEntry is one drop attached to a power. Chance 0 means fixed (always drops).
type LootEntry struct {
	ItemID      string `json:"item_id"`
	Chance      int    `json:"chance"`
	QuantityMin int    `json:"quantity_min"`
	QuantityMax int    `json:"quantity_max"`
}

// PowerDef is an immutable power definition loaded from powers records.
// Shared across all activations of the id: do not modify after load.
type PowerDef struct {
	ID          int        `json:"id"`
	Type        PowerType  `json:"type"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        int        `json:"icon"`
	NewState    PowerState `json:"new_state"`
	AttackAnim  string     `json:"attack_anim,omitempty"`
	Face        bool       `json:"face"`
	SourceType  SourceType `json:"source_type"`
	Beacon      bool       `json:"beacon"`
	Count       int        `json:"count"`
	MetaPower   bool       `json:"meta_power"`

	// Passive activation
	Passive        bool    `json:"passive"`
	PassiveTrigger Trigger `json:"passive_trigger"`

	// Requirements
	RequiresFlags                map[string]struct{} `json:"requires_flags,omitempty"`
	RequiresMP                   int                 `json:"requires_mp"`
	RequiresHP                   int                 `json:"requires_hp"`
	Sacrifice                    bool                `json:"sacrifice"`
	RequiresLOS                  bool                `json:"requires_los"`
	RequiresEmptyTarget          bool                `json:"requires_empty_target"`
	RequiresItem                 int                 `json:"requires_item"` // -1 = none
	RequiresItemQuantity         int                 `json:"requires_item_quantity"`
	RequiresEquippedItem         int                 `json:"requires_equipped_item"` // -1 = none
	RequiresEquippedItemQuantity int                 `json:"requires_equipped_item_quantity"`
	RequiresTargeting            bool                `json:"requires_targeting"`
	CooldownMs                   int                 `json:"cooldown_ms"`

	// Animation and audio
	Animation    string `json:"animation,omitempty"`
	SoundFX      string `json:"soundfx,omitempty"`
	Directional  bool   `json:"directional"`
	VisualRandom int    `json:"visual_random"`
	VisualOption int    `json:"visual_option"`
	AimAssist    bool   `json:"aim_assist"`

	// Hazard traits
	Speed                 float64     `json:"speed"` // map units per second
	LifespanMs            int         `json:"lifespan_ms"`
	Floor                 bool        `json:"floor"`
	CompleteAnimation     bool        `json:"complete_animation"`
	UseHazard             bool        `json:"use_hazard"`
	NoAttack              bool        `json:"no_attack"`
	Radius                float64     `json:"radius"`
	BaseDamage            BaseDamage  `json:"base_damage"`
	StartingPos           StartingPos `json:"starting_pos"`
	Multitarget           bool        `json:"multitarget"`
	TraitArmorPenetration bool        `json:"trait_armor_penetration"`
	TraitAvoidanceIgnore  bool        `json:"trait_avoidance_ignore"`
	TraitCritsImpaired    int         `json:"trait_crits_impaired"`
	TraitElemental        int         `json:"trait_elemental"` // element index, -1 = none
	TargetRange           float64     `json:"target_range"`
	HPSteal               int         `json:"hp_steal"`
	MPSteal               int         `json:"mp_steal"`

	// Missile
	MissileAngle  int     `json:"missile_angle"`
	AngleVariance int     `json:"angle_variance"`
	SpeedVariance float64 `json:"speed_variance"`

	// Repeater (and stagger for fixed/missile)
	DelayMs int `json:"delay_ms"`

	// Transform
	TransformDurationMs int  `json:"transform_duration_ms"`
	ManualUntransform   bool `json:"manual_untransform"`
	KeepEquipment       bool `json:"keep_equipment"`
	UntransformOnHit    bool `json:"untransform_on_hit"`

	// Buffs
	Buff             bool `json:"buff"`
	BuffTeleport     bool `json:"buff_teleport"`
	BuffParty        bool `json:"buff_party"`
	BuffPartyPowerID int  `json:"buff_party_power_id"`

	PostEffects []PostEffect `json:"post_effects,omitempty"`
	PostPower   int          `json:"post_power"`
	WallPower   int          `json:"wall_power"`

	// Spawn
	SpawnType       string         `json:"spawn_type,omitempty"`
	TargetNeighbor  int            `json:"target_neighbor"`
	SpawnLimitMode  SpawnLimitMode `json:"spawn_limit_mode"`
	SpawnLimitQty   int            `json:"spawn_limit_qty"`
	SpawnLimitEvery int            `json:"spawn_limit_every"`
	SpawnLimitStat  PrimaryStat    `json:"spawn_limit_stat"`
	SpawnLevelMode  SpawnLevelMode `json:"spawn_level_mode"`
	SpawnLevelQty   int            `json:"spawn_level_qty"`
	SpawnLevelEvery int            `json:"spawn_level_every"`
	SpawnLevelStat  PrimaryStat    `json:"spawn_level_stat"`

	// Targeting
	TargetParty              bool     `json:"target_party"`
	TargetCategories         []string `json:"target_categories,omitempty"`
	TargetMovementNormal     bool     `json:"target_movement_normal"`
	TargetMovementFlying     bool     `json:"target_movement_flying"`
	TargetMovementIntangible bool     `json:"target_movement_intangible"`
	WallsBlockAOE            bool     `json:"walls_block_aoe"`

	// Stat modifiers
	ModAccuracyMode  StatModifierMode `json:"mod_accuracy_mode"`
	ModAccuracyValue int              `json:"mod_accuracy_value"`
	ModDamageMode    StatModifierMode `json:"mod_damage_mode"`
	ModDamageMin     int              `json:"mod_damage_min"`
	ModDamageMax     int              `json:"mod_damage_max"`
	ModCritMode      StatModifierMode `json:"mod_crit_mode"`
	ModCritValue     int              `json:"mod_crit_value"`

	Loot []LootEntry `json:"loot,omitempty"`
}

// newPowerDef returns a definition with load defaults applied.
func newPowerDef(id int) PowerDef {
	return PowerDef{
		ID:                       id,
		Count:                    1,
		RequiresItem:             -1,
		RequiresEquippedItem:     -1,
		TraitElemental:           -1,
		SpawnLimitEvery:          1,
		SpawnLevelEvery:          1,
		TargetMovementNormal:     true,
		TargetMovementFlying:     true,
		TargetMovementIntangible: true,
	}
}

// RequiresFlag reports whether flag is among the required equip flags.
func (p *PowerDef) RequiresFlag(flag string) bool {
	_, ok := p.RequiresFlags[flag]
	return ok
}

// IsUntransform returns true for transform powers that revert a transformation.
func (p *PowerDef) IsUntransform() bool {
	return p.SpawnType == SpawnTypeUntransform
}

// ParsePowerType converts string to PowerType.
func ParsePowerType(s string) (PowerType, bool) {
	switch s {
	case "fixed":
		return PowerTypeFixed, true
	case "missile":
		return PowerTypeMissile, true
	case "repeater":
		return PowerTypeRepeater, true
	case "spawn":
		return PowerTypeSpawn, true
	case "transform":
		return PowerTypeTransform, true
	case "block":
		return PowerTypeBlock, true
	default:
		return PowerTypeNone, false
	}
}

// String returns the config token of the type.
func (t PowerType) String() string {
	switch t {
	case PowerTypeFixed:
		return "fixed"
	case PowerTypeMissile:
		return "missile"
	case PowerTypeRepeater:
		return "repeater"
	case PowerTypeSpawn:
		return "spawn"
	case PowerTypeTransform:
		return "transform"
	case PowerTypeBlock:
		return "block"
	default:
		return "none"
	}
}

// ParseSourceType converts string to SourceType.
func ParseSourceType(s string) (SourceType, bool) {
	switch s {
	case "hero":
		return SourceTypeHero, true
	case "neutral":
		return SourceTypeNeutral, true
	case "enemy":
		return SourceTypeEnemy, true
	default:
		return SourceTypeDefault, false
	}
}

// ParseBaseDamage converts string to BaseDamage.
func ParseBaseDamage(s string) (BaseDamage, bool) {
	switch s {
	case "none":
		return BaseDamageNone, true
	case "melee":
		return BaseDamageMelee, true
	case "ranged":
		return BaseDamageRanged, true
	case "ment", "mental":
		return BaseDamageMental, true
	default:
		return BaseDamageNone, false
	}
}

// ParseStartingPos converts string to StartingPos.
func ParseStartingPos(s string) (StartingPos, bool) {
	switch s {
	case "source":
		return StartingPosSource, true
	case "target":
		return StartingPosTarget, true
	case "melee":
		return StartingPosMelee, true
	default:
		return StartingPosSource, false
	}
}

// ParseStatModifierMode converts string to StatModifierMode.
func ParseStatModifierMode(s string) (StatModifierMode, bool) {
	switch s {
	case "multiply":
		return StatModifierMultiply, true
	case "add":
		return StatModifierAdd, true
	case "absolute":
		return StatModifierAbsolute, true
	default:
		return StatModifierNone, false
	}
}

// ParseSpawnLimitMode converts string to SpawnLimitMode.
func ParseSpawnLimitMode(s string) (SpawnLimitMode, bool) {
	switch s {
	case "fixed":
		return SpawnLimitFixed, true
	case "stat":
		return SpawnLimitStat, true
	case "unlimited":
		return SpawnLimitUnlimited, true
	default:
		return SpawnLimitUnlimited, false
	}
}

// ParseSpawnLevelMode converts string to SpawnLevelMode.
func ParseSpawnLevelMode(s string) (SpawnLevelMode, bool) {
	switch s {
	case "default":
		return SpawnLevelDefault, true
	case "fixed":
		return SpawnLevelFixed, true
	case "stat":
		return SpawnLevelStat, true
	case "level":
		return SpawnLevelLevel, true
	default:
		return SpawnLevelDefault, false
	}
}

// ParsePrimaryStat converts string to PrimaryStat.
func ParsePrimaryStat(s string) (PrimaryStat, bool) {
	switch s {
	case "physical":
		return PrimaryStatPhysical, true
	case "mental":
		return PrimaryStatMental, true
	case "offense":
		return PrimaryStatOffense, true
	case "defense":
		return PrimaryStatDefense, true
	default:
		return PrimaryStatPhysical, false
	}
}

// ParseTrigger converts a passive_trigger token to Trigger.
func ParseTrigger(s string) (Trigger, bool) {
	switch s {
	case "on_block":
		return TriggerBlock, true
	case "on_hit":
		return TriggerHit, true
	case "on_halfdeath":
		return TriggerHalfDeath, true
	case "on_joincombat":
		return TriggerJoinCombat, true
	case "on_death":
		return TriggerDeath, true
	default:
		return TriggerUnconditional, false
	}
}
