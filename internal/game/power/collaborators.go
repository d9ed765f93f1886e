package power

import (
	"fmt"

	"github.com/udisondev/powercore/internal/game/geo"
)

// Collider answers map collision queries.
// *geo.Grid satisfies it.
type Collider interface {
	IsEmpty(x, y float64) bool
	IsWall(x, y float64) bool
	IsValidPosition(x, y float64, movement geo.MovementType, checkBlocked bool) bool
	RandomNeighbor(target geo.Point, radius int, ignoreBlocked bool) geo.FPoint
	Block(x, y float64)
	Unblock(x, y float64)
	LineOfSight(a, b geo.FPoint) bool
}

// SoundPlayer plays a sound effect by id.
type SoundPlayer interface {
	Play(id string)
}

// MessageCatalog translates user-facing message formats.
type MessageCatalog interface {
	Get(format string, args ...any) string
}

// InputLock guards the action bar against power use during transitions.
type InputLock interface {
	LockActionBar()
	UnlockActionBar()
}

// CombatMessageKind classifies floating combat text.
type CombatMessageKind int8

const (
	CombatMessageBuff CombatMessageKind = iota
	CombatMessageGiveDamage
	CombatMessageTakeDamage
)

// CombatLog shows floating combat text at a map position.
type CombatLog interface {
	AddMessage(text string, pos geo.FPoint, kind CombatMessageKind)
}

// Collaborators are the external systems the manager talks to.
// Nil members fall back to no-op implementations; Collider is required.
type Collaborators struct {
	Collider  Collider
	Sound     SoundPlayer
	Messages  MessageCatalog
	Input     InputLock
	CombatLog CombatLog
}

type nopSound struct{}

func (nopSound) Play(string) {}

// sprintfCatalog formats messages untranslated.
type sprintfCatalog struct{}

func (sprintfCatalog) Get(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

type nopInput struct{}

func (nopInput) LockActionBar()   {}
func (nopInput) UnlockActionBar() {}

type nopCombatLog struct{}

func (nopCombatLog) AddMessage(string, geo.FPoint, CombatMessageKind) {}

func (c Collaborators) withDefaults() Collaborators {
	if c.Sound == nil {
		c.Sound = nopSound{}
	}
	if c.Messages == nil {
		c.Messages = sprintfCatalog{}
	}
	if c.Input == nil {
		c.Input = nopInput{}
	}
	if c.CombatLog == nil {
		c.CombatLog = nopCombatLog{}
	}
	return c
}
