package types

import (
	"github.com/ricochet-mp/ricochet/pkg/game/constants"
	"github.com/ricochet-mp/ricochet/pkg/kinematic"
	"github.com/ricochet-mp/ricochet/pkg/messages"
	"github.com/solarlune/resolv"
)

// LifeState is the health-driven presentation state of a player.
type LifeState uint8

const (
	LifeStateActive LifeState = iota
	// LifeStateIncapacitated is entered when hitpoints reach zero and is only
	// left through an accepted ragdoll-recovery action.
	LifeStateIncapacitated
)

func (s LifeState) String() string {
	switch s {
	case LifeStateActive:
		return "active"
	case LifeStateIncapacitated:
		return "incapacitated"
	default:
		return "unknown"
	}
}

type PlayerState struct {
	LastProcessedTimestamp int64
	CharacterID            int32
	Name                   string
	Position               kinematic.Vector
	Velocity               kinematic.Vector
	Object                 *resolv.Object
	FlipH                  bool
	CurrentHp              float64
	MaxHp                  float64
	LifeState              LifeState
	Ragdoll                bool
	// WeaponID refers into GameState.Weapons; 0 means unarmed.
	WeaponID uint32
}

func NewPlayerState(characterID int32, name string, positionX float64, positionY float64) *PlayerState {
	return &PlayerState{
		CharacterID: characterID,
		Name:        name,
		Position: kinematic.Vector{
			X: positionX,
			Y: positionY,
		},
		CurrentHp: constants.PlayerMaxHp,
		MaxHp:     constants.PlayerMaxHp,
		Object:    resolv.NewObject(positionX, positionY, constants.PlayerWidth, constants.PlayerHeight, CollisionSpaceTagPlayer),
	}
}

// ApplyInput applies a client movement update to the player state.
// Movement input is ignored while the body is ragdolled.
func (p *PlayerState) ApplyInput(update *messages.ClientPlayerUpdate) {
	p.LastProcessedTimestamp = update.Timestamp

	if p.Ragdoll {
		p.Velocity = kinematic.Vector{}
		return
	}

	direction := kinematic.Vector{X: update.InputX, Y: update.InputY}.Normalized()
	vx := direction.X * constants.PlayerSpeed
	vy := direction.Y * constants.PlayerSpeed
	dx := vx * update.DeltaTime
	dy := vy * update.DeltaTime

	if p.Object != nil {
		if collision := p.Object.Check(dx, 0, CollisionSpaceTagLevel); collision != nil {
			dx = collision.ContactWithObject(collision.Objects[0]).X
			vx = 0
		}
		if collision := p.Object.Check(dx, dy, CollisionSpaceTagLevel); collision != nil {
			dy = collision.ContactWithObject(collision.Objects[0]).Y
			vy = 0
		}
	}

	p.Position.X += dx
	p.Position.Y += dy
	p.Velocity.X = vx
	p.Velocity.Y = vy

	if vx > 0 {
		p.FlipH = false
	} else if vx < 0 {
		p.FlipH = true
	}

	p.syncObject()
}

// ApplyHealthUpdate applies a health record notification. Values are clamped
// to [0, maxHp] and re-applying the same values is harmless. Reaching zero
// incapacitates the player; a later positive update does not revive them.
func (p *PlayerState) ApplyHealthUpdate(currentHp float64, maxHp float64) {
	if maxHp <= 0 {
		return
	}
	if currentHp < 0 {
		currentHp = 0
	}
	if currentHp > maxHp {
		currentHp = maxHp
	}

	p.CurrentHp = currentHp
	p.MaxHp = maxHp

	if currentHp <= 0 {
		p.incapacitate()
	}
}

// TakeDamage lowers the player's hitpoints through the health update path.
func (p *PlayerState) TakeDamage(damage float64) {
	p.ApplyHealthUpdate(p.CurrentHp-damage, p.MaxHp)
}

func (p *PlayerState) incapacitate() {
	p.LifeState = LifeStateIncapacitated
	p.Ragdoll = true
	p.Velocity = kinematic.Vector{}
}

// ToggleRagdoll flips the ragdoll flag and returns the new value.
// Getting up is the only way out of the incapacitated state.
func (p *PlayerState) ToggleRagdoll() bool {
	if p.Ragdoll {
		p.getUp()
	} else {
		p.Ragdoll = true
		p.Velocity = kinematic.Vector{}
	}
	return p.Ragdoll
}

func (p *PlayerState) getUp() {
	p.Ragdoll = false
	p.LifeState = LifeStateActive
	p.Velocity = kinematic.Vector{}
	p.syncObject()
}

func (p *PlayerState) IsIncapacitated() bool {
	return p.LifeState == LifeStateIncapacitated
}

func (p *PlayerState) syncObject() {
	if p.Object == nil {
		return
	}
	p.Object.Position.X = p.Position.X
	p.Object.Position.Y = p.Position.Y
	p.Object.Update()
}

// Copy returns a copy of the player state with an empty object reference.
func (p *PlayerState) Copy() *PlayerState {
	return &PlayerState{
		LastProcessedTimestamp: p.LastProcessedTimestamp,
		CharacterID:            p.CharacterID,
		Name:                   p.Name,
		Position:               p.Position,
		Velocity:               p.Velocity,
		FlipH:                  p.FlipH,
		CurrentHp:              p.CurrentHp,
		MaxHp:                  p.MaxHp,
		LifeState:              p.LifeState,
		Ragdoll:                p.Ragdoll,
		WeaponID:               p.WeaponID,
	}
}
