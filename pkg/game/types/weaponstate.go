package types

import "github.com/ricochet-mp/ricochet/pkg/game/constants"

// UsableItem is the capability surface an equipped item exposes to the action
// router: availability query, trigger, reload. Concrete item variants
// implement it directly, no runtime casting involved.
type UsableItem interface {
	CanUse() bool
	Trigger() bool
	Reload()
}

var _ UsableItem = (*WeaponState)(nil)

// WeaponState is a rifle placed in the arena. Ownership is a weak reference
// both ways: the weapon records the claiming client ID and the player records
// the weapon ID, resolution always goes through the GameState registry.
type WeaponState struct {
	ID       uint32
	OwnerID  uint32
	Ammo     int16
	ClipSize int16
	Damage   float64
	Range    float64

	cooldown float64
	reload   float64
}

func NewWeaponState(id uint32) *WeaponState {
	return &WeaponState{
		ID:       id,
		Ammo:     constants.WeaponClipSize,
		ClipSize: constants.WeaponClipSize,
		Damage:   constants.WeaponDamage,
		Range:    constants.WeaponRange,
	}
}

// CanUse reports whether the weapon can fire right now.
func (w *WeaponState) CanUse() bool {
	return w.Ammo > 0 && w.cooldown <= 0 && w.reload <= 0
}

// Trigger fires the weapon, spending a round and starting the fire cooldown.
// Returns false if the weapon is not usable.
func (w *WeaponState) Trigger() bool {
	if !w.CanUse() {
		return false
	}
	w.Ammo--
	w.cooldown = constants.WeaponFireCooldown
	return true
}

// Reload starts a reload. A reload already in progress is not restarted.
func (w *WeaponState) Reload() {
	if w.reload > 0 {
		return
	}
	w.reload = constants.WeaponReloadTime
}

// Reloading reports whether a reload is in progress.
func (w *WeaponState) Reloading() bool {
	return w.reload > 0
}

// Claimed reports whether a player owns this weapon.
func (w *WeaponState) Claimed() bool {
	return w.OwnerID != 0
}

// Update advances the fire cooldown and reload timers by deltaTime seconds.
// A completed reload refills the clip.
func (w *WeaponState) Update(deltaTime float64) {
	if w.cooldown > 0 {
		w.cooldown -= deltaTime
		if w.cooldown < 0 {
			w.cooldown = 0
		}
	}
	if w.reload > 0 {
		w.reload -= deltaTime
		if w.reload <= 0 {
			w.reload = 0
			w.Ammo = w.ClipSize
		}
	}
}

// Copy returns a copy of the weapon state.
func (w *WeaponState) Copy() *WeaponState {
	copy := *w
	return &copy
}
