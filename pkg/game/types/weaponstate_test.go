package types

import (
	"testing"

	"github.com/ricochet-mp/ricochet/pkg/game/constants"
	"github.com/stretchr/testify/assert"
)

func TestWeaponState_Trigger(t *testing.T) {
	weapon := NewWeaponState(1)

	assert.True(t, weapon.CanUse())
	assert.True(t, weapon.Trigger())
	assert.Equal(t, constants.WeaponClipSize-1, weapon.Ammo)

	// fire cooldown blocks an immediate second shot
	assert.False(t, weapon.CanUse())
	assert.False(t, weapon.Trigger())
	assert.Equal(t, constants.WeaponClipSize-1, weapon.Ammo)

	weapon.Update(constants.WeaponFireCooldown)
	assert.True(t, weapon.CanUse())
}

func TestWeaponState_Trigger_EmptyClip(t *testing.T) {
	weapon := NewWeaponState(1)
	weapon.Ammo = 0

	assert.False(t, weapon.CanUse())
	assert.False(t, weapon.Trigger())
}

func TestWeaponState_Reload(t *testing.T) {
	weapon := NewWeaponState(1)
	weapon.Ammo = 3

	weapon.Reload()
	assert.True(t, weapon.Reloading())
	assert.False(t, weapon.CanUse())

	// still reloading halfway through
	weapon.Update(constants.WeaponReloadTime / 2)
	assert.True(t, weapon.Reloading())
	assert.Equal(t, int16(3), weapon.Ammo)

	weapon.Update(constants.WeaponReloadTime / 2)
	assert.False(t, weapon.Reloading())
	assert.Equal(t, constants.WeaponClipSize, weapon.Ammo)
	assert.True(t, weapon.CanUse())
}

func TestWeaponState_Reload_AlreadyReloading(t *testing.T) {
	weapon := NewWeaponState(1)
	weapon.Ammo = 3

	weapon.Reload()
	weapon.Update(constants.WeaponReloadTime * 0.9)
	weapon.Reload()
	weapon.Update(constants.WeaponReloadTime * 0.1)

	// the second Reload did not restart the timer
	assert.False(t, weapon.Reloading())
	assert.Equal(t, constants.WeaponClipSize, weapon.Ammo)
}

func TestGameState_Weapons(t *testing.T) {
	gameState := NewGameState(nil)
	gameState.AddWeapon(NewWeaponState(2))
	gameState.AddWeapon(NewWeaponState(1))

	weapon := gameState.UnclaimedWeapon()
	assert.Equal(t, uint32(1), weapon.ID)
	weapon.OwnerID = 42

	weapon = gameState.UnclaimedWeapon()
	assert.Equal(t, uint32(2), weapon.ID)

	player := NewPlayerState(1, "test", 100, 100)
	player.WeaponID = 1
	equipped := gameState.EquippedWeapon(player)
	assert.Equal(t, uint32(42), equipped.OwnerID)

	gameState.ReleaseWeapon(42)
	assert.False(t, equipped.Claimed())

	player.WeaponID = 99
	assert.Nil(t, gameState.EquippedWeapon(player))
}
