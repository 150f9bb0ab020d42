package types

import (
	"testing"

	"github.com/ricochet-mp/ricochet/pkg/game/constants"
	"github.com/ricochet-mp/ricochet/pkg/messages"
	"github.com/stretchr/testify/assert"
)

func TestPlayerState_ApplyInput(t *testing.T) {
	player := NewPlayerState(1, "test", 100, 100)

	update := &messages.ClientPlayerUpdate{
		Timestamp: 1000,
		InputX:    1,
		InputY:    0,
		DeltaTime: 0.1,
	}
	player.ApplyInput(update)

	assert.Equal(t, 100+constants.PlayerSpeed*0.1, player.Position.X)
	assert.Equal(t, float64(100), player.Position.Y)
	assert.Equal(t, constants.PlayerSpeed, player.Velocity.X)
	assert.False(t, player.FlipH)
	assert.Equal(t, int64(1000), player.LastProcessedTimestamp)

	update = &messages.ClientPlayerUpdate{
		Timestamp: 2000,
		InputX:    -1,
		InputY:    0,
		DeltaTime: 0.1,
	}
	player.ApplyInput(update)

	assert.True(t, player.FlipH)
}

func TestPlayerState_ApplyInput_Ragdoll(t *testing.T) {
	player := NewPlayerState(1, "test", 100, 100)
	player.ToggleRagdoll()

	player.ApplyInput(&messages.ClientPlayerUpdate{
		Timestamp: 1000,
		InputX:    1,
		InputY:    0,
		DeltaTime: 0.1,
	})

	assert.Equal(t, float64(100), player.Position.X)
	assert.Equal(t, float64(0), player.Velocity.X)
	assert.Equal(t, int64(1000), player.LastProcessedTimestamp)
}

func TestPlayerState_ApplyHealthUpdate(t *testing.T) {
	player := NewPlayerState(1, "test", 100, 100)

	player.ApplyHealthUpdate(50, 100)
	assert.Equal(t, float64(50), player.CurrentHp)
	assert.Equal(t, LifeStateActive, player.LifeState)

	// re-applying the same record changes nothing
	player.ApplyHealthUpdate(50, 100)
	assert.Equal(t, float64(50), player.CurrentHp)
	assert.Equal(t, LifeStateActive, player.LifeState)

	// values are clamped
	player.ApplyHealthUpdate(150, 100)
	assert.Equal(t, float64(100), player.CurrentHp)
	player.ApplyHealthUpdate(-10, 100)
	assert.Equal(t, float64(0), player.CurrentHp)
	assert.Equal(t, LifeStateIncapacitated, player.LifeState)
	assert.True(t, player.Ragdoll)
}

func TestPlayerState_ApplyHealthUpdate_NoAutoRecovery(t *testing.T) {
	player := NewPlayerState(1, "test", 100, 100)
	player.ApplyHealthUpdate(0, 100)
	assert.Equal(t, LifeStateIncapacitated, player.LifeState)

	// a positive update while incapacitated does not stand the player up
	player.ApplyHealthUpdate(50, 100)
	assert.Equal(t, float64(50), player.CurrentHp)
	assert.Equal(t, LifeStateIncapacitated, player.LifeState)
	assert.True(t, player.Ragdoll)

	// only getting up recovers
	ragdoll := player.ToggleRagdoll()
	assert.False(t, ragdoll)
	assert.Equal(t, LifeStateActive, player.LifeState)
}

func TestPlayerState_TakeDamage(t *testing.T) {
	player := NewPlayerState(1, "test", 100, 100)

	player.TakeDamage(30)
	assert.Equal(t, float64(70), player.CurrentHp)
	assert.Equal(t, LifeStateActive, player.LifeState)

	player.TakeDamage(100)
	assert.Equal(t, float64(0), player.CurrentHp)
	assert.Equal(t, LifeStateIncapacitated, player.LifeState)
	assert.True(t, player.Ragdoll)
}

func TestPlayerState_ToggleRagdoll(t *testing.T) {
	player := NewPlayerState(1, "test", 100, 100)

	assert.True(t, player.ToggleRagdoll())
	assert.True(t, player.Ragdoll)
	assert.False(t, player.ToggleRagdoll())
	assert.False(t, player.Ragdoll)
	assert.Equal(t, LifeStateActive, player.LifeState)
}

func TestPlayerState_Copy(t *testing.T) {
	player := NewPlayerState(1, "test", 100, 100)
	player.WeaponID = 7
	player.TakeDamage(40)

	copied := player.Copy()
	assert.Nil(t, copied.Object)
	assert.Equal(t, player.Position, copied.Position)
	assert.Equal(t, player.CurrentHp, copied.CurrentHp)
	assert.Equal(t, player.WeaponID, copied.WeaponID)

	copied.CurrentHp = 0
	assert.Equal(t, float64(60), player.CurrentHp)
}
