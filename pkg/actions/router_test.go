package actions

import (
	"testing"

	"github.com/ricochet-mp/ricochet/pkg/game/constants"
	"github.com/ricochet-mp/ricochet/pkg/game/types"
	"github.com/ricochet-mp/ricochet/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroadcaster struct {
	confirms []*messages.ServerActionConfirm
}

func (f *fakeBroadcaster) BroadcastActionConfirm(confirm *messages.ServerActionConfirm) {
	f.confirms = append(f.confirms, confirm)
}

type fakeEffects struct {
	triggers int
	reloads  int
	ragdolls []bool
}

func (f *fakeEffects) TriggerFired(clientID uint32, weapon *types.WeaponState) {
	f.triggers++
}

func (f *fakeEffects) ReloadStarted(clientID uint32, weapon *types.WeaponState) {
	f.reloads++
}

func (f *fakeEffects) RagdollToggled(clientID uint32, ragdoll bool) {
	f.ragdolls = append(f.ragdolls, ragdoll)
}

func newTestRouter(t *testing.T) (*Router, *types.GameState, *fakeBroadcaster, *fakeEffects) {
	t.Helper()
	gameState := types.NewGameState(nil)
	broadcaster := &fakeBroadcaster{}
	effects := &fakeEffects{}
	router := NewRouter(NewRouterOptions{
		GameState:   gameState,
		Broadcaster: broadcaster,
		Effects:     effects,
	})
	return router, gameState, broadcaster, effects
}

func armedPlayer(gameState *types.GameState, clientID uint32) *types.PlayerState {
	player := types.NewPlayerState(1, "test", 100, 100)
	weapon := types.NewWeaponState(clientID)
	weapon.OwnerID = clientID
	gameState.AddWeapon(weapon)
	player.WeaponID = weapon.ID
	gameState.AddPlayer(clientID, player)
	return player
}

func TestRouter_Trigger(t *testing.T) {
	router, gameState, broadcaster, effects := newTestRouter(t)
	armedPlayer(gameState, 7)

	router.Request(7, KindTrigger)

	require.Len(t, broadcaster.confirms, 1)
	confirm := broadcaster.confirms[0]
	assert.Equal(t, uint32(7), confirm.ClientID)
	assert.Equal(t, messages.ActionTrigger, confirm.Action)
	assert.Equal(t, constants.WeaponClipSize-1, confirm.Ammo)
	assert.Equal(t, 1, effects.triggers)
}

func TestRouter_Trigger_WeaponNotUsable(t *testing.T) {
	router, gameState, broadcaster, effects := newTestRouter(t)
	armedPlayer(gameState, 7)
	gameState.Weapons[7].Ammo = 0

	router.Request(7, KindTrigger)

	// dropped silently: no broadcast, no effects
	assert.Empty(t, broadcaster.confirms)
	assert.Zero(t, effects.triggers)
}

func TestRouter_Trigger_Unarmed(t *testing.T) {
	router, gameState, broadcaster, _ := newTestRouter(t)
	gameState.AddPlayer(7, types.NewPlayerState(1, "test", 100, 100))

	router.Request(7, KindTrigger)

	assert.Empty(t, broadcaster.confirms)
}

func TestRouter_Reload(t *testing.T) {
	router, gameState, broadcaster, effects := newTestRouter(t)
	armedPlayer(gameState, 7)
	gameState.Weapons[7].Ammo = 3

	router.Request(7, KindReload)

	require.Len(t, broadcaster.confirms, 1)
	assert.Equal(t, messages.ActionReload, broadcaster.confirms[0].Action)
	assert.True(t, gameState.Weapons[7].Reloading())
	assert.Equal(t, 1, effects.reloads)
}

func TestRouter_ToggleRagdoll(t *testing.T) {
	router, gameState, broadcaster, effects := newTestRouter(t)
	player := armedPlayer(gameState, 7)

	router.Request(7, KindToggleRagdoll)
	router.Request(7, KindToggleRagdoll)

	require.Len(t, broadcaster.confirms, 2)
	assert.True(t, broadcaster.confirms[0].Ragdoll)
	assert.False(t, broadcaster.confirms[1].Ragdoll)
	assert.False(t, player.Ragdoll)
	assert.Equal(t, []bool{true, false}, effects.ragdolls)
}

func TestRouter_Trigger_WhileIncapacitated(t *testing.T) {
	router, gameState, broadcaster, effects := newTestRouter(t)
	player := armedPlayer(gameState, 7)
	player.TakeDamage(player.MaxHp)
	require.True(t, player.IsIncapacitated())

	// incapacitation does not gate the trigger path; only weapon state does
	router.Request(7, KindTrigger)

	require.Len(t, broadcaster.confirms, 1)
	confirm := broadcaster.confirms[0]
	assert.Equal(t, messages.ActionTrigger, confirm.Action)
	assert.True(t, confirm.Ragdoll)
	assert.Equal(t, constants.WeaponClipSize-1, confirm.Ammo)
	assert.Equal(t, 1, effects.triggers)
}

func TestRouter_ToggleRagdoll_RecoversIncapacitated(t *testing.T) {
	router, gameState, broadcaster, _ := newTestRouter(t)
	player := armedPlayer(gameState, 7)
	player.TakeDamage(player.MaxHp)
	require.Equal(t, types.LifeStateIncapacitated, player.LifeState)

	router.Request(7, KindToggleRagdoll)

	require.Len(t, broadcaster.confirms, 1)
	assert.False(t, broadcaster.confirms[0].Ragdoll)
	assert.Equal(t, types.LifeStateActive, player.LifeState)
}

func TestRouter_UnknownClient(t *testing.T) {
	router, _, broadcaster, _ := newTestRouter(t)

	router.Request(99, KindTrigger)
	router.Request(99, KindToggleRagdoll)

	assert.Empty(t, broadcaster.confirms)
}

func TestKindFromWire(t *testing.T) {
	kind, err := KindFromWire(messages.ActionReload)
	require.NoError(t, err)
	assert.Equal(t, KindReload, kind)

	_, err = KindFromWire(42)
	assert.Error(t, err)
}
