package game

import (
	"github.com/ricochet-mp/ricochet/pkg/game/types"
	"github.com/ricochet-mp/ricochet/pkg/messages"
)

// PlayerSnapshotFromState converts a player state into its wire snapshot.
// The ammo count is resolved through the weapon registry.
func PlayerSnapshotFromState(clientID uint32, gameState *types.GameState, playerState *types.PlayerState) *messages.PlayerSnapshot {
	var ammo int16
	if weapon := gameState.EquippedWeapon(playerState); weapon != nil {
		ammo = weapon.Ammo
	}
	return &messages.PlayerSnapshot{
		ClientID:               clientID,
		CharacterID:            playerState.CharacterID,
		Name:                   playerState.Name,
		Position:               messages.Vec2{X: playerState.Position.X, Y: playerState.Position.Y},
		Velocity:               messages.Vec2{X: playerState.Velocity.X, Y: playerState.Velocity.Y},
		FlipH:                  playerState.FlipH,
		LifeState:              uint8(playerState.LifeState),
		Ragdoll:                playerState.Ragdoll,
		CurrentHp:              playerState.CurrentHp,
		MaxHp:                  playerState.MaxHp,
		Ammo:                   ammo,
		LastProcessedTimestamp: playerState.LastProcessedTimestamp,
	}
}

// ServerGameUpdateFromState converts the game state into the per-tick
// snapshot message.
func ServerGameUpdateFromState(gameState *types.GameState) *messages.ServerGameUpdate {
	players := make([]*messages.PlayerSnapshot, 0, len(gameState.Players))
	for clientID, playerState := range gameState.Players {
		players = append(players, PlayerSnapshotFromState(clientID, gameState, playerState))
	}
	return &messages.ServerGameUpdate{
		Timestamp: gameState.Timestamp,
		Players:   players,
	}
}
