package game

import (
	"encoding/json"
	"testing"
	"time"

	mocks "github.com/ricochet-mp/ricochet/mocks/github.com/ricochet-mp/ricochet/pkg/queue"
	"github.com/ricochet-mp/ricochet/pkg/game/constants"
	"github.com/ricochet-mp/ricochet/pkg/game/types"
	"github.com/ricochet-mp/ricochet/pkg/messages"
	"github.com/ricochet-mp/ricochet/pkg/network"
	"github.com/ricochet-mp/ricochet/pkg/state"
	"github.com/ricochet-mp/ricochet/pkg/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testGameManager struct {
	gm                  *GameManager
	clientMessageQueue  *mocks.Queue
	serverEventQueue    *mocks.Queue
	serverMessageChan   chan workers.ServerMessage
	savePlayerStateChan chan workers.SavePlayerStateRequest
}

func newTestGameManager(t *testing.T) *testGameManager {
	t.Helper()
	clientMessageQueue := mocks.NewQueue(t)
	serverEventQueue := mocks.NewQueue(t)
	serverMessageChan := make(chan workers.ServerMessage, 64)
	savePlayerStateChan := make(chan workers.SavePlayerStateRequest, 64)

	gm := NewGameManager(NewGameManagerOptions{
		ClientManager:       network.NewClientManager(),
		ClientMessageQueue:  clientMessageQueue,
		ServerEventQueue:    serverEventQueue,
		StateManager:        state.NewInMemoryStateManager(),
		ServerMessageChan:   serverMessageChan,
		SavePlayerStateChan: savePlayerStateChan,
		GameLoopInterval:    100 * time.Millisecond,
	})
	return &testGameManager{
		gm:                  gm,
		clientMessageQueue:  clientMessageQueue,
		serverEventQueue:    serverEventQueue,
		serverMessageChan:   serverMessageChan,
		savePlayerStateChan: savePlayerStateChan,
	}
}

func (tgm *testGameManager) addArmedPlayer(clientID uint32, x float64, y float64) *types.PlayerState {
	playerState := types.NewPlayerState(int32(clientID), "test", x, y)
	tgm.gm.gameState.AddPlayer(clientID, playerState)
	tgm.gm.gameState.CollisionSpace.Add(playerState.Object)

	weapon := types.NewWeaponState(clientID)
	weapon.OwnerID = clientID
	tgm.gm.gameState.AddWeapon(weapon)
	playerState.WeaponID = weapon.ID
	return playerState
}

func (tgm *testGameManager) drainServerMessages() []workers.ServerMessage {
	var drained []workers.ServerMessage
	for {
		select {
		case msg := <-tgm.serverMessageChan:
			drained = append(drained, msg)
		default:
			return drained
		}
	}
}

func actionRequestMessage(t *testing.T, clientID uint32, action uint8) *messages.Message {
	t.Helper()
	payload, err := json.Marshal(&messages.ClientActionRequest{Action: action})
	require.NoError(t, err)
	return &messages.Message{
		ClientID: clientID,
		Type:     messages.MessageTypeClientActionRequest,
		Payload:  payload,
	}
}

func TestGameManager_processClientMessages_Movement(t *testing.T) {
	tgm := newTestGameManager(t)
	playerState := tgm.addArmedPlayer(1, 100, 100)

	payload, err := json.Marshal(&messages.ClientPlayerUpdate{
		Timestamp: 1,
		InputX:    1,
		InputY:    0,
		DeltaTime: 0.1,
	})
	require.NoError(t, err)
	tgm.clientMessageQueue.EXPECT().ReadAllMessages().Return([]interface{}{
		&messages.Message{
			ClientID: 1,
			Type:     messages.MessageTypeClientPlayerUpdate,
			Payload:  payload,
		},
	}, nil).Once()

	tgm.gm.processClientMessages()

	assert.Equal(t, 100+constants.PlayerSpeed*0.1, playerState.Position.X)
	assert.Equal(t, int64(1), playerState.LastProcessedTimestamp)
}

func TestGameManager_processClientMessages_StaleUpdateDropped(t *testing.T) {
	tgm := newTestGameManager(t)
	playerState := tgm.addArmedPlayer(1, 100, 100)
	playerState.LastProcessedTimestamp = 10

	payload, err := json.Marshal(&messages.ClientPlayerUpdate{
		Timestamp: 5,
		InputX:    1,
		InputY:    0,
		DeltaTime: 0.1,
	})
	require.NoError(t, err)
	tgm.clientMessageQueue.EXPECT().ReadAllMessages().Return([]interface{}{
		&messages.Message{
			ClientID: 1,
			Type:     messages.MessageTypeClientPlayerUpdate,
			Payload:  payload,
		},
	}, nil).Once()

	tgm.gm.processClientMessages()

	assert.Equal(t, float64(100), playerState.Position.X)
}

func TestGameManager_ActionRequest_Trigger(t *testing.T) {
	tgm := newTestGameManager(t)
	tgm.addArmedPlayer(1, 100, 100)

	tgm.clientMessageQueue.EXPECT().ReadAllMessages().Return([]interface{}{
		actionRequestMessage(t, 1, messages.ActionTrigger),
	}, nil).Once()

	tgm.gm.processClientMessages()

	drained := tgm.drainServerMessages()
	require.Len(t, drained, 1)
	assert.Equal(t, messages.MessageTypeServerActionConfirm, drained[0].Type)
	confirm := drained[0].Message.(*messages.ServerActionConfirm)
	assert.Equal(t, uint32(1), confirm.ClientID)
	assert.Equal(t, constants.WeaponClipSize-1, confirm.Ammo)

	// cooldown drops an immediate second request without a confirmation
	tgm.clientMessageQueue.EXPECT().ReadAllMessages().Return([]interface{}{
		actionRequestMessage(t, 1, messages.ActionTrigger),
	}, nil).Once()

	tgm.gm.processClientMessages()

	assert.Empty(t, tgm.drainServerMessages())
}

func TestGameManager_ActionRequest_TriggerHitsTarget(t *testing.T) {
	tgm := newTestGameManager(t)
	tgm.addArmedPlayer(1, 100, 100)
	target := tgm.addArmedPlayer(2, 200, 100)

	tgm.clientMessageQueue.EXPECT().ReadAllMessages().Return([]interface{}{
		actionRequestMessage(t, 1, messages.ActionTrigger),
	}, nil).Once()

	tgm.gm.processClientMessages()

	assert.Equal(t, constants.PlayerMaxHp-constants.WeaponDamage, target.CurrentHp)

	byType := map[messages.MessageType]workers.ServerMessage{}
	for _, msg := range tgm.drainServerMessages() {
		byType[msg.Type] = msg
	}
	require.Contains(t, byType, messages.MessageTypeServerPlayerHit)
	require.Contains(t, byType, messages.MessageTypeServerHealthUpdate)
	assert.NotContains(t, byType, messages.MessageTypeServerPlayerKill)

	hit := byType[messages.MessageTypeServerPlayerHit].Message.(*messages.ServerPlayerHit)
	assert.Equal(t, uint32(2), hit.TargetID)
	assert.Equal(t, uint32(1), hit.ShooterID)

	health := byType[messages.MessageTypeServerHealthUpdate].Message.(*messages.ServerHealthUpdate)
	assert.Equal(t, uint32(2), health.ClientID)
	assert.Equal(t, constants.PlayerMaxHp-constants.WeaponDamage, health.CurrentHp)
}

func TestGameManager_ActionRequest_KillBroadcast(t *testing.T) {
	tgm := newTestGameManager(t)
	tgm.addArmedPlayer(1, 100, 100)
	target := tgm.addArmedPlayer(2, 200, 100)
	target.ApplyHealthUpdate(constants.WeaponDamage, constants.PlayerMaxHp)

	tgm.clientMessageQueue.EXPECT().ReadAllMessages().Return([]interface{}{
		actionRequestMessage(t, 1, messages.ActionTrigger),
	}, nil).Once()

	tgm.gm.processClientMessages()

	assert.True(t, target.IsIncapacitated())
	assert.True(t, target.Ragdoll)

	byType := map[messages.MessageType]workers.ServerMessage{}
	for _, msg := range tgm.drainServerMessages() {
		byType[msg.Type] = msg
	}
	require.Contains(t, byType, messages.MessageTypeServerPlayerKill)
	kill := byType[messages.MessageTypeServerPlayerKill].Message.(*messages.ServerPlayerKill)
	assert.Equal(t, uint32(2), kill.TargetID)
	assert.Equal(t, uint32(1), kill.ShooterID)
}

func TestGameManager_ActionRequest_UnknownActionDropped(t *testing.T) {
	tgm := newTestGameManager(t)
	tgm.addArmedPlayer(1, 100, 100)

	tgm.clientMessageQueue.EXPECT().ReadAllMessages().Return([]interface{}{
		actionRequestMessage(t, 1, 42),
	}, nil).Once()

	tgm.gm.processClientMessages()

	assert.Empty(t, tgm.drainServerMessages())
}

func TestGameManager_disconnectPlayer(t *testing.T) {
	tgm := newTestGameManager(t)
	playerState := tgm.addArmedPlayer(1, 120, 340)
	playerState.TakeDamage(30)
	tgm.gm.gameState.Weapons[1].Ammo = 7
	tgm.gm.gameState.Timestamp = 5000

	tgm.serverEventQueue.EXPECT().ReadAllMessages().Return([]interface{}{
		&types.DisconnectPlayerEvent{ClientID: 1},
	}, nil).Once()

	tgm.gm.processServerEvents()

	require.Len(t, tgm.savePlayerStateChan, 1)
	saveRequest := <-tgm.savePlayerStateChan
	assert.Equal(t, int32(1), saveRequest.Record.CharacterID)
	assert.Equal(t, int64(5000), saveRequest.Record.Timestamp)
	assert.Equal(t, float64(120), saveRequest.Record.X)
	assert.Equal(t, constants.PlayerMaxHp-30, saveRequest.Record.Hitpoints)
	assert.Equal(t, int16(7), saveRequest.Record.Ammo)

	assert.NotContains(t, tgm.gm.gameState.Players, uint32(1))
	assert.False(t, tgm.gm.gameState.Weapons[1].Claimed())

	drained := tgm.drainServerMessages()
	require.Len(t, drained, 1)
	assert.Equal(t, messages.MessageTypeServerPlayerDisconnect, drained[0].Type)
}

func TestGameManager_updateServerObjects(t *testing.T) {
	tgm := newTestGameManager(t)
	tgm.addArmedPlayer(1, 100, 100)
	weapon := tgm.gm.gameState.Weapons[1]
	weapon.Ammo = 0
	weapon.Reload()

	tgm.gm.updateServerObjects(constants.WeaponReloadTime)

	assert.Equal(t, constants.WeaponClipSize, weapon.Ammo)
}
