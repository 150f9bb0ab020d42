package game

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ricochet-mp/ricochet/pkg/actions"
	"github.com/ricochet-mp/ricochet/pkg/binder"
	"github.com/ricochet-mp/ricochet/pkg/game/constants"
	"github.com/ricochet-mp/ricochet/pkg/game/types"
	"github.com/ricochet-mp/ricochet/pkg/log"
	"github.com/ricochet-mp/ricochet/pkg/messages"
	"github.com/ricochet-mp/ricochet/pkg/network"
	"github.com/ricochet-mp/ricochet/pkg/queue"
	"github.com/ricochet-mp/ricochet/pkg/repositories/models"
	"github.com/ricochet-mp/ricochet/pkg/state"
	"github.com/ricochet-mp/ricochet/pkg/workers"
)

type GameManager struct {
	clientManager       *network.ClientManager
	clientMessageQueue  queue.Queue
	serverEventQueue    queue.Queue
	stateManager        state.StateManager
	serverMessageChan   chan<- workers.ServerMessage
	savePlayerStateChan chan<- workers.SavePlayerStateRequest
	gameState           *types.GameState
	scheduler           *TickScheduler
	router              *actions.Router
	gameLoopInterval    time.Duration
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	ClientManager       *network.ClientManager
	ClientMessageQueue  queue.Queue
	ServerEventQueue    queue.Queue
	StateManager        state.StateManager
	ServerMessageChan   chan<- workers.ServerMessage
	SavePlayerStateChan chan<- workers.SavePlayerStateRequest
	GameLoopInterval    time.Duration
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	gameState := types.NewGameState(NewCollisionSpace())
	gm := &GameManager{
		clientManager:       opts.ClientManager,
		clientMessageQueue:  opts.ClientMessageQueue,
		serverEventQueue:    opts.ServerEventQueue,
		stateManager:        opts.StateManager,
		serverMessageChan:   opts.ServerMessageChan,
		savePlayerStateChan: opts.SavePlayerStateChan,
		gameState:           gameState,
		scheduler:           NewTickScheduler(),
		gameLoopInterval:    opts.GameLoopInterval,
	}
	gm.router = actions.NewRouter(actions.NewRouterOptions{
		GameState:   gameState,
		Broadcaster: gm,
		Effects:     gm,
	})
	return gm
}

// Start starts the game loop.
func (gm *GameManager) Start(ctx context.Context) error {
	gm.initializeGameState()

	ticker := time.NewTicker(gm.gameLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			gm.gameTick(t)
		}
	}
}

// initializeGameState stocks the weapon pool players claim from on join.
func (gm *GameManager) initializeGameState() {
	for i := 1; i <= constants.WeaponSpawnCount; i++ {
		weapon := types.NewWeaponState(uint32(i))
		gm.gameState.AddWeapon(weapon)
	}
	log.Debug("Stocked %d weapons", constants.WeaponSpawnCount)
}

// gameTick runs one iteration of the game loop.
func (gm *GameManager) gameTick(t time.Time) {
	gm.gameState.Timestamp = t.UnixMilli()
	gm.processServerEvents()
	gm.processClientMessages()
	gm.scheduler.RunDue(t)
	gm.updateServerObjects(gm.gameLoopInterval.Seconds())
	gm.publishGameState()
}

// processServerEvents processes all pending server events in the queue,
// updates the game state, and notifies connected clients
func (gm *GameManager) processServerEvents() {
	pendingEvents, err := gm.serverEventQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read server events: %v", err)
		return
	}
	for _, item := range pendingEvents {
		switch event := item.(type) {
		case *types.ConnectPlayerEvent:
			gm.connectPlayer(event)
		case *types.DisconnectPlayerEvent:
			gm.disconnectPlayer(event)
		default:
			log.Error("unhandled server event type: %T", event)
		}
	}
}

func (gm *GameManager) connectPlayer(event *types.ConnectPlayerEvent) {
	playerState := types.NewPlayerState(event.CharacterID, event.CharacterName, event.CharacterPosition.X, event.CharacterPosition.Y)
	playerState.ApplyHealthUpdate(event.CurrentHp, event.MaxHp)
	gm.gameState.AddPlayer(event.ClientID, playerState)
	gm.gameState.CollisionSpace.Add(playerState.Object)
	log.Debug("Character %s joined as client %d", playerState.Name, event.ClientID)

	// announce the new player to everyone
	gm.serverMessageChan <- workers.ServerMessage{
		Type: messages.MessageTypeServerPlayerConnect,
		Message: &messages.ServerPlayerConnect{
			ClientID:    event.ClientID,
			PlayerState: PlayerSnapshotFromState(event.ClientID, gm.gameState, playerState),
		},
	}

	// catch the new player up on everyone else
	for clientID, otherState := range gm.gameState.Players {
		if clientID == event.ClientID {
			continue
		}
		gm.serverMessageChan <- workers.ServerMessage{
			ClientID: event.ClientID,
			Type:     messages.MessageTypeServerPlayerConnect,
			Message: &messages.ServerPlayerConnect{
				ClientID:    clientID,
				PlayerState: PlayerSnapshotFromState(clientID, gm.gameState, otherState),
			},
		}
	}

	// The weapon claim waits until the client finishes the UDP handshake,
	// so the equip confirmation cannot race ahead of the join on the
	// unreliable channel.
	clientID := event.ClientID
	savedAmmo := event.Ammo
	binder.TryBind(gm.scheduler, binder.DefaultRetryInterval,
		func() bool {
			if !gm.clientManager.Exists(clientID) {
				// client went away, nothing left to bind
				return true
			}
			return gm.clientManager.HasUDPAddress(clientID)
		},
		func() {
			gm.equipWeapon(clientID, savedAmmo)
		},
	)
}

// equipWeapon claims an unclaimed weapon for the client and restores its
// persisted ammo count.
func (gm *GameManager) equipWeapon(clientID uint32, ammo int16) {
	playerState, ok := gm.gameState.Players[clientID]
	if !ok {
		return
	}

	weapon := gm.gameState.UnclaimedWeapon()
	if weapon == nil {
		log.Warn("No unclaimed weapon left for client %d", clientID)
		return
	}

	weapon.OwnerID = clientID
	weapon.Ammo = ammo
	playerState.WeaponID = weapon.ID
	log.Debug("Client %d equipped weapon %d with %d rounds", clientID, weapon.ID, ammo)
}

func (gm *GameManager) disconnectPlayer(event *types.DisconnectPlayerEvent) {
	playerState, ok := gm.gameState.Players[event.ClientID]
	if !ok {
		log.Warn("Client %d disconnected but is not in the game state", event.ClientID)
		return
	}

	// save the player state before deleting it
	var ammo int16
	if weapon := gm.gameState.EquippedWeapon(playerState); weapon != nil {
		ammo = weapon.Ammo
	}
	gm.savePlayerStateChan <- workers.SavePlayerStateRequest{
		Record: &models.PlayerRecord{
			CharacterID: playerState.CharacterID,
			Timestamp:   gm.gameState.Timestamp,
			X:           playerState.Position.X,
			Y:           playerState.Position.Y,
			Hitpoints:   playerState.CurrentHp,
			Ammo:        ammo,
		},
	}

	gm.gameState.ReleaseWeapon(event.ClientID)
	gm.gameState.CollisionSpace.Remove(playerState.Object)
	gm.gameState.RemovePlayer(event.ClientID)

	gm.serverMessageChan <- workers.ServerMessage{
		Type: messages.MessageTypeServerPlayerDisconnect,
		Message: &messages.ServerPlayerDisconnect{
			ClientID: event.ClientID,
		},
	}
}

// processClientMessages processes all pending client messages in the queue
// and updates the game state accordingly.
func (gm *GameManager) processClientMessages() {
	pendingMessages, err := gm.clientMessageQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read client messages: %v", err)
		return
	}
	for _, item := range pendingMessages {
		message, ok := item.(*messages.Message)
		if !ok {
			log.Error("Failed to cast message to messages.Message")
			continue
		}

		switch message.Type {
		case messages.MessageTypeClientPlayerUpdate:
			gm.handleClientPlayerUpdate(message)
		case messages.MessageTypeClientActionRequest:
			gm.handleClientActionRequest(message)
		default:
			log.Error("Unhandled message type: %s", message.Type)
		}
	}
}

func (gm *GameManager) handleClientPlayerUpdate(message *messages.Message) {
	clientPlayerUpdate := &messages.ClientPlayerUpdate{}
	if err := json.Unmarshal(message.Payload, clientPlayerUpdate); err != nil {
		log.Error("Failed to unmarshal player update: %v", err)
		return
	}

	playerState, ok := gm.gameState.Players[message.ClientID]
	if !ok {
		log.Warn("Client %d is not in the game state", message.ClientID)
		return
	}

	if playerState.LastProcessedTimestamp > clientPlayerUpdate.Timestamp {
		log.Warn("Client %d sent an outdated player update", message.ClientID)
		return
	}

	playerState.ApplyInput(clientPlayerUpdate)
}

// handleClientActionRequest routes an action request through authoritative
// validation. Requests that fail to parse or validate are dropped without a
// reply.
func (gm *GameManager) handleClientActionRequest(message *messages.Message) {
	clientActionRequest := &messages.ClientActionRequest{}
	if err := json.Unmarshal(message.Payload, clientActionRequest); err != nil {
		log.Error("Failed to unmarshal action request: %v", err)
		return
	}

	kind, err := actions.KindFromWire(clientActionRequest.Action)
	if err != nil {
		log.Warn("Dropping action request from client %d: %v", message.ClientID, err)
		return
	}

	gm.router.Request(message.ClientID, kind)
}

// updateServerObjects advances server-side timers (weapon cooldowns, reloads).
func (gm *GameManager) updateServerObjects(deltaTime float64) {
	for _, weapon := range gm.gameState.Weapons {
		weapon.Update(deltaTime)
	}
}

// publishGameState pushes the current snapshot to the state manager and
// broadcasts it to connected clients.
func (gm *GameManager) publishGameState() {
	if err := gm.stateManager.Set(gm.gameState); err != nil {
		log.Error("Failed to set game state: %v", err)
	}

	gm.serverMessageChan <- workers.ServerMessage{
		Type:    messages.MessageTypeServerGameUpdate,
		Message: ServerGameUpdateFromState(gm.gameState),
	}
}

// BroadcastActionConfirm delivers an accepted action to every client over
// the reliable channel.
func (gm *GameManager) BroadcastActionConfirm(confirm *messages.ServerActionConfirm) {
	gm.serverMessageChan <- workers.ServerMessage{
		Type:    messages.MessageTypeServerActionConfirm,
		Message: confirm,
	}
}

// TriggerFired runs hit detection for a confirmed shot.
func (gm *GameManager) TriggerFired(clientID uint32, weapon *types.WeaponState) {
	targetID, target := FindHitTarget(gm.gameState, clientID, weapon.Range)
	if target == nil {
		return
	}

	wasIncapacitated := target.IsIncapacitated()
	target.TakeDamage(weapon.Damage)
	log.Debug("Client %d hit client %d for %f damage", clientID, targetID, weapon.Damage)

	gm.serverMessageChan <- workers.ServerMessage{
		Type: messages.MessageTypeServerPlayerHit,
		Message: &messages.ServerPlayerHit{
			TargetID:  targetID,
			ShooterID: clientID,
			Damage:    weapon.Damage,
		},
	}
	gm.serverMessageChan <- workers.ServerMessage{
		Type: messages.MessageTypeServerHealthUpdate,
		Message: &messages.ServerHealthUpdate{
			ClientID:  targetID,
			CurrentHp: target.CurrentHp,
			MaxHp:     target.MaxHp,
		},
	}

	if !wasIncapacitated && target.IsIncapacitated() {
		log.Debug("Client %d killed client %d", clientID, targetID)
		gm.serverMessageChan <- workers.ServerMessage{
			Type: messages.MessageTypeServerPlayerKill,
			Message: &messages.ServerPlayerKill{
				TargetID:  targetID,
				ShooterID: clientID,
			},
		}
	}
}

// ReloadStarted is part of the action effects surface.
func (gm *GameManager) ReloadStarted(clientID uint32, weapon *types.WeaponState) {
	log.Debug("Client %d started reloading weapon %d", clientID, weapon.ID)
}

// RagdollToggled is part of the action effects surface.
func (gm *GameManager) RagdollToggled(clientID uint32, ragdoll bool) {
	log.Debug("Client %d toggled ragdoll to %t", clientID, ragdoll)
}
