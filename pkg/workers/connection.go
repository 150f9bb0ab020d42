package workers

import (
	"context"

	gameconstants "github.com/ricochet-mp/ricochet/pkg/game/constants"
	gametypes "github.com/ricochet-mp/ricochet/pkg/game/types"
	"github.com/ricochet-mp/ricochet/pkg/kinematic"
	"github.com/ricochet-mp/ricochet/pkg/log"
	"github.com/ricochet-mp/ricochet/pkg/network"
	"github.com/ricochet-mp/ricochet/pkg/queue"
	"github.com/ricochet-mp/ricochet/pkg/repositories"
)

type ConnectionEventWorker struct {
	clientEventChan  <-chan network.ClientEvent
	repository       repositories.Repository
	serverEventQueue queue.Queue
}

type NewConnectionEventWorkerOptions struct {
	ClientEventChan  <-chan network.ClientEvent
	Repository       repositories.Repository
	ServerEventQueue queue.Queue
}

// NewConnectionEventWorker creates a new ConnectionEventWorker.
// The worker processes client events like connect and disconnect
// and writes server events to a queue for the game loop to process.
func NewConnectionEventWorker(opts NewConnectionEventWorkerOptions) *ConnectionEventWorker {
	return &ConnectionEventWorker{
		clientEventChan:  opts.ClientEventChan,
		repository:       opts.Repository,
		serverEventQueue: opts.ServerEventQueue,
	}
}

func (w *ConnectionEventWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.clientEventChan:
			switch event.Type {
			case network.ClientEventTypeConnect:
				w.handleClientConnect(ctx, event)
			case network.ClientEventTypeDisconnect:
				w.handleClientDisconnect(event)
			default:
				log.Error("Unknown client event type: %v", event.Type)
			}
		}
	}
}

func (w *ConnectionEventWorker) handleClientConnect(ctx context.Context, event network.ClientEvent) {
	data, ok := event.Data.(network.ClientConnectData)
	if !ok {
		log.Error("Failed to cast client connect data")
		return
	}

	character, err := w.repository.GetCharacter(ctx, data.UserID, data.CharacterID)
	if err != nil {
		log.Error("Failed to get character %d for user %s: %v", data.CharacterID, data.UserID, err)
		return
	}

	position := kinematic.Vector{
		X: gameconstants.PlayerStartingX,
		Y: gameconstants.PlayerStartingY,
	}
	currentHp := gameconstants.PlayerMaxHp
	ammo := gameconstants.WeaponClipSize
	if record, err := w.repository.LoadPlayerState(ctx, character.ID); err == nil {
		position = kinematic.Vector{X: record.X, Y: record.Y}
		currentHp = record.Hitpoints
		ammo = record.Ammo
	} else {
		if !repositories.IsNotFound(err) {
			log.Error("Failed to load player state for character %d: %v", character.ID, err)
		}
		log.Debug("Adding character %d with default values", character.ID)
	}

	if err := w.serverEventQueue.Enqueue(&gametypes.ConnectPlayerEvent{
		ClientID:          event.ClientID,
		CharacterID:       character.ID,
		CharacterName:     character.Name,
		CharacterPosition: position,
		CurrentHp:         currentHp,
		MaxHp:             gameconstants.PlayerMaxHp,
		Ammo:              ammo,
	}); err != nil {
		log.Error("Failed to enqueue connect player event: %v", err)
	}
}

func (w *ConnectionEventWorker) handleClientDisconnect(event network.ClientEvent) {
	if err := w.serverEventQueue.Enqueue(&gametypes.DisconnectPlayerEvent{
		ClientID: event.ClientID,
	}); err != nil {
		log.Error("Failed to enqueue disconnect player event: %v", err)
	}
}
