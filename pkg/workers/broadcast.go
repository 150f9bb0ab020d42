package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ricochet-mp/ricochet/pkg/log"
	"github.com/ricochet-mp/ricochet/pkg/messages"
	"github.com/ricochet-mp/ricochet/pkg/network"
)

// ServerMessage is an outbound message produced by the game loop.
// A zero ClientID broadcasts to every connected client.
type ServerMessage struct {
	ClientID uint32
	Type     messages.MessageType
	Message  interface{}
}

// BroadcastMessageWorker drains outbound server messages and delivers them
// over the channel class declared by the message type: reliable messages go
// out ordered over the control connection, best effort ones over UDP.
type BroadcastMessageWorker struct {
	networkManager    *network.NetworkManager
	serverMessageChan <-chan ServerMessage
}

type NewBroadcastMessageWorkerOptions struct {
	NetworkManager    *network.NetworkManager
	ServerMessageChan <-chan ServerMessage
}

func NewBroadcastMessageWorker(opts NewBroadcastMessageWorkerOptions) *BroadcastMessageWorker {
	return &BroadcastMessageWorker{
		networkManager:    opts.NetworkManager,
		serverMessageChan: opts.ServerMessageChan,
	}
}

func (w *BroadcastMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.serverMessageChan:
			if err := w.send(ctx, msg); err != nil {
				log.Error("Failed to send server message of type %s: %v", msg.Type, err)
			}
		}
	}
}

func (w *BroadcastMessageWorker) send(ctx context.Context, sm ServerMessage) error {
	payload, err := encodePayload(sm)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %v", err)
	}

	msg := &messages.Message{
		ClientID: 0,
		Type:     sm.Type,
		Payload:  payload,
	}

	switch sm.Type.Reliability() {
	case messages.ReliabilityBestEffort:
		if sm.ClientID == 0 {
			w.networkManager.SendUnreliableMessageToAll(ctx, msg)
			return nil
		}
		return w.networkManager.SendUnreliableMessageToClient(ctx, sm.ClientID, msg)
	default:
		if sm.ClientID == 0 {
			w.networkManager.SendReliableMessageToAll(ctx, msg)
			return nil
		}
		return w.networkManager.SendReliableMessageToClient(ctx, sm.ClientID, msg)
	}
}

// encodePayload picks the wire encoding for the message body. Game updates
// use the flatbuffer hot path, everything else is JSON.
func encodePayload(sm ServerMessage) ([]byte, error) {
	switch m := sm.Message.(type) {
	case nil:
		return nil, nil
	case *messages.ServerGameUpdate:
		return messages.SerializeGameUpdate(m)
	default:
		return json.Marshal(m)
	}
}
