package messages

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeMessage(t *testing.T) {
	payload, err := json.Marshal(&ServerActionConfirm{
		ClientID: 7,
		Action:   ActionToggleRagdoll,
		Ragdoll:  true,
		Ammo:     12,
	})
	require.NoError(t, err)

	msg := &Message{
		ClientID: 7,
		Type:     MessageTypeServerActionConfirm,
		Payload:  payload,
	}

	b, err := SerializeMessage(msg)
	require.NoError(t, err)

	got, err := DeserializeMessage(b)
	require.NoError(t, err)

	assert.Equal(t, msg.ClientID, got.ClientID)
	assert.Equal(t, msg.Type, got.Type)

	confirm := &ServerActionConfirm{}
	require.NoError(t, json.Unmarshal(got.Payload, confirm))
	assert.Equal(t, uint32(7), confirm.ClientID)
	assert.Equal(t, ActionToggleRagdoll, confirm.Action)
	assert.True(t, confirm.Ragdoll)
	assert.Equal(t, int16(12), confirm.Ammo)
}

func TestSerializeDeserializeMessageEmptyPayload(t *testing.T) {
	msg := &Message{
		ClientID: 0,
		Type:     MessageTypeServerPong,
	}

	b, err := SerializeMessage(msg)
	require.NoError(t, err)

	got, err := DeserializeMessage(b)
	require.NoError(t, err)

	assert.Equal(t, uint32(0), got.ClientID)
	assert.Equal(t, MessageTypeServerPong, got.Type)
	assert.Empty(t, got.Payload)
}

func TestSerializeDeserializeGameUpdate(t *testing.T) {
	update := &ServerGameUpdate{
		Timestamp: 1234567890,
		Players: []*PlayerSnapshot{
			{
				ClientID:               1,
				CharacterID:            42,
				Name:                   "deadeye",
				Position:               Vec2{X: 100.5, Y: -20.25},
				Velocity:               Vec2{X: -3, Y: 0},
				FlipH:                  true,
				LifeState:              1,
				Ragdoll:                true,
				CurrentHp:              0,
				MaxHp:                  100,
				Ammo:                   30,
				LastProcessedTimestamp: 99,
			},
			{
				ClientID: 2,
				MaxHp:    100,
			},
		},
	}

	b, err := SerializeGameUpdate(update)
	require.NoError(t, err)

	got, err := DeserializeGameUpdate(b)
	require.NoError(t, err)

	require.Len(t, got.Players, 2)
	assert.Equal(t, update.Timestamp, got.Timestamp)
	assert.Equal(t, update.Players[0], got.Players[0])
	assert.Equal(t, update.Players[1], got.Players[1])
}

func TestMessageTypeReliability(t *testing.T) {
	assert.Equal(t, ReliabilityBestEffort, MessageTypeServerGameUpdate.Reliability())
	assert.Equal(t, ReliabilityBestEffort, MessageTypeClientPing.Reliability())
	assert.Equal(t, ReliabilityReliable, MessageTypeServerActionConfirm.Reliability())
	assert.Equal(t, ReliabilityReliable, MessageTypeServerHealthUpdate.Reliability())
}
