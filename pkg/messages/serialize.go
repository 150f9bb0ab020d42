package messages

import (
	"bytes"
	"fmt"
	"io"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"
)

// The wire format is a hand-written flatbuffer table per message, rather than
// schema-generated code: every replicated field below has an explicit
// encode/decode pair and a fixed slot, so the contract is visible in one place.

// Message envelope slots.
const (
	messageSlotClientID = iota
	messageSlotType
	messageSlotPayload
	messageNumSlots
)

// PlayerSnapshot slots.
const (
	playerSlotClientID = iota
	playerSlotCharacterID
	playerSlotName
	playerSlotPositionX
	playerSlotPositionY
	playerSlotVelocityX
	playerSlotVelocityY
	playerSlotFlipH
	playerSlotLifeState
	playerSlotRagdoll
	playerSlotCurrentHp
	playerSlotMaxHp
	playerSlotAmmo
	playerSlotLastProcessedTimestamp
	playerNumSlots
)

// ServerGameUpdate slots.
const (
	gameUpdateSlotTimestamp = iota
	gameUpdateSlotPlayers
	gameUpdateNumSlots
)

// vtableOffset converts a slot index to a flatbuffer vtable byte offset.
func vtableOffset(slot int) flatbuffers.VOffsetT {
	return flatbuffers.VOffsetT(4 + 2*slot)
}

// SerializeMessage serializes a message envelope and compresses it for the wire.
func SerializeMessage(m *Message) ([]byte, error) {
	b, err := SerializeMessageFlatbuffer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %v", err)
	}

	compressed := bytes.NewBuffer(nil)
	compWriter, err := zstd.NewWriter(compressed, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	if _, err := compWriter.Write(b); err != nil {
		return nil, fmt.Errorf("failed to compress message: %v", err)
	}
	if err := compWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zstd writer: %v", err)
	}

	return compressed.Bytes(), nil
}

// DeserializeMessage decompresses and deserializes a message envelope.
func DeserializeMessage(data []byte) (*Message, error) {
	compReader, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer compReader.Close()
	b, err := io.ReadAll(compReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read decompressed message: %v", err)
	}

	message, err := DeserializeMessageFlatbuffer(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return message, nil
}

func SerializeMessageFlatbuffer(m *Message) ([]byte, error) {
	builder := flatbuffers.NewBuilder(64)

	var payload flatbuffers.UOffsetT
	if len(m.Payload) > 0 {
		payload = builder.CreateByteVector(m.Payload)
	}

	builder.StartObject(messageNumSlots)
	builder.PrependUint32Slot(messageSlotClientID, m.ClientID, 0)
	builder.PrependByteSlot(messageSlotType, byte(m.Type), 0)
	if payload != 0 {
		builder.PrependUOffsetTSlot(messageSlotPayload, payload, 0)
	}
	builder.Finish(builder.EndObject())

	return builder.FinishedBytes(), nil
}

func DeserializeMessageFlatbuffer(b []byte) (*Message, error) {
	if len(b) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("message too short: %d bytes", len(b))
	}

	tab := &flatbuffers.Table{Bytes: b, Pos: flatbuffers.GetUOffsetT(b)}

	message := &Message{}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(messageSlotClientID))); o != 0 {
		message.ClientID = tab.GetUint32(o + tab.Pos)
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(messageSlotType))); o != 0 {
		message.Type = MessageType(tab.GetByte(o + tab.Pos))
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(messageSlotPayload))); o != 0 {
		message.Payload = tab.ByteVector(o + tab.Pos)
	}

	return message, nil
}

// SerializeGameUpdate serializes the tick snapshot. The snapshot is the hot
// path: it avoids the per-field JSON cost and rides inside the envelope,
// which compresses the whole message before it goes out. The encoded form
// must stay under the UDP buffer size.
func SerializeGameUpdate(update *ServerGameUpdate) ([]byte, error) {
	builder := flatbuffers.NewBuilder(256)

	playerOffsets := make([]flatbuffers.UOffsetT, 0, len(update.Players))
	for _, player := range update.Players {
		playerOffsets = append(playerOffsets, serializePlayerSnapshot(builder, player))
	}

	builder.StartVector(flatbuffers.SizeUOffsetT, len(playerOffsets), flatbuffers.SizeUOffsetT)
	for i := len(playerOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(playerOffsets[i])
	}
	players := builder.EndVector(len(playerOffsets))

	builder.StartObject(gameUpdateNumSlots)
	builder.PrependInt64Slot(gameUpdateSlotTimestamp, update.Timestamp, 0)
	builder.PrependUOffsetTSlot(gameUpdateSlotPlayers, players, 0)
	builder.Finish(builder.EndObject())

	return builder.FinishedBytes(), nil
}

func DeserializeGameUpdate(b []byte) (*ServerGameUpdate, error) {
	if len(b) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("game update too short: %d bytes", len(b))
	}

	tab := &flatbuffers.Table{Bytes: b, Pos: flatbuffers.GetUOffsetT(b)}

	update := &ServerGameUpdate{}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(gameUpdateSlotTimestamp))); o != 0 {
		update.Timestamp = tab.GetInt64(o + tab.Pos)
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(gameUpdateSlotPlayers))); o != 0 {
		length := tab.VectorLen(o)
		vector := tab.Vector(o)
		update.Players = make([]*PlayerSnapshot, 0, length)
		for i := 0; i < length; i++ {
			pos := tab.Indirect(vector + flatbuffers.UOffsetT(i*flatbuffers.SizeUOffsetT))
			player := deserializePlayerSnapshot(&flatbuffers.Table{Bytes: tab.Bytes, Pos: pos})
			update.Players = append(update.Players, player)
		}
	}

	return update, nil
}

func serializePlayerSnapshot(builder *flatbuffers.Builder, p *PlayerSnapshot) flatbuffers.UOffsetT {
	var name flatbuffers.UOffsetT
	if p.Name != "" {
		name = builder.CreateString(p.Name)
	}

	builder.StartObject(playerNumSlots)
	builder.PrependUint32Slot(playerSlotClientID, p.ClientID, 0)
	builder.PrependInt32Slot(playerSlotCharacterID, p.CharacterID, 0)
	if name != 0 {
		builder.PrependUOffsetTSlot(playerSlotName, name, 0)
	}
	builder.PrependFloat64Slot(playerSlotPositionX, p.Position.X, 0)
	builder.PrependFloat64Slot(playerSlotPositionY, p.Position.Y, 0)
	builder.PrependFloat64Slot(playerSlotVelocityX, p.Velocity.X, 0)
	builder.PrependFloat64Slot(playerSlotVelocityY, p.Velocity.Y, 0)
	builder.PrependBoolSlot(playerSlotFlipH, p.FlipH, false)
	builder.PrependByteSlot(playerSlotLifeState, p.LifeState, 0)
	builder.PrependBoolSlot(playerSlotRagdoll, p.Ragdoll, false)
	builder.PrependFloat64Slot(playerSlotCurrentHp, p.CurrentHp, 0)
	builder.PrependFloat64Slot(playerSlotMaxHp, p.MaxHp, 0)
	builder.PrependInt16Slot(playerSlotAmmo, p.Ammo, 0)
	builder.PrependInt64Slot(playerSlotLastProcessedTimestamp, p.LastProcessedTimestamp, 0)
	return builder.EndObject()
}

func deserializePlayerSnapshot(tab *flatbuffers.Table) *PlayerSnapshot {
	p := &PlayerSnapshot{}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(playerSlotClientID))); o != 0 {
		p.ClientID = tab.GetUint32(o + tab.Pos)
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(playerSlotCharacterID))); o != 0 {
		p.CharacterID = tab.GetInt32(o + tab.Pos)
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(playerSlotName))); o != 0 {
		p.Name = string(tab.ByteVector(o + tab.Pos))
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(playerSlotPositionX))); o != 0 {
		p.Position.X = tab.GetFloat64(o + tab.Pos)
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(playerSlotPositionY))); o != 0 {
		p.Position.Y = tab.GetFloat64(o + tab.Pos)
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(playerSlotVelocityX))); o != 0 {
		p.Velocity.X = tab.GetFloat64(o + tab.Pos)
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(playerSlotVelocityY))); o != 0 {
		p.Velocity.Y = tab.GetFloat64(o + tab.Pos)
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(playerSlotFlipH))); o != 0 {
		p.FlipH = tab.GetBool(o + tab.Pos)
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(playerSlotLifeState))); o != 0 {
		p.LifeState = tab.GetByte(o + tab.Pos)
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(playerSlotRagdoll))); o != 0 {
		p.Ragdoll = tab.GetBool(o + tab.Pos)
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(playerSlotCurrentHp))); o != 0 {
		p.CurrentHp = tab.GetFloat64(o + tab.Pos)
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(playerSlotMaxHp))); o != 0 {
		p.MaxHp = tab.GetFloat64(o + tab.Pos)
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(playerSlotAmmo))); o != 0 {
		p.Ammo = tab.GetInt16(o + tab.Pos)
	}
	if o := flatbuffers.UOffsetT(tab.Offset(vtableOffset(playerSlotLastProcessedTimestamp))); o != 0 {
		p.LastProcessedTimestamp = tab.GetInt64(o + tab.Pos)
	}
	return p
}
