package messages

import "encoding/json"

const (
	// MessageBufferSize represents the maximum size of a reliable channel message
	MessageBufferSize = 1024
	// UDPMessageBufferSize represents the maximum size of a best-effort channel message
	UDPMessageBufferSize = 508
)

// MessageType identifies a message on the wire.
type MessageType uint8

const (
	MessageTypeClientPing MessageType = iota
	MessageTypeClientLogin
	MessageTypeClientSyncTime
	MessageTypeClientPlayerUpdate
	MessageTypeClientActionRequest
	MessageTypeServerPong
	MessageTypeServerLoginSuccess
	MessageTypeServerLoginFailure
	MessageTypeServerSyncTime
	MessageTypeServerPlayerConnect
	MessageTypeServerPlayerDisconnect
	MessageTypeServerActionConfirm
	MessageTypeServerHealthUpdate
	MessageTypeServerPlayerHit
	MessageTypeServerPlayerKill
	MessageTypeServerGameUpdate
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeClientPing:
		return "client_ping"
	case MessageTypeClientLogin:
		return "client_login"
	case MessageTypeClientSyncTime:
		return "client_sync_time"
	case MessageTypeClientPlayerUpdate:
		return "client_player_update"
	case MessageTypeClientActionRequest:
		return "client_action_request"
	case MessageTypeServerPong:
		return "server_pong"
	case MessageTypeServerLoginSuccess:
		return "server_login_success"
	case MessageTypeServerLoginFailure:
		return "server_login_failure"
	case MessageTypeServerSyncTime:
		return "server_sync_time"
	case MessageTypeServerPlayerConnect:
		return "server_player_connect"
	case MessageTypeServerPlayerDisconnect:
		return "server_player_disconnect"
	case MessageTypeServerActionConfirm:
		return "server_action_confirm"
	case MessageTypeServerHealthUpdate:
		return "server_health_update"
	case MessageTypeServerPlayerHit:
		return "server_player_hit"
	case MessageTypeServerPlayerKill:
		return "server_player_kill"
	case MessageTypeServerGameUpdate:
		return "server_game_update"
	default:
		return "unknown"
	}
}

// Reliability is the delivery class a message type is sent with.
type Reliability uint8

const (
	// ReliabilityReliable messages go over the ordered control channel (TCP or WebSocket).
	ReliabilityReliable Reliability = iota
	// ReliabilityBestEffort messages go over UDP and may be dropped or reordered.
	ReliabilityBestEffort
)

// Reliability returns the declared delivery class for the message type.
// Snapshots and ping traffic are best-effort; everything else must arrive
// in the order the server issued it.
func (t MessageType) Reliability() Reliability {
	switch t {
	case MessageTypeClientPing, MessageTypeServerPong, MessageTypeServerGameUpdate, MessageTypeClientPlayerUpdate:
		return ReliabilityBestEffort
	default:
		return ReliabilityReliable
	}
}

// Message represents a generic message for serialization/deserialization
type Message struct {
	ClientID uint32          `json:"clientID"`
	Type     MessageType     `json:"type"`
	Payload  json.RawMessage `json:"payload"`
}

// Action kinds carried by ClientActionRequest and ServerActionConfirm.
// The authoritative enum lives in pkg/actions; these are the wire values.
const (
	ActionTrigger uint8 = iota
	ActionReload
	ActionToggleRagdoll
)

type ClientLogin struct {
	Token       string `json:"token"`
	CharacterID int32  `json:"characterID"`
}

type ClientSyncTime struct {
	Timestamp int64 `json:"timestamp"`
}

type ClientPlayerUpdate struct {
	Timestamp int64   `json:"timestamp"`
	InputX    float64 `json:"inputX"`
	InputY    float64 `json:"inputY"`
	DeltaTime float64 `json:"deltaTime"`
}

type ClientActionRequest struct {
	Action uint8 `json:"action"`
}

type ServerLoginSuccess struct {
	ClientID uint32 `json:"clientID"`
}

type ServerLoginFailure struct {
	Reason string `json:"reason"`
}

type ServerSyncTime struct {
	Timestamp       int64 `json:"timestamp"`
	ClientTimestamp int64 `json:"clientTimestamp"`
}

type ServerPlayerConnect struct {
	ClientID    uint32          `json:"clientID"`
	PlayerState *PlayerSnapshot `json:"playerState"`
}

type ServerPlayerDisconnect struct {
	ClientID uint32 `json:"clientID"`
}

// ServerActionConfirm is broadcast to every observer once the authority
// accepts an action request. Observers apply the presentation effect locally.
type ServerActionConfirm struct {
	ClientID uint32 `json:"clientID"`
	Action   uint8  `json:"action"`
	Ragdoll  bool   `json:"ragdoll"`
	Ammo     int16  `json:"ammo"`
}

type ServerHealthUpdate struct {
	ClientID  uint32  `json:"clientID"`
	CurrentHp float64 `json:"currentHp"`
	MaxHp     float64 `json:"maxHp"`
}

type ServerPlayerHit struct {
	TargetID  uint32  `json:"targetID"`
	ShooterID uint32  `json:"shooterID"`
	Damage    float64 `json:"damage"`
}

type ServerPlayerKill struct {
	TargetID  uint32 `json:"targetID"`
	ShooterID uint32 `json:"shooterID"`
}

// PlayerSnapshot is the per-player slice of the game snapshot.
type PlayerSnapshot struct {
	ClientID               uint32  `json:"clientID"`
	CharacterID            int32   `json:"characterID"`
	Name                   string  `json:"name"`
	Position               Vec2    `json:"position"`
	Velocity               Vec2    `json:"velocity"`
	FlipH                  bool    `json:"flipH"`
	LifeState              uint8   `json:"lifeState"`
	Ragdoll                bool    `json:"ragdoll"`
	CurrentHp              float64 `json:"currentHp"`
	MaxHp                  float64 `json:"maxHp"`
	Ammo                   int16   `json:"ammo"`
	LastProcessedTimestamp int64   `json:"lastProcessedTimestamp"`
}

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ServerGameUpdate is the full-state snapshot broadcast every tick.
type ServerGameUpdate struct {
	Timestamp int64             `json:"timestamp"`
	Players   []*PlayerSnapshot `json:"players"`
}
