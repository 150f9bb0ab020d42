package types

import "github.com/ricochet-mp/ricochet/pkg/kinematic"

type ConnectPlayerEvent struct {
	ClientID          uint32
	CharacterID       int32
	CharacterName     string
	CharacterPosition kinematic.Vector
	CurrentHp         float64
	MaxHp             float64
	Ammo              int16
}

type DisconnectPlayerEvent struct {
	ClientID uint32
}
