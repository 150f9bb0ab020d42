package actions

import (
	"fmt"

	"github.com/ricochet-mp/ricochet/pkg/game/types"
	"github.com/ricochet-mp/ricochet/pkg/log"
	"github.com/ricochet-mp/ricochet/pkg/messages"
)

// Kind identifies a player action that requires server confirmation.
type Kind uint8

const (
	KindTrigger Kind = iota
	KindReload
	KindToggleRagdoll
)

func (k Kind) String() string {
	switch k {
	case KindTrigger:
		return "trigger"
	case KindReload:
		return "reload"
	case KindToggleRagdoll:
		return "toggle-ragdoll"
	default:
		return "unknown"
	}
}

// Wire returns the wire representation of the action kind.
func (k Kind) Wire() uint8 {
	return uint8(k)
}

// KindFromWire parses an action kind from its wire representation.
func KindFromWire(action uint8) (Kind, error) {
	switch Kind(action) {
	case KindTrigger, KindReload, KindToggleRagdoll:
		return Kind(action), nil
	default:
		return 0, fmt.Errorf("unknown action %d", action)
	}
}

// Broadcaster delivers a confirmed action to every connected client,
// including the requester, over the reliable channel.
type Broadcaster interface {
	BroadcastActionConfirm(confirm *messages.ServerActionConfirm)
}

// Effects receives confirmed actions so presentation side effects can run.
// Implementations must not mutate game state.
type Effects interface {
	TriggerFired(clientID uint32, weapon *types.WeaponState)
	ReloadStarted(clientID uint32, weapon *types.WeaponState)
	RagdollToggled(clientID uint32, ragdoll bool)
}

// Router routes client action requests through authoritative validation.
// A request that passes validation mutates game state, is handed to the
// effects sink and is broadcast to all clients. A request that fails
// validation is dropped without a reply, the client simply sees no
// confirmation arrive.
type Router struct {
	gameState   *types.GameState
	broadcaster Broadcaster
	effects     Effects
}

type NewRouterOptions struct {
	GameState   *types.GameState
	Broadcaster Broadcaster
	Effects     Effects
}

func NewRouter(opts NewRouterOptions) *Router {
	return &Router{
		gameState:   opts.GameState,
		broadcaster: opts.Broadcaster,
		effects:     opts.Effects,
	}
}

// Request validates and executes an action requested by a client.
func (r *Router) Request(clientID uint32, kind Kind) {
	player, ok := r.gameState.Players[clientID]
	if !ok {
		log.Debug("Dropping %s request for unknown client %d", kind, clientID)
		return
	}

	switch kind {
	case KindTrigger:
		r.trigger(clientID, player)
	case KindReload:
		r.reload(clientID, player)
	case KindToggleRagdoll:
		r.toggleRagdoll(clientID, player)
	default:
		log.Warn("Dropping request with unknown action kind %d from client %d", kind, clientID)
	}
}

func (r *Router) trigger(clientID uint32, player *types.PlayerState) {
	weapon := r.gameState.EquippedWeapon(player)
	if weapon == nil {
		log.Debug("Dropping trigger request from unarmed client %d", clientID)
		return
	}
	if !weapon.Trigger() {
		log.Debug("Dropping trigger request from client %d, weapon not usable", clientID)
		return
	}

	if r.effects != nil {
		r.effects.TriggerFired(clientID, weapon)
	}
	r.broadcaster.BroadcastActionConfirm(&messages.ServerActionConfirm{
		ClientID: clientID,
		Action:   messages.ActionTrigger,
		Ragdoll:  player.Ragdoll,
		Ammo:     weapon.Ammo,
	})
}

func (r *Router) reload(clientID uint32, player *types.PlayerState) {
	weapon := r.gameState.EquippedWeapon(player)
	if weapon == nil {
		log.Debug("Dropping reload request from unarmed client %d", clientID)
		return
	}
	weapon.Reload()

	if r.effects != nil {
		r.effects.ReloadStarted(clientID, weapon)
	}
	r.broadcaster.BroadcastActionConfirm(&messages.ServerActionConfirm{
		ClientID: clientID,
		Action:   messages.ActionReload,
		Ragdoll:  player.Ragdoll,
		Ammo:     weapon.Ammo,
	})
}

func (r *Router) toggleRagdoll(clientID uint32, player *types.PlayerState) {
	ragdoll := player.ToggleRagdoll()

	if r.effects != nil {
		r.effects.RagdollToggled(clientID, ragdoll)
	}

	var ammo int16
	if weapon := r.gameState.EquippedWeapon(player); weapon != nil {
		ammo = weapon.Ammo
	}
	r.broadcaster.BroadcastActionConfirm(&messages.ServerActionConfirm{
		ClientID: clientID,
		Action:   messages.ActionToggleRagdoll,
		Ragdoll:  ragdoll,
		Ammo:     ammo,
	})
}
