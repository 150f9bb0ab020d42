package types

import "github.com/solarlune/resolv"

const (
	CollisionSpaceTagPlayer string = "player"
	CollisionSpaceTagLevel  string = "level"
)

type GameState struct {
	// Timestamp is the time at which the game state was generated
	Timestamp int64
	// Players maps client IDs to player states
	Players map[uint32]*PlayerState
	// Weapons is the registry of weapon instances, keyed by weapon ID.
	// Players refer into it by ID, never by pointer.
	Weapons map[uint32]*WeaponState
	// CollisionSpace is a resolv.Space used for movement and hit detection
	CollisionSpace *resolv.Space
}

func NewGameState(collisionSpace *resolv.Space) *GameState {
	return &GameState{
		Players:        make(map[uint32]*PlayerState),
		Weapons:        make(map[uint32]*WeaponState),
		CollisionSpace: collisionSpace,
	}
}

func (g *GameState) AddPlayer(clientID uint32, state *PlayerState) {
	g.Players[clientID] = state
}

func (g *GameState) RemovePlayer(clientID uint32) {
	delete(g.Players, clientID)
}

func (g *GameState) AddWeapon(state *WeaponState) {
	g.Weapons[state.ID] = state
}

// EquippedWeapon resolves a player's weak weapon reference.
// Returns nil if the player is unarmed or the weapon no longer exists.
func (g *GameState) EquippedWeapon(p *PlayerState) *WeaponState {
	if p == nil || p.WeaponID == 0 {
		return nil
	}
	return g.Weapons[p.WeaponID]
}

// UnclaimedWeapon returns the unclaimed weapon with the lowest ID, or nil if
// every weapon is claimed.
func (g *GameState) UnclaimedWeapon() *WeaponState {
	var found *WeaponState
	for _, weapon := range g.Weapons {
		if weapon.Claimed() {
			continue
		}
		if found == nil || weapon.ID < found.ID {
			found = weapon
		}
	}
	return found
}

// ReleaseWeapon releases the weapon claimed by the given client, if any.
func (g *GameState) ReleaseWeapon(clientID uint32) {
	for _, weapon := range g.Weapons {
		if weapon.OwnerID == clientID {
			weapon.OwnerID = 0
		}
	}
}

func (g *GameState) Copy() *GameState {
	newGameState := &GameState{
		Timestamp: g.Timestamp,
		Players:   make(map[uint32]*PlayerState),
		Weapons:   make(map[uint32]*WeaponState),
	}
	for id, player := range g.Players {
		newGameState.Players[id] = player.Copy()
	}
	for id, weapon := range g.Weapons {
		newGameState.Weapons[id] = weapon.Copy()
	}
	return newGameState
}
