package state

import "github.com/ricochet-mp/ricochet/pkg/game/types"

// StateManager is an interface for managing the game state
type StateManager interface {
	Get() (*types.GameState, error)
	Set(gameState *types.GameState) error
}
