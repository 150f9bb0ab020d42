package state

import (
	"sync"

	"github.com/ricochet-mp/ricochet/pkg/game/types"
)

// InMemoryStateManager keeps the latest game state snapshot in memory.
// Writers hand in copies, readers receive copies.
type InMemoryStateManager struct {
	lock      sync.RWMutex
	gameState *types.GameState
}

var _ StateManager = &InMemoryStateManager{}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{
		gameState: &types.GameState{
			Players: make(map[uint32]*types.PlayerState),
			Weapons: make(map[uint32]*types.WeaponState),
		},
	}
}

func (m *InMemoryStateManager) Get() (*types.GameState, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.gameState.Copy(), nil
}

func (m *InMemoryStateManager) Set(gameState *types.GameState) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.gameState = gameState.Copy()
	return nil
}
