package workers

import (
	"context"
	"time"

	gametypes "github.com/ricochet-mp/ricochet/pkg/game/types"
	"github.com/ricochet-mp/ricochet/pkg/log"
	"github.com/ricochet-mp/ricochet/pkg/repositories"
	"github.com/ricochet-mp/ricochet/pkg/repositories/models"
	"github.com/ricochet-mp/ricochet/pkg/state"
)

type SaveGameStateWorker struct {
	repository          repositories.Repository
	savePlayerStateChan <-chan SavePlayerStateRequest
	stateManager        state.StateManager
	interval            time.Duration
}

type NewSaveGameStateWorkerOptions struct {
	Repository          repositories.Repository
	SavePlayerStateChan <-chan SavePlayerStateRequest
	StateManager        state.StateManager
	Interval            time.Duration
}

type SavePlayerStateRequest struct {
	Record *models.PlayerRecord
}

// NewSaveGameStateWorker creates a new SaveGameStateWorker.
// The worker processes save requests from the game loop and
// periodically saves the game state to the repository.
func NewSaveGameStateWorker(opts NewSaveGameStateWorkerOptions) *SaveGameStateWorker {
	return &SaveGameStateWorker{
		repository:          opts.Repository,
		savePlayerStateChan: opts.SavePlayerStateChan,
		stateManager:        opts.StateManager,
		interval:            opts.Interval,
	}
}

func (w *SaveGameStateWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case saveRequest := <-w.savePlayerStateChan:
			w.savePlayerState(ctx, saveRequest)
		case t := <-ticker.C:
			gameState, err := w.stateManager.Get()
			if err != nil {
				log.Error("Failed to get current game state: %v", err)
				continue
			}
			gameState.Timestamp = t.UnixMilli()
			w.saveGameState(ctx, gameState)
		}
	}
}

func (w *SaveGameStateWorker) savePlayerState(ctx context.Context, saveRequest SavePlayerStateRequest) {
	if err := w.repository.SavePlayerState(ctx, saveRequest.Record); err != nil {
		log.Error("Failed to save player state: %v", err)
	}
}

func (w *SaveGameStateWorker) saveGameState(ctx context.Context, gameState *gametypes.GameState) {
	if err := w.repository.SaveGameState(ctx, gameState); err != nil {
		log.Error("Failed to save game state: %v", err)
	}
}
