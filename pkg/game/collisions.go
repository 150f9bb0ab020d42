package game

import (
	"math"

	"github.com/ricochet-mp/ricochet/pkg/game/constants"
	"github.com/ricochet-mp/ricochet/pkg/game/types"
	"github.com/solarlune/resolv"
)

// NewCollisionSpace returns a space with the arena borders in place.
func NewCollisionSpace() *resolv.Space {
	space := resolv.NewSpace(int(constants.ArenaWidth), int(constants.ArenaHeight), constants.CollisionCellSize, constants.CollisionCellSize)
	space.Add(
		resolv.NewObject(0, 0, constants.ArenaWidth, 1, types.CollisionSpaceTagLevel),
		resolv.NewObject(0, constants.ArenaHeight-1, constants.ArenaWidth, 1, types.CollisionSpaceTagLevel),
		resolv.NewObject(0, 0, 1, constants.ArenaHeight, types.CollisionSpaceTagLevel),
		resolv.NewObject(constants.ArenaWidth-1, 0, 1, constants.ArenaHeight, types.CollisionSpaceTagLevel),
	)
	return space
}

// FindHitTarget scans the shooter's firing lane for the nearest other player.
// The lane extends horizontally in the facing direction up to weaponRange and
// is WeaponLaneHeight tall, centred on the shooter. Returns zero and nil when
// nothing is hit.
func FindHitTarget(gameState *types.GameState, shooterID uint32, weaponRange float64) (uint32, *types.PlayerState) {
	shooter, ok := gameState.Players[shooterID]
	if !ok {
		return 0, nil
	}

	direction := 1.0
	if shooter.FlipH {
		direction = -1.0
	}

	var targetID uint32
	var target *types.PlayerState
	closest := math.MaxFloat64
	for id, player := range gameState.Players {
		if id == shooterID {
			continue
		}
		dy := player.Position.Y - shooter.Position.Y
		if math.Abs(dy) > constants.WeaponLaneHeight {
			continue
		}
		dx := (player.Position.X - shooter.Position.X) * direction
		if dx <= 0 || dx > weaponRange {
			continue
		}
		if dx < closest {
			closest = dx
			targetID = id
			target = player
		}
	}
	return targetID, target
}
