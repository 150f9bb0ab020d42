package constants

const (
	// Arena dimensions
	ArenaWidth  float64 = 1280
	ArenaHeight float64 = 720
	// CollisionCellSize is the resolv space cell size
	CollisionCellSize int = 16

	PlayerWidth     float64 = 32
	PlayerHeight    float64 = 32
	PlayerSpeed     float64 = 200
	PlayerStartingX float64 = 100
	PlayerStartingY float64 = 100
	PlayerMaxHp     float64 = 100

	WeaponClipSize     int16   = 30
	WeaponDamage       float64 = 10
	WeaponRange        float64 = 300
	WeaponLaneHeight   float64 = 16
	WeaponFireCooldown float64 = 0.2
	WeaponReloadTime   float64 = 1.5
	// WeaponSpawnCount is the number of weapons placed in the arena at startup
	WeaponSpawnCount int = 8
)
