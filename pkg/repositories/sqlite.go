package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	gametypes "github.com/ricochet-mp/ricochet/pkg/game/types"
	"github.com/ricochet-mp/ricochet/pkg/repositories/models"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = &SQLiteRepository{}

func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	dir, err := os.ReadDir(migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}

	for _, entry := range dir {
		if entry.IsDir() {
			continue
		}

		migrationPath := filepath.Join(migrations, entry.Name())
		migration, err := os.ReadFile(migrationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}

		if _, err := db.ExecContext(ctx, string(migration)); err != nil {
			return nil, fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, userID string) (*models.User, error) {
	q := `
	INSERT OR IGNORE INTO users (id) VALUES (?);
	`
	if _, err := r.db.ExecContext(ctx, q, userID); err != nil {
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	return &models.User{ID: userID}, nil
}

func (r *SQLiteRepository) ListCharacters(ctx context.Context, userID string) ([]*models.Character, error) {
	q := `
	SELECT id, guid, name FROM characters WHERE user_id = ? ORDER BY id;
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query characters: %v", err)
	}
	defer rows.Close()

	characters := make([]*models.Character, 0)
	for rows.Next() {
		character := &models.Character{UserID: userID}
		if err := rows.Scan(&character.ID, &character.GUID, &character.Name); err != nil {
			return nil, fmt.Errorf("failed to scan character: %v", err)
		}
		characters = append(characters, character)
	}

	return characters, rows.Err()
}

func (r *SQLiteRepository) CreateCharacter(ctx context.Context, userID string, name string) (*models.Character, error) {
	guid := uuid.New().String()
	q := `
	INSERT INTO characters (user_id, guid, name) VALUES (?, ?, ?);
	`
	result, err := r.db.ExecContext(ctx, q, userID, guid, name)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: characters.name") {
			return nil, &ErrNameExists{}
		}
		return nil, fmt.Errorf("failed to insert character: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get character id: %v", err)
	}

	return &models.Character{
		ID:     int32(id),
		UserID: userID,
		GUID:   guid,
		Name:   name,
	}, nil
}

func (r *SQLiteRepository) DeleteCharacter(ctx context.Context, userID string, characterID int32) error {
	q := `
	DELETE FROM characters WHERE id = ? AND user_id = ?;
	`
	result, err := r.db.ExecContext(ctx, q, characterID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete character: %v", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %v", err)
	}
	if affected == 0 {
		return &ErrNotFound{}
	}

	return nil
}

func (r *SQLiteRepository) GetCharacter(ctx context.Context, userID string, characterID int32) (*models.Character, error) {
	q := `
	SELECT guid, name FROM characters WHERE id = ? AND user_id = ?;
	`
	character := &models.Character{
		ID:     characterID,
		UserID: userID,
	}
	if err := r.db.QueryRowContext(ctx, q, characterID, userID).Scan(&character.GUID, &character.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan character: %v", err)
	}

	return character, nil
}

func (r *SQLiteRepository) CountCharacters(ctx context.Context, userID string) (int, error) {
	q := `
	SELECT COUNT(*) FROM characters WHERE user_id = ?;
	`
	var count int
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count characters: %v", err)
	}

	return count, nil
}

func (r *SQLiteRepository) NameExists(ctx context.Context, name string) (bool, error) {
	q := `
	SELECT COUNT(*) FROM characters WHERE name = ?;
	`
	var count int
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count characters: %v", err)
	}

	return count > 0, nil
}

func (r *SQLiteRepository) SaveGameState(ctx context.Context, gameState *gametypes.GameState) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, playerState := range gameState.Players {
		var ammo int16
		if weapon := gameState.EquippedWeapon(playerState); weapon != nil {
			ammo = weapon.Ammo
		}
		q := `
		INSERT OR REPLACE INTO players (character_id, timestamp, x, y, hitpoints, ammo)
		VALUES (?, ?, ?, ?, ?, ?);
		`
		_, err = tx.ExecContext(ctx, q, playerState.CharacterID, gameState.Timestamp, playerState.Position.X, playerState.Position.Y, playerState.CurrentHp, ammo)
		if err != nil {
			return fmt.Errorf("failed to insert player: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) SavePlayerState(ctx context.Context, record *models.PlayerRecord) error {
	q := `
	INSERT OR REPLACE INTO players (character_id, timestamp, x, y, hitpoints, ammo)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, record.CharacterID, record.Timestamp, record.X, record.Y, record.Hitpoints, record.Ammo)
	if err != nil {
		return fmt.Errorf("failed to insert player: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) LoadPlayerState(ctx context.Context, characterID int32) (*models.PlayerRecord, error) {
	q := `
	SELECT timestamp, x, y, hitpoints, ammo FROM players WHERE character_id = ?;
	`
	record := &models.PlayerRecord{
		CharacterID: characterID,
	}
	if err := r.db.QueryRowContext(ctx, q, characterID).Scan(&record.Timestamp, &record.X, &record.Y, &record.Hitpoints, &record.Ammo); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan player: %v", err)
	}

	return record, nil
}
