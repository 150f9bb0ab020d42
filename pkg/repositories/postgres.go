package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	gametypes "github.com/ricochet-mp/ricochet/pkg/game/types"
	"github.com/ricochet-mp/ricochet/pkg/repositories/models"
)

type PostgresRepository struct {
	conn *pgx.Conn
}

var _ Repository = &PostgresRepository{}

// NewPostgresRepository connects to the database and applies the migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
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

		if _, err := conn.Exec(ctx, string(migration)); err != nil {
			return nil, fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) CreateUser(ctx context.Context, userID string) (*models.User, error) {
	q := `
	INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING;
	`
	if _, err := r.conn.Exec(ctx, q, userID); err != nil {
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	return &models.User{ID: userID}, nil
}

func (r *PostgresRepository) ListCharacters(ctx context.Context, userID string) ([]*models.Character, error) {
	q := `
	SELECT id, guid, name FROM characters WHERE user_id = $1 ORDER BY id;
	`
	rows, err := r.conn.Query(ctx, q, userID)
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

func (r *PostgresRepository) CreateCharacter(ctx context.Context, userID string, name string) (*models.Character, error) {
	guid := uuid.New().String()
	q := `
	INSERT INTO characters (user_id, guid, name) VALUES ($1, $2, $3) RETURNING id;
	`
	var id int32
	if err := r.conn.QueryRow(ctx, q, userID, guid, name).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, &ErrNameExists{}
		}
		return nil, fmt.Errorf("failed to insert character: %v", err)
	}

	return &models.Character{
		ID:     id,
		UserID: userID,
		GUID:   guid,
		Name:   name,
	}, nil
}

func (r *PostgresRepository) DeleteCharacter(ctx context.Context, userID string, characterID int32) error {
	q := `
	DELETE FROM characters WHERE id = $1 AND user_id = $2;
	`
	result, err := r.conn.Exec(ctx, q, characterID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete character: %v", err)
	}

	if result.RowsAffected() == 0 {
		return &ErrNotFound{}
	}

	return nil
}

func (r *PostgresRepository) GetCharacter(ctx context.Context, userID string, characterID int32) (*models.Character, error) {
	q := `
	SELECT guid, name FROM characters WHERE id = $1 AND user_id = $2;
	`
	character := &models.Character{
		ID:     characterID,
		UserID: userID,
	}
	if err := r.conn.QueryRow(ctx, q, characterID, userID).Scan(&character.GUID, &character.Name); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan character: %v", err)
	}

	return character, nil
}

func (r *PostgresRepository) CountCharacters(ctx context.Context, userID string) (int, error) {
	q := `
	SELECT COUNT(*) FROM characters WHERE user_id = $1;
	`
	var count int
	if err := r.conn.QueryRow(ctx, q, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count characters: %v", err)
	}

	return count, nil
}

func (r *PostgresRepository) NameExists(ctx context.Context, name string) (bool, error) {
	q := `
	SELECT COUNT(*) FROM characters WHERE name = $1;
	`
	var count int
	if err := r.conn.QueryRow(ctx, q, name).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count characters: %v", err)
	}

	return count > 0, nil
}

func (r *PostgresRepository) SaveGameState(ctx context.Context, gameState *gametypes.GameState) error {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	for _, playerState := range gameState.Players {
		var ammo int16
		if weapon := gameState.EquippedWeapon(playerState); weapon != nil {
			ammo = weapon.Ammo
		}
		q := `
		INSERT INTO players (character_id, timestamp, x, y, hitpoints, ammo)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (character_id) DO UPDATE SET timestamp = $2, x = $3, y = $4, hitpoints = $5, ammo = $6;
		`
		_, err = tx.Exec(ctx, q, playerState.CharacterID, gameState.Timestamp, playerState.Position.X, playerState.Position.Y, playerState.CurrentHp, ammo)
		if err != nil {
			return fmt.Errorf("failed to insert player: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *PostgresRepository) SavePlayerState(ctx context.Context, record *models.PlayerRecord) error {
	q := `
	INSERT INTO players (character_id, timestamp, x, y, hitpoints, ammo)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (character_id) DO UPDATE SET timestamp = $2, x = $3, y = $4, hitpoints = $5, ammo = $6;
	`
	_, err := r.conn.Exec(ctx, q, record.CharacterID, record.Timestamp, record.X, record.Y, record.Hitpoints, record.Ammo)
	if err != nil {
		return fmt.Errorf("failed to insert player: %v", err)
	}

	return nil
}

func (r *PostgresRepository) LoadPlayerState(ctx context.Context, characterID int32) (*models.PlayerRecord, error) {
	q := `
	SELECT timestamp, x, y, hitpoints, ammo FROM players WHERE character_id = $1;
	`
	record := &models.PlayerRecord{
		CharacterID: characterID,
	}
	if err := r.conn.QueryRow(ctx, q, characterID).Scan(&record.Timestamp, &record.X, &record.Y, &record.Hitpoints, &record.Ammo); err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan player: %v", err)
	}

	return record, nil
}
