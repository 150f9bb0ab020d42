package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ricochet-mp/ricochet/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) Repository {
	t.Helper()

	migrations := t.TempDir()
	schema, err := os.ReadFile(filepath.Join("..", "..", "migrations", "sqlite", "000001_init.sql"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(migrations, "000001_init.sql"), schema, 0644))

	repo, err := NewSQLiteRepository(context.Background(), ":memory:", migrations)
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close(context.Background())
	})
	return repo
}

func TestSQLiteRepository_Characters(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.CreateUser(ctx, "user-1")
	require.NoError(t, err)
	// creating an existing user is a no-op
	_, err = repo.CreateUser(ctx, "user-1")
	require.NoError(t, err)

	character, err := repo.CreateCharacter(ctx, "user-1", "Gunner")
	require.NoError(t, err)
	assert.NotZero(t, character.ID)
	assert.NotEmpty(t, character.GUID)

	_, err = repo.CreateCharacter(ctx, "user-1", "Gunner")
	assert.True(t, IsNameExists(err))

	exists, err := repo.NameExists(ctx, "Gunner")
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := repo.CountCharacters(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	characters, err := repo.ListCharacters(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, characters, 1)
	assert.Equal(t, "Gunner", characters[0].Name)

	got, err := repo.GetCharacter(ctx, "user-1", character.ID)
	require.NoError(t, err)
	assert.Equal(t, character.GUID, got.GUID)

	// a character belongs to its owner
	_, err = repo.GetCharacter(ctx, "user-2", character.ID)
	assert.True(t, IsNotFound(err))
	err = repo.DeleteCharacter(ctx, "user-2", character.ID)
	assert.True(t, IsNotFound(err))

	require.NoError(t, repo.DeleteCharacter(ctx, "user-1", character.ID))
	_, err = repo.GetCharacter(ctx, "user-1", character.ID)
	assert.True(t, IsNotFound(err))
}

func TestSQLiteRepository_PlayerState(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.CreateUser(ctx, "user-1")
	require.NoError(t, err)
	character, err := repo.CreateCharacter(ctx, "user-1", "Gunner")
	require.NoError(t, err)

	_, err = repo.LoadPlayerState(ctx, character.ID)
	assert.True(t, IsNotFound(err))

	record := &models.PlayerRecord{
		CharacterID: character.ID,
		Timestamp:   1000,
		X:           120,
		Y:           340,
		Hitpoints:   62.5,
		Ammo:        17,
	}
	require.NoError(t, repo.SavePlayerState(ctx, record))

	loaded, err := repo.LoadPlayerState(ctx, character.ID)
	require.NoError(t, err)
	assert.Equal(t, record, loaded)

	// saving again replaces the record
	record.Hitpoints = 10
	record.Timestamp = 2000
	require.NoError(t, repo.SavePlayerState(ctx, record))
	loaded, err = repo.LoadPlayerState(ctx, character.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(10), loaded.Hitpoints)
}
