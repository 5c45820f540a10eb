package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/player-soap-service/internal/adapters/persistence"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/config"
	"github.com/andrescamacho/player-soap-service/internal/infrastructure/database"
	"github.com/andrescamacho/player-soap-service/test/helpers"
)

// writeSQLiteConfig writes a config file pointing at a fresh sqlite file and returns its path
func writeSQLiteConfig(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "players.db")
	cfgPath := filepath.Join(dir, "config.yaml")

	yaml := "database:\n  type: sqlite\n  path: " + dbPath + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o600))
	return cfgPath, dbPath
}

func seedPlayers(t *testing.T, dbPath string, names ...string) {
	t.Helper()

	db, err := database.NewConnection(&config.DatabaseConfig{Type: "sqlite", Path: dbPath})
	require.NoError(t, err)
	defer database.Close(db)
	require.NoError(t, database.AutoMigrate(db))

	repo := persistence.NewGormPlayerRepository(db)
	for _, name := range names {
		_, err := repo.Create(context.Background(), helpers.CreateTestPlayer(name, "Inter Miami"))
		require.NoError(t, err)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlayerListPrintsTable(t *testing.T) {
	cfgPath, dbPath := writeSQLiteConfig(t)
	seedPlayers(t, dbPath, "Lionel Messi", "Luis Suarez")

	out, err := runCLI(t, "--config", cfgPath, "player", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Lionel Messi")
	assert.Contains(t, out, "Luis Suarez")
}

func TestPlayerListEmpty(t *testing.T) {
	cfgPath, _ := writeSQLiteConfig(t)

	out, err := runCLI(t, "--config", cfgPath, "player", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No players found.")
}

func TestPlayerGetAndDelete(t *testing.T) {
	cfgPath, dbPath := writeSQLiteConfig(t)
	seedPlayers(t, dbPath, "Lionel Messi")

	out, err := runCLI(t, "--config", cfgPath, "player", "get", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Player 1")
	assert.Contains(t, out, "Lionel Messi")

	out, err = runCLI(t, "--config", cfgPath, "player", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Player 1 deleted")

	_, err = runCLI(t, "--config", cfgPath, "player", "get", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Player not found")
}

func TestPlayerGetRejectsBadID(t *testing.T) {
	cfgPath, _ := writeSQLiteConfig(t)

	_, err := runCLI(t, "--config", cfgPath, "player", "get", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid player id")
}

func TestPlayerWipe(t *testing.T) {
	cfgPath, dbPath := writeSQLiteConfig(t)
	seedPlayers(t, dbPath, "Lionel Messi", "Luis Suarez", "Sergio Busquets")

	_, err := runCLI(t, "--config", cfgPath, "player", "wipe")
	require.Error(t, err, "wipe requires --yes")

	out, err := runCLI(t, "--config", cfgPath, "player", "wipe", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 3 players")
}

func TestUserAdd(t *testing.T) {
	cfgPath, dbPath := writeSQLiteConfig(t)

	out, err := runCLI(t, "--config", cfgPath, "user", "add", "--username", "ops", "--password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "User ops saved")

	db, err := database.NewConnection(&config.DatabaseConfig{Type: "sqlite", Path: dbPath})
	require.NoError(t, err)
	defer database.Close(db)

	user, err := persistence.NewGormUserRepository(db).FindByUsername(context.Background(), "ops")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
}

func TestUserAddRequiresFlags(t *testing.T) {
	cfgPath, _ := writeSQLiteConfig(t)

	_, err := runCLI(t, "--config", cfgPath, "user", "add", "--username", "ops")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--password")
}

func TestConfigShow(t *testing.T) {
	cfgPath, dbPath := writeSQLiteConfig(t)

	out, err := runCLI(t, "--config", cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Type:             sqlite")
	assert.Contains(t, out, dbPath)
	assert.Contains(t, out, "/soap/player")
}

func TestMaskPassword(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"with password", "postgresql://players:secret@db:5432/players", "postgresql://players:xxxxx@db:5432/players"},
		{"user only", "postgresql://players@db:5432/players", "postgresql://players@db:5432/players"},
		{"no credentials", "postgresql://db:5432/players", "postgresql://db:5432/players"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskPassword(tt.in))
		})
	}
}
