package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"LOG_LEVEL", "MCP_HOST", "PORT", "STORE_BACKEND", "SQLITE_PATH",
	"POSTGRES_DSN", "POSTGRES_MAX_OPEN_CONNS",
	"NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD", "NEO4J_DATABASE",
	"ADZUNA_APP_ID", "ADZUNA_APP_KEY", "ADZUNA_COUNTRY",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEETS_SPREADSHEET_ID",
	"ENGINE_TX_MAX_ATTEMPTS", "IMPORT_OWNER_ID",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "jobmatch.db", cfg.SQLite.Path)
	assert.Equal(t, "us", cfg.Adzuna.Country)
	assert.Equal(t, 3, cfg.Engine.TxMaxAttempts)
	assert.Equal(t, uuid.Nil, cfg.Import.OwnerID)
	assert.False(t, cfg.AdzunaEnabled())
	assert.False(t, cfg.SheetsEnabled())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	owner := uuid.New()
	t.Setenv("STORE_BACKEND", " Postgres ")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/jobmatch")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "8")
	t.Setenv("ENGINE_TX_MAX_ATTEMPTS", "5")
	t.Setenv("IMPORT_OWNER_ID", owner.String())
	t.Setenv("ADZUNA_APP_ID", "id")
	t.Setenv("ADZUNA_APP_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, 8, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, 5, cfg.Engine.TxMaxAttempts)
	assert.Equal(t, owner, cfg.Import.OwnerID)
	assert.True(t, cfg.AdzunaEnabled())
}

func TestLoadMissingBackendVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "neo4j")
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEO4J_USERNAME")
	assert.Contains(t, err.Error(), "NEO4J_PASSWORD")
	assert.NotContains(t, err.Error(), "NEO4J_URI")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENGINE_TX_MAX_ATTEMPTS", "0")
	t.Setenv("IMPORT_OWNER_ID", "not-a-uuid")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENGINE_TX_MAX_ATTEMPTS")
	assert.Contains(t, err.Error(), "IMPORT_OWNER_ID")

	clearEnv(t)
	t.Setenv("STORE_BACKEND", "redis")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_BACKEND=memory\nPORT=9999\n"), 0o600))

	// already set variables win over the file
	t.Setenv("PORT", "7000")
	// clearEnv left STORE_BACKEND set to an empty value, which godotenv keeps
	require.NoError(t, os.Unsetenv("STORE_BACKEND"))
	require.NoError(t, LoadDotEnv(path))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "7000", cfg.Port)

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
