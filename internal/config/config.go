package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendNeo4j    = "neo4j"
)

// Config contains runtime settings for the MCP server
type Config struct {
	LogLevel string
	Host     string // default 0.0.0.0
	Port     string // default PORT env or 8080
	Store    struct {
		Backend string // memory, sqlite, postgres or neo4j; default sqlite
	}
	SQLite struct {
		Path string // default jobmatch.db
	}
	Postgres struct {
		DSN          string
		MaxOpenConns int
	}
	Neo4j struct {
		URI      string
		Username string
		Password string
		Database string
	}
	Adzuna struct {
		AppID   string
		AppKey  string
		Country string
	} // Adzuna API credentials, optional
	Sheets struct {
		CredentialsPath string
		SpreadsheetID   string // default target of pipeline exports
	}
	Engine struct {
		TxMaxAttempts int // default 3
	}
	Import struct {
		OwnerID uuid.UUID // account imported jobs are attributed to
	}
}

// LoadDotEnv reads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load populates config from environment variables
func Load() (Config, error) {
	cfg := Config{
		LogLevel: "info",
		Host:     "0.0.0.0",
		Port:     "8080",
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("MCP_HOST"); v != "" {
		cfg.Host = v
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	cfg.Store.Backend = BackendSQLite
	if v := os.Getenv("STORE_BACKEND"); v != "" {
		cfg.Store.Backend = strings.ToLower(strings.TrimSpace(v))
	}

	cfg.SQLite.Path = "jobmatch.db"
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.SQLite.Path = v
	}

	cfg.Postgres.DSN = os.Getenv("POSTGRES_DSN")

	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.Neo4j.Database = os.Getenv("NEO4J_DATABASE")

	cfg.Adzuna.AppID = os.Getenv("ADZUNA_APP_ID")
	cfg.Adzuna.AppKey = os.Getenv("ADZUNA_APP_KEY")
	if v := os.Getenv("ADZUNA_COUNTRY"); v != "" {
		cfg.Adzuna.Country = v
	} else {
		cfg.Adzuna.Country = "us"
	}

	cfg.Sheets.CredentialsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")
	cfg.Sheets.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")

	var invalid []string

	cfg.Engine.TxMaxAttempts = 3
	if v := os.Getenv("ENGINE_TX_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			invalid = append(invalid, "ENGINE_TX_MAX_ATTEMPTS")
		} else {
			cfg.Engine.TxMaxAttempts = n
		}
	}

	if v := os.Getenv("POSTGRES_MAX_OPEN_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			invalid = append(invalid, "POSTGRES_MAX_OPEN_CONNS")
		} else {
			cfg.Postgres.MaxOpenConns = n
		}
	}

	if v := os.Getenv("IMPORT_OWNER_ID"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			invalid = append(invalid, "IMPORT_OWNER_ID")
		} else {
			cfg.Import.OwnerID = id
		}
	}

	if len(invalid) > 0 {
		return cfg, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	var missingVars []string

	switch cfg.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if cfg.SQLite.Path == "" {
			missingVars = append(missingVars, "SQLITE_PATH")
		}
	case BackendPostgres:
		if cfg.Postgres.DSN == "" {
			missingVars = append(missingVars, "POSTGRES_DSN")
		}
	case BackendNeo4j:
		if cfg.Neo4j.URI == "" {
			missingVars = append(missingVars, "NEO4J_URI")
		}
		if cfg.Neo4j.Username == "" {
			missingVars = append(missingVars, "NEO4J_USERNAME")
		}
		if cfg.Neo4j.Password == "" {
			missingVars = append(missingVars, "NEO4J_PASSWORD")
		}
	default:
		return cfg, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}

	if len(missingVars) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	return cfg, nil
}

// AdzunaEnabled reports whether job import from Adzuna can be configured
func (c Config) AdzunaEnabled() bool {
	return c.Adzuna.AppID != "" && c.Adzuna.AppKey != ""
}

// SheetsEnabled reports whether pipeline export to Google Sheets can be configured
func (c Config) SheetsEnabled() bool {
	return c.Sheets.CredentialsPath != ""
}
