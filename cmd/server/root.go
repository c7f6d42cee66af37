package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/jobmatch/internal/config"
	"github.com/honeycarbs/jobmatch/pkg/logging"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "jobmatch",
	Short: "Job application lifecycle and matching engine",
	Long: `jobmatch tracks job applications from submission to a final decision,
scores candidates against job skill requirements and notifies the people
involved. Its operations are exposed as MCP tools over streamable HTTP.

Running without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

// loadConfig reads the dotenv file and environment and builds the logger
func loadConfig() (config.Config, *logging.Logger, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logging.New(cfg.LogLevel), nil
}
