package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ctrl-alt-vibe/vibe-backend/config"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "ctrlaltvibe",
	Short: "Ctrl Alt Vibe community platform API",
	Long: `Ctrl Alt Vibe backend.

Configuration comes from environment variables (a .env file is read when present).

Examples:
  ctrlaltvibe serve
  ctrlaltvibe migrate up
  ctrlaltvibe migrate down 2`,
	SilenceUsage: true,
}

// loadConfig reads the configuration and initialises logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})
	return cfg, nil
}

func main() {
	logging.Init(logging.Config{Level: "info", Format: "console"})
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
