package main

import (
	"os"

	"github.com/yigit/schoolportal/internal/pkg/logger"
	"github.com/yigit/schoolportal/internal/server"
)

func main() {
	// PORTAL_CONFIG overrides configs/config.yaml.
	srv, err := server.NewServer(os.Getenv("PORTAL_CONFIG"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal arrives.
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
