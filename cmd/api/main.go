package main

import (
	"flag"
	"os"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/bootstrap"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/logger"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/server"
)

// @title INARA Hub API
// @version 1.0
// @description Staff portal API for INARA: trainings, policies, library, market, surveys, news, academy and work systems.

// @contact.name INARA IT
// @contact.email it@inara.org

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token as "Bearer <token>"

func main() {
	configPath := flag.String("config", bootstrap.DefaultConfigPath, "path to the YAML config file")
	flag.Parse()

	srv, err := server.NewServer(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
