package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jsjcard/eventhub/internal/server"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Msg("no .env file found, relying on environment")
	}

	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
