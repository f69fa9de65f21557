package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"plume/internal/config"
	"plume/internal/db"
	"plume/internal/logging"
	"plume/internal/middleware"
	"plume/internal/router"
	"plume/internal/security"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, reading env vars from system")
	}

	cfg := config.Load()
	logging.Setup(cfg.EnvState)

	gdb, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	tokens := security.NewTokenService(cfg)

	r := gin.Default()
	r.Use(middleware.RequestID())

	router.RegisterRoutes(r, gdb, tokens)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("plume server starting")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
