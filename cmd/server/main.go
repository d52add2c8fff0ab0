package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/keepsake-app/keepsake/internal/db"
	"github.com/keepsake-app/keepsake/internal/http/middleware"
	"github.com/keepsake-app/keepsake/internal/redis"
)

func main() {
	// a .env file is optional; real deployments set the environment directly
	_ = godotenv.Load()

	env := LoadEnvironment()

	if env.Environment != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	conn, err := db.Connect(env.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	if err := db.RunMigrations(conn, env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	store := db.NewStore(conn)
	storageSystem := InitStorage(env)

	// without Redis, logout only clears the client cookie
	var revoked middleware.RevocationList
	if env.RedisAddress != "" {
		revoked = redis.NewSessions(env.RedisAddress, env.RedisUsername, env.RedisPassword)
		log.Info().Str("address", env.RedisAddress).Msg("session revocation via redis")
	}
	sessions := middleware.NewSessionManager(env.SecretKey, store, revoked)

	r := gin.Default()
	RegisterRoutes(r, env, store, storageSystem, sessions, LoadTemplates(env.TemplatesGlob))

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
