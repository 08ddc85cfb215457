package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/salonspa/backend/internal/auth"
	"github.com/salonspa/backend/internal/config"
	"github.com/salonspa/backend/internal/controllers"
	"github.com/salonspa/backend/internal/models"
	"github.com/salonspa/backend/internal/router"
	"github.com/salonspa/backend/internal/suggestion"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// gin uses debug as the default mode, we use release for
	// security reasons
	gin.SetMode(cfg.GinMode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Msg(err.Error())
	}

	db, err := connect(cfg)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	ctx := context.Background()
	if cfg.AdminEmail != "" {
		created, err := auth.EnsureAdmin(ctx, db, "Administración", cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
		if created {
			log.Info().Str("email", cfg.AdminEmail).Msg("created admin user")
		}
	}

	co := controllers.New(db, auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL), cfg.Location(), cfg.TreasuryIncludeOutflows)

	if cfg.RedisURL != "" {
		client, err := suggestion.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
		defer client.Close()

		co.Suggestions = suggestion.NewRedisStore(client, "salonspa:suggestions")
		log.Info().Msg("suggestions are stored in Redis")
	}

	r, teardown, err := router.Config(cfg)
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(co, r.Group("/"), cfg)

	log.Info().Str("port", cfg.Port).Msg("backend startup complete")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Msg(err.Error())
	}
}

// connect opens PostgreSQL if a host is configured and SQLite in the data
// directory otherwise.
func connect(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBHost != "" {
		log.Info().Str("host", cfg.DBHost).Str("database", cfg.DBName).Msg("using PostgreSQL")
		return models.ConnectPostgres(cfg.PostgresDSN())
	}

	if err := os.MkdirAll(cfg.DataDir, os.ModePerm); err != nil {
		return nil, err
	}

	path := filepath.Join(cfg.DataDir, "salonspa.db")
	log.Info().Str("path", path).Msg("using SQLite")
	return models.Connect(path)
}
