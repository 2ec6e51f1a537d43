package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/numerouno-life/ecommerce-auth"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(log zerolog.Logger) error {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := auth.ConfigFromEnv()
	logger := auth.NewZerologLogger(log)

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx := context.Background()
	if _, err := db.NewCreateTable().Model((*auth.User)(nil)).IfNotExists().Exec(ctx); err != nil {
		return err
	}

	// key init failure is fatal at startup, never per request
	tokens, err := auth.NewTokenProvider(cfg.GetSigningKey(), cfg.GetTokenExpiration(), cfg.GetSecretPolicy(), logger)
	if err != nil {
		return err
	}

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	service := auth.NewUserService(repo.Users(), tokens).WithLogger(logger)
	resolver := auth.NewUserProvider(repo.Users()).WithLogger(logger)
	gate := auth.NewAuthGate(tokens, resolver, cfg)

	app := fiber.New(fiber.Config{
		AppName: "user-service",
	})

	controller := auth.NewAuthController(service, gate, cfg.GetContextKey(),
		auth.WithControllerLogger(logger),
	)
	auth.RegisterAuthRoutes(app, controller)

	log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
	return app.Listen(cfg.ListenAddr)
}
