package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Apurer/go-gin-storefront/internal/app/stores"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/token"
	userapp "github.com/Apurer/go-gin-storefront/internal/domains/users/application"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/application/types"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
)

func main() {
	_ = godotenv.Load()
	name := flag.String("name", envOrDefault("ADMIN_NAME", "Administrator"), "admin display name")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: platformobservability.LevelFromEnv()}))
	repos, cleanup := stores.Open(ctx, stores.Settings{PostgresDSN: os.Getenv("POSTGRES_DSN")}, logger)
	defer cleanup()
	if repos.DB == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot seed admin")
	}

	// The codec is required by the service but unused when seeding.
	codec, err := token.NewJWTCodec(envOrDefault("JWT_SECRET", "seed-admin"))
	if err != nil {
		log.Fatalf("failed to configure token codec: %v", err)
	}
	service := userapp.NewService(repos.Users, repos.Sessions, codec)
	admin, err := service.EnsureAdmin(ctx, types.RegisterInput{Name: *name, Email: *email, Password: *password})
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	logger.Info("admin account ready", slog.String("user.id", admin.ID), slog.String("user.email", admin.Email))
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
