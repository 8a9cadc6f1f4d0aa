// Package stores picks the persistence adapters for every bounded context. Postgres
// backs all repositories when reachable; otherwise one in-memory catalog store
// doubles as the order inventory so both contexts share a single stock counter.
package stores

import (
	"context"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	catalogmemory "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	ordersmemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/persistence/postgres"
	ordersredis "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/redis"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	usermemory "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/memory"
	userpostgres "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/persistence/postgres"
	userports "github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-storefront/internal/platform/postgres"
	platformredis "github.com/Apurer/go-gin-storefront/internal/platform/redis"
)

// Settings names the backing services. Empty values select in-memory adapters.
type Settings struct {
	PostgresDSN string
	RedisAddr   string
}

// Stores bundles the repositories used by the storefront services.
type Stores struct {
	DB    *gorm.DB
	Redis *goredis.Client

	Products    catalogports.ProductRepository
	Categories  catalogports.CategoryRepository
	Orders      ordersports.Repository
	// Idempotency caches claimed checkout keys in redis. It is nil without redis.
	Idempotency ordersports.IdempotencyStore
	Users       userports.Repository
	Sessions    userports.SessionStore
}

// Open connects to the configured backends and returns the stores with a cleanup
// that releases every connection.
func Open(ctx context.Context, settings Settings, logger *slog.Logger) (*Stores, func()) {
	db, closeDB := platformpostgres.ConnectOrFallback(ctx, settings.PostgresDSN, logger)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Warn("schema migration failed, falling back to in-memory repositories", slog.String("error", err.Error()))
			closeDB()
			db, closeDB = nil, func() {}
		}
	}
	rdb, closeRedis := platformredis.ConnectOrFallback(ctx, settings.RedisAddr, logger)

	var s *Stores
	if db != nil {
		s = &Stores{
			Products:   catalogpostgres.NewProductRepository(db),
			Categories: catalogpostgres.NewCategoryRepository(db),
			Orders:     orderspostgres.NewRepository(db),
			Users:      userpostgres.NewRepository(db),
			Sessions:   userpostgres.NewSessionStore(db),
		}
		logger.Info("repositories configured with postgres")
	} else {
		s = InMemory()
	}
	s.DB = db
	if rdb != nil {
		s.Redis = rdb
		s.Idempotency = ordersredis.NewIdempotencyStore(rdb, ordersredis.DefaultKeyTTL)
		logger.Info("checkout idempotency keys cached in redis")
	}
	return s, func() {
		closeRedis()
		closeDB()
	}
}

// InMemory builds process-local stores.
func InMemory() *Stores {
	catalog := catalogmemory.NewStore()
	return &Stores{
		Products:   catalog.Products(),
		Categories: catalog.Categories(),
		Orders:     ordersmemory.NewRepository(catalog),
		Users:      usermemory.NewRepository(),
		Sessions:   usermemory.NewSessionStore(),
	}
}
