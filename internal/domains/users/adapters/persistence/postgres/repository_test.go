package postgres

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&userRecord{}, &sessionRecord{}))
	return db
}

func TestRepository_CreateGetUpdate(t *testing.T) {
	repo := NewRepository(openSQLite(t))
	ctx := context.Background()
	now := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)

	user, err := domain.NewUser("u1", "Alice", "alice@example.com", "secret-pw", now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))

	dup, err := domain.NewUser("u2", "Alice Clone", "alice@example.com", "secret-pw", now)
	require.NoError(t, err)
	require.ErrorIs(t, repo.Create(ctx, dup), ports.ErrEmailTaken)

	fetched, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", fetched.ID)
	assert.Equal(t, domain.RoleUser, fetched.Role)
	assert.True(t, fetched.CheckPassword("secret-pw"))

	require.NoError(t, fetched.UpdateProfile("Alice Smith", "555-0101"))
	require.NoError(t, fetched.AssignRole(domain.RoleAdmin))
	require.NoError(t, repo.Update(ctx, fetched))

	again, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", again.Name)
	assert.Equal(t, "555-0101", again.Phone)
	assert.True(t, again.IsAdmin())

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, &domain.User{ID: "missing", Email: "x@example.com"}), ports.ErrNotFound)
}

func TestSessionStore_SaveGetPurge(t *testing.T) {
	store := NewSessionStore(openSQLite(t))
	ctx := context.Background()
	now := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, domain.Session{ID: "live", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, domain.Session{ID: "stale", UserID: "u1", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}))

	session, err := store.Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	_, err = store.Get(ctx, "stale")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)

	require.NoError(t, store.Delete(ctx, "live"))
	_, err = store.Get(ctx, "live")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}
