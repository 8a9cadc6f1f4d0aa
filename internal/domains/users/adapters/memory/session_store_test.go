package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

func TestSessionStore_PurgeExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	store := NewSessionStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Session{ID: "live", UserID: "u1", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, store.Save(ctx, domain.Session{ID: "stale", UserID: "u1", ExpiresAt: now}))

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	_, err = store.Get(ctx, "stale")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
	_, err = store.Get(ctx, "live")
	require.NoError(t, err)
}

func TestRepository_EmailIndex(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "a@example.com"}))
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u2", Email: "b@example.com"}))
	require.ErrorIs(t, repo.Create(ctx, &domain.User{ID: "u3", Email: "a@example.com"}), ports.ErrEmailTaken)

	require.ErrorIs(t, repo.Update(ctx, &domain.User{ID: "u2", Email: "a@example.com"}), ports.ErrEmailTaken)
	require.NoError(t, repo.Update(ctx, &domain.User{ID: "u2", Email: "c@example.com"}))

	_, err := repo.GetByEmail(ctx, "b@example.com")
	require.ErrorIs(t, err, ports.ErrNotFound)
	user, err := repo.GetByEmail(ctx, "c@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
}
