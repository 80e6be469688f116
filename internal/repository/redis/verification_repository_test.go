package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qingping857/Blind-date-platform/internal/domain"
	"github.com/qingping857/Blind-date-platform/internal/repository"
	redisrepo "github.com/qingping857/Blind-date-platform/internal/repository/redis"
)

func newRepo(t *testing.T) (repository.VerificationCodeRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redisrepo.NewVerificationCodeRepository(client), mr
}

func TestVerificationCodes(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "alice@example.com", "123456", 10*time.Minute))

	code, err := repo.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	// A new code for the same address replaces the old one.
	require.NoError(t, repo.Save(ctx, "alice@example.com", "654321", 10*time.Minute))
	code, err = repo.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "654321", code)

	require.NoError(t, repo.Delete(ctx, "alice@example.com"))
	_, err = repo.Get(ctx, "alice@example.com")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestVerificationCodes_TTL(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "alice@example.com", "123456", 10*time.Minute))

	mr.FastForward(9 * time.Minute)
	_, err := repo.Get(ctx, "alice@example.com")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = repo.Get(ctx, "alice@example.com")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestVerificationCodes_Missing(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	// Deleting a missing code is not an error.
	assert.NoError(t, repo.Delete(ctx, "nobody@example.com"))
}
