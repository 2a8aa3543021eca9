package otp

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.Default()

	return NewStore(logger, client, ttl), mr
}

func TestIssueAndVerify(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	err = store.Verify(ctx, "buyer@example.com", code)
	assert.NoError(t, err)

	// A verified code is consumed and cannot be replayed
	err = store.Verify(ctx, "buyer@example.com", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestVerifyMismatch(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "buyer@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	err = store.Verify(ctx, "buyer@example.com", wrong)
	assert.ErrorIs(t, err, ErrCodeMismatch)

	// A mismatch does not consume the stored code
	err = store.Verify(ctx, "buyer@example.com", code)
	assert.NoError(t, err)
}

func TestVerifyExpired(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "buyer@example.com")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	err = store.Verify(ctx, "buyer@example.com", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestIssueReplacesPreviousCode(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	first, err := store.Issue(ctx, "buyer@example.com")
	require.NoError(t, err)

	second, err := store.Issue(ctx, "buyer@example.com")
	require.NoError(t, err)

	if first != second {
		err = store.Verify(ctx, "buyer@example.com", first)
		assert.ErrorIs(t, err, ErrCodeMismatch)
	}

	err = store.Verify(ctx, "buyer@example.com", second)
	assert.NoError(t, err)
}
