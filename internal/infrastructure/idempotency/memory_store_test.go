package idempotency_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/infrastructure/idempotency"
)

func TestMemoryStore_ClaimUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := idempotency.NewMemoryStore(func() time.Time { return now })

	ok, err := store.Claim(ctx, "abc", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Claim(ctx, "abc", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "segundo uso de la misma clave")

	ok, err = store.Claim(ctx, "otra", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore_VenceYSeLibera(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := idempotency.NewMemoryStore(func() time.Time { return now })

	_, err := store.Claim(ctx, "abc", time.Minute)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	ok, err := store.Claim(ctx, "abc", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "la clave vencida se puede reutilizar")

	require.NoError(t, store.Release(ctx, "abc"))
	ok, err = store.Claim(ctx, "abc", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
