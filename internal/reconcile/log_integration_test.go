package reconcile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneforge/scene-backend/internal/storage"
)

func setupTestLog(t *testing.T) *Log {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	l := NewLog(pool)
	require.NoError(t, l.EnsureSchema(ctx))
	_, err = pool.Exec(ctx, "truncate table storage_reconcile_items")
	require.NoError(t, err)

	return l
}

type flakyProvider struct {
	failing map[string]bool
	deleted []string
}

func (p *flakyProvider) Upload(ctx context.Context, data []byte, contentType, originalName, folder string) (storage.UploadResult, error) {
	return storage.UploadResult{}, errors.New("not used")
}

func (p *flakyProvider) Delete(ctx context.Context, key string) error {
	if p.failing[key] {
		return fmt.Errorf("still unavailable")
	}
	p.deleted = append(p.deleted, key)
	return nil
}

func (p *flakyProvider) FileURL(key string) string { return "https://cdn.test/" + key }

func TestLog_RecordAndResolve(t *testing.T) {
	l := setupTestLog(t)
	ctx := context.Background()

	l.RecordFailedDelete(ctx, "thumbnails/a.png", errors.New("timeout"))
	l.RecordFailedDelete(ctx, "thumbnails/b.png", errors.New("timeout"))

	pending, err := l.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "thumbnails/a.png", pending[0].Key, "oldest first")
	assert.Equal(t, "timeout", pending[0].Reason)

	require.NoError(t, l.MarkResolved(ctx, pending[0].ID))

	pending, err = l.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "thumbnails/b.png", pending[0].Key)
}

func TestSweeper_ResolvesPendingItems(t *testing.T) {
	l := setupTestLog(t)
	ctx := context.Background()

	l.RecordFailedDelete(ctx, "thumbnails/gone.png", errors.New("timeout"))
	l.RecordFailedDelete(ctx, "thumbnails/stuck.png", errors.New("timeout"))

	assets := &flakyProvider{failing: map[string]bool{"thumbnails/stuck.png": true}}
	s := NewSweeper(l, assets, 10)
	s.sweep(ctx)

	pending, err := l.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1, "unresolvable item stays pending")
	assert.Equal(t, "thumbnails/stuck.png", pending[0].Key)
	assert.Equal(t, []string{"thumbnails/gone.png"}, assets.deleted)

	// Once the provider recovers, the next sweep drains the item.
	assets.failing = nil
	s.sweep(ctx)

	pending, err = l.Pending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
