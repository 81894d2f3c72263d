package cache

import (
	"context"
	"testing"
	"time"

	"concierge/app/config"

	"github.com/samber/do"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	di := do.New()
	do.ProvideValue(di, config.Default())

	svc, err := New(di)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Shutdown() })

	return svc
}

func TestSetGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.Set(ctx, "key_1", map[string]int{"a": 1})

	var out map[string]int
	require.True(t, svc.Get(ctx, "key_1", &out))
	require.Equal(t, map[string]int{"a": 1}, out)
}

func TestGetMiss(t *testing.T) {
	svc := newTestService(t)

	var out map[string]int
	require.False(t, svc.Get(context.Background(), "missing", &out))
}

func TestExpiredEntryIsMiss(t *testing.T) {
	svc := newTestService(t)
	svc.ttl = -time.Second
	ctx := context.Background()

	svc.Set(ctx, "key_1", "value")

	var out string
	require.False(t, svc.Get(ctx, "key_1", &out))
}

func TestSearchKey(t *testing.T) {
	require.Equal(t, "search:food:pizza:5", SearchKey("food", "pizza", 5))
	require.Equal(t, "search:food::0", SearchKey("food", "", 0))
}
