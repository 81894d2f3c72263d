package track

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"concierge/app/config"
	"concierge/app/service/provider"

	"github.com/samber/do"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	provider.BaseProvider

	statuses []string
	calls    atomic.Int64
}

func (p *fakeProvider) ProviderName() string { return "fake" }

func (p *fakeProvider) SupportedCategories() []provider.Category {
	return []provider.Category{provider.CategoryFood}
}

func (p *fakeProvider) SearchOptions(_ context.Context, _ provider.SearchCriteria) ([]provider.ServiceOption, error) {
	return nil, nil
}

func (p *fakeProvider) GetDetails(_ context.Context, _ string) (*provider.ServiceDetails, error) {
	return nil, provider.ErrNotFound
}

func (p *fakeProvider) PlaceOrder(_ context.Context, _ provider.OrderRequest) (*provider.Order, error) {
	return nil, provider.ErrNotFound
}

func (p *fakeProvider) GetOrderStatus(_ context.Context, orderID string) (*provider.OrderStatusUpdate, error) {
	call := p.calls.Add(1)

	idx := int(call) - 1
	if idx >= len(p.statuses) {
		idx = len(p.statuses) - 1
	}

	return &provider.OrderStatusUpdate{
		OrderID:   orderID,
		Status:    p.statuses[idx],
		Timestamp: time.Now(),
	}, nil
}

func (p *fakeProvider) CancelOrder(_ context.Context, _ string) (bool, error) {
	return false, provider.ErrNotFound
}

func newTestService(t *testing.T, p provider.ServiceProvider) *Service {
	t.Helper()

	di := do.New()
	do.ProvideValue(di, config.Default())

	registry, err := provider.NewRegistry(di)
	require.NoError(t, err)
	registry.Register(p)
	do.ProvideValue(di, registry)

	svc, err := New(di)
	require.NoError(t, err)

	return svc
}

func TestSubscribeTerminalClosesChannel(t *testing.T) {
	svc := newTestService(t, &fakeProvider{statuses: []string{"delivered"}})

	updates, err := svc.Subscribe(context.Background(), "fake", "order_1")
	require.NoError(t, err)

	update, ok := <-updates
	require.True(t, ok)
	require.Equal(t, "delivered", update.Status)

	_, ok = <-updates
	require.False(t, ok)
}

func TestSubscribeUnknownProvider(t *testing.T) {
	svc := newTestService(t, &fakeProvider{statuses: []string{"placed"}})

	_, err := svc.Subscribe(context.Background(), "missing", "order_1")
	require.ErrorIs(t, err, provider.ErrNotFound)
}

func TestSubscribeContextCancelStopsPolling(t *testing.T) {
	svc := newTestService(t, &fakeProvider{statuses: []string{"placed"}})

	ctx, cancel := context.WithCancel(context.Background())
	updates, err := svc.Subscribe(ctx, "fake", "order_1")
	require.NoError(t, err)

	update, ok := <-updates
	require.True(t, ok)
	require.Equal(t, "placed", update.Status)

	cancel()

	select {
	case _, ok := <-updates:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
}

func TestCancelOrderStopsSubscription(t *testing.T) {
	svc := newTestService(t, &fakeProvider{statuses: []string{"placed"}})

	updates, err := svc.Subscribe(context.Background(), "fake", "order_1")
	require.NoError(t, err)

	update, ok := <-updates
	require.True(t, ok)
	require.Equal(t, "placed", update.Status)

	svc.CancelOrder("order_1")

	select {
	case _, ok := <-updates:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after order cancel")
	}
}

func TestShutdownStopsAllSubscriptions(t *testing.T) {
	svc := newTestService(t, &fakeProvider{statuses: []string{"placed"}})

	updates, err := svc.Subscribe(context.Background(), "fake", "order_1")
	require.NoError(t, err)

	<-updates

	require.NoError(t, svc.Shutdown())

	select {
	case _, ok := <-updates:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after shutdown")
	}
}
