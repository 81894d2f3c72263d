package mockfood

import (
	"context"
	"testing"
	"time"

	"concierge/app/service/provider"

	"github.com/stretchr/testify/require"
)

func TestSearchOptionsSortedByRating(t *testing.T) {
	p := New()

	results, err := p.SearchOptions(context.Background(), provider.SearchCriteria{
		Category: provider.CategoryFood,
	})
	require.NoError(t, err)
	require.Len(t, results, len(restaurants))

	for i := 1; i < len(results); i++ {
		require.GreaterOrEqual(t, results[i-1].Rating, results[i].Rating)
	}
}

func TestSearchOptionsQueryFilter(t *testing.T) {
	p := New()

	results, err := p.SearchOptions(context.Background(), provider.SearchCriteria{
		Category: provider.CategoryFood,
		Query:    "pizza",
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for _, r := range results {
		require.Contains(t, []string{"rest_1"}, r.ID)
	}
}

func TestSearchOptionsLimit(t *testing.T) {
	p := New()

	results, err := p.SearchOptions(context.Background(), provider.SearchCriteria{
		Category: provider.CategoryFood,
		Limit:    2,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestGetDetails(t *testing.T) {
	p := New()

	details, err := p.GetDetails(context.Background(), "rest_1")
	require.NoError(t, err)
	require.Equal(t, "Papa's Pizza Palace", details.Name)
	require.NotEmpty(t, details.MenuItems)

	_, err = p.GetDetails(context.Background(), "rest_999")
	require.ErrorIs(t, err, provider.ErrNotFound)
}

func TestPlaceOrderCostBreakdown(t *testing.T) {
	p := New()

	order, err := p.PlaceOrder(context.Background(), provider.OrderRequest{
		ServiceID: "rest_1",
		Items: []provider.OrderItem{
			{ID: "item_1", Name: "Margherita", Price: 10.00, Quantity: 2},
			{ID: "item_2", Name: "Pepperoni", Price: 12.50, Quantity: 1},
		},
		PaymentMethodID: "pm_1",
		TipAmount:       3.00,
	})
	require.NoError(t, err)

	require.Equal(t, 32.50, order.Subtotal)
	require.Equal(t, 2.99, order.DeliveryFee)
	require.Equal(t, 2.60, order.Tax)
	require.Equal(t, 3.00, order.Tip)
	require.Equal(t, 41.09, order.Total)
	require.Equal(t, "placed", order.Status)
	require.Equal(t, "USD", order.Currency)
	require.NotEmpty(t, order.OrderID)
	require.NotEmpty(t, order.ProviderOrderID)
}

func TestPlaceOrderZeroQuantityCountsAsOne(t *testing.T) {
	p := New()

	order, err := p.PlaceOrder(context.Background(), provider.OrderRequest{
		ServiceID: "rest_1",
		Items: []provider.OrderItem{
			{ID: "item_1", Name: "Margherita", Price: 10.00},
		},
		PaymentMethodID: "pm_1",
	})
	require.NoError(t, err)
	require.Equal(t, 10.00, order.Subtotal)
}

func TestPlaceOrderUnknownRestaurant(t *testing.T) {
	p := New()

	_, err := p.PlaceOrder(context.Background(), provider.OrderRequest{
		ServiceID:       "rest_999",
		Items:           []provider.OrderItem{{ID: "item_1", Price: 10.00, Quantity: 1}},
		PaymentMethodID: "pm_1",
	})
	require.ErrorIs(t, err, provider.ErrNotFound)
}

func TestGetOrderStatusProgression(t *testing.T) {
	p := New()
	p.statusStep = time.Millisecond

	order, err := p.PlaceOrder(context.Background(), provider.OrderRequest{
		ServiceID:       "rest_1",
		Items:           []provider.OrderItem{{ID: "item_1", Price: 10.00, Quantity: 1}},
		PaymentMethodID: "pm_1",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		update, err := p.GetOrderStatus(context.Background(), order.OrderID)
		require.NoError(t, err)
		return update.Status == "delivered"
	}, time.Second, 5*time.Millisecond)
}

func TestGetOrderStatusUnknownOrder(t *testing.T) {
	p := New()

	_, err := p.GetOrderStatus(context.Background(), "missing")
	require.ErrorIs(t, err, provider.ErrNotFound)
}

func TestCancelOrder(t *testing.T) {
	p := New()

	order, err := p.PlaceOrder(context.Background(), provider.OrderRequest{
		ServiceID:       "rest_1",
		Items:           []provider.OrderItem{{ID: "item_1", Price: 10.00, Quantity: 1}},
		PaymentMethodID: "pm_1",
	})
	require.NoError(t, err)

	ok, err := p.CancelOrder(context.Background(), order.OrderID)
	require.NoError(t, err)
	require.True(t, ok)

	update, err := p.GetOrderStatus(context.Background(), order.OrderID)
	require.NoError(t, err)
	require.Equal(t, "cancelled", update.Status)

	_, err = p.CancelOrder(context.Background(), "missing")
	require.ErrorIs(t, err, provider.ErrNotFound)
}

func TestEstimateCost(t *testing.T) {
	p := New()

	estimate, err := p.EstimateCost(context.Background(), "rest_1", []provider.OrderItem{
		{ID: "item_1", Price: 10.00, Quantity: 2},
	}, nil)
	require.NoError(t, err)

	require.Equal(t, 20.00, estimate.Subtotal)
	require.Equal(t, 2.99, estimate.DeliveryFee)
	require.Equal(t, 1.60, estimate.Tax)
	require.Equal(t, 24.59, estimate.Total)
}
