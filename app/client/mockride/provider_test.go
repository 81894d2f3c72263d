package mockride

import (
	"context"
	"testing"
	"time"

	"concierge/app/service/provider"

	"github.com/stretchr/testify/require"
)

func TestSearchOptions(t *testing.T) {
	p := New()

	results, err := p.SearchOptions(context.Background(), provider.SearchCriteria{
		Category: provider.CategoryTransportation,
	})
	require.NoError(t, err)
	require.Len(t, results, len(tiers))

	results, err = p.SearchOptions(context.Background(), provider.SearchCriteria{
		Category: provider.CategoryTransportation,
		Query:    "premium",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "ride_premium", results[0].ID)
}

func TestGetDetails(t *testing.T) {
	p := New()

	details, err := p.GetDetails(context.Background(), "ride_economy")
	require.NoError(t, err)
	require.Equal(t, "Economy", details.Name)
	require.Equal(t, bookingFee, details.Pricing["booking_fee"])

	_, err = p.GetDetails(context.Background(), "ride_missing")
	require.ErrorIs(t, err, provider.ErrNotFound)
}

func TestPlaceOrderFare(t *testing.T) {
	p := New()

	order, err := p.PlaceOrder(context.Background(), provider.OrderRequest{
		ServiceID:       "ride_economy",
		Items:           []provider.OrderItem{{ID: "ride_economy", Name: "Economy", Quantity: 1}},
		PaymentMethodID: "pm_1",
		TipAmount:       2.00,
	})
	require.NoError(t, err)

	// distance is random within 3-15 km
	require.GreaterOrEqual(t, order.Subtotal, 2.50+1.10*3.0-0.01)
	require.LessOrEqual(t, order.Subtotal, 2.50+1.10*15.0+0.01)
	require.Equal(t, bookingFee, order.DeliveryFee)
	require.Equal(t, 2.00, order.Tip)
	require.InDelta(t, order.Subtotal+bookingFee+2.00, order.Total, 0.011)
	require.Equal(t, "placed", order.Status)
}

func TestRideStatusProgression(t *testing.T) {
	p := New()
	p.statusStep = time.Millisecond

	order, err := p.PlaceOrder(context.Background(), provider.OrderRequest{
		ServiceID:       "ride_comfort",
		Items:           []provider.OrderItem{{ID: "ride_comfort", Quantity: 1}},
		PaymentMethodID: "pm_1",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		update, err := p.GetOrderStatus(context.Background(), order.OrderID)
		require.NoError(t, err)
		return update.Status == "completed"
	}, time.Second, 5*time.Millisecond)
}

func TestCancelRide(t *testing.T) {
	p := New()

	order, err := p.PlaceOrder(context.Background(), provider.OrderRequest{
		ServiceID:       "ride_economy",
		Items:           []provider.OrderItem{{ID: "ride_economy", Quantity: 1}},
		PaymentMethodID: "pm_1",
	})
	require.NoError(t, err)

	ok, err := p.CancelOrder(context.Background(), order.OrderID)
	require.NoError(t, err)
	require.True(t, ok)

	update, err := p.GetOrderStatus(context.Background(), order.OrderID)
	require.NoError(t, err)
	require.Equal(t, "cancelled", update.Status)
}
