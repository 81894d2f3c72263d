package provider

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by lookups for unknown service, order or
	// provider ids.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable marks a provider call failure during aggregation.
	// The registry recovers from it locally, callers never see it as a
	// hard search failure.
	ErrUnavailable = errors.New("provider unavailable")
)

// ServiceProvider is the contract every fulfillment backend implements.
// Implementations live in app/client and register themselves at startup.
type ServiceProvider interface {
	ProviderName() string
	SupportedCategories() []Category

	SearchOptions(ctx context.Context, criteria SearchCriteria) ([]ServiceOption, error)
	GetDetails(ctx context.Context, serviceID string) (*ServiceDetails, error)
	PlaceOrder(ctx context.Context, request OrderRequest) (*Order, error)
	GetOrderStatus(ctx context.Context, orderID string) (*OrderStatusUpdate, error)
	CancelOrder(ctx context.Context, orderID string) (bool, error)

	// EstimateCost and ValidateDeliveryAddress are optional capabilities.
	// Embed BaseProvider for safe defaults.
	EstimateCost(ctx context.Context, serviceID string, items []OrderItem, deliveryAddress map[string]any) (*CostEstimate, error)
	ValidateDeliveryAddress(ctx context.Context, address map[string]any) (bool, string, error)
}

// BaseProvider supplies default implementations of the optional parts of the
// contract: a zeroed estimate and an always-valid address.
type BaseProvider struct{}

func (BaseProvider) EstimateCost(_ context.Context, _ string, _ []OrderItem, _ map[string]any) (*CostEstimate, error) {
	return &CostEstimate{}, nil
}

func (BaseProvider) ValidateDeliveryAddress(_ context.Context, _ map[string]any) (bool, string, error) {
	return true, "", nil
}

func supportsCategory(p ServiceProvider, category Category) bool {
	for _, c := range p.SupportedCategories() {
		if c == category {
			return true
		}
	}

	return false
}
