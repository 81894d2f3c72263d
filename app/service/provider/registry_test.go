package provider

import (
	"context"
	"errors"
	"testing"

	"concierge/app/config"

	"github.com/samber/do"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	BaseProvider

	name       string
	categories []Category
	options    []ServiceOption
	searchErr  error
}

func (p *stubProvider) ProviderName() string            { return p.name }
func (p *stubProvider) SupportedCategories() []Category { return p.categories }

func (p *stubProvider) SearchOptions(_ context.Context, _ SearchCriteria) ([]ServiceOption, error) {
	if p.searchErr != nil {
		return nil, p.searchErr
	}

	return p.options, nil
}

func (p *stubProvider) GetDetails(_ context.Context, _ string) (*ServiceDetails, error) {
	return nil, ErrNotFound
}

func (p *stubProvider) PlaceOrder(_ context.Context, _ OrderRequest) (*Order, error) {
	return nil, ErrNotFound
}

func (p *stubProvider) GetOrderStatus(_ context.Context, _ string) (*OrderStatusUpdate, error) {
	return nil, ErrNotFound
}

func (p *stubProvider) CancelOrder(_ context.Context, _ string) (bool, error) {
	return false, ErrNotFound
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	di := do.New()
	do.ProvideValue(di, config.Default())

	registry, err := NewRegistry(di)
	require.NoError(t, err)

	return registry
}

func option(provider string, rating float64, deliveryMinutes int) ServiceOption {
	return ServiceOption{
		ID:                  provider + "_opt",
		Provider:            provider,
		Name:                provider,
		Rating:              rating,
		DeliveryTimeMinutes: deliveryMinutes,
		Available:           true,
	}
}

func TestRegistryGet(t *testing.T) {
	registry := newTestRegistry(t)

	registry.Register(&stubProvider{name: "alpha", categories: []Category{CategoryFood}})

	p, err := registry.Get("alpha")
	require.NoError(t, err)
	require.Equal(t, "alpha", p.ProviderName())

	_, err = registry.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryRegisterOverwrite(t *testing.T) {
	registry := newTestRegistry(t)

	registry.Register(&stubProvider{name: "alpha", categories: []Category{CategoryFood}})
	registry.Register(&stubProvider{name: "beta", categories: []Category{CategoryFood}})

	replacement := &stubProvider{name: "alpha", categories: []Category{CategoryFood, CategoryGrocery}}
	registry.Register(replacement)

	p, err := registry.Get("alpha")
	require.NoError(t, err)
	require.Equal(t, []Category{CategoryFood, CategoryGrocery}, p.SupportedCategories())

	// overwriting keeps the original position
	providers := registry.ForCategory(CategoryFood)
	require.Len(t, providers, 2)
	require.Equal(t, "alpha", providers[0].ProviderName())
	require.Equal(t, "beta", providers[1].ProviderName())
}

func TestRegistryForCategory(t *testing.T) {
	registry := newTestRegistry(t)

	registry.Register(&stubProvider{name: "food_1", categories: []Category{CategoryFood}})
	registry.Register(&stubProvider{name: "rides", categories: []Category{CategoryTransportation}})
	registry.Register(&stubProvider{name: "food_2", categories: []Category{CategoryFood, CategoryGrocery}})

	providers := registry.ForCategory(CategoryFood)
	require.Len(t, providers, 2)
	require.Equal(t, "food_1", providers[0].ProviderName())
	require.Equal(t, "food_2", providers[1].ProviderName())

	require.Empty(t, registry.ForCategory(CategoryHealthcare))
}

func TestRegistrySearchAllTolerantOfFailures(t *testing.T) {
	registry := newTestRegistry(t)

	registry.Register(&stubProvider{
		name:       "broken",
		categories: []Category{CategoryFood},
		searchErr:  errors.New("connection refused"),
	})
	registry.Register(&stubProvider{
		name:       "healthy",
		categories: []Category{CategoryFood},
		options:    []ServiceOption{option("healthy", 4.5, 20)},
	})

	results := registry.SearchAll(context.Background(), SearchCriteria{Category: CategoryFood})
	require.Len(t, results, 2)
	require.Empty(t, results["broken"])
	require.Len(t, results["healthy"], 1)
}

func TestRegistryAggregateRanking(t *testing.T) {
	registry := newTestRegistry(t)

	registry.Register(&stubProvider{
		name:       "first",
		categories: []Category{CategoryFood},
		options:    []ServiceOption{option("first", 3.0, 10)},
	})
	registry.Register(&stubProvider{
		name:       "second",
		categories: []Category{CategoryFood},
		options:    []ServiceOption{option("second", 4.8, 20)},
	})
	registry.Register(&stubProvider{
		name:       "third",
		categories: []Category{CategoryFood},
		options:    []ServiceOption{option("third", 4.8, 5)},
	})

	results := registry.Aggregate(context.Background(), SearchCriteria{Category: CategoryFood})
	require.Len(t, results, 3)
	require.Equal(t, "third", results[0].Provider)
	require.Equal(t, "second", results[1].Provider)
	require.Equal(t, "first", results[2].Provider)
}

func TestRegistryAggregateRegistrationOrderTieBreak(t *testing.T) {
	registry := newTestRegistry(t)

	registry.Register(&stubProvider{
		name:       "earlier",
		categories: []Category{CategoryFood},
		options:    []ServiceOption{option("earlier", 4.5, 30)},
	})
	registry.Register(&stubProvider{
		name:       "later",
		categories: []Category{CategoryFood},
		options:    []ServiceOption{option("later", 4.5, 30)},
	})

	results := registry.Aggregate(context.Background(), SearchCriteria{Category: CategoryFood})
	require.Len(t, results, 2)
	require.Equal(t, "earlier", results[0].Provider)
	require.Equal(t, "later", results[1].Provider)
}

func TestRegistryAggregateMissingDeliveryTimeRanksLast(t *testing.T) {
	registry := newTestRegistry(t)

	registry.Register(&stubProvider{
		name:       "mixed",
		categories: []Category{CategoryFood},
		options: []ServiceOption{
			option("unknown_delivery", 4.0, 0),
			option("known_delivery", 4.0, 45),
		},
	})

	results := registry.Aggregate(context.Background(), SearchCriteria{Category: CategoryFood})
	require.Len(t, results, 2)
	require.Equal(t, "known_delivery_opt", results[0].ID)
	require.Equal(t, "unknown_delivery_opt", results[1].ID)
}

func TestRegistryAggregateLimit(t *testing.T) {
	registry := newTestRegistry(t)

	options := make([]ServiceOption, 0, 15)
	for i := 0; i < 15; i++ {
		options = append(options, option("bulk", 4.0, 10+i))
	}
	registry.Register(&stubProvider{
		name:       "bulk",
		categories: []Category{CategoryFood},
		options:    options,
	})

	results := registry.Aggregate(context.Background(), SearchCriteria{Category: CategoryFood})
	require.Len(t, results, 10)

	results = registry.Aggregate(context.Background(), SearchCriteria{Category: CategoryFood, Limit: 3})
	require.Len(t, results, 3)
}
