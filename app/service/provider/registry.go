package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"concierge/app/config"

	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

// slowestDeliverySentinel ranks options with an unknown delivery time last.
const slowestDeliverySentinel = 999

type Registry struct {
	cfg *config.Config

	mu        sync.RWMutex
	providers map[string]ServiceProvider
	// names in registration order, aggregation ties are broken by it
	names []string
}

func NewRegistry(di *do.Injector) (*Registry, error) {
	return &Registry{
		cfg:       do.MustInvoke[*config.Config](di),
		providers: make(map[string]ServiceProvider),
	}, nil
}

// Register adds a provider, overwriting any previous registration under the
// same name without changing its position in the iteration order.
func (r *Registry) Register(p ServiceProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.ProviderName()
	if _, exists := r.providers[name]; !exists {
		r.names = append(r.names, name)
	}
	r.providers[name] = p

	slog.Info("Registered service provider",
		"provider", name,
		"categories", p.SupportedCategories())
}

func (r *Registry) Get(name string) (ServiceProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q: %w", name, ErrNotFound)
	}

	return p, nil
}

func (r *Registry) ForCategory(category Category) []ServiceProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []ServiceProvider
	for _, name := range r.names {
		if p := r.providers[name]; supportsCategory(p, category) {
			result = append(result, p)
		}
	}

	return result
}

// SearchAll fans out the search to every provider supporting the category.
// A failing provider contributes an empty result list, it never aborts the
// other lookups.
func (r *Registry) SearchAll(ctx context.Context, criteria SearchCriteria) map[string][]ServiceOption {
	providers := r.ForCategory(criteria.Category)
	buckets := r.searchConcurrently(ctx, providers, criteria)

	results := make(map[string][]ServiceOption, len(providers))
	for i, p := range providers {
		results[p.ProviderName()] = buckets[i]
	}

	return results
}

// Aggregate flattens results from all matching providers and sorts them by
// rating (descending), then delivery time (ascending), then first-seen
// provider order, truncated to the criteria limit.
func (r *Registry) Aggregate(ctx context.Context, criteria SearchCriteria) []ServiceOption {
	providers := r.ForCategory(criteria.Category)
	buckets := r.searchConcurrently(ctx, providers, criteria)

	var all []ServiceOption
	for _, options := range buckets {
		all = append(all, options...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Rating != all[j].Rating {
			return all[i].Rating > all[j].Rating
		}

		return deliveryRank(all[i]) < deliveryRank(all[j])
	})

	limit := criteria.Limit
	if limit <= 0 {
		limit = r.cfg.Search.DefaultLimit
	}
	if len(all) > limit {
		all = all[:limit]
	}

	return all
}

func (r *Registry) searchConcurrently(ctx context.Context, providers []ServiceProvider, criteria SearchCriteria) [][]ServiceOption {
	buckets := make([][]ServiceOption, len(providers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Search.MaxConcurrency)

	for i, p := range providers {
		g.Go(func() error {
			searchCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Search.TimeoutSeconds)*time.Second)
			defer cancel()

			options, err := p.SearchOptions(searchCtx, criteria)
			if err != nil {
				slog.Warn("Provider search failed",
					"provider", p.ProviderName(),
					"category", criteria.Category,
					"error", fmt.Errorf("%w: %w", ErrUnavailable, err))
				return nil
			}

			buckets[i] = options

			return nil
		})
	}

	_ = g.Wait()

	return buckets
}

func deliveryRank(o ServiceOption) int {
	if o.DeliveryTimeMinutes <= 0 {
		return slowestDeliverySentinel
	}

	return o.DeliveryTimeMinutes
}
