package mockfood

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"concierge/app/service/provider"

	"github.com/google/uuid"
)

const (
	taxRate            = 0.08
	defaultDeliveryFee = 2.99
	// how long the mock takes to move an order one status forward
	defaultStatusStep = 15 * time.Second
)

// statusTimeline is the simulated lifecycle of a placed order; the current
// status is derived from the order's age.
var statusTimeline = []struct {
	Status           string
	Message          string
	EstimatedMinutes int
	DriverEnRoute    bool
}{
	{"placed", "Order placed! Restaurant is confirming.", 30, false},
	{"confirmed", "Restaurant confirmed your order!", 28, false},
	{"preparing", "Your food is being prepared.", 25, false},
	{"ready", "Your order is ready for pickup!", 20, false},
	{"picked_up", "Driver picked up your order.", 15, false},
	{"in_transit", "On the way to you!", 10, true},
	{"nearby", "Driver is 5 minutes away!", 5, true},
	{"arrived", "Driver has arrived!", 0, false},
	{"delivered", "Your order has been delivered. Enjoy!", 0, false},
}

// Provider simulates a food delivery backend with a fixed restaurant set.
// Stands in for real integrations during development and in tests.
type Provider struct {
	provider.BaseProvider

	statusStep time.Duration

	mu     sync.Mutex
	orders map[string]placedOrder
}

type placedOrder struct {
	order     provider.Order
	placedAt  time.Time
	cancelled bool
}

func New() *Provider {
	return &Provider{
		statusStep: defaultStatusStep,
		orders:     make(map[string]placedOrder),
	}
}

func (p *Provider) ProviderName() string {
	return "mock_food_delivery"
}

func (p *Provider) SupportedCategories() []provider.Category {
	return []provider.Category{provider.CategoryFood}
}

func (p *Provider) SearchOptions(ctx context.Context, criteria provider.SearchCriteria) ([]provider.ServiceOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := strings.ToLower(criteria.Query)

	var results []provider.ServiceOption
	for _, r := range restaurants {
		if query != "" && !matches(r, query) {
			continue
		}

		results = append(results, provider.ServiceOption{
			ID:                  r.ID,
			Provider:            p.ProviderName(),
			Name:                r.Name,
			Description:         r.Description,
			Category:            r.Category,
			ImageURL:            r.ImageURL,
			Rating:              r.Rating,
			PriceLevel:          r.PriceLevel,
			DeliveryTimeMinutes: r.DeliveryTime,
			DeliveryFee:         r.DeliveryFee,
			MinimumOrder:        r.MinimumOrder,
			Tags:                r.Tags,
			DistanceKm:          roundTenth(0.5 + rand.Float64()*4.5),
			Available:           true,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Rating > results[j].Rating
	})

	if criteria.Limit > 0 && len(results) > criteria.Limit {
		results = results[:criteria.Limit]
	}

	return results, nil
}

func (p *Provider) GetDetails(ctx context.Context, serviceID string) (*provider.ServiceDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, ok := findRestaurant(serviceID)
	if !ok {
		return nil, fmt.Errorf("restaurant %q: %w", serviceID, provider.ErrNotFound)
	}

	return &provider.ServiceDetails{
		ID:          r.ID,
		Provider:    p.ProviderName(),
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		MenuItems:   r.Menu,
		Pricing: map[string]any{
			"delivery_fee":  r.DeliveryFee,
			"minimum_order": r.MinimumOrder,
			"price_level":   r.PriceLevel,
		},
		Availability: map[string]any{
			"is_open":       true,
			"hours":         "10:00 AM - 11:00 PM",
			"delivery_time": r.DeliveryTime,
		},
		Images: []string{r.ImageURL},
		Reviews: map[string]any{
			"rating":        r.Rating,
			"total_reviews": 100 + rand.IntN(400),
		},
	}, nil
}

func (p *Provider) PlaceOrder(ctx context.Context, request provider.OrderRequest) (*provider.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, ok := findRestaurant(request.ServiceID)
	if !ok {
		return nil, fmt.Errorf("restaurant %q: %w", request.ServiceID, provider.ErrNotFound)
	}

	subtotal := 0.0
	for _, item := range request.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		subtotal += item.Price * float64(quantity)
	}

	tax := subtotal * taxRate
	total := subtotal + defaultDeliveryFee + tax + request.TipAmount

	now := time.Now().UTC()
	order := provider.Order{
		OrderID:               uuid.NewString(),
		Provider:              p.ProviderName(),
		ProviderOrderID:       fmt.Sprintf("MOCK-%05d", 10000+rand.IntN(90000)),
		Status:                "placed",
		ServiceName:           r.Name,
		Items:                 request.Items,
		Subtotal:              roundCents(subtotal),
		DeliveryFee:           defaultDeliveryFee,
		Tax:                   roundCents(tax),
		Tip:                   roundCents(request.TipAmount),
		Total:                 roundCents(total),
		Currency:              "USD",
		EstimatedDeliveryTime: now.Add(time.Duration(r.DeliveryTime) * time.Minute),
		DeliveryAddress:       request.DeliveryAddress,
		CreatedAt:             now,
	}
	order.TrackingURL = "https://mock-tracking.example.com/" + order.OrderID

	p.mu.Lock()
	p.orders[order.OrderID] = placedOrder{order: order, placedAt: now}
	p.mu.Unlock()

	return &order, nil
}

func (p *Provider) GetOrderStatus(ctx context.Context, orderID string) (*provider.OrderStatusUpdate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	placed, ok := p.orders[orderID]
	p.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("order %q: %w", orderID, provider.ErrNotFound)
	}

	if placed.cancelled {
		return &provider.OrderStatusUpdate{
			OrderID:   orderID,
			Status:    "cancelled",
			Message:   "Your order was cancelled.",
			Timestamp: time.Now().UTC(),
		}, nil
	}

	step := int(time.Since(placed.placedAt) / p.statusStep)
	if step >= len(statusTimeline) {
		step = len(statusTimeline) - 1
	}

	current := statusTimeline[step]
	update := &provider.OrderStatusUpdate{
		OrderID:          orderID,
		Status:           current.Status,
		Message:          current.Message,
		Timestamp:        time.Now().UTC(),
		EstimatedMinutes: current.EstimatedMinutes,
	}

	if current.DriverEnRoute {
		update.DriverLocation = &provider.Location{
			Lat: 37.7749 + (rand.Float64()-0.5)*0.02,
			Lng: -122.4194 + (rand.Float64()-0.5)*0.02,
		}
	}

	return update, nil
}

func (p *Provider) CancelOrder(_ context.Context, orderID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	placed, ok := p.orders[orderID]
	if !ok {
		return false, fmt.Errorf("order %q: %w", orderID, provider.ErrNotFound)
	}

	placed.cancelled = true
	p.orders[orderID] = placed

	return true, nil
}

func (p *Provider) EstimateCost(_ context.Context, _ string, items []provider.OrderItem, _ map[string]any) (*provider.CostEstimate, error) {
	subtotal := 0.0
	for _, item := range items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		subtotal += item.Price * float64(quantity)
	}

	tax := subtotal * taxRate

	return &provider.CostEstimate{
		Subtotal:    roundCents(subtotal),
		DeliveryFee: defaultDeliveryFee,
		Tax:         roundCents(tax),
		Total:       roundCents(subtotal + defaultDeliveryFee + tax),
	}, nil
}

func matches(r restaurant, query string) bool {
	if strings.Contains(strings.ToLower(r.Name), query) ||
		strings.Contains(strings.ToLower(r.Category), query) {
		return true
	}

	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}

	return false
}

func findRestaurant(id string) (restaurant, bool) {
	for _, r := range restaurants {
		if r.ID == id {
			return r, true
		}
	}

	return restaurant{}, false
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
