package mockride

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"concierge/app/service/provider"

	"github.com/google/uuid"
)

const bookingFee = 1.50

type rideTier struct {
	ID         string
	Name       string
	Desc       string
	Rating     float64
	PriceLevel int
	EtaMinutes int
	BaseFare   float64
	PerKm      float64
	Seats      int
}

var tiers = []rideTier{
	{ID: "ride_economy", Name: "Economy", Desc: "Affordable everyday rides", Rating: 4.4, PriceLevel: 1, EtaMinutes: 4, BaseFare: 2.50, PerKm: 1.10, Seats: 4},
	{ID: "ride_comfort", Name: "Comfort", Desc: "Newer cars with extra legroom", Rating: 4.6, PriceLevel: 2, EtaMinutes: 6, BaseFare: 4.00, PerKm: 1.60, Seats: 4},
	{ID: "ride_xl", Name: "XL", Desc: "Vans and SUVs for groups", Rating: 4.5, PriceLevel: 2, EtaMinutes: 8, BaseFare: 5.50, PerKm: 2.10, Seats: 6},
	{ID: "ride_premium", Name: "Premium", Desc: "High-end cars with top drivers", Rating: 4.9, PriceLevel: 4, EtaMinutes: 10, BaseFare: 8.00, PerKm: 3.20, Seats: 4},
}

var statusTimeline = []struct {
	Status           string
	Message          string
	EstimatedMinutes int
	DriverEnRoute    bool
}{
	{"placed", "Finding you a driver...", 5, false},
	{"confirmed", "Driver assigned and on the way.", 4, true},
	{"in_transit", "You're on your way!", 12, true},
	{"nearby", "Almost at your destination.", 2, true},
	{"arrived", "You have arrived.", 0, false},
	{"completed", "Ride completed. Thanks for riding!", 0, false},
}

// Provider simulates a ride-hailing backend with fixed vehicle tiers.
type Provider struct {
	provider.BaseProvider

	statusStep time.Duration

	mu    sync.Mutex
	rides map[string]bookedRide
}

type bookedRide struct {
	order     provider.Order
	bookedAt  time.Time
	cancelled bool
}

func New() *Provider {
	return &Provider{
		statusStep: 10 * time.Second,
		rides:      make(map[string]bookedRide),
	}
}

func (p *Provider) ProviderName() string {
	return "mock_ride_hailing"
}

func (p *Provider) SupportedCategories() []provider.Category {
	return []provider.Category{provider.CategoryTransportation}
}

func (p *Provider) SearchOptions(ctx context.Context, criteria provider.SearchCriteria) ([]provider.ServiceOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := strings.ToLower(criteria.Query)

	var results []provider.ServiceOption
	for _, t := range tiers {
		if query != "" && !strings.Contains(strings.ToLower(t.Name), query) {
			continue
		}

		results = append(results, provider.ServiceOption{
			ID:                  t.ID,
			Provider:            p.ProviderName(),
			Name:                t.Name,
			Description:         t.Desc,
			Category:            string(provider.CategoryTransportation),
			Rating:              t.Rating,
			PriceLevel:          t.PriceLevel,
			DeliveryTimeMinutes: t.EtaMinutes,
			Available:           true,
			Metadata: map[string]any{
				"base_fare": t.BaseFare,
				"per_km":    t.PerKm,
				"seats":     t.Seats,
			},
		})
	}

	if criteria.Limit > 0 && len(results) > criteria.Limit {
		results = results[:criteria.Limit]
	}

	return results, nil
}

func (p *Provider) GetDetails(ctx context.Context, serviceID string) (*provider.ServiceDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, ok := findTier(serviceID)
	if !ok {
		return nil, fmt.Errorf("ride tier %q: %w", serviceID, provider.ErrNotFound)
	}

	return &provider.ServiceDetails{
		ID:          t.ID,
		Provider:    p.ProviderName(),
		Name:        t.Name,
		Description: t.Desc,
		Category:    string(provider.CategoryTransportation),
		Pricing: map[string]any{
			"base_fare":   t.BaseFare,
			"per_km":      t.PerKm,
			"booking_fee": bookingFee,
		},
		Availability: map[string]any{
			"eta_minutes": t.EtaMinutes,
			"seats":       t.Seats,
		},
	}, nil
}

func (p *Provider) PlaceOrder(ctx context.Context, request provider.OrderRequest) (*provider.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, ok := findTier(request.ServiceID)
	if !ok {
		return nil, fmt.Errorf("ride tier %q: %w", request.ServiceID, provider.ErrNotFound)
	}

	// estimated trip distance is faked, the mock has no routing
	distanceKm := 3.0 + rand.Float64()*12.0
	fare := t.BaseFare + t.PerKm*distanceKm

	now := time.Now().UTC()
	order := provider.Order{
		OrderID:               uuid.NewString(),
		Provider:              p.ProviderName(),
		ProviderOrderID:       fmt.Sprintf("RIDE-%05d", 10000+rand.IntN(90000)),
		Status:                "placed",
		ServiceName:           t.Name,
		Items:                 request.Items,
		Subtotal:              roundCents(fare),
		DeliveryFee:           bookingFee,
		Tip:                   roundCents(request.TipAmount),
		Total:                 roundCents(fare + bookingFee + request.TipAmount),
		Currency:              "USD",
		EstimatedDeliveryTime: now.Add(time.Duration(t.EtaMinutes) * time.Minute),
		DeliveryAddress:       request.DeliveryAddress,
		CreatedAt:             now,
	}

	p.mu.Lock()
	p.rides[order.OrderID] = bookedRide{order: order, bookedAt: now}
	p.mu.Unlock()

	return &order, nil
}

func (p *Provider) GetOrderStatus(ctx context.Context, orderID string) (*provider.OrderStatusUpdate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	ride, ok := p.rides[orderID]
	p.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("ride %q: %w", orderID, provider.ErrNotFound)
	}

	if ride.cancelled {
		return &provider.OrderStatusUpdate{
			OrderID:   orderID,
			Status:    "cancelled",
			Message:   "Your ride was cancelled.",
			Timestamp: time.Now().UTC(),
		}, nil
	}

	step := int(time.Since(ride.bookedAt) / p.statusStep)
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

	ride, ok := p.rides[orderID]
	if !ok {
		return false, fmt.Errorf("ride %q: %w", orderID, provider.ErrNotFound)
	}

	ride.cancelled = true
	p.rides[orderID] = ride

	return true, nil
}

func findTier(id string) (rideTier, bool) {
	for _, t := range tiers {
		if t.ID == id {
			return t, true
		}
	}

	return rideTier{}, false
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
