package track

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"concierge/app/config"
	"concierge/app/service/conversation"
	"concierge/app/service/provider"

	"github.com/samber/do"
)

const updateBufferSize = 16

var _ do.Shutdownable = (*Service)(nil)

// Service owns live order-tracking subscriptions. Each subscription polls the
// order's provider on a fixed interval and publishes updates on a channel
// until a terminal status is observed, the subscriber goes away, or the order
// is cancelled.
type Service struct {
	cfg      *config.Config
	registry *provider.Registry

	mu     sync.Mutex
	active map[string][]context.CancelFunc
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		registry: do.MustInvoke[*provider.Registry](di),
		active:   make(map[string][]context.CancelFunc),
	}, nil
}

// Subscribe starts polling the given order. The returned channel is closed
// when polling stops; cancelling ctx stops it promptly.
func (s *Service) Subscribe(ctx context.Context, providerName, orderID string) (<-chan provider.OrderStatusUpdate, error) {
	p, err := s.registry.Get(providerName)
	if err != nil {
		return nil, fmt.Errorf("registry.Get: %w", err)
	}

	pollCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.active[orderID] = append(s.active[orderID], cancel)
	s.mu.Unlock()

	updates := make(chan provider.OrderStatusUpdate, updateBufferSize)

	go s.poll(pollCtx, cancel, p, orderID, updates)

	return updates, nil
}

// CancelOrder stops every active subscription for the order.
func (s *Service) CancelOrder(orderID string) {
	s.mu.Lock()
	cancels := s.active[orderID]
	delete(s.active, orderID)
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

func (s *Service) poll(ctx context.Context, cancel context.CancelFunc, p provider.ServiceProvider, orderID string, updates chan<- provider.OrderStatusUpdate) {
	defer close(updates)
	defer cancel()
	defer s.removeSubscription(orderID)

	interval := time.Duration(s.cfg.Track.PollIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		update, err := p.GetOrderStatus(ctx, orderID)
		if err != nil {
			slog.Warn("Order status poll failed",
				"order_id", orderID,
				"provider", p.ProviderName(),
				"error", err)
			return
		}

		select {
		case updates <- *update:
		case <-ctx.Done():
			return
		}

		if conversation.OrderStatus(update.Status).IsTerminal() {
			slog.Info("Order reached terminal status",
				"order_id", orderID,
				"status", update.Status)
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) removeSubscription(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// the whole entry goes once any poll for the order ends; calling an
	// already-spent cancel later is a no-op
	delete(s.active, orderID)
}

func (s *Service) Shutdown() error {
	s.mu.Lock()
	all := s.active
	s.active = make(map[string][]context.CancelFunc)
	s.mu.Unlock()

	for _, cancels := range all {
		for _, cancel := range cancels {
			cancel()
		}
	}

	return nil
}
