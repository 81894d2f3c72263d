package concierge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"concierge/app/config"
	"concierge/app/service/cache"
	"concierge/app/service/conversation"
	"concierge/app/service/extract"
	"concierge/app/service/provider"
	"concierge/app/service/track"

	"github.com/elliotchance/pie/v2"
	"github.com/go-playground/validator/v10"
	"github.com/samber/do"
)

const optionsPreviewLimit = 5

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNoProviderSelected   = errors.New("no provider selected")
)

// Service is the orchestrating facade over the conversation state machine,
// the provider registry and order tracking. Transports (HTTP, MCP) stay thin
// on top of it.
type Service struct {
	cfg       *config.Config
	store     *conversation.Store
	machine   *conversation.StateMachine
	registry  *provider.Registry
	extractor *extract.Service
	cacheSvc  *cache.Service
	tracker   *track.Service
	validate  *validator.Validate
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:       do.MustInvoke[*config.Config](di),
		store:     do.MustInvoke[*conversation.Store](di),
		machine:   conversation.NewStateMachine(),
		registry:  do.MustInvoke[*provider.Registry](di),
		extractor: do.MustInvoke[*extract.Service](di),
		cacheSvc:  do.MustInvoke[*cache.Service](di),
		tracker:   do.MustInvoke[*track.Service](di),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// StartConversation creates (or resumes) the conversation for the session and
// optionally processes an initial message.
func (s *Service) StartConversation(ctx context.Context, userID, sessionID, initialMessage string) (*Reply, error) {
	state := s.store.GetOrCreate(userID, sessionID)

	if initialMessage != "" {
		extracted := s.extractor.Extract(ctx, initialMessage, state.Stage)

		err := s.store.Mutate(state.ConversationID, func(state *conversation.State) error {
			return s.machine.HandleUserInput(state, initialMessage, extracted)
		})
		if err != nil {
			return nil, fmt.Errorf("machine.HandleUserInput: %w", err)
		}
	}

	return s.buildReply(ctx, state), nil
}

// SendMessage processes one user turn: extraction, merge, single-hop stage
// advancement, then the response payload for the caller.
func (s *Service) SendMessage(ctx context.Context, userID, conversationID, message string, extracted map[string]any) (*Reply, error) {
	state, err := s.conversationOf(userID, conversationID)
	if err != nil {
		return nil, err
	}

	if len(extracted) == 0 {
		extracted = s.extractor.Extract(ctx, message, state.Stage)
	}

	err = s.store.Mutate(conversationID, func(state *conversation.State) error {
		return s.machine.HandleUserInput(state, message, extracted)
	})
	if err != nil {
		return nil, fmt.Errorf("machine.HandleUserInput: %w", err)
	}

	return s.buildReply(ctx, state), nil
}

func (s *Service) GetState(userID, conversationID string) (*Snapshot, error) {
	state, err := s.conversationOf(userID, conversationID)
	if err != nil {
		return nil, err
	}

	return snapshotOf(state), nil
}

func (s *Service) ListActive(userID string) []*Snapshot {
	return pie.Map(s.store.ListActive(userID), snapshotOf)
}

// CancelConversation moves the conversation to its cancelled terminal stage
// and stops any in-flight tracking polls for its order.
func (s *Service) CancelConversation(userID, conversationID string) error {
	state, err := s.conversationOf(userID, conversationID)
	if err != nil {
		return err
	}

	err = s.store.Mutate(conversationID, func(state *conversation.State) error {
		s.machine.Cancel(state, "user cancelled conversation")
		return nil
	})
	if err != nil {
		return err
	}

	if state.OrderID != "" {
		s.tracker.CancelOrder(state.OrderID)
	}

	slog.Info("Conversation cancelled",
		"conversation_id", conversationID,
		"user_id", userID)

	return nil
}

// SearchServices aggregates ranked options across all providers for the
// category, short-circuiting through the search cache.
func (s *Service) SearchServices(ctx context.Context, criteria provider.SearchCriteria) ([]provider.ServiceOption, error) {
	if err := s.validate.Struct(criteria); err != nil {
		return nil, fmt.Errorf("invalid search criteria: %w", err)
	}

	key := cache.SearchKey(string(criteria.Category), criteria.Query, criteria.Limit)

	var cached []provider.ServiceOption
	if s.cacheSvc.Get(ctx, key, &cached) {
		return cached, nil
	}

	results := s.registry.Aggregate(ctx, criteria)
	s.cacheSvc.Set(ctx, key, results)

	return results, nil
}

func (s *Service) ServiceDetails(ctx context.Context, providerName, serviceID string) (*provider.ServiceDetails, error) {
	p, err := s.registry.Get(providerName)
	if err != nil {
		return nil, err
	}

	return p.GetDetails(ctx, serviceID)
}

func (s *Service) EstimateCost(ctx context.Context, providerName, serviceID string, items []provider.OrderItem, deliveryAddress map[string]any) (*provider.CostEstimate, error) {
	p, err := s.registry.Get(providerName)
	if err != nil {
		return nil, err
	}

	return p.EstimateCost(ctx, serviceID, items, deliveryAddress)
}

// PlaceOrder places an order through the conversation's selected provider and
// moves the conversation into tracking.
func (s *Service) PlaceOrder(ctx context.Context, userID string, input PlaceOrderInput) (*provider.Order, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid order input: %w", err)
	}

	state, err := s.conversationOf(userID, input.ConversationID)
	if err != nil {
		return nil, err
	}

	if state.Provider == "" {
		return nil, ErrNoProviderSelected
	}

	p, err := s.registry.Get(state.Provider)
	if err != nil {
		return nil, err
	}

	order, err := p.PlaceOrder(ctx, provider.OrderRequest{
		ServiceID:           input.ServiceID,
		Provider:            state.Provider,
		Items:               input.Items,
		Customizations:      input.Customizations,
		DeliveryAddress:     input.DeliveryAddress,
		PaymentMethodID:     input.PaymentMethodID,
		SpecialInstructions: input.Notes,
		TipAmount:           input.TipAmount,
		UserID:              userID,
	})
	if err != nil {
		return nil, fmt.Errorf("provider.PlaceOrder: %w", err)
	}

	err = s.store.Mutate(input.ConversationID, func(state *conversation.State) error {
		state.OrderID = order.OrderID
		state.OrderStatus = conversation.OrderStatus(order.Status)
		state.UpdateStage(conversation.StageTracking)
		state.AddHistory("order_placed", map[string]any{"order_id": order.OrderID})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Order placed",
		"conversation_id", input.ConversationID,
		"order_id", order.OrderID,
		"provider", order.Provider,
		"total", order.Total,
		"telegram", true)

	return order, nil
}

func (s *Service) OrderStatus(ctx context.Context, providerName, orderID string) (*provider.OrderStatusUpdate, error) {
	p, err := s.registry.Get(providerName)
	if err != nil {
		return nil, err
	}

	return p.GetOrderStatus(ctx, orderID)
}

func (s *Service) CancelOrder(ctx context.Context, providerName, orderID string) (bool, error) {
	p, err := s.registry.Get(providerName)
	if err != nil {
		return false, err
	}

	ok, err := p.CancelOrder(ctx, orderID)
	if err != nil {
		return false, fmt.Errorf("provider.CancelOrder: %w", err)
	}

	s.tracker.CancelOrder(orderID)

	return ok, nil
}

// TrackOrder opens a polling subscription for live status updates.
func (s *Service) TrackOrder(ctx context.Context, providerName, orderID string) (<-chan provider.OrderStatusUpdate, error) {
	return s.tracker.Subscribe(ctx, providerName, orderID)
}

func (s *Service) conversationOf(userID, conversationID string) (*conversation.State, error) {
	state, err := s.store.GetByID(conversationID)
	if err != nil {
		return nil, fmt.Errorf("conversation %q: %w", conversationID, ErrConversationNotFound)
	}
	if state.UserID != userID {
		return nil, fmt.Errorf("conversation %q: %w", conversationID, ErrConversationNotFound)
	}

	return state, nil
}

func (s *Service) buildReply(ctx context.Context, state *conversation.State) *Reply {
	reply := &Reply{
		ConversationID:     state.ConversationID,
		Message:            s.machine.NextPrompt(state),
		Stage:              state.Stage,
		ProgressPercentage: state.Progress(),
		CollectedData:      state.CollectedData,
		PendingQuestions:   state.PendingQuestions,
		SuggestedReplies:   stageSuggestions[state.Stage],
	}

	if state.Stage == conversation.StageItemSelection {
		reply.ServiceOptions = s.serviceOptions(ctx, state)
	}

	if state.Stage == conversation.StageConfirmation {
		reply.OrderSummary = orderSummary(state)
	}

	return reply
}

func (s *Service) serviceOptions(ctx context.Context, state *conversation.State) []provider.ServiceOption {
	category, ok := serviceCategories[state.ServiceType]
	if !ok {
		return nil
	}

	query, _ := state.CollectedData["food_type"].(string)
	if query == "" {
		query, _ = state.CollectedData["category"].(string)
	}

	options, err := s.SearchServices(ctx, provider.SearchCriteria{
		Category: category,
		Query:    query,
		Limit:    optionsPreviewLimit,
	})
	if err != nil {
		slog.Warn("Failed to fetch service options",
			"conversation_id", state.ConversationID,
			"error", err)
		return nil
	}

	return options
}

func orderSummary(state *conversation.State) map[string]any {
	return map[string]any{
		"service_type":     state.ServiceType,
		"provider":         state.Provider,
		"items":            state.CollectedData["items"],
		"delivery_address": state.CollectedData["delivery_address"],
		"estimated_cost":   state.CollectedData["estimated_cost"],
		"customizations":   state.CollectedData["customizations"],
	}
}

func snapshotOf(state *conversation.State) *Snapshot {
	return &Snapshot{
		ConversationID:     state.ConversationID,
		UserID:             state.UserID,
		ServiceType:        state.ServiceType,
		Provider:           state.Provider,
		Stage:              state.Stage,
		CollectedData:      state.CollectedData,
		PendingQuestions:   state.PendingQuestions,
		OrderID:            state.OrderID,
		OrderStatus:        state.OrderStatus,
		ProgressPercentage: state.Progress(),
		CreatedAt:          state.CreatedAt,
		LastUpdate:         state.LastUpdate,
	}
}
