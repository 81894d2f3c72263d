package concierge

import (
	"time"

	"concierge/app/service/conversation"
	"concierge/app/service/provider"
)

// Reply is what the concierge says back after a conversation turn.
type Reply struct {
	ConversationID     string                   `json:"conversation_id"`
	Message            string                   `json:"message"`
	Stage              conversation.Stage       `json:"stage"`
	ProgressPercentage int                      `json:"progress_percentage"`
	CollectedData      map[string]any           `json:"collected_data,omitempty"`
	PendingQuestions   []string                 `json:"pending_questions,omitempty"`
	ServiceOptions     []provider.ServiceOption `json:"service_options,omitempty"`
	OrderSummary       map[string]any           `json:"order_summary,omitempty"`
	SuggestedReplies   []string                 `json:"suggested_replies,omitempty"`
}

// Snapshot is a read-only view of a conversation's current state.
type Snapshot struct {
	ConversationID     string                   `json:"conversation_id"`
	UserID             string                   `json:"user_id"`
	ServiceType        conversation.ServiceType `json:"service_type,omitempty"`
	Provider           string                   `json:"provider,omitempty"`
	Stage              conversation.Stage       `json:"stage"`
	CollectedData      map[string]any           `json:"collected_data"`
	PendingQuestions   []string                 `json:"pending_questions"`
	OrderID            string                   `json:"order_id,omitempty"`
	OrderStatus        conversation.OrderStatus `json:"order_status,omitempty"`
	ProgressPercentage int                      `json:"progress_percentage"`
	CreatedAt          time.Time                `json:"created_at"`
	LastUpdate         time.Time                `json:"last_update"`
}

// PlaceOrderInput binds an order to a conversation.
type PlaceOrderInput struct {
	ConversationID  string               `json:"conversation_id" validate:"required"`
	ServiceID       string               `json:"service_id" validate:"required"`
	Items           []provider.OrderItem `json:"items" validate:"required,min=1"`
	DeliveryAddress map[string]any       `json:"delivery_address"`
	PaymentMethodID string               `json:"payment_method_id" validate:"required"`
	Customizations  map[string]any       `json:"customizations,omitempty"`
	TipAmount       float64              `json:"tip_amount,omitempty"`
	Notes           string               `json:"notes,omitempty"`
}

var stageSuggestions = map[conversation.Stage][]string{
	conversation.StageIntentRecognition: {
		"I want food delivery",
		"I need a ride",
		"Order groceries",
	},
	conversation.StageCategorySelection: {
		"Pizza",
		"Burgers",
		"Sushi",
		"Show me all options",
	},
	conversation.StageConfirmation: {
		"Yes, place the order",
		"No, let me make changes",
		"Cancel",
	},
}

var serviceCategories = map[conversation.ServiceType]provider.Category{
	conversation.ServiceFoodDelivery:    provider.CategoryFood,
	conversation.ServiceRideHailing:     provider.CategoryTransportation,
	conversation.ServiceGroceryDelivery: provider.CategoryGrocery,
	conversation.ServiceHomeService:     provider.CategoryHomeService,
	conversation.ServiceShopping:        provider.CategoryShopping,
	conversation.ServiceHealthcare:      provider.CategoryHealthcare,
	conversation.ServiceEntertainment:   provider.CategoryEntertainment,
}
