package conversation

import (
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageIntentRecognition Stage = "intent_recognition"
	StageCategorySelection Stage = "category_selection"
	StageItemSelection     Stage = "item_selection"
	StageCustomization     Stage = "customization"
	StageDeliveryDetails   Stage = "delivery_details"
	StagePaymentSetup      Stage = "payment_setup"
	StageConfirmation      Stage = "confirmation"
	StageTracking          Stage = "tracking"
	StageCompleted         Stage = "completed"
	StageCancelled         Stage = "cancelled"
)

// stageOrder is the fixed forward path; progress is measured against it.
var stageOrder = []Stage{
	StageIntentRecognition,
	StageCategorySelection,
	StageItemSelection,
	StageCustomization,
	StageDeliveryDetails,
	StagePaymentSetup,
	StageConfirmation,
	StageTracking,
	StageCompleted,
}

// stageFlow maps each stage to its designated successor. There is no edge
// beyond tracking; cancelled is reachable from anywhere via Cancel only.
var stageFlow = map[Stage]Stage{
	StageIntentRecognition: StageCategorySelection,
	StageCategorySelection: StageItemSelection,
	StageItemSelection:     StageCustomization,
	StageCustomization:     StageDeliveryDetails,
	StageDeliveryDetails:   StagePaymentSetup,
	StagePaymentSetup:      StageConfirmation,
	StageConfirmation:      StageTracking,
	StageTracking:          StageCompleted,
}

func (s Stage) IsTerminal() bool {
	return s == StageCompleted || s == StageCancelled
}

type ServiceType string

const (
	ServiceFoodDelivery    ServiceType = "food_delivery"
	ServiceRideHailing     ServiceType = "ride_hailing"
	ServiceGroceryDelivery ServiceType = "grocery_delivery"
	ServiceHomeService     ServiceType = "home_service"
	ServiceShopping        ServiceType = "shopping"
	ServiceHealthcare      ServiceType = "healthcare"
	ServiceEntertainment   ServiceType = "entertainment"
)

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderPickedUp  OrderStatus = "picked_up"
	OrderInTransit OrderStatus = "in_transit"
	OrderNearby    OrderStatus = "nearby"
	OrderArrived   OrderStatus = "arrived"
	OrderDelivered OrderStatus = "delivered"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCompleted || s == OrderCancelled
}

type Intent struct {
	IntentType  string         `json:"intent_type"`
	ServiceType ServiceType    `json:"service_type,omitempty"`
	Confidence  float64        `json:"confidence"`
	Entities    map[string]any `json:"entities,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// HistoryRecord is one append-only entry in a conversation's event log.
type HistoryRecord struct {
	Timestamp time.Time      `json:"timestamp"`
	Event     string         `json:"event"`
	Stage     Stage          `json:"stage"`
	Data      map[string]any `json:"data,omitempty"`
}

const defaultLifetime = 24 * time.Hour

// State tracks one user's in-progress concierge interaction from initial
// intent to fulfillment. It is owned by the store and borrowed by the state
// machine for the duration of a single call.
type State struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	SessionID      string `json:"session_id"`

	ServiceType ServiceType `json:"service_type,omitempty"`
	Provider    string      `json:"provider,omitempty"`

	Stage  Stage   `json:"stage"`
	Intent *Intent `json:"intent,omitempty"`

	CollectedData    map[string]any `json:"collected_data"`
	PendingQuestions []string       `json:"pending_questions"`

	OrderID     string      `json:"order_id,omitempty"`
	OrderStatus OrderStatus `json:"order_status,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	LastUpdate  time.Time  `json:"last_update"`
	ExpiresAt   time.Time  `json:"expires_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Context map[string]any `json:"context,omitempty"`

	History []HistoryRecord `json:"history"`
}

func NewState(userID, sessionID string) *State {
	now := time.Now().UTC()

	return &State{
		ConversationID: uuid.NewString(),
		UserID:         userID,
		SessionID:      sessionID,
		Stage:          StageIntentRecognition,
		CollectedData:  make(map[string]any),
		CreatedAt:      now,
		LastUpdate:     now,
		ExpiresAt:      now.Add(defaultLifetime),
	}
}

func (s *State) AddHistory(event string, data map[string]any) {
	s.History = append(s.History, HistoryRecord{
		Timestamp: time.Now().UTC(),
		Event:     event,
		Stage:     s.Stage,
		Data:      data,
	})
	s.LastUpdate = time.Now().UTC()
}

func (s *State) UpdateStage(newStage Stage) {
	oldStage := s.Stage
	s.Stage = newStage
	s.AddHistory("stage_change", map[string]any{
		"from": oldStage,
		"to":   newStage,
	})
}

func (s *State) CollectData(key string, value any) {
	if s.CollectedData == nil {
		s.CollectedData = make(map[string]any)
	}
	s.CollectedData[key] = value
	s.AddHistory("data_collected", map[string]any{
		"key":   key,
		"value": value,
	})
}

func (s *State) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Progress returns the completion percentage along the fixed forward path.
// Cancelled conversations report 0.
func (s *State) Progress() int {
	for i, stage := range stageOrder {
		if stage == s.Stage {
			return i * 100 / len(stageOrder)
		}
	}

	return 0
}
