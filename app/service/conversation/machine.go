package conversation

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrExpired is returned when an operation is attempted on a conversation
// past its expiry. It must reach the caller, never be retried silently.
var ErrExpired = errors.New("conversation expired")

// requiredData lists, per service type, the fields that must be collected
// before the conversation may leave each stage.
var requiredData = map[ServiceType]map[Stage][]string{
	ServiceFoodDelivery: {
		StageItemSelection:   {"restaurant_id", "items"},
		StageCustomization:   {"customizations"},
		StageDeliveryDetails: {"delivery_address", "delivery_time"},
		StagePaymentSetup:    {"payment_method_id"},
	},
	ServiceRideHailing: {
		StageItemSelection:   {"pickup_location", "destination"},
		StageCustomization:   {"vehicle_type"},
		StageDeliveryDetails: {"pickup_time"},
		StagePaymentSetup:    {"payment_method_id"},
	},
	ServiceGroceryDelivery: {
		StageItemSelection:   {"store_id", "items"},
		StageCustomization:   {"substitutions"},
		StageDeliveryDetails: {"delivery_address", "delivery_time"},
		StagePaymentSetup:    {"payment_method_id"},
	},
}

var fieldQuestions = map[string]string{
	"restaurant_id":     "Which restaurant would you like to order from?",
	"store_id":          "Which store would you like to order from?",
	"items":             "What would you like to order?",
	"customizations":    "Any special instructions or modifications?",
	"substitutions":     "Are substitutions okay if something is out of stock?",
	"delivery_address":  "Where should we deliver this?",
	"delivery_time":     "When would you like it delivered?",
	"pickup_location":   "Where should we pick you up?",
	"destination":       "Where are you going?",
	"vehicle_type":      "What type of vehicle do you prefer?",
	"pickup_time":       "When do you need the ride?",
	"payment_method_id": "How would you like to pay?",
}

var stagePrompts = map[Stage]string{
	StageIntentRecognition: "What can I help you with today?",
	StageCategorySelection: "What type of food are you interested in?",
	StageTracking:          "I'm tracking your order. I'll keep you updated!",
	StageCompleted:         "Your order has been delivered! Enjoy!",
}

// StateMachine decides stage transitions and next prompts. It is stateless:
// all context lives in the State it is handed.
type StateMachine struct{}

func NewStateMachine() *StateMachine {
	return &StateMachine{}
}

// CanAdvance reports whether the conversation may leave its current stage and
// which required fields are still missing. An unset service type blocks
// advancement before any per-stage table is consulted.
func (m *StateMachine) CanAdvance(state *State) (bool, []string) {
	if state.ServiceType == "" {
		return false, []string{"service_type"}
	}

	required := requiredData[state.ServiceType][state.Stage]

	var missing []string
	for _, field := range required {
		if value, ok := state.CollectedData[field]; !ok || value == nil {
			missing = append(missing, field)
		}
	}

	return len(missing) == 0, missing
}

// Advance moves the conversation one stage forward if the current stage's
// requirements are satisfied; otherwise it records one clarifying question
// per missing field and stays put. A single call never skips stages.
func (m *StateMachine) Advance(state *State) {
	canAdvance, missing := m.CanAdvance(state)

	if !canAdvance {
		questions := make([]string, 0, len(missing))
		for _, field := range missing {
			questions = append(questions, questionFor(field))
		}
		state.PendingQuestions = questions

		return
	}

	state.PendingQuestions = nil

	if next, ok := stageFlow[state.Stage]; ok {
		state.UpdateStage(next)

		if next == StageCompleted {
			now := time.Now().UTC()
			state.CompletedAt = &now
		}
	}
}

// HandleUserInput merges extracted data into the conversation and attempts a
// single stage advancement. The raw message and every collected field are
// recorded in history before the transition is evaluated.
func (m *StateMachine) HandleUserInput(state *State, userInput string, extracted map[string]any) error {
	if state.IsExpired() {
		return fmt.Errorf("conversation %s: %w", state.ConversationID, ErrExpired)
	}

	state.AddHistory("user_input", map[string]any{
		"message":   userInput,
		"extracted": extracted,
	})

	if serviceType, ok := extracted["service_type"]; ok {
		switch v := serviceType.(type) {
		case ServiceType:
			state.ServiceType = v
		case string:
			state.ServiceType = ServiceType(v)
		}
	}

	if providerName, ok := extracted["provider"].(string); ok {
		state.Provider = providerName
	}

	// deterministic history order across map iteration
	keys := make([]string, 0, len(extracted))
	for key := range extracted {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		state.CollectData(key, extracted[key])
	}

	m.Advance(state)

	return nil
}

// Cancel moves the conversation to the cancelled stage from anywhere.
// Cancelling an already-terminal conversation is a no-op.
func (m *StateMachine) Cancel(state *State, reason string) {
	if state.Stage.IsTerminal() {
		return
	}

	state.UpdateStage(StageCancelled)
	state.AddHistory("conversation_cancelled", map[string]any{
		"reason": reason,
	})
}

// NextPrompt returns the first pending question, or the stage's default
// prompt when nothing is outstanding.
func (m *StateMachine) NextPrompt(state *State) string {
	if len(state.PendingQuestions) > 0 {
		return state.PendingQuestions[0]
	}

	if state.Stage == StageConfirmation {
		total, _ := state.CollectedData["total_amount"].(float64)
		return fmt.Sprintf("Ready to place your order? Total: $%.2f", total)
	}

	if prompt, ok := stagePrompts[state.Stage]; ok {
		return prompt
	}

	return "How can I assist you further?"
}

func questionFor(field string) string {
	if q, ok := fieldQuestions[field]; ok {
		return q
	}

	return fmt.Sprintf("Please provide: %s", field)
}
