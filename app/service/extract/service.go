package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"concierge/app/config"
	"concierge/app/service/conversation"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const maxExtractDuration = 15 * time.Second

// Service turns a raw user message into the field->value mapping the state
// machine consumes. The keyword matcher is the default path; when an LLM is
// configured it is tried first and any failure falls back to keywords.
type Service struct {
	cfg *config.Config
	llm llms.Model
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	s := &Service{cfg: cfg}

	if cfg.Extract.LLM.Token != "" {
		llm, err := openai.New(
			openai.WithToken(cfg.Extract.LLM.Token),
			openai.WithModel(cfg.Extract.LLM.Model),
			openai.WithBaseURL(cfg.Extract.LLM.BaseURL),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create llm client: %w", err)
		}

		s.llm = llm
	}

	return s, nil
}

func (s *Service) Extract(ctx context.Context, message string, stage conversation.Stage) map[string]any {
	if s.llm != nil {
		extracted, err := s.extractLLM(ctx, message, stage)
		if err == nil {
			return extracted
		}

		slog.Warn("LLM extraction failed, falling back to keywords", "error", err)
	}

	return s.extractKeywords(message, stage)
}

func (s *Service) extractKeywords(message string, stage conversation.Stage) map[string]any {
	extracted := make(map[string]any)

	switch stage {
	case conversation.StageIntentRecognition, conversation.StageCategorySelection:
		extractIntent(message, extracted)
	case conversation.StageDeliveryDetails:
		lower := strings.ToLower(message)
		if strings.Contains(lower, "deliver") || strings.Contains(lower, "address") {
			extracted["delivery_address"] = map[string]any{"raw": message}
		}
	}

	return extracted
}

func extractIntent(message string, extracted map[string]any) {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, "food", "pizza", "burger", "restaurant", "eat", "hungry"):
		extracted["service_type"] = conversation.ServiceFoodDelivery
	case containsAny(lower, "ride", "uber", "lyft", "taxi", "drive"):
		extracted["service_type"] = conversation.ServiceRideHailing
	case containsAny(lower, "grocery", "groceries", "shopping", "store"):
		extracted["service_type"] = conversation.ServiceGroceryDelivery
	}

	switch {
	case strings.Contains(lower, "pizza"):
		extracted["food_type"] = "pizza"
	case containsAny(lower, "burger", "hamburger"):
		extracted["food_type"] = "burger"
	case strings.Contains(lower, "sushi"):
		extracted["food_type"] = "sushi"
	case containsAny(lower, "taco", "mexican"):
		extracted["food_type"] = "mexican"
	}
}

func (s *Service) extractLLM(ctx context.Context, message string, stage conversation.Stage) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, maxExtractDuration)
	defer cancel()

	prompt := fmt.Sprintf(`Extract structured fields from a concierge chat message.
Conversation stage: %s
Known fields: service_type (one of food_delivery, ride_hailing, grocery_delivery), food_type, restaurant_id, items, customizations, delivery_address, delivery_time, pickup_location, destination, vehicle_type, pickup_time, payment_method_id.
Reply with a JSON object containing only the fields present in the message. Reply with {} if none apply.

Message: %s`, stage, message)

	result, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(0))
	if err != nil {
		return nil, fmt.Errorf("failed to generate completion: %w", err)
	}

	result = strings.Trim(result, "`")
	result = strings.TrimSpace(result)
	result = strings.TrimPrefix(result, "json")
	result = strings.TrimSpace(result)

	var extracted map[string]any
	if err = json.Unmarshal([]byte(result), &extracted); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extraction: %w", err)
	}

	return extracted, nil
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}
