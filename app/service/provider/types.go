package provider

import (
	"time"
)

type Category string

const (
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryGrocery        Category = "grocery"
	CategoryHomeService    Category = "home_service"
	CategoryShopping       Category = "shopping"
	CategoryHealthcare     Category = "healthcare"
	CategoryEntertainment  Category = "entertainment"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type SearchCriteria struct {
	Category Category       `json:"category" validate:"required"`
	Query    string         `json:"query,omitempty"`
	Location *Location      `json:"location,omitempty"`
	Filters  map[string]any `json:"filters,omitempty"`
	Limit    int            `json:"limit" validate:"gte=0"`
}

// ServiceOption is a single offering (restaurant, ride tier, store) returned
// by a provider search. Rating 0 means unrated, DeliveryTimeMinutes <= 0 means
// unknown; both rank last during aggregation.
type ServiceOption struct {
	ID                  string         `json:"id"`
	Provider            string         `json:"provider"`
	Name                string         `json:"name"`
	Description         string         `json:"description,omitempty"`
	Category            string         `json:"category"`
	ImageURL            string         `json:"image_url,omitempty"`
	Rating              float64        `json:"rating,omitempty"`
	PriceLevel          int            `json:"price_level,omitempty"`
	DeliveryTimeMinutes int            `json:"delivery_time,omitempty"`
	DeliveryFee         float64        `json:"delivery_fee,omitempty"`
	MinimumOrder        float64        `json:"minimum_order,omitempty"`
	Tags                []string       `json:"tags,omitempty"`
	DistanceKm          float64        `json:"distance,omitempty"`
	Available           bool           `json:"available"`
	Metadata            map[string]any `json:"metadata,omitempty"`
}

type MenuItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Size  string  `json:"size,omitempty"`
}

type ServiceDetails struct {
	ID           string            `json:"id"`
	Provider     string            `json:"provider"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	MenuItems    []MenuItem        `json:"menu_items,omitempty"`
	Options      []map[string]any  `json:"options,omitempty"`
	Pricing      map[string]any    `json:"pricing,omitempty"`
	Availability map[string]any    `json:"availability,omitempty"`
	Location     *Location         `json:"location,omitempty"`
	Contact      map[string]string `json:"contact,omitempty"`
	Images       []string          `json:"images,omitempty"`
	Reviews      map[string]any    `json:"reviews,omitempty"`
}

type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type OrderRequest struct {
	ServiceID           string            `json:"service_id" validate:"required"`
	Provider            string            `json:"provider"`
	Items               []OrderItem       `json:"items" validate:"required,min=1"`
	Customizations      map[string]any    `json:"customizations,omitempty"`
	DeliveryAddress     map[string]any    `json:"delivery_address"`
	DeliveryTime        string            `json:"delivery_time,omitempty"`
	PaymentMethodID     string            `json:"payment_method_id" validate:"required"`
	SpecialInstructions string            `json:"special_instructions,omitempty"`
	TipAmount           float64           `json:"tip_amount,omitempty"`
	UserID              string            `json:"user_id"`
	Contact             map[string]string `json:"contact,omitempty"`
}

type Order struct {
	OrderID               string         `json:"order_id"`
	Provider              string         `json:"provider"`
	ProviderOrderID       string         `json:"provider_order_id"`
	Status                string         `json:"status"`
	ServiceName           string         `json:"service_name"`
	Items                 []OrderItem    `json:"items"`
	Subtotal              float64        `json:"subtotal"`
	DeliveryFee           float64        `json:"delivery_fee"`
	Tax                   float64        `json:"tax"`
	Tip                   float64        `json:"tip"`
	Total                 float64        `json:"total"`
	Currency              string         `json:"currency"`
	EstimatedDeliveryTime time.Time      `json:"estimated_delivery_time"`
	DeliveryAddress       map[string]any `json:"delivery_address"`
	TrackingURL           string         `json:"tracking_url,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
}

type OrderStatusUpdate struct {
	OrderID          string    `json:"order_id"`
	Status           string    `json:"status"`
	Message          string    `json:"message"`
	Timestamp        time.Time `json:"timestamp"`
	DriverLocation   *Location `json:"driver_location,omitempty"`
	EstimatedMinutes int       `json:"estimated_minutes,omitempty"`
}

type CostEstimate struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}
