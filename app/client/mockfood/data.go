package mockfood

import "concierge/app/service/provider"

type restaurant struct {
	ID           string
	Name         string
	Description  string
	Category     string
	Rating       float64
	PriceLevel   int
	DeliveryTime int
	DeliveryFee  float64
	MinimumOrder float64
	Tags         []string
	ImageURL     string
	Menu         []provider.MenuItem
}

var restaurants = []restaurant{
	{
		ID:           "rest_1",
		Name:         "Papa's Pizza Palace",
		Description:  "Authentic Italian pizza made fresh daily",
		Category:     "Italian",
		Rating:       4.7,
		PriceLevel:   2,
		DeliveryTime: 30,
		DeliveryFee:  2.99,
		MinimumOrder: 15.00,
		Tags:         []string{"Pizza", "Italian", "Fast Delivery"},
		ImageURL:     "https://example.com/papas-pizza.jpg",
		Menu: []provider.MenuItem{
			{ID: "item_1", Name: "Pepperoni Pizza", Price: 18.99, Size: "Large"},
			{ID: "item_2", Name: "Margherita Pizza", Price: 16.99, Size: "Large"},
			{ID: "item_3", Name: "Hawaiian Pizza", Price: 19.99, Size: "Large"},
			{ID: "item_4", Name: "Veggie Supreme", Price: 17.99, Size: "Large"},
			{ID: "item_5", Name: "Caesar Salad", Price: 8.99},
			{ID: "item_6", Name: "Garlic Bread", Price: 5.99},
		},
	},
	{
		ID:           "rest_2",
		Name:         "Burger Kingdom",
		Description:  "Gourmet burgers and shakes",
		Category:     "American",
		Rating:       4.5,
		PriceLevel:   2,
		DeliveryTime: 25,
		DeliveryFee:  3.49,
		MinimumOrder: 12.00,
		Tags:         []string{"Burgers", "American", "Fast Food"},
		ImageURL:     "https://example.com/burger-kingdom.jpg",
		Menu: []provider.MenuItem{
			{ID: "item_7", Name: "Classic Cheeseburger", Price: 12.99},
			{ID: "item_8", Name: "Bacon BBQ Burger", Price: 14.99},
			{ID: "item_9", Name: "Veggie Burger", Price: 11.99},
			{ID: "item_10", Name: "Chicken Sandwich", Price: 13.99},
			{ID: "item_11", Name: "Fries", Price: 4.99},
			{ID: "item_12", Name: "Milkshake", Price: 5.99},
		},
	},
	{
		ID:           "rest_3",
		Name:         "Sushi Sensation",
		Description:  "Fresh sushi and Japanese cuisine",
		Category:     "Japanese",
		Rating:       4.8,
		PriceLevel:   3,
		DeliveryTime: 40,
		DeliveryFee:  4.99,
		MinimumOrder: 20.00,
		Tags:         []string{"Sushi", "Japanese", "Healthy"},
		ImageURL:     "https://example.com/sushi-sensation.jpg",
		Menu: []provider.MenuItem{
			{ID: "item_13", Name: "California Roll", Price: 12.99},
			{ID: "item_14", Name: "Spicy Tuna Roll", Price: 14.99},
			{ID: "item_15", Name: "Rainbow Roll", Price: 16.99},
			{ID: "item_16", Name: "Salmon Sashimi", Price: 18.99},
			{ID: "item_17", Name: "Edamame", Price: 5.99},
			{ID: "item_18", Name: "Miso Soup", Price: 3.99},
		},
	},
	{
		ID:           "rest_4",
		Name:         "Taco Fiesta",
		Description:  "Authentic Mexican street food",
		Category:     "Mexican",
		Rating:       4.6,
		PriceLevel:   1,
		DeliveryTime: 20,
		DeliveryFee:  2.49,
		MinimumOrder: 10.00,
		Tags:         []string{"Mexican", "Tacos", "Budget-Friendly"},
		ImageURL:     "https://example.com/taco-fiesta.jpg",
		Menu: []provider.MenuItem{
			{ID: "item_19", Name: "Street Tacos (3pc)", Price: 9.99},
			{ID: "item_20", Name: "Burrito Bowl", Price: 11.99},
			{ID: "item_21", Name: "Quesadilla", Price: 10.99},
			{ID: "item_22", Name: "Nachos Supreme", Price: 12.99},
			{ID: "item_23", Name: "Guacamole & Chips", Price: 6.99},
			{ID: "item_24", Name: "Horchata", Price: 3.99},
		},
	},
	{
		ID:           "rest_5",
		Name:         "Thai Orchid",
		Description:  "Traditional Thai flavors",
		Category:     "Thai",
		Rating:       4.7,
		PriceLevel:   2,
		DeliveryTime: 35,
		DeliveryFee:  3.99,
		MinimumOrder: 15.00,
		Tags:         []string{"Thai", "Asian", "Spicy"},
		ImageURL:     "https://example.com/thai-orchid.jpg",
		Menu: []provider.MenuItem{
			{ID: "item_25", Name: "Pad Thai", Price: 13.99},
			{ID: "item_26", Name: "Green Curry", Price: 14.99},
			{ID: "item_27", Name: "Tom Yum Soup", Price: 12.99},
			{ID: "item_28", Name: "Spring Rolls", Price: 6.99},
			{ID: "item_29", Name: "Mango Sticky Rice", Price: 7.99},
		},
	},
}
