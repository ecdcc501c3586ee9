package main

import (
	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/store"
)

func sampleProducts() []core.Product {
	return []core.Product{
		{ID: 1, Name: "MacBook Pro", Category: "Electronics", Price: 1299.99, Tags: []string{"laptop", "apple", "professional"}},
		{ID: 2, Name: "iPhone 15", Category: "Electronics", Price: 999.99, Tags: []string{"phone", "apple", "mobile"}},
		{ID: 3, Name: "Nike Air Max", Category: "Footwear", Price: 129.99, Tags: []string{"shoes", "nike", "sports"}},
		{ID: 4, Name: "The Great Gatsby", Category: "Books", Price: 12.99, Tags: []string{"fiction", "classic", "literature"}},
		{ID: 5, Name: "Wireless Headphones", Category: "Electronics", Price: 199.99, Tags: []string{"audio", "wireless", "headphones"}},
		{ID: 6, Name: "Running Shorts", Category: "Clothing", Price: 29.99, Tags: []string{"sports", "clothing", "running"}},
		{ID: 7, Name: "Coffee Maker", Category: "Appliances", Price: 79.99, Tags: []string{"coffee", "appliance", "kitchen"}},
		{ID: 8, Name: "Yoga Mat", Category: "Sports", Price: 24.99, Tags: []string{"yoga", "fitness", "exercise"}},
	}
}

func sampleProfiles() []core.UserProfile {
	return []core.UserProfile{
		{ID: 1, Name: "Alice", PreferredCategories: []string{"Electronics", "Books"}, PriceRangeMin: 10, PriceRangeMax: 500},
		{ID: 2, Name: "Bob", PreferredCategories: []string{"Sports", "Clothing"}, PriceRangeMin: 20, PriceRangeMax: 200},
		{ID: 3, Name: "Charlie", PreferredCategories: []string{"Electronics", "Appliances"}, PriceRangeMin: 50, PriceRangeMax: 1500},
		{ID: 4, Name: "Diana", PreferredCategories: []string{"Books", "Sports"}, PriceRangeMin: 15, PriceRangeMax: 300},
	}
}

func sampleRatings() []store.Rating {
	return []store.Rating{
		{UserID: 1, ItemID: 1, Value: 5}, // MacBook Pro
		{UserID: 1, ItemID: 2, Value: 4},
		{UserID: 1, ItemID: 4, Value: 5},
		{UserID: 1, ItemID: 5, Value: 4},

		{UserID: 2, ItemID: 3, Value: 5},
		{UserID: 2, ItemID: 6, Value: 4},
		{UserID: 2, ItemID: 8, Value: 5},
		{UserID: 2, ItemID: 1, Value: 2}, // Bob 不喜欢贵的电子产品

		{UserID: 3, ItemID: 1, Value: 5},
		{UserID: 3, ItemID: 2, Value: 4},
		{UserID: 3, ItemID: 5, Value: 5},
		{UserID: 3, ItemID: 7, Value: 4},

		{UserID: 4, ItemID: 4, Value: 5},
		{UserID: 4, ItemID: 8, Value: 4},
		{UserID: 4, ItemID: 3, Value: 3},
		{UserID: 4, ItemID: 6, Value: 3},
	}
}
