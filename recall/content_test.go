package recall

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/rushteam/hybridrec/core"
)

func TestContentRecall_Recommend(t *testing.T) {
	r := NewContentRecall(sampleCatalog(t), sampleProfiles(t))

	tests := []struct {
		name   string
		userID int64
		n      int
		want   []int64
		scores []float64
	}{
		{
			name:   "bob prefers sports and clothing",
			userID: 2,
			n:      3,
			want:   []int64{6, 8},
			scores: []float64{10 + (1-80.01/90)*5, 10 + (1-85.01/90)*5},
		},
		{
			name:   "alice electronics and books within 10..500",
			userID: 1,
			n:      3,
			want:   []int64{5, 4},
			scores: []float64{10 + (1-55.01/245)*5, 10 + (1-242.01/245)*5},
		},
		{
			name:   "truncated",
			userID: 2,
			n:      1,
			want:   []int64{6},
			scores: []float64{10 + (1-80.01/90)*5},
		},
		{
			name:   "unknown user",
			userID: 99,
			n:      3,
			want:   []int64{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := r.Recommend(context.Background(), tt.userID, tt.n)
			if err != nil {
				t.Fatal(err)
			}
			if got := core.ItemIDs(items); !slices.Equal(got, tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i, it := range items {
				if math.Abs(it.Score-tt.scores[i]) > 1e-9 {
					t.Errorf("item %d score = %v, want %v", it.ID, it.Score, tt.scores[i])
				}
			}
		})
	}
}

func TestContentRecall_CandidatesRespectProfile(t *testing.T) {
	catalog := sampleCatalog(t)
	profiles := sampleProfiles(t)
	r := NewContentRecall(catalog, profiles)

	for _, userID := range []int64{1, 2, 3, 4} {
		profile, _ := profiles.Get(userID)
		products, err := r.RecommendProducts(context.Background(), userID, 10)
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range products {
			if !profile.PrefersCategory(p.Category) {
				t.Errorf("user %d got %s outside preferred categories", userID, p.Name)
			}
			if p.Price < profile.PriceRangeMin || p.Price > profile.PriceRangeMax {
				t.Errorf("user %d got %s outside price range", userID, p.Name)
			}
		}
	}
}

func TestContentRecall_DegenerateRange(t *testing.T) {
	catalog, err := core.NewCatalog([]core.Product{
		{ID: 1, Name: "Exact", Category: "Books", Price: 50},
		{ID: 2, Name: "Other", Category: "Books", Price: 51},
	})
	if err != nil {
		t.Fatal(err)
	}
	r := NewContentRecall(catalog, nil)
	profile := &core.UserProfile{ID: 1, Name: "Point", PreferredCategories: []string{"Books"}, PriceRangeMin: 50, PriceRangeMax: 50}

	items, err := r.RecommendFor(context.Background(), profile, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != 1 {
		t.Fatalf("items = %v, want only product 1", core.ItemIDs(items))
	}
	if items[0].Score != 15 {
		t.Errorf("score = %v, want 15", items[0].Score)
	}
}

func TestContentRecall_BoundaryPrices(t *testing.T) {
	catalog, _ := core.NewCatalog([]core.Product{
		{ID: 1, Name: "Low", Category: "Books", Price: 10},
		{ID: 2, Name: "High", Category: "Books", Price: 20},
		{ID: 3, Name: "Mid", Category: "Books", Price: 15},
	})
	r := NewContentRecall(catalog, nil)
	profile := &core.UserProfile{ID: 1, Name: "U", PreferredCategories: []string{"Books"}, PriceRangeMin: 10, PriceRangeMax: 20}

	items, err := r.RecommendFor(context.Background(), profile, 5)
	if err != nil {
		t.Fatal(err)
	}
	// 区间端点包含在内，价格项为 0；同分按 ID 升序
	if got, want := core.ItemIDs(items), []int64{3, 1, 2}; !slices.Equal(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	if items[1].Score != 10 || items[2].Score != 10 {
		t.Errorf("boundary scores = %v, %v; want 10", items[1].Score, items[2].Score)
	}
}

func TestContentRecall_InvertedProfileRange(t *testing.T) {
	r := NewContentRecall(sampleCatalog(t), nil)
	profile := &core.UserProfile{ID: 9, Name: "Inverted", PreferredCategories: []string{"Books"}, PriceRangeMin: 500, PriceRangeMax: 10}

	if _, err := r.RecommendFor(context.Background(), profile, 3); !core.IsInvalidConfiguration(err) {
		t.Errorf("RecommendFor err = %v, want INVALID_CONFIGURATION", err)
	}
	if _, err := r.RecommendFor(context.Background(), profile, 0); !core.IsInvalidConfiguration(err) {
		t.Errorf("RecommendFor n=0 err = %v, want INVALID_CONFIGURATION", err)
	}

	node := &SourceNode{Source: r, N: 3}
	rctx := &core.RecommendContext{UserID: 9, Profile: profile}
	if _, err := node.Process(context.Background(), rctx, nil); !core.IsInvalidConfiguration(err) {
		t.Errorf("Process err = %v, want INVALID_CONFIGURATION", err)
	}
}
