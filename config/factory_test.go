package config

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/pipeline"
	"github.com/rushteam/hybridrec/store"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	catalog, err := core.NewCatalog([]core.Product{
		{ID: 1, Name: "MacBook Pro", Category: "Electronics", Price: 1299.99},
		{ID: 2, Name: "iPhone 15", Category: "Electronics", Price: 999.99},
		{ID: 3, Name: "Nike Air Max", Category: "Footwear", Price: 129.99},
		{ID: 4, Name: "The Great Gatsby", Category: "Books", Price: 12.99},
		{ID: 5, Name: "Wireless Headphones", Category: "Electronics", Price: 199.99},
		{ID: 6, Name: "Running Shorts", Category: "Clothing", Price: 29.99},
		{ID: 7, Name: "Coffee Maker", Category: "Appliances", Price: 79.99},
		{ID: 8, Name: "Yoga Mat", Category: "Sports", Price: 24.99},
	})
	if err != nil {
		t.Fatal(err)
	}
	profiles, err := core.NewProfiles([]core.UserProfile{
		{ID: 1, Name: "Alice", PreferredCategories: []string{"Electronics", "Books"}, PriceRangeMin: 10, PriceRangeMax: 500},
		{ID: 2, Name: "Bob", PreferredCategories: []string{"Sports", "Clothing"}, PriceRangeMin: 20, PriceRangeMax: 200},
	})
	if err != nil {
		t.Fatal(err)
	}
	ratings := store.NewRatingStoreFrom([]store.Rating{
		{UserID: 1, ItemID: 1, Value: 5}, {UserID: 1, ItemID: 2, Value: 4}, {UserID: 1, ItemID: 4, Value: 5}, {UserID: 1, ItemID: 5, Value: 4},
		{UserID: 2, ItemID: 3, Value: 5}, {UserID: 2, ItemID: 6, Value: 4}, {UserID: 2, ItemID: 8, Value: 5}, {UserID: 2, ItemID: 1, Value: 2},
		{UserID: 3, ItemID: 1, Value: 5}, {UserID: 3, ItemID: 2, Value: 4}, {UserID: 3, ItemID: 5, Value: 5}, {UserID: 3, ItemID: 7, Value: 4},
		{UserID: 4, ItemID: 4, Value: 5}, {UserID: 4, ItemID: 8, Value: 4}, {UserID: 4, ItemID: 3, Value: 3}, {UserID: 4, ItemID: 6, Value: 3},
	})
	return Deps{
		Ratings:  ratings,
		Catalog:  catalog,
		Profiles: profiles,
		Store:    store.NewMemoryStore(),
		Logger:   zerolog.Nop(),
	}
}

func build(t *testing.T, factory *pipeline.NodeFactory, yaml string) (*pipeline.Pipeline, error) {
	t.Helper()
	cfg, err := pipeline.ParseYAML(strings.NewReader(yaml))
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidatePipelineConfig(factory, cfg); err != nil {
		return nil, err
	}
	return cfg.BuildPipeline(factory)
}

func TestDefaultFactory_HybridPipeline(t *testing.T) {
	factory := DefaultFactory(testDeps(t))
	p, err := build(t, factory, `
pipeline:
  name: hybrid
  nodes:
    - type: recall.hybrid
      config: {n: 5}
    - type: filter
      config:
        filters:
          - {type: price_range}
    - type: rerank.topn
      config: {n: 2}
`)
	if err != nil {
		t.Fatal(err)
	}

	// 混合结果 [4, 7, 2, 6, 8]，价格区间 [20, 200] 过滤掉 4 和 2
	out, err := p.Run(context.Background(), &core.RecommendContext{UserID: 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := core.ItemIDs(out), []int64{7, 6}; !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestDefaultFactory_SourceNodes(t *testing.T) {
	factory := DefaultFactory(testDeps(t))

	tests := []struct {
		name   string
		yaml   string
		userID int64
		want   []int64
	}{
		{
			name:   "user cf",
			yaml:   "pipeline:\n  nodes:\n    - type: recall.user_cf\n      config: {n: 3}\n",
			userID: 1,
			want:   []int64{7},
		},
		{
			name:   "user cf with high threshold",
			yaml:   "pipeline:\n  nodes:\n    - type: recall.user_cf\n      config: {n: 3, threshold: 0.9}\n",
			userID: 1,
			want:   []int64{},
		},
		{
			name:   "content",
			yaml:   "pipeline:\n  nodes:\n    - type: recall.content\n      config: {n: 3}\n",
			userID: 2,
			want:   []int64{6, 8},
		},
		{
			name:   "hot with static ids and blacklist",
			yaml:   "pipeline:\n  nodes:\n    - type: recall.hot\n      config: {n: 3, key: missing}\n    - type: filter\n      config:\n        filters:\n          - {type: blacklist, ids: [6]}\n",
			userID: 1,
			want:   []int64{3, 8},
		},
		{
			name:   "expr filter and diversity",
			yaml:   "pipeline:\n  nodes:\n    - type: recall.item_cf\n      config: {n: 4}\n    - type: filter\n      config:\n        filters:\n          - {type: expr, expr: 'item.score >= 4.0'}\n    - type: rerank.diversity\n",
			userID: 1,
			want:   []int64{7, 3, 6, 8},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := build(t, factory, tt.yaml)
			if err != nil {
				t.Fatal(err)
			}
			out, err := p.Run(context.Background(), &core.RecommendContext{UserID: tt.userID}, nil)
			if err != nil {
				t.Fatal(err)
			}
			if got := core.ItemIDs(out); !slices.Equal(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultFactory_Errors(t *testing.T) {
	factory := DefaultFactory(testDeps(t))

	tests := []struct {
		name string
		yaml string
	}{
		{"unknown node", "pipeline:\n  nodes:\n    - type: rank.lr\n"},
		{"empty type", "pipeline:\n  nodes:\n    - config: {n: 1}\n"},
		{"unknown filter", "pipeline:\n  nodes:\n    - type: filter\n      config:\n        filters:\n          - {type: exposed}\n"},
		{"bad expr", "pipeline:\n  nodes:\n    - type: filter\n      config:\n        filters:\n          - {type: expr, expr: 'item.score >'}\n"},
		{"unknown hybrid source", "pipeline:\n  nodes:\n    - type: recall.hybrid\n      config: {sources: [user_cf, mf]}\n"},
		{"bad threshold", "pipeline:\n  nodes:\n    - type: recall.user_cf\n      config: {threshold: high}\n"},
		{"negative topn", "pipeline:\n  nodes:\n    - type: rerank.topn\n      config: {n: -1}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := build(t, factory, tt.yaml); !core.IsInvalidConfiguration(err) {
				t.Errorf("err = %v, want INVALID_CONFIGURATION", err)
			}
		})
	}
}

func TestValidatePipelineConfig_ListsSupportedTypes(t *testing.T) {
	factory := DefaultFactory(testDeps(t))
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "rank.lr"}}

	err := ValidatePipelineConfig(factory, cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, s := range []string{"rank.lr", "recall.hybrid", "rerank.topn"} {
		if !strings.Contains(err.Error(), s) {
			t.Errorf("error %q does not mention %s", err, s)
		}
	}
}
