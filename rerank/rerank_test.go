package rerank

import (
	"context"
	"slices"
	"testing"

	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/pkg/utils"
)

func items(ids ...int64) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewItem(id))
	}
	return out
}

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name string
		n    int
		in   []int64
		want []int64
	}{
		{"truncate", 2, []int64{3, 1, 2}, []int64{3, 1}},
		{"n larger than input", 5, []int64{3, 1}, []int64{3, 1}},
		{"n zero keeps all", 0, []int64{3, 1}, []int64{3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (&TopNNode{N: tt.n}).Process(context.Background(), nil, items(tt.in...))
			if err != nil {
				t.Fatal(err)
			}
			if got := core.ItemIDs(out); !slices.Equal(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiversity(t *testing.T) {
	catalog, err := core.NewCatalog([]core.Product{
		{ID: 1, Name: "MacBook Pro", Category: "Electronics", Price: 1299.99},
		{ID: 2, Name: "iPhone 15", Category: "Electronics", Price: 999.99},
		{ID: 5, Name: "Wireless Headphones", Category: "Electronics", Price: 199.99},
		{ID: 4, Name: "The Great Gatsby", Category: "Books", Price: 12.99},
	})
	if err != nil {
		t.Fatal(err)
	}

	labeled := items(1, 2, 4, 5, 20, 21, 30)
	labeled[4].PutLabel("category", utils.Label{Value: "Toys"})
	labeled[5].PutLabel("category", utils.Label{Value: "Toys"})

	tests := []struct {
		name string
		node *Diversity
		want []int64
	}{
		{"one per category", &Diversity{Catalog: catalog}, []int64{1, 4, 20, 30}},
		{"two per category", &Diversity{Catalog: catalog, MaxPerCategory: 2}, []int64{1, 2, 4, 20, 21, 30}},
		{"labels only", &Diversity{}, []int64{1, 2, 4, 5, 20, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.node.Process(context.Background(), nil, labeled)
			if err != nil {
				t.Fatal(err)
			}
			if got := core.ItemIDs(out); !slices.Equal(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}
