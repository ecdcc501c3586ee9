package core

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestDomainError(t *testing.T) {
	base := InvalidConfiguration(ModuleRecall, "n must be >= 0")
	wrapped := fmt.Errorf("user cf: %w", base)

	tests := []struct {
		name string
		err  error
		is   func(error) bool
		want bool
	}{
		{"invalid configuration", base, IsInvalidConfiguration, true},
		{"wrapped", wrapped, IsInvalidConfiguration, true},
		{"wrong code", wrapped, IsInvalidInput, false},
		{"store not found", ErrStoreNotFound, IsNotFound, true},
		{"plain error", errors.New("x"), IsNotFound, false},
		{"nil", nil, IsInvalidConfiguration, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.is(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if !errors.Is(wrapped, &DomainError{Code: ErrorCodeInvalidConfiguration}) {
		t.Error("errors.Is should match on code when module is empty")
	}
	if errors.Is(wrapped, &DomainError{Code: ErrorCodeInvalidConfiguration, Module: ModuleStore}) {
		t.Error("errors.Is should not match a different module")
	}
	if GetDomainError(wrapped).Module != ModuleRecall {
		t.Error("GetDomainError lost the module")
	}
}

func TestNewCatalog(t *testing.T) {
	tests := []struct {
		name     string
		products []Product
		wantErr  bool
		wantIDs  []int64
	}{
		{
			name: "sorted by id",
			products: []Product{
				{ID: 3, Name: "C", Category: "Books", Price: 1},
				{ID: 1, Name: "A", Category: "Books", Price: 2},
			},
			wantIDs: []int64{1, 3},
		},
		{
			name: "duplicate id",
			products: []Product{
				{ID: 1, Name: "A", Category: "Books", Price: 1},
				{ID: 1, Name: "B", Category: "Books", Price: 1},
			},
			wantErr: true,
		},
		{
			name:     "zero id",
			products: []Product{{ID: 0, Name: "A", Category: "Books", Price: 1}},
			wantIDs:  []int64{0},
		},
		{
			name:     "negative price",
			products: []Product{{ID: 1, Name: "A", Category: "Books", Price: -1}},
			wantErr:  true,
		},
		{
			name:     "missing category",
			products: []Product{{ID: 1, Name: "A", Price: 1}},
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCatalog(tt.products)
			if tt.wantErr {
				if !IsInvalidConfiguration(err) {
					t.Fatalf("err = %v, want INVALID_CONFIGURATION", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			var ids []int64
			for _, p := range c.Products() {
				ids = append(ids, p.ID)
			}
			if !slices.Equal(ids, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestCatalog_NilSafe(t *testing.T) {
	var c *Catalog
	if _, ok := c.Get(1); ok {
		t.Error("nil catalog Get should miss")
	}
	if c.Len() != 0 || c.Products() != nil {
		t.Error("nil catalog should be empty")
	}
}

func TestProduct_String(t *testing.T) {
	p := Product{ID: 4, Name: "The Great Gatsby", Category: "Books", Price: 12.99, Tags: []string{"fiction"}}
	want := "Product{id=4, name='The Great Gatsby', category='Books', price=12.99}"
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if !p.HasTag("fiction") || p.HasTag("poetry") {
		t.Error("HasTag mismatch")
	}
}

func TestNewProfiles(t *testing.T) {
	tests := []struct {
		name     string
		profiles []UserProfile
		wantErr  bool
	}{
		{"valid", []UserProfile{{ID: 1, Name: "Alice", PriceRangeMin: 10, PriceRangeMax: 500}}, false},
		{"degenerate range", []UserProfile{{ID: 1, PriceRangeMin: 50, PriceRangeMax: 50}}, false},
		{"inverted range", []UserProfile{{ID: 1, PriceRangeMin: 500, PriceRangeMax: 10}}, true},
		{"negative min", []UserProfile{{ID: 1, PriceRangeMin: -5, PriceRangeMax: 10}}, true},
		{"zero id", []UserProfile{{ID: 0, PriceRangeMin: 1, PriceRangeMax: 10}}, false},
		{"duplicate", []UserProfile{{ID: 1, PriceRangeMax: 1}, {ID: 1, PriceRangeMax: 2}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProfiles(tt.profiles)
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsInvalidConfiguration(err) {
				t.Errorf("err = %v, want INVALID_CONFIGURATION", err)
			}
		})
	}
}

func TestUserProfile_Preferences(t *testing.T) {
	p := &UserProfile{ID: 2, PreferredCategories: []string{"Sports", "Clothing"}, PriceRangeMin: 20, PriceRangeMax: 200}

	tests := []struct {
		name  string
		price float64
		want  bool
	}{
		{"lower bound", 20, true},
		{"upper bound", 200, true},
		{"inside", 29.99, true},
		{"below", 19.99, false},
		{"above", 200.01, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.InPriceRange(tt.price); got != tt.want {
				t.Errorf("InPriceRange(%v) = %v", tt.price, got)
			}
		})
	}
	if !p.PrefersCategory("Sports") || p.PrefersCategory("Books") {
		t.Error("PrefersCategory mismatch")
	}

	var none *UserProfile
	if none.PrefersCategory("Sports") || none.InPriceRange(1) {
		t.Error("nil profile should prefer nothing")
	}
}
