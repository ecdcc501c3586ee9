package store

import (
	"slices"
	"testing"
)

func sampleStore() *RatingStore {
	return NewRatingStoreFrom([]Rating{
		{1, 1, 5}, {1, 2, 4}, {1, 4, 5}, {1, 5, 4},
		{2, 3, 5}, {2, 6, 4}, {2, 8, 5}, {2, 1, 2},
		{3, 1, 5}, {3, 2, 4}, {3, 5, 5}, {3, 7, 4},
		{4, 4, 5}, {4, 8, 4}, {4, 3, 3}, {4, 6, 3},
	})
}

func TestRatingStore_AddRating(t *testing.T) {
	s := NewRatingStore()
	s.AddRating(1, 10, 3)
	s.AddRating(1, 10, 4.5) // 覆盖
	s.AddRating(2, 10, 1)

	if got := s.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if v, ok := s.Rating(1, 10); !ok || v != 4.5 {
		t.Errorf("Rating(1, 10) = %v, %v; want 4.5, true", v, ok)
	}
	// 两份索引保持一致
	if got := s.RatingsOfItem(10)[1]; got != 4.5 {
		t.Errorf("RatingsOfItem(10)[1] = %v, want 4.5", got)
	}
	if got := s.Version(); got != 3 {
		t.Errorf("Version() = %d, want 3", got)
	}
}

func TestRatingStore_Lookups(t *testing.T) {
	s := sampleStore()

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"users", s.NumUsers(), 4},
		{"items", s.NumItems(), 8},
		{"ratings", s.Len(), 16},
		{"ratings of user 2", len(s.RatingsOfUser(2)), 4},
		{"raters of item 1", s.NumRatersOfItem(1), 3},
		{"unknown user", len(s.RatingsOfUser(99)), 0},
		{"unknown item", len(s.RatingsOfItem(99)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestRatingStore_CopiesAreIsolated(t *testing.T) {
	s := sampleStore()
	m := s.RatingsOfUser(1)
	m[100] = 1
	delete(m, 1)

	if _, ok := s.Rating(1, 100); ok {
		t.Error("mutating returned map leaked into the store")
	}
	if _, ok := s.Rating(1, 1); !ok {
		t.Error("deleting from returned map removed a stored rating")
	}
}

func TestRatingStore_IDSequences(t *testing.T) {
	s := NewRatingStore()
	s.AddRating(3, 30, 1)
	s.AddRating(1, 20, 1)
	s.AddRating(2, 10, 1)

	users := slices.Collect(s.AllUserIDs())
	if want := []int64{1, 2, 3}; !slices.Equal(users, want) {
		t.Errorf("AllUserIDs() = %v, want %v", users, want)
	}
	// 可重复迭代
	if again := slices.Collect(s.AllUserIDs()); !slices.Equal(again, users) {
		t.Errorf("second iteration = %v, want %v", again, users)
	}
	items := slices.Collect(s.AllItemIDs())
	if want := []int64{10, 20, 30}; !slices.Equal(items, want) {
		t.Errorf("AllItemIDs() = %v, want %v", items, want)
	}

	// 提前结束迭代
	var first []int64
	for id := range s.AllItemIDs() {
		first = append(first, id)
		break
	}
	if len(first) != 1 || first[0] != 10 {
		t.Errorf("early break = %v, want [10]", first)
	}
}

func TestRatingStore_Ratings(t *testing.T) {
	s := NewRatingStore()
	s.AddRating(2, 1, 3)
	s.AddRating(1, 5, 4)
	s.AddRating(1, 2, 5)

	want := []Rating{{1, 2, 5}, {1, 5, 4}, {2, 1, 3}}
	if got := s.Ratings(); !slices.Equal(got, want) {
		t.Errorf("Ratings() = %v, want %v", got, want)
	}
}
