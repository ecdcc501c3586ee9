package conv

import (
	"slices"
	"testing"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{1.5, 1.5, true},
		{float32(2), 2, true},
		{3, 3, true},
		{int64(4), 4, true},
		{true, 1, true},
		{"1.5", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToFloat64(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ToFloat64(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestConfigGet(t *testing.T) {
	m := map[string]any{
		"name":    "hot",
		"n":       float64(5),
		"limit":   3,
		"ids":     []any{1, int64(2), 3.0, "x"},
		"filters": []any{map[string]any{"type": "blacklist"}},
		"bad":     []any{"x"},
	}
	if got := ConfigGet(m, "name", ""); got != "hot" {
		t.Errorf("name = %q", got)
	}
	if got := ConfigGet(m, "n", ""); got != "" {
		t.Errorf("type mismatch should fall back to default, got %q", got)
	}
	if got := ConfigGetInt(m, "n", 0); got != 5 {
		t.Errorf("n = %d, want 5", got)
	}
	if got := ConfigGetInt(m, "limit", 0); got != 3 {
		t.Errorf("limit = %d, want 3", got)
	}
	if got := ConfigGetInt(nil, "n", 7); got != 7 {
		t.Errorf("nil map = %d, want 7", got)
	}
	if got := SliceAnyToInt64(m["ids"]); !slices.Equal(got, []int64{1, 2, 3}) {
		t.Errorf("ids = %v", got)
	}
	maps, err := ConfigGetMaps(m, "filters")
	if err != nil || len(maps) != 1 || maps[0]["type"] != "blacklist" {
		t.Errorf("filters = %v, %v", maps, err)
	}
	if _, err := ConfigGetMaps(m, "bad"); err == nil {
		t.Error("expected error for non-map element")
	}
	if maps, err := ConfigGetMaps(m, "missing"); err != nil || maps != nil {
		t.Errorf("missing = %v, %v", maps, err)
	}
}
