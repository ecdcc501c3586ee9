package dsl

import (
	"testing"

	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/pkg/utils"
)

func testItem() *core.Item {
	it := core.NewItem(7)
	it.Score = 4.5
	it.Meta["category"] = "Appliances"
	it.PutLabel("recall_source", utils.Label{Value: "User-Based", Source: "recall"})
	return it
}

func TestEval(t *testing.T) {
	rctx := &core.RecommendContext{UserID: 1, Scene: "home", Params: map[string]any{"min_score": 4.0}}

	tests := []struct {
		name    string
		expr    string
		want    bool
		wantErr bool
	}{
		{"empty is true", "", true, false},
		{"score", "item.score >= 4.0", true, false},
		{"score below", "item.score > 5.0", false, false},
		{"id", "item.id == 7", true, false},
		{"label", `label.recall_source == "User-Based"`, true, false},
		{"label exists", `"recall_source" in label`, true, false},
		{"label missing", `"cf_metric" in label`, false, false},
		{"meta", `item.meta.category == "Appliances"`, true, false},
		{"rctx", `rctx.user_id == 1 && rctx.scene == "home"`, true, false},
		{"params", `item.score >= rctx.params.min_score`, true, false},
		{"non boolean", "item.score", false, true},
		{"syntax error", "item.score >=", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.expr, testItem(), rctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompile_InvalidConfiguration(t *testing.T) {
	_, err := Compile("item.score >=")
	if !core.IsInvalidConfiguration(err) {
		t.Errorf("err = %v, want INVALID_CONFIGURATION", err)
	}
}

func TestExpr_NilContext(t *testing.T) {
	e, err := Compile(`rctx.user_id == 0`)
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.Eval(testItem(), nil)
	if err != nil || !got {
		t.Errorf("Eval with nil rctx = %v, %v", got, err)
	}
	if e.String() != `rctx.user_id == 0` {
		t.Errorf("String() = %q", e.String())
	}
}
