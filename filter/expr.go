package filter

import (
	"context"

	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/pkg/dsl"
)

// ExprFilter 用 CEL 表达式描述"保留"条件：表达式为 false 的物品被过滤。
//
// 示例：
//
//	f, _ := filter.NewExprFilter(`item.score >= 4.0 || label.recall_source == "Content-Based"`)
type ExprFilter struct {
	expr *dsl.Expr
}

// NewExprFilter 编译表达式，语法错误返回 INVALID_CONFIGURATION。
func NewExprFilter(expr string) (*ExprFilter, error) {
	e, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{expr: e}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	keep, err := f.expr.Eval(item, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
