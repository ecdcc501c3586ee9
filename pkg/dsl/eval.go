package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/hybridrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Expr 是编译好的 Label DSL 表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次，可在多个 goroutine 中并发求值。
//
// 可用变量：
//   - item.id / item.score / item.meta / item.labels
//   - label.<key>：等价于 item.labels.<key>.value
//   - rctx.user_id / rctx.scene / rctx.params
//
// 示例：
//   - `item.score >= 4.0`
//   - `label.recall_source == "Content-Based"`
//   - `label.recall_source != "Item-Based" && item.id != 7`
//   - `"cf_metric" in label`（检查是否存在）
type Expr struct {
	src string
	prg cel.Program
}

// Compile 编译表达式，表达式必须返回 bool。
func Compile(expr string) (*Expr, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, core.InvalidConfiguration(core.ModulePipeline, fmt.Sprintf("compile %q: %v", expr, issues.Err()))
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Expr{src: expr, prg: prg}, nil
}

func (e *Expr) String() string { return e.src }

// Eval 对单个 item 求值。访问不存在的 label key 会返回错误，
// 需要时先用 `"key" in label` 判断。
func (e *Expr) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := e.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", e.src, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return boolean, got %T", e.src, out.Value())
	}
	return result, nil
}

// Eval 是一次性求值的便捷函数：编译并执行表达式。空表达式视为 true。
func Eval(expr string, item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if expr == "" {
		return true, nil
	}
	e, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return e.Eval(item, rctx)
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	labelAccessor := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = map[string]any{
			"value":  v.Value,
			"source": v.Source,
		}
		labelAccessor[k] = v.Value
	}

	meta := item.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	itemInput := map[string]any{
		"id":     item.ID,
		"score":  item.Score,
		"meta":   meta,
		"labels": labels,
	}

	rctxInput := map[string]any{
		"user_id": int64(0),
		"scene":   "",
		"params":  map[string]any{},
	}
	if rctx != nil {
		rctxInput["user_id"] = rctx.UserID
		rctxInput["scene"] = rctx.Scene
		if rctx.Params != nil {
			rctxInput["params"] = rctx.Params
		}
	}

	return map[string]any{
		"item":  itemInput,
		"label": labelAccessor,
		"rctx":  rctxInput,
	}
}
