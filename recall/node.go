package recall

import (
	"context"

	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/pipeline"
	"github.com/rushteam/hybridrec/pkg/conv"
)

// SourceNode 把单个 Source 包装成 Recall Node，便于在 Pipeline 中单独使用某个召回源。
type SourceNode struct {
	Source Source

	// N 返回条数，可被 rctx.Params["limit"] 覆盖
	N int
}

func (n *SourceNode) Name() string        { return n.Source.Name() }
func (n *SourceNode) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *SourceNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}
	limit := n.N
	if limit <= 0 {
		limit = core.DefaultTopN
	}
	if v, ok := rctx.Param("limit"); ok {
		if l, ok := conv.ToInt(v); ok {
			limit = l
		}
	}

	// 上下文里带了画像时，内容召回直接使用它
	if content, ok := n.Source.(*ContentRecall); ok && rctx.Profile != nil {
		return content.RecommendFor(ctx, rctx.Profile, limit)
	}
	return n.Source.Recommend(ctx, rctx.UserID, limit)
}

var _ pipeline.Node = (*SourceNode)(nil)
