package rerank

import (
	"context"

	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/pipeline"
)

// Diversity 是按类目打散的 ReRank：同一类目最多保留 MaxPerCategory 个，保持原有顺序。
// 类别来源优先级：
// - Catalog 中商品的 Category
// - label[LabelKey].Value
// - meta[LabelKey] (string)
// 取不到类别的物品原样保留。
type Diversity struct {
	Catalog        *core.Catalog
	LabelKey       string // 默认 "category"
	MaxPerCategory int    // 默认 1
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	limit := n.MaxPerCategory
	if limit <= 0 {
		limit = 1
	}

	seen := make(map[string]int, 16)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}

		cate := n.category(it)
		if cate == "" {
			out = append(out, it)
			continue
		}
		if seen[cate] >= limit {
			continue
		}
		seen[cate]++
		out = append(out, it)
	}

	return out, nil
}

func (n *Diversity) category(it *core.Item) string {
	if p, ok := n.Catalog.Get(it.ID); ok {
		return p.Category
	}
	key := n.LabelKey
	if key == "" {
		key = "category"
	}
	if lbl, ok := it.GetLabel(key); ok && lbl.Value != "" {
		return lbl.Value
	}
	if v, ok := it.Meta[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
