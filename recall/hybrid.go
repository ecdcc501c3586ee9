package recall

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/pipeline"
	"github.com/rushteam/hybridrec/pkg/conv"
	"github.com/rushteam/hybridrec/pkg/utils"
)

// HybridItem 是混合推荐的一条输出。
// HasScore 为 false 时 Score 无意义（内容推荐不产出预测评分）。
// Priority 是来源在 Sources 中的下标，同名来源也各自区分。
type HybridItem struct {
	Source   string  `json:"source"`
	ItemID   int64   `json:"item_id"`
	Score    float64 `json:"score,omitempty"`
	HasScore bool    `json:"has_score"`
	Priority int     `json:"priority"`
}

// Hybrid 是混合推荐：并发执行多个召回源，再按固定优先级合并。
//
//   - 每个召回源请求 ⌊n/2⌋ 条
//   - 合并顺序即 Sources 顺序（默认 用户协同 → 物品协同 → 内容），与完成先后无关
//   - 按物品 ID 去重，先出现者胜出并保留来源
//   - 最终截断到 n 条，不足时全部返回
//
// 单个召回源出错时记录日志并按空结果处理，不中断其他召回源。
type Hybrid struct {
	Sources []Source

	// Catalog 非空时，跳过不在商品目录中的物品
	Catalog *core.Catalog

	// N 作为 Pipeline Node 使用时的返回条数（可被 rctx.Params["limit"] 覆盖）
	N int

	// Timeout 每个召回源的超时时间，0 表示不限制
	Timeout time.Duration

	logger zerolog.Logger
}

// NewHybrid 按优先级顺序组合召回源。
func NewHybrid(logger zerolog.Logger, sources ...Source) *Hybrid {
	return &Hybrid{
		Sources: sources,
		N:       core.DefaultTopN,
		logger:  logger.With().Str("component", "recall.hybrid").Logger(),
	}
}

func (h *Hybrid) Name() string        { return "recall.hybrid" }
func (h *Hybrid) Kind() pipeline.Kind { return pipeline.KindRecall }

func (h *Hybrid) Recommend(ctx context.Context, userID int64, n int) ([]HybridItem, error) {
	if err := checkN(n); err != nil {
		return nil, err
	}
	if n == 0 || len(h.Sources) == 0 {
		return []HybridItem{}, nil
	}

	results, err := h.fanout(ctx, userID, n/2)
	if err != nil {
		return nil, err
	}
	return h.merge(results, n), nil
}

// fanout 并发请求每个召回源，结果按源下标落位。
func (h *Hybrid) fanout(ctx context.Context, userID int64, perSource int) ([][]*core.Item, error) {
	results := make([][]*core.Item, len(h.Sources))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, src := range h.Sources {
		eg.Go(func() error {
			recallCtx := egCtx
			if h.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, h.Timeout)
				defer cancel()
			}

			start := time.Now()
			items, err := src.Recommend(recallCtx, userID, perSource)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				h.logger.Warn().
					Err(err).
					Str("source", src.Name()).
					Int64("user_id", userID).
					Msg("recall source failed, skipped")
				return nil
			}

			h.logger.Debug().
				Str("source", src.Name()).
				Int64("user_id", userID).
				Int("returned", len(items)).
				Dur("latency", time.Since(start)).
				Msg("recall source done")
			results[i] = items
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (h *Hybrid) merge(results [][]*core.Item, n int) []HybridItem {
	seen := make(map[int64]struct{}, n)
	out := make([]HybridItem, 0, n)
	for i, items := range results {
		src := h.Sources[i]
		label := sourceLabel(src)
		scored := sourceScored(src)
		for _, it := range items {
			if it == nil {
				continue
			}
			if _, dup := seen[it.ID]; dup {
				continue
			}
			if h.Catalog != nil {
				if _, ok := h.Catalog.Get(it.ID); !ok {
					continue
				}
			}
			seen[it.ID] = struct{}{}
			hi := HybridItem{Source: label, ItemID: it.ID, Priority: i}
			if scored {
				hi.Score = it.Score
				hi.HasScore = true
			}
			out = append(out, hi)
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Process 实现 pipeline.Node，把混合结果转换为带来源 label 的 Item。
func (h *Hybrid) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}
	n := h.N
	if v, ok := rctx.Param("limit"); ok {
		if limit, ok := conv.ToInt(v); ok {
			n = limit
		}
	}

	merged, err := h.Recommend(ctx, rctx.UserID, n)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(merged))
	for _, m := range merged {
		it := core.NewItem(m.ItemID)
		it.Score = m.Score
		it.Meta["has_score"] = m.HasScore
		it.PutLabel("recall_source", utils.Label{Value: m.Source, Source: "recall"})
		it.PutLabel("recall_priority", utils.Label{Value: strconv.Itoa(m.Priority), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var _ pipeline.Node = (*Hybrid)(nil)
