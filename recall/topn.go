package recall

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/pkg/utils"
)

type scoredItem struct {
	itemID int64
	score  float64
}

// checkN 校验返回条数。
func checkN(n int) error {
	if n < 0 {
		return core.InvalidConfiguration(core.ModuleRecall, fmt.Sprintf("recall: n must be >= 0, got %d", n))
	}
	return nil
}

// scoreCandidates 并发为候选打分，fn 返回 false 表示跳过该候选。
// 结果按候选下标写入各自的槽位，不需要加锁；最终排序在调用方单线程完成。
func scoreCandidates(
	ctx context.Context,
	candidates []int64,
	limit int,
	fn func(itemID int64) (float64, bool),
) ([]scoredItem, error) {
	scores := make([]scoredItem, len(candidates))
	valid := make([]bool, len(candidates))

	eg, egCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, itemID := range candidates {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			s, ok := fn(itemID)
			scores[i] = scoredItem{itemID: itemID, score: s}
			valid[i] = ok
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make([]scoredItem, 0, len(candidates))
	for i, s := range scores {
		if valid[i] {
			out = append(out, s)
		}
	}
	return out, nil
}

// topN 按分数降序、物品 ID 升序排序后截取前 n 个。
// 排序是全序，所以较小 n 的结果总是较大 n 结果的前缀。
func topN(scores []scoredItem, n int) []scoredItem {
	slices.SortFunc(scores, func(a, b scoredItem) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.itemID, b.itemID)
	})
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores
}

// toItems 构建结果并打上召回来源 label。
func toItems(scores []scoredItem, source string, extra map[string]utils.Label) []*core.Item {
	out := make([]*core.Item, 0, len(scores))
	for _, s := range scores {
		it := core.NewItem(s.itemID)
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: source, Source: "recall"})
		for k, v := range extra {
			it.PutLabel(k, v)
		}
		out = append(out, it)
	}
	return out
}
