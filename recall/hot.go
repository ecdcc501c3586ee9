package recall

import (
	"context"
	"slices"

	"github.com/goccy/go-json"

	"github.com/rushteam/hybridrec/core"
)

// Hot 是热门召回源，按评分人数从高到低推荐用户没评过的物品，常用于冷启动兜底。
//   - 如果配置了 Store 和 Key，优先从 Store 读取 JSON 数组形式的热门列表（离线计算好的榜单）
//   - 否则根据 Ratings 实时统计评分人数
//   - 都没有时使用内存中的 IDs
//
// 热门分不是预测评分，Scored 返回 false。
type Hot struct {
	Ratings RatingReader
	Store   core.Store
	Key     string  // 存储 key，例如 "hot:items"
	IDs     []int64 // fallback 内存列表
}

func (r *Hot) Name() string  { return "recall.hot" }
func (r *Hot) Label() string { return "Popular" }
func (r *Hot) Scored() bool  { return false }

func (r *Hot) Recommend(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	if err := checkN(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []*core.Item{}, nil
	}

	var rated map[int64]float64
	if r.Ratings != nil {
		rated = r.Ratings.RatingsOfUser(userID)
	}

	scores := r.fromStore(ctx)
	if scores == nil && r.Ratings != nil {
		scores = r.fromRatings()
	}
	if scores == nil {
		scores = make([]scoredItem, 0, len(r.IDs))
		for i, id := range r.IDs {
			scores = append(scores, scoredItem{itemID: id, score: float64(len(r.IDs) - i)})
		}
	}

	scores = slices.DeleteFunc(scores, func(s scoredItem) bool {
		_, ok := rated[s.itemID]
		return ok
	})
	return toItems(topN(scores, n), "hot", nil), nil
}

// fromStore 读取榜单，按榜单顺序给出递减的分数；读取失败返回 nil。
func (r *Hot) fromStore(ctx context.Context) []scoredItem {
	if r.Store == nil || r.Key == "" {
		return nil
	}
	data, err := r.Store.Get(ctx, r.Key)
	if err != nil {
		return nil
	}
	var ids []int64
	if json.Unmarshal(data, &ids) != nil || len(ids) == 0 {
		return nil
	}
	out := make([]scoredItem, 0, len(ids))
	for i, id := range ids {
		out = append(out, scoredItem{itemID: id, score: float64(len(ids) - i)})
	}
	return out
}

func (r *Hot) fromRatings() []scoredItem {
	ids := r.Ratings.ItemIDs()
	out := make([]scoredItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, scoredItem{itemID: id, score: float64(len(r.Ratings.RatingsOfItem(id)))})
	}
	return out
}

var (
	_ Source    = (*Hot)(nil)
	_ Describer = (*Hot)(nil)
)
