package recall

import (
	"context"
	"maps"
	"math"
	"slices"

	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/pkg/utils"
	"github.com/rushteam/hybridrec/similarity"
)

// UserBasedCF 是基于用户的协同过滤召回源（User-based Collaborative Filtering, User-CF）。
//
// 核心思想："兴趣相似的用户，喜欢相似的物品"
//
// 算法流程：
//  1. 用 Pearson 相关系数计算目标用户与其他用户的相似度
//  2. 取相似度 >= 阈值的用户作为邻域（u2u）
//  3. 候选 = 邻居评过分、目标用户没评过的物品
//  4. 预测分 = Σ sim(u,v)·r(v,i) / Σ |sim(u,v)|，只统计评过该物品的邻居
//  5. 按预测分降序（同分按物品 ID 升序）取 TopN
//
// 在召回链路中的位置：
//   - u2u → u2i 工程拆分中的 u2i 一侧
//   - Label：recall_source=u2i
type UserBasedCF struct {
	ratings      RatingReader
	similarity   similarity.UserSimilarity
	neighborhood *ThresholdNeighborhood
	parallelism  int
}

// NewUserBasedCF 创建用户协同过滤召回源。默认使用 Pearson 相似度、阈值 0.1。
func NewUserBasedCF(ratings RatingReader, opts ...Option) (*UserBasedCF, error) {
	if ratings == nil {
		return nil, core.InvalidConfiguration(core.ModuleRecall, "user cf: rating reader is required")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	sim := o.userSimilarity
	if sim == nil {
		sim = &similarity.Pearson{Source: ratings, MinCommonItems: o.minCommonItems}
	}
	nb, err := NewThresholdNeighborhood(sim, ratings, o.threshold)
	if err != nil {
		return nil, err
	}
	return &UserBasedCF{
		ratings:      ratings,
		similarity:   sim,
		neighborhood: nb,
		parallelism:  o.parallelism,
	}, nil
}

func (r *UserBasedCF) Name() string {
	return "recall.u2i" // 工业标准命名：u2i (User-to-Item)
}

func (r *UserBasedCF) Label() string { return "User-Based" }
func (r *UserBasedCF) Scored() bool  { return true }

// Neighborhood 返回内部使用的邻域选择器。
func (r *UserBasedCF) Neighborhood() *ThresholdNeighborhood {
	return r.neighborhood
}

func (r *UserBasedCF) Recommend(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	if err := checkN(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []*core.Item{}, nil
	}

	// 获取目标用户的评分，未知用户直接返回空
	targetItems := r.ratings.RatingsOfUser(userID)
	if len(targetItems) == 0 {
		return []*core.Item{}, nil
	}

	neighbors, err := r.neighborhood.NeighborsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return []*core.Item{}, nil
	}

	// 收集邻居评分；候选 = 邻居评过 - 目标用户评过
	neighborItems := make([]map[int64]float64, len(neighbors))
	candidateSet := make(map[int64]struct{})
	for k, nb := range neighbors {
		items := r.ratings.RatingsOfUser(nb.UserID)
		neighborItems[k] = items
		for itemID := range items {
			if _, rated := targetItems[itemID]; rated {
				continue
			}
			candidateSet[itemID] = struct{}{}
		}
	}
	candidates := slices.Sorted(maps.Keys(candidateSet))

	scores, err := scoreCandidates(ctx, candidates, r.parallelism, func(itemID int64) (float64, bool) {
		// 加权平均：邻居按相似度降序遍历，求和顺序固定
		var weighted, totalWeight float64
		for k, nb := range neighbors {
			rating, ok := neighborItems[k][itemID]
			if !ok {
				continue
			}
			weighted += nb.Similarity * rating
			totalWeight += math.Abs(nb.Similarity)
		}
		if totalWeight == 0 {
			return 0, false
		}
		return weighted / totalWeight, true
	})
	if err != nil {
		return nil, err
	}

	return toItems(topN(scores, n), "u2i", map[string]utils.Label{
		"cf_metric": {Value: r.similarity.Name(), Source: "recall"},
	}), nil
}

// ItemBasedCF 是基于物品的协同过滤召回源（Item-based Collaborative Filtering, Item-CF）。
//
// 核心思想："被同一批用户喜欢的物品，相互相似"
//
// 算法流程：
//  1. R = 目标用户评过分的物品
//  2. 候选 = 全部物品 - R
//  3. 预测分 = Σ sim(c,r)·rating(r) / Σ |sim(c,r)|，只统计相似度有定义的 r ∈ R
//  4. 没有任何有定义相似度的候选被跳过
//
// 默认使用对数似然相似度（只看是否评分，不看分值）。
type ItemBasedCF struct {
	ratings     RatingReader
	similarity  similarity.ItemSimilarity
	parallelism int
}

// NewItemBasedCF 创建物品协同过滤召回源。
func NewItemBasedCF(ratings RatingReader, opts ...Option) (*ItemBasedCF, error) {
	if ratings == nil {
		return nil, core.InvalidConfiguration(core.ModuleRecall, "item cf: rating reader is required")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	sim := o.itemSimilarity
	if sim == nil {
		sim = similarity.NewLogLikelihood(ratings)
	}
	return &ItemBasedCF{
		ratings:     ratings,
		similarity:  sim,
		parallelism: o.parallelism,
	}, nil
}

func (r *ItemBasedCF) Name() string {
	return "recall.i2i" // 工业标准命名：i2i (Item-to-Item)
}

func (r *ItemBasedCF) Label() string { return "Item-Based" }
func (r *ItemBasedCF) Scored() bool  { return true }

func (r *ItemBasedCF) Recommend(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	if err := checkN(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []*core.Item{}, nil
	}

	userItems := r.ratings.RatingsOfUser(userID)
	if len(userItems) == 0 {
		return []*core.Item{}, nil
	}
	history := slices.Sorted(maps.Keys(userItems))

	candidates := make([]int64, 0)
	for _, itemID := range r.ratings.ItemIDs() {
		if _, rated := userItems[itemID]; !rated {
			candidates = append(candidates, itemID)
		}
	}
	if len(candidates) == 0 {
		return []*core.Item{}, nil
	}

	scores, err := scoreCandidates(ctx, candidates, r.parallelism, func(candidateID int64) (float64, bool) {
		var weighted, totalWeight float64
		for _, historyID := range history {
			sim, ok := r.similarity.ItemSimilarity(candidateID, historyID)
			if !ok {
				continue
			}
			weighted += sim * userItems[historyID]
			totalWeight += math.Abs(sim)
		}
		if totalWeight == 0 {
			return 0, false
		}
		return weighted / totalWeight, true
	})
	if err != nil {
		return nil, err
	}

	return toItems(topN(scores, n), "i2i", map[string]utils.Label{
		"cf_metric": {Value: r.similarity.Name(), Source: "recall"},
	}), nil
}

// U2IRecall 是 UserBasedCF 的类型别名，提供更符合工业习惯的命名。
type U2IRecall = UserBasedCF

// I2IRecall 是 ItemBasedCF 的类型别名。
type I2IRecall = ItemBasedCF

var (
	_ Source    = (*UserBasedCF)(nil)
	_ Describer = (*UserBasedCF)(nil)
	_ Source    = (*ItemBasedCF)(nil)
	_ Describer = (*ItemBasedCF)(nil)
)
