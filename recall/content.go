package recall

import (
	"context"
	"fmt"
	"math"

	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/pkg/utils"
)

// 内容打分权重。
const (
	DefaultCategoryWeight = 10.0
	DefaultPriceWeight    = 5.0
)

// ContentRecall 是基于内容的召回源（Content-Based Recommendation），不依赖评分数据。
//
// 候选条件：商品类目在用户偏好类目中，且价格落在 [PriceRangeMin, PriceRangeMax] 闭区间。
// 打分：
//
//	score = CategoryWeight + (1 − |price − mid| / half) · PriceWeight
//	mid = (min + max) / 2, half = (max − min) / 2
//
// half 为 0 时区间退化为一个点，能通过区间检查的商品价格必然等于 mid，价格项取满分。
type ContentRecall struct {
	Catalog  *core.Catalog
	Profiles ProfileSource

	// CategoryWeight 类目命中加分，<= 0 时使用 10
	CategoryWeight float64

	// PriceWeight 价格贴近区间中点的最高加分，<= 0 时使用 5
	PriceWeight float64
}

func NewContentRecall(catalog *core.Catalog, profiles ProfileSource) *ContentRecall {
	return &ContentRecall{
		Catalog:        catalog,
		Profiles:       profiles,
		CategoryWeight: DefaultCategoryWeight,
		PriceWeight:    DefaultPriceWeight,
	}
}

func (r *ContentRecall) Name() string {
	return "recall.content"
}

func (r *ContentRecall) Label() string { return "Content-Based" }
func (r *ContentRecall) Scored() bool  { return false }

// Suitable 判断商品是否满足用户的类目和价格偏好。
func Suitable(p core.Product, profile *core.UserProfile) bool {
	return profile.PrefersCategory(p.Category) && profile.InPriceRange(p.Price)
}

// ScoreProduct 计算商品对用户的内容匹配分。
func (r *ContentRecall) ScoreProduct(p core.Product, profile *core.UserProfile) float64 {
	categoryWeight := r.CategoryWeight
	if categoryWeight <= 0 {
		categoryWeight = DefaultCategoryWeight
	}
	priceWeight := r.PriceWeight
	if priceWeight <= 0 {
		priceWeight = DefaultPriceWeight
	}

	var score float64
	if profile.PrefersCategory(p.Category) {
		score += categoryWeight
	}

	mid := (profile.PriceRangeMin + profile.PriceRangeMax) / 2
	half := (profile.PriceRangeMax - profile.PriceRangeMin) / 2
	if half == 0 {
		if p.Price == mid {
			score += priceWeight
		}
		return score
	}
	score += (1 - math.Abs(p.Price-mid)/half) * priceWeight
	return score
}

func (r *ContentRecall) Recommend(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	if err := checkN(n); err != nil {
		return nil, err
	}
	if r.Profiles == nil {
		return []*core.Item{}, nil
	}
	profile, ok := r.Profiles.Get(userID)
	if !ok {
		return []*core.Item{}, nil
	}
	return r.RecommendFor(ctx, profile, n)
}

// RecommendFor 直接按给定画像推荐（画像可来自 RecommendContext）。
func (r *ContentRecall) RecommendFor(ctx context.Context, profile *core.UserProfile, n int) ([]*core.Item, error) {
	if err := checkN(n); err != nil {
		return nil, err
	}
	if profile != nil && profile.PriceRangeMin > profile.PriceRangeMax {
		return nil, core.InvalidConfiguration(core.ModuleRecall, fmt.Sprintf(
			"content: profile %d: price range min %.2f > max %.2f", profile.ID, profile.PriceRangeMin, profile.PriceRangeMax))
	}
	if n == 0 || profile == nil {
		return []*core.Item{}, nil
	}

	scores := make([]scoredItem, 0)
	for _, p := range r.Catalog.Products() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !Suitable(p, profile) {
			continue
		}
		scores = append(scores, scoredItem{itemID: p.ID, score: r.ScoreProduct(p, profile)})
	}

	return toItems(topN(scores, n), "content", map[string]utils.Label{
		"recall_metric": {Value: "category_price", Source: "recall"},
	}), nil
}

// RecommendProducts 返回有序的商品列表。
func (r *ContentRecall) RecommendProducts(ctx context.Context, userID int64, n int) ([]core.Product, error) {
	items, err := r.Recommend(ctx, userID, n)
	if err != nil {
		return nil, err
	}
	out := make([]core.Product, 0, len(items))
	for _, it := range items {
		if p, ok := r.Catalog.Get(it.ID); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

var (
	_ Source    = (*ContentRecall)(nil)
	_ Describer = (*ContentRecall)(nil)
)
