package filter

import (
	"context"

	"github.com/rushteam/hybridrec/core"
)

// ProfileSource 提供用户画像。
type ProfileSource interface {
	Get(userID int64) (*core.UserProfile, bool)
}

// PriceRangeFilter 过滤价格不在用户可接受区间内的商品。
// 常接在协同过滤召回之后，让评分驱动的结果也遵守用户的价格偏好。
// 不在目录中的物品、没有画像的用户都不做过滤。
type PriceRangeFilter struct {
	Catalog  *core.Catalog
	Profiles ProfileSource
}

func (f *PriceRangeFilter) Name() string {
	return "filter.price_range"
}

func (f *PriceRangeFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil {
		return false, nil
	}
	profile := rctx.Profile
	if profile == nil && f.Profiles != nil {
		profile, _ = f.Profiles.Get(rctx.UserID)
	}
	if profile == nil {
		return false, nil
	}
	p, ok := f.Catalog.Get(item.ID)
	if !ok {
		return false, nil
	}
	return !profile.InPriceRange(p.Price), nil
}
