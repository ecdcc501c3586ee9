package core

import (
	"fmt"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
)

// UserProfile 是内容推荐使用的用户画像：偏好类目 + 可接受的价格区间。
//
// 不变量：PriceRangeMin <= PriceRangeMax，在 NewProfiles 构建时校验。
// 画像属于参考数据，加载一次，运行期只读。
type UserProfile struct {
	ID                  int64    `json:"id" yaml:"id"`
	Name                string   `json:"name" yaml:"name"`
	PreferredCategories []string `json:"preferred_categories" yaml:"preferred_categories"`
	PriceRangeMin       float64  `json:"price_range_min" yaml:"price_range_min" validate:"gte=0"`
	PriceRangeMax       float64  `json:"price_range_max" yaml:"price_range_max" validate:"gtefield=PriceRangeMin"`
}

// PrefersCategory 判断类目是否在偏好集合中。
func (p *UserProfile) PrefersCategory(category string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.PreferredCategories, category)
}

// InPriceRange 判断价格是否落在 [PriceRangeMin, PriceRangeMax] 闭区间内。
func (p *UserProfile) InPriceRange(price float64) bool {
	if p == nil {
		return false
	}
	return price >= p.PriceRangeMin && price <= p.PriceRangeMax
}

// Profiles 是只读的用户画像集合。
type Profiles struct {
	byID map[int64]*UserProfile
}

// NewProfiles 校验并构建画像集合。价格区间倒置等非法配置返回 INVALID_CONFIGURATION。
func NewProfiles(profiles []UserProfile) (*Profiles, error) {
	ps := &Profiles{byID: make(map[int64]*UserProfile, len(profiles))}
	for i := range profiles {
		p := profiles[i]
		if p.PriceRangeMin > p.PriceRangeMax {
			return nil, InvalidConfiguration(ModuleCatalog, fmt.Sprintf(
				"profile %d: price range min %.2f > max %.2f", p.ID, p.PriceRangeMin, p.PriceRangeMax))
		}
		if err := Validate(p); err != nil {
			return nil, InvalidConfiguration(ModuleCatalog, fmt.Sprintf("profile %d: %v", p.ID, err))
		}
		if _, dup := ps.byID[p.ID]; dup {
			return nil, InvalidConfiguration(ModuleCatalog, fmt.Sprintf("profile: duplicate user id %d", p.ID))
		}
		p.PreferredCategories = slices.Clone(p.PreferredCategories)
		ps.byID[p.ID] = &p
	}
	return ps, nil
}

// Get 按用户 ID 获取画像；未知用户返回 (nil, false)。
func (ps *Profiles) Get(userID int64) (*UserProfile, bool) {
	if ps == nil {
		return nil, false
	}
	p, ok := ps.byID[userID]
	return p, ok
}

func (ps *Profiles) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.byID)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator 返回进程内共享的 validator 实例（线程安全，缓存结构体反射信息）。
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate 按 `validate` tag 校验结构体。
func Validate(v any) error {
	return Validator().Struct(v)
}
