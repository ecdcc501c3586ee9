package recall

import (
	"context"

	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/similarity"
)

// Source 表示一个可复用的推荐源（用户协同 / 物品协同 / 内容 ...）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
//
// Recommend 对未知用户返回空结果而不是错误；n < 0 返回 INVALID_CONFIGURATION。
type Source interface {
	Name() string
	Recommend(ctx context.Context, userID int64, n int) ([]*core.Item, error)
}

// Describer 是 Source 的可选扩展，供混合推荐展示来源并判断分数是否可比较。
type Describer interface {
	// Label 返回展示用的来源名，如 "User-Based"
	Label() string

	// Scored 返回该来源的分数是否作为预测评分输出
	Scored() bool
}

// RatingReader 是协同过滤召回所需的只读评分视图，store.RatingStore 实现了它。
type RatingReader interface {
	similarity.RatingSource

	// UserIDs 返回升序的全部用户 ID
	UserIDs() []int64

	// ItemIDs 返回升序的全部物品 ID
	ItemIDs() []int64
}

// ProfileSource 提供用户画像。
type ProfileSource interface {
	Get(userID int64) (*core.UserProfile, bool)
}

func sourceLabel(s Source) string {
	if d, ok := s.(Describer); ok {
		return d.Label()
	}
	return s.Name()
}

func sourceScored(s Source) bool {
	if d, ok := s.(Describer); ok {
		return d.Scored()
	}
	return true
}
