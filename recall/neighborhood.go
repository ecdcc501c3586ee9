package recall

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/similarity"
)

// Neighbor 是邻域中的一个用户及其与目标用户的相似度。
type Neighbor struct {
	UserID     int64
	Similarity float64
}

// UserLister 列出全部用户。
type UserLister interface {
	UserIDs() []int64
}

// ThresholdNeighborhood 选出与目标用户相似度不低于阈值的所有用户（u2u）。
//
// 相似度未定义的用户永远不会入选，目标用户自身也不会入选。
// 邻域在每次调用时重新计算，不做缓存。
type ThresholdNeighborhood struct {
	Similarity similarity.UserSimilarity
	Users      UserLister
	Threshold  float64
}

// NewThresholdNeighborhood 创建阈值邻域，阈值为 NaN 时返回 INVALID_CONFIGURATION。
func NewThresholdNeighborhood(sim similarity.UserSimilarity, users UserLister, threshold float64) (*ThresholdNeighborhood, error) {
	if sim == nil || users == nil {
		return nil, core.InvalidConfiguration(core.ModuleRecall, "neighborhood: similarity and user lister are required")
	}
	if math.IsNaN(threshold) {
		return nil, core.InvalidConfiguration(core.ModuleRecall, "neighborhood: threshold is NaN")
	}
	return &ThresholdNeighborhood{Similarity: sim, Users: users, Threshold: threshold}, nil
}

// NeighborsOf 返回按相似度降序、用户 ID 升序排列的邻居。
func (n *ThresholdNeighborhood) NeighborsOf(ctx context.Context, userID int64) ([]Neighbor, error) {
	out := make([]Neighbor, 0)
	for _, other := range n.Users.UserIDs() {
		if other == userID {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("neighbors of %d: %w", userID, err)
		}
		sim, ok := n.Similarity.UserSimilarity(userID, other)
		if !ok || sim < n.Threshold {
			continue
		}
		out = append(out, Neighbor{UserID: other, Similarity: sim})
	}
	slices.SortFunc(out, func(a, b Neighbor) int {
		if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return out, nil
}
