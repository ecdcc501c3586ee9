package similarity

import (
	"maps"
	"math"
	"slices"

	"github.com/rushteam/hybridrec/core"
)

// Pearson 是基于皮尔逊相关系数的用户相似度。
//
//	r(A,B) = Σ(a_i - ā)(b_i - b̄) / sqrt(Σ(a_i - ā)² · Σ(b_i - b̄)²),  i ∈ S
//
// 其中 S 为两人都评过分的物品集合，均值只在 S 上计算。
// |S| < MinCommonItems 或任一方方差为 0 时相似度未定义。
type Pearson struct {
	Source RatingSource

	// MinCommonItems 最少共同评分物品数，<= 0 时使用 core.DefaultMinCommonItems（2）
	MinCommonItems int
}

func NewPearson(src RatingSource) *Pearson {
	return &Pearson{Source: src, MinCommonItems: core.DefaultMinCommonItems}
}

func (p *Pearson) Name() string { return "pearson" }

func (p *Pearson) UserSimilarity(a, b int64) (float64, bool) {
	if p.Source == nil {
		return 0, false
	}
	x, y := coRated(p.Source.RatingsOfUser(a), p.Source.RatingsOfUser(b))
	minCommon := p.MinCommonItems
	if minCommon < 2 {
		minCommon = core.DefaultMinCommonItems
	}
	if len(x) < minCommon {
		return 0, false
	}
	return PearsonCorrelation(x, y)
}

// PearsonCorrelation 计算两个等长向量的皮尔逊相关系数。
// 长度不一致、长度 < 2 或任一向量方差为 0 时返回 (0, false)。
func PearsonCorrelation(x, y []float64) (float64, bool) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, false
	}

	// 计算均值
	var meanX, meanY float64
	for i := range x {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= float64(len(x))
	meanY /= float64(len(y))

	// 计算协方差和方差
	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0, false
	}

	r := cov / math.Sqrt(varX*varY)
	if math.IsNaN(r) {
		return 0, false
	}
	// 浮点误差可能让结果略微越界
	return math.Max(-1, math.Min(1, r)), true
}

// coRated 按物品 ID 升序取出两人的共同评分，保证求和顺序确定、结果对称。
func coRated(a, b map[int64]float64) (x, y []float64) {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	common := sharedKeys(small, large)
	return pick(a, common), pick(b, common)
}

func sharedKeys(small, large map[int64]float64) []int64 {
	keys := make([]int64, 0, len(small))
	for _, k := range slices.Sorted(maps.Keys(small)) {
		if _, ok := large[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func pick(m map[int64]float64, keys []int64) []float64 {
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}
