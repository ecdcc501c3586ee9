package similarity

import "math"

// LogLikelihood 是基于对数似然比（G 检验）的物品相似度，只看"是否评过分"，不看分值。
//
// 对物品 i、j 在全体用户上构造 2x2 列联表：
//
//	            评过 j    没评过 j
//	评过 i       k11        k12
//	没评过 i     k21        k22
//
// G² = 2 · (H(行和) + H(列和) − H(k11,k12,k21,k22))，H 为未归一化熵
// H(k...) = xlogx(Σk) − Σ xlogx(k)。相似度 = 1 − 1/(1 + G²)，落在 [0, 1)，
// 随 G² 单调递增。任一物品没有评分用户时相似度未定义。
type LogLikelihood struct {
	Source RatingSource
}

func NewLogLikelihood(src RatingSource) *LogLikelihood {
	return &LogLikelihood{Source: src}
}

func (l *LogLikelihood) Name() string { return "loglikelihood" }

func (l *LogLikelihood) ItemSimilarity(i, j int64) (float64, bool) {
	if l.Source == nil {
		return 0, false
	}
	// 固定计算方向，使 sim(i,j) 与 sim(j,i) 逐位相等
	if j < i {
		i, j = j, i
	}
	usersI := l.Source.RatingsOfItem(i)
	usersJ := l.Source.RatingsOfItem(j)
	if len(usersI) == 0 || len(usersJ) == 0 {
		return 0, false
	}

	var both int64
	small, large := usersI, usersJ
	if len(large) < len(small) {
		small, large = large, small
	}
	for u := range small {
		if _, ok := large[u]; ok {
			both++
		}
	}

	total := int64(l.Source.NumUsers())
	k11 := both
	k12 := int64(len(usersI)) - both
	k21 := int64(len(usersJ)) - both
	k22 := total - int64(len(usersI)) - int64(len(usersJ)) + both
	if k22 < 0 {
		// 总体小于评分用户数，说明数据源不一致，按"无关系"处理
		return 0, false
	}

	g2 := LogLikelihoodRatio(k11, k12, k21, k22)
	return 1.0 - 1.0/(1.0+g2), true
}

// LogLikelihoodRatio 计算 2x2 列联表的 G² 统计量，结果 >= 0。
func LogLikelihoodRatio(k11, k12, k21, k22 int64) float64 {
	rowEntropy := entropy(k11+k12, k21+k22)
	colEntropy := entropy(k11+k21, k12+k22)
	matrixEntropy := entropy(k11, k12, k21, k22)
	if rowEntropy+colEntropy < matrixEntropy {
		// 数值误差
		return 0
	}
	return 2.0 * (rowEntropy + colEntropy - matrixEntropy)
}

func entropy(counts ...int64) float64 {
	var sum int64
	var result float64
	for _, c := range counts {
		result += xLogX(c)
		sum += c
	}
	return xLogX(sum) - result
}

func xLogX(x int64) float64 {
	if x == 0 {
		return 0
	}
	return float64(x) * math.Log(float64(x))
}
