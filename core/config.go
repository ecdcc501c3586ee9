package core

// 邻域与召回的默认参数。
const (
	// DefaultNeighborhoodThreshold 是用户邻域的默认相似度阈值
	DefaultNeighborhoodThreshold = 0.1

	// DefaultMinCommonItems 是计算 Pearson 相似度所需的最少共同评分物品数
	DefaultMinCommonItems = 2

	// DefaultTopN 是未指定 n 时的返回条数
	DefaultTopN = 10
)

// RecallConfig 是召回相关的配置接口，用于提供默认值。
type RecallConfig interface {
	// DefaultNeighborhoodThreshold 返回默认的邻域相似度阈值
	DefaultNeighborhoodThreshold() float64

	// DefaultMinCommonItems 返回默认的最小共同物品数
	DefaultMinCommonItems() int

	// DefaultTopN 返回默认的返回条数
	DefaultTopN() int

	// DefaultParallelism 返回候选打分的默认并发度（<=0 表示不限制）
	DefaultParallelism() int
}

// DefaultRecallConfig 是默认的召回配置实现。
type DefaultRecallConfig struct{}

func (c *DefaultRecallConfig) DefaultNeighborhoodThreshold() float64 {
	return DefaultNeighborhoodThreshold
}

func (c *DefaultRecallConfig) DefaultMinCommonItems() int {
	return DefaultMinCommonItems
}

func (c *DefaultRecallConfig) DefaultTopN() int {
	return DefaultTopN
}

func (c *DefaultRecallConfig) DefaultParallelism() int {
	return 8
}
