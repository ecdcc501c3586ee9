package recall

import (
	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/similarity"
)

// Option 配置协同过滤召回源。
type Option func(*options)

type options struct {
	threshold      float64
	parallelism    int
	minCommonItems int
	userSimilarity similarity.UserSimilarity
	itemSimilarity similarity.ItemSimilarity
}

func defaultOptions() options {
	return options{
		threshold:      core.DefaultNeighborhoodThreshold,
		parallelism:    (&core.DefaultRecallConfig{}).DefaultParallelism(),
		minCommonItems: core.DefaultMinCommonItems,
	}
}

// WithThreshold 设置用户邻域的相似度阈值（默认 0.1）。
func WithThreshold(threshold float64) Option {
	return func(o *options) {
		o.threshold = threshold
	}
}

// WithParallelism 设置候选打分的最大并发数，<= 0 表示不限制。
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithMinCommonItems 设置 Pearson 相似度的最少共同评分物品数（最小为 2）。
func WithMinCommonItems(n int) Option {
	return func(o *options) {
		o.minCommonItems = n
	}
}

// WithUserSimilarity 替换默认的 Pearson 用户相似度。
func WithUserSimilarity(sim similarity.UserSimilarity) Option {
	return func(o *options) {
		o.userSimilarity = sim
	}
}

// WithItemSimilarity 替换默认的对数似然物品相似度。
func WithItemSimilarity(sim similarity.ItemSimilarity) Option {
	return func(o *options) {
		o.itemSimilarity = sim
	}
}
