// Package similarity 实现协同过滤所需的两种相似度：
//   - 用户之间：皮尔逊相关系数（共同评分物品上）
//   - 物品之间：对数似然比（共现 2x2 列联表上的 G 检验）
//
// 两者都是 RatingSource 当前状态的纯函数，对称，且不依赖统计库。
// "未定义"（数据不足、方差为 0、无评分用户）用 (0, false) 表达，从不 panic。
package similarity

// RatingSource 是相似度计算所需的只读评分视图，store.RatingStore 实现了它。
type RatingSource interface {
	// RatingsOfUser 返回 itemID -> rating，未知用户返回空 map
	RatingsOfUser(userID int64) map[int64]float64

	// RatingsOfItem 返回 userID -> rating，未知物品返回空 map
	RatingsOfItem(itemID int64) map[int64]float64

	// NumUsers 返回用户总数（列联表的总体）
	NumUsers() int
}

// UserSimilarity 计算两个用户之间的相似度。
type UserSimilarity interface {
	Name() string
	UserSimilarity(a, b int64) (float64, bool)
}

// ItemSimilarity 计算两个物品之间的相似度。
type ItemSimilarity interface {
	Name() string
	ItemSimilarity(i, j int64) (float64, bool)
}
