// Package store 提供评分数据存储（RatingStore）以及 core.Store 的内存 / Redis 实现。
//
// 注意：KV 存储接口定义在 core 包，此包只包含实现。
//
// 示例：
//
//	ratings, _ := store.ReadRatingStore(f)
//	var kv core.Store = store.NewMemoryStore()
//	_ = store.NewStoreRatingAdapter(kv, "ratings").Save(ctx, ratings)
package store
