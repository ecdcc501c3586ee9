package store

import (
	"iter"
	"maps"
	"slices"
	"sync"
)

// Rating 是一条 (用户, 物品, 评分) 观测。
type Rating struct {
	UserID int64
	ItemID int64
	Value  float64
}

// RatingStore 是评分数据的内存存储，同时维护两份互为镜像的索引：
//   - user -> item -> rating：用户协同过滤、Pearson 相似度
//   - item -> user -> rating：物品协同过滤、对数似然相似度
//
// 任何写入都在同一把锁内同时更新两份索引，读写并发安全。
// 推荐计算只读，通常在数据加载完成后才开始。
type RatingStore struct {
	mu        sync.RWMutex
	userItems map[int64]map[int64]float64
	itemUsers map[int64]map[int64]float64

	// 升序 ID 列表，保证迭代顺序在同一版本内稳定
	userIDs []int64
	itemIDs []int64

	version uint64
	size    int
}

func NewRatingStore() *RatingStore {
	return &RatingStore{
		userItems: make(map[int64]map[int64]float64),
		itemUsers: make(map[int64]map[int64]float64),
	}
}

// NewRatingStoreFrom 用一批评分构建存储，同一 (user, item) 后写覆盖先写。
func NewRatingStoreFrom(ratings []Rating) *RatingStore {
	s := NewRatingStore()
	for _, r := range ratings {
		s.AddRating(r.UserID, r.ItemID, r.Value)
	}
	return s
}

func (s *RatingStore) Name() string { return "rating.memory" }

// AddRating 插入或覆盖一条评分。value 须为有限数，外部输入应先经 LoadRatingsCSV 校验。
func (s *RatingStore) AddRating(userID, itemID int64, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.userItems[userID]
	if !ok {
		items = make(map[int64]float64)
		s.userItems[userID] = items
		s.userIDs = insertSorted(s.userIDs, userID)
	}
	users, ok := s.itemUsers[itemID]
	if !ok {
		users = make(map[int64]float64)
		s.itemUsers[itemID] = users
		s.itemIDs = insertSorted(s.itemIDs, itemID)
	}
	if _, exists := items[itemID]; !exists {
		s.size++
	}
	items[itemID] = value
	users[userID] = value
	s.version++
}

// Rating 返回单条评分。
func (s *RatingStore) Rating(userID, itemID int64) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.userItems[userID][itemID]
	return v, ok
}

// RatingsOfUser 返回用户评过分的物品（副本）。未知用户返回空 map，不是错误。
func (s *RatingStore) RatingsOfUser(userID int64) map[int64]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneVector(s.userItems[userID])
}

// RatingsOfItem 返回给物品评过分的用户（副本）。未知物品返回空 map。
func (s *RatingStore) RatingsOfItem(itemID int64) map[int64]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneVector(s.itemUsers[itemID])
}

// NumRatersOfItem 返回物品的评分人数。
func (s *RatingStore) NumRatersOfItem(itemID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.itemUsers[itemID])
}

// AllUserIDs 返回按 ID 升序的用户序列。
// 序列在开始迭代时取快照，可重复迭代。
func (s *RatingStore) AllUserIDs() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for _, id := range s.UserIDs() {
			if !yield(id) {
				return
			}
		}
	}
}

// AllItemIDs 返回按 ID 升序的物品序列。
func (s *RatingStore) AllItemIDs() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for _, id := range s.ItemIDs() {
			if !yield(id) {
				return
			}
		}
	}
}

// UserIDs 返回升序用户 ID 切片（副本）。
func (s *RatingStore) UserIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.userIDs)
}

// ItemIDs 返回升序物品 ID 切片（副本）。
func (s *RatingStore) ItemIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.itemIDs)
}

func (s *RatingStore) NumUsers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.userIDs)
}

func (s *RatingStore) NumItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.itemIDs)
}

// Len 返回评分条数。
func (s *RatingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Version 每次写入递增，可用于判断迭代快照是否过期。
func (s *RatingStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Ratings 按 (user, item) 升序导出全部评分。
func (s *RatingStore) Ratings() []Rating {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rating, 0, s.size)
	for _, u := range s.userIDs {
		items := s.userItems[u]
		for _, i := range slices.Sorted(maps.Keys(items)) {
			out = append(out, Rating{UserID: u, ItemID: i, Value: items[i]})
		}
	}
	return out
}

func insertSorted(ids []int64, id int64) []int64 {
	pos, found := slices.BinarySearch(ids, id)
	if found {
		return ids
	}
	return slices.Insert(ids, pos, id)
}

func cloneVector(m map[int64]float64) map[int64]float64 {
	out := make(map[int64]float64, len(m))
	maps.Copy(out, m)
	return out
}
