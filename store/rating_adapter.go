package store

import (
	"context"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/rushteam/hybridrec/core"
)

// StoreRatingAdapter 把 RatingStore 的用户评分向量保存到任意 core.Store（内存 / Redis），
// 或从中加载回来，用于在进程之间共享一份评分快照。
//
// Key 布局：
//   - 用户评分向量：{KeyPrefix}:user:{userID} -> {"itemID": rating, ...}
//   - 用户列表：    {KeyPrefix}:users         -> [userID, ...]
type StoreRatingAdapter struct {
	store core.Store

	KeyPrefix string

	// TTL 写入时的过期秒数，0 表示不过期
	TTL int
}

// NewStoreRatingAdapter 创建一个基于 core.Store 的评分适配器。
func NewStoreRatingAdapter(s core.Store, keyPrefix string) *StoreRatingAdapter {
	if keyPrefix == "" {
		keyPrefix = "ratings"
	}
	return &StoreRatingAdapter{
		store:     s,
		KeyPrefix: keyPrefix,
	}
}

func (a *StoreRatingAdapter) Name() string {
	return "store_rating_adapter:" + a.store.Name()
}

func (a *StoreRatingAdapter) userKey(userID int64) string {
	return a.KeyPrefix + ":user:" + strconv.FormatInt(userID, 10)
}

func (a *StoreRatingAdapter) usersKey() string {
	return a.KeyPrefix + ":users"
}

// Save 把评分快照批量写入 Store。
func (a *StoreRatingAdapter) Save(ctx context.Context, rs *RatingStore) error {
	userIDs := rs.UserIDs()
	kvs := make(map[string][]byte, len(userIDs)+1)
	for _, userID := range userIDs {
		data, err := json.Marshal(rs.RatingsOfUser(userID))
		if err != nil {
			return fmt.Errorf("encode ratings of user %d: %w", userID, err)
		}
		kvs[a.userKey(userID)] = data
	}
	usersData, err := json.Marshal(userIDs)
	if err != nil {
		return fmt.Errorf("encode user list: %w", err)
	}
	kvs[a.usersKey()] = usersData

	if a.TTL > 0 {
		return a.store.BatchSet(ctx, kvs, a.TTL)
	}
	return a.store.BatchSet(ctx, kvs)
}

// Load 读取快照并写入 rs（同一 (user, item) 覆盖）。Store 中没有快照时什么也不做。
func (a *StoreRatingAdapter) Load(ctx context.Context, rs *RatingStore) (int, error) {
	data, err := a.store.Get(ctx, a.usersKey())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read user list: %w", err)
	}
	var userIDs []int64
	if err := json.Unmarshal(data, &userIDs); err != nil {
		return 0, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, fmt.Sprintf("decode user list: %v", err))
	}
	if len(userIDs) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(userIDs))
	for _, userID := range userIDs {
		keys = append(keys, a.userKey(userID))
	}
	vectors, err := a.store.BatchGet(ctx, keys)
	if err != nil {
		return 0, fmt.Errorf("read rating vectors: %w", err)
	}

	loaded := 0
	for _, userID := range userIDs {
		raw, ok := vectors[a.userKey(userID)]
		if !ok {
			continue
		}
		var items map[int64]float64
		if err := json.Unmarshal(raw, &items); err != nil {
			return loaded, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, fmt.Sprintf("decode ratings of user %d: %v", userID, err))
		}
		for itemID, value := range items {
			rs.AddRating(userID, itemID, value)
			loaded++
		}
	}
	return loaded, nil
}
