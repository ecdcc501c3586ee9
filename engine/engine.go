// Package engine 把评分数据、商品目录和用户画像组装成一个推荐引擎，
// 提供用户协同、物品协同、内容、混合四种推荐入口，并负责日志与指标。
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/hybridrec/config"
	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/metrics"
	"github.com/rushteam/hybridrec/pipeline"
	"github.com/rushteam/hybridrec/recall"
	"github.com/rushteam/hybridrec/store"
)

// 指标与日志中的来源名。
const (
	SourceUserBased    = "user_based"
	SourceItemBased    = "item_based"
	SourceContentBased = "content_based"
	SourceHybrid       = "hybrid"
	SourcePipeline     = "pipeline"
)

// Engine 是推荐引擎。构建后只读，可并发调用。
type Engine struct {
	cfg      Config
	ratings  *store.RatingStore
	catalog  *core.Catalog
	profiles *core.Profiles

	userBased *recall.UserBasedCF
	itemBased *recall.ItemBasedCF
	content   *recall.ContentRecall
	hybrid    *recall.Hybrid

	logger   zerolog.Logger
	recorder *metrics.Recorder
}

// Option 配置 Engine。
type Option func(*Engine)

// WithLogger 设置日志，默认不输出。
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRecorder 设置指标记录器，默认不记录。
func WithRecorder(r *metrics.Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// New 创建推荐引擎。ratings、catalog、profiles 均不能为空。
func New(cfg Config, ratings *store.RatingStore, catalog *core.Catalog, profiles *core.Profiles, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ratings == nil || catalog == nil || profiles == nil {
		return nil, core.InvalidConfiguration(core.ModuleRecall, "engine: ratings, catalog and profiles are required")
	}

	e := &Engine{
		cfg:      cfg,
		ratings:  ratings,
		catalog:  catalog,
		profiles: profiles,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With().Str("component", "engine").Logger()

	cfOpts := e.recallOptions()
	var err error
	if e.userBased, err = recall.NewUserBasedCF(ratings, cfOpts...); err != nil {
		return nil, fmt.Errorf("user based recommender: %w", err)
	}
	if e.itemBased, err = recall.NewItemBasedCF(ratings, cfOpts...); err != nil {
		return nil, fmt.Errorf("item based recommender: %w", err)
	}
	e.content = recall.NewContentRecall(catalog, profiles)

	e.hybrid = recall.NewHybrid(e.logger, e.userBased, e.itemBased, e.content)
	e.hybrid.Catalog = catalog
	e.hybrid.N = cfg.TopN
	if cfg.HybridTimeoutMS > 0 {
		e.hybrid.Timeout = time.Duration(cfg.HybridTimeoutMS) * time.Millisecond
	}

	e.logger.Info().
		Int("users", ratings.NumUsers()).
		Int("items", ratings.NumItems()).
		Int("ratings", ratings.Len()).
		Int("products", catalog.Len()).
		Int("profiles", profiles.Len()).
		Float64("threshold", cfg.Threshold).
		Msg("recommendation engine ready")
	return e, nil
}

func (e *Engine) recallOptions() []recall.Option {
	return []recall.Option{
		recall.WithThreshold(e.cfg.DefaultNeighborhoodThreshold()),
		recall.WithMinCommonItems(e.cfg.DefaultMinCommonItems()),
		recall.WithParallelism(e.cfg.DefaultParallelism()),
	}
}

func (e *Engine) Config() Config                   { return e.cfg }
func (e *Engine) Ratings() *store.RatingStore      { return e.ratings }
func (e *Engine) Catalog() *core.Catalog           { return e.catalog }
func (e *Engine) Profiles() *core.Profiles         { return e.profiles }
func (e *Engine) UserBasedCF() *recall.UserBasedCF { return e.userBased }
func (e *Engine) ItemBasedCF() *recall.ItemBasedCF { return e.itemBased }

// Neighbors 返回用户的相似用户邻域。
func (e *Engine) Neighbors(ctx context.Context, userID int64) ([]recall.Neighbor, error) {
	return e.userBased.Neighborhood().NeighborsOf(ctx, userID)
}

// RecommendUserBased 基于用户协同过滤推荐 n 个物品。
func (e *Engine) RecommendUserBased(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	return observe(e, SourceUserBased, userID, func() ([]*core.Item, error) {
		return e.userBased.Recommend(ctx, userID, n)
	})
}

// RecommendItemBased 基于物品协同过滤推荐 n 个物品。
func (e *Engine) RecommendItemBased(ctx context.Context, userID int64, n int) ([]*core.Item, error) {
	return observe(e, SourceItemBased, userID, func() ([]*core.Item, error) {
		return e.itemBased.Recommend(ctx, userID, n)
	})
}

// RecommendContentBased 按类目和价格偏好推荐 n 个商品。
func (e *Engine) RecommendContentBased(ctx context.Context, userID int64, n int) ([]core.Product, error) {
	return observe(e, SourceContentBased, userID, func() ([]core.Product, error) {
		return e.content.RecommendProducts(ctx, userID, n)
	})
}

// RecommendHybrid 合并三种推荐的结果，最多 n 条。
func (e *Engine) RecommendHybrid(ctx context.Context, userID int64, n int) ([]recall.HybridItem, error) {
	return observe(e, SourceHybrid, userID, func() ([]recall.HybridItem, error) {
		return e.hybrid.Recommend(ctx, userID, n)
	})
}

// NodeFactory 返回绑定了本引擎数据的 Node 工厂。
func (e *Engine) NodeFactory(kv core.Store) *pipeline.NodeFactory {
	return config.DefaultFactory(config.Deps{
		Ratings:  e.ratings,
		Catalog:  e.catalog,
		Profiles: e.profiles,
		Store:    kv,
		Logger:   e.logger,
		Options:  e.recallOptions(),
	})
}

// LoadPipeline 从 YAML 文件构建 Pipeline。
func (e *Engine) LoadPipeline(path string, kv core.Store) (*pipeline.Pipeline, error) {
	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		return nil, err
	}
	factory := e.NodeFactory(kv)
	if err := config.ValidatePipelineConfig(factory, cfg); err != nil {
		return nil, err
	}
	return cfg.BuildPipeline(factory)
}

// RunPipeline 为用户执行 Pipeline，n 通过 Params["limit"] 传给召回节点。
func (e *Engine) RunPipeline(ctx context.Context, p *pipeline.Pipeline, userID int64, n int) ([]*core.Item, error) {
	rctx := &core.RecommendContext{
		UserID: userID,
		Scene:  p.Name,
		Params: map[string]any{"limit": n},
	}
	if profile, ok := e.profiles.Get(userID); ok {
		rctx.Profile = profile
	}
	return observe(e, SourcePipeline, userID, func() ([]*core.Item, error) {
		return p.Run(ctx, rctx, nil)
	})
}

func observe[T any](e *Engine, source string, userID int64, fn func() ([]T, error)) ([]T, error) {
	start := time.Now()
	out, err := fn()
	e.recorder.Observe(source, start, len(out), err)

	if err != nil {
		e.logger.Error().
			Err(err).
			Str("source", source).
			Int64("user_id", userID).
			Msg("recommend failed")
		return nil, err
	}
	e.logger.Debug().
		Str("source", source).
		Int64("user_id", userID).
		Int("returned", len(out)).
		Dur("latency", time.Since(start)).
		Msg("recommend done")
	return out, nil
}
