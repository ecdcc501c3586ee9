// Package config 把 YAML 中的节点类型映射为具体的 Pipeline Node。
//
// 节点依赖（评分数据、商品目录、用户画像、日志）通过 Deps 注入，
// 构建器以闭包形式持有它们，因此同一份 Deps 可以构建多条 Pipeline。
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/filter"
	"github.com/rushteam/hybridrec/pipeline"
	"github.com/rushteam/hybridrec/pkg/conv"
	"github.com/rushteam/hybridrec/recall"
	"github.com/rushteam/hybridrec/rerank"
)

// Deps 是内置 Node 所需的依赖。
type Deps struct {
	Ratings  recall.RatingReader
	Catalog  *core.Catalog
	Profiles recall.ProfileSource

	// Store 可选，recall.hot 从中读取离线榜单
	Store core.Store

	Logger zerolog.Logger

	// Options 作用于所有协同过滤召回，节点配置中的参数会覆盖它们
	Options []recall.Option
}

// DefaultFactory 返回一个包含所有内置 Node 的默认工厂。
func DefaultFactory(deps Deps) *pipeline.NodeFactory {
	b := &builders{deps: deps}
	factory := pipeline.NewNodeFactory()

	// 注册 Recall Nodes
	factory.Register("recall.hybrid", b.hybrid)
	factory.Register("recall.user_cf", b.sourceNode("user_cf"))
	factory.Register("recall.item_cf", b.sourceNode("item_cf"))
	factory.Register("recall.content", b.sourceNode("content"))
	factory.Register("recall.hot", b.sourceNode("hot"))

	// 注册 Filter Nodes
	factory.Register("filter", b.filter)

	// 注册 ReRank Nodes
	factory.Register("rerank.topn", buildTopNNode)
	factory.Register("rerank.diversity", b.diversity)

	return factory
}

// ValidatePipelineConfig 检查配置中的节点类型是否都已注册，并列出支持的类型。
func ValidatePipelineConfig(factory *pipeline.NodeFactory, cfg *pipeline.Config) error {
	if cfg == nil {
		return core.InvalidConfiguration(core.ModulePipeline, "pipeline config is nil")
	}
	var unknown []string
	for i, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "" {
			unknown = append(unknown, fmt.Sprintf("#%d: empty type", i))
			continue
		}
		if !factory.Has(nc.Type) {
			unknown = append(unknown, fmt.Sprintf("#%d: %s", i, nc.Type))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	supported := factory.Types()
	slices.Sort(supported)
	return core.InvalidConfiguration(core.ModulePipeline, fmt.Sprintf(
		"unknown node types [%s], supported: [%s]",
		strings.Join(unknown, ", "), strings.Join(supported, ", "),
	))
}

type builders struct {
	deps Deps
}

// source 按类型名构建召回源。
func (b *builders) source(kind string, config map[string]any) (recall.Source, error) {
	opts := slices.Clone(b.deps.Options)
	if v, ok := config["threshold"]; ok {
		th, ok := conv.ToFloat64(v)
		if !ok {
			return nil, core.InvalidConfiguration(core.ModulePipeline, fmt.Sprintf("%s: threshold must be a number", kind))
		}
		opts = append(opts, recall.WithThreshold(th))
	}
	if p := conv.ConfigGetInt(config, "parallelism", 0); p > 0 {
		opts = append(opts, recall.WithParallelism(p))
	}

	switch kind {
	case "user_cf":
		if b.deps.Ratings == nil {
			return nil, core.InvalidConfiguration(core.ModulePipeline, "user_cf: ratings not configured")
		}
		return recall.NewUserBasedCF(b.deps.Ratings, opts...)
	case "item_cf":
		if b.deps.Ratings == nil {
			return nil, core.InvalidConfiguration(core.ModulePipeline, "item_cf: ratings not configured")
		}
		return recall.NewItemBasedCF(b.deps.Ratings, opts...)
	case "content":
		if b.deps.Catalog == nil || b.deps.Profiles == nil {
			return nil, core.InvalidConfiguration(core.ModulePipeline, "content: catalog and profiles are required")
		}
		return recall.NewContentRecall(b.deps.Catalog, b.deps.Profiles), nil
	case "hot":
		return &recall.Hot{
			Ratings: b.deps.Ratings,
			Store:   b.deps.Store,
			Key:     conv.ConfigGet(config, "key", ""),
			IDs:     conv.SliceAnyToInt64(config["ids"]),
		}, nil
	default:
		return nil, core.InvalidConfiguration(core.ModulePipeline, fmt.Sprintf("unknown source type: %s", kind))
	}
}

func (b *builders) sourceNode(kind string) pipeline.NodeBuilder {
	return func(config map[string]any) (pipeline.Node, error) {
		src, err := b.source(kind, config)
		if err != nil {
			return nil, err
		}
		return &recall.SourceNode{
			Source: src,
			N:      conv.ConfigGetInt(config, "n", core.DefaultTopN),
		}, nil
	}
}

// hybrid 构建混合召回，sources 缺省时为 用户协同 → 物品协同 → 内容。
//
//	nodes:
//	  - type: recall.hybrid
//	    config:
//	      n: 5
//	      timeout_ms: 200
//	      sources: [user_cf, item_cf, content]
func (b *builders) hybrid(config map[string]any) (pipeline.Node, error) {
	kinds := []string{"user_cf", "item_cf", "content"}
	if raw, ok := config["sources"]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, core.InvalidConfiguration(core.ModulePipeline, "recall.hybrid: sources must be a list")
		}
		kinds = kinds[:0]
		for _, v := range list {
			switch s := v.(type) {
			case string:
				kinds = append(kinds, s)
			case map[string]any:
				kinds = append(kinds, conv.ConfigGet(s, "type", ""))
			default:
				return nil, core.InvalidConfiguration(core.ModulePipeline, fmt.Sprintf("recall.hybrid: invalid source %v", v))
			}
		}
	}

	sources := make([]recall.Source, 0, len(kinds))
	for _, kind := range kinds {
		src, err := b.source(kind, config)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	h := recall.NewHybrid(b.deps.Logger, sources...)
	h.Catalog = b.deps.Catalog
	h.N = conv.ConfigGetInt(config, "n", core.DefaultTopN)
	if ms := conv.ConfigGetInt(config, "timeout_ms", 0); ms > 0 {
		h.Timeout = time.Duration(ms) * time.Millisecond
	}
	return h, nil
}

// filter 构建过滤节点。
//
//	nodes:
//	  - type: filter
//	    config:
//	      filters:
//	        - {type: expr, expr: 'item.score >= 3.0'}
//	        - {type: blacklist, ids: [7]}
//	        - {type: price_range}
func (b *builders) filter(config map[string]any) (pipeline.Node, error) {
	specs, err := conv.ConfigGetMaps(config, "filters")
	if err != nil {
		return nil, core.InvalidConfiguration(core.ModulePipeline, "filter: "+err.Error())
	}

	filters := make([]filter.Filter, 0, len(specs))
	for _, fc := range specs {
		switch typ := conv.ConfigGet(fc, "type", ""); typ {
		case "expr":
			f, err := filter.NewExprFilter(conv.ConfigGet(fc, "expr", ""))
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		case "blacklist":
			filters = append(filters, filter.NewBlacklistFilter(conv.SliceAnyToInt64(fc["ids"])))
		case "price_range":
			if b.deps.Catalog == nil {
				return nil, core.InvalidConfiguration(core.ModulePipeline, "price_range filter: catalog not configured")
			}
			filters = append(filters, &filter.PriceRangeFilter{
				Catalog:  b.deps.Catalog,
				Profiles: b.deps.Profiles,
			})
		default:
			return nil, core.InvalidConfiguration(core.ModulePipeline, fmt.Sprintf("unknown filter type: %q", typ))
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}

func (b *builders) diversity(config map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{
		Catalog:        b.deps.Catalog,
		LabelKey:       conv.ConfigGet(config, "label_key", "category"),
		MaxPerCategory: conv.ConfigGetInt(config, "max_per_category", 1),
	}, nil
}

func buildTopNNode(config map[string]any) (pipeline.Node, error) {
	n := conv.ConfigGetInt(config, "n", 0)
	if n < 0 {
		return nil, core.InvalidConfiguration(core.ModulePipeline, fmt.Sprintf("rerank.topn: n must be >= 0, got %d", n))
	}
	return &rerank.TopNNode{N: n}, nil
}
