// Package hybridrec 是一个混合推荐引擎：用户协同过滤、物品协同过滤、基于内容的推荐，以及三者的混合。
//
// 设计要点：
// - 可审计: 相似度（Pearson、对数似然）和打分公式都直接写在代码里，结果可复现
// - 确定性: 所有求和按 ID 升序进行，同分按物品 ID 升序排列
// - Pipeline-first: 召回源可以单独调用，也可以作为 Node 串联（Recall → Filter → ReRank）
// - Labels-first: recall_source 等 label 全链路透传，便于解释推荐来源
package hybridrec

import (
	"github.com/rushteam/hybridrec/engine"
	"github.com/rushteam/hybridrec/pipeline"
	"github.com/rushteam/hybridrec/recall"
)

// 轻量 facade：便于用户直接 import "hybridrec" 使用核心抽象。
type (
	Engine     = engine.Engine
	Config     = engine.Config
	HybridItem = recall.HybridItem
	Pipeline   = pipeline.Pipeline
	Node       = pipeline.Node
	Kind       = pipeline.Kind
)

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)

var (
	New           = engine.New
	LoadConfig    = engine.LoadConfig
	DefaultConfig = engine.DefaultConfig
)
