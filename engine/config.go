package engine

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/hybridrec/core"
)

// EnvPrefix 是环境变量前缀，例如 HYBRIDREC_LOG_LEVEL=debug。
const EnvPrefix = "HYBRIDREC_"

// Config 是推荐引擎的配置。
type Config struct {
	// Threshold 用户邻域的相似度阈值
	Threshold float64 `koanf:"threshold" validate:"gte=-1,lte=1"`

	// MinCommonItems 计算 Pearson 相似度所需的最少共同评分物品数
	MinCommonItems int `koanf:"min_common_items" validate:"gte=2"`

	// Parallelism 候选打分的最大并发数
	Parallelism int `koanf:"parallelism" validate:"gte=1,lte=1024"`

	// TopN 未指定 n 时的返回条数
	TopN int `koanf:"top_n" validate:"gte=0"`

	// HybridTimeoutMS 混合推荐中每个召回源的超时（毫秒），0 表示不限制
	HybridTimeoutMS int `koanf:"hybrid_timeout_ms" validate:"gte=0"`

	Log      LogConfig      `koanf:"log"`
	Ratings  RatingsConfig  `koanf:"ratings"`
	Redis    RedisConfig    `koanf:"redis"`
	Pipeline PipelineConfig `koanf:"pipeline"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// RatingsConfig 评分数据来源。Path 为空时由调用方提供评分。
type RatingsConfig struct {
	Path string `koanf:"path"`
}

// RedisConfig 评分快照的 Redis 存储，Addr 为空表示不启用。
type RedisConfig struct {
	Addr   string `koanf:"addr" validate:"omitempty,hostname_port"`
	DB     int    `koanf:"db" validate:"gte=0"`
	Prefix string `koanf:"prefix"`
}

// PipelineConfig 可选的 YAML Pipeline 定义。
type PipelineConfig struct {
	Path string `koanf:"path"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		Threshold:      core.DefaultNeighborhoodThreshold,
		MinCommonItems: core.DefaultMinCommonItems,
		Parallelism:    (&core.DefaultRecallConfig{}).DefaultParallelism(),
		TopN:           core.DefaultTopN,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Redis: RedisConfig{
			Prefix: "hybridrec:ratings",
		},
	}
}

// Validate 校验配置，失败返回 INVALID_CONFIGURATION。
func (c Config) Validate() error {
	if err := core.Validate(c); err != nil {
		return core.InvalidConfiguration(core.ModuleRecall, fmt.Sprintf("engine config: %v", err))
	}
	return nil
}

func (c Config) DefaultNeighborhoodThreshold() float64 { return c.Threshold }
func (c Config) DefaultMinCommonItems() int            { return c.MinCommonItems }
func (c Config) DefaultTopN() int                      { return c.TopN }
func (c Config) DefaultParallelism() int               { return c.Parallelism }

var _ core.RecallConfig = Config{}

// LoadConfig 按以下顺序分层加载配置，后者覆盖前者：
//  1. DefaultConfig
//  2. YAML 文件（path 非空时）
//  3. HYBRIDREC_ 前缀的环境变量
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return Config{}, fmt.Errorf("load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envSections 是带嵌套结构的配置段。
var envSections = []string{"log", "ratings", "redis", "pipeline"}

// envTransform 把环境变量名转换为 koanf 路径：
//   - HYBRIDREC_THRESHOLD -> threshold
//   - HYBRIDREC_MIN_COMMON_ITEMS -> min_common_items
//   - HYBRIDREC_LOG_LEVEL -> log.level
//   - HYBRIDREC_REDIS_ADDR -> redis.addr
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	for _, section := range envSections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok && rest != "" {
			return section + "." + rest
		}
	}
	return key
}
