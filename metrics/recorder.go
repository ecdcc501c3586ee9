// Package metrics 记录推荐调用的 Prometheus 指标。
//
// 指标：
//   - hybridrec_recommendations_total{source}: 返回的推荐条数 (counter)
//   - hybridrec_recommend_errors_total{source}: 失败的推荐调用 (counter)
//   - hybridrec_recommend_duration_seconds{source}: 推荐耗时 (histogram)
//
// source 取 user_based / item_based / content_based / hybrid 等。
// Recorder 使用独立的 Registry，不污染 prometheus.DefaultRegisterer。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hybridrec"

// Recorder 持有推荐指标。nil Recorder 的所有方法都是空操作。
type Recorder struct {
	registry *prometheus.Registry

	Recommendations *prometheus.CounterVec
	Errors          *prometheus.CounterVec
	Duration        *prometheus.HistogramVec
}

// NewRecorder 创建 Recorder 并注册到新的 Registry。
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		Recommendations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recommendations_total",
				Help:      "Total number of recommended items returned",
			},
			[]string{"source"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recommend_errors_total",
				Help:      "Total number of failed recommendation calls",
			},
			[]string{"source"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "recommend_duration_seconds",
				Help:      "Recommendation call latency in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"source"},
		),
	}
}

// Registry 返回底层 Registry，可用于 promhttp.HandlerFor 暴露指标。
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Observe 记录一次推荐调用。
func (r *Recorder) Observe(source string, start time.Time, returned int, err error) {
	if r == nil {
		return
	}
	r.Duration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		r.Errors.WithLabelValues(source).Inc()
		return
	}
	r.Recommendations.WithLabelValues(source).Add(float64(returned))
}
