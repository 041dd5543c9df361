package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shift_hub"

// Metrics 业务指标集合
// 所有方法对 nil 接收者安全，未启用指标时直接传 nil
type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpLatency       *prometheus.HistogramVec
	aggregations      *prometheus.CounterVec
	aggregationTime   prometheus.Histogram
	storeFailures     *prometheus.CounterVec
	identityLookups   *prometheus.CounterVec
	attendanceActions *prometheus.CounterVec
}

// New 创建独立 Registry 并注册全部指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP 请求总数",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stats_aggregations_total",
			Help:      "工时聚合次数（result=ok|zeroed）",
		}, []string{"result"}),
		aggregationTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stats_aggregation_duration_seconds",
			Help:      "单次工时聚合耗时",
			Buckets:   prometheus.DefBuckets,
		}),
		storeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identity_store_failures_total",
			Help:      "身份解析时角色分区查询失败次数",
		}, []string{"role"}),
		identityLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identity_lookups_total",
			Help:      "身份解析次数（by=email|id, result=found|not_found）",
		}, []string{"by", "result"}),
		attendanceActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attendance_actions_total",
			Help:      "考勤操作次数",
		}, []string{"action"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpLatency,
		m.aggregations,
		m.aggregationTime,
		m.storeFailures,
		m.identityLookups,
		m.attendanceActions,
	)
	return m
}

// Handler 返回 /metrics 的 HTTP 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry 暴露底层 Registry（测试读取指标用）
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveHTTP 记录一次 HTTP 请求
func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveAggregation 记录一次聚合结果；zeroed 表示走了失败兜底
func (m *Metrics) ObserveAggregation(zeroed bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if zeroed {
		result = "zeroed"
	}
	m.aggregations.WithLabelValues(result).Inc()
	m.aggregationTime.Observe(elapsed.Seconds())
}

// IncStoreFailure 记录角色分区查询失败
func (m *Metrics) IncStoreFailure(role string) {
	if m == nil {
		return
	}
	m.storeFailures.WithLabelValues(role).Inc()
}

// IncIdentityLookup 记录一次身份解析
func (m *Metrics) IncIdentityLookup(by string, found bool) {
	if m == nil {
		return
	}
	result := "found"
	if !found {
		result = "not_found"
	}
	m.identityLookups.WithLabelValues(by, result).Inc()
}

// IncAttendance 记录考勤操作（clock_in | clock_out | verify）
func (m *Metrics) IncAttendance(action string) {
	if m == nil {
		return
	}
	m.attendanceActions.WithLabelValues(action).Inc()
}
