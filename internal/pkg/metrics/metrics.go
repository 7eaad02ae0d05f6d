// Package metrics 定义了服务暴露给 Prometheus 的指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "boganto"

var (
	// HTTPRequestsTotal 按路由、方法和状态码统计请求数
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration 按路由统计请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// LoginAttemptsTotal 按结果统计登录次数
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Total number of admin login attempts",
		},
		[]string{"result"},
	)

	// SessionsSweptTotal 定时任务清理掉的过期会话数
	SessionsSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_swept_total",
			Help:      "Total number of expired sessions removed by the sweeper",
		},
	)

	// BlogViewsTotal 文章详情被访问的次数
	BlogViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blog_views_total",
			Help:      "Total number of single blog reads",
		},
	)
)

// RecordRequest 记录一次 HTTP 请求
func RecordRequest(route, method, status string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

// RecordLogin 记录一次登录结果：success、failure 或 error
func RecordLogin(result string) {
	LoginAttemptsTotal.WithLabelValues(result).Inc()
}
