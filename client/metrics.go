/*
 * @module client/metrics
 * @description 传输层Prometheus指标，按路由和结果类别统计请求次数
 * @architecture 指标采集 - 使用默认注册表，嵌入方通过promhttp暴露
 * @documentReference ai_docs/modernize_api_contract.md
 * @stateFlow 请求完成 -> 按路由与结果打点
 * @rules 指标只做计数，不影响请求流程
 * @dependencies github.com/prometheus/client_golang/prometheus
 * @refs client/modernize_client.go, testutil/stub_server.go
 */

package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "modernize_client_requests_total",
		Help: "现代化服务客户端请求总数，按路由和结果分类",
	},
	[]string{"route", "result"},
)

// recordRequest 记录一次请求结果
// result取值: success / rejected / malformed / unreachable / error
func recordRequest(route, result string) {
	requestCounter.WithLabelValues(route, result).Inc()
}
