package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dep2p/go-peerseed/pkg/types"
)

// Namespace 指标命名空间
const Namespace = "peerseed"

// 轮询周期结果
const (
	// OutcomePublished 列表变化并已发布
	OutcomePublished = "published"
	// OutcomeUnchanged 列表未变化
	OutcomeUnchanged = "unchanged"
	// OutcomeAbandoned 超时未收到结束应答，周期被放弃
	OutcomeAbandoned = "abandoned"
)

// 发布事件名
const (
	EventFound   = "found"
	EventUpdated = "updated"
)

// Metrics 种子发现指标
//
// 所有方法对 nil 接收者安全，禁用指标时组件直接持有 nil。
type Metrics struct {
	cycles           *prometheus.CounterVec
	decodeFailures   *prometheus.CounterVec
	transportErrors  *prometheus.CounterVec
	resolutionErrors *prometheus.CounterVec
	publications     *prometheus.CounterVec
	knownAddresses   *prometheus.GaugeVec
}

// New 在 reg 上注册全部指标；reg 为 nil 时使用独立的新注册表
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		cycles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cycles_total",
			Help:      "Completed discovery cycles by source and outcome.",
		}, []string{"source", "outcome"}),
		decodeFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "decode_failures_total",
			Help:      "Announced nicknames that failed to decode.",
		}, []string{"source"}),
		transportErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "transport_errors_total",
			Help:      "Connection-level errors absorbed by a bootstrap.",
		}, []string{"source"}),
		resolutionErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "resolution_errors_total",
			Help:      "Failed seed hostname resolutions.",
		}, []string{"hostname"}),
		publications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "publications_total",
			Help:      "Published discovery events by source and event.",
		}, []string{"source", "event"}),
		knownAddresses: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "known_addresses",
			Help:      "Size of the currently published address list.",
		}, []string{"source"}),
	}
}

// CycleCompleted 记录一次完成的发现周期
func (m *Metrics) CycleCompleted(source types.Source, outcome string) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(string(source), outcome).Inc()
}

// DecodeFailed 记录一次昵称解码失败
func (m *Metrics) DecodeFailed(source types.Source) {
	if m == nil {
		return
	}
	m.decodeFailures.WithLabelValues(string(source)).Inc()
}

// TransportError 记录一次连接级错误
func (m *Metrics) TransportError(source types.Source) {
	if m == nil {
		return
	}
	m.transportErrors.WithLabelValues(string(source)).Inc()
}

// ResolutionFailed 记录一次主机名解析失败
func (m *Metrics) ResolutionFailed(hostname string) {
	if m == nil {
		return
	}
	m.resolutionErrors.WithLabelValues(hostname).Inc()
}

// Published 记录一次事件发布并更新地址数量
func (m *Metrics) Published(source types.Source, event string, size int) {
	if m == nil {
		return
	}
	m.publications.WithLabelValues(string(source), event).Inc()
	m.knownAddresses.WithLabelValues(string(source)).Set(float64(size))
}
