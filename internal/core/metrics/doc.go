// Package metrics 提供种子发现的 Prometheus 指标
//
// 指标（命名空间 peerseed）：
//   - cycles_total{source,outcome}: 发现周期，outcome 为 published/unchanged/abandoned
//   - decode_failures_total{source}: 昵称解码失败
//   - transport_errors_total{source}: 被吸收的连接级错误
//   - resolution_errors_total{hostname}: 种子主机名解析失败
//   - publications_total{source,event}: found/updated 发布次数
//   - known_addresses{source}: 当前已发布列表长度
//
// # 快速开始
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	m.CycleCompleted(types.SourceIRC, metrics.OutcomeUnchanged)
//
// *Metrics 的方法对 nil 接收者安全，禁用指标时组件持有 nil 即可。
package metrics
