// Package types 定义 peerseed 公共类型
//
// 本文件定义发现事件类型。
package types

import "time"

// ============================================================================
//                              事件来源
// ============================================================================

// Source 发现渠道标识
type Source string

const (
	// SourceIRC IRC 频道昵称宣告
	SourceIRC Source = "irc"

	// SourceDNS DNS 种子主机名解析
	SourceDNS Source = "dns"
)

// ============================================================================
//                              发现事件
// ============================================================================

// EvtSeedsFound 首次获得非空地址列表
//
// 每个引导实例生命周期内最多发布一次。
type EvtSeedsFound struct {
	Source    Source
	Addresses AddressList
	Timestamp time.Time
}

// EvtSeedsUpdated 已发布地址列表发生变化
//
// 包括第一次变化，因此首次发现时会紧随 EvtSeedsFound 之后发布。
type EvtSeedsUpdated struct {
	Source    Source
	Addresses AddressList
	Timestamp time.Time
}
