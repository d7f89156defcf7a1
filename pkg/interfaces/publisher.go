// Package interfaces 定义 peerseed 公共接口
//
// 本文件定义发现结果发布接口。
package interfaces

import "github.com/dep2p/go-peerseed/pkg/types"

// SeedPublisher 发现结果发布者
//
// 两个具名事件流：
//   - PublishFound: 实例生命周期内首次得到非空列表时调用一次
//   - PublishUpdated: 每次已发布列表变化时调用（含首次）
//
// 调用发生在引导器的事件循环 goroutine 中，实现不得阻塞，
// 也不得同步调用引导器的 Stop。
type SeedPublisher interface {
	PublishFound(source types.Source, addrs types.AddressList)
	PublishUpdated(source types.Source, addrs types.AddressList)
}

// PublisherFuncs 以函数字段实现 SeedPublisher，未设置的字段忽略对应事件
type PublisherFuncs struct {
	OnFound   func(source types.Source, addrs types.AddressList)
	OnUpdated func(source types.Source, addrs types.AddressList)
}

// PublishFound 实现 SeedPublisher
func (p PublisherFuncs) PublishFound(source types.Source, addrs types.AddressList) {
	if p.OnFound != nil {
		p.OnFound(source, addrs)
	}
}

// PublishUpdated 实现 SeedPublisher
func (p PublisherFuncs) PublishUpdated(source types.Source, addrs types.AddressList) {
	if p.OnUpdated != nil {
		p.OnUpdated(source, addrs)
	}
}

// MultiPublisher 依次转发给多个发布者
type MultiPublisher []SeedPublisher

// PublishFound 实现 SeedPublisher
func (m MultiPublisher) PublishFound(source types.Source, addrs types.AddressList) {
	for _, p := range m {
		if p != nil {
			p.PublishFound(source, addrs)
		}
	}
}

// PublishUpdated 实现 SeedPublisher
func (m MultiPublisher) PublishUpdated(source types.Source, addrs types.AddressList) {
	for _, p := range m {
		if p != nil {
			p.PublishUpdated(source, addrs)
		}
	}
}
