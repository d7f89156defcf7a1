// Package interfaces 定义 peerseed 公共接口
//
// 本文件定义引导器接口。
package interfaces

import (
	"context"

	"github.com/dep2p/go-peerseed/pkg/types"
)

// Bootstrapper 种子发现引导器
//
// IRC 与 DNS 两种渠道实现同一接口，事件契约相同。
type Bootstrapper interface {
	// Source 返回发现渠道
	Source() types.Source

	// Start 启动后台发现循环
	Start(ctx context.Context) error

	// Stop 停止发现；可重复调用，返回后不再发布任何事件
	Stop(ctx context.Context) error

	// Addresses 返回当前已发布的地址列表副本
	Addresses() types.AddressList
}
