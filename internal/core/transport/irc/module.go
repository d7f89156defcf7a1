package irc

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-peerseed/config"
	pkgif "github.com/dep2p/go-peerseed/pkg/interfaces"
)

// Module IRC 传输模块
var Module = fx.Module("transport_irc",
	fx.Provide(
		NewFromParams,
	),
)

// Params IRC 传输依赖参数
type Params struct {
	fx.In

	Lc         fx.Lifecycle
	UnifiedCfg *config.Config `optional:"true"`
}

// Result IRC 传输导出结果
type Result struct {
	fx.Out

	Client    *Client
	Transport pkgif.ChatTransport
}

// NewFromParams 从 Fx 参数创建 Client，停止时关闭
func NewFromParams(p Params) Result {
	client := NewClient(ConfigFromUnified(p.UnifiedCfg))

	p.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return Result{
		Client:    client,
		Transport: client,
	}
}
