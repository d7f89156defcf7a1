package irc

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-peerseed/config"
	"github.com/dep2p/go-peerseed/internal/core/metrics"
	pkgif "github.com/dep2p/go-peerseed/pkg/interfaces"
)

// Module IRC 引导模块
var Module = fx.Module("discovery_irc",
	fx.Provide(
		NewFromParams,
	),
)

// Params IRC 引导依赖参数
type Params struct {
	fx.In

	Lc         fx.Lifecycle
	Transport  pkgif.ChatTransport
	Publisher  pkgif.SeedPublisher
	Metrics    *metrics.Metrics `optional:"true"`
	UnifiedCfg *config.Config   `optional:"true"`
}

// Result IRC 引导导出结果
type Result struct {
	fx.Out

	IRC          *Bootstrap
	Bootstrapper pkgif.Bootstrapper `group:"bootstrappers"`
}

// NewFromParams 从 Fx 参数创建 Bootstrap 并注册生命周期钩子
func NewFromParams(p Params) (Result, error) {
	b, err := New(ConfigFromUnified(p.UnifiedCfg), p.Transport, p.Publisher, WithMetrics(p.Metrics))
	if err != nil {
		return Result{}, err
	}

	p.Lc.Append(fx.Hook{
		OnStart: b.Start,
		OnStop:  b.Stop,
	})

	return Result{
		IRC:          b,
		Bootstrapper: b,
	}, nil
}
