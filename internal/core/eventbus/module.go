package eventbus

import (
	"context"

	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-peerseed/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	EventBus  pkgif.EventBus
	Publisher pkgif.SeedPublisher
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("eventbus",
		fx.Provide(ProvideEventBus),
	)
}

// ProvideEventBus 提供 EventBus 与基于它的 SeedPublisher
func ProvideEventBus(lc fx.Lifecycle) (Result, error) {
	bus := NewBus()
	pub, err := NewPublisher(bus)
	if err != nil {
		return Result{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})

	return Result{
		EventBus:  bus,
		Publisher: pub,
	}, nil
}
