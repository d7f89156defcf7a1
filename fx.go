package peerseed

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-peerseed/internal/core/eventbus"
	"github.com/dep2p/go-peerseed/internal/core/metrics"
	irctransport "github.com/dep2p/go-peerseed/internal/core/transport/irc"
	dnsdiscovery "github.com/dep2p/go-peerseed/internal/discovery/dns"
	ircdiscovery "github.com/dep2p/go-peerseed/internal/discovery/irc"
	pkgif "github.com/dep2p/go-peerseed/pkg/interfaces"
	"github.com/dep2p/go-peerseed/pkg/lib/log"
)

var fxLogger = log.Logger("peerseed/fx")

// bootstrapperParams 收集所有已启用渠道的引导器
type bootstrapperParams struct {
	fx.In

	Bootstrappers []pkgif.Bootstrapper `group:"bootstrappers"`
}

// buildFxApp 构建 Fx 应用
//
// 模块加载顺序：
//  1. 统一配置
//  2. 指标
//  3. 事件总线（SeedPublisher）
//  4. IRC 传输与 IRC 发现（可选）
//  5. DNS 发现（可选）
//
// fx.New 期间执行 Invoke，返回时 Seeder 的引用字段均已填充。
func buildFxApp(o *options, s *Seeder) *fx.App {
	cfg := o.config

	modules := []fx.Option{
		// ════════════════════════════════════════════════════════════════════
		// 1. 配置
		// ════════════════════════════════════════════════════════════════════
		fx.Supply(cfg),

		// ════════════════════════════════════════════════════════════════════
		// 2. 指标与事件总线
		// ════════════════════════════════════════════════════════════════════
		metrics.Module,
		eventbus.Module(),
		fx.Populate(&s.bus),
	}

	if o.registry != nil {
		modules = append(modules, fx.Supply(o.registry))
	}

	// 额外发布者与总线发布者并行接收结果
	if len(o.publishers) > 0 {
		extra := append([]pkgif.SeedPublisher(nil), o.publishers...)
		modules = append(modules, fx.Decorate(func(pub pkgif.SeedPublisher) pkgif.SeedPublisher {
			return append(pkgif.MultiPublisher{pub}, extra...)
		}))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. IRC 发现（可选）
	// ════════════════════════════════════════════════════════════════════════
	if cfg.IRC.Enable {
		fxLogger.Debug("加载 IRC 发现模块", "server", cfg.IRC.Server, "channel", cfg.IRC.Channel)
		modules = append(modules,
			irctransport.Module,
			ircdiscovery.Module,
			fx.Populate(&s.irc),
		)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 4. DNS 发现（可选）
	// ════════════════════════════════════════════════════════════════════════
	if cfg.DNS.Enable {
		fxLogger.Debug("加载 DNS 发现模块", "hostnames", len(cfg.DNS.Hostnames))
		modules = append(modules,
			dnsdiscovery.Module,
			fx.Populate(&s.dns),
		)
	}

	modules = append(modules,
		fx.Invoke(func(p bootstrapperParams) {
			s.bootstrappers = p.Bootstrappers
		}),
	)

	modules = append(modules, o.fxOptions...)

	// ════════════════════════════════════════════════════════════════════════
	// 5. Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	return fx.New(modules...)
}
