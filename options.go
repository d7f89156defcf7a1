package peerseed

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-peerseed/config"
	pkgif "github.com/dep2p/go-peerseed/pkg/interfaces"
	"github.com/dep2p/go-peerseed/pkg/types"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// config 统一配置，选项在其副本上修改
	config *config.Config

	// registry 指标注册表，为空时使用独立的新注册表
	registry *prometheus.Registry

	// publishers 额外的结果发布者，与事件总线并行接收
	publishers []pkgif.SeedPublisher

	// fxOptions 追加到 Fx 应用的原始选项
	fxOptions []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{
		config: config.NewConfig(),
	}
}

// apply 依次应用选项
func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              配置
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 使用完整配置
//
// 配置会被深拷贝，之后的选项只修改副本。应放在其他配置类选项之前。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		o.config = config.CloneConfig(cfg)
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              IRC 发现
// ════════════════════════════════════════════════════════════════════════════

// WithIRC 启用 IRC 发现
//
// 本机以 host:port 编码的昵称加入 channel。
func WithIRC(channel, host string, port int) Option {
	return func(o *options) error {
		if _, err := types.ParsePeerAddress(host, port); err != nil {
			return fmt.Errorf("irc announce address: %w", err)
		}
		o.config.IRC.Enable = true
		o.config.IRC.Channel = channel
		o.config.IRC.LocalHost = host
		o.config.IRC.LocalPort = port
		return nil
	}
}

// WithIRCServer 设置 IRC 服务器地址（host:port）
func WithIRCServer(server string) Option {
	return func(o *options) error {
		o.config.IRC.Server = server
		return nil
	}
}

// WithPollIntervals 设置 WHO 轮询的快慢两档间隔
func WithPollIntervals(fast, slow time.Duration) Option {
	return func(o *options) error {
		if fast <= 0 || slow <= 0 {
			return fmt.Errorf("invalid poll intervals %s/%s", fast, slow)
		}
		o.config.IRC.FastInterval = config.Duration(fast)
		o.config.IRC.SlowInterval = config.Duration(slow)
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              DNS 发现
// ════════════════════════════════════════════════════════════════════════════

// WithDNSSeeds 启用 DNS 发现，解析结果统一使用 port
func WithDNSSeeds(port int, hostnames ...string) Option {
	return func(o *options) error {
		if len(hostnames) == 0 {
			return errors.New("dns seeds: no hostnames")
		}
		o.config.DNS.Enable = true
		o.config.DNS.Port = port
		o.config.DNS.Hostnames = append([]string(nil), hostnames...)
		return nil
	}
}

// WithDNSResolver 使用指定的 DNS 服务器（host:port）而非系统解析器
func WithDNSResolver(server string) Option {
	return func(o *options) error {
		o.config.DNS.CustomResolver = server
		return nil
	}
}

// WithDNSRefresh 设置 DNS 周期刷新间隔，0 表示只解析一次
func WithDNSRefresh(interval time.Duration) Option {
	return func(o *options) error {
		if interval < 0 {
			return fmt.Errorf("invalid refresh interval %s", interval)
		}
		o.config.DNS.RefreshInterval = config.Duration(interval)
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              可观测性与扩展
// ════════════════════════════════════════════════════════════════════════════

// WithRegistry 将指标注册到指定注册表
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) error {
		o.registry = reg
		return nil
	}
}

// WithMetrics 开关指标收集
func WithMetrics(enabled bool) Option {
	return func(o *options) error {
		o.config.Metrics.Enabled = enabled
		return nil
	}
}

// WithPublisher 追加结果发布者
//
// 回调在引导器的事件循环中执行，不得阻塞。
func WithPublisher(pub pkgif.SeedPublisher) Option {
	return func(o *options) error {
		if pub == nil {
			return errors.New("publisher is nil")
		}
		o.publishers = append(o.publishers, pub)
		return nil
	}
}

// WithFxOption 追加原始 Fx 选项（测试与高级装配使用）
func WithFxOption(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
