package peerseed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-peerseed/config"
	dnsdiscovery "github.com/dep2p/go-peerseed/internal/discovery/dns"
	ircdiscovery "github.com/dep2p/go-peerseed/internal/discovery/irc"
	pkgif "github.com/dep2p/go-peerseed/pkg/interfaces"
	"github.com/dep2p/go-peerseed/pkg/lib/log"
	"github.com/dep2p/go-peerseed/pkg/types"
)

var logger = log.Logger("peerseed")

const (
	// startTimeout Fx App 启动超时
	startTimeout = 30 * time.Second

	// stopTimeout Close 使用的关闭超时
	stopTimeout = 10 * time.Second
)

// ════════════════════════════════════════════════════════════════════════════
//                              Seeder
// ════════════════════════════════════════════════════════════════════════════

// Seeder 对等节点种子发现器
//
// 组合已启用的发现渠道（IRC、DNS），结果以 EvtSeedsFound/EvtSeedsUpdated
// 发布到事件总线，并同时转发给 WithPublisher 注册的发布者。
type Seeder struct {
	config *config.Config
	app    *fx.App

	// 由 Fx 填充
	bus           pkgif.EventBus
	irc           *ircdiscovery.Bootstrap
	dns           *dnsdiscovery.Bootstrap
	bootstrappers []pkgif.Bootstrapper

	mu      sync.Mutex
	started bool
	closed  bool
}

// New 创建 Seeder，不启动任何发现
func New(opts ...Option) (*Seeder, error) {
	o := newOptions()
	if err := o.apply(opts...); err != nil {
		return nil, fmt.Errorf("apply options: %w", err)
	}
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if !o.config.IRC.Enable && !o.config.DNS.Enable {
		return nil, ErrNoSource
	}

	s := &Seeder{config: o.config}
	s.app = buildFxApp(o, s)
	if err := s.app.Err(); err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	return s, nil
}

// Start 创建并启动 Seeder
func Start(ctx context.Context, opts ...Option) (*Seeder, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Start(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Start 启动所有已启用的发现渠道
//
// 启动失败后 Seeder 不可再用。
func (s *Seeder) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.started {
		return ErrAlreadyStarted
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	// Fx 在启动失败时自行回滚已启动的钩子
	if err := s.app.Start(startCtx); err != nil {
		s.closed = true
		return fmt.Errorf("start: %w", err)
	}

	s.started = true
	logger.Info("种子发现已启动", "sources", s.Sources())
	return nil
}

// Stop 停止所有发现渠道
//
// 可重复调用；返回后不再发布任何事件。未启动即停止时直接标记为关闭。
func (s *Seeder) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if !s.started {
		return nil
	}

	if err := s.app.Stop(ctx); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	logger.Info("种子发现已停止")
	return nil
}

// Close 以默认超时停止 Seeder
func (s *Seeder) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return s.Stop(ctx)
}

// ════════════════════════════════════════════════════════════════════════════
//                              访问器
// ════════════════════════════════════════════════════════════════════════════

// Config 返回生效配置的副本
func (s *Seeder) Config() *config.Config {
	return config.CloneConfig(s.config)
}

// EventBus 返回事件总线
//
// 订阅 new(types.EvtSeedsFound) 或 new(types.EvtSeedsUpdated) 获取发现结果。
func (s *Seeder) EventBus() pkgif.EventBus {
	return s.bus
}

// Sources 返回已启用的发现渠道
func (s *Seeder) Sources() []types.Source {
	sources := make([]types.Source, 0, len(s.bootstrappers))
	for _, b := range s.bootstrappers {
		sources = append(sources, b.Source())
	}
	return sources
}

// Addresses 返回指定渠道当前已发布的地址列表
func (s *Seeder) Addresses(source types.Source) (types.AddressList, error) {
	for _, b := range s.bootstrappers {
		if b.Source() == source {
			return b.Addresses(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSourceDisabled, source)
}

// Nick 返回 IRC 宣告昵称；IRC 未启用时返回空字符串
func (s *Seeder) Nick() string {
	if s.irc == nil {
		return ""
	}
	return s.irc.Nick()
}

// QueryIRC 立即发起一次 WHO 枚举
//
// 已有枚举进行中时不会重复发送。
func (s *Seeder) QueryIRC() error {
	if s.irc == nil {
		return fmt.Errorf("%w: %s", ErrSourceDisabled, types.SourceIRC)
	}
	return s.irc.Query()
}

// RefreshDNS 立即重新解析全部种子主机名
func (s *Seeder) RefreshDNS() error {
	if s.dns == nil {
		return fmt.Errorf("%w: %s", ErrSourceDisabled, types.SourceDNS)
	}
	return s.dns.Refresh()
}
