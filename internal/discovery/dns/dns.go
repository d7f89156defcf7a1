package dns

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-peerseed/internal/core/metrics"
	pkgif "github.com/dep2p/go-peerseed/pkg/interfaces"
	"github.com/dep2p/go-peerseed/pkg/lib/log"
	"github.com/dep2p/go-peerseed/pkg/types"
)

var logger = log.Logger("discovery/dns")

// 确保实现了接口
var _ pkgif.Bootstrapper = (*Bootstrap)(nil)

// Option 引导器选项
type Option func(*Bootstrap)

// WithClock 设置时钟
func WithClock(clk clock.Clock) Option {
	return func(b *Bootstrap) {
		b.clock = clk
	}
}

// WithMetrics 设置指标收集器
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bootstrap) {
		b.metrics = m
	}
}

// WithResolver 使用指定解析器
func WithResolver(r *Resolver) Option {
	return func(b *Bootstrap) {
		b.resolver = r
	}
}

// batch 单个主机名的解析结果
type batch struct {
	host  string
	addrs types.AddressList
	err   error
}

// ============================================================================
//                              Bootstrap 实现
// ============================================================================

// Bootstrap DNS 种子引导器
//
// 并行解析全部主机名，每个主机名的结果作为一批并入地址并集；
// 并集首次非空时发布 found，每次变化发布 updated。
// 单个主机名解析失败只记录日志，不影响其它主机名。
type Bootstrap struct {
	cfg      Config
	resolver *Resolver
	pub      pkgif.SeedPublisher
	clock    clock.Clock
	metrics  *metrics.Metrics

	batches chan batch
	cmds    chan func()
	done    chan struct{}
	workers sync.WaitGroup

	// lifeMu 保护生命周期字段
	lifeMu  sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	stopped bool

	// 以下字段仅由事件循环访问
	union     map[types.PeerAddress]struct{}
	current   types.AddressList
	everFound bool
	resolving bool
	ticker    *clock.Ticker
}

// New 创建 DNS 引导器
func New(cfg Config, pub pkgif.SeedPublisher, opts ...Option) (*Bootstrap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pub == nil {
		pub = pkgif.PublisherFuncs{}
	}

	b := &Bootstrap{
		cfg:     cfg,
		pub:     pub,
		clock:   clock.New(),
		batches: make(chan batch),
		cmds:    make(chan func()),
		done:    make(chan struct{}),
		union:   make(map[types.PeerAddress]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.resolver == nil {
		b.resolver = NewResolver(cfg.resolverConfig())
	}
	return b, nil
}

// Source 返回发现渠道
func (b *Bootstrap) Source() types.Source {
	return types.SourceDNS
}

// Resolver 返回底层解析器
func (b *Bootstrap) Resolver() *Resolver {
	return b.resolver
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动解析循环
func (b *Bootstrap) Start(_ context.Context) error {
	b.lifeMu.Lock()
	defer b.lifeMu.Unlock()

	if b.stopped {
		return ErrStopped
	}
	if b.started {
		return ErrAlreadyStarted
	}

	// 使用 context.Background()：Fx OnStart 的 ctx 在返回后会被取消
	b.ctx, b.cancel = context.WithCancel(context.Background())
	b.started = true

	logger.Info("正在启动 DNS 引导", "hostnames", len(b.cfg.Hostnames), "port", b.cfg.Port)
	go b.run(b.ctx)
	return nil
}

// Stop 停止引导器，可重复调用；返回后不再发布任何事件
func (b *Bootstrap) Stop(ctx context.Context) error {
	b.lifeMu.Lock()
	first := !b.stopped
	b.stopped = true
	started := b.started
	if started && first {
		b.cancel()
	}
	b.lifeMu.Unlock()

	if !started {
		return nil
	}

	select {
	case <-b.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	b.workers.Wait()

	if first {
		logger.Info("DNS 引导已停止")
	}
	return nil
}

// Refresh 请求立即重新解析全部主机名，不阻塞
//
// 上一轮解析尚未结束时无效果。
func (b *Bootstrap) Refresh() error {
	b.lifeMu.Lock()
	started, stopped := b.started, b.stopped
	b.lifeMu.Unlock()

	if stopped {
		return ErrStopped
	}
	if !started {
		return ErrNotStarted
	}

	go func() {
		select {
		case b.cmds <- b.resolveAll:
		case <-b.done:
		}
	}()
	return nil
}

// Addresses 返回当前已发布的地址并集副本
func (b *Bootstrap) Addresses() types.AddressList {
	b.lifeMu.Lock()
	started := b.started
	b.lifeMu.Unlock()

	if !started {
		return nil
	}

	reply := make(chan types.AddressList, 1)
	select {
	case b.cmds <- func() { reply <- b.current.Clone() }:
		return <-reply
	case <-b.done:
		return b.current.Clone()
	}
}

// ============================================================================
//                              事件循环
// ============================================================================

func (b *Bootstrap) run(ctx context.Context) {
	defer close(b.done)

	b.resolveAll()

	if b.cfg.RefreshInterval > 0 {
		b.ticker = b.clock.Ticker(b.cfg.RefreshInterval)
		defer b.ticker.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-b.batches:
			b.onBatch(res)

		case <-b.tickC():
			b.resolveAll()

		case fn := <-b.cmds:
			fn()
		}
	}
}

func (b *Bootstrap) tickC() <-chan time.Time {
	if b.ticker == nil {
		return nil
	}
	return b.ticker.C
}

// resolveAll 启动一轮并行解析
func (b *Bootstrap) resolveAll() {
	if b.resolving {
		logger.Debug("上一轮解析尚未结束，跳过")
		return
	}
	b.resolving = true

	ctx := b.ctx
	hosts := slices.Clone(b.cfg.Hostnames)

	b.workers.Add(1)
	go func() {
		defer b.workers.Done()

		var g errgroup.Group
		if b.cfg.MaxParallel > 0 {
			g.SetLimit(b.cfg.MaxParallel)
		}

		for _, host := range hosts {
			host := host
			g.Go(func() error {
				addrs, err := b.resolver.Resolve(ctx, host, b.cfg.Port)
				select {
				case b.batches <- batch{host: host, addrs: addrs, err: err}:
				case <-ctx.Done():
				}
				// 单个主机名失败不影响其它主机名
				return nil
			})
		}
		_ = g.Wait()

		select {
		case b.cmds <- func() { b.resolving = false }:
		case <-ctx.Done():
		}
	}()
}

// onBatch 把一个主机名的结果并入并集
func (b *Bootstrap) onBatch(res batch) {
	if res.err != nil {
		if b.ctx.Err() != nil {
			return
		}
		logger.Warn("解析种子主机名失败", "host", res.host, "err", res.err)
		b.metrics.ResolutionFailed(res.host)
		return
	}

	changed := false
	for _, addr := range res.addrs {
		if _, ok := b.union[addr]; !ok {
			b.union[addr] = struct{}{}
			changed = true
		}
	}

	if !changed {
		b.metrics.CycleCompleted(types.SourceDNS, metrics.OutcomeUnchanged)
		logger.Debug("解析结果无新地址", "host", res.host, "count", len(res.addrs))
		return
	}

	current := make(types.AddressList, 0, len(b.union))
	for addr := range b.union {
		current = append(current, addr)
	}
	current.Sort()
	b.current = current
	b.metrics.CycleCompleted(types.SourceDNS, metrics.OutcomePublished)
	logger.Info("种子地址并集已变化", "host", res.host, "total", len(b.current))

	if !b.everFound {
		b.everFound = true
		b.publish(metrics.EventFound, b.pub.PublishFound)
	}
	b.publish(metrics.EventUpdated, b.pub.PublishUpdated)
}

// publish 在循环内调用发布回调；Stop 开始后不再发布
func (b *Bootstrap) publish(event string, fn func(types.Source, types.AddressList)) {
	if b.ctx.Err() != nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("发布回调 panic", "event", event, "panic", r)
		}
	}()

	fn(types.SourceDNS, b.current.Clone())
	b.metrics.Published(types.SourceDNS, event, len(b.current))
}
