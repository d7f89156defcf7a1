package irc

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/dep2p/go-peerseed/internal/core/metrics"
	pkgif "github.com/dep2p/go-peerseed/pkg/interfaces"
	"github.com/dep2p/go-peerseed/pkg/lib/log"
	"github.com/dep2p/go-peerseed/pkg/types"
)

var logger = log.Logger("discovery/irc")

// 确保实现了接口
var _ pkgif.Bootstrapper = (*Bootstrap)(nil)

// IRC 应答码
const (
	rplWhoReply = "352"
	rplEndOfWho = "315"
)

// 应答中的参数位置
const (
	whoReplyChannelIdx = 1
	whoReplyNickIdx    = 5
	endOfWhoChannelIdx = 1
)

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

// ============================================================================
//                              Bootstrap
// ============================================================================

// Bootstrap IRC 频道引导器
//
// 以宣告昵称加入频道，周期性发送 WHO，解码成员昵称得到节点地址，
// 与上次发布的列表比较后发布 found / updated 事件。
//
// 状态只由事件循环 goroutine 访问：传输事件、定时器、Query 与
// Addresses 请求都经通道送入循环串行处理。
type Bootstrap struct {
	cfg       Config
	nick      string
	transport pkgif.ChatTransport
	pub       pkgif.SeedPublisher
	clock     clock.Clock
	metrics   *metrics.Metrics

	queryReq chan struct{}
	cmds     chan func()
	done     chan struct{}

	// lifeMu 保护生命周期字段
	lifeMu  sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	stopped bool

	// 以下字段仅由事件循环访问
	current    types.AddressList
	pending    types.AddressList
	inFlight   bool
	everFound  bool
	staleEnds  int // 已放弃周期尚未到达的 315 个数
	ticker     *clock.Ticker
	cycleTimer *clock.Timer
	cycleID    string
	cycleStart time.Time
}

// New 创建 IRC 引导器
//
// 本机地址在此编码为宣告昵称，非法时返回 ErrInvalidAddress。
// 构造不涉及网络，连接在 Start 后由事件循环发起。
func New(cfg Config, transport pkgif.ChatTransport, pub pkgif.SeedPublisher, opts ...Option) (*Bootstrap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, fmt.Errorf("%w: transport is required", ErrInvalidConfig)
	}

	nick, err := EncodeNickname(cfg.LocalHost, cfg.LocalPort)
	if err != nil {
		return nil, err
	}

	if pub == nil {
		pub = pkgif.PublisherFuncs{}
	}

	b := &Bootstrap{
		cfg:       cfg,
		nick:      nick,
		transport: transport,
		pub:       pub,
		clock:     clock.New(),
		queryReq:  make(chan struct{}, 1),
		cmds:      make(chan func()),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Nick 返回本机宣告昵称
func (b *Bootstrap) Nick() string {
	return b.nick
}

// Source 返回发现渠道
func (b *Bootstrap) Source() types.Source {
	return types.SourceIRC
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动事件循环
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

	logger.Info("正在启动 IRC 引导", "channel", b.cfg.Channel, "nick", b.nick)
	go b.run(b.ctx)
	return nil
}

// Stop 停止引导器
//
// 可在任意时刻重复调用。返回后不再发布任何事件；ctx 只约束等待
// 事件循环退出的时间。不得在发布回调中同步调用。
func (b *Bootstrap) Stop(ctx context.Context) error {
	b.lifeMu.Lock()
	if b.stopped {
		started := b.started
		b.lifeMu.Unlock()
		if started {
			return b.wait(ctx)
		}
		return nil
	}
	b.stopped = true
	started := b.started
	if started {
		b.cancel()
	}
	b.lifeMu.Unlock()

	logger.Info("正在停止 IRC 引导", "channel", b.cfg.Channel)

	closeErr := b.transport.Close()
	if started {
		if err := b.wait(ctx); err != nil {
			return err
		}
	}

	logger.Info("IRC 引导已停止")
	return closeErr
}

func (b *Bootstrap) wait(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Query 请求立即开始一个 WHO 周期，不阻塞
//
// 已有周期进行中时无效果。
func (b *Bootstrap) Query() error {
	b.lifeMu.Lock()
	started, stopped := b.started, b.stopped
	b.lifeMu.Unlock()

	if stopped {
		return ErrStopped
	}
	if !started {
		return ErrNotStarted
	}

	select {
	case b.queryReq <- struct{}{}:
	default:
	}
	return nil
}

// Addresses 返回当前已发布的地址列表副本
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
		// 循环已退出，状态不再变化
		return b.current.Clone()
	}
}

// ============================================================================
//                              事件循环
// ============================================================================

func (b *Bootstrap) run(ctx context.Context) {
	defer close(b.done)
	defer b.stopTimers()

	if err := b.transport.Connect(ctx, b.nick); err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Warn("连接 IRC 服务器失败", "err", err)
		b.metrics.TransportError(types.SourceIRC)
	}

	events := b.transport.Events()
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			b.handleEvent(ev)

		case <-b.tickC():
			b.query()

		case <-b.timeoutC():
			b.abandonCycle()

		case <-b.queryReq:
			b.query()

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

func (b *Bootstrap) timeoutC() <-chan time.Time {
	if b.cycleTimer == nil {
		return nil
	}
	return b.cycleTimer.C
}

func (b *Bootstrap) handleEvent(ev types.ChatEvent) {
	switch ev.Kind {
	case types.ChatEventRegistered:
		b.onRegistered()

	case types.ChatEventError:
		logger.Warn("IRC 传输错误", "err", ev.Err)
		b.metrics.TransportError(types.SourceIRC)

	case types.ChatEventClosed:
		logger.Warn("IRC 连接已关闭", "channel", b.cfg.Channel)

	case types.ChatEventMessage:
		switch ev.Command {
		case rplWhoReply:
			channel, ok1 := ev.Param(whoReplyChannelIdx)
			nick, ok2 := ev.Param(whoReplyNickIdx)
			if !ok1 || !ok2 || !b.isOurChannel(channel) {
				return
			}
			if b.staleEnds > 0 {
				// 属于已放弃的周期
				return
			}
			b.onMemberReply(nick)
		case rplEndOfWho:
			channel, ok := ev.Param(endOfWhoChannelIdx)
			if !ok || !b.isOurChannel(channel) {
				return
			}
			if b.staleEnds > 0 {
				b.staleEnds--
				logger.Debug("丢弃已放弃周期的迟到应答", "channel", channel, "remaining", b.staleEnds)
				return
			}
			b.onEnumerationComplete()
		}
	}
}

func (b *Bootstrap) isOurChannel(channel string) bool {
	return strings.EqualFold(channel, b.cfg.Channel)
}

// onRegistered 加入频道，立即查询并按当前阶段设置轮询间隔
//
// 重连后再次注册时，旧连接上未完成的周期不会再收到结束应答，直接放弃，
// 此前超时周期欠下的应答也不会再到达。
func (b *Bootstrap) onRegistered() {
	logger.Info("已注册，加入频道", "channel", b.cfg.Channel)

	if err := b.transport.Join(b.cfg.Channel); err != nil {
		logger.Warn("加入频道失败", "channel", b.cfg.Channel, "err", err)
		b.metrics.TransportError(types.SourceIRC)
	}

	if b.inFlight {
		b.endCycle()
	}
	b.staleEnds = 0
	b.query()

	if b.everFound {
		b.resetTicker(b.cfg.SlowInterval)
	} else {
		b.resetTicker(b.cfg.FastInterval)
	}
}

// query 开始一个 WHO 周期；已有周期进行中时为空操作
func (b *Bootstrap) query() {
	if b.inFlight {
		logger.Debug("WHO 周期进行中，跳过本次查询", "cycle", b.cycleID)
		return
	}

	if err := b.transport.Send("WHO", b.cfg.Channel); err != nil {
		logger.Warn("发送 WHO 失败", "channel", b.cfg.Channel, "err", err)
		b.metrics.TransportError(types.SourceIRC)
		return
	}

	b.inFlight = true
	b.pending = types.AddressList{}
	b.cycleID = uuid.NewString()
	b.cycleStart = b.clock.Now()
	if b.cfg.CycleTimeout > 0 {
		b.cycleTimer = b.clock.Timer(b.cfg.CycleTimeout)
	}

	logger.Debug("开始 WHO 周期", "channel", b.cfg.Channel, "cycle", b.cycleID)
}

// onMemberReply 解码一个成员昵称并加入本周期列表
func (b *Bootstrap) onMemberReply(nick string) {
	if !b.inFlight {
		return
	}

	addr, ok := DecodeNickname(nick)
	if !ok {
		b.metrics.DecodeFailed(types.SourceIRC)
		logger.Debug("忽略无法解码的昵称", "nick", log.Truncate(nick, 64), "cycle", b.cycleID)
		return
	}
	b.pending = append(b.pending, addr)
}

// onEnumerationComplete 结束周期，列表变化时发布
func (b *Bootstrap) onEnumerationComplete() {
	if !b.inFlight {
		return
	}

	list := b.pending
	list.Sort()
	cycleID := b.cycleID
	elapsed := b.clock.Since(b.cycleStart)
	b.endCycle()

	if list.Equal(b.current) {
		b.metrics.CycleCompleted(types.SourceIRC, metrics.OutcomeUnchanged)
		logger.Debug("WHO 周期完成，列表未变化", "cycle", cycleID, "count", len(list), "elapsed", elapsed)
		return
	}

	b.current = list
	b.metrics.CycleCompleted(types.SourceIRC, metrics.OutcomePublished)
	logger.Info("节点列表已变化", "cycle", cycleID, "count", len(list), "elapsed", elapsed)

	if len(b.current) == 0 {
		return
	}

	if !b.everFound {
		b.everFound = true
		b.publish(metrics.EventFound, b.pub.PublishFound)
		b.resetTicker(b.cfg.SlowInterval)
	}
	b.publish(metrics.EventUpdated, b.pub.PublishUpdated)
}

// abandonCycle 周期超时未收到结束应答，释放周期
//
// 服务器按序应答，被放弃的 WHO 仍欠一个 315；在它到达前收到的
// 本频道 352/315 都属于旧周期，不并入后续周期。
func (b *Bootstrap) abandonCycle() {
	if !b.inFlight {
		return
	}
	logger.Warn("WHO 周期超时，放弃本周期", "cycle", b.cycleID, "timeout", b.cfg.CycleTimeout)
	b.metrics.CycleCompleted(types.SourceIRC, metrics.OutcomeAbandoned)
	b.staleEnds++
	b.endCycle()
}

func (b *Bootstrap) endCycle() {
	b.inFlight = false
	b.pending = nil
	b.cycleID = ""
	if b.cycleTimer != nil {
		b.cycleTimer.Stop()
		b.cycleTimer = nil
	}
}

func (b *Bootstrap) resetTicker(interval time.Duration) {
	if b.ticker != nil {
		b.ticker.Stop()
	}
	b.ticker = b.clock.Ticker(interval)
	logger.Debug("轮询间隔", "interval", interval)
}

func (b *Bootstrap) stopTimers() {
	if b.ticker != nil {
		b.ticker.Stop()
		b.ticker = nil
	}
	if b.cycleTimer != nil {
		b.cycleTimer.Stop()
		b.cycleTimer = nil
	}
}

// publish 在循环内调用发布回调
//
// Stop 开始后不再发布；回调 panic 被恢复并记录。
func (b *Bootstrap) publish(event string, fn func(types.Source, types.AddressList)) {
	if b.ctx.Err() != nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("发布回调 panic", "event", event, "panic", r)
		}
	}()

	fn(types.SourceIRC, b.current.Clone())
	b.metrics.Published(types.SourceIRC, event, len(b.current))
}
