package irc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ergochat/irc-go/ircmsg"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-peerseed/pkg/interfaces"
	"github.com/dep2p/go-peerseed/pkg/lib/log"
	"github.com/dep2p/go-peerseed/pkg/types"
)

var logger = log.Logger("transport/irc")

// 确保实现了接口
var _ interfaces.ChatTransport = (*Client)(nil)

// eventBuffer 事件通道缓冲
const eventBuffer = 256

// DialFunc 拨号函数
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Option 客户端选项
type Option func(*Client)

// WithClock 设置时钟（测试中用于驱动重连定时器）
func WithClock(clk clock.Clock) Option {
	return func(c *Client) {
		c.clock = clk
	}
}

// WithDialer 设置拨号函数
func WithDialer(dial DialFunc) Option {
	return func(c *Client) {
		c.dialer = dial
	}
}

// ============================================================================
//                              Client
// ============================================================================

// Client IRC 客户端
//
// 每个 Client 只服务一个昵称和一条连接（断线重连时替换）。
// 读循环运行在独立 goroutine 中，Close 后 Events 通道被关闭。
type Client struct {
	cfg     Config
	clock   clock.Clock
	dialer  DialFunc
	limiter *rate.Limiter

	events chan types.ChatEvent

	ctx    context.Context
	cancel context.CancelFunc

	// mu 保护以下字段，同时串行化对 conn 的写入
	mu       sync.Mutex
	conn     net.Conn
	baseNick string
	nick     string
	started  bool
	closed   bool

	registered atomic.Bool
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

// NewClient 创建 IRC 客户端
func NewClient(cfg Config, opts ...Option) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	limit := rate.Inf
	if cfg.SendRate > 0 {
		limit = rate.Limit(cfg.SendRate)
	}
	burst := cfg.SendBurst
	if burst <= 0 {
		burst = 1
	}
	if cfg.MaxLineLength <= 0 {
		cfg.MaxLineLength = DefaultConfig().MaxLineLength
	}

	c := &Client{
		cfg:     cfg,
		clock:   clock.New(),
		limiter: rate.NewLimiter(limit, burst),
		events:  make(chan types.ChatEvent, eventBuffer),
		ctx:     ctx,
		cancel:  cancel,
	}
	c.dialer = (&net.Dialer{KeepAlive: 30 * time.Second}).DialContext

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect 连接服务器并以 nick 注册
//
// 拨号同步完成；注册完成后通过 ChatEventRegistered 通知。
func (c *Client) Connect(ctx context.Context, nick string) error {
	if !validNick(nick) {
		return fmt.Errorf("%w: %q", ErrInvalidNick, nick)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.started = true
	c.baseNick = nick
	c.nick = nick
	c.mu.Unlock()

	conn, err := c.dial(ctx)
	if err != nil {
		c.mu.Lock()
		c.started = false
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.wg.Add(1)
	c.mu.Unlock()

	go c.serve(conn)
	return nil
}

// Join 加入频道
func (c *Client) Join(channel string) error {
	return c.Send("JOIN", channel)
}

// Send 经限速后发送一条协议命令
func (c *Client) Send(command string, params ...string) error {
	if c.ctx.Err() != nil {
		return ErrClosed
	}
	if err := c.limiter.Wait(c.ctx); err != nil {
		return ErrClosed
	}
	return c.sendRaw(command, params...)
}

// Events 返回原始事件通道
func (c *Client) Events() <-chan types.ChatEvent {
	return c.events
}

// Registered 当前连接是否已完成注册
func (c *Client) Registered() bool {
	return c.registered.Load()
}

// Nick 返回当前使用的昵称（可能已因冲突追加后缀）
func (c *Client) Nick() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nick
}

// Close 断开连接并关闭事件通道，可重复调用
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		c.closed = true
		conn := c.conn
		c.conn = nil
		if conn != nil {
			_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
			_, _ = io.WriteString(conn, "QUIT\r\n")
		}
		c.mu.Unlock()

		if conn != nil {
			err = conn.Close()
		}
		c.wg.Wait()
		close(c.events)
		logger.Debug("IRC 传输已关闭", "server", c.cfg.Server)
	})
	return err
}

// ============================================================================
//                              内部实现
// ============================================================================

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	if c.cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.DialTimeout)
		defer cancel()
	}

	conn, err := c.dialer(ctx, "tcp", c.cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.cfg.Server, err)
	}
	logger.Info("已连接 IRC 服务器", "server", c.cfg.Server)
	return conn, nil
}

// serve 运行读循环，断线后按配置重连
func (c *Client) serve(conn net.Conn) {
	defer c.wg.Done()

	for {
		err := c.register()
		if err == nil {
			err = c.readLoop(conn)
		}
		c.dropConn(conn)
		c.registered.Store(false)

		if c.ctx.Err() != nil {
			return
		}

		logger.Warn("IRC 连接断开", "server", c.cfg.Server, "err", err)
		c.emit(types.ChatEvent{Kind: types.ChatEventError, Err: err})

		if c.cfg.ReconnectDelay <= 0 {
			c.emit(types.ChatEvent{Kind: types.ChatEventClosed})
			return
		}

		conn = c.reconnect()
		if conn == nil {
			return
		}
	}
}

// reconnect 等待重连间隔后重新拨号，直到成功或客户端关闭
func (c *Client) reconnect() net.Conn {
	for {
		timer := c.clock.Timer(c.cfg.ReconnectDelay)
		select {
		case <-c.ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		conn, err := c.dial(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return nil
			}
			logger.Warn("IRC 重连失败", "server", c.cfg.Server, "err", err)
			c.emit(types.ChatEvent{Kind: types.ChatEventError, Err: err})
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = conn.Close()
			return nil
		}
		c.conn = conn
		c.nick = c.baseNick
		c.mu.Unlock()
		return conn
	}
}

func (c *Client) register() error {
	nick := c.Nick()
	user := c.cfg.User
	if user == "" {
		user = nick
	}
	if err := c.sendRaw("NICK", nick); err != nil {
		return err
	}
	return c.sendRaw("USER", user, "0", "*", c.cfg.RealName)
}

func (c *Client) readLoop(conn net.Conn) error {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), c.cfg.MaxLineLength)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		msg, err := ircmsg.ParseLine(line)
		if err != nil {
			logger.Debug("忽略无法解析的协议行", "line", log.Truncate(line, 128), "err", err)
			continue
		}
		c.handle(msg)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}

func (c *Client) handle(msg ircmsg.Message) {
	switch msg.Command {
	case "PING":
		if err := c.sendRaw("PONG", msg.Params...); err != nil {
			logger.Debug("发送 PONG 失败", "err", err)
		}

	case "001":
		c.registered.Store(true)
		logger.Info("IRC 注册完成", "server", c.cfg.Server, "nick", c.Nick())
		c.emit(types.ChatEvent{
			Kind:    types.ChatEventRegistered,
			Source:  msg.Source,
			Command: msg.Command,
			Params:  msg.Params,
		})

	case "433":
		if c.registered.Load() {
			return
		}
		nick := c.bumpNick()
		logger.Warn("昵称已被占用，追加后缀重试", "nick", nick)
		if err := c.sendRaw("NICK", nick); err != nil {
			logger.Debug("发送 NICK 失败", "err", err)
		}

	case "ERROR":
		reason := ""
		if n := len(msg.Params); n > 0 {
			reason = msg.Params[n-1]
		}
		c.emit(types.ChatEvent{
			Kind:    types.ChatEventError,
			Command: msg.Command,
			Params:  msg.Params,
			Err:     fmt.Errorf("%w: %s", ErrServerError, reason),
		})

	default:
		c.emit(types.ChatEvent{
			Kind:    types.ChatEventMessage,
			Source:  msg.Source,
			Command: msg.Command,
			Params:  msg.Params,
		})
	}
}

// sendRaw 不经限速直接写入一行
func (c *Client) sendRaw(command string, params ...string) error {
	msg := ircmsg.MakeMessage(nil, "", command, params...)
	line, err := msg.Line()
	if err != nil {
		return fmt.Errorf("encode %s: %w", command, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.conn == nil {
		return ErrNotConnected
	}
	if c.cfg.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	if _, err := io.WriteString(c.conn, line); err != nil {
		return fmt.Errorf("write %s: %w", command, err)
	}
	return nil
}

func (c *Client) bumpNick() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nick += "_"
	return c.nick
}

// dropConn 释放仍由客户端持有的连接
func (c *Client) dropConn(conn net.Conn) {
	c.mu.Lock()
	owned := c.conn == conn
	if owned {
		c.conn = nil
	}
	c.mu.Unlock()

	if owned {
		_ = conn.Close()
	}
}

func (c *Client) emit(ev types.ChatEvent) {
	select {
	case c.events <- ev:
	case <-c.ctx.Done():
	}
}

func validNick(nick string) bool {
	if nick == "" || strings.ContainsAny(nick, " \r\n\x00,*?!@") {
		return false
	}
	return nick[0] != ':' && nick[0] != '#'
}
