package config

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// IRC 默认值
const (
	// DefaultIRCServer 默认 IRC 服务器
	DefaultIRCServer = "irc.lfnet.org:6667"

	// DefaultFastInterval 尚未发现节点时的轮询间隔
	DefaultFastInterval = 5 * time.Second

	// DefaultSlowInterval 首次发现后的轮询间隔
	DefaultSlowInterval = 5 * time.Minute

	// DefaultCycleTimeout 单个 WHO 周期等待结束应答的上限
	DefaultCycleTimeout = 2 * time.Minute

	// DefaultDialTimeout 连接超时
	DefaultDialTimeout = 30 * time.Second

	// DefaultSendRate 每秒发送的协议行数上限
	DefaultSendRate = 2.0

	// DefaultSendBurst 发送突发上限
	DefaultSendBurst = 5
)

// IRCConfig IRC 频道引导配置
type IRCConfig struct {
	// Enable 是否启用 IRC 引导
	Enable bool `json:"enable"`

	// Server 服务器地址（host:port）
	Server string `json:"server,omitempty"`

	// Channel 要加入的频道（如 "#bitcoin00"），选择策略由调用方决定
	Channel string `json:"channel,omitempty"`

	// LocalHost 本机对外宣告的 IPv4 地址
	LocalHost string `json:"local_host,omitempty"`

	// LocalPort 本机对外宣告的端口
	LocalPort int `json:"local_port,omitempty"`

	// FastInterval 尚未发现节点时的 WHO 轮询间隔
	FastInterval Duration `json:"fast_interval,omitempty"`

	// SlowInterval 首次发现后的 WHO 轮询间隔
	SlowInterval Duration `json:"slow_interval,omitempty"`

	// CycleTimeout WHO 周期超时，0 表示永不超时
	CycleTimeout Duration `json:"cycle_timeout,omitempty"`

	// DialTimeout 连接超时
	DialTimeout Duration `json:"dial_timeout,omitempty"`

	// SendRate 每秒发送行数上限
	SendRate float64 `json:"send_rate,omitempty"`

	// SendBurst 发送突发上限
	SendBurst int `json:"send_burst,omitempty"`
}

// DefaultIRCConfig 返回默认 IRC 配置
func DefaultIRCConfig() IRCConfig {
	return IRCConfig{
		Enable:       false,
		Server:       DefaultIRCServer,
		FastInterval: Duration(DefaultFastInterval),
		SlowInterval: Duration(DefaultSlowInterval),
		CycleTimeout: Duration(DefaultCycleTimeout),
		DialTimeout:  Duration(DefaultDialTimeout),
		SendRate:     DefaultSendRate,
		SendBurst:    DefaultSendBurst,
	}
}

// Validate 验证 IRC 配置
//
// 未启用时只校验数值字段，不要求频道与本机地址。
func (c IRCConfig) Validate() error {
	if c.FastInterval <= 0 {
		return errors.New("irc: fast interval must be positive")
	}
	if c.SlowInterval <= 0 {
		return errors.New("irc: slow interval must be positive")
	}
	if c.CycleTimeout < 0 {
		return errors.New("irc: cycle timeout must be non-negative")
	}
	if c.SendRate <= 0 {
		return errors.New("irc: send rate must be positive")
	}
	if c.SendBurst <= 0 {
		return errors.New("irc: send burst must be positive")
	}
	if !c.Enable {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Server); err != nil {
		return fmt.Errorf("irc: invalid server %q: %w", c.Server, err)
	}
	if c.Channel == "" {
		return errors.New("irc: channel is required")
	}
	if c.LocalHost == "" {
		return errors.New("irc: local host is required")
	}
	if c.LocalPort < 0 || c.LocalPort > 0xffff {
		return fmt.Errorf("irc: local port %d out of range", c.LocalPort)
	}
	return nil
}
