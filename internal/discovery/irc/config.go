package irc

import (
	"fmt"
	"time"

	"github.com/dep2p/go-peerseed/config"
)

// Config IRC 引导器配置
type Config struct {
	// Channel 要加入并轮询的频道
	Channel string

	// LocalHost 本机宣告的 IPv4 地址
	LocalHost string

	// LocalPort 本机宣告的端口
	LocalPort int

	// FastInterval 尚未发现节点时的轮询间隔
	FastInterval time.Duration

	// SlowInterval 首次发现后的轮询间隔
	SlowInterval time.Duration

	// CycleTimeout 单个周期等待结束应答的上限，0 表示永不超时
	CycleTimeout time.Duration
}

// DefaultConfig 返回默认配置（频道与本机地址需调用方填写）
func DefaultConfig() Config {
	return Config{
		FastInterval: config.DefaultFastInterval,
		SlowInterval: config.DefaultSlowInterval,
		CycleTimeout: config.DefaultCycleTimeout,
	}
}

// ConfigFromUnified 从统一配置创建引导器配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		Channel:      cfg.IRC.Channel,
		LocalHost:    cfg.IRC.LocalHost,
		LocalPort:    cfg.IRC.LocalPort,
		FastInterval: cfg.IRC.FastInterval.Duration(),
		SlowInterval: cfg.IRC.SlowInterval.Duration(),
		CycleTimeout: cfg.IRC.CycleTimeout.Duration(),
	}
}

// Validate 验证配置
//
// 本机地址的合法性由 EncodeNickname 检查。
func (c Config) Validate() error {
	if c.Channel == "" {
		return fmt.Errorf("%w: channel is required", ErrInvalidConfig)
	}
	if c.FastInterval <= 0 {
		return fmt.Errorf("%w: fast interval must be positive", ErrInvalidConfig)
	}
	if c.SlowInterval <= 0 {
		return fmt.Errorf("%w: slow interval must be positive", ErrInvalidConfig)
	}
	if c.CycleTimeout < 0 {
		return fmt.Errorf("%w: cycle timeout must be non-negative", ErrInvalidConfig)
	}
	return nil
}
