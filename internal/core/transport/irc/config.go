package irc

import (
	"time"

	"github.com/dep2p/go-peerseed/config"
)

// Config IRC 传输配置
type Config struct {
	// Server 服务器地址（host:port）
	Server string

	// DialTimeout 拨号超时
	DialTimeout time.Duration

	// WriteTimeout 单行写入超时
	WriteTimeout time.Duration

	// SendRate 每秒发送行数上限
	SendRate float64

	// SendBurst 发送突发上限
	SendBurst int

	// ReconnectDelay 断线后重连间隔，0 表示不重连
	ReconnectDelay time.Duration

	// User USER 命令中的用户名，为空时使用昵称
	User string

	// RealName USER 命令中的真实姓名
	RealName string

	// MaxLineLength 接收行的最大长度（含消息标签）
	MaxLineLength int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Server:         config.DefaultIRCServer,
		DialTimeout:    config.DefaultDialTimeout,
		WriteTimeout:   10 * time.Second,
		SendRate:       config.DefaultSendRate,
		SendBurst:      config.DefaultSendBurst,
		ReconnectDelay: 30 * time.Second,
		RealName:       "peerseed",
		MaxLineLength:  16 * 1024,
	}
}

// ConfigFromUnified 从统一配置创建传输配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.Server = cfg.IRC.Server
	c.DialTimeout = cfg.IRC.DialTimeout.Duration()
	c.SendRate = cfg.IRC.SendRate
	c.SendBurst = cfg.IRC.SendBurst
	return c
}
