package config

import (
	"errors"
	"fmt"
	"time"
)

// DNS 默认值
const (
	// DefaultDNSPort 默认假定的节点端口
	DefaultDNSPort = 8333

	// DefaultDNSTimeout 单个主机名解析超时
	DefaultDNSTimeout = 10 * time.Second

	// DefaultDNSCacheTTL 解析结果缓存 TTL
	DefaultDNSCacheTTL = 5 * time.Minute

	// DefaultDNSCacheSize 解析结果缓存容量
	DefaultDNSCacheSize = 128
)

// DefaultDNSSeeds 常用 DNS 种子主机名
var DefaultDNSSeeds = []string{
	"seed.bitcoin.sipa.be",
	"dnsseed.bluematt.me",
	"dnsseed.bitcoin.dashjr.org",
	"seed.bitcoinstats.com",
	"seed.bitnodes.io",
	"bitseed.xf2.org",
}

// DNSConfig DNS 种子引导配置
type DNSConfig struct {
	// Enable 是否启用 DNS 引导
	Enable bool `json:"enable"`

	// Hostnames 要解析的种子主机名
	Hostnames []string `json:"hostnames,omitempty"`

	// Port 解析结果统一使用的端口（DNS 不提供端口信息）
	Port int `json:"port,omitempty"`

	// Timeout 单个主机名解析超时
	Timeout Duration `json:"timeout,omitempty"`

	// CacheTTL 解析结果缓存 TTL，0 表示不缓存
	CacheTTL Duration `json:"cache_ttl,omitempty"`

	// CacheSize 解析结果缓存容量
	CacheSize int `json:"cache_size,omitempty"`

	// CustomResolver 自定义 DNS 服务器（ip:port），为空使用系统解析器
	CustomResolver string `json:"custom_resolver,omitempty"`

	// RefreshInterval 周期性重新解析的间隔，0 表示只解析一次
	RefreshInterval Duration `json:"refresh_interval,omitempty"`
}

// DefaultDNSConfig 返回默认 DNS 配置
func DefaultDNSConfig() DNSConfig {
	return DNSConfig{
		Enable:    false,
		Port:      DefaultDNSPort,
		Timeout:   Duration(DefaultDNSTimeout),
		CacheTTL:  Duration(DefaultDNSCacheTTL),
		CacheSize: DefaultDNSCacheSize,
	}
}

// Validate 验证 DNS 配置
func (c DNSConfig) Validate() error {
	if c.Timeout <= 0 {
		return errors.New("dns: timeout must be positive")
	}
	if c.CacheTTL < 0 {
		return errors.New("dns: cache TTL must be non-negative")
	}
	if c.CacheSize < 0 {
		return errors.New("dns: cache size must be non-negative")
	}
	if c.RefreshInterval < 0 {
		return errors.New("dns: refresh interval must be non-negative")
	}
	if c.Port < 0 || c.Port > 0xffff {
		return fmt.Errorf("dns: port %d out of range", c.Port)
	}
	if c.Enable && len(c.Hostnames) == 0 {
		return errors.New("dns: at least one hostname is required")
	}
	return nil
}
