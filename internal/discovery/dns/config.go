package dns

import (
	"fmt"
	"time"

	"github.com/dep2p/go-peerseed/config"
)

// ============================================================================
//                              配置定义
// ============================================================================

// Config DNS 引导器配置
type Config struct {
	// Hostnames 要解析的种子主机名
	Hostnames []string

	// Port 解析结果统一使用的端口
	Port uint16

	// Timeout 单个主机名解析超时
	Timeout time.Duration

	// CacheTTL 解析结果缓存 TTL，0 表示不缓存
	CacheTTL time.Duration

	// CacheSize 缓存容量，0 表示不限
	CacheSize int

	// CustomResolver 自定义 DNS 服务器地址（格式: "ip:port"）
	CustomResolver string

	// RefreshInterval 周期性重新解析的间隔，0 表示只解析一次
	RefreshInterval time.Duration

	// MaxParallel 同时进行的解析数，0 表示全部并行
	MaxParallel int
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Port:      config.DefaultDNSPort,
		Timeout:   config.DefaultDNSTimeout,
		CacheTTL:  config.DefaultDNSCacheTTL,
		CacheSize: config.DefaultDNSCacheSize,
	}
}

// ConfigFromUnified 从统一配置创建 DNS 配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		Hostnames:       cfg.DNS.Hostnames,
		Port:            uint16(cfg.DNS.Port), //nolint:gosec // G115: 端口范围已由 config.Validate 校验
		Timeout:         cfg.DNS.Timeout.Duration(),
		CacheTTL:        cfg.DNS.CacheTTL.Duration(),
		CacheSize:       cfg.DNS.CacheSize,
		CustomResolver:  cfg.DNS.CustomResolver,
		RefreshInterval: cfg.DNS.RefreshInterval.Duration(),
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if len(c.Hostnames) == 0 {
		return fmt.Errorf("%w: at least one hostname is required", ErrInvalidConfig)
	}
	for _, host := range c.Hostnames {
		if err := ValidateDomain(host); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("%w: cache TTL must be non-negative", ErrInvalidConfig)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache size must be non-negative", ErrInvalidConfig)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("%w: refresh interval must be non-negative", ErrInvalidConfig)
	}
	if c.MaxParallel < 0 {
		return fmt.Errorf("%w: max parallel must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// resolverConfig 提取解析器配置
func (c *Config) resolverConfig() ResolverConfig {
	return ResolverConfig{
		Timeout:        c.Timeout,
		CacheTTL:       c.CacheTTL,
		CacheSize:      c.CacheSize,
		CustomResolver: c.CustomResolver,
	}
}
