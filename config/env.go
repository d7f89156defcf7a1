package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// 环境变量名（均使用 EnvPrefix 前缀）
const (
	// EnvPrefix 环境变量前缀
	EnvPrefix = "PEERSEED_"

	EnvIRCEnable   = "IRC_ENABLE"
	EnvIRCServer   = "IRC_SERVER"
	EnvIRCChannel  = "IRC_CHANNEL"
	EnvLocalHost   = "LOCAL_HOST"
	EnvLocalPort   = "LOCAL_PORT"
	EnvDNSEnable   = "DNS_ENABLE"
	EnvDNSSeeds    = "DNS_SEEDS"
	EnvDNSPort     = "DNS_PORT"
	EnvDNSResolver = "DNS_RESOLVER"
	EnvDNSRefresh  = "DNS_REFRESH"
	EnvMetricsAddr = "METRICS_ADDR"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"
	EnvLogFile     = "LOG_FILE"
)

// ApplyEnv 应用环境变量覆盖
//
// 优先级：命令行参数 > 环境变量 > 配置文件 > 默认值。
// 无法解析的数值被忽略，保留原值。
func ApplyEnv(cfg *Config) {
	ApplyEnvFunc(cfg, os.Getenv)
}

// ApplyEnvFunc 使用自定义查找函数应用环境变量覆盖（便于测试）
func ApplyEnvFunc(cfg *Config, getenv func(string) string) {
	get := func(name string) string {
		return strings.TrimSpace(getenv(EnvPrefix + name))
	}

	if v := get(EnvIRCEnable); v != "" {
		cfg.IRC.Enable = ParseBool(v)
	}
	if v := get(EnvIRCServer); v != "" {
		cfg.IRC.Server = v
	}
	if v := get(EnvIRCChannel); v != "" {
		cfg.IRC.Channel = v
	}
	if v := get(EnvLocalHost); v != "" {
		cfg.IRC.LocalHost = v
	}
	if v := get(EnvLocalPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.IRC.LocalPort = port
		}
	}
	if v := get(EnvDNSEnable); v != "" {
		cfg.DNS.Enable = ParseBool(v)
	}
	if v := get(EnvDNSSeeds); v != "" {
		cfg.DNS.Hostnames = SplitAndTrim(v, ",")
	}
	if v := get(EnvDNSPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.DNS.Port = port
		}
	}
	if v := get(EnvDNSResolver); v != "" {
		cfg.DNS.CustomResolver = v
	}
	if v := get(EnvDNSRefresh); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.DNS.RefreshInterval = Duration(d)
		}
	}
	if v := get(EnvMetricsAddr); v != "" {
		cfg.Metrics.ListenAddr = v
	}
	if v := get(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := get(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
	if v := get(EnvLogFile); v != "" {
		cfg.Log.File = v
	}
}

// ParseBool 解析布尔值字符串
func ParseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// SplitAndTrim 分割字符串并去除空白与空项
func SplitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
