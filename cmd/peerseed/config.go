package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/dep2p/go-peerseed/config"
	"github.com/dep2p/go-peerseed/pkg/lib/log"
)

// ============================================================================
//                              配置加载（CLI 专用）
// ============================================================================

// buildConfig 组合配置
//
// 配置优先级（从高到低）：
//  1. 命令行参数
//  2. 环境变量（PEERSEED_* 前缀）
//  3. 配置文件
//  4. 默认值
func buildConfig(fs *flag.FlagSet, f *runFlags) (*config.Config, error) {
	cfg := config.NewConfig()
	if f.configFile != "" {
		loaded, err := config.LoadFile(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
		cfg = loaded
	}

	config.ApplyEnv(cfg)

	set := visited(fs)

	if set["server"] {
		cfg.IRC.Server = f.server
	}
	if set["channel"] {
		cfg.IRC.Channel = f.channel
	}
	if cfg.IRC.Channel == "" && f.channelPrefix != "" {
		cfg.IRC.Channel = randomChannel(f.channelPrefix, f.channelCount)
	}
	if set["host"] {
		cfg.IRC.LocalHost = f.host
	}
	if set["port"] {
		cfg.IRC.LocalPort = f.port
	}
	// 给出频道即视为启用 IRC
	if set["channel"] || set["channel-prefix"] {
		cfg.IRC.Enable = true
	}

	if set["dns"] {
		if f.dnsSeeds == "default" {
			cfg.DNS.Hostnames = append([]string(nil), config.DefaultDNSSeeds...)
		} else {
			cfg.DNS.Hostnames = config.SplitAndTrim(f.dnsSeeds, ",")
		}
		cfg.DNS.Enable = len(cfg.DNS.Hostnames) > 0
	}
	if set["dns-port"] {
		cfg.DNS.Port = f.dnsPort
	}
	if set["resolver"] {
		cfg.DNS.CustomResolver = f.resolver
	}
	if set["refresh"] {
		cfg.DNS.RefreshInterval = config.Duration(f.refresh)
	}

	if set["metrics"] {
		cfg.Metrics.ListenAddr = f.metricsAddr
	}
	if set["log-level"] {
		cfg.Log.Level = f.logLevel
	}
	if set["log-format"] {
		cfg.Log.Format = f.logFormat
	}
	if set["log"] {
		cfg.Log.File = f.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// visited 返回被显式设置的参数集合
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// randomChannel 在 prefix00 到 prefix(n-1) 中随机选择一个频道
//
// 频道名按两位十进制补零，n 小于 1 时按 1 处理。
func randomChannel(prefix string, n int) string {
	if n < 1 {
		n = 1
	}
	if !strings.HasPrefix(prefix, "#") {
		prefix = "#" + prefix
	}
	return fmt.Sprintf("%s%02d", prefix, rand.Intn(n))
}

// setupLogging 按配置设置全局日志
//
// 返回的 closer 在退出时关闭日志文件；输出到 stderr 时为 nil。
func setupLogging(cfg config.LogConfig) (io.Closer, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format := log.FormatText
	if strings.EqualFold(cfg.Format, string(log.FormatJSON)) {
		format = log.FormatJSON
	}

	if cfg.File == "" {
		log.Setup(os.Stderr, format, level)
		return nil, nil
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	log.Setup(file, format, level)
	return file, nil
}
