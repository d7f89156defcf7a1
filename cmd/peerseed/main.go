// Package main 提供 peerseed 命令行入口
//
// 用法：
//
//	peerseed [run] [flags]          运行发现并打印地址变化
//	peerseed encode <host> <port>   编码昵称
//	peerseed decode <nick>...       解码昵称并标注地址范围
//	peerseed query <host> [port]    单次解析 DNS 种子
//	peerseed channel [prefix] [n]   随机选择频道名
//	peerseed version                显示版本信息
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-peerseed"
	"github.com/dep2p/go-peerseed/config"
	dnsdiscovery "github.com/dep2p/go-peerseed/internal/discovery/dns"
	ircdiscovery "github.com/dep2p/go-peerseed/internal/discovery/irc"
	pkgif "github.com/dep2p/go-peerseed/pkg/interfaces"
	"github.com/dep2p/go-peerseed/pkg/lib/log"
	"github.com/dep2p/go-peerseed/pkg/types"
)

var logger = log.Logger("peerseed/cmd")

// runFlags run 子命令参数
type runFlags struct {
	configFile string

	server        string
	channel       string
	channelPrefix string
	channelCount  int
	host          string
	port          int

	dnsSeeds string
	dnsPort  int
	resolver string
	refresh  time.Duration

	metricsAddr string
	logLevel    string
	logFormat   string
	logFile     string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cmd := "run"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "run":
		return runSeeder(args)
	case "encode":
		return runEncode(args)
	case "decode":
		return runDecode(args)
	case "query":
		return runQuery(args)
	case "channel":
		return runChannel(args)
	case "version":
		fmt.Println(peerseed.VersionInfo())
		return nil
	case "help":
		printHelp()
		return nil
	default:
		printHelp()
		return fmt.Errorf("未知命令 %q", cmd)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// run
// ═══════════════════════════════════════════════════════════════════════════

func runSeeder(args []string) error {
	f := &runFlags{}
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.StringVar(&f.configFile, "config", "", "JSON 配置文件路径")
	fs.StringVar(&f.server, "server", config.DefaultIRCServer, "IRC 服务器地址 host:port")
	fs.StringVar(&f.channel, "channel", "", "IRC 频道（设置即启用 IRC）")
	fs.StringVar(&f.channelPrefix, "channel-prefix", "", "未指定频道时从 prefix00..prefixNN 随机选择（设置即启用 IRC）")
	fs.IntVar(&f.channelCount, "channel-count", 2, "随机频道数量")
	fs.StringVar(&f.host, "host", "", "本机对外 IPv4 地址（编码进昵称）")
	fs.IntVar(&f.port, "port", 0, "本机对外端口（编码进昵称）")
	fs.StringVar(&f.dnsSeeds, "dns", "", "DNS 种子主机名，逗号分隔；default 表示内置列表（设置即启用 DNS）")
	fs.IntVar(&f.dnsPort, "dns-port", config.DefaultDNSPort, "DNS 解析结果使用的端口")
	fs.StringVar(&f.resolver, "resolver", "", "自定义 DNS 服务器 host:port")
	fs.DurationVar(&f.refresh, "refresh", 0, "DNS 周期刷新间隔，0 表示只解析一次")
	fs.StringVar(&f.metricsAddr, "metrics", "", "/metrics 监听地址，为空不暴露")
	fs.StringVar(&f.logLevel, "log-level", "info", "日志级别 debug/info/warn/error")
	fs.StringVar(&f.logFormat, "log-format", "text", "日志格式 text/json")
	fs.StringVar(&f.logFile, "log", "", "日志文件路径")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := buildConfig(fs, f)
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	closer, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	logger.Info("启动 peerseed", "version", peerseed.Version, "commit", peerseed.GitCommit, "buildDate", peerseed.BuildDate)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seeder, err := peerseed.New(
		peerseed.WithConfig(cfg),
		peerseed.WithRegistry(reg),
		peerseed.WithPublisher(pkgif.PublisherFuncs{
			OnFound: func(source types.Source, addrs types.AddressList) {
				logger.Info("首次发现地址", "source", source, "count", len(addrs))
			},
		}),
	)
	if err != nil {
		return fmt.Errorf("创建失败: %w", err)
	}

	sub, err := seeder.EventBus().Subscribe(new(types.EvtSeedsUpdated))
	if err != nil {
		return err
	}
	defer func() { _ = sub.Close() }()

	if err := seeder.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() { _ = seeder.Close() }()

	if nick := seeder.Nick(); nick != "" {
		fmt.Printf("IRC: %s 以 %s 加入 %s\n", cfg.IRC.Server, nick, cfg.IRC.Channel)
	}
	if cfg.DNS.Enable {
		fmt.Printf("DNS: 解析 %v\n", cfg.DNS.Hostnames)
	}

	var srv *http.Server
	if cfg.Metrics.ListenAddr != "" {
		srv = serveMetrics(cfg.Metrics.ListenAddr, reg)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	fmt.Println("按 Ctrl+C 退出")
	for {
		select {
		case ev, ok := <-sub.Out():
			if !ok {
				return nil
			}
			evt := ev.(types.EvtSeedsUpdated)
			fmt.Printf("[%s] %d 个地址\n", evt.Source, len(evt.Addresses))
			for _, a := range evt.Addresses {
				fmt.Printf("  %s\n", a)
			}
		case <-signals:
			fmt.Println("\n正在关闭...")
			if srv != nil {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				_ = srv.Shutdown(shutdownCtx)
				shutdownCancel()
			}
			return nil
		}
	}
}

// serveMetrics 在后台暴露 /metrics
func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("指标服务退出", "addr", addr, "err", err)
		}
	}()
	logger.Info("指标服务已启动", "addr", addr)
	return srv
}

// ═══════════════════════════════════════════════════════════════════════════
// 工具子命令
// ═══════════════════════════════════════════════════════════════════════════

func runEncode(args []string) error {
	if len(args) != 2 {
		return errors.New("用法: peerseed encode <host> <port>")
	}
	port, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("无效端口 %q", args[1])
	}
	nick, err := ircdiscovery.EncodeNickname(args[0], port)
	if err != nil {
		return err
	}
	fmt.Println(nick)
	return nil
}

func runDecode(args []string) error {
	if len(args) == 0 {
		return errors.New("用法: peerseed decode <nick>...")
	}
	failed := 0
	for _, nick := range args {
		addr, ok := ircdiscovery.DecodeNickname(nick)
		if !ok {
			fmt.Printf("%s\t无效\n", nick)
			failed++
			continue
		}
		fmt.Println(formatDecoded(nick, addr))
	}
	if failed > 0 {
		return fmt.Errorf("%d 个昵称无法解码", failed)
	}
	return nil
}

// formatDecoded 输出 昵称、地址与地址范围，以制表符分隔
func formatDecoded(nick string, addr types.PeerAddress) string {
	return fmt.Sprintf("%s\t%s\t%s", nick, addr, addrScope(addr.IP()))
}

// addrScope 返回地址范围，便于识别不可路由的宣告
func addrScope(ip net.IP) string {
	switch {
	case ip.IsUnspecified():
		return "unspecified"
	case ip.IsLoopback():
		return "loopback"
	case ip.IsPrivate():
		return "private"
	case ip.IsLinkLocalUnicast():
		return "link-local"
	case ip.IsMulticast():
		return "multicast"
	default:
		return "public"
	}
}

func runQuery(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("用法: peerseed query <host> [port]")
	}
	port := config.DefaultDNSPort
	if len(args) == 2 {
		p, err := strconv.Atoi(args[1])
		if err != nil || p < 0 || p > 0xffff {
			return fmt.Errorf("无效端口 %q", args[1])
		}
		port = p
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultDNSTimeout)
	defer cancel()

	addrs, err := dnsdiscovery.Query(ctx, args[0], uint16(port))
	if err != nil {
		return err
	}
	for _, a := range addrs {
		fmt.Println(a)
	}
	return nil
}

func runChannel(args []string) error {
	prefix := "#bitcoin"
	n := 100
	if len(args) > 0 {
		prefix = args[0]
	}
	if len(args) > 1 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v < 1 {
			return fmt.Errorf("无效数量 %q", args[1])
		}
		n = v
	}
	fmt.Println(randomChannel(prefix, n))
	return nil
}

func printHelp() {
	fmt.Println(`peerseed - 对等节点种子发现

命令:
  run [flags]            运行发现并打印地址变化（默认）
  encode <host> <port>   将 IPv4 地址与端口编码为昵称
  decode <nick>...       解码昵称
  query <host> [port]    单次解析 DNS 种子
  channel [prefix] [n]   随机选择频道名
  version                显示版本信息

运行 "peerseed run -h" 查看 run 的参数。`)
}
