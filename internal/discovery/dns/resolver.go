package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	miekgdns "github.com/miekg/dns"

	"github.com/dep2p/go-peerseed/config"
	"github.com/dep2p/go-peerseed/pkg/types"
)

// ============================================================================
//                              解析器配置
// ============================================================================

// ResolverConfig 解析器配置
type ResolverConfig struct {
	// Timeout 单次查询超时
	Timeout time.Duration

	// CacheTTL 缓存 TTL，0 表示不缓存
	CacheTTL time.Duration

	// CacheSize 缓存容量，0 表示不限
	CacheSize int

	// CustomResolver 自定义 DNS 服务器地址（格式: "ip:port"），为空使用系统解析器
	CustomResolver string
}

// DefaultResolverConfig 默认配置
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		Timeout:   config.DefaultDNSTimeout,
		CacheTTL:  config.DefaultDNSCacheTTL,
		CacheSize: config.DefaultDNSCacheSize,
	}
}

// LookupFunc 主机名到 IP 列表的查询函数
type LookupFunc func(ctx context.Context, host string) ([]net.IP, error)

// ResolverOption 解析器选项
type ResolverOption func(*Resolver)

// WithLookup 替换底层查询函数
func WithLookup(fn LookupFunc) ResolverOption {
	return func(r *Resolver) {
		r.lookup = fn
	}
}

// ============================================================================
//                              Resolver 实现
// ============================================================================

// Resolver 种子主机名 A 记录解析器
//
// 只返回 IPv4 地址；结果按主机名缓存，与端口无关。
type Resolver struct {
	config ResolverConfig
	lookup LookupFunc
	client *miekgdns.Client

	cache *expirable.LRU[string, [][4]byte]
}

// NewResolver 创建解析器
func NewResolver(cfg ResolverConfig, opts ...ResolverOption) *Resolver {
	r := &Resolver{config: cfg}

	if cfg.CustomResolver != "" {
		r.client = &miekgdns.Client{Net: "udp", Timeout: cfg.Timeout}
		r.lookup = r.exchangeA
	} else {
		r.lookup = lookupSystem
	}

	if cfg.CacheTTL > 0 {
		r.cache = expirable.NewLRU[string, [][4]byte](cfg.CacheSize, nil, cfg.CacheTTL)
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve 解析主机名，为每个 IPv4 地址附上 port
func (r *Resolver) Resolve(ctx context.Context, host string, port uint16) (types.AddressList, error) {
	if err := ValidateDomain(host); err != nil {
		return nil, err
	}
	host = normalizeDomain(host)

	hosts, ok := r.getFromCache(host)
	if !ok {
		var err error
		hosts, err = r.resolveA(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", host, err)
		}
		if r.cache != nil {
			r.cache.Add(host, hosts)
		}
	}

	addrs := make(types.AddressList, 0, len(hosts))
	for _, h := range hosts {
		addrs = append(addrs, types.NewPeerAddress(h, port))
	}
	return addrs, nil
}

// ClearCache 清除缓存
func (r *Resolver) ClearCache() {
	if r.cache != nil {
		r.cache.Purge()
	}
}

func (r *Resolver) getFromCache(host string) ([][4]byte, bool) {
	if r.cache == nil {
		return nil, false
	}
	return r.cache.Get(host)
}

// resolveA 查询并过滤出 IPv4 地址
func (r *Resolver) resolveA(ctx context.Context, host string) ([][4]byte, error) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	ips, err := r.lookup(ctx, host)
	if err != nil {
		return nil, err
	}

	hosts := make([][4]byte, 0, len(ips))
	for _, ip := range ips {
		v4 := ip.To4()
		if v4 == nil {
			continue
		}
		hosts = append(hosts, [4]byte{v4[0], v4[1], v4[2], v4[3]})
	}
	if len(hosts) == 0 {
		return nil, ErrNoRecordsFound
	}
	return hosts, nil
}

// lookupSystem 使用系统解析器
func lookupSystem(ctx context.Context, host string) ([]net.IP, error) {
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, ErrNoRecordsFound
		}
		return nil, err
	}
	return ips, nil
}

// exchangeA 向自定义 DNS 服务器发送 A 查询
func (r *Resolver) exchangeA(ctx context.Context, host string) ([]net.IP, error) {
	msg := new(miekgdns.Msg)
	msg.SetQuestion(miekgdns.Fqdn(host), miekgdns.TypeA)
	msg.RecursionDesired = true

	resp, _, err := r.client.ExchangeContext(ctx, msg, r.config.CustomResolver)
	if err != nil {
		return nil, err
	}

	switch resp.Rcode {
	case miekgdns.RcodeSuccess:
	case miekgdns.RcodeNameError:
		return nil, ErrNoRecordsFound
	default:
		return nil, fmt.Errorf("server %s answered %s", r.config.CustomResolver, miekgdns.RcodeToString[resp.Rcode])
	}

	var ips []net.IP
	for _, rr := range resp.Answer {
		if a, ok := rr.(*miekgdns.A); ok {
			ips = append(ips, a.A)
		}
	}
	return ips, nil
}

// ============================================================================
//                              同步查询
// ============================================================================

// defaultResolver 返回 Query 使用的进程级解析器，首次调用时创建
var defaultResolver = sync.OnceValue(func() *Resolver {
	return NewResolver(DefaultResolverConfig())
})

// Query 使用系统解析器同步解析 host，返回 IPv4 地址列表
//
// 结果为解析顺序，每个地址使用同一 port。
func Query(ctx context.Context, host string, port uint16) ([]types.PeerAddress, error) {
	return defaultResolver().Resolve(ctx, host, port)
}

// ============================================================================
//                              域名验证
// ============================================================================

// normalizeDomain 规范化域名
func normalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSuffix(domain, "."))
}

// ValidateDomain 验证域名格式
func ValidateDomain(domain string) error {
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" {
		return ErrInvalidDomain
	}

	if len(domain) > 253 {
		return fmt.Errorf("%w: domain too long", ErrInvalidDomain)
	}

	labels := strings.Split(domain, ".")
	for _, label := range labels {
		if len(label) == 0 {
			return fmt.Errorf("%w: empty label", ErrInvalidDomain)
		}
		if len(label) > 63 {
			return fmt.Errorf("%w: label too long", ErrInvalidDomain)
		}
		if !isAlphaNum(label[0]) {
			return fmt.Errorf("%w: label must start with alphanumeric", ErrInvalidDomain)
		}
		if label[len(label)-1] == '-' {
			return fmt.Errorf("%w: label must not end with hyphen", ErrInvalidDomain)
		}
		for i := 0; i < len(label); i++ {
			if c := label[i]; !isAlphaNum(c) && c != '-' && c != '_' {
				return fmt.Errorf("%w: invalid character in label", ErrInvalidDomain)
			}
		}
	}

	return nil
}

func isAlphaNum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
