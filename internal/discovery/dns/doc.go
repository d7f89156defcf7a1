// Package dns 实现基于 DNS 种子主机名的节点引导
//
// # 模块概述
//
// 给定一组种子主机名与一个固定端口，并行解析每个主机名的 A 记录，
// 把得到的 IPv4 地址（统一附上该端口）并入地址并集，并以与 IRC
// 引导相同的事件契约发布：
//
//   - found: 并集首次非空时发布一次
//   - updated: 每批结果使并集变化时发布
//
// 单个主机名解析失败只记录日志与指标，不阻塞其它主机名，也不发布事件。
//
// # 解析器
//
// Resolver 默认使用系统解析器；配置 CustomResolver 时通过
// github.com/miekg/dns 直接向指定服务器发送 A 查询。
// 结果按主机名缓存在带过期时间的 LRU 中。
//
// Query 是独立的同步查询入口：
//
//	addrs, err := dns.Query(ctx, "seed.bitcoin.sipa.be", 8333)
//
// # 使用示例
//
//	b, err := dns.New(dns.Config{
//	    Hostnames: []string{"seed.bitcoin.sipa.be", "dnsseed.bluematt.me"},
//	    Port:      8333,
//	    Timeout:   10 * time.Second,
//	}, publisher)
//	if err != nil {
//	    return err
//	}
//	_ = b.Start(ctx)
//	defer b.Stop(ctx)
//
// # 刷新
//
// RefreshInterval 为 0 时只解析一次；大于 0 时按间隔重新解析。
// 并集只增不减，上一轮未结束时新一轮被跳过。
package dns
