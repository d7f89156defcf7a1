// Package peerseed 提供对等节点种子发现
//
// peerseed 为刚启动、尚不认识任何对等节点的程序提供初始地址列表，
// 支持两种渠道：
//
//   - IRC: 以编码了本机 IPv4:端口 的昵称加入约定频道，周期性 WHO 枚举
//     频道成员并解码他人昵称
//   - DNS: 并行解析一组种子主机名，取 A 记录并集
//
// 两种渠道产出同样的事件：首次得到非空列表时发布一次 EvtSeedsFound，
// 此后列表每次变化发布 EvtSeedsUpdated。
//
// # 快速开始
//
//	import "github.com/dep2p/go-peerseed"
//
//	seeder, err := peerseed.Start(ctx,
//	    peerseed.WithIRC("#bitcoin00", "203.0.113.7", 8333),
//	    peerseed.WithDNSSeeds(8333, "seed.example.org"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer seeder.Close()
//
//	sub, _ := seeder.EventBus().Subscribe(new(types.EvtSeedsUpdated))
//	for ev := range sub.Out() {
//	    evt := ev.(types.EvtSeedsUpdated)
//	    fmt.Println(evt.Source, evt.Addresses)
//	}
//
// # 文件组织
//
//   - peerseed.go: Seeder 入口与生命周期
//   - options.go: 函数式选项
//   - fx.go: Fx 模块装配
//   - errors.go: 公共错误
//   - version.go: 版本信息
package peerseed
