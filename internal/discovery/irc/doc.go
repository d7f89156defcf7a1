// Package irc 实现 IRC 频道昵称宣告式节点引导
//
// 每个节点把自己的 IPv4 地址与端口编码为昵称加入同一频道：
//
//	"u" + Base58Check(4 字节 IPv4 || 2 字节大端端口)
//
// 例如 127.0.0.1:8334 编码为 "u88qSoM5z6w9QqB"。
//
// # 轮询状态机
//
//	Connecting → Registered/FastPoll → Registered/SlowPoll → Stopped
//
//   - 注册完成后 JOIN 频道，立即发送 WHO 并以 FastInterval（默认 5s）轮询
//   - 352 应答逐个解码成员昵称，无法解码的昵称被静默跳过
//   - 315 应答结束周期：排序后与上次发布的列表比较，变化时发布
//   - 首次得到非空列表时发布 found，并切换到 SlowInterval（默认 5min）
//   - 每次变化都发布 updated，因此首次发现会依次收到 found 与 updated
//
// 同一时刻最多一个周期进行中。CycleTimeout 到期仍未收到 315 时放弃该周期，
// 使后续轮询得以继续。
//
// # 使用示例
//
//	transport := ircconn.NewClient(ircconn.DefaultConfig())
//	b, err := irc.New(irc.Config{
//	    Channel:      "#bitcoin00",
//	    LocalHost:    "203.0.113.7",
//	    LocalPort:    8333,
//	    FastInterval: 5 * time.Second,
//	    SlowInterval: 5 * time.Minute,
//	}, transport, publisher)
//	if err != nil {
//	    return err
//	}
//	_ = b.Start(ctx)
//	defer b.Stop(ctx)
package irc
