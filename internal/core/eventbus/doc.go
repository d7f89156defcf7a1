// Package eventbus 实现进程内事件总线
//
// 发现结果通过两个事件类型分发：
//   - types.EvtSeedsFound: 每个引导实例首次得到非空地址列表时发布一次
//   - types.EvtSeedsUpdated: 每次已发布列表变化时发布
//
// # 快速开始
//
//	bus := eventbus.NewBus()
//	pub, _ := eventbus.NewPublisher(bus)
//
//	sub, _ := bus.Subscribe(new(types.EvtSeedsUpdated))
//	defer sub.Close()
//
//	go func() {
//	    for evt := range sub.Out() {
//	        e := evt.(types.EvtSeedsUpdated)
//	        fmt.Println(e.Source, e.Addresses)
//	    }
//	}()
//
// # 语义
//
// Emit 永不阻塞：订阅者缓冲区满时丢弃事件并按 100 次一条的频率告警。
// 引导器在自己的事件循环中发布，不能被慢消费者拖住。
//
// # 并发安全
//
//   - 节点表：RWMutex 保护
//   - 发射器引用计数：atomic.Int32
//   - 通道关闭：closeOnce 防止重复
package eventbus
