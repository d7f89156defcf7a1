// Package irc 实现基于 TCP 的 IRC 聊天协议传输
//
// Client 实现 interfaces.ChatTransport，供 discovery/irc 引导器使用。
// 只覆盖引导所需的协议子集：
//
//   - 注册：NICK / USER，收到 001 视为注册完成
//   - 昵称冲突：收到 433 时在昵称后追加 "_" 重试
//   - 保活：自动应答 PING
//   - 其余消息原样解析后投递到 Events 通道
//
// # 使用示例
//
//	client := irc.NewClient(irc.DefaultConfig())
//	defer client.Close()
//
//	if err := client.Connect(ctx, "u88qSoM5z6w9QqB"); err != nil {
//	    return err
//	}
//	for ev := range client.Events() {
//	    ...
//	}
//
// # 流控
//
// 出站命令经 golang.org/x/time/rate 令牌桶限速，避免被服务器按刷屏踢出。
// PONG 不受限速影响。
//
// # 断线重连
//
// Config.ReconnectDelay > 0 时连接断开后按该间隔重新拨号并注册，
// 每次注册成功都会再投递一次 ChatEventRegistered。
package irc
