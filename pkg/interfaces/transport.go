// Package interfaces 定义 peerseed 公共接口
//
// 本文件定义聊天协议传输能力接口。
package interfaces

import (
	"context"

	"github.com/dep2p/go-peerseed/pkg/types"
)

// ChatTransport 聊天协议传输能力
//
// 引导器通过注入的 ChatTransport 与服务器交互，测试中可替换为内存实现。
// 实现需保证：
//   - Connect 只负责建立连接并发起注册，注册完成通过 ChatEventRegistered 通知
//   - Send 非阻塞或仅短暂阻塞，不等待服务器应答
//   - Events 返回的通道在 Close 后最终被关闭
//   - 连接与后台 goroutine 不阻止宿主进程退出
type ChatTransport interface {
	// Connect 连接服务器并以 nick 注册
	Connect(ctx context.Context, nick string) error

	// Join 加入频道
	Join(channel string) error

	// Send 发送一条协议命令
	Send(command string, params ...string) error

	// Events 返回原始事件通道
	Events() <-chan types.ChatEvent

	// Close 断开连接，可重复调用
	Close() error
}
