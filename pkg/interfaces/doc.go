// Package interfaces 定义 peerseed 的公共接口
//
// 接口文件与实现目录对应：
//   - bootstrap.go  - Bootstrapper（internal/discovery/irc, internal/discovery/dns）
//   - transport.go  - ChatTransport（internal/core/transport/irc）
//   - publisher.go  - SeedPublisher（internal/core/eventbus）
//   - eventbus.go   - EventBus（internal/core/eventbus）
//
// 本包只依赖 pkg/types。
package interfaces
