// Package lib 包含与发现渠道无关的基础工具库
//
//   - base58check: Base58Check 编解码（双 SHA-256 校验和）
//   - log: 基于 slog 的组件日志
//
// # 使用示例
//
//	import (
//	    "github.com/dep2p/go-peerseed/pkg/lib/base58check"
//	    "github.com/dep2p/go-peerseed/pkg/lib/log"
//	)
package lib
