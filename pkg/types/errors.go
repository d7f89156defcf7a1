// Package types 定义 peerseed 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              地址相关错误
// ============================================================================

var (
	// ErrInvalidHost 主机不是合法的点分十进制 IPv4
	ErrInvalidHost = errors.New("invalid IPv4 host")

	// ErrInvalidPort 端口超出 16 位范围
	ErrInvalidPort = errors.New("invalid port")
)
