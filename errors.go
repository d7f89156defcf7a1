package peerseed

import "errors"

// 公共错误定义
var (
	// ErrNotStarted 种子发现器未启动
	ErrNotStarted = errors.New("peerseed: not started")

	// ErrAlreadyStarted 种子发现器已启动
	ErrAlreadyStarted = errors.New("peerseed: already started")

	// ErrClosed 种子发现器已关闭
	ErrClosed = errors.New("peerseed: closed")

	// ErrNoSource 未启用任何发现渠道
	ErrNoSource = errors.New("peerseed: no discovery source enabled")

	// ErrSourceDisabled 请求的发现渠道未启用
	ErrSourceDisabled = errors.New("peerseed: discovery source disabled")
)
