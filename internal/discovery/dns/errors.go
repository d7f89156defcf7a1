package dns

import "errors"

// 预定义错误
var (
	// ErrInvalidDomain 无效的域名
	ErrInvalidDomain = errors.New("dns: invalid domain")

	// ErrNoRecordsFound 未找到 IPv4 记录
	ErrNoRecordsFound = errors.New("dns: no IPv4 records found")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("dns: invalid config")

	// ErrAlreadyStarted 已启动
	ErrAlreadyStarted = errors.New("dns: already started")

	// ErrNotStarted 未启动
	ErrNotStarted = errors.New("dns: not started")

	// ErrStopped 已停止
	ErrStopped = errors.New("dns: stopped")
)
