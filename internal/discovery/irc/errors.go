package irc

import "errors"

var (
	// ErrInvalidAddress 本机宣告地址非法
	ErrInvalidAddress = errors.New("irc: invalid address")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("irc: invalid config")

	// ErrAlreadyStarted 已经启动
	ErrAlreadyStarted = errors.New("irc: already started")

	// ErrNotStarted 未启动
	ErrNotStarted = errors.New("irc: not started")

	// ErrStopped 已停止，实例不可再启动
	ErrStopped = errors.New("irc: stopped")
)
