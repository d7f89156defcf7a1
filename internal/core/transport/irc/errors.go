package irc

import "errors"

var (
	// ErrNotConnected 尚未建立连接
	ErrNotConnected = errors.New("irc transport: not connected")

	// ErrAlreadyConnected 连接已存在
	ErrAlreadyConnected = errors.New("irc transport: already connected")

	// ErrClosed 传输已关闭
	ErrClosed = errors.New("irc transport: closed")

	// ErrInvalidNick 昵称为空或包含非法字符
	ErrInvalidNick = errors.New("irc transport: invalid nickname")

	// ErrServerError 服务器发送 ERROR 消息
	ErrServerError = errors.New("irc transport: server error")
)
