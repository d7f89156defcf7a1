package types

// ============================================================================
//                              ChatEvent - 聊天协议原始事件
// ============================================================================

// ChatEventKind 原始事件类别
type ChatEventKind int

const (
	// ChatEventMessage 服务器下发的一条协议消息
	ChatEventMessage ChatEventKind = iota

	// ChatEventRegistered 注册完成（收到欢迎消息）
	ChatEventRegistered

	// ChatEventError 连接级错误（协议错误、读写失败）
	ChatEventError

	// ChatEventClosed 连接已关闭
	ChatEventClosed
)

// String 返回类别名称
func (k ChatEventKind) String() string {
	switch k {
	case ChatEventMessage:
		return "message"
	case ChatEventRegistered:
		return "registered"
	case ChatEventError:
		return "error"
	case ChatEventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ChatEvent 传输层投递给引导器的原始事件
//
// Command 为协议命令或三位数字应答码，Params 为参数（含尾随参数）。
type ChatEvent struct {
	Kind    ChatEventKind
	Source  string
	Command string
	Params  []string
	Err     error
}

// Param 返回第 i 个参数，越界返回空串与 false
func (e ChatEvent) Param(i int) (string, bool) {
	if i < 0 || i >= len(e.Params) {
		return "", false
	}
	return e.Params[i], true
}
