package irc

import (
	"encoding/binary"
	"fmt"

	"github.com/dep2p/go-peerseed/pkg/lib/base58check"
	"github.com/dep2p/go-peerseed/pkg/types"
)

// ============================================================================
//                              昵称编解码
// ============================================================================

const (
	// NickPrefix 宣告昵称前缀
	NickPrefix = "u"

	// payloadLen 4 字节 IPv4 + 2 字节大端端口
	payloadLen = 6
)

// EncodeNickname 将 IPv4 主机与端口编码为宣告昵称
//
// host 必须是严格的点分十进制 IPv4，port 必须在 [0,65535]，
// 否则返回包装 ErrInvalidAddress 的错误。
//
//	nick, _ := EncodeNickname("127.0.0.1", 8334) // "u88qSoM5z6w9QqB"
func EncodeNickname(host string, port int) (string, error) {
	addr, err := types.ParsePeerAddress(host, port)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return EncodeAddress(addr), nil
}

// EncodeAddress 编码已校验的地址
func EncodeAddress(addr types.PeerAddress) string {
	var payload [payloadLen]byte
	octets := addr.Octets()
	copy(payload[:4], octets[:])
	binary.BigEndian.PutUint16(payload[4:], addr.Port())

	return NickPrefix + base58check.Encode(payload[:])
}

// DecodeNickname 解码宣告昵称
//
// 昵称为空、缺少前缀、Base58 字符非法、校验和不匹配或负载不是 6 字节时
// 返回 false。对端数据不可信，这里不返回错误原因。
func DecodeNickname(nick string) (types.PeerAddress, bool) {
	if len(nick) <= len(NickPrefix) || nick[:len(NickPrefix)] != NickPrefix {
		return types.PeerAddress{}, false
	}

	payload, err := base58check.Decode(nick[len(NickPrefix):])
	if err != nil || len(payload) != payloadLen {
		return types.PeerAddress{}, false
	}

	var host [4]byte
	copy(host[:], payload[:4])
	return types.NewPeerAddress(host, binary.BigEndian.Uint16(payload[4:])), true
}
