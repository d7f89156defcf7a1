package types

import (
	"cmp"
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"
)

// ============================================================================
//                              PeerAddress - 节点地址
// ============================================================================

// PeerAddress 自宣告的节点地址（IPv4 + 端口）
//
// 纯值类型，构造后不可变。
type PeerAddress struct {
	host [4]byte
	port uint16
}

// NewPeerAddress 从 4 字节主机与端口构造地址
func NewPeerAddress(host [4]byte, port uint16) PeerAddress {
	return PeerAddress{host: host, port: port}
}

// ParsePeerAddress 从点分十进制主机与端口构造地址
//
// host 必须是恰好 4 段、每段 [0,255] 的十进制数；port 必须在 [0,65535]。
func ParsePeerAddress(host string, port int) (PeerAddress, error) {
	octets, err := ParseIPv4(host)
	if err != nil {
		return PeerAddress{}, err
	}
	if port < 0 || port > 0xffff {
		return PeerAddress{}, fmt.Errorf("%w: port %d out of range", ErrInvalidPort, port)
	}
	return PeerAddress{host: octets, port: uint16(port)}, nil
}

// ParseIPv4 严格解析点分十进制 IPv4 字符串
func ParseIPv4(host string) ([4]byte, error) {
	var octets [4]byte

	groups := strings.Split(host, ".")
	if len(groups) != 4 {
		return octets, fmt.Errorf("%w: %q must have 4 groups", ErrInvalidHost, host)
	}

	for i, g := range groups {
		if len(g) == 0 || len(g) > 3 {
			return octets, fmt.Errorf("%w: %q has malformed group %q", ErrInvalidHost, host, g)
		}
		for _, c := range g {
			if c < '0' || c > '9' {
				return octets, fmt.Errorf("%w: %q has non-decimal group %q", ErrInvalidHost, host, g)
			}
		}
		v, err := strconv.Atoi(g)
		if err != nil || v > 255 {
			return octets, fmt.Errorf("%w: %q group %q out of range", ErrInvalidHost, host, g)
		}
		octets[i] = byte(v)
	}

	return octets, nil
}

// Octets 返回主机的 4 个字节
func (a PeerAddress) Octets() [4]byte {
	return a.host
}

// Port 返回端口
func (a PeerAddress) Port() uint16 {
	return a.port
}

// Host 返回点分十进制主机字符串
func (a PeerAddress) Host() string {
	return fmt.Sprintf("%d.%d.%d.%d", a.host[0], a.host[1], a.host[2], a.host[3])
}

// IP 返回 net.IP 表示
func (a PeerAddress) IP() net.IP {
	return net.IPv4(a.host[0], a.host[1], a.host[2], a.host[3])
}

// String 返回 host:port
func (a PeerAddress) String() string {
	return net.JoinHostPort(a.Host(), strconv.Itoa(int(a.port)))
}

// MarshalText 实现 encoding.TextMarshaler，输出 host:port
func (a PeerAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (a *PeerAddress) UnmarshalText(text []byte) error {
	host, portStr, err := net.SplitHostPort(string(text))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHost, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidPort, portStr)
	}
	parsed, err := ParsePeerAddress(host, port)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Compare 按规范顺序比较两个地址
//
// 先按点分十进制字符串字典序比较主机（"10.0.0.1" 排在 "9.0.0.1" 之前），
// 再按端口数值升序比较。
func (a PeerAddress) Compare(b PeerAddress) int {
	if c := strings.Compare(a.Host(), b.Host()); c != 0 {
		return c
	}
	return cmp.Compare(a.port, b.port)
}

// ============================================================================
//                              AddressList - 地址列表
// ============================================================================

// AddressList 有序地址列表
//
// 允许重复项：每个应答的频道成员对应一项。
type AddressList []PeerAddress

// Sort 原地排序为规范顺序
func (l AddressList) Sort() {
	slices.SortStableFunc(l, PeerAddress.Compare)
}

// Sorted 返回排好序的副本
func (l AddressList) Sorted() AddressList {
	out := l.Clone()
	out.Sort()
	return out
}

// Equal 长度相同且逐项相等时返回 true
func (l AddressList) Equal(other AddressList) bool {
	return slices.Equal(l, other)
}

// Clone 返回副本（nil 保持为 nil）
func (l AddressList) Clone() AddressList {
	if l == nil {
		return nil
	}
	return slices.Clone(l)
}

// Strings 返回 host:port 字符串切片
func (l AddressList) Strings() []string {
	out := make([]string, len(l))
	for i, a := range l {
		out[i] = a.String()
	}
	return out
}
