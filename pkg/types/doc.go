// Package types 定义 peerseed 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 peerseed 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - address.go - PeerAddress, AddressList（规范排序与比较）
//   - events.go  - EvtSeedsFound, EvtSeedsUpdated, Source
//   - errors.go  - 公共错误定义
//
// # 规范顺序
//
// AddressList 按主机的点分十进制字符串字典序排序，主机相同再按端口数值升序。
// 两个列表相等当且仅当长度相同且按该顺序逐项相等。
package types
