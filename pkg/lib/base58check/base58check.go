// Package base58check 实现 Bitcoin 风格的 Base58Check 编解码
//
// 编码格式为 Base58(payload || checksum)，其中 checksum 为
// SHA256(SHA256(payload)) 的前 4 字节。与 bs58check 兼容，不附加版本字节。
package base58check

import (
	"bytes"
	"errors"

	"github.com/minio/sha256-simd"
	"github.com/mr-tron/base58"
)

// ChecksumLen 校验和长度（字节）
const ChecksumLen = 4

var (
	// ErrInvalidFormat 输入不是合法的 Base58 字符串
	ErrInvalidFormat = errors.New("base58check: invalid format")

	// ErrChecksum 校验和不匹配
	ErrChecksum = errors.New("base58check: checksum mismatch")
)

// Checksum 计算 payload 的双 SHA256 校验和
func Checksum(payload []byte) [ChecksumLen]byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])

	var sum [ChecksumLen]byte
	copy(sum[:], second[:ChecksumLen])
	return sum
}

// Encode 将 payload 编码为 Base58Check 字符串
func Encode(payload []byte) string {
	sum := Checksum(payload)

	buf := make([]byte, 0, len(payload)+ChecksumLen)
	buf = append(buf, payload...)
	buf = append(buf, sum[:]...)

	return base58.Encode(buf)
}

// Decode 解码 Base58Check 字符串并校验
//
// 返回去除校验和后的 payload。
func Decode(s string) ([]byte, error) {
	if s == "" {
		return nil, ErrInvalidFormat
	}

	raw, err := base58.Decode(s)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	if len(raw) < ChecksumLen {
		return nil, ErrInvalidFormat
	}

	payload := raw[:len(raw)-ChecksumLen]
	sum := Checksum(payload)
	if !bytes.Equal(sum[:], raw[len(raw)-ChecksumLen:]) {
		return nil, ErrChecksum
	}

	return payload, nil
}
