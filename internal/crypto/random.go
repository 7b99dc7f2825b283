package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrEntropyUnavailable 操作系统熵源不可用
	// 该错误是致命的，调用方必须中止操作，禁止降级为弱随机源
	ErrEntropyUnavailable = errors.New("entropy source unavailable")
	// ErrInvalidRange 随机整数区间无效
	ErrInvalidRange = errors.New("invalid random integer range: min must not exceed max")
	// ErrInvalidLength 随机字符串长度无效
	ErrInvalidLength = errors.New("invalid random string length: must be positive")
)

// RandomBytes 生成 n 个密码学安全的随机字节
func RandomBytes(n int) ([]byte, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	return bytes, nil
}

// RandomHexString 生成长度为 n 的随机十六进制字符串
func RandomHexString(n int) (string, error) {
	if n <= 0 {
		return "", ErrInvalidLength
	}
	// hex 编码长度翻倍，多取一个字节覆盖奇数长度
	bytes, err := RandomBytes((n + 1) / 2)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:n], nil
}

// RandomInt 生成 [min, max] 区间内的随机整数
func RandomInt(min, max int) (int, error) {
	if min > max {
		return 0, ErrInvalidRange
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max-min)+1))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	return min + int(n.Int64()), nil
}
