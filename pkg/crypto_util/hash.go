package crypto_util

import (
	"crypto/sha256"
	"encoding/hex"

	"lukechampine.com/blake3"
)

// CalculateSHA256 计算输入的 SHA256 哈希值。
func CalculateSHA256(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// CalculateBlake3 计算输入的 Blake3 哈希值。
// Blake3 是一种现代、高性能的加密哈希函数，用于给不可变响应生成强 ETag。
func CalculateBlake3(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}
