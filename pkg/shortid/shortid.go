package shortid

import (
	"encoding/base64"
	"fmt"

	"corelinks/pkg/safe_random"
)

// Length 是对外短 ID 的固定长度。
// 12 个 base64url 字符 = 72 bit 熵，对预期的记录量来说碰撞概率可以忽略。
const Length = 12

// entropyBytes 底层随机字节数。12 个字符只消耗 9 字节，
// 多取一点保证截断后仍是均匀分布。
const entropyBytes = 12

// Generate 生成一个 URL 安全的短 ID（字母/数字/'-'/'_'）。
// 纯生成，不做唯一性检查；唯一性由存储层的 unique 约束 + 冲突重试保证。
func Generate() (string, error) {
	b, err := safe_random.GenerateRandomBytes(entropyBytes)
	if err != nil {
		return "", fmt.Errorf("short id 生成失败: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b)[:Length], nil
}

// IsValid 校验一个短 ID 是否符合生成规则（长度 + 字符集）。
// Resolver 在查库前先用它挡掉明显非法的输入。
func IsValid(id string) bool {
	if len(id) != Length {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
