package shortid

import (
	"testing"
)

func TestGenerateLengthAndCharset(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id, err := Generate()
		if err != nil {
			t.Fatalf("Generate 失败: %v", err)
		}
		if len(id) != Length {
			t.Fatalf("长度 = %d, 期望 %d (id=%q)", len(id), Length, id)
		}
		if !IsValid(id) {
			t.Fatalf("生成的 ID 包含非 URL 安全字符: %q", id)
		}
	}
}

func TestGenerateUniqueness(t *testing.T) {
	// 72 bit 熵下 1 万个 ID 重复的概率可以忽略，重复基本说明实现有问题
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id, err := Generate()
		if err != nil {
			t.Fatalf("Generate 失败: %v", err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("生成了重复的短 ID: %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"abcDEF123-_x", true},
		{"abcDEF123-_", false},   // 太短
		{"abcDEF123-_xy", false}, // 太长
		{"abcDEF123+!x", false},  // 非法字符
		{"abcDEF123=_x", false},  // base64 padding 不允许
		{"", false},
	}
	for _, c := range cases {
		if got := IsValid(c.id); got != c.want {
			t.Errorf("IsValid(%q) = %v, 期望 %v", c.id, got, c.want)
		}
	}
}
