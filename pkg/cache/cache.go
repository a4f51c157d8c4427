package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss 缓存未命中
var ErrMiss = errors.New("cache miss")

// Cache 通用缓存接口 (L1 Memory / L2 Redis 共用)
// value 统一走 JSON 序列化，保证两层语义一致。
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, target interface{}) error
	Delete(ctx context.Context, key string) error
}
