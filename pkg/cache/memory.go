package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache 进程内 L1 缓存
type MemoryCache struct {
	mu         sync.RWMutex
	items      map[string]memoryItem
	defaultTTL time.Duration
	stop       chan struct{}
}

// NewMemoryCache 创建内存缓存
// defaultTTL: Set 传 0 时使用的默认过期时间
// cleanupInterval: 后台清理过期 key 的周期
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		items:      make(map[string]memoryItem),
		defaultTTL: defaultTTL,
		stop:       make(chan struct{}),
	}

	// 后台 janitor，定期清理过期项
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				c.evictExpired()
			}
		}
	}()

	return c
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	c.items[key] = memoryItem{data: data, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Get(ctx context.Context, key string, target interface{}) error {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(item.expiresAt) {
		return ErrMiss
	}
	return json.Unmarshal(item.data, target)
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// Close 停止后台清理
func (c *MemoryCache) Close() {
	close(c.stop)
}

func (c *MemoryCache) evictExpired() {
	now := time.Now()
	c.mu.Lock()
	for k, v := range c.items {
		if now.After(v.expiresAt) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}
