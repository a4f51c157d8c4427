package mq

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisProducer 实现 Producer 接口
type RedisProducer struct {
	client *redis.Client
}

// NewRedisProducer 创建 Redis 生产者
func NewRedisProducer(client *redis.Client) *RedisProducer {
	return &RedisProducer{
		client: client,
	}
}

// Publish 发送消息到 Redis Stream (Stream Name = topic)
func (p *RedisProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		Values: map[string]interface{}{
			"payload": payload,
			"key":     key,
		},
	}).Err()

	if err != nil {
		log.Printf("[MQ] Publish Error: %v", err)
		return fmt.Errorf("redis xadd error: %w", err)
	}

	return nil
}

// RedisConsumer 实现 Consumer 接口
type RedisConsumer struct {
	client *redis.Client
	group  string
	name   string
}

// NewRedisConsumer 创建 Redis 消费者
func NewRedisConsumer(client *redis.Client, group, name string) *RedisConsumer {
	return &RedisConsumer{
		client: client,
		group:  group,
		name:   name,
	}
}

// Subscribe 订阅 Redis Stream
func (c *RedisConsumer) Subscribe(ctx context.Context, topic string, handler func(msg *Message) error) error {
	// 1. 创建 Consumer Group (如果不存在)
	err := c.client.XGroupCreateMkStream(ctx, topic, c.group, "$").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("创建消费者组失败: %w", err)
	}

	log.Printf("[Redis MQ] 开始监听主题: %s (Group: %s)", topic, c.group)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			// 2. 阻塞读取消息
			streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    c.group,
				Consumer: c.name,
				Streams:  []string{topic, ">"},
				Count:    1,
				Block:    2 * time.Second,
			}).Result()

			if err == redis.Nil {
				continue // 超时无消息
			}
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Printf("[Redis MQ] 读取消息错误: %v", err)
				time.Sleep(1 * time.Second)
				continue
			}

			// 3. 处理消息
			for _, stream := range streams {
				for _, xMessage := range stream.Messages {
					val, ok := xMessage.Values["payload"].(string)
					if !ok {
						log.Printf("[Redis MQ] 消息格式错误: payload 缺失")
						c.ack(ctx, topic, xMessage.ID)
						continue
					}

					msg := &Message{
						ID:      xMessage.ID,
						Topic:   topic,
						Payload: []byte(val),
					}
					if key, ok := xMessage.Values["key"].(string); ok {
						msg.Key = key
					}

					// 处理成功才 ACK，失败的留在 pending 列表里
					if err := handler(msg); err != nil {
						log.Printf("[Redis MQ] 消息处理失败: %v", err)
					} else {
						c.ack(ctx, topic, xMessage.ID)
					}
				}
			}
		}
	}
}

func (c *RedisConsumer) ack(ctx context.Context, topic, id string) {
	c.client.XAck(ctx, topic, c.group, id)
}

func (c *RedisConsumer) Close() error {
	return c.client.Close()
}
