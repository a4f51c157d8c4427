package mq

import (
	"context"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer 实现 Producer 接口
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer 创建 Kafka 生产者
// Balancer 用 Hash: 同一个 key (short_id) 的事件落到同一分区，保证顺序
func NewKafkaProducer(brokers []string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Publish 发送消息到 Kafka
func (p *KafkaProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Value: payload,
	}
	if key != "" {
		msg.Key = []byte(key)
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("[Kafka MQ] Publish Error: %v", err)
		return fmt.Errorf("kafka write error: %w", err)
	}
	return nil
}

// Close 关闭生产者
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
