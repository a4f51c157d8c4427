package service

import (
	"context"
	"encoding/json"
	"time"

	"corelinks/internal/model"
	"corelinks/internal/service/mq"
	"corelinks/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RelayService 负责将本地消息表 (Outbox) 的消息搬运到 MQ
type RelayService struct {
	db       *gorm.DB
	producer mq.Producer
	interval time.Duration
}

func NewRelayService(db *gorm.DB, producer mq.Producer) *RelayService {
	return &RelayService{
		db:       db,
		producer: producer,
		interval: 500 * time.Millisecond, // 500ms 轮询一次
	}
}

func (s *RelayService) Start(ctx context.Context) {
	logger.Info("[Relay] 启动消息中继服务...")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("[Relay] 停止服务")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *RelayService) processPendingMessages(ctx context.Context) {
	// 1. 获取一批 Pending 消息，每次取 50 条，避免内存爆炸
	var messages []model.OutboxMessage
	if err := s.db.Where("status = ?", "PENDING").Limit(50).Find(&messages).Error; err != nil {
		logger.Error("[Relay] 查询消息失败", zap.Error(err))
		return
	}

	if len(messages) == 0 {
		return
	}

	logger.Info("[Relay] 发现待发送消息", zap.Int("count", len(messages)))

	for _, msg := range messages {
		// 2. 发送 MQ
		// 分区键从 Payload 里取 short_id: 同一条链接的事件保持有序
		if err := s.producer.Publish(ctx, msg.Topic, partitionKey(msg.Payload), msg.Payload); err != nil {
			logger.Error("[Relay] 发送消息失败", zap.Uint64("id", msg.ID), zap.Error(err))
			continue
		}

		// 3. 更新状态为 SENT
		// 只有发送成功了才更新状态 => At-least-once (至少一次投递)
		// 如果这里更新失败，下次还会发，Consumer 需做好幂等
		if err := s.db.Model(&msg).Update("status", "SENT").Error; err != nil {
			logger.Error("[Relay] 更新状态失败", zap.Uint64("id", msg.ID), zap.Error(err))
		}
	}
}

func partitionKey(payload []byte) string {
	var event ActionCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return ""
	}
	return event.ShortID
}
