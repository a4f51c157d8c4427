package service

import (
	"context"
	"encoding/json"

	"corelinks/internal/model"
	"corelinks/internal/service/mq"
	"corelinks/pkg/logger"

	"go.uber.org/zap"
)

// WarmupService 消费创建事件，提前合成展示元数据灌进缓存。
// NFT 动作首次访问要走链上 tokenURI + 文档拉取，预热能把首屏延迟抹掉。
type WarmupService struct {
	consumer mq.Consumer
	metadata *MetadataService
}

func NewWarmupService(consumer mq.Consumer, metadata *MetadataService) *WarmupService {
	return &WarmupService{
		consumer: consumer,
		metadata: metadata,
	}
}

// Start 订阅创建事件主题
func (s *WarmupService) Start(ctx context.Context) error {
	logger.Info("[Warmup] 启动元数据预热服务...")
	return s.consumer.Subscribe(ctx, TopicActionCreated, s.handleCreated)
}

func (s *WarmupService) handleCreated(msg *mq.Message) error {
	// 1. 解析事件
	var event ActionCreatedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		logger.Warn("[Warmup] 事件载荷解析失败，丢弃", zap.Error(err))
		return nil // 畸形消息重试也没用
	}

	// 2. 只有 NFT 动作需要预热 (Tip 元数据是纯本地模板)
	if event.ActionType != model.ActionTypeNftSale {
		return nil
	}

	// 3. ForShortID 内部会合成并写缓存；预热失败不重试，首次访问兜底
	if _, err := s.metadata.ForShortID(context.Background(), event.ShortID); err != nil {
		logger.Warn("[Warmup] 元数据预热失败", zap.String("short_id", event.ShortID), zap.Error(err))
	} else {
		logger.Info("[Warmup] 元数据已预热", zap.String("short_id", event.ShortID))
	}
	return nil
}
