package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"corelinks/internal/model"
	"corelinks/pkg/cache"
	"corelinks/pkg/errno"
	"corelinks/pkg/logger"
	"corelinks/pkg/monitor"
	"corelinks/pkg/shortid"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TopicActionCreated 创建事件的 Outbox/MQ 主题
const TopicActionCreated = "action_events_created"

// maxShortIDAttempts short_id 撞唯一索引后的重新生成次数上限。
// 72 bit 熵下连撞 5 次基本等于随机源坏了。
const maxShortIDAttempts = 5

// resolveCacheTTL 动作不可变，缓存只为省数据库查询，TTL 纯粹是卫生习惯
const resolveCacheTTL = 10 * time.Minute

// ActionCreatedEvent 发到 MQ 的创建事件载荷
type ActionCreatedEvent struct {
	ShortID    string `json:"short_id"`
	ActionType string `json:"action_type"`
}

// SQLActionService ActionService 的 gorm 实现
type SQLActionService struct {
	repo    ActionRepo
	cache   cache.Cache
	baseURL string
}

func NewSQLActionService(db *gorm.DB, c cache.Cache, baseURL string) *SQLActionService {
	return &SQLActionService{
		repo:    &gormActionRepo{db: db},
		cache:   c,
		baseURL: baseURL,
	}
}

// NewActionServiceWithRepo 测试用：注入自定义存储实现
func NewActionServiceWithRepo(repo ActionRepo, c cache.Cache, baseURL string) *SQLActionService {
	return &SQLActionService{repo: repo, cache: c, baseURL: baseURL}
}

// Create 创建动作
// 1. 变体校验 (非法形态在落库前就挡掉)
// 2. 生成 short_id 并连同 Outbox 消息写入同一事务
// 3. short_id 撞唯一索引 -> 换个 id 重试，调用方无感知
func (s *SQLActionService) Create(ctx context.Context, action *model.Action) (*CreateResult, error) {
	if _, err := action.Typed(); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxShortIDAttempts; attempt++ {
		id, err := shortid.Generate()
		if err != nil {
			// 随机源不可用，罕见且致命
			return nil, fmt.Errorf("short id 生成失败: %w", err)
		}
		action.ShortID = id
		action.CreatedAt = time.Now()

		err = s.repo.InsertWithOutbox(ctx, action)
		if err == nil {
			if monitor.Business != nil {
				monitor.Business.ActionsCreatedTotal.WithLabelValues(action.ActionType).Inc()
			}
			return &CreateResult{
				ID:       action.ID,
				ShortID:  action.ShortID,
				ShortURL: s.ShortURL(action),
			}, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 撞号: 重新生成，不能把半截写入留在库里
			logger.Warn("short_id 冲突，重新生成", zap.String("short_id", id), zap.Int("attempt", attempt+1))
			if monitor.Business != nil {
				monitor.Business.ShortIDCollisionsTotal.Inc()
			}
			continue
		}
		logger.Error("动作写入失败", zap.Error(err))
		return nil, errno.ErrDatabase
	}

	return nil, errno.ErrShortIDExhausted
}

// Resolve 按 short_id 解析动作。只读，无副作用。
func (s *SQLActionService) Resolve(ctx context.Context, shortID string) (*model.Action, error) {
	if !shortid.IsValid(shortID) {
		s.countResolveFailure("invalid_short_id")
		return nil, errno.ErrActionNotFound
	}

	cacheKey := "action:" + shortID

	// 1. 查缓存 (动作不可变，命中即终局)
	var cached model.Action
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	// 2. 查库
	action, err := s.repo.FindByShortID(ctx, shortID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.countResolveFailure("not_found")
		return nil, errno.ErrActionNotFound
	}
	if err != nil {
		logger.Error("动作查询失败", zap.String("short_id", shortID), zap.Error(err))
		return nil, errno.ErrDatabase
	}

	// 3. 存储记录必须自洽；未知 action_type 明确报错，不做静默降级
	if _, err := action.Typed(); err != nil {
		s.countResolveFailure("invalid_record")
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, action, resolveCacheTTL)
	}
	if monitor.Business != nil {
		monitor.Business.ActionResolvedTotal.Inc()
	}
	return action, nil
}

// ShortURL 拼出对外分享的短链接: <base>/a/<action_type>-<short_id>
func (s *SQLActionService) ShortURL(action *model.Action) string {
	return fmt.Sprintf("%s/a/%s-%s", s.baseURL, action.ActionType, action.ShortID)
}

func (s *SQLActionService) countResolveFailure(reason string) {
	if monitor.Business != nil {
		monitor.Business.ResolveFailuresTotal.WithLabelValues(reason).Inc()
	}
}

// gormActionRepo ActionRepo 的 postgres 实现
type gormActionRepo struct {
	db *gorm.DB
}

func (r *gormActionRepo) InsertWithOutbox(ctx context.Context, action *model.Action) error {
	// Transactional Outbox: 业务行和消息行要么一起提交要么一起回滚
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(action).Error; err != nil {
			return err
		}
		return model.CreateOutboxMessage(tx, TopicActionCreated, ActionCreatedEvent{
			ShortID:    action.ShortID,
			ActionType: action.ActionType,
		})
	})
}

func (r *gormActionRepo) FindByShortID(ctx context.Context, shortID string) (*model.Action, error) {
	var action model.Action
	if err := r.db.WithContext(ctx).Where("short_id = ?", shortID).First(&action).Error; err != nil {
		return nil, err
	}
	return &action, nil
}
