package service

import (
	"context"

	"corelinks/internal/model"
)

// CreateResult 创建动作后返回给调用方的定位信息
type CreateResult struct {
	ID       uint64 `json:"id"`
	ShortID  string `json:"short_id"`
	ShortURL string `json:"short_url"`
}

// ActionService 动作的创建与解析。
// 动作创建后不可变，因此 Resolve 幂等且可安全并发调用。
type ActionService interface {
	// Create 校验动作、分配 short id 并持久化，返回短链接信息
	Create(ctx context.Context, action *model.Action) (*CreateResult, error)

	// Resolve 按 short id 查回完整动作定义，并做变体自洽校验
	Resolve(ctx context.Context, shortID string) (*model.Action, error)
}

// ActionRepo 动作存储的读写契约 (外部协作者: 关系型存储)。
// InsertWithOutbox 要求: short_id 冲突必须以可识别的错误返回，
// 且业务行和 outbox 消息在同一个事务里落库。
type ActionRepo interface {
	InsertWithOutbox(ctx context.Context, action *model.Action) error
	FindByShortID(ctx context.Context, shortID string) (*model.Action, error)
}
