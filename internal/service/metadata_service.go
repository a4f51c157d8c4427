package service

import (
	"context"
	"time"

	"corelinks/internal/service/metadata"
	"corelinks/pkg/cache"
)

// metadataCacheTTL NFT 元数据是链下可变数据，缓存时间不宜太长
const metadataCacheTTL = 5 * time.Minute

// MetadataService 解析 + 合成展示元数据，带缓存。
// 合成本身 best-effort 不失败 (见 metadata 包)，这里只会因解析失败报错。
type MetadataService struct {
	actions ActionService
	synth   *metadata.Synthesizer
	cache   cache.Cache
}

func NewMetadataService(actions ActionService, synth *metadata.Synthesizer, c cache.Cache) *MetadataService {
	return &MetadataService{actions: actions, synth: synth, cache: c}
}

// ForShortID 返回某个 short id 的展示元数据
func (s *MetadataService) ForShortID(ctx context.Context, shortID string) (*metadata.DisplayMetadata, error) {
	cacheKey := "metadata:" + shortID

	var cached metadata.DisplayMetadata
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	action, err := s.actions.Resolve(ctx, shortID)
	if err != nil {
		return nil, err
	}
	typed, err := action.Typed()
	if err != nil {
		return nil, err
	}

	meta, err := s.synth.Synthesize(ctx, typed)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, meta, metadataCacheTTL)
	}
	return meta, nil
}
