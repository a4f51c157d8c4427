package metadata

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"corelinks/internal/model"
	"corelinks/pkg/config"
	"corelinks/pkg/errno"
	"corelinks/pkg/logger"
	"corelinks/pkg/monitor"

	"go.uber.org/zap"
)

// DisplayMetadata 展示元数据，纯派生，不落库，也不是权威数据。
type DisplayMetadata struct {
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Label       string `json:"label"`
}

// nftDocument tokenURI 指向的链下 JSON 文档里我们关心的字段
type nftDocument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// TokenURIReader 读取合约上某个 token 的元数据指针 (只读链调用)
type TokenURIReader interface {
	TokenURI(ctx context.Context, contract string, tokenID *big.Int) (string, error)
}

// DocFetcher 拉取并解析一个 JSON 文档
type DocFetcher interface {
	FetchJSON(ctx context.Context, url string, target interface{}) error
}

// Synthesizer 把类型化动作合成为展示元数据。
// NFT 走 best-effort 富化链路：tokenURI 链读 -> ipfs 网关改写 -> JSON 拉取。
// 富化链路上任何一步失败都立即回退到模板文案，错误永不向上抛 —
// 对合法类型的动作，Synthesize 不会失败。
type Synthesizer struct {
	chain   config.ChainConfig
	reader  TokenURIReader
	fetcher DocFetcher
}

func NewSynthesizer(chain config.ChainConfig, reader TokenURIReader, fetcher DocFetcher) *Synthesizer {
	return &Synthesizer{chain: chain, reader: reader, fetcher: fetcher}
}

// Synthesize 生成展示元数据。只有未知动作类型会报错。
func (s *Synthesizer) Synthesize(ctx context.Context, action model.TypedAction) (*DisplayMetadata, error) {
	switch typed := action.(type) {
	case model.TipAction:
		description := typed.Description
		if description == "" {
			description = fmt.Sprintf("You are about to send a %s %s tip.", typed.AmountNative.String(), s.chain.NativeSymbol)
		}
		return &DisplayMetadata{
			Title:       "Send a Tip",
			Icon:        "Zap",
			Description: description,
			Label:       "Send Tip",
		}, nil

	case model.NftSaleAction:
		if meta, err := s.enrichNftSale(ctx, typed); err == nil {
			return meta, nil
		} else {
			// 富化失败只降级，不上抛
			logger.Warn("NFT 元数据富化失败，使用模板文案",
				zap.String("contract", typed.ContractAddress),
				zap.String("token_id", typed.TokenID.String()),
				zap.Error(err))
			if monitor.Business != nil {
				monitor.Business.MetadataFallbackTotal.Inc()
			}
		}
		return s.fallbackNftSale(typed), nil

	default:
		return nil, errno.ErrUnsupportedActionType
	}
}

// enrichNftSale 三步富化: 链上读 tokenURI -> 改写 ipfs:// -> 拉 JSON
func (s *Synthesizer) enrichNftSale(ctx context.Context, sale model.NftSaleAction) (*DisplayMetadata, error) {
	if s.reader == nil || s.fetcher == nil {
		return nil, fmt.Errorf("富化依赖未配置")
	}

	// 1. 从合约读取元数据指针
	uri, err := s.reader.TokenURI(ctx, sale.ContractAddress, sale.TokenID)
	if err != nil {
		return nil, fmt.Errorf("tokenURI 调用失败: %w", err)
	}

	// 2. ipfs:// 链接改写成网关 URL
	url := ResolveIpfsURL(s.chain.IpfsGateway, uri)

	// 3. 拉取并解析 JSON 文档
	var doc nftDocument
	if err := s.fetcher.FetchJSON(ctx, url, &doc); err != nil {
		return nil, fmt.Errorf("元数据文档拉取失败: %w", err)
	}

	meta := s.fallbackNftSale(sale)
	if doc.Name != "" {
		meta.Title = doc.Name
	}
	if doc.Description != "" {
		meta.Description = doc.Description
	}
	if doc.Image != "" {
		meta.Icon = ResolveIpfsURL(s.chain.IpfsGateway, doc.Image)
	}
	return meta, nil
}

// fallbackNftSale 确定性模板文案，只依赖 tokenId 和价格
func (s *Synthesizer) fallbackNftSale(sale model.NftSaleAction) *DisplayMetadata {
	description := sale.Description
	if description == "" {
		description = fmt.Sprintf("You are about to buy NFT #%s for %s %s.",
			sale.TokenID.String(), sale.PriceNative.String(), s.chain.NativeSymbol)
	}
	return &DisplayMetadata{
		Title:       "Buy an NFT",
		Icon:        "Image",
		Description: description,
		Label:       "Buy NFT",
	}
}

// ResolveIpfsURL 把内容寻址链接 (ipfs://...) 改写成可访问的网关 URL。
// 其他 scheme 原样返回。
func ResolveIpfsURL(gateway, url string) string {
	if gateway == "" || !strings.HasPrefix(url, "ipfs://") {
		return url
	}
	return gateway + strings.TrimPrefix(url, "ipfs://")
}
