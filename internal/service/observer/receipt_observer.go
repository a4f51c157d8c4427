package observer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"corelinks/internal/service/lifecycle"
	"corelinks/pkg/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// ReceiptObserver 链观察通道：轮询一笔已提交交易的收据，
// 把终局结果 (确认 / revert) 作为生命周期事件回调出去。
// 已提交的交易无法撤回，调用方取消 ctx 只是不再观察。
type ReceiptObserver struct {
	client   *ethclient.Client
	interval time.Duration
}

func NewReceiptObserver(rpcURL string, interval time.Duration) (*ReceiptObserver, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("RPC 连接失败: %w", err)
	}
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &ReceiptObserver{client: client, interval: interval}, nil
}

// Watch 阻塞轮询直到拿到收据或 ctx 取消。
// 拿到收据后恰好回调一次 dispatch：status=1 -> EventConfirmed，status=0 -> EventReverted。
func (o *ReceiptObserver) Watch(ctx context.Context, txHash string, dispatch func(lifecycle.Event)) error {
	hash := common.HexToHash(txHash)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	logger.Info("开始观察交易收据", zap.String("tx_hash", txHash))

	for {
		select {
		case <-ctx.Done():
			logger.Info("收据观察被取消", zap.String("tx_hash", txHash))
			return ctx.Err()
		case <-ticker.C:
			receipt, err := o.client.TransactionReceipt(ctx, hash)
			if errors.Is(err, ethereum.NotFound) {
				continue // 还没上链，下个周期再查
			}
			if err != nil {
				logger.Warn("查询收据失败", zap.String("tx_hash", txHash), zap.Error(err))
				continue
			}

			if receipt.Status == types.ReceiptStatusSuccessful {
				logger.Info("交易已确认",
					zap.String("tx_hash", txHash),
					zap.Uint64("block", receipt.BlockNumber.Uint64()))
				dispatch(lifecycle.Event{Kind: lifecycle.EventConfirmed, TxHash: txHash})
			} else {
				logger.Warn("交易在链上 revert", zap.String("tx_hash", txHash))
				dispatch(lifecycle.Event{
					Kind:   lifecycle.EventReverted,
					TxHash: txHash,
					Err:    errors.New("transaction reverted on chain"),
				})
			}
			return nil
		}
	}
}
