package model

import (
	"math/big"
	"strings"
	"time"

	"corelinks/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// 动作类型标签。只支持两种固定形态，其他一律 UnsupportedActionType。
const (
	ActionTypeTip     = "tip"
	ActionTypeNftSale = "nft_sale"
)

// Action 动作表
// 一条记录对应一个可分享的支付动作 (打赏 / NFT 定价购买)。
// 创建后不可变：没有 update/delete 路径，short_id 永不复用。
type Action struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ShortID    string `gorm:"type:varchar(16);not null;uniqueIndex" json:"short_id"`
	ActionType string `gorm:"type:varchar(32);not null" json:"action_type"`

	// Tip 变体字段
	RecipientAddress string              `gorm:"type:varchar(64)" json:"recipient_address,omitempty"`
	TipAmountEth     decimal.NullDecimal `gorm:"type:decimal(32,18)" json:"tip_amount_eth,omitempty"`

	// NftSale 变体字段
	ContractAddress string              `gorm:"type:varchar(64)" json:"contract_address,omitempty"`
	TokenID         string              `gorm:"type:varchar(80)" json:"token_id,omitempty"`
	Price           decimal.NullDecimal `gorm:"type:decimal(32,18)" json:"price,omitempty"`

	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 指定表名
func (Action) TableName() string {
	return "actions"
}

// TypedAction 两变体的和类型。所有消费方 (resolver/builder/synthesizer)
// 对它做穷举 switch，而不是各自去摸可选字段。
type TypedAction interface {
	ActionType() string
}

// TipAction 打赏：给定地址转一笔固定金额的原生币
type TipAction struct {
	RecipientAddress string
	AmountNative     decimal.Decimal
	Description      string
}

func (TipAction) ActionType() string { return ActionTypeTip }

// NftSaleAction 定价购买：调用合约的 buy(uint256 tokenId) 并附带价款
type NftSaleAction struct {
	ContractAddress string
	TokenID         *big.Int
	PriceNative     decimal.Decimal
	Description     string
}

func (NftSaleAction) ActionType() string { return ActionTypeNftSale }

// Typed 把存储记录归一化成类型化变体，并做自洽校验。
// 校验规则:
//   - action_type 必须是已知类型，否则 ErrUnsupportedActionType
//   - 对应变体的字段必须齐全，否则 ErrInvalidActionShape
//   - 金额必须为正 (ErrInvalidAmount)，地址必须是合法 hex 地址 (ErrInvalidAddress)
//   - token_id 必须是非负十进制整数 (ErrInvalidTokenID)
func (a *Action) Typed() (TypedAction, error) {
	switch a.ActionType {
	case ActionTypeTip:
		if a.RecipientAddress == "" || !a.TipAmountEth.Valid {
			return nil, errno.ErrInvalidActionShape
		}
		if !common.IsHexAddress(a.RecipientAddress) {
			return nil, errno.ErrInvalidAddress
		}
		if a.TipAmountEth.Decimal.Sign() <= 0 {
			return nil, errno.ErrInvalidAmount
		}
		return TipAction{
			RecipientAddress: a.RecipientAddress,
			AmountNative:     a.TipAmountEth.Decimal,
			Description:      a.Description,
		}, nil

	case ActionTypeNftSale:
		if a.ContractAddress == "" || a.TokenID == "" || !a.Price.Valid {
			return nil, errno.ErrInvalidActionShape
		}
		if !common.IsHexAddress(a.ContractAddress) {
			return nil, errno.ErrInvalidAddress
		}
		tokenID, err := ParseTokenID(a.TokenID)
		if err != nil {
			return nil, err
		}
		if a.Price.Decimal.Sign() <= 0 {
			return nil, errno.ErrInvalidAmount
		}
		return NftSaleAction{
			ContractAddress: a.ContractAddress,
			TokenID:         tokenID,
			PriceNative:     a.Price.Decimal,
			Description:     a.Description,
		}, nil

	default:
		return nil, errno.ErrUnsupportedActionType
	}
}

// ParseTokenID 解析字符串形式的 token id。
// ERC-721 的 id 是 uint256，所以不能用 uint64，统一走 big.Int。
func ParseTokenID(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errno.ErrInvalidTokenID
	}
	// 只接受十进制数字，big.Int SetString 会放过 "+1"/"_" 之类的形式
	for _, c := range s {
		if c < '0' || c > '9' {
			return nil, errno.ErrInvalidTokenID
		}
	}
	id, ok := new(big.Int).SetString(s, 10)
	if !ok || id.Sign() < 0 {
		return nil, errno.ErrInvalidTokenID
	}
	return id, nil
}
