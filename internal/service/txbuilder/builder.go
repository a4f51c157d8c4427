package txbuilder

import (
	"math/big"
	"strings"

	"corelinks/internal/model"
	"corelinks/pkg/config"
	"corelinks/pkg/errno"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Descriptor 未签名交易描述。只描述要发什么，签名和广播交给用户钱包。
// 每次执行现算现用，不落库。
type Descriptor struct {
	To    string `json:"to"`
	From  string `json:"from"`
	Value string `json:"value"`          // 最小单位整数 (wei)，十进制字符串
	Data  string `json:"data,omitempty"` // 0x 开头的 calldata，tip 没有
}

// 目标合约假定暴露 buy(uint256 tokenId) payable 购买入口。
// 这是对外部合约的硬性假设，builder 不做链上验证。
var nftSaleABI = mustParseABI(`[{"name":"buy","type":"function","stateMutability":"payable","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]}]`)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Builder 把类型化动作 + 调用方地址确定性地转成交易描述。
// 无副作用，纯函数，链参数显式传入。
type Builder struct {
	chain config.ChainConfig
}

func NewBuilder(chain config.ChainConfig) *Builder {
	return &Builder{chain: chain}
}

// Build 构造交易描述
//   - Tip:     to = 收款地址, value = 金额转 wei, 无 data
//   - NftSale: to = 合约地址, value = 价格转 wei, data = buy(tokenId)
//
// 同样的输入调用多少次，产物字节级一致。
func (b *Builder) Build(action model.TypedAction, caller string) (*Descriptor, error) {
	if !common.IsHexAddress(caller) {
		return nil, errno.ErrInvalidAddress
	}
	from := common.HexToAddress(caller).Hex()

	switch typed := action.(type) {
	case model.TipAction:
		if !common.IsHexAddress(typed.RecipientAddress) {
			return nil, errno.ErrInvalidAddress
		}
		value, err := ToSmallestUnit(typed.AmountNative, b.chain.Decimals)
		if err != nil {
			return nil, err
		}
		return &Descriptor{
			To:    common.HexToAddress(typed.RecipientAddress).Hex(),
			From:  from,
			Value: value.String(),
		}, nil

	case model.NftSaleAction:
		if !common.IsHexAddress(typed.ContractAddress) {
			return nil, errno.ErrInvalidAddress
		}
		value, err := ToSmallestUnit(typed.PriceNative, b.chain.Decimals)
		if err != nil {
			return nil, err
		}
		calldata, err := nftSaleABI.Pack("buy", typed.TokenID)
		if err != nil {
			return nil, errno.ErrInvalidTokenID
		}
		return &Descriptor{
			To:    common.HexToAddress(typed.ContractAddress).Hex(),
			From:  from,
			Value: value.String(),
			Data:  "0x" + common.Bytes2Hex(calldata),
		}, nil

	default:
		return nil, errno.ErrUnsupportedActionType
	}
}

// ToSmallestUnit 十进制金额字符串 -> 链最小单位整数，要求无损。
// 小数位数超过链精度 (例如 18 位链上给 19 位小数) 直接拒绝，不做四舍五入。
func ToSmallestUnit(amount decimal.Decimal, decimals int32) (*big.Int, error) {
	if amount.Sign() <= 0 {
		return nil, errno.ErrInvalidAmount
	}
	shifted := amount.Shift(decimals)
	if !shifted.IsInteger() {
		return nil, errno.ErrInvalidAmount
	}
	return shifted.BigInt(), nil
}

// ParseAmount 解析用户输入的金额字符串。
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, errno.ErrInvalidAmount
	}
	return d, nil
}
