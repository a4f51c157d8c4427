package txbuilder

import (
	"encoding/json"
	"math/big"
	"testing"

	"corelinks/internal/model"
	"corelinks/pkg/config"
	"corelinks/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testChain = config.ChainConfig{
	RpcURL:       "https://rpc.test2.btcs.network",
	ChainID:      1114,
	NativeSymbol: "CORE",
	Decimals:     18,
}

const (
	caller    = "0x40ceeEdE9fA9ee09e594aFFb63CFc4994aF5B14e"
	recipient = "0x407DF19995bBA21E71EC6e6b72FEba70318031Be"
	contract  = "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"
)

func TestToSmallestUnitExact(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.5", "1500000000000000000"},
		{"0.000000000000000001", "1"}, // 1 wei
		{"2", "2000000000000000000"},
		{"1.500000000000000000000", "1500000000000000000"}, // 超长但全零的尾数无损，放行
	}
	for _, c := range cases {
		d := decimal.RequireFromString(c.in)
		got, err := ToSmallestUnit(d, 18)
		require.NoError(t, err, "输入 %s", c.in)
		assert.Equal(t, c.want, got.String(), "输入 %s", c.in)
	}
}

func TestToSmallestUnitRejects(t *testing.T) {
	for _, bad := range []string{
		"1.0000000000000000005", // 19 位小数，超过链精度
		"0",
		"-1",
	} {
		d := decimal.RequireFromString(bad)
		_, err := ToSmallestUnit(d, 18)
		assert.Equal(t, errno.ErrInvalidAmount, err, "输入 %s", bad)
	}
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount(" 1.5 ")
	require.NoError(t, err)
	assert.Equal(t, "1.5", d.String())

	_, err = ParseAmount("1,5")
	assert.Equal(t, errno.ErrInvalidAmount, err)
}

func TestBuildTip(t *testing.T) {
	b := NewBuilder(testChain)
	tip := model.TipAction{
		RecipientAddress: recipient,
		AmountNative:     decimal.RequireFromString("0.5"),
	}

	desc, err := b.Build(tip, caller)
	require.NoError(t, err)

	assert.Equal(t, common.HexToAddress(recipient).Hex(), desc.To)
	assert.Equal(t, common.HexToAddress(caller).Hex(), desc.From)
	assert.Equal(t, "500000000000000000", desc.Value)
	assert.Empty(t, desc.Data, "tip 不应携带 calldata")
}

func TestBuildNftSale(t *testing.T) {
	b := NewBuilder(testChain)
	sale := model.NftSaleAction{
		ContractAddress: contract,
		TokenID:         big.NewInt(42),
		PriceNative:     decimal.RequireFromString("1.5"),
	}

	desc, err := b.Build(sale, caller)
	require.NoError(t, err)

	assert.Equal(t, common.HexToAddress(contract).Hex(), desc.To)
	assert.Equal(t, "1500000000000000000", desc.Value)

	// calldata = selector(buy(uint256)) + 左填充 32 字节的 tokenId
	data := common.FromHex(desc.Data)
	require.Len(t, data, 4+32)
	selector := crypto.Keccak256([]byte("buy(uint256)"))[:4]
	assert.Equal(t, selector, data[:4])
	assert.Equal(t, big.NewInt(42), new(big.Int).SetBytes(data[4:]))
}

func TestBuildDeterministic(t *testing.T) {
	b := NewBuilder(testChain)
	sale := model.NftSaleAction{
		ContractAddress: contract,
		TokenID:         big.NewInt(7),
		PriceNative:     decimal.RequireFromString("0.25"),
	}

	first, err := b.Build(sale, caller)
	require.NoError(t, err)
	second, err := b.Build(sale, caller)
	require.NoError(t, err)

	j1, _ := json.Marshal(first)
	j2, _ := json.Marshal(second)
	assert.Equal(t, j1, j2, "同样输入两次构建应当字节级一致")

	// 大小写不同的地址输入也要归一化到同一产物
	third, err := b.Build(sale, common.HexToAddress(caller).Hex())
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestBuildInvalidInputs(t *testing.T) {
	b := NewBuilder(testChain)
	tip := model.TipAction{
		RecipientAddress: recipient,
		AmountNative:     decimal.RequireFromString("0.5"),
	}

	_, err := b.Build(tip, "not-an-address")
	assert.Equal(t, errno.ErrInvalidAddress, err)

	tip.RecipientAddress = "0x123"
	_, err = b.Build(tip, caller)
	assert.Equal(t, errno.ErrInvalidAddress, err)

	sale := model.NftSaleAction{
		ContractAddress: contract,
		TokenID:         big.NewInt(1),
		PriceNative:     decimal.RequireFromString("1.0000000000000000005"),
	}
	_, err = b.Build(sale, caller)
	assert.Equal(t, errno.ErrInvalidAmount, err)
}
