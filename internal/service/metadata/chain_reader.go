package metadata

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"corelinks/pkg/errno"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ERC-721 元数据扩展里我们唯一需要的方法
var erc721ABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(`[{"name":"tokenURI","type":"function","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]}]`))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// RPCTokenReader 通过公共 RPC 节点做只读 eth_call
type RPCTokenReader struct {
	client *ethclient.Client
}

func NewRPCTokenReader(rpcURL string) (*RPCTokenReader, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("RPC 连接失败: %w", err)
	}
	return &RPCTokenReader{client: client}, nil
}

// TokenURI 调用合约的 tokenURI(uint256) 读取元数据指针
func (r *RPCTokenReader) TokenURI(ctx context.Context, contract string, tokenID *big.Int) (string, error) {
	if !common.IsHexAddress(contract) {
		return "", errno.ErrInvalidAddress
	}

	calldata, err := erc721ABI.Pack("tokenURI", tokenID)
	if err != nil {
		return "", err
	}

	to := common.HexToAddress(contract)
	out, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: calldata}, nil)
	if err != nil {
		return "", fmt.Errorf("eth_call 失败: %w", err)
	}

	values, err := erc721ABI.Unpack("tokenURI", out)
	if err != nil {
		return "", fmt.Errorf("tokenURI 返回值解码失败: %w", err)
	}
	uri, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("tokenURI 返回值不是字符串")
	}
	return uri, nil
}
