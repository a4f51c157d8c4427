package request

// CreateActionRequest 创建动作请求参数。
// 金额用字符串传输：JSON number 过 float64 会丢精度，链上金额丢不起。
type CreateActionRequest struct {
	ActionType  string `json:"action_type" binding:"required,oneof=tip nft_sale"`
	Description string `json:"description" binding:"max=500"`

	// tip 变体字段
	RecipientAddress string `json:"recipient_address"`
	Amount           string `json:"amount"`

	// nft_sale 变体字段
	ContractAddress string `json:"contract_address"`
	TokenID         string `json:"token_id"`
	Price           string `json:"price"`
}

// BuildTransactionRequest 构造交易描述请求参数
type BuildTransactionRequest struct {
	UserAddress string `json:"user_address" binding:"required"`
}
