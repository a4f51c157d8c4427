package handler

import (
	"encoding/json"
	"net/http"

	"corelinks/internal/handler/request"
	"corelinks/internal/handler/response"
	"corelinks/internal/model"
	"corelinks/internal/service"
	"corelinks/internal/service/txbuilder"
	"corelinks/pkg/crypto_util"
	"corelinks/pkg/errno"
	"corelinks/pkg/monitor"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ActionHandler 动作相关的 HTTP 入口
type ActionHandler struct {
	actions  service.ActionService
	metadata *service.MetadataService
	builder  *txbuilder.Builder
}

func NewActionHandler(actions service.ActionService, metadata *service.MetadataService, builder *txbuilder.Builder) *ActionHandler {
	return &ActionHandler{
		actions:  actions,
		metadata: metadata,
		builder:  builder,
	}
}

// Create 创建支付动作短链
// @Summary 创建支付动作
// @Description 创建 tip 或 nft_sale 动作并返回可分享的短链接
// @Tags Actions
// @Accept json
// @Produce json
// @Param request body request.CreateActionRequest true "Action Definition"
// @Success 200 {object} response.Response
// @Router /api/v1/actions [post]
func (h *ActionHandler) Create(c *gin.Context) {
	// 1. 绑定参数
	var req request.CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}

	// 2. 请求 -> Model (金额字符串在这里解析，精度错误此处报出)
	action, err := toActionModel(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 调用 Service (变体校验 + 分配 short_id + 事务落库)
	result, err := h.actions.Create(c.Request.Context(), action)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Resolve 解析短链
// @Summary 解析支付动作
// @Description 按 short_id 查回完整动作定义
// @Tags Actions
// @Produce json
// @Param short_id path string true "Short ID"
// @Success 200 {object} response.Response
// @Router /api/v1/actions/{short_id} [get]
func (h *ActionHandler) Resolve(c *gin.Context) {
	action, err := h.actions.Resolve(c.Request.Context(), c.Param("short_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	// 动作不可变，给强 ETag 让客户端直接走 304
	body := toActionView(action)
	if payload, err := json.Marshal(body); err == nil {
		etag := `"` + crypto_util.CalculateBlake3(payload) + `"`
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
	}

	response.Success(c, body)
}

// Metadata 展示元数据
// @Summary 获取展示元数据
// @Description 返回动作的标题/图标/描述，NFT 动作会尝试链上富化
// @Tags Actions
// @Produce json
// @Param short_id path string true "Short ID"
// @Success 200 {object} response.Response
// @Router /api/v1/actions/{short_id}/metadata [get]
func (h *ActionHandler) Metadata(c *gin.Context) {
	meta, err := h.metadata.ForShortID(c.Request.Context(), c.Param("short_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, meta)
}

// BuildTransaction 构造未签名交易描述
// @Summary 构造交易描述
// @Description 按调用方地址把动作转成可交给钱包签名的交易描述
// @Tags Actions
// @Accept json
// @Produce json
// @Param short_id path string true "Short ID"
// @Param request body request.BuildTransactionRequest true "Caller"
// @Success 200 {object} response.Response
// @Router /api/v1/actions/{short_id}/transaction [post]
func (h *ActionHandler) BuildTransaction(c *gin.Context) {
	// 1. 绑定参数
	var req request.BuildTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}

	// 2. 解析动作
	action, err := h.actions.Resolve(c.Request.Context(), c.Param("short_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	typed, err := action.Typed()
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 构造描述 (纯计算，确定性产物)
	descriptor, err := h.builder.Build(typed, req.UserAddress)
	if err != nil {
		response.Error(c, err)
		return
	}

	if monitor.Business != nil {
		monitor.Business.DescriptorsBuiltTotal.WithLabelValues(action.ActionType).Inc()
	}
	response.Success(c, descriptor)
}

// ActionView 对外返回的动作视图 (不暴露数据库自增 ID 之外的内部细节)
type ActionView struct {
	ShortID          string `json:"short_id"`
	ActionType       string `json:"action_type"`
	Description      string `json:"description,omitempty"`
	RecipientAddress string `json:"recipient_address,omitempty"`
	Amount           string `json:"amount,omitempty"`
	ContractAddress  string `json:"contract_address,omitempty"`
	TokenID          string `json:"token_id,omitempty"`
	Price            string `json:"price,omitempty"`
}

func toActionView(a *model.Action) *ActionView {
	view := &ActionView{
		ShortID:     a.ShortID,
		ActionType:  a.ActionType,
		Description: a.Description,
	}
	switch a.ActionType {
	case model.ActionTypeTip:
		view.RecipientAddress = a.RecipientAddress
		if a.TipAmountEth.Valid {
			view.Amount = a.TipAmountEth.Decimal.String()
		}
	case model.ActionTypeNftSale:
		view.ContractAddress = a.ContractAddress
		view.TokenID = a.TokenID
		if a.Price.Valid {
			view.Price = a.Price.Decimal.String()
		}
	}
	return view
}

func toActionModel(req *request.CreateActionRequest) (*model.Action, error) {
	action := &model.Action{
		ActionType:  req.ActionType,
		Description: req.Description,
	}
	switch req.ActionType {
	case model.ActionTypeTip:
		amount, err := txbuilder.ParseAmount(req.Amount)
		if err != nil {
			return nil, err
		}
		action.RecipientAddress = req.RecipientAddress
		action.TipAmountEth = decimal.NullDecimal{Decimal: amount, Valid: true}
	case model.ActionTypeNftSale:
		price, err := txbuilder.ParseAmount(req.Price)
		if err != nil {
			return nil, err
		}
		action.ContractAddress = req.ContractAddress
		action.TokenID = req.TokenID
		action.Price = decimal.NullDecimal{Decimal: price, Valid: true}
	default:
		return nil, errno.ErrUnsupportedActionType
	}
	return action, nil
}
