package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"corelinks/internal/model"
	"corelinks/internal/service"
	"corelinks/internal/service/txbuilder"
	"corelinks/pkg/config"
	"corelinks/pkg/errno"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubActionService 内存版 ActionService
type stubActionService struct {
	rows map[string]*model.Action
}

func (s *stubActionService) Create(ctx context.Context, action *model.Action) (*service.CreateResult, error) {
	if _, err := action.Typed(); err != nil {
		return nil, err
	}
	action.ShortID = "AAAAAAAAAAAA"
	s.rows[action.ShortID] = action
	return &service.CreateResult{
		ID:       1,
		ShortID:  action.ShortID,
		ShortURL: "https://corelinks.example/a/" + action.ActionType + "-" + action.ShortID,
	}, nil
}

func (s *stubActionService) Resolve(ctx context.Context, shortID string) (*model.Action, error) {
	action, ok := s.rows[shortID]
	if !ok {
		return nil, errno.ErrActionNotFound
	}
	return action, nil
}

func testChain() config.ChainConfig {
	return config.ChainConfig{
		ChainID:      1114,
		NativeSymbol: "CORE",
		Decimals:     18,
	}
}

func newTestRouter(actions service.ActionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewActionHandler(actions, nil, txbuilder.NewBuilder(testChain()))

	r := gin.New()
	r.POST("/api/v1/actions", h.Create)
	r.GET("/api/v1/actions/:short_id", h.Resolve)
	r.POST("/api/v1/actions/:short_id/transaction", h.BuildTransaction)
	return r
}

func seededService(t *testing.T) *stubActionService {
	t.Helper()
	svc := &stubActionService{rows: make(map[string]*model.Action)}
	svc.rows["AAAAAAAAAAAA"] = &model.Action{
		ShortID:          "AAAAAAAAAAAA",
		ActionType:       model.ActionTypeTip,
		RecipientAddress: "0x40ceeEdE9fA9ee09e594aFFb63CFc4994aF5B14e",
		TipAmountEth:     decimal.NullDecimal{Decimal: decimal.RequireFromString("1.5"), Valid: true},
	}
	return svc
}

func TestCreateEndpoint(t *testing.T) {
	r := newTestRouter(&stubActionService{rows: make(map[string]*model.Action)})

	body := `{"action_type":"tip","recipient_address":"0x40ceeEdE9fA9ee09e594aFFb63CFc4994aF5B14e","amount":"0.5"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions", bytes.NewBufferString(body))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Code int `json:"code"`
		Data struct {
			ShortURL string `json:"short_url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "https://corelinks.example/a/tip-AAAAAAAAAAAA", resp.Data.ShortURL)
}

func TestCreateEndpointRejectsBadAmount(t *testing.T) {
	r := newTestRouter(&stubActionService{rows: make(map[string]*model.Action)})

	body := `{"action_type":"tip","recipient_address":"0x40ceeEdE9fA9ee09e594aFFb63CFc4994aF5B14e","amount":"not-a-number"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions", bytes.NewBufferString(body))
	r.ServeHTTP(w, req)

	var resp struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errno.ErrInvalidAmount.Code, resp.Code)
}

func TestResolveEndpointETag(t *testing.T) {
	r := newTestRouter(seededService(t))

	// 1. 第一次请求拿 ETag
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/actions/AAAAAAAAAAAA", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag, "不可变资源必须带强 ETag")

	// 2. 带 If-None-Match 再请求 -> 304
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/actions/AAAAAAAAAAAA", nil)
	req2.Header.Set("If-None-Match", etag)
	r.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusNotModified, w2.Code)
}

func TestBuildTransactionEndpoint(t *testing.T) {
	r := newTestRouter(seededService(t))

	body := `{"user_address":"0x1111111111111111111111111111111111111111"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions/AAAAAAAAAAAA/transaction", bytes.NewBufferString(body))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Code int `json:"code"`
		Data struct {
			To    string `json:"to"`
			From  string `json:"from"`
			Value string `json:"value"`
			Data  string `json:"data"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "0x40ceeEdE9fA9ee09e594aFFb63CFc4994aF5B14e", resp.Data.To)
	assert.Equal(t, "1500000000000000000", resp.Data.Value)
	assert.Empty(t, resp.Data.Data, "tip 没有 calldata")
}

func TestBuildTransactionEndpointNotFound(t *testing.T) {
	r := newTestRouter(&stubActionService{rows: make(map[string]*model.Action)})

	body := `{"user_address":"0x1111111111111111111111111111111111111111"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions/ZZZZZZZZZZZZ/transaction", bytes.NewBufferString(body))
	r.ServeHTTP(w, req)

	var resp struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errno.ErrActionNotFound.Code, resp.Code)
}
