package service

import (
	"context"
	"strings"
	"testing"

	"corelinks/internal/model"
	"corelinks/pkg/errno"
	"corelinks/pkg/shortid"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRepo 内存版 ActionRepo，模拟 unique 约束
type fakeRepo struct {
	rows        map[string]model.Action
	outbox      []string
	failInserts int // 前 N 次插入强制返回唯一索引冲突
	nextID      uint64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]model.Action)}
}

func (r *fakeRepo) InsertWithOutbox(ctx context.Context, action *model.Action) error {
	if r.failInserts > 0 {
		r.failInserts--
		return gorm.ErrDuplicatedKey
	}
	if _, exists := r.rows[action.ShortID]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	action.ID = r.nextID
	r.rows[action.ShortID] = *action
	r.outbox = append(r.outbox, TopicActionCreated)
	return nil
}

func (r *fakeRepo) FindByShortID(ctx context.Context, shortID string) (*model.Action, error) {
	row, ok := r.rows[shortID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func tipAction() *model.Action {
	return &model.Action{
		ActionType:       model.ActionTypeTip,
		RecipientAddress: "0x40ceeEdE9fA9ee09e594aFFb63CFc4994aF5B14e",
		TipAmountEth:     nd("0.5"),
		Description:      "coffee money",
	}
}

func TestCreateAssignsShortIDAndURL(t *testing.T) {
	repo := newFakeRepo()
	svc := NewActionServiceWithRepo(repo, nil, "https://corelinks.example")

	result, err := svc.Create(context.Background(), tipAction())
	require.NoError(t, err)

	assert.True(t, shortid.IsValid(result.ShortID), "short id 必须符合生成规则: %q", result.ShortID)
	assert.Equal(t, "https://corelinks.example/a/tip-"+result.ShortID, result.ShortURL)
	assert.NotZero(t, result.ID)
	assert.Len(t, repo.outbox, 1, "创建必须连带写 outbox 消息")
}

func TestCreateRetriesOnCollision(t *testing.T) {
	repo := newFakeRepo()
	repo.failInserts = 2 // 前两次撞号
	svc := NewActionServiceWithRepo(repo, nil, "https://corelinks.example")

	result, err := svc.Create(context.Background(), tipAction())
	require.NoError(t, err, "撞号应当重试而不是把错误抛给调用方")
	assert.True(t, shortid.IsValid(result.ShortID))
}

func TestCreateGivesUpAfterMaxAttempts(t *testing.T) {
	repo := newFakeRepo()
	repo.failInserts = maxShortIDAttempts
	svc := NewActionServiceWithRepo(repo, nil, "https://corelinks.example")

	_, err := svc.Create(context.Background(), tipAction())
	assert.Equal(t, errno.ErrShortIDExhausted, err)
}

func TestCreateRejectsInvalidShape(t *testing.T) {
	repo := newFakeRepo()
	svc := NewActionServiceWithRepo(repo, nil, "https://corelinks.example")

	// nft_sale 却带着 tip 的字段
	bad := tipAction()
	bad.ActionType = model.ActionTypeNftSale
	_, err := svc.Create(context.Background(), bad)
	assert.Equal(t, errno.ErrInvalidActionShape, err)
	assert.Empty(t, repo.rows, "非法动作不能落库")

	unknown := tipAction()
	unknown.ActionType = "airdrop"
	_, err = svc.Create(context.Background(), unknown)
	assert.Equal(t, errno.ErrUnsupportedActionType, err)
}

func TestResolveRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	svc := NewActionServiceWithRepo(repo, nil, "https://corelinks.example")

	original := tipAction()
	result, err := svc.Create(context.Background(), original)
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), result.ShortID)
	require.NoError(t, err)

	// 变体相关字段全部等值往返
	assert.Equal(t, original.ActionType, resolved.ActionType)
	assert.Equal(t, original.RecipientAddress, resolved.RecipientAddress)
	assert.True(t, original.TipAmountEth.Decimal.Equal(resolved.TipAmountEth.Decimal))
	assert.Equal(t, original.Description, resolved.Description)
}

func TestResolveNotFound(t *testing.T) {
	svc := NewActionServiceWithRepo(newFakeRepo(), nil, "https://corelinks.example")

	_, err := svc.Resolve(context.Background(), "AAAAAAAAAAAA")
	assert.Equal(t, errno.ErrActionNotFound, err)

	// 明显非法的输入不查库，直接 NotFound
	_, err = svc.Resolve(context.Background(), "../etc/passwd")
	assert.Equal(t, errno.ErrActionNotFound, err)
}

func TestResolveUnsupportedStoredType(t *testing.T) {
	repo := newFakeRepo()
	svc := NewActionServiceWithRepo(repo, nil, "https://corelinks.example")

	// 直接塞一条带未知类型的存储记录 (绕过创建校验)
	id := strings.Repeat("z", shortid.Length)
	repo.rows[id] = model.Action{ShortID: id, ActionType: "airdrop"}

	_, err := svc.Resolve(context.Background(), id)
	assert.Equal(t, errno.ErrUnsupportedActionType, err, "未知类型必须显式报错，不能降级")
}
