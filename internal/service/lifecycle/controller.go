package lifecycle

import (
	"strings"
	"sync"

	"corelinks/internal/service/txbuilder"
)

// State 一次页面访问内的执行状态
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateConfirming
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateConfirming:
		return "confirming"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EventKind 钱包/链观察通道送进来的离散事件
type EventKind int

const (
	EventSubmitHash     EventKind = iota // 钱包返回了交易哈希
	EventSubmitRejected                  // 提交被拒 (用户取消/余额不足/Provider 错误)
	EventConfirmed                       // 链上确认 (收据 status=1)
	EventReverted                        // 链上 revert (收据 status=0)
)

// Event 单条生命周期事件
type Event struct {
	Kind   EventKind
	TxHash string
	Err    error
}

// BuildFunc 在触发时现构建交易描述。构建失败视为前置条件不满足。
type BuildFunc func(caller string) (*txbuilder.Descriptor, error)

// Controller 执行生命周期状态机。
// 转移表:
//
//	Idle -> Submitting            Trigger (需要已连接地址 + 可构建的描述)
//	Submitting -> Confirming      EventSubmitHash
//	Submitting -> Failed          EventSubmitRejected
//	Confirming -> Confirmed       EventConfirmed
//	Confirming -> Failed          EventReverted
//
// 其余事件/状态组合一律忽略：哈希到达前收到确认是 no-op，
// Confirming/Confirmed 之后再触发也是 no-op (每次页面访问至多一笔在途交易)。
// 进入 Confirmed 只能由显式确认事件驱动，绝不乐观推进。
type Controller struct {
	mu         sync.Mutex
	state      State
	txHash     string
	failReason string
	build      BuildFunc
	descriptor *txbuilder.Descriptor
}

func NewController(build BuildFunc) *Controller {
	return &Controller{state: StateIdle, build: build}
}

// Trigger 用户显式发起执行。
// 返回要交给钱包签名的描述；前置条件不满足时返回 (nil, false) 且状态不变。
func (c *Controller) Trigger(caller string) (*txbuilder.Descriptor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 前置条件: 状态必须是 Idle，有连接地址，能构建出描述
	if c.state != StateIdle || caller == "" || c.build == nil {
		return nil, false
	}
	desc, err := c.build(caller)
	if err != nil || desc == nil {
		return nil, false
	}

	c.descriptor = desc
	c.state = StateSubmitting
	return desc, true
}

// Dispatch 喂入一条钱包/链观察事件，非法组合静默忽略。
// 事件到达顺序不保证，甚至可能缺失 (钱包在产生哈希前就拒绝)。
func (c *Controller) Dispatch(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Kind {
	case EventSubmitHash:
		if c.state == StateSubmitting {
			c.txHash = ev.TxHash
			c.state = StateConfirming
		}
	case EventSubmitRejected:
		if c.state == StateSubmitting {
			c.fail(ev)
		}
	case EventConfirmed:
		if c.state == StateConfirming {
			c.state = StateConfirmed
		}
	case EventReverted:
		if c.state == StateSubmitting || c.state == StateConfirming {
			c.fail(ev)
		}
	}
}

// fail 必须在持锁状态下调用
func (c *Controller) fail(ev Event) {
	c.state = StateFailed
	c.failReason = FirstLine(ev.Err)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) TxHash() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.txHash
}

// FailReason 终态 Failed 的用户可读原因
func (c *Controller) FailReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failReason
}

// Descriptor 返回本次执行构建出的描述 (未触发时为 nil)
func (c *Controller) Descriptor() *txbuilder.Descriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.descriptor
}

// FirstLine 取底层错误的第一行作为展示原因。
// Provider 错误往往带一大段堆栈，只有第一行适合给用户看。
func FirstLine(err error) string {
	if err == nil {
		return "transaction failed"
	}
	line, _, _ := strings.Cut(err.Error(), "\n")
	return strings.TrimSpace(line)
}
