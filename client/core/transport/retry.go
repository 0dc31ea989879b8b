package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	zaplog "github.com/mwallet/v1/internal/core/infrastructure/log"
	"github.com/mwallet/v1/pkg/interfaces/infrastructure/log"
)

// RetryPolicy 重试策略
type RetryPolicy struct {
	Enabled  bool
	Attempts int           // 总尝试次数
	Backoff  time.Duration // 第 n 次重试前等待 n*Backoff
}

// DefaultRetryPolicy 默认重试策略
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Enabled: true, Attempts: 3, Backoff: 500 * time.Millisecond}
}

func (p RetryPolicy) attempts() int {
	if !p.Enabled || p.Attempts < 1 {
		return 1
	}
	return p.Attempts
}

// RetryCaller 在多个节点之间按优先级故障转移，并对传输错误重试
//
// 仅 *TransportError 会触发重试和切换节点，协议错误直接返回。
type RetryCaller struct {
	callers []Caller
	policy  RetryPolicy
	metrics *Metrics
	logger  log.Logger

	mu      sync.Mutex
	current int
}

// NewRetryCaller 创建故障转移调用器，callers 按优先级排列
func NewRetryCaller(policy RetryPolicy, metrics *Metrics, logger log.Logger, callers ...Caller) (*RetryCaller, error) {
	if len(callers) == 0 {
		return nil, errors.New("no endpoints configured")
	}
	return &RetryCaller{
		callers: callers,
		policy:  policy,
		metrics: metrics,
		logger:  zaplog.NewModuleLogger(logger, "transport"),
	}, nil
}

func (rc *RetryCaller) pick() (int, Caller) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.current, rc.callers[rc.current]
}

// markFailed 当前节点失败后切换到下一个
func (rc *RetryCaller) markFailed(idx int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.current == idx {
		rc.current = (idx + 1) % len(rc.callers)
	}
}

// Call 执行调用，失败时按策略退避重试
func (rc *RetryCaller) Call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	attempts := rc.policy.attempts()
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		idx, caller := rc.pick()
		err := caller.Call(ctx, method, params, result)
		rc.metrics.observe(method, err)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}

		lastErr = err
		rc.markFailed(idx)

		if attempt < attempts-1 {
			rc.metrics.retry(method)
			wait := rc.policy.Backoff * time.Duration(attempt+1)
			rc.logger.Warnf("rpc %s failed (attempt %d/%d), retrying in %s: %v", method, attempt+1, attempts, wait, err)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	if attempts == 1 {
		return lastErr
	}
	return fmt.Errorf("all %d attempts failed: %w", attempts, lastErr)
}
