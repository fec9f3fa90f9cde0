package mdclaim

import (
	"context"
	"errors"
	"time"

	"flp/matchd/internal/app/domains/entity/etmatch"
	"flp/matchd/internal/app/domains/repo/rpwork"
	"flp/matchd/internal/app/pkg/errorx"
	"flp/matchd/internal/app/pkg/idgen"
	"flp/matchd/internal/app/pkg/logger"
)

// Config 抢单协调器配置
type Config struct {
	MaxRetries  int           // 瞬时错误最大重试次数
	BaseBackoff time.Duration // 重试退避基数（指数递增）
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:  3,
		BaseBackoff: 100 * time.Millisecond,
	}
}

// ClaimModule 抢单协调器
// 状态 OPEN→CLAIMED 的唯一入口；正确性完全依赖仓储层的原子条件更新，
// 本模块只负责瞬时错误的有界重试与审计日志
type ClaimModule struct {
	workRepo rpwork.WorkItemRepository
	cfg      *Config
	logger   logger.Logger
}

// NewClaimModule 创建抢单协调器
func NewClaimModule(workRepo rpwork.WorkItemRepository, cfg *Config, log logger.Logger) *ClaimModule {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &ClaimModule{
		workRepo: workRepo,
		cfg:      cfg,
		logger:   log,
	}
}

// Claim 抢单
// 超时无响应视为结果不明而非失败：仓储层抢单幂等，默认恢复手段是重试，
// 避免服务商误以为自己未持有实际已抢到的工单
func (m *ClaimModule) Claim(ctx context.Context, workItemID, providerID string) (etmatch.ClaimOutcome, error) {
	attempt := etmatch.ClaimAttempt{
		AttemptID:   idgen.GenerateID(),
		WorkItemID:  workItemID,
		ProviderID:  providerID,
		RequestedAt: time.Now(),
	}

	var outcome etmatch.ClaimOutcome
	err := m.withRetry(ctx, func() error {
		var cerr error
		outcome, cerr = m.workRepo.Claim(ctx, workItemID, providerID)
		return cerr
	})

	if err != nil {
		m.logger.Errorf(ctx, "[Claim] attempt=%d item=%s provider=%s failed: %v",
			attempt.AttemptID, workItemID, providerID, err)
		return "", err
	}

	attempt.Outcome = outcome
	m.logger.Infof(ctx, "[Claim] attempt=%d item=%s provider=%s outcome=%s latency=%v",
		attempt.AttemptID, workItemID, providerID, outcome, time.Since(attempt.RequestedAt))

	return outcome, nil
}

// Release 释放工单
func (m *ClaimModule) Release(ctx context.Context, workItemID, providerID string) (etmatch.ReleaseOutcome, error) {
	start := time.Now()

	var outcome etmatch.ReleaseOutcome
	err := m.withRetry(ctx, func() error {
		var rerr error
		outcome, rerr = m.workRepo.Release(ctx, workItemID, providerID)
		return rerr
	})

	if err != nil {
		m.logger.Errorf(ctx, "[Release] item=%s provider=%s failed: %v", workItemID, providerID, err)
		return "", err
	}

	m.logger.Infof(ctx, "[Release] item=%s provider=%s outcome=%s latency=%v",
		workItemID, providerID, outcome, time.Since(start))

	return outcome, nil
}

// withRetry 有界指数退避重试（抢单与释放共用同一份重试策略）
func (m *ClaimModule) withRetry(ctx context.Context, fn func() error) error {
	for i := 0; ; i++ {
		err := fn()
		if err == nil || !m.retryable(err) || i >= m.cfg.MaxRetries {
			return err
		}
		if !m.backoff(ctx, i) {
			return err
		}
	}
}

// retryable 判断错误是否可重试
// 超时（结果不明）与存储瞬时错误都走幂等重试
func (m *ClaimModule) retryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return errorx.IsRetryable(err)
}

// backoff 按指数退避等待，Context 取消时返回 false
func (m *ClaimModule) backoff(ctx context.Context, attempt int) bool {
	delay := m.cfg.BaseBackoff << uint(attempt)
	select {
	case <-time.After(delay):
		return true
	case <-ctx.Done():
		return false
	}
}
