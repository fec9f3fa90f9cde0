package svclaim

import (
	"context"

	"flp/matchd/internal/app/domains/entity/etmatch"
	"flp/matchd/internal/app/domains/modules/mdclaim"
	"flp/matchd/internal/app/pkg/logger"
)

// ClaimService 抢单服务，负责抢单/释放业务编排
type ClaimService struct {
	claimModule *mdclaim.ClaimModule
	logger      logger.Logger
}

// NewClaimService 创建抢单服务实例
func NewClaimService(claimModule *mdclaim.ClaimModule, log logger.Logger) *ClaimService {
	return &ClaimService{
		claimModule: claimModule,
		logger:      log,
	}
}

// AttemptClaim 尝试抢单
// ALREADY_CLAIMED 是预期内的非异常结果：调用方刷新视图即可，不作为错误上抛
func (s *ClaimService) AttemptClaim(ctx context.Context, workItemID, providerID string) (etmatch.ClaimOutcome, error) {
	ctx = context.WithValue(ctx, "provider_id", providerID)
	ctx = context.WithValue(ctx, "work_item_id", workItemID)

	return s.claimModule.Claim(ctx, workItemID, providerID)
}

// Release 释放工单，重新对 Matcher 可见
func (s *ClaimService) Release(ctx context.Context, workItemID, providerID string) (etmatch.ReleaseOutcome, error) {
	ctx = context.WithValue(ctx, "provider_id", providerID)
	ctx = context.WithValue(ctx, "work_item_id", workItemID)

	return s.claimModule.Release(ctx, workItemID, providerID)
}
