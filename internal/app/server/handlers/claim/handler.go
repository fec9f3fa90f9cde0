package claim

import "flp/matchd/internal/app/domains/services/svclaim"

// ClaimHandler 抢单 HTTP 处理器
type ClaimHandler struct {
	claimService *svclaim.ClaimService
}

// NewClaimHandler 创建抢单处理器实例
func NewClaimHandler(claimService *svclaim.ClaimService) *ClaimHandler {
	return &ClaimHandler{
		claimService: claimService,
	}
}
