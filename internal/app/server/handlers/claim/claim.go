package claim

import (
	"github.com/gin-gonic/gin"

	"flp/matchd/internal/app/domains/apimodel/request"
	"flp/matchd/internal/app/domains/apimodel/response"
	"flp/matchd/internal/app/pkg/ginx"
)

// Claim 抢单接口
// POST /api/v1/work-items/:id/claim
// ALREADY_CLAIMED / NOT_FOUND 是预期内结果，随 200 返回业务 outcome，
// 调用方据此刷新视图；仅瞬时错误耗尽重试后返回 500
func (h *ClaimHandler) Claim(c *gin.Context) {
	workItemID := c.Param("id")
	if workItemID == "" {
		ginx.BadRequest(c, "work item id is required")
		return
	}

	var req request.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	outcome, err := h.claimService.AttemptClaim(c.Request.Context(), workItemID, req.ProviderID)
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, response.ClaimResponse{
		WorkItemID: workItemID,
		ProviderID: req.ProviderID,
		Outcome:    string(outcome),
	})
}
