package claim

import (
	"github.com/gin-gonic/gin"

	"flp/matchd/internal/app/domains/apimodel/request"
	"flp/matchd/internal/app/domains/apimodel/response"
	"flp/matchd/internal/app/pkg/ginx"
)

// Release 释放接口
// POST /api/v1/work-items/:id/release
// 释放成功后工单回到 OPEN，下一次快照对 Matcher 重新可见
func (h *ClaimHandler) Release(c *gin.Context) {
	workItemID := c.Param("id")
	if workItemID == "" {
		ginx.BadRequest(c, "work item id is required")
		return
	}

	var req request.ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	outcome, err := h.claimService.Release(c.Request.Context(), workItemID, req.ProviderID)
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, response.ReleaseResponse{
		WorkItemID: workItemID,
		ProviderID: req.ProviderID,
		Outcome:    string(outcome),
	})
}
