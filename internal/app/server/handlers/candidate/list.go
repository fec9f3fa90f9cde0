package candidate

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"flp/matchd/internal/app/domains/apimodel/response"
	"flp/matchd/internal/app/domains/entity/etmatch"
	"flp/matchd/internal/app/domains/entity/etwork"
	"flp/matchd/internal/app/pkg/errorx"
	"flp/matchd/internal/app/pkg/ginx"
)

// List 查询服务商可见候选列表接口
// GET /api/v1/providers/:id/candidates?sort=newest&category=CARGO
func (h *CandidateHandler) List(c *gin.Context) {
	providerID := c.Param("id")
	if providerID == "" {
		ginx.BadRequest(c, "provider id is required")
		return
	}

	order := etmatch.ParseSortOrder(c.Query("sort"))

	var categoryFilter etwork.Category
	if raw := c.Query("category"); raw != "" {
		categoryFilter = etwork.Category(raw)
		if !etwork.ValidCategory(categoryFilter) {
			ginx.BadRequest(c, "invalid category filter: "+raw)
			return
		}
	}

	ctx := context.WithValue(c.Request.Context(), "provider_id", providerID)

	candidates, err := h.matchService.GetVisibleCandidates(ctx, providerID, order, categoryFilter)
	if err != nil {
		// 覆盖范围未配置/不可用：显式提示配置，绝不返回静默空列表
		if errors.Is(err, errorx.ErrCoverageNotConfigured) || errors.Is(err, errorx.ErrCoverageUnavailable) {
			ginx.CoverageMissing(c, providerID)
			return
		}
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, response.FromCandidates(candidates))
}
