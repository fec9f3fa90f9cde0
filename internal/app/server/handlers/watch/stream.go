package watch

import (
	"io"

	"github.com/gin-gonic/gin"

	"flp/matchd/internal/app/pkg/ginx"
)

// Stream 可用性事件流接口（SSE）
// GET /api/v1/work-items/:id/availability?provider_id=xxx
// 连接期间以递增退避轮询工单状态；观察到终态事件后流自然结束
func (h *WatchHandler) Stream(c *gin.Context) {
	workItemID := c.Param("id")
	if workItemID == "" {
		ginx.BadRequest(c, "work item id is required")
		return
	}
	providerID := c.Query("provider_id")

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	events := h.watchService.Watch(c.Request.Context(), workItemID, providerID)

	c.Stream(func(w io.Writer) bool {
		event, ok := <-events
		if !ok {
			return false
		}
		c.SSEvent("availability", event)
		return true
	})
}
