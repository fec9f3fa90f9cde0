package watch

import "flp/matchd/internal/app/domains/services/svwatch"

// WatchHandler 可用性观察 HTTP 处理器
type WatchHandler struct {
	watchService *svwatch.WatchService
}

// NewWatchHandler 创建可用性观察处理器实例
func NewWatchHandler(watchService *svwatch.WatchService) *WatchHandler {
	return &WatchHandler{
		watchService: watchService,
	}
}
