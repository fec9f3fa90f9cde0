package rpcoverage

import (
	"context"

	"flp/matchd/internal/app/domains/entity/etcoverage"
)

// CoverageRepository 覆盖范围仓储接口（只读）
// 数据由外部配置子系统维护，本服务按快照读取
type CoverageRepository interface {
	// GetProviderCoverage 读取服务商覆盖范围快照
	// 无任何区域配置时返回 Empty() 为 true 的快照（上游显式提示配置），
	// 存储不可用时返回 errorx.ErrCoverageUnavailable
	GetProviderCoverage(ctx context.Context, providerID string) (*etcoverage.Coverage, error)
}
