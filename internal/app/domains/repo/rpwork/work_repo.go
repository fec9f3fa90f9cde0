package rpwork

import (
	"context"

	"flp/matchd/internal/app/domains/entity/etmatch"
	"flp/matchd/internal/app/domains/entity/etwork"
)

// ItemStatus 工单状态快照（Watcher 轮询用）
type ItemStatus struct {
	Status     etwork.Status
	ClaimOwner string
}

// WorkItemRepository 工单仓储接口（只定义，不实现）
// 实现在同包 work_repo_impl.go（MySQL）；状态和认领人只能经由本接口变更
type WorkItemRepository interface {
	// QueryOpen 查询开放工单
	// categories / regionCodes / cityNames 是召回导向的粗过滤信封，
	// 必须是 Matcher 可命中集合的超集：行政区缺失或填错的行依靠
	// 城市名信封保留在结果中，交给 Matcher 的城市名兜底层级
	QueryOpen(ctx context.Context, categories []etwork.Category, regionCodes, cityNames []string) ([]*etwork.WorkItem, error)

	// GetByID 根据ID查询工单
	GetByID(ctx context.Context, workItemID string) (*etwork.WorkItem, error)

	// GetStatus 查询工单状态与认领人（轻量查询，Watcher 轮询用）
	GetStatus(ctx context.Context, workItemID string) (*ItemStatus, error)

	// Claim 原子抢单：单条服务端条件更新
	// "SET status=CLAIMED, claim_owner=? WHERE id=? AND status=OPEN"
	// 绝不允许实现为客户端先读后写
	Claim(ctx context.Context, workItemID, providerID string) (etmatch.ClaimOutcome, error)

	// Release 释放工单：条件更新要求 claim_owner 等于调用方
	// 成功后工单回到 OPEN，下一次快照对 Matcher 重新可见
	Release(ctx context.Context, workItemID, providerID string) (etmatch.ReleaseOutcome, error)
}
