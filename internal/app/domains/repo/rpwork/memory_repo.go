package rpwork

import (
	"context"
	"sort"
	"sync"

	"flp/matchd/internal/app/domains/entity/etmatch"
	"flp/matchd/internal/app/domains/entity/etwork"
	"flp/matchd/internal/app/pkg/errorx"
)

// MemoryWorkItemRepository 内存工单仓储（本地开发与测试用）
// 与 MySQL 实现遵守同一份条件更新契约：
// 抢单在持锁状态下检查并变更，等价于服务端原子条件更新
type MemoryWorkItemRepository struct {
	mu    sync.Mutex
	items map[string]*etwork.WorkItem
}

// NewMemoryRepository 创建内存工单仓储实例
func NewMemoryRepository() *MemoryWorkItemRepository {
	return &MemoryWorkItemRepository{
		items: make(map[string]*etwork.WorkItem),
	}
}

// Put 写入工单（测试数据准备）
func (r *MemoryWorkItemRepository) Put(item *etwork.WorkItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *item
	r.items[item.ID] = &clone
}

// QueryOpen 查询开放工单
// 内存实现忽略地理信封（召回导向的粗过滤在 MySQL 侧是性能优化），
// 精确匹配同样交给 Matcher
func (r *MemoryWorkItemRepository) QueryOpen(ctx context.Context, categories []etwork.Category, regionCodes, cityNames []string) ([]*etwork.WorkItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	catSet := make(map[etwork.Category]struct{}, len(categories))
	for _, c := range categories {
		catSet[c] = struct{}{}
	}

	result := make([]*etwork.WorkItem, 0)
	for _, item := range r.items {
		if item.Status != etwork.StatusOpen {
			continue
		}
		if len(catSet) > 0 {
			if _, ok := catSet[item.Category]; !ok {
				continue
			}
		}
		clone := *item
		result = append(result, &clone)
	}

	// 确定性顺序：最新优先，同时间按ID
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// GetByID 根据ID查询工单
func (r *MemoryWorkItemRepository) GetByID(ctx context.Context, workItemID string) (*etwork.WorkItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[workItemID]
	if !ok {
		return nil, errorx.ErrWorkItemNotFound
	}
	clone := *item
	return &clone, nil
}

// GetStatus 查询工单状态与认领人
func (r *MemoryWorkItemRepository) GetStatus(ctx context.Context, workItemID string) (*ItemStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[workItemID]
	if !ok {
		return nil, errorx.ErrWorkItemNotFound
	}
	return &ItemStatus{
		Status:     item.Status,
		ClaimOwner: item.ClaimOwner,
	}, nil
}

// Claim 原子抢单（持锁检查并变更）
func (r *MemoryWorkItemRepository) Claim(ctx context.Context, workItemID, providerID string) (etmatch.ClaimOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[workItemID]
	if !ok {
		return etmatch.ClaimNotFound, nil
	}

	switch {
	case item.Status == etwork.StatusOpen:
		item.Status = etwork.StatusClaimed
		item.ClaimOwner = providerID
		return etmatch.ClaimSuccess, nil
	case item.Status == etwork.StatusClaimed && item.ClaimOwner == providerID:
		// 幂等：重复抢单无副作用
		return etmatch.ClaimSuccess, nil
	case item.Status.IsTerminal():
		return etmatch.ClaimNotFound, nil
	default:
		return etmatch.ClaimAlreadyClaimed, nil
	}
}

// Release 释放工单
func (r *MemoryWorkItemRepository) Release(ctx context.Context, workItemID, providerID string) (etmatch.ReleaseOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[workItemID]
	if !ok {
		return etmatch.ReleaseNotFound, nil
	}

	switch {
	case item.Status == etwork.StatusClaimed && item.ClaimOwner == providerID:
		item.Status = etwork.StatusOpen
		item.ClaimOwner = ""
		return etmatch.ReleaseSuccess, nil
	case item.Status == etwork.StatusOpen:
		// 幂等：工单已经回到 OPEN
		return etmatch.ReleaseSuccess, nil
	default:
		return etmatch.ReleaseNotOwner, nil
	}
}
