package rpwork

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"flp/matchd/internal/app/domains/entity/etmatch"
	"flp/matchd/internal/app/domains/entity/etwork"
	"flp/matchd/internal/app/pkg/errorx"
	"flp/matchd/internal/common/entity"
)

// WorkItemRepositoryImpl 工单仓储实现（MySQL）
type WorkItemRepositoryImpl struct {
	db *gorm.DB
}

// NewWorkItemRepository 创建工单仓储实例
func NewWorkItemRepository(db *gorm.DB) WorkItemRepository {
	return &WorkItemRepositoryImpl{db: db}
}

// QueryOpen 查询开放工单
// 地理信封只做粗过滤，必须是 Matcher 可命中集合的超集：行政区命中、
// 城市名命中、任一行政区为空、或存在自由文本地址的行都会被召回。
// 行政区填错但城市名在覆盖范围内的行依靠城市名信封召回，否则
// 城市名兜底层级在存储侧就被截断了。精确的三层匹配在 Matcher 内完成
func (r *WorkItemRepositoryImpl) QueryOpen(ctx context.Context, categories []etwork.Category, regionCodes, cityNames []string) ([]*etwork.WorkItem, error) {
	query := r.db.WithContext(ctx).
		Model(&entity.WorkItem{}).
		Where("status = ?", entity.WorkItemStatusOpen)

	if len(categories) > 0 {
		cats := make([]string, 0, len(categories))
		for _, c := range categories {
			cats = append(cats, string(c))
		}
		query = query.Where("category IN ?", cats)
	}

	geoConds := make([]string, 0, 7)
	geoArgs := make([]interface{}, 0, 4)
	if len(regionCodes) > 0 {
		// 信封中的行政区代码是归一化小写，存储侧为大写缩写
		codes := make([]string, 0, len(regionCodes))
		for _, code := range regionCodes {
			codes = append(codes, strings.ToUpper(code))
		}
		geoConds = append(geoConds, "origin_region IN ?", "dest_region IN ?")
		geoArgs = append(geoArgs, codes, codes)
	}
	if len(cityNames) > 0 {
		// 城市名比较依赖 MySQL 大小写/重音不敏感排序规则（utf8mb4 *_ai_ci）
		// 误召回由 Matcher 的归一化精确匹配过滤
		geoConds = append(geoConds, "origin_city IN ?", "dest_city IN ?")
		geoArgs = append(geoArgs, cityNames, cityNames)
	}
	geoConds = append(geoConds, "origin_region = ''", "dest_region = ''", "raw_address <> ''")
	query = query.Where(strings.Join(geoConds, " OR "), geoArgs...)

	var pos []entity.WorkItem
	if err := query.Order("created_at DESC").Find(&pos).Error; err != nil {
		return nil, errorx.TransientWithDetails("query open work items failed", err.Error())
	}

	items := make([]*etwork.WorkItem, 0, len(pos))
	for i := range pos {
		items = append(items, toDomainModel(&pos[i]))
	}

	return items, nil
}

// GetByID 根据ID查询工单
func (r *WorkItemRepositoryImpl) GetByID(ctx context.Context, workItemID string) (*etwork.WorkItem, error) {
	var po entity.WorkItem
	err := r.db.WithContext(ctx).Where("id = ?", workItemID).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.ErrWorkItemNotFound
		}
		return nil, errorx.TransientWithDetails("get work item failed", err.Error())
	}
	return toDomainModel(&po), nil
}

// GetStatus 查询工单状态与认领人
func (r *WorkItemRepositoryImpl) GetStatus(ctx context.Context, workItemID string) (*ItemStatus, error) {
	var po entity.WorkItem
	err := r.db.WithContext(ctx).
		Select("status", "claim_owner").
		Where("id = ?", workItemID).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.ErrWorkItemNotFound
		}
		return nil, errorx.TransientWithDetails("get work item status failed", err.Error())
	}

	status := &ItemStatus{Status: etwork.Status(po.Status)}
	if po.ClaimOwner != nil {
		status.ClaimOwner = *po.ClaimOwner
	}
	return status, nil
}

// Claim 原子抢单
// 正确性完全由服务端条件更新保证：零行受影响是预期内结果，
// 读行仅用于区分 NOT_FOUND / 幂等 SUCCESS / ALREADY_CLAIMED
func (r *WorkItemRepositoryImpl) Claim(ctx context.Context, workItemID, providerID string) (etmatch.ClaimOutcome, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.WorkItem{}).
		Where("id = ? AND status = ?", workItemID, entity.WorkItemStatusOpen).
		Updates(map[string]interface{}{
			"status":      entity.WorkItemStatusClaimed,
			"claim_owner": providerID,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return "", errorx.TransientWithDetails("claim update failed", result.Error.Error())
	}

	if result.RowsAffected == 1 {
		return etmatch.ClaimSuccess, nil
	}

	// 零行受影响：读行区分具体结果
	var po entity.WorkItem
	err := r.db.WithContext(ctx).
		Select("status", "claim_owner").
		Where("id = ?", workItemID).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return etmatch.ClaimNotFound, nil
		}
		return "", errorx.TransientWithDetails("claim post-check failed", err.Error())
	}

	// 幂等：已被调用方本人持有，重复抢单返回 SUCCESS 且无副作用
	if po.Status == entity.WorkItemStatusClaimed && po.ClaimOwner != nil && *po.ClaimOwner == providerID {
		return etmatch.ClaimSuccess, nil
	}

	// 已撤回/过期的工单视为不存在
	if etwork.Status(po.Status).IsTerminal() {
		return etmatch.ClaimNotFound, nil
	}

	return etmatch.ClaimAlreadyClaimed, nil
}

// Release 释放工单
func (r *WorkItemRepositoryImpl) Release(ctx context.Context, workItemID, providerID string) (etmatch.ReleaseOutcome, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.WorkItem{}).
		Where("id = ? AND status = ? AND claim_owner = ?", workItemID, entity.WorkItemStatusClaimed, providerID).
		Updates(map[string]interface{}{
			"status":      entity.WorkItemStatusOpen,
			"claim_owner": nil,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return "", errorx.TransientWithDetails("release update failed", result.Error.Error())
	}

	if result.RowsAffected == 1 {
		return etmatch.ReleaseSuccess, nil
	}

	var po entity.WorkItem
	err := r.db.WithContext(ctx).
		Select("status", "claim_owner").
		Where("id = ?", workItemID).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return etmatch.ReleaseNotFound, nil
		}
		return "", errorx.TransientWithDetails("release post-check failed", err.Error())
	}

	// 幂等：工单已经回到 OPEN，重复释放视为成功
	if po.Status == entity.WorkItemStatusOpen {
		return etmatch.ReleaseSuccess, nil
	}

	return etmatch.ReleaseNotOwner, nil
}

// toDomainModel GORM 模型转换为领域对象
func toDomainModel(po *entity.WorkItem) *etwork.WorkItem {
	item := &etwork.WorkItem{
		ID:       po.ID,
		Category: etwork.Category(po.Category),
		Origin: etwork.GeoPoint{
			City:       po.OriginCity,
			RegionCode: po.OriginRegion,
		},
		Destination: etwork.GeoPoint{
			City:       po.DestCity,
			RegionCode: po.DestRegion,
		},
		FreeText:   po.RawAddress,
		Status:     etwork.Status(po.Status),
		CreatedAt:  po.CreatedAt,
		Urgency:    etwork.Urgency(po.Urgency),
		Price:      po.Price,
		DistanceKm: po.DistanceKm,
	}

	if po.ClaimOwner != nil {
		item.ClaimOwner = *po.ClaimOwner
	}

	return item
}
