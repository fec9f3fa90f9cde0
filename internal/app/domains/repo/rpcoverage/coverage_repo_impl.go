package rpcoverage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"flp/matchd/internal/app/domains/entity/etcoverage"
	"flp/matchd/internal/app/domains/entity/etwork"
	"flp/matchd/internal/app/pkg/errorx"
	"flp/matchd/internal/common/entity"
)

// CoverageRepositoryImpl 覆盖范围仓储实现（MySQL）
type CoverageRepositoryImpl struct {
	db *gorm.DB
}

// NewCoverageRepository 创建覆盖范围仓储实例
func NewCoverageRepository(db *gorm.DB) CoverageRepository {
	return &CoverageRepositoryImpl{db: db}
}

// GetProviderCoverage 读取服务商覆盖范围快照
func (r *CoverageRepositoryImpl) GetProviderCoverage(ctx context.Context, providerID string) (*etcoverage.Coverage, error) {
	var regionRows []entity.CoverageRegion
	if err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Find(&regionRows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", errorx.ErrCoverageUnavailable, err)
	}

	var categoryRows []entity.CoverageCategory
	if err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Find(&categoryRows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", errorx.ErrCoverageUnavailable, err)
	}

	regions := make([]etcoverage.Region, 0, len(regionRows))
	for _, row := range regionRows {
		regions = append(regions, etcoverage.Region{
			City:       row.City,
			RegionCode: row.RegionCode,
		})
	}

	categories := make([]etwork.Category, 0, len(categoryRows))
	for _, row := range categoryRows {
		categories = append(categories, etwork.Category(row.Category))
	}

	return etcoverage.NewCoverage(providerID, regions, categories)
}
