package entity

import "time"

// CoverageRegion 服务商覆盖区域实体
// 由外部配置子系统写入，本服务只读
type CoverageRegion struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ProviderID string `gorm:"column:provider_id;type:varchar(64);not null;index:idx_provider"`
	City       string `gorm:"column:city;type:varchar(128);not null"`
	RegionCode string `gorm:"column:region_code;type:varchar(8);not null"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (CoverageRegion) TableName() string {
	return "provider_coverage_regions"
}

// CoverageCategory 服务商启用类别实体
// 由外部配置子系统写入，本服务只读
type CoverageCategory struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ProviderID string `gorm:"column:provider_id;type:varchar(64);not null;index:idx_provider_cat"`
	Category   string `gorm:"column:category;type:varchar(16);not null"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (CoverageCategory) TableName() string {
	return "provider_coverage_categories"
}
