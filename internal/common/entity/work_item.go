package entity

import (
	"time"

	"gorm.io/datatypes"
)

// WorkItem 工单实体（含认领状态）
type WorkItem struct {
	// 基础字段
	ID       string `gorm:"column:id;primaryKey;type:varchar(64)"`
	Category string `gorm:"column:category;type:varchar(16);not null;index:idx_category_status"`

	// 地理字段（结构化部分可能为空，raw_address 为自由文本兜底）
	OriginCity       string `gorm:"column:origin_city;type:varchar(128)"`
	OriginRegion     string `gorm:"column:origin_region;type:varchar(8)"`
	DestCity         string `gorm:"column:dest_city;type:varchar(128)"`
	DestRegion       string `gorm:"column:dest_region;type:varchar(8)"`
	RawAddress       string `gorm:"column:raw_address;type:varchar(512)"`

	// 认领状态（claim_owner 仅在 CLAIMED 及之后非空）
	Status     string  `gorm:"column:status;type:varchar(16);not null;default:'OPEN';index:idx_category_status"`
	ClaimOwner *string `gorm:"column:claim_owner;type:varchar(64);index:idx_claim_owner"`

	// 排序属性
	Urgency    string   `gorm:"column:urgency;type:varchar(16);not null;default:'NORMAL'"`
	Price      float64  `gorm:"column:price;type:decimal(12,2);not null;default:0"`
	DistanceKm *float64 `gorm:"column:distance_km;type:decimal(10,2)"`

	// 发布方原始负载（透传，不参与匹配）
	RawPayload datatypes.JSON `gorm:"column:raw_payload;type:json"`

	// 时间戳
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (WorkItem) TableName() string {
	return "work_items"
}

// 工单状态常量
const (
	WorkItemStatusOpen       = "OPEN"
	WorkItemStatusClaimed    = "CLAIMED"
	WorkItemStatusInProgress = "IN_PROGRESS"
	WorkItemStatusCompleted  = "COMPLETED"
	WorkItemStatusCancelled  = "CANCELLED"
)
