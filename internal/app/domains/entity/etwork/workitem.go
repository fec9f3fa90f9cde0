package etwork

import (
	"errors"
	"time"
)

// 错误定义
var (
	ErrInvalidWorkItemID = errors.New("work item ID cannot be empty")
	ErrInvalidCategory   = errors.New("invalid work item category")
	ErrInvalidStatus     = errors.New("invalid work item status")
	ErrMissingGeography  = errors.New("work item has no usable geography")
)

// Category 工单类别（货运 / 现场服务）
type Category string

const (
	CategoryCargo       Category = "CARGO"       // 货运
	CategoryTowing      Category = "TOWING"      // 拖车救援
	CategoryMaintenance Category = "MAINTENANCE" // 现场维修
	CategoryEscort      Category = "ESCORT"      // 押运护送
	CategoryLocksmith   Category = "LOCKSMITH"   // 开锁服务
)

// ValidCategory 判断类别是否合法
func ValidCategory(c Category) bool {
	switch c {
	case CategoryCargo, CategoryTowing, CategoryMaintenance, CategoryEscort, CategoryLocksmith:
		return true
	}
	return false
}

// Status 工单状态
type Status string

const (
	StatusOpen       Status = "OPEN"        // 待接单
	StatusClaimed    Status = "CLAIMED"     // 已被认领
	StatusInProgress Status = "IN_PROGRESS" // 执行中
	StatusCompleted  Status = "COMPLETED"   // 已完成
	StatusCancelled  Status = "CANCELLED"   // 已取消
)

// IsTerminal 判断状态是否为终态
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Urgency 紧急程度
type Urgency string

const (
	UrgencyNormal   Urgency = "NORMAL"
	UrgencyUrgent   Urgency = "URGENT"
	UrgencyCritical Urgency = "CRITICAL"
)

// Rank 紧急程度排序权重（越大越紧急）
func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 2
	case UrgencyUrgent:
		return 1
	default:
		return 0
	}
}

// GeoPoint 地理端点（值对象）
// 城市名和行政区代码可能部分缺失，缺失部分由自由文本解析兜底
type GeoPoint struct {
	City       string // 城市名
	RegionCode string // 行政区代码（巴西州缩写，如 MT、SP）
}

// IsZero 判断端点是否完全缺失
func (p GeoPoint) IsZero() bool {
	return p.City == "" && p.RegionCode == ""
}

// WorkItem 工单聚合根（领域对象）
type WorkItem struct {
	ID          string     // 工单ID（稳定、不透明）
	Category    Category   // 类别
	Origin      GeoPoint   // 起点
	Destination GeoPoint   // 终点
	FreeText    string     // 自由文本地址（结构化字段缺失时的解析来源）
	Status      Status     // 状态
	ClaimOwner  string     // 认领人（仅 CLAIMED 及之后非空）
	CreatedAt   time.Time  // 创建时间
	Urgency     Urgency    // 紧急程度
	Price       float64    // 价格/估价（不透明，仅用于排序）
	DistanceKm  *float64   // 路线距离（可选，由发布方提供）
}

// NewWorkItem 创建工单（工厂方法）
func NewWorkItem(id string, category Category, origin, destination GeoPoint, createdAt time.Time) (*WorkItem, error) {
	// 业务规则校验
	if id == "" {
		return nil, ErrInvalidWorkItemID
	}
	if !ValidCategory(category) {
		return nil, ErrInvalidCategory
	}

	return &WorkItem{
		ID:          id,
		Category:    category,
		Origin:      origin,
		Destination: destination,
		Status:      StatusOpen,
		CreatedAt:   createdAt,
		Urgency:     UrgencyNormal,
	}, nil
}

// Endpoints 返回参与匹配的地理端点
// 结构化字段缺失时尝试解析自由文本地址；两者都失败则返回空切片，
// 该工单无法在地理维度上命中任何覆盖范围
func (w *WorkItem) Endpoints() []GeoPoint {
	points := make([]GeoPoint, 0, 2)
	if !w.Origin.IsZero() {
		points = append(points, w.Origin)
	}
	if !w.Destination.IsZero() {
		points = append(points, w.Destination)
	}

	if len(points) == 0 && w.FreeText != "" {
		if p, ok := ParseLocation(w.FreeText); ok {
			points = append(points, p)
		}
	}

	return points
}

// IsClaimedBy 判断工单是否被指定服务商持有
func (w *WorkItem) IsClaimedBy(providerID string) bool {
	return w.Status == StatusClaimed && w.ClaimOwner == providerID
}
