package etmatch

import (
	"sort"
	"time"

	"flp/matchd/internal/app/domains/entity/etwork"
)

// Tier 匹配层级（命中覆盖范围的精确程度）
type Tier string

const (
	TierExact        Tier = "EXACT"          // (城市, 行政区) 精确命中
	TierRegion       Tier = "REGION"         // 仅行政区命中（补偿按城市配置不全）
	TierCityNameOnly Tier = "CITY_NAME_ONLY" // 仅城市名命中（补偿源数据行政区缺失/错误）
)

// Source 候选来源
type Source string

const (
	SourceLocal  Source = "LOCAL"  // 本地匹配
	SourceRemote Source = "REMOTE" // 远端撮合
	SourceCache  Source = "CACHE"  // 过期缓存
)

// Priority 来源优先级（合并冲突时越大越优先）
func (s Source) Priority() int {
	switch s {
	case SourceRemote:
		return 2
	case SourceLocal:
		return 1
	default:
		return 0
	}
}

// Candidate 匹配候选（临时派生对象，不落库，每次查询重算）
// 层级仅用于排序和可观测性，不参与正确性判断
type Candidate struct {
	Item          *etwork.WorkItem
	Tier          Tier
	Source        Source
	Authoritative bool // 来源被显式标记为权威时，合并冲突无条件胜出
}

// SortOrder 排序方式（由调用方选择）
type SortOrder string

const (
	SortNewest   SortOrder = "newest"   // 最新优先（默认）
	SortPrice    SortOrder = "price"    // 价格从高到低
	SortUrgency  SortOrder = "urgency"  // 紧急优先
	SortDistance SortOrder = "distance" // 距离从近到远（无距离排最后）
)

// ParseSortOrder 解析排序参数，非法值回退到默认排序
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortPrice, SortUrgency, SortDistance:
		return SortOrder(s)
	default:
		return SortNewest
	}
}

// Sort 按指定方式稳定排序候选列表（原地）
// 稳定性保证：同键值候选保持输入相对顺序，满足确定性要求
func Sort(candidates []Candidate, order SortOrder) {
	switch order {
	case SortPrice:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Item.Price > candidates[j].Item.Price
		})
	case SortUrgency:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Item.Urgency.Rank() > candidates[j].Item.Urgency.Rank()
		})
	case SortDistance:
		sort.SliceStable(candidates, func(i, j int) bool {
			di, dj := candidates[i].Item.DistanceKm, candidates[j].Item.DistanceKm
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
	default:
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Item.CreatedAt.After(candidates[j].Item.CreatedAt)
		})
	}
}

// ClaimOutcome 抢单结果
type ClaimOutcome string

const (
	ClaimSuccess        ClaimOutcome = "SUCCESS"
	ClaimAlreadyClaimed ClaimOutcome = "ALREADY_CLAIMED"
	ClaimNotFound       ClaimOutcome = "NOT_FOUND"
)

// ReleaseOutcome 释放结果
type ReleaseOutcome string

const (
	ReleaseSuccess  ReleaseOutcome = "SUCCESS"
	ReleaseNotOwner ReleaseOutcome = "NOT_OWNER"
	ReleaseNotFound ReleaseOutcome = "NOT_FOUND"
)

// ClaimAttempt 抢单尝试记录（临时对象，仅用于审计日志）
type ClaimAttempt struct {
	AttemptID   int64
	WorkItemID  string
	ProviderID  string
	RequestedAt time.Time
	Outcome     ClaimOutcome
}

// AvailabilityState 可用性观察状态
type AvailabilityState string

const (
	AvailabilityOpen           AvailabilityState = "OPEN"
	AvailabilityClaimedByOther AvailabilityState = "CLAIMED_BY_OTHER"
	AvailabilityClaimedBySelf  AvailabilityState = "CLAIMED_BY_SELF"
	AvailabilityWithdrawn      AvailabilityState = "WITHDRAWN"
)

// IsTerminal 判断状态是否终结观察流
func (s AvailabilityState) IsTerminal() bool {
	return s != AvailabilityOpen
}

// AvailabilityEvent 可用性事件（Watcher 推送给调用方）
type AvailabilityEvent struct {
	WorkItemID string            `json:"work_item_id"`
	State      AvailabilityState `json:"state"`
	ClaimOwner string            `json:"claim_owner,omitempty"`
	ObservedAt time.Time         `json:"observed_at"`
}
