package mdmatch

import (
	"flp/matchd/internal/app/domains/entity/etcoverage"
	"flp/matchd/internal/app/domains/entity/etmatch"
	"flp/matchd/internal/app/domains/entity/etwork"
)

// Stats 每层级命中计数（仅用于可观测性，不参与入选判断）
type Stats struct {
	Exact            int // EXACT 层命中数
	Region           int // REGION 层命中数
	CityNameOnly     int // CITY_NAME_ONLY 层命中数
	CategoryRejected int // 类别不匹配被排除数
	NoGeography      int // 无可用地理信息被排除数
	NotOpen          int // 非 OPEN 状态被排除数
}

// Match 候选匹配（纯函数）
// 对固定的 (coverage, items) 输入，输出有序且确定：保持输入顺序，
// 不引入时钟、随机数等非确定因素
//
// 三层匹配策略，首个命中层级用于打标，任一层命中即入选：
//  1. EXACT          起点或终点的 (城市, 行政区) 在覆盖范围的区域键集合中
//  2. REGION         行政区代码命中（补偿按城市配置不全）
//  3. CITY_NAME_ONLY 仅城市名命中（补偿源数据行政区缺失/错误）
//
// 类别过滤独立且强制：工单类别必须在服务商启用类别中
func Match(coverage *etcoverage.Coverage, items []*etwork.WorkItem) ([]etmatch.Candidate, Stats) {
	candidates := make([]etmatch.Candidate, 0, len(items))
	var stats Stats

	for _, item := range items {
		if item == nil {
			continue
		}

		// 可见性不变式：仅 OPEN 状态可入选
		if item.Status != etwork.StatusOpen {
			stats.NotOpen++
			continue
		}

		// 类别过滤（独立于地理层级）
		if !coverage.AcceptsCategory(item.Category) {
			stats.CategoryRejected++
			continue
		}

		tier, ok := matchTier(coverage, item)
		if !ok {
			stats.NoGeography++
			continue
		}

		switch tier {
		case etmatch.TierExact:
			stats.Exact++
		case etmatch.TierRegion:
			stats.Region++
		case etmatch.TierCityNameOnly:
			stats.CityNameOnly++
		}

		candidates = append(candidates, etmatch.Candidate{
			Item:   item,
			Tier:   tier,
			Source: etmatch.SourceLocal,
		})
	}

	return candidates, stats
}

// matchTier 计算工单对覆盖范围的匹配层级
// 端点为空且自由文本解析失败时返回 ok=false（无法在地理维度匹配）
func matchTier(coverage *etcoverage.Coverage, item *etwork.WorkItem) (etmatch.Tier, bool) {
	points := item.Endpoints()
	if len(points) == 0 {
		return "", false
	}

	// 第一层：(城市, 行政区) 精确命中
	for _, p := range points {
		if p.City != "" && p.RegionCode != "" && coverage.HasRegionKey(p.City, p.RegionCode) {
			return etmatch.TierExact, true
		}
	}

	// 第二层：仅行政区命中
	for _, p := range points {
		if p.RegionCode != "" && coverage.HasRegionCode(p.RegionCode) {
			return etmatch.TierRegion, true
		}
	}

	// 第三层：仅城市名命中
	for _, p := range points {
		if p.City != "" && coverage.HasCityName(p.City) {
			return etmatch.TierCityNameOnly, true
		}
	}

	return "", false
}

// Revalidate 重新校验单个候选是否满足本地过滤器
// 远端撮合提议入选前的强制检查：类别 + 地理 + OPEN 状态
func Revalidate(coverage *etcoverage.Coverage, item *etwork.WorkItem) (etmatch.Tier, bool) {
	if item == nil || item.Status != etwork.StatusOpen {
		return "", false
	}
	if !coverage.AcceptsCategory(item.Category) {
		return "", false
	}
	return matchTier(coverage, item)
}
