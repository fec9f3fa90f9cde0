package mdmatch

import (
	"flp/matchd/internal/app/domains/entity/etcoverage"
	"flp/matchd/internal/app/domains/entity/etmatch"
)

// Dropped 合并过程中被本地过滤器拒绝的远端提议
// 静默丢弃，仅供调用方记录可观测性日志
type Dropped struct {
	WorkItemID string
	Reason     string
}

// Merge 候选合并与去重（纯函数）
// 按工单ID去重；同一ID冲突时的优先级：权威标记 > 来源优先级（远端 > 本地 > 缓存）
//
// 远端提议不可盲信：所有 REMOTE 来源候选在入选前重新通过
// 类别与地理过滤器校验，保持可见性不变式
//
// 输出顺序确定：按各来源列表中首次出现的顺序排列，冲突替换不改变位置
func Merge(coverage *etcoverage.Coverage, sources ...[]etmatch.Candidate) ([]etmatch.Candidate, []Dropped) {
	merged := make([]etmatch.Candidate, 0)
	index := make(map[string]int) // 工单ID -> merged 中的位置
	dropped := make([]Dropped, 0)

	for _, source := range sources {
		for _, cand := range source {
			if cand.Item == nil {
				continue
			}

			// 远端提议强制重校验
			if cand.Source == etmatch.SourceRemote {
				tier, ok := Revalidate(coverage, cand.Item)
				if !ok {
					dropped = append(dropped, Dropped{
						WorkItemID: cand.Item.ID,
						Reason:     "rejected by local category/geography filters",
					})
					continue
				}
				cand.Tier = tier
			}

			pos, seen := index[cand.Item.ID]
			if !seen {
				index[cand.Item.ID] = len(merged)
				merged = append(merged, cand)
				continue
			}

			// 冲突解决：权威标记无条件胜出，否则按来源优先级
			existing := merged[pos]
			if shouldReplace(existing, cand) {
				merged[pos] = cand
			}
		}
	}

	return merged, dropped
}

// shouldReplace 判断新候选是否应替换已有候选
func shouldReplace(existing, incoming etmatch.Candidate) bool {
	if existing.Authoritative && !incoming.Authoritative {
		return false
	}
	if incoming.Authoritative && !existing.Authoritative {
		return true
	}
	return incoming.Source.Priority() > existing.Source.Priority()
}
