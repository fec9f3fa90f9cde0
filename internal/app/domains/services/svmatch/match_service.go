package svmatch

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"flp/matchd/internal/app/domains/entity/etmatch"
	"flp/matchd/internal/app/domains/entity/etwork"
	"flp/matchd/internal/app/domains/modules/mdmatch"
	"flp/matchd/internal/app/domains/repo/rpcoverage"
	"flp/matchd/internal/app/domains/repo/rpwork"
	"flp/matchd/internal/app/pkg/errorx"
	"flp/matchd/internal/app/pkg/logger"
)

// RemotePass 远端撮合通道（尽力而为，可为 nil）
type RemotePass interface {
	ProposeMatches(ctx context.Context, providerID string, timeout time.Duration) ([]etmatch.Candidate, error)
}

// Cache 候选缓存（参考用途，可为 nil）
type Cache interface {
	Set(ctx context.Context, providerID string, payload []byte) error
	Get(ctx context.Context, providerID string) ([]byte, error)
}

// Options 匹配服务配置
type Options struct {
	RemoteTimeout time.Duration // 远端撮合等待上限
}

// DefaultOptions 默认配置
func DefaultOptions() *Options {
	return &Options{
		RemoteTimeout: 2 * time.Second,
	}
}

// MatchService 匹配服务，负责候选查询业务编排
// 每个服务商的查询是独立的快照计算，无跨服务商共享的进程内状态
type MatchService struct {
	coverageRepo rpcoverage.CoverageRepository
	workRepo     rpwork.WorkItemRepository
	remote       RemotePass
	cache        Cache
	opts         *Options
	logger       logger.Logger
}

// NewMatchService 创建匹配服务实例
// remote 和 cache 可为 nil：远端撮合和缓存都是可选增强，缺席只影响召回和新鲜度
func NewMatchService(
	coverageRepo rpcoverage.CoverageRepository,
	workRepo rpwork.WorkItemRepository,
	remote RemotePass,
	cache Cache,
	opts *Options,
	log logger.Logger,
) *MatchService {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MatchService{
		coverageRepo: coverageRepo,
		workRepo:     workRepo,
		remote:       remote,
		cache:        cache,
		opts:         opts,
		logger:       log,
	}
}

// GetVisibleCandidates 计算服务商可见的候选列表（完整业务流程）
// 1. 读取覆盖范围快照（未配置时返回显式状态，绝不静默返回空）
// 2. 并行拉取开放工单快照与远端撮合提议
// 3. 本地三层匹配
// 4. 合并去重 + 远端提议强制重校验
// 5. 按调用方选择的方式稳定排序
// 6. 写入参考缓存（尽力而为）
func (s *MatchService) GetVisibleCandidates(ctx context.Context, providerID string, order etmatch.SortOrder, categoryFilter etwork.Category) ([]etmatch.Candidate, error) {
	coverage, err := s.coverageRepo.GetProviderCoverage(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if coverage.Empty() {
		return nil, errorx.ErrCoverageNotConfigured
	}

	// 2. 并行快照：本地开放工单 + 远端撮合提议
	var items []*etwork.WorkItem
	var queryErr error
	var remoteCands []etmatch.Candidate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// 存储故障不立即失败：后面尝试降级到过期缓存
		items, queryErr = s.workRepo.QueryOpen(gctx, coverage.EnabledCategories(), coverage.RegionCodes(), coverage.CityNames())
		return nil
	})
	g.Go(func() error {
		// 远端撮合严格尽力而为：超时或出错只记日志，绝不阻塞本地结果
		if s.remote == nil {
			return nil
		}
		proposals, rerr := s.remote.ProposeMatches(gctx, providerID, s.opts.RemoteTimeout)
		if rerr != nil {
			s.logger.Warnf(ctx, "[Match] remote pass degraded to local-only: provider=%s, error=%v", providerID, rerr)
			return nil
		}
		remoteCands = proposals
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 存储故障：降级到过期缓存快照（仅参考），缓存也未命中才失败
	var cacheCands []etmatch.Candidate
	if queryErr != nil {
		cacheCands = s.loadCache(ctx, providerID)
		if len(cacheCands) == 0 {
			return nil, queryErr
		}
		s.logger.Warnf(ctx, "[Match] store unavailable, serving stale cache: provider=%s cached=%d error=%v",
			providerID, len(cacheCands), queryErr)
	}

	// 3. 本地匹配（纯函数）
	local, stats := mdmatch.Match(coverage, items)
	s.logger.Infof(ctx, "[Match] provider=%s items=%d exact=%d region=%d city_only=%d category_rejected=%d no_geo=%d",
		providerID, len(items), stats.Exact, stats.Region, stats.CityNameOnly, stats.CategoryRejected, stats.NoGeography)

	// 4. 合并去重；被拒绝的远端提议只记日志，不向调用方暴露
	merged, droppedList := mdmatch.Merge(coverage, local, remoteCands, cacheCands)
	for _, d := range droppedList {
		s.logger.Warnf(ctx, "[Match] policy mismatch: item=%s reason=%s", d.WorkItemID, d.Reason)
	}

	// 类别过滤参数（调用方显式筛选某一类别）
	if categoryFilter != "" {
		filtered := merged[:0]
		for _, cand := range merged {
			if cand.Item.Category == categoryFilter {
				filtered = append(filtered, cand)
			}
		}
		merged = filtered
	}

	// 5. 稳定排序
	etmatch.Sort(merged, order)

	// 6. 缓存写入（尽力而为，失败不影响结果）
	// 降级服务期间不回写，避免用过期数据续命过期数据
	if queryErr == nil {
		s.storeCache(ctx, providerID, merged)
	}

	return merged, nil
}

// cachedCandidate 缓存中的候选快照
// 携带完整工单：存储故障降级时没有可水合的数据源
type cachedCandidate struct {
	WorkItemID string           `json:"work_item_id"`
	Tier       etmatch.Tier     `json:"tier"`
	CachedAt   time.Time        `json:"cached_at"`
	Item       *etwork.WorkItem `json:"item"`
}

// loadCache 读取缓存快照并还原为 CACHE 来源候选
// 任何失败都返回 nil：缓存只是降级手段，绝不产生新的错误路径
func (s *MatchService) loadCache(ctx context.Context, providerID string) []etmatch.Candidate {
	if s.cache == nil {
		return nil
	}

	payload, err := s.cache.Get(ctx, providerID)
	if err != nil || len(payload) == 0 {
		return nil
	}

	var snapshot []cachedCandidate
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		s.logger.Warnf(ctx, "[Match] parse cache snapshot failed: provider=%s, error=%v", providerID, err)
		return nil
	}

	candidates := make([]etmatch.Candidate, 0, len(snapshot))
	for _, cached := range snapshot {
		if cached.Item == nil {
			continue
		}
		candidates = append(candidates, etmatch.Candidate{
			Item:   cached.Item,
			Tier:   cached.Tier,
			Source: etmatch.SourceCache,
		})
	}
	return candidates
}

// storeCache 将候选列表快照写入参考缓存
func (s *MatchService) storeCache(ctx context.Context, providerID string, candidates []etmatch.Candidate) {
	if s.cache == nil {
		return
	}

	snapshot := make([]cachedCandidate, 0, len(candidates))
	now := time.Now()
	for _, cand := range candidates {
		snapshot = append(snapshot, cachedCandidate{
			WorkItemID: cand.Item.ID,
			Tier:       cand.Tier,
			CachedAt:   now,
			Item:       cand.Item,
		})
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Warnf(ctx, "[Match] marshal cache snapshot failed: provider=%s, error=%v", providerID, err)
		return
	}

	if err := s.cache.Set(ctx, providerID, payload); err != nil {
		s.logger.Warnf(ctx, "[Match] write cache failed: provider=%s, error=%v", providerID, err)
	}
}
