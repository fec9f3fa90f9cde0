package svwatch

import (
	"context"
	"errors"
	"time"

	"flp/matchd/internal/app/domains/entity/etmatch"
	"flp/matchd/internal/app/domains/entity/etwork"
	"flp/matchd/internal/app/domains/repo/rpwork"
	"flp/matchd/internal/app/pkg/errorx"
	"flp/matchd/internal/app/pkg/logger"
)

// StatusReader 工单状态读取接口（Watcher 只需要轻量状态查询）
type StatusReader interface {
	GetStatus(ctx context.Context, workItemID string) (*rpwork.ItemStatus, error)
}

// Options Watcher 配置
type Options struct {
	InitialInterval time.Duration // 初始轮询间隔（快速起步）
	MaxInterval     time.Duration // 轮询间隔上限（稳态节奏）
}

// DefaultOptions 默认配置
func DefaultOptions() *Options {
	return &Options{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     8 * time.Second,
	}
}

// WatchService 可用性观察服务
// 服务商查看某个工单详情期间，用递增退避轮询其状态，
// 在对方抢先认领时提前终止徒劳的抢单尝试
//
// 这只是体验层面的活性优化，正确性始终由抢单协调器的原子条件更新保证
type WatchService struct {
	reader StatusReader
	opts   *Options
	logger logger.Logger
}

// NewWatchService 创建可用性观察服务实例
func NewWatchService(reader StatusReader, opts *Options, log logger.Logger) *WatchService {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &WatchService{
		reader: reader,
		opts:   opts,
		logger: log,
	}
}

// Watch 观察单个工单的可用性，返回事件通道
// 仅在状态变化时推送事件；观察到终态事件后停止轮询并关闭通道
// providerID 用于区分 CLAIMED_BY_SELF 与 CLAIMED_BY_OTHER
func (s *WatchService) Watch(ctx context.Context, workItemID, providerID string) <-chan etmatch.AvailabilityEvent {
	events := make(chan etmatch.AvailabilityEvent, 1)

	go func() {
		defer close(events)

		interval := s.opts.InitialInterval
		var lastState etmatch.AvailabilityState

		for {
			state, owner := s.observe(ctx, workItemID, providerID)

			// 仅在状态变化时推送
			if state != "" && state != lastState {
				lastState = state
				event := etmatch.AvailabilityEvent{
					WorkItemID: workItemID,
					State:      state,
					ClaimOwner: owner,
					ObservedAt: time.Now(),
				}

				select {
				case events <- event:
				case <-ctx.Done():
					return
				}

				// 终态：停止轮询
				if state.IsTerminal() {
					s.logger.Infof(ctx, "[Watch] item=%s terminal state=%s, stopping", workItemID, state)
					return
				}
			}

			// 递增退避：快速起步，逐渐放缓到稳态节奏
			select {
			case <-time.After(interval):
				interval *= 2
				if interval > s.opts.MaxInterval {
					interval = s.opts.MaxInterval
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return events
}

// observe 执行一次状态观察，映射为可用性状态
// 瞬时错误返回空状态（跳过本轮，下一轮重试）
func (s *WatchService) observe(ctx context.Context, workItemID, providerID string) (etmatch.AvailabilityState, string) {
	st, err := s.reader.GetStatus(ctx, workItemID)
	if err != nil {
		if errors.Is(err, errorx.ErrWorkItemNotFound) {
			return etmatch.AvailabilityWithdrawn, ""
		}
		s.logger.Warnf(ctx, "[Watch] item=%s status poll failed: %v", workItemID, err)
		return "", ""
	}

	switch st.Status {
	case etwork.StatusOpen:
		return etmatch.AvailabilityOpen, ""
	case etwork.StatusCancelled:
		return etmatch.AvailabilityWithdrawn, ""
	default:
		// CLAIMED / IN_PROGRESS / COMPLETED：已不可抢
		if st.ClaimOwner == providerID && providerID != "" {
			return etmatch.AvailabilityClaimedBySelf, st.ClaimOwner
		}
		return etmatch.AvailabilityClaimedByOther, st.ClaimOwner
	}
}
