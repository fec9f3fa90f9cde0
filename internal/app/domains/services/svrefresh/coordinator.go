package svrefresh

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"flp/matchd/internal/app/pkg/logger"
)

// Invalidator 缓存失效接口（候选缓存实现）
type Invalidator interface {
	Invalidate(ctx context.Context, providerID string) error
	InvalidateAll(ctx context.Context) error
}

// allProviders dirty 集合中表示全量失效的哨兵键
const allProviders = "*"

// Coordinator 刷新协调器
// 将定时器、变更通知、用户主动刷新等多个独立触发源统一到一个合并队列：
// 一次刷新在途期间到达的请求被吸收进 dirty 集合，不会触发冗余的并行刷新
type Coordinator struct {
	mu       sync.Mutex
	dirty    map[string]struct{} // 待失效的服务商ID集合
	trigger  chan struct{}       // 合并触发信号（容量 1）
	interval time.Duration       // 定时兜底刷新周期

	invalidator Invalidator
	closing     *atomic.Bool
	wg          sync.WaitGroup
	logger      logger.Logger
}

// NewCoordinator 创建刷新协调器
func NewCoordinator(invalidator Invalidator, interval time.Duration, log logger.Logger) *Coordinator {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Coordinator{
		dirty:       make(map[string]struct{}),
		trigger:     make(chan struct{}, 1),
		interval:    interval,
		invalidator: invalidator,
		closing:     atomic.NewBool(false),
		logger:      log,
	}
}

// Start 启动刷新循环（Context 取消时退出）
func (c *Coordinator) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.logger.Infof(ctx, "[Refresh] coordinator started, interval=%v", c.interval)

		for {
			select {
			case <-c.trigger:
				c.flush(ctx)
			case <-ticker.C:
				// 定时兜底：通知缺失时仅损失新鲜度，不损失正确性
				c.RequestAll()
				c.flush(ctx)
			case <-ctx.Done():
				c.logger.Infof(ctx, "[Refresh] coordinator stopped")
				return
			}
		}
	}()
}

// Wait 等待刷新循环退出
func (c *Coordinator) Wait() {
	if c.closing.CAS(false, true) {
		c.wg.Wait()
	}
}

// Request 请求刷新指定服务商的候选视图
// 非阻塞：刷新在途时请求被吸收进 dirty 集合
func (c *Coordinator) Request(providerID string) {
	if providerID == "" {
		return
	}
	c.mark(providerID)
}

// RequestAll 请求全量刷新（工单级变更影响面未知时）
func (c *Coordinator) RequestAll() {
	c.mark(allProviders)
}

// mark 标记 dirty 并发出合并触发信号
func (c *Coordinator) mark(key string) {
	c.mu.Lock()
	c.dirty[key] = struct{}{}
	c.mu.Unlock()

	// 容量 1 的非阻塞发送：已有待处理信号时自然合并
	select {
	case c.trigger <- struct{}{}:
	default:
	}
}

// flush 取走当前 dirty 集合并执行失效
func (c *Coordinator) flush(ctx context.Context) {
	c.mu.Lock()
	if len(c.dirty) == 0 {
		c.mu.Unlock()
		return
	}
	batch := c.dirty
	c.dirty = make(map[string]struct{})
	c.mu.Unlock()

	// 全量失效覆盖单个失效
	if _, ok := batch[allProviders]; ok {
		if err := c.invalidator.InvalidateAll(ctx); err != nil {
			c.logger.Warnf(ctx, "[Refresh] invalidate all failed: %v", err)
		}
		return
	}

	for providerID := range batch {
		if err := c.invalidator.Invalidate(ctx, providerID); err != nil {
			c.logger.Warnf(ctx, "[Refresh] invalidate failed: provider=%s, error=%v", providerID, err)
		}
	}
}
