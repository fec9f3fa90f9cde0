package svrefresh

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flp/matchd/internal/app/pkg/logger"
)

// countingInvalidator 记录每个服务商的失效次数
type countingInvalidator struct {
	mu       sync.Mutex
	perKey   map[string]int
	allCalls int
	slowDown time.Duration
}

func newCountingInvalidator() *countingInvalidator {
	return &countingInvalidator{perKey: make(map[string]int)}
}

func (c *countingInvalidator) Invalidate(ctx context.Context, providerID string) error {
	if c.slowDown > 0 {
		time.Sleep(c.slowDown)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.perKey[providerID]++
	return nil
}

func (c *countingInvalidator) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allCalls++
	return nil
}

func (c *countingInvalidator) count(providerID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perKey[providerID]
}

func (c *countingInvalidator) all() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allCalls
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestCoordinatorRequestInvalidates(t *testing.T) {
	inv := newCountingInvalidator()
	coord := NewCoordinator(inv, time.Hour, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	coord.Start(ctx)

	coord.Request("provider-1")

	eventually(t, func() bool { return inv.count("provider-1") >= 1 },
		"provider-1 was never invalidated")
}

func TestCoordinatorCoalescesBurst(t *testing.T) {
	inv := newCountingInvalidator()
	inv.slowDown = 20 * time.Millisecond
	coord := NewCoordinator(inv, time.Hour, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	coord.Start(ctx)

	// 刷新在途期间的重复请求被吸收进 dirty 集合
	for i := 0; i < 50; i++ {
		coord.Request("provider-1")
	}

	eventually(t, func() bool { return inv.count("provider-1") >= 1 },
		"provider-1 was never invalidated")

	// 稳定后：50 次请求折叠成远少于 50 次的失效
	time.Sleep(100 * time.Millisecond)
	assert.Less(t, inv.count("provider-1"), 10)
}

func TestCoordinatorRequestAll(t *testing.T) {
	inv := newCountingInvalidator()
	coord := NewCoordinator(inv, time.Hour, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	coord.Start(ctx)

	// 全量失效覆盖同批次的单个失效
	coord.Request("provider-1")
	coord.RequestAll()

	eventually(t, func() bool { return inv.all() >= 1 },
		"InvalidateAll was never called")
}

func TestCoordinatorIgnoresEmptyProviderID(t *testing.T) {
	inv := newCountingInvalidator()
	coord := NewCoordinator(inv, time.Hour, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	coord.Start(ctx)

	coord.Request("")
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, inv.count(""))
}

func TestCoordinatorTickerFallback(t *testing.T) {
	inv := newCountingInvalidator()
	coord := NewCoordinator(inv, 10*time.Millisecond, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	coord.Start(ctx)

	// 无任何显式请求，定时兜底触发全量失效
	eventually(t, func() bool { return inv.all() >= 1 },
		"ticker fallback never fired")
}

func TestCoordinatorStopsOnCancel(t *testing.T) {
	inv := newCountingInvalidator()
	coord := NewCoordinator(inv, time.Hour, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	coord.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		coord.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("coordinator did not stop after context cancel")
	}

	// 停止后的请求不再被处理
	before := inv.all()
	coord.RequestAll()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, before, inv.all())
}
