package mdclaim

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flp/matchd/internal/app/domains/entity/etmatch"
	"flp/matchd/internal/app/domains/entity/etwork"
	"flp/matchd/internal/app/domains/repo/rpwork"
	"flp/matchd/internal/app/pkg/errorx"
	"flp/matchd/internal/app/pkg/logger"
)

func newTestModule(repo rpwork.WorkItemRepository) *ClaimModule {
	cfg := &Config{MaxRetries: 3, BaseBackoff: time.Millisecond}
	return NewClaimModule(repo, cfg, logger.NewNopLogger())
}

func seedOpenItem(repo *rpwork.MemoryWorkItemRepository, id string) {
	repo.Put(&etwork.WorkItem{
		ID:        id,
		Category:  etwork.CategoryCargo,
		Origin:    etwork.GeoPoint{City: "Sorriso", RegionCode: "MT"},
		Status:    etwork.StatusOpen,
		CreatedAt: time.Now(),
		Urgency:   etwork.UrgencyNormal,
	})
}

func TestClaimExclusivity(t *testing.T) {
	repo := rpwork.NewMemoryRepository()
	seedOpenItem(repo, "w1")
	module := newTestModule(repo)

	const providers = 20
	outcomes := make([]etmatch.ClaimOutcome, providers)
	errs := make([]error, providers)

	var wg sync.WaitGroup
	for i := 0; i < providers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			outcomes[idx], errs[idx] = module.Claim(context.Background(), "w1", fmt.Sprintf("provider-%d", idx))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// 互斥不变式：并发抢单恰好一人成功，其余全部 ALREADY_CLAIMED
	success, alreadyClaimed := 0, 0
	var winner int
	for i, o := range outcomes {
		switch o {
		case etmatch.ClaimSuccess:
			success++
			winner = i
		case etmatch.ClaimAlreadyClaimed:
			alreadyClaimed++
		}
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, providers-1, alreadyClaimed)

	status, err := repo.GetStatus(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, etwork.StatusClaimed, status.Status)
	assert.Equal(t, fmt.Sprintf("provider-%d", winner), status.ClaimOwner)
}

func TestClaimIdempotent(t *testing.T) {
	repo := rpwork.NewMemoryRepository()
	seedOpenItem(repo, "w1")
	module := newTestModule(repo)

	first, err := module.Claim(context.Background(), "w1", "provider-a")
	require.NoError(t, err)
	assert.Equal(t, etmatch.ClaimSuccess, first)

	// 同一持有人重复抢单无副作用，仍返回成功
	second, err := module.Claim(context.Background(), "w1", "provider-a")
	require.NoError(t, err)
	assert.Equal(t, etmatch.ClaimSuccess, second)

	// 其他服务商被拒
	other, err := module.Claim(context.Background(), "w1", "provider-b")
	require.NoError(t, err)
	assert.Equal(t, etmatch.ClaimAlreadyClaimed, other)
}

func TestClaimNotFound(t *testing.T) {
	repo := rpwork.NewMemoryRepository()
	module := newTestModule(repo)

	outcome, err := module.Claim(context.Background(), "missing", "provider-a")
	require.NoError(t, err)
	assert.Equal(t, etmatch.ClaimNotFound, outcome)
}

func TestClaimTerminalItemNotFound(t *testing.T) {
	repo := rpwork.NewMemoryRepository()
	repo.Put(&etwork.WorkItem{
		ID:       "done",
		Category: etwork.CategoryCargo,
		Status:   etwork.StatusCompleted,
	})
	module := newTestModule(repo)

	// 终态工单对抢单方不可见，视同不存在
	outcome, err := module.Claim(context.Background(), "done", "provider-a")
	require.NoError(t, err)
	assert.Equal(t, etmatch.ClaimNotFound, outcome)
}

func TestReleaseThenReclaim(t *testing.T) {
	repo := rpwork.NewMemoryRepository()
	seedOpenItem(repo, "w1")
	module := newTestModule(repo)

	_, err := module.Claim(context.Background(), "w1", "provider-a")
	require.NoError(t, err)

	released, err := module.Release(context.Background(), "w1", "provider-a")
	require.NoError(t, err)
	assert.Equal(t, etmatch.ReleaseSuccess, released)

	// 释放后其他服务商可以抢到
	outcome, err := module.Claim(context.Background(), "w1", "provider-b")
	require.NoError(t, err)
	assert.Equal(t, etmatch.ClaimSuccess, outcome)
}

func TestReleaseNotFound(t *testing.T) {
	repo := rpwork.NewMemoryRepository()
	module := newTestModule(repo)

	outcome, err := module.Release(context.Background(), "missing", "provider-a")
	require.NoError(t, err)
	assert.Equal(t, etmatch.ReleaseNotFound, outcome)
}

func TestReleaseNotOwner(t *testing.T) {
	repo := rpwork.NewMemoryRepository()
	seedOpenItem(repo, "w1")
	module := newTestModule(repo)

	_, err := module.Claim(context.Background(), "w1", "provider-a")
	require.NoError(t, err)

	outcome, err := module.Release(context.Background(), "w1", "provider-b")
	require.NoError(t, err)
	assert.Equal(t, etmatch.ReleaseNotOwner, outcome)
}

// flakyRepo 前 N 次抢单返回瞬时错误，之后转发给底层仓储
type flakyRepo struct {
	rpwork.WorkItemRepository
	mu       sync.Mutex
	failures int
	calls    int
}

func (f *flakyRepo) Claim(ctx context.Context, workItemID, providerID string) (etmatch.ClaimOutcome, error) {
	f.mu.Lock()
	f.calls++
	shouldFail := f.calls <= f.failures
	f.mu.Unlock()

	if shouldFail {
		return "", errorx.Transient("storage unavailable")
	}
	return f.WorkItemRepository.Claim(ctx, workItemID, providerID)
}

func TestClaimRetriesTransientErrors(t *testing.T) {
	inner := rpwork.NewMemoryRepository()
	seedOpenItem(inner, "w1")
	repo := &flakyRepo{WorkItemRepository: inner, failures: 2}
	module := newTestModule(repo)

	outcome, err := module.Claim(context.Background(), "w1", "provider-a")
	require.NoError(t, err)
	assert.Equal(t, etmatch.ClaimSuccess, outcome)
	assert.Equal(t, 3, repo.calls)
}

// flakyReleaseRepo 前 N 次释放返回瞬时错误，之后转发给底层仓储
type flakyReleaseRepo struct {
	rpwork.WorkItemRepository
	mu       sync.Mutex
	failures int
	calls    int
}

func (f *flakyReleaseRepo) Release(ctx context.Context, workItemID, providerID string) (etmatch.ReleaseOutcome, error) {
	f.mu.Lock()
	f.calls++
	shouldFail := f.calls <= f.failures
	f.mu.Unlock()

	if shouldFail {
		return "", errorx.Transient("storage unavailable")
	}
	return f.WorkItemRepository.Release(ctx, workItemID, providerID)
}

func TestReleaseRetriesTransientErrors(t *testing.T) {
	inner := rpwork.NewMemoryRepository()
	seedOpenItem(inner, "w1")
	_, err := inner.Claim(context.Background(), "w1", "provider-a")
	require.NoError(t, err)

	repo := &flakyReleaseRepo{WorkItemRepository: inner, failures: 2}
	module := newTestModule(repo)

	outcome, err := module.Release(context.Background(), "w1", "provider-a")
	require.NoError(t, err)
	assert.Equal(t, etmatch.ReleaseSuccess, outcome)
	assert.Equal(t, 3, repo.calls)
}

func TestClaimGivesUpAfterMaxRetries(t *testing.T) {
	inner := rpwork.NewMemoryRepository()
	seedOpenItem(inner, "w1")
	repo := &flakyRepo{WorkItemRepository: inner, failures: 10}
	module := newTestModule(repo)

	_, err := module.Claim(context.Background(), "w1", "provider-a")
	require.Error(t, err)
	assert.True(t, errorx.IsRetryable(err))
	// 首次尝试 + MaxRetries 次重试
	assert.Equal(t, 4, repo.calls)
}

func TestClaimDoesNotRetryNonRetriable(t *testing.T) {
	inner := rpwork.NewMemoryRepository()
	repo := &fatalRepo{inner: inner}
	module := newTestModule(repo)

	_, err := module.Claim(context.Background(), "w1", "provider-a")
	require.Error(t, err)
	assert.Equal(t, 1, repo.calls)
}

type fatalRepo struct {
	inner *rpwork.MemoryWorkItemRepository
	calls int
}

func (f *fatalRepo) QueryOpen(ctx context.Context, categories []etwork.Category, regionCodes, cityNames []string) ([]*etwork.WorkItem, error) {
	return f.inner.QueryOpen(ctx, categories, regionCodes, cityNames)
}

func (f *fatalRepo) GetByID(ctx context.Context, workItemID string) (*etwork.WorkItem, error) {
	return f.inner.GetByID(ctx, workItemID)
}

func (f *fatalRepo) GetStatus(ctx context.Context, workItemID string) (*rpwork.ItemStatus, error) {
	return f.inner.GetStatus(ctx, workItemID)
}

func (f *fatalRepo) Claim(ctx context.Context, workItemID, providerID string) (etmatch.ClaimOutcome, error) {
	f.calls++
	return "", errorx.NonRetriable("constraint violation")
}

func (f *fatalRepo) Release(ctx context.Context, workItemID, providerID string) (etmatch.ReleaseOutcome, error) {
	return f.inner.Release(ctx, workItemID, providerID)
}
