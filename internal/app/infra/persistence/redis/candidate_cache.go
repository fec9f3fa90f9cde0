package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CandidateCache 候选列表缓存（按服务商隔离）
// 仅作参考用途：容忍过期，定时或收到失效信号后刷新，
// 绝不作为抢单决策的权威依据
type CandidateCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCandidateCache 创建候选缓存客户端
func NewCandidateCache(addr, password string, db int, ttl time.Duration) (*CandidateCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &CandidateCache{rdb: rdb, ttl: ttl}, nil
}

// cacheKey 缓存键（每个服务商独立，跨服务商绝不共享）
func cacheKey(providerID string) string {
	return fmt.Sprintf("matchd:candidates:%s", providerID)
}

// Set 写入服务商的候选列表快照
func (c *CandidateCache) Set(ctx context.Context, providerID string, payload []byte) error {
	return c.rdb.Set(ctx, cacheKey(providerID), payload, c.ttl).Err()
}

// Get 读取服务商的候选列表快照；未命中返回 nil
func (c *CandidateCache) Get(ctx context.Context, providerID string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, cacheKey(providerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Invalidate 删除服务商的缓存快照（收到变更通知时）
func (c *CandidateCache) Invalidate(ctx context.Context, providerID string) error {
	return c.rdb.Del(ctx, cacheKey(providerID)).Err()
}

// InvalidateAll 删除所有候选缓存（工单级变更影响面未知时）
func (c *CandidateCache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, "matchd:candidates:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close 关闭连接
func (c *CandidateCache) Close() error {
	return c.rdb.Close()
}
