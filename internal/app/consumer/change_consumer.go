package consumer

import (
	"context"
	"encoding/json"

	"flp/matchd/internal/app/domains/services/svrefresh"
	"flp/matchd/internal/app/infra/persistence/redis"
	"flp/matchd/internal/app/pkg/logger"
	"flp/matchd/internal/common/model"
)

// ChangeConsumer 变更通知消费者
// 职责：
// 1. 订阅外部 Change Notifier 的 Redis 频道
// 2. 解析变更事件并转发给刷新协调器
// 3. 通知缺失或格式错误只影响新鲜度，绝不影响正确性
type ChangeConsumer struct {
	pubsub      *redis.PubSubClient
	coordinator *svrefresh.Coordinator
	channel     string
	logger      logger.Logger
}

// NewChangeConsumer 创建变更通知消费者实例
func NewChangeConsumer(
	pubsub *redis.PubSubClient,
	coordinator *svrefresh.Coordinator,
	channel string,
	log logger.Logger,
) *ChangeConsumer {
	return &ChangeConsumer{
		pubsub:      pubsub,
		coordinator: coordinator,
		channel:     channel,
		logger:      log,
	}
}

// Start 启动消费循环（阻塞，Context 取消时退出）
func (c *ChangeConsumer) Start(ctx context.Context) error {
	c.logger.Infof(ctx, "[ChangeConsumer] started, channel=%s", c.channel)

	messages := c.pubsub.Listen(ctx, c.channel)

	for {
		select {
		case <-ctx.Done():
			c.logger.Infof(ctx, "[ChangeConsumer] stopped")
			return ctx.Err()
		case payload, ok := <-messages:
			if !ok {
				c.logger.Infof(ctx, "[ChangeConsumer] channel closed")
				return nil
			}
			c.handle(ctx, payload)
		}
	}
}

// handle 处理单条变更事件
func (c *ChangeConsumer) handle(ctx context.Context, payload string) {
	var event model.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		// 格式错误只记日志：失效信号丢失不破坏正确性
		c.logger.Warnf(ctx, "[ChangeConsumer] parse event failed: %v", err)
		return
	}

	c.logger.Debugf(ctx, "[ChangeConsumer] event: entity=%s type=%s row=%s",
		event.Entity, event.EventType, event.Row)

	switch event.Entity {
	case model.ChangeEntityCoverage:
		// 覆盖范围变更只影响单个服务商
		c.coordinator.Request(event.Row)
	case model.ChangeEntityWorkItem:
		// 工单变更影响面未知，全量失效
		c.coordinator.RequestAll()
	default:
		c.logger.Debugf(ctx, "[ChangeConsumer] ignore unknown entity: %s", event.Entity)
	}
}
