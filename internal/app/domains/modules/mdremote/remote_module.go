package mdremote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"flp/matchd/internal/app/domains/entity/etmatch"
	"flp/matchd/internal/app/domains/repo/rpwork"
	"flp/matchd/internal/app/infra/mq/lmstfy"
	"flp/matchd/internal/app/infra/persistence/redis"
	"flp/matchd/internal/app/pkg/errorx"
	"flp/matchd/internal/app/pkg/logger"
	"flp/matchd/internal/common/model"
)

// RemotePass 远端撮合通道接口
// 严格尽力而为：缺席、超时、出错都不得阻塞或降级本地匹配结果
type RemotePass interface {
	// ProposeMatches 请求远端撮合引擎为服务商提议额外候选
	ProposeMatches(ctx context.Context, providerID string, timeout time.Duration) ([]etmatch.Candidate, error)
}

// RemoteModule 远端撮合模块
// 职责：
// 1. 向 lmstfy 队列发布撮合请求
// 2. Smart Wait：订阅 Redis 回复频道，限时等待撮合引擎推送结果
// 3. 将提议的工单ID水合为领域对象（校验交给 Merger 的强制重校验）
type RemoteModule struct {
	lmstfyClient *lmstfy.Client
	redisClient  *redis.PubSubClient
	workRepo     rpwork.WorkItemRepository
	queueName    string
	logger       logger.Logger
}

// NewRemoteModule 创建远端撮合模块实例
func NewRemoteModule(
	lmstfyClient *lmstfy.Client,
	redisClient *redis.PubSubClient,
	workRepo rpwork.WorkItemRepository,
	queueName string,
	log logger.Logger,
) *RemoteModule {
	return &RemoteModule{
		lmstfyClient: lmstfyClient,
		redisClient:  redisClient,
		workRepo:     workRepo,
		queueName:    queueName,
		logger:       log,
	}
}

// ProposeMatches 请求远端撮合并限时等待结果
func (m *RemoteModule) ProposeMatches(ctx context.Context, providerID string, timeout time.Duration) ([]etmatch.Candidate, error) {
	requestID := uuid.New().String()
	replyChannel := fmt.Sprintf("matchd:proposals:%s", requestID)

	// 1. 构造标准化消息格式并发布到撮合队列
	job := model.ProposeMatchesJob{
		Payload: model.ProposeMatchesPayload{
			Data: model.ProposeMatchesData{
				RequestID:    requestID,
				ActionType:   "propose_matches",
				ProviderID:   providerID,
				ReplyChannel: replyChannel,
			},
		},
	}

	if err := m.lmstfyClient.Publish(ctx, m.queueName, job); err != nil {
		return nil, fmt.Errorf("publish propose-matches job failed: %w", err)
	}

	// 2. Smart Wait：限时等待撮合引擎向回复频道推送结果
	payload, err := m.redisClient.Subscribe(ctx, replyChannel, timeout)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: request=%s", errorx.ErrRemotePassTimeout, requestID)
		}
		return nil, fmt.Errorf("wait for remote proposals failed: %w", err)
	}

	var result model.ProposeMatchesResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("parse remote proposals failed: %w", err)
	}

	// 3. 水合工单ID为领域对象
	// 已消失的工单直接跳过；入选校验由 Merger 的强制重校验完成
	candidates := make([]etmatch.Candidate, 0, len(result.Proposals))
	for _, proposal := range result.Proposals {
		item, err := m.workRepo.GetByID(ctx, proposal.WorkItemID)
		if err != nil {
			m.logger.Debugf(ctx, "[RemotePass] skip proposal %s: %v", proposal.WorkItemID, err)
			continue
		}
		candidates = append(candidates, etmatch.Candidate{
			Item:   item,
			Source: etmatch.SourceRemote,
		})
	}

	m.logger.Infof(ctx, "[RemotePass] request=%s provider=%s proposals=%d hydrated=%d",
		requestID, providerID, len(result.Proposals), len(candidates))

	return candidates, nil
}
