package model

// ProposeMatchesJob 远端撮合任务消息（标准化）
// 用于 matchd → 远端撮合引擎的消息传递
type ProposeMatchesJob struct {
	Payload ProposeMatchesPayload `json:"payload"`
}

// ProposeMatchesPayload Job 负载
type ProposeMatchesPayload struct {
	Data ProposeMatchesData `json:"data"`
}

// ProposeMatchesData Job 数据层
type ProposeMatchesData struct {
	// 元信息
	RequestID  string `json:"request_id"`  // 请求 ID（全链路追踪）
	ActionType string `json:"action_type"` // 动作类型，固定值 "propose_matches"
	ProviderID string `json:"provider_id"` // 服务商 ID

	// 回复通道：撮合引擎计算完成后向该 Redis 频道发布结果
	ReplyChannel string `json:"reply_channel"`
}

// ProposedMatch 远端撮合引擎提议的单个候选
// 远端结果默认不可信，入选前必须重新通过本地过滤器校验
type ProposedMatch struct {
	WorkItemID string `json:"work_item_id"`
}

// ProposeMatchesResult 远端撮合回复消息
type ProposeMatchesResult struct {
	RequestID string          `json:"request_id"`
	Proposals []ProposedMatch `json:"proposals"`
}
