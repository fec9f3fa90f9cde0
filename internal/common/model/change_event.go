package model

// ChangeEvent 变更通知事件
// 外部 Change Notifier 推送的失效信号；缺失只影响新鲜度，不影响正确性
type ChangeEvent struct {
	Entity    string `json:"entity"`     // 变更实体（work_item / coverage）
	EventType string `json:"event_type"` // 事件类型（INSERT / UPDATE / DELETE）
	Row       string `json:"row"`        // 变更行主键
}

// 变更实体常量
const (
	ChangeEntityWorkItem = "work_item"
	ChangeEntityCoverage = "coverage"
)
