package request

// ClaimRequest 抢单请求
type ClaimRequest struct {
	ProviderID string `json:"provider_id" binding:"required"`
}

// ReleaseRequest 释放请求
type ReleaseRequest struct {
	ProviderID string `json:"provider_id" binding:"required"`
}
