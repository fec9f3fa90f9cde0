package response

import (
	"time"

	"flp/matchd/internal/app/domains/entity/etmatch"
)

// CandidateResponse 候选响应
// 匹配层级对调用方可见：松散匹配（REGION/CITY_NAME_ONLY）的工单
// 可能超出服务商实际服务范围，由其自行判断是否接单
type CandidateResponse struct {
	WorkItemID string    `json:"work_item_id"`
	Category   string    `json:"category"`
	MatchTier  string    `json:"match_tier"`
	Origin     GeoView   `json:"origin"`
	Dest       GeoView   `json:"destination"`
	Urgency    string    `json:"urgency"`
	Price      float64   `json:"price"`
	DistanceKm *float64  `json:"distance_km,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// GeoView 地理端点视图
type GeoView struct {
	City       string `json:"city,omitempty"`
	RegionCode string `json:"region_code,omitempty"`
}

// FromCandidate 领域候选转换为响应
func FromCandidate(cand etmatch.Candidate) CandidateResponse {
	return CandidateResponse{
		WorkItemID: cand.Item.ID,
		Category:   string(cand.Item.Category),
		MatchTier:  string(cand.Tier),
		Origin: GeoView{
			City:       cand.Item.Origin.City,
			RegionCode: cand.Item.Origin.RegionCode,
		},
		Dest: GeoView{
			City:       cand.Item.Destination.City,
			RegionCode: cand.Item.Destination.RegionCode,
		},
		Urgency:    string(cand.Item.Urgency),
		Price:      cand.Item.Price,
		DistanceKm: cand.Item.DistanceKm,
		CreatedAt:  cand.Item.CreatedAt,
	}
}

// FromCandidates 批量转换
func FromCandidates(cands []etmatch.Candidate) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(cands))
	for _, cand := range cands {
		out = append(out, FromCandidate(cand))
	}
	return out
}

// ClaimResponse 抢单响应
type ClaimResponse struct {
	WorkItemID string `json:"work_item_id"`
	ProviderID string `json:"provider_id"`
	Outcome    string `json:"outcome"`
}

// ReleaseResponse 释放响应
type ReleaseResponse struct {
	WorkItemID string `json:"work_item_id"`
	ProviderID string `json:"provider_id"`
	Outcome    string `json:"outcome"`
}
