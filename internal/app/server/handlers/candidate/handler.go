package candidate

import "flp/matchd/internal/app/domains/services/svmatch"

// CandidateHandler 候选查询 HTTP 处理器
type CandidateHandler struct {
	matchService *svmatch.MatchService
}

// NewCandidateHandler 创建候选查询处理器实例
func NewCandidateHandler(matchService *svmatch.MatchService) *CandidateHandler {
	return &CandidateHandler{
		matchService: matchService,
	}
}
