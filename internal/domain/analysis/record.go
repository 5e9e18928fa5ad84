package analysis

import "time"

// Record is an analysis stored for auditing and retrieval
type Record struct {
	ID           AnalysisID `json:"id"`
	TenantID     string     `json:"tenant_id"`
	CustomerName string     `json:"customer_name"`
	Method       Method     `json:"method"`
	OverallScore int        `json:"overall_score"`
	ReadyToSend  bool       `json:"ready_to_send"`
	Result       Result     `json:"result"`
	CreatedAt    time.Time  `json:"created_at"`
}

// PaginatedRecords represents a paginated response with data and metadata
type PaginatedRecords struct {
	Data       []*Record `json:"data"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	Total      int64     `json:"totalItems"`
	TotalPages int       `json:"totalPages"`
}

// Summary rekap hasil analysis N hari terakhir
type Summary struct {
	TotalAnalyses int     `json:"total_analyses"`
	ReadyToSend   int     `json:"ready_to_send"`
	Errors        int     `json:"errors"`
	AverageScore  float64 `json:"average_score"`
}
