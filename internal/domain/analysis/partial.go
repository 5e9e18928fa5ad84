package analysis

import "time"

// Partial mirrors Result with optional fields. Model responses decode into it;
// Complete fills anything the model left out from the pending template so the
// complete-record invariant holds no matter which path produced the candidate.

type PartialSentiment struct {
	Score    *int      `json:"score"`
	Category *Category `json:"category"`
	Why      *string   `json:"why"`
}

type PartialCompliance struct {
	Status *ComplianceStatus `json:"status"`
	Score  *int              `json:"score"`
	Why    *string           `json:"why"`
}

type PartialCustomerImpact struct {
	ComplaintRisk *int    `json:"complaint_risk"`
	CallRisk      *int    `json:"call_risk"`
	Why           *string `json:"why"`
}

type PartialReadability struct {
	Score      *int     `json:"score"`
	GradeLevel *float64 `json:"grade_level"`
	Why        *string  `json:"why"`
}

type Partial struct {
	OverallScore     *int                   `json:"overall_score"`
	ReadyToSend      *bool                  `json:"ready_to_send"`
	ExecutiveSummary *string                `json:"executive_summary"`
	Sentiment        *PartialSentiment      `json:"sentiment"`
	Compliance       *PartialCompliance     `json:"compliance"`
	CustomerImpact   *PartialCustomerImpact `json:"customer_impact"`
	Readability      *PartialReadability    `json:"readability"`
	RedFlags         []Flag                 `json:"red_flags"`
	Warnings         []Flag                 `json:"warnings"`
	QuickWins        []QuickWin             `json:"quick_wins"`
	Timestamp        *string                `json:"timestamp"`
	Method           *Method                `json:"method"`
}

// Complete merges the candidate onto the pending template. Set fields are
// never overwritten; nested objects are filled one level deep, matching the
// template-fill-missing-keys rule of the source system.
func (p *Partial) Complete(now time.Time) Result {
	r := EmptyResult(now)
	if p == nil {
		return r
	}
	if p.OverallScore != nil {
		r.OverallScore = *p.OverallScore
	}
	if p.ReadyToSend != nil {
		r.ReadyToSend = *p.ReadyToSend
	}
	if p.ExecutiveSummary != nil {
		r.ExecutiveSummary = *p.ExecutiveSummary
	}
	if p.Sentiment != nil {
		if p.Sentiment.Score != nil {
			r.Sentiment.Score = *p.Sentiment.Score
		}
		if p.Sentiment.Category != nil {
			r.Sentiment.Category = *p.Sentiment.Category
		}
		if p.Sentiment.Why != nil {
			r.Sentiment.Why = *p.Sentiment.Why
		}
	}
	if p.Compliance != nil {
		if p.Compliance.Status != nil {
			r.Compliance.Status = *p.Compliance.Status
		}
		if p.Compliance.Score != nil {
			r.Compliance.Score = *p.Compliance.Score
		}
		if p.Compliance.Why != nil {
			r.Compliance.Why = *p.Compliance.Why
		}
	}
	if p.CustomerImpact != nil {
		if p.CustomerImpact.ComplaintRisk != nil {
			r.CustomerImpact.ComplaintRisk = *p.CustomerImpact.ComplaintRisk
		}
		if p.CustomerImpact.CallRisk != nil {
			r.CustomerImpact.CallRisk = *p.CustomerImpact.CallRisk
		}
		if p.CustomerImpact.Why != nil {
			r.CustomerImpact.Why = *p.CustomerImpact.Why
		}
	}
	if p.Readability != nil {
		if p.Readability.Score != nil {
			r.Readability.Score = *p.Readability.Score
		}
		if p.Readability.GradeLevel != nil {
			r.Readability.GradeLevel = *p.Readability.GradeLevel
		}
		if p.Readability.Why != nil {
			r.Readability.Why = *p.Readability.Why
		}
	}
	if p.RedFlags != nil {
		r.RedFlags = p.RedFlags
	}
	if p.Warnings != nil {
		r.Warnings = p.Warnings
	}
	if p.QuickWins != nil {
		r.QuickWins = p.QuickWins
	}
	if p.Timestamp != nil {
		r.Timestamp = *p.Timestamp
	}
	if p.Method != nil {
		r.Method = *p.Method
	}
	return r
}
