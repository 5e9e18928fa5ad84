package analysis

import (
	"time"
)

// ID tipe untuk Analysis
type AnalysisID string

// Method enum: terminal states of one analysis call
type Method string

const (
	MethodPending Method = "pending"
	MethodAI      Method = "ai_analysis"
	MethodPattern Method = "pattern_analysis"
	MethodError   Method = "error"
)

// Category enum for sentiment
type Category string

const (
	CategoryPositive Category = "positive"
	CategoryNeutral  Category = "neutral"
	CategoryNegative Category = "negative"
)

// ComplianceStatus enum
type ComplianceStatus string

const (
	CompliancePass    ComplianceStatus = "pass"
	ComplianceWarning ComplianceStatus = "warning"
	ComplianceFail    ComplianceStatus = "fail"
)

// Sentiment value object
type Sentiment struct {
	Score    int      `json:"score"`
	Category Category `json:"category"`
	Why      string   `json:"why"`
}

// Compliance value object
type Compliance struct {
	Status ComplianceStatus `json:"status"`
	Score  int              `json:"score"`
	Why    string           `json:"why"`
}

// CustomerImpact value object
type CustomerImpact struct {
	ComplaintRisk int    `json:"complaint_risk"`
	CallRisk      int    `json:"call_risk"`
	Why           string `json:"why"`
}

// Readability value object
type Readability struct {
	Score      int     `json:"score"`
	GradeLevel float64 `json:"grade_level"`
	Why        string  `json:"why"`
}

// Flag is one red flag or warning entry
type Flag struct {
	Issue  string `json:"issue"`
	Impact string `json:"impact"`
	Fix    string `json:"fix"`
}

// QuickWin is one suggested text improvement
type QuickWin struct {
	Original string `json:"original"`
	Improved string `json:"improved"`
	Why      string `json:"why"`
}

// Result is the fixed-shape record produced by every analysis call.
// Every field is always populated, even on failure; downstream consumers
// never need presence checks. Records are never mutated after return.
type Result struct {
	OverallScore     int            `json:"overall_score"`
	ReadyToSend      bool           `json:"ready_to_send"`
	ExecutiveSummary string         `json:"executive_summary"`
	Sentiment        Sentiment      `json:"sentiment"`
	Compliance       Compliance     `json:"compliance"`
	CustomerImpact   CustomerImpact `json:"customer_impact"`
	Readability      Readability    `json:"readability"`
	RedFlags         []Flag         `json:"red_flags"`
	Warnings         []Flag         `json:"warnings"`
	QuickWins        []QuickWin     `json:"quick_wins"`
	Timestamp        string         `json:"timestamp"`
	Method           Method         `json:"method"`
}

// EmptyResult is the canonical pending template. Slices are allocated so the
// record serializes with [] instead of null.
func EmptyResult(now time.Time) Result {
	return Result{
		OverallScore:     0,
		ReadyToSend:      false,
		ExecutiveSummary: "Analysis pending...",
		Sentiment: Sentiment{
			Score:    0,
			Category: CategoryNeutral,
			Why:      "Analysis not yet complete",
		},
		Compliance: Compliance{
			Status: ComplianceWarning,
			Score:  50,
			Why:    "Compliance check pending",
		},
		CustomerImpact: CustomerImpact{
			ComplaintRisk: 50,
			CallRisk:      50,
			Why:           "Impact assessment pending",
		},
		Readability: Readability{
			Score:      50,
			GradeLevel: 10,
			Why:        "Readability check pending",
		},
		RedFlags:  []Flag{},
		Warnings:  []Flag{},
		QuickWins: []QuickWin{},
		Timestamp: now.Format(time.RFC3339),
		Method:    MethodPending,
	}
}

// ErrorResult converts an internal failure into a well-formed record. The
// analysis entry point never surfaces a raised failure to its caller.
func ErrorResult(errMsg string, now time.Time) Result {
	r := EmptyResult(now)
	r.OverallScore = 0
	r.ReadyToSend = false
	r.ExecutiveSummary = "Analysis failed: " + errMsg + ". Manual review required."
	r.Method = MethodError
	r.RedFlags = []Flag{{
		Issue:  "Analysis failed",
		Impact: errMsg,
		Fix:    "Retry analysis or review manually",
	}}
	return r
}

// Normalize fills nil slices so exported JSON always carries [] for the
// list-valued fields.
func (r *Result) Normalize() {
	if r.RedFlags == nil {
		r.RedFlags = []Flag{}
	}
	if r.Warnings == nil {
		r.Warnings = []Flag{}
	}
	if r.QuickWins == nil {
		r.QuickWins = []QuickWin{}
	}
}
