// Package pattern holds the deterministic offline analyzers used when no
// model endpoint is configured or the model path yields no result.
package pattern

import (
	"fmt"
	"strings"
	"time"

	"github.com/commstack/letterlens/internal/domain/analysis"
)

// Word lists for the fallback scorer. Membership is a substring test, not a
// frequency count.
var positiveWords = []string{"pleased", "happy", "thank", "appreciate", "valued", "benefit", "opportunity"}
var negativeWords = []string{"unfortunately", "regret", "sorry", "unable", "charge", "fee", "penalty", "decline"}

// Analyzer is the pattern-based fallback scorer. It has no external
// dependencies and never fails.
type Analyzer struct{}

func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze maps free text to a fully populated result via word-list counts
// and fixed thresholds. The customer name is accepted for interface parity
// but does not affect scoring.
func (a *Analyzer) Analyze(content, _ string, now time.Time) *analysis.Result {
	lower := strings.ToLower(content)

	positiveCount := 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positiveCount++
		}
	}
	negativeCount := 0
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negativeCount++
		}
	}

	// Truncation toward zero, matching the reference scorer.
	score := 0
	if positiveCount+negativeCount > 0 {
		score = int(float64(positiveCount-negativeCount) / float64(positiveCount+negativeCount) * 100)
	}

	category := analysis.CategoryNeutral
	if score > 30 {
		category = analysis.CategoryPositive
	} else if score < -30 {
		category = analysis.CategoryNegative
	}

	hasFees := strings.Contains(lower, "fee") || strings.Contains(lower, "charge")
	isTooLong := len(strings.Fields(content)) > 500

	feeNote := "No major issues found."
	complianceStatus := analysis.CompliancePass
	complianceScore := 80
	complianceWhy := "Basic compliance met"
	complaintRisk, callRisk := 20, 30
	impactWhy := "Low risk content"
	if hasFees {
		feeNote = "Fee mentions detected - review needed."
		complianceStatus = analysis.ComplianceWarning
		complianceScore = 60
		complianceWhy = "Fee disclosure needs review"
		complaintRisk, callRisk = 60, 70
		impactWhy = "Fees often trigger customer contact"
	}

	readabilityScore, gradeLevel := 70, 9.0
	readabilityWhy := "Reasonable length"
	if isTooLong {
		readabilityScore, gradeLevel = 40, 12.0
		readabilityWhy = "Email is too long"
	}

	result := &analysis.Result{
		OverallScore:     score,
		ReadyToSend:      score >= -20 && !hasFees,
		ExecutiveSummary: fmt.Sprintf("Email scores %d/100 based on word analysis. %s", score, feeNote),
		Sentiment: analysis.Sentiment{
			Score:    score,
			Category: category,
			Why:      fmt.Sprintf("Found %d positive and %d negative indicators", positiveCount, negativeCount),
		},
		Compliance: analysis.Compliance{
			Status: complianceStatus,
			Score:  complianceScore,
			Why:    complianceWhy,
		},
		CustomerImpact: analysis.CustomerImpact{
			ComplaintRisk: complaintRisk,
			CallRisk:      callRisk,
			Why:           impactWhy,
		},
		Readability: analysis.Readability{
			Score:      readabilityScore,
			GradeLevel: gradeLevel,
			Why:        readabilityWhy,
		},
		RedFlags:  []analysis.Flag{},
		Warnings:  []analysis.Flag{},
		QuickWins: []analysis.QuickWin{},
		Timestamp: now.Format(time.RFC3339),
		Method:    analysis.MethodPattern,
	}

	if hasFees {
		result.RedFlags = append(result.RedFlags, analysis.Flag{
			Issue:  "Fee mentioned without clear justification",
			Impact: "May trigger complaints",
			Fix:    "Add clear explanation of value provided",
		})
	}
	if isTooLong {
		result.Warnings = append(result.Warnings, analysis.Flag{
			Issue:  "Email is too long",
			Impact: "Customer may not read it fully",
			Fix:    "Reduce to under 300 words",
		})
	}
	if negativeCount > positiveCount {
		result.Warnings = append(result.Warnings, analysis.Flag{
			Issue:  "Negative tone detected",
			Impact: "May upset customer",
			Fix:    "Balance with more positive language",
		})
	}

	return result
}
