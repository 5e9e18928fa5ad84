package prompt

import (
	"fmt"
	"strings"

	"github.com/commstack/letterlens/internal/domain/customers"
	"github.com/commstack/letterlens/internal/domain/personalization"
)

// AnalysisSystemPrompt provides strict directions and schema for JSON output.
func AnalysisSystemPrompt() string {
	return `You are a banking communications analyst. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- overall_score and sentiment.score range from -100 to 100 (0 is neutral).
- compliance.score, customer_impact.complaint_risk, customer_impact.call_risk and readability.score range from 0 to 100.
- sentiment.category is one of: positive, neutral, negative.
- compliance.status is one of: pass, warning, fail.
- red_flags, warnings and quick_wins are arrays; keep items concise.
- Focus on practical banking concerns: TCF compliance, clarity, and customer satisfaction.

Schema (example with empty values):
{
  "overall_score": 0,
  "ready_to_send": false,
  "executive_summary": "<2-3 sentence summary with reasoning>",
  "sentiment": {"score": 0, "category": "<positive|neutral|negative>", "why": "<string>"},
  "compliance": {"status": "<pass|warning|fail>", "score": 0, "why": "<string>"},
  "customer_impact": {"complaint_risk": 0, "call_risk": 0, "why": "<string>"},
  "readability": {"score": 0, "grade_level": 0, "why": "<string>"},
  "red_flags": [{"issue": "<string>", "impact": "<string>", "fix": "<string>"}],
  "warnings": [{"issue": "<string>", "impact": "<string>", "fix": "<string>"}],
  "quick_wins": [{"original": "<string>", "improved": "<string>", "why": "<string>"}]
}`
}

// AnalysisUserPrompt builds the user message around the email body.
func AnalysisUserPrompt(content, customerName string) string {
	return fmt.Sprintf("Analyze this banking email for sentiment and compliance.\n\nEMAIL:\n%s\n\nCUSTOMER: %s\n\nRespond with the JSON per schema.", content, customerName)
}

// PersonalizationSystemPrompt directs channel generation with preservation rules.
func PersonalizationSystemPrompt() string {
	return `You are a bank communication specialist. Personalize the given letter for the given customer while STRICTLY preserving all important information.

CRITICAL RULES:
- EMAIL and LETTER must contain 100% of the information from the original.
- Do NOT omit any URLs, phone numbers, dates, or amounts.
- Do NOT invent staff names, branch locations, amounts, dates, or contact details.
- SMS must be at most 160 characters: critical facts only (dates, amounts, action required).
- APP notification must be under 100 words with key information.

Return ONLY a JSON object with keys: email, sms, app, letter.`
}

// PersonalizationUserPrompt folds the letter, the customer profile and the
// plan into one user message.
func PersonalizationUserPrompt(letter string, cust *customers.Customer, plan *personalization.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ORIGINAL LETTER (SOURCE OF TRUTH):\n%s\n\n", letter)
	fmt.Fprintf(&b, "CUSTOMER PROFILE:\n")
	fmt.Fprintf(&b, "- Name: %s\n", cust.DisplayName())
	fmt.Fprintf(&b, "- Age: %d (%s)\n", cust.Age, cust.LifeStage())
	fmt.Fprintf(&b, "- Preferred Language: %s (WRITE EVERYTHING IN THIS LANGUAGE)\n", cust.Language())
	fmt.Fprintf(&b, "- Account Balance: £%.2f (%s)\n", cust.AccountBalance, cust.FinancialContext())
	fmt.Fprintf(&b, "- Digital Activity: %d app logins per month (%s)\n", cust.DigitalLoginsPerMonth, cust.DigitalProfile())
	fmt.Fprintf(&b, "- Account Type: %s, customer for %d years\n", cust.AccountType, cust.YearsWithBank)
	fmt.Fprintf(&b, "- Requires Extra Support: %t\n", cust.RequiresSupport)
	if cust.RecentLifeEvents != "" && cust.RecentLifeEvents != "None" {
		fmt.Fprintf(&b, "- Recent Life Events: %s\n", cust.RecentLifeEvents)
	}
	if cust.AccessibilityNeeds != "" && cust.AccessibilityNeeds != "None" {
		fmt.Fprintf(&b, "- Accessibility Needs: %s\n", cust.AccessibilityNeeds)
	}
	if plan != nil {
		fmt.Fprintf(&b, "\nPERSONALIZATION PLAN:\n")
		fmt.Fprintf(&b, "- Tone: %s\n", plan.Tone)
		fmt.Fprintf(&b, "- Technical level: %s\n", plan.TechnicalLevel)
		fmt.Fprintf(&b, "- Channel emphasis: %s\n", plan.ChannelEmphasis)
		fmt.Fprintf(&b, "- Depth: %s\n", plan.Depth)
		fmt.Fprintf(&b, "- Customer story: %s\n", plan.Story)
		for _, m := range plan.MustMention {
			fmt.Fprintf(&b, "- Must mention: %s\n", m)
		}
		for _, n := range plan.Notes {
			fmt.Fprintf(&b, "- Note: %s\n", n)
		}
	}
	b.WriteString("\nGenerate personalized versions. Return ONLY the JSON object with keys: email, sms, app, letter.")
	return b.String()
}
