package verify

import (
	"fmt"
	"regexp"
	"strings"
)

// Category enum for fabricated-detail findings
type Category string

const (
	CategoryPersonName Category = "person_name"
	CategoryLocation   Category = "location"
	CategoryDateTime   Category = "date_time"
	CategoryAmount     Category = "amount"
	CategoryContact    Category = "contact"
)

// Severity enum
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Finding is one suspected fabricated detail in generated content
type Finding struct {
	Text         string   `json:"text"`
	Category     Category `json:"category"`
	Severity     Severity `json:"severity"`
	Context      string   `json:"context"`
	Channel      string   `json:"channel"`
	Explanation  string   `json:"explanation"`
	SuggestedFix string   `json:"suggested_fix"`
	Confidence   float64  `json:"confidence"`
}

// Report aggregates findings across channels with a normalized risk score.
type Report struct {
	Findings        []Finding `json:"findings"`
	RiskScore       float64   `json:"risk_score"`
	Summary         string    `json:"summary"`
	Recommendations []string  `json:"recommendations"`
}

// HighSeverity returns only the high findings.
func (r *Report) HighSeverity() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityHigh {
			out = append(out, f)
		}
	}
	return out
}

var (
	advisorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:Mr\.|Mrs\.|Ms\.|Dr\.)\s+([A-Z][a-z]+)`),
		regexp.MustCompile(`your (?:advisor|manager|representative),?\s+([A-Z][a-z]+)`),
	}
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`at our ([A-Z][a-z]+\s*(?:Street|Road|Avenue|Branch|Office))`),
		regexp.MustCompile(`(?:visit|at|from) our ([A-Z][a-z]+) (?:branch|location|office)`),
	}
	yearRe    = regexp.MustCompile(`\b(1\d{3}|20\d{2})\b`)
	amountRe  = regexp.MustCompile(`[£$€]\s*\d+(?:,\d{3})*(?:\.\d{2})?`)
	phoneRe   = regexp.MustCompile(`\b(?:0\d{3}\s?\d{3}\s?\d{4}|0800\s?\d{3}\s?\d{3,4})\b`)
	webRe     = regexp.MustCompile(`(?:www\.|https?://)[a-zA-Z0-9-]+(?:\.[a-zA-Z0-9-]+)+(?:/[^\s]*)?`)
	severityW = map[Severity]float64{SeverityHigh: 1.0, SeverityMedium: 0.5, SeverityLow: 0.2}
)

// Detect compares each generated channel against the source letter and
// flags details that do not occur in the source. Purely pattern based: the
// deterministic safety net behind the model-backed generators.
func Detect(source string, channels map[string]string) Report {
	var findings []Finding
	for _, channel := range []string{"email", "sms", "app", "letter"} {
		content, ok := channels[channel]
		if !ok || content == "" {
			continue
		}
		findings = append(findings, detectChannel(channel, content, source)...)
	}

	risk := riskScore(findings)
	return Report{
		Findings:        findings,
		RiskScore:       risk,
		Summary:         summarize(findings, risk),
		Recommendations: recommend(findings),
	}
}

func detectChannel(channel, content, source string) []Finding {
	var findings []Finding

	for _, re := range advisorPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
			name := content[m[2]:m[3]]
			if !strings.Contains(source, name) {
				findings = append(findings, Finding{
					Text:         content[m[0]:m[1]],
					Category:     CategoryPersonName,
					Severity:     SeverityHigh,
					Context:      contextAround(content, m[0], m[1]),
					Channel:      channel,
					Explanation:  fmt.Sprintf("The name '%s' does not appear in source data", name),
					SuggestedFix: "Replace with 'your advisor' or 'our team'",
					Confidence:   0.9,
				})
			}
		}
	}

	for _, re := range locationPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
			location := content[m[2]:m[3]]
			if !strings.Contains(source, location) {
				findings = append(findings, Finding{
					Text:         content[m[0]:m[1]],
					Category:     CategoryLocation,
					Severity:     SeverityMedium,
					Context:      contextAround(content, m[0], m[1]),
					Channel:      channel,
					Explanation:  fmt.Sprintf("Location '%s' not mentioned in source data", location),
					SuggestedFix: "Remove specific location or use 'your local branch'",
					Confidence:   0.85,
				})
			}
		}
	}

	for _, m := range yearRe.FindAllStringIndex(content, -1) {
		year := content[m[0]:m[1]]
		if !strings.Contains(source, year) {
			findings = append(findings, Finding{
				Text:         year,
				Category:     CategoryDateTime,
				Severity:     SeverityMedium,
				Context:      contextAround(content, m[0], m[1]),
				Channel:      channel,
				Explanation:  fmt.Sprintf("Year %s not found in source data", year),
				SuggestedFix: "Verify or remove specific year",
				Confidence:   0.7,
			})
		}
	}

	for _, m := range amountRe.FindAllStringIndex(content, -1) {
		amount := content[m[0]:m[1]]
		if !strings.Contains(source, amount) {
			findings = append(findings, Finding{
				Text:         amount,
				Category:     CategoryAmount,
				Severity:     SeverityHigh,
				Context:      contextAround(content, m[0], m[1]),
				Channel:      channel,
				Explanation:  fmt.Sprintf("Amount %s not found in source data", amount),
				SuggestedFix: "Use only amounts from the original letter",
				Confidence:   0.9,
			})
		}
	}

	for _, m := range phoneRe.FindAllStringIndex(content, -1) {
		phone := content[m[0]:m[1]]
		if !strings.Contains(stripSpaces(source), stripSpaces(phone)) {
			findings = append(findings, Finding{
				Text:         phone,
				Category:     CategoryContact,
				Severity:     SeverityHigh,
				Context:      contextAround(content, m[0], m[1]),
				Channel:      channel,
				Explanation:  fmt.Sprintf("Phone number %s not found in source data", phone),
				SuggestedFix: "Use only contact numbers from the original letter",
				Confidence:   0.9,
			})
		}
	}

	for _, m := range webRe.FindAllStringIndex(content, -1) {
		url := content[m[0]:m[1]]
		if !strings.Contains(source, url) {
			findings = append(findings, Finding{
				Text:         url,
				Category:     CategoryContact,
				Severity:     SeverityMedium,
				Context:      contextAround(content, m[0], m[1]),
				Channel:      channel,
				Explanation:  fmt.Sprintf("URL %s not found in source data", url),
				SuggestedFix: "Use only links from the original letter",
				Confidence:   0.8,
			})
		}
	}

	return findings
}

func contextAround(text string, start, end int) string {
	const chars = 100
	s := start - chars
	if s < 0 {
		s = 0
	}
	e := end + chars
	if e > len(text) {
		e = len(text)
	}
	return strings.TrimSpace(text[s:e])
}

func stripSpaces(s string) string { return strings.ReplaceAll(s, " ", "") }

// riskScore weights findings by severity and confidence, normalized to [0,1].
func riskScore(findings []Finding) float64 {
	if len(findings) == 0 {
		return 0
	}
	total := 0.0
	for _, f := range findings {
		total += severityW[f.Severity] * f.Confidence
	}
	risk := total / 10.0
	if risk > 1 {
		risk = 1
	}
	return risk
}

func recommend(findings []Finding) []string {
	recs := []string{}
	seen := map[Category]bool{}
	for _, f := range findings {
		if seen[f.Category] {
			continue
		}
		seen[f.Category] = true
		switch f.Category {
		case CategoryPersonName:
			recs = append(recs, "Remove invented staff names; use role references instead")
		case CategoryLocation:
			recs = append(recs, "Replace specific locations with 'your local branch'")
		case CategoryDateTime:
			recs = append(recs, "Verify every date against the original letter")
		case CategoryAmount:
			recs = append(recs, "Cross-check all monetary amounts against the original letter")
		case CategoryContact:
			recs = append(recs, "Only include contact details present in the original letter")
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "No fabricated details detected; content is safe to review")
	}
	return recs
}

func summarize(findings []Finding, risk float64) string {
	if len(findings) == 0 {
		return "No fabricated details detected across channels"
	}
	high := 0
	for _, f := range findings {
		if f.Severity == SeverityHigh {
			high++
		}
	}
	return fmt.Sprintf("%d potential fabrication(s) found (%d high severity), risk score %.2f", len(findings), high, risk)
}
