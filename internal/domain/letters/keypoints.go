package letters

import (
	"regexp"
	"strings"
)

// Importance enum for key points
type Importance string

const (
	ImportanceCritical   Importance = "critical"
	ImportanceImportant  Importance = "important"
	ImportanceContextual Importance = "contextual"
)

// KeyPoint is a fact extracted from the source letter that personalized
// output must preserve.
type KeyPoint struct {
	Content     string     `json:"content"`
	Importance  Importance `json:"importance"`
	Category    string     `json:"category"`
	Explanation string     `json:"explanation"`
}

var (
	numericDateRe = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	wordDateRe    = regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\b`)
	amountRe      = regexp.MustCompile(`[£$€]\s*\d+(?:,\d{3})*(?:\.\d{2})?`)
	phoneRe       = regexp.MustCompile(`\b0\d{3}\s?\d{3}\s?\d{4}\b`)
	freephoneRe   = regexp.MustCompile(`\b0800\s?\d{3}\s?\d{3,4}\b`)
	websiteRe     = regexp.MustCompile(`(?:www\.|https?://)?[a-zA-Z0-9-]+(?:\.[a-zA-Z0-9-]+)+(?:/[^\s]*)?`)
	featureRe     = regexp.MustCompile(`you can now [^.]+`)
)

// ExtractKeyPoints runs the pattern extraction over the letter. Detection
// order is insertion order: dates, amounts, contacts, websites, features,
// closing. Falls back to the core message when nothing matches.
func ExtractKeyPoints(content string) []KeyPoint {
	var points []KeyPoint
	lower := strings.ToLower(content)

	for _, re := range []*regexp.Regexp{numericDateRe, wordDateRe} {
		for _, m := range re.FindAllString(content, -1) {
			points = append(points, KeyPoint{
				Content:     "Date: " + m,
				Importance:  ImportanceCritical,
				Category:    "date",
				Explanation: "Specific date found",
			})
		}
	}

	for _, m := range amountRe.FindAllString(content, -1) {
		points = append(points, KeyPoint{
			Content:     "Amount: " + m,
			Importance:  ImportanceCritical,
			Category:    "amount",
			Explanation: "Monetary amount found",
		})
	}

	for _, re := range []*regexp.Regexp{phoneRe, freephoneRe} {
		for _, m := range re.FindAllString(content, -1) {
			points = append(points, KeyPoint{
				Content:     "Contact: " + m,
				Importance:  ImportanceImportant,
				Category:    "contact",
				Explanation: "Contact number",
			})
		}
	}

	seen := 0
	for _, m := range websiteRe.FindAllString(content, -1) {
		if seen >= 2 {
			break
		}
		if len(m) > 10 && strings.Contains(strings.ToLower(m), "bank") {
			points = append(points, KeyPoint{
				Content:     "Website: " + m,
				Importance:  ImportanceImportant,
				Category:    "contact",
				Explanation: "Website URL",
			})
			seen++
		}
	}

	features := featureRe.FindAllString(lower, -1)
	if len(features) > 3 {
		features = features[:3]
	}
	for _, m := range features {
		points = append(points, KeyPoint{
			Content:     strings.TrimSpace(m),
			Importance:  ImportanceImportant,
			Category:    "feature",
			Explanation: "New capability or feature",
		})
	}

	if strings.Contains(lower, "thank you for banking with us") {
		points = append(points, KeyPoint{
			Content:     "Thank you for banking with us",
			Importance:  ImportanceContextual,
			Category:    "closing",
			Explanation: "Letter closing",
		})
	}

	if len(points) == 0 {
		points = coreMessage(content)
	}
	return points
}

// coreMessage takes the first substantial paragraph when no structured facts
// were found.
func coreMessage(content string) []KeyPoint {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 50 && !strings.HasPrefix(line, "Dear") && !strings.HasPrefix(line, "Sincerely") {
			if len(line) > 200 {
				line = line[:200]
			}
			return []KeyPoint{{
				Content:     "Main message: " + line,
				Importance:  ImportanceImportant,
				Category:    "message",
				Explanation: "Core letter message",
			}}
		}
	}
	return nil
}
