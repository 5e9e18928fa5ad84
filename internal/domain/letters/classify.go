package letters

import (
	"fmt"
	"strings"
)

// DocumentType enum
type DocumentType string

const (
	TypeRegulatory    DocumentType = "REGULATORY"
	TypePromotional   DocumentType = "PROMOTIONAL"
	TypeInformational DocumentType = "INFORMATIONAL"
	TypeTransactional DocumentType = "TRANSACTIONAL"
	TypeService       DocumentType = "SERVICE"
	TypeUrgent        DocumentType = "URGENT"
)

// Classification is the keyword-scored document profile used to pick tone
// and urgency before generation.
type Classification struct {
	Primary            DocumentType             `json:"primary_classification"`
	Confidence         float64                  `json:"confidence_score"`
	Scores             map[DocumentType]float64 `json:"classification_scores"`
	KeyIndicators      []string                 `json:"key_indicators"`
	UrgencyLevel       string                   `json:"urgency_level"`
	ComplianceRequired bool                     `json:"compliance_required"`
	ActionRequired     bool                     `json:"customer_action_required"`
}

var regulatoryTerms = []string{
	"terms and conditions", "regulatory", "compliance", "legal requirement",
	"mandatory", "required by law", "payment services regulations",
	"important changes", "notice of changes", "must inform",
}

var promotionalTerms = []string{
	"offer", "save", "exclusive", "limited time", "special rate",
	"earn rewards", "bonus", "discount", "opportunity", "benefit",
}

var urgentTerms = []string{
	"urgent", "immediate", "action required", "deadline", "expires",
	"must act", "time sensitive", "asap", "critical",
}

var actionTerms = []string{"action required", "must", "need to", "please"}

// Classify scores the letter against the category keyword lists.
func Classify(content string) Classification {
	lower := strings.ToLower(content)

	scores := map[DocumentType]float64{
		TypeRegulatory:    0,
		TypePromotional:   0,
		TypeInformational: 0,
		TypeTransactional: 0,
		TypeService:       0,
		TypeUrgent:        0,
	}
	var indicators []string

	for _, term := range regulatoryTerms {
		if strings.Contains(lower, term) {
			scores[TypeRegulatory] += 0.15
			indicators = append(indicators, fmt.Sprintf("Found regulatory term: '%s'", term))
		}
	}
	for _, term := range promotionalTerms {
		if strings.Contains(lower, term) {
			scores[TypePromotional] += 0.12
			indicators = append(indicators, fmt.Sprintf("Found promotional term: '%s'", term))
		}
	}
	for _, term := range urgentTerms {
		if strings.Contains(lower, term) {
			scores[TypeUrgent] += 0.2
			indicators = append(indicators, fmt.Sprintf("Urgency indicator: '%s'", term))
		}
	}

	dates := append(numericDateRe.FindAllString(content, -1), wordDateRe.FindAllString(content, -1)...)
	if len(dates) > 0 {
		indicators = append(indicators, fmt.Sprintf("Contains %d date reference(s)", len(dates)))
	}
	amounts := amountRe.FindAllString(content, -1)
	if len(amounts) > 0 {
		indicators = append(indicators, fmt.Sprintf("Contains %d financial amount(s)", len(amounts)))
		scores[TypeTransactional] += 0.1
	}

	total := 0.0
	for _, v := range scores {
		total += v
	}
	if total == 0 {
		scores[TypeInformational] = 0.6
		total = 0.6
	}

	// Fixed iteration order keeps ties deterministic.
	order := []DocumentType{TypeRegulatory, TypeUrgent, TypeTransactional, TypePromotional, TypeService, TypeInformational}
	primary := TypeInformational
	best := -1.0
	for _, k := range order {
		if scores[k] > best {
			primary, best = k, scores[k]
		}
	}

	normalized := make(map[DocumentType]float64, len(scores))
	for k, v := range scores {
		normalized[k] = v / total
	}

	urgency := "LOW"
	if scores[TypeUrgent] > 0.3 {
		urgency = "HIGH"
	} else if len(dates) > 0 {
		urgency = "MEDIUM"
	}

	action := false
	for _, term := range actionTerms {
		if strings.Contains(lower, term) {
			action = true
			break
		}
	}

	if len(indicators) > 10 {
		indicators = indicators[:10]
	}

	conf := best / total
	if conf > 1 {
		conf = 1
	}

	return Classification{
		Primary:            primary,
		Confidence:         conf,
		Scores:             normalized,
		KeyIndicators:      indicators,
		UrgencyLevel:       urgency,
		ComplianceRequired: strings.Contains(lower, "regulatory") || strings.Contains(lower, "compliance"),
		ActionRequired:     action,
	}
}
