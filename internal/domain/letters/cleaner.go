package letters

import (
	"fmt"
	"regexp"
	"strings"
)

// CleanedLetter is letter content after template-artifact removal, with a
// report of what was stripped.
type CleanedLetter struct {
	Content          string   `json:"content"`
	OriginalLength   int      `json:"original_length"`
	CleanedLength    int      `json:"cleaned_length"`
	ArtifactsRemoved []string `json:"artifacts_removed"`
	StructureFixed   bool     `json:"structure_fixed"`
	QualityScore     float64  `json:"quality_score"`
}

var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[Bank\s+Name\s+Letterhead\]`),
	regexp.MustCompile(`(?i)\[Bank\s+Letterhead\s+Placeholder\]`),
	regexp.MustCompile(`(?i)\[Bank\s+Name\]`),
	regexp.MustCompile(`(?i)\[Bank\s+Address\]`),
	regexp.MustCompile(`(?i)\[Date\]`),
	regexp.MustCompile(`(?i)\[Customer\s+Name\]`),
	regexp.MustCompile(`(?i)\[Customer\s+Address\]`),
	regexp.MustCompile(`(?i)\[Account\s+Name\]`),
	regexp.MustCompile(`(?i)\[Account\s+Number\]`),
	regexp.MustCompile(`(?i)\[XXXXXX\]`),
	regexp.MustCompile(`(?i)\[Customer\s+Services\s+Number\]`),
	regexp.MustCompile(`(?i)\[Effective\s+Date\]`),
	regexp.MustCompile(`(?i)\[Name\]`),
	regexp.MustCompile(`(?i)\[[^\]]*?\s+Letterhead[^\]]*?\]`),
	regexp.MustCompile(`(?i)\[[^\]]*?Placeholder[^\]]*?\]`),
}

var structureArtifacts = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Address Line \d+`),
	regexp.MustCompile(`(?i)Postcode`),
	regexp.MustCompile(`(?i)\[[^\]]*?Address[^\]]*?\]`),
	regexp.MustCompile(`(?i)Important:\s*Important:`),
}

var (
	duplicateGreeting = regexp.MustCompile(`(?i)Dear\s+[^,\n]*,\s*Dear\s+([^,\n]*,)`)
	duplicateHeader   = regexp.MustCompile(`(?i)Important:\s*Important:`)
	blankRuns         = regexp.MustCompile(`\n\s*\n\s*\n+`)
	spaceBeforePunct  = regexp.MustCompile(`\s+([,.!?])`)
	missingSpaceAfter = regexp.MustCompile(`([,.!?])([A-Za-z])`)
	leftoverBrackets  = regexp.MustCompile(`\[[^\]]*?\]`)
	greetingRe        = regexp.MustCompile(`(?i)Dear\s+\w+`)
	closingRe         = regexp.MustCompile(`(?i)sincerely|regards`)
)

// Clean removes template placeholders and structural duplicates, then
// normalizes formatting. It is the first step of every personalization run.
func Clean(raw string) CleanedLetter {
	removed := []string{}
	content := raw

	for _, re := range placeholderPatterns {
		for _, m := range re.FindAllString(content, -1) {
			removed = append(removed, "Placeholder: "+m)
		}
		content = re.ReplaceAllString(content, "")
	}

	if n := len(duplicateGreeting.FindAllString(content, -1)); n > 0 {
		removed = append(removed, fmt.Sprintf("Fixed duplicate greetings: %d instances", n))
		// Keep the second, more personalized greeting.
		content = duplicateGreeting.ReplaceAllString(content, "Dear $1")
	}
	if n := len(duplicateHeader.FindAllString(content, -1)); n > 0 {
		removed = append(removed, fmt.Sprintf("Removed duplicate 'Important:' headers: %d", n))
		content = duplicateHeader.ReplaceAllString(content, "Important:")
	}
	content = dropRepeatedLines(content, &removed)

	for _, re := range structureArtifacts {
		for _, m := range re.FindAllString(content, -1) {
			removed = append(removed, "Structure artifact: "+m)
		}
		content = re.ReplaceAllString(content, "")
	}

	content = normalize(content)

	return CleanedLetter{
		Content:          content,
		OriginalLength:   len(raw),
		CleanedLength:    len(content),
		ArtifactsRemoved: removed,
		StructureFixed:   len(removed) > 0,
		QualityScore:     assessQuality(content),
	}
}

func dropRepeatedLines(content string, removed *[]string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	prev := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			out = append(out, line)
		case trimmed != prev:
			out = append(out, line)
			prev = trimmed
		default:
			snippet := trimmed
			if len(snippet) > 50 {
				snippet = snippet[:50] + "..."
			}
			*removed = append(*removed, "Removed duplicate line: "+snippet)
		}
	}
	return strings.Join(out, "\n")
}

func normalize(content string) string {
	content = blankRuns.ReplaceAllString(content, "\n\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = strings.Join(lines, "\n")
	content = spaceBeforePunct.ReplaceAllString(content, "$1")
	content = missingSpaceAfter.ReplaceAllString(content, "$1 $2")
	return strings.TrimSpace(content)
}

func assessQuality(content string) float64 {
	score := 1.0
	score -= float64(len(leftoverBrackets.FindAllString(content, -1))) * 0.1
	if greetingRe.MatchString(content) {
		score += 0.1
	}
	if closingRe.MatchString(content) {
		score += 0.1
	}
	if len(strings.TrimSpace(content)) > 100 {
		score += 0.1
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Validate flags leftover placeholders, duplicate greetings and suspicious
// shrinkage after cleaning.
func (c CleanedLetter) Validate() (issues, warnings []string) {
	if left := leftoverBrackets.FindAllString(c.Content, -1); len(left) > 0 {
		issues = append(issues, fmt.Sprintf("Remaining placeholders: %v", left))
	}
	if n := len(greetingRe.FindAllString(c.Content, -1)); n > 1 {
		warnings = append(warnings, fmt.Sprintf("Multiple greetings detected: %d", n))
	}
	if c.OriginalLength > 0 {
		reduction := float64(c.OriginalLength-c.CleanedLength) / float64(c.OriginalLength) * 100
		if reduction > 30 {
			warnings = append(warnings, fmt.Sprintf("Significant content reduction: %.1f%%", reduction))
		}
	}
	if c.CleanedLength < 200 {
		issues = append(issues, "Cleaned content is very short - may have over-cleaned")
	}
	return issues, warnings
}
