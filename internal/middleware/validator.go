package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// maxLetterBytes bounds letter payloads; anything larger is rejected before
// analysis to keep prompt sizes and DB rows sane.
const maxLetterBytes = 100 * 1024

// ValidateChannel checks if the channel name is in the allowed list
func ValidateChannel(channel string) error {
	allowed := map[string]bool{
		"email":  true,
		"sms":    true,
		"app":    true,
		"letter": true,
	}

	if !allowed[strings.ToLower(channel)] {
		return fmt.Errorf("invalid channel: %s (allowed: email, sms, app, letter)", channel)
	}
	return nil
}

// ValidateLetterContent rejects empty or oversized letter bodies
func ValidateLetterContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("letter content cannot be empty")
	}
	if len(content) > maxLetterBytes {
		return fmt.Errorf("letter content too large (max %d bytes)", maxLetterBytes)
	}
	return nil
}

// ValidateCustomerName allows letters, spaces and common name punctuation
func ValidateCustomerName(name string) error {
	if name == "" {
		return nil // Optional field
	}
	if len(name) > 128 {
		return fmt.Errorf("customer name too long (max 128 chars)")
	}
	pattern := `^[\p{L}0-9 .,'-]+$`
	matched, _ := regexp.MatchString(pattern, name)
	if !matched {
		return fmt.Errorf("invalid characters in customer name")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}

	// Allow alphanumeric, dash, underscore (max 64 chars)
	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, tenant)
	if !matched {
		return fmt.Errorf("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}

	return nil
}

// ValidateAnalysisID validates analysis ID format
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis ID cannot be empty")
	}

	// UUID pattern with method suffix: uuid-method
	pattern := `^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}-.+$`
	matched, _ := regexp.MatchString(pattern, id)
	if !matched {
		return fmt.Errorf("invalid analysis ID format")
	}

	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidateDays validates days parameter
func ValidateDays(days int) int {
	if days <= 0 {
		return 7 // default
	}
	if days > 365 {
		return 365 // max 1 year
	}
	return days
}
