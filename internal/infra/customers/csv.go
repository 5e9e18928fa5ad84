package customers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	domain "github.com/commstack/letterlens/internal/domain/customers"
)

// LoadCSV reads customer profiles from a headered CSV stream. Column order
// does not matter; unknown columns are ignored and missing columns leave the
// zero value in place.
func LoadCSV(r io.Reader) ([]*domain.Customer, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[normalizeHeader(h)] = i
	}

	var out []*domain.Customer
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}
		out = append(out, parseRow(rec, idx))
	}
	return out, nil
}

func parseRow(rec []string, idx map[string]int) *domain.Customer {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	return &domain.Customer{
		Name:                  field("name"),
		Age:                   parseInt(field("age")),
		PreferredLanguage:     field("preferred_language"),
		AccountBalance:        parseFloat(field("account_balance")),
		IncomeLevel:           field("income_level"),
		DigitalLoginsPerMonth: parseInt(field("digital_logins_per_month")),
		MobileAppUsage:        field("mobile_app_usage"),
		EmailOpensPerMonth:    parseInt(field("email_opens_per_month")),
		PhoneCallsPerMonth:    parseInt(field("phone_calls_per_month")),
		BranchVisitsPerMonth:  parseInt(field("branch_visits_per_month")),
		AccountType:           field("account_type"),
		YearsWithBank:         parseInt(field("years_with_bank")),
		RecentTransactions:    parseInt(field("recent_transactions")),
		RequiresSupport:       parseBool(field("requires_support")),
		RecentLifeEvents:      field("recent_life_events"),
		FamilyStatus:          field("family_status"),
		AccessibilityNeeds:    field("accessibility_needs"),
		EmploymentStatus:      field("employment_status"),
		PrefersDigital:        parseBool(field("prefers_digital")),
	}
}

func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	h = strings.ReplaceAll(h, " ", "_")
	return strings.TrimPrefix(h, "\uFEFF")
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1":
		return true
	}
	return false
}
