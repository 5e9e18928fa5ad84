package customers

// Customer is the attribute mapping a letter is personalized against.
// Field names follow the customer CSV headers.
type Customer struct {
	Name                  string  `json:"name"`
	Age                   int     `json:"age"`
	PreferredLanguage     string  `json:"preferred_language"`
	AccountBalance        float64 `json:"account_balance"`
	IncomeLevel           string  `json:"income_level"`
	DigitalLoginsPerMonth int     `json:"digital_logins_per_month"`
	MobileAppUsage        string  `json:"mobile_app_usage"`
	EmailOpensPerMonth    int     `json:"email_opens_per_month"`
	PhoneCallsPerMonth    int     `json:"phone_calls_per_month"`
	BranchVisitsPerMonth  int     `json:"branch_visits_per_month"`
	AccountType           string  `json:"account_type"`
	YearsWithBank         int     `json:"years_with_bank"`
	RecentTransactions    int     `json:"recent_transactions"`
	RequiresSupport       bool    `json:"requires_support"`
	RecentLifeEvents      string  `json:"recent_life_events"`
	FamilyStatus          string  `json:"family_status"`
	AccessibilityNeeds    string  `json:"accessibility_needs"`
	EmploymentStatus      string  `json:"employment_status"`
	PrefersDigital        bool    `json:"prefers_digital"`
}

// DisplayName falls back to the generic salutation when no name is known.
func (c *Customer) DisplayName() string {
	if c == nil || c.Name == "" {
		return "Valued Customer"
	}
	return c.Name
}

// Language defaults to English.
func (c *Customer) Language() string {
	if c == nil || c.PreferredLanguage == "" {
		return "English"
	}
	return c.PreferredLanguage
}

// LifeStage buckets age into a tone-relevant stage.
func (c *Customer) LifeStage() string {
	switch {
	case c.Age < 25:
		return "young adult"
	case c.Age < 35:
		return "early career"
	case c.Age < 45:
		return "established professional"
	case c.Age < 55:
		return "mid-career"
	case c.Age < 65:
		return "pre-retirement"
	default:
		return "retirement age"
	}
}

// FinancialContext buckets balance into a framing for product mentions.
func (c *Customer) FinancialContext() string {
	switch {
	case c.AccountBalance < 500:
		return "budget-conscious"
	case c.AccountBalance < 2000:
		return "everyday banking"
	case c.AccountBalance < 10000:
		return "building savings"
	case c.AccountBalance < 50000:
		return "established saver"
	default:
		return "wealth management focus"
	}
}

// DigitalProfile classifies engagement so channel emphasis can follow usage.
func (c *Customer) DigitalProfile() string {
	switch {
	case c.DigitalLoginsPerMonth > 20 || c.MobileAppUsage == "Daily":
		return "digital-first"
	case c.DigitalLoginsPerMonth > 10 || c.MobileAppUsage == "Weekly":
		return "digitally-engaged"
	case c.DigitalLoginsPerMonth > 5:
		return "hybrid-user"
	case c.DigitalLoginsPerMonth > 0:
		return "occasional-digital"
	default:
		return "traditional-preferred"
	}
}

// Formality maps age to a tone guideline.
func (c *Customer) Formality() string {
	switch {
	case c.Age > 0 && c.Age < 30:
		return "casual and friendly"
	case c.Age > 60:
		return "respectful and clear"
	default:
		return "professional"
	}
}

// Context flattens the profile to a dot-addressable map for the rules engine.
func (c *Customer) Context() map[string]any {
	return map[string]any{
		"customer": map[string]any{
			"name":                     c.Name,
			"age":                      c.Age,
			"preferred_language":       c.PreferredLanguage,
			"account_balance":          c.AccountBalance,
			"income_level":             c.IncomeLevel,
			"digital_logins_per_month": c.DigitalLoginsPerMonth,
			"mobile_app_usage":         c.MobileAppUsage,
			"email_opens_per_month":    c.EmailOpensPerMonth,
			"phone_calls_per_month":    c.PhoneCallsPerMonth,
			"branch_visits_per_month":  c.BranchVisitsPerMonth,
			"account_type":             c.AccountType,
			"years_with_bank":          c.YearsWithBank,
			"recent_transactions":      c.RecentTransactions,
			"requires_support":         c.RequiresSupport,
			"recent_life_events":       c.RecentLifeEvents,
			"family_status":            c.FamilyStatus,
			"accessibility_needs":      c.AccessibilityNeeds,
			"employment_status":        c.EmploymentStatus,
			"prefers_digital":          c.PrefersDigital,
			"life_stage":               c.LifeStage(),
			"digital_profile":          c.DigitalProfile(),
			"financial_context":        c.FinancialContext(),
		},
	}
}
