package personalization

import (
	"time"

	"github.com/commstack/letterlens/internal/domain/customers"
)

// BundleID tipe untuk stored personalizations
type BundleID string

// Depth enum: how far personalization goes beyond name substitution
type Depth string

const (
	DepthSurface  Depth = "surface"
	DepthModerate Depth = "moderate"
	DepthDeep     Depth = "deep"
	DepthHyper    Depth = "hyper"
)

// Bundle holds one personalized rendition per delivery channel.
// SMS is capped at 160 characters by the generators.
type Bundle struct {
	Email  string `json:"email"`
	SMS    string `json:"sms"`
	App    string `json:"app"`
	Letter string `json:"letter"`
}

// Channels returns the bundle as a channel-name map, the shape the
// fabrication detector walks.
func (b *Bundle) Channels() map[string]string {
	return map[string]string{
		"email":  b.Email,
		"sms":    b.SMS,
		"app":    b.App,
		"letter": b.Letter,
	}
}

// Plan carries the tone and emphasis decisions that drive generation.
type Plan struct {
	Tone            string   `json:"tone"`
	TechnicalLevel  string   `json:"technical_level"`
	ChannelEmphasis string   `json:"channel_emphasis"`
	Depth           Depth    `json:"depth"`
	Story           string   `json:"story"`
	MustMention     []string `json:"must_mention"`
	Notes           []string `json:"notes"`
}

// BuildPlan derives a plan from the customer profile. Rule evaluation may
// override individual fields afterwards.
func BuildPlan(c *customers.Customer) *Plan {
	p := &Plan{
		Tone:        c.Formality(),
		Depth:       DepthSurface,
		MustMention: []string{},
		Notes:       []string{},
	}

	profile := c.DigitalProfile()
	switch profile {
	case "digital-first", "digitally-engaged":
		p.ChannelEmphasis = "app and online banking"
		p.TechnicalLevel = "comfortable with digital terms"
	case "hybrid-user", "occasional-digital":
		p.ChannelEmphasis = "balance all channels"
		p.TechnicalLevel = "plain language"
	default:
		p.ChannelEmphasis = "phone and branch"
		p.TechnicalLevel = "avoid technical jargon"
	}

	opportunities := 0
	if c.YearsWithBank > 5 {
		p.MustMention = append(p.MustMention, "acknowledge long-standing relationship")
		opportunities++
	}
	if c.RecentLifeEvents != "" && c.RecentLifeEvents != "None" {
		p.MustMention = append(p.MustMention, "acknowledge recent life event: "+c.RecentLifeEvents)
		opportunities++
	}
	if c.RequiresSupport {
		p.Notes = append(p.Notes, "customer requires extra support; keep steps explicit")
		opportunities++
	}
	if c.AccessibilityNeeds != "" && c.AccessibilityNeeds != "None" {
		p.Notes = append(p.Notes, "accessibility needs: "+c.AccessibilityNeeds)
		opportunities++
	}
	if profile != "traditional-preferred" {
		opportunities++
	}

	switch {
	case opportunities >= 4:
		p.Depth = DepthHyper
	case opportunities == 3:
		p.Depth = DepthDeep
	case opportunities == 2:
		p.Depth = DepthModerate
	}

	p.Story = c.DisplayName() + " is a " + c.LifeStage() + ", " + profile +
		" customer with a " + c.FinancialContext() + " profile"
	return p
}

// Record is one stored personalization run
type Record struct {
	ID           BundleID  `json:"id"`
	TenantID     string    `json:"tenant_id"`
	CustomerName string    `json:"customer_name"`
	Bundle       Bundle    `json:"bundle"`
	RiskScore    float64   `json:"risk_score"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
}

// PaginatedRecords represents a paginated response with data and metadata
type PaginatedRecords struct {
	Data       []*Record `json:"data"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	Total      int64     `json:"totalItems"`
	TotalPages int       `json:"totalPages"`
}
