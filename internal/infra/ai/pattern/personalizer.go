package pattern

import (
	"regexp"
	"strings"

	"github.com/commstack/letterlens/internal/domain/customers"
	"github.com/commstack/letterlens/internal/domain/personalization"
)

const smsLimit = 160

var (
	wordDateRe = regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\b`)
	amountRe   = regexp.MustCompile(`£\s*\d+(?:,\d{3})*(?:\.\d{2})?`)
	bankURLRe  = regexp.MustCompile(`(?:www\.|https?://)?[a-zA-Z0-9-]*bank[a-zA-Z0-9-]*(?:\.[a-zA-Z0-9-]+)+(?:/[^\s]*)?`)
)

// Personalizer builds a deterministic channel bundle without any model call.
// It is the offline counterpart of the model-backed generator: extraction
// from the source letter only, so it cannot fabricate details.
type Personalizer struct{}

func NewPersonalizer() *Personalizer { return &Personalizer{} }

// Personalize renders the bundle from the letter text and customer profile.
func (p *Personalizer) Personalize(letter string, cust *customers.Customer, plan *personalization.Plan) *personalization.Bundle {
	name := cust.DisplayName()
	greeting := "Dear " + name + ","

	return &personalization.Bundle{
		Email:  p.email(letter, greeting, plan),
		SMS:    p.sms(letter),
		App:    p.app(letter, name),
		Letter: p.letter(letter, greeting),
	}
}

func (p *Personalizer) email(letter, greeting string, plan *personalization.Plan) string {
	body := stripGreeting(letter)
	var b strings.Builder
	b.WriteString(greeting)
	b.WriteString("\n\n")
	b.WriteString(body)
	if plan != nil && plan.ChannelEmphasis == "app and online banking" {
		b.WriteString("\n\nYou can view this update any time in your mobile app.")
	}
	return b.String()
}

// sms condenses the letter to date, amount and action within the 160 char cap.
func (p *Personalizer) sms(letter string) string {
	parts := []string{"Bank update:"}
	date := wordDateRe.FindString(letter)
	amount := amountRe.FindString(letter)
	if date != "" {
		parts = append(parts, date)
	}
	if amount != "" {
		parts = append(parts, "Amount: "+amount)
	}
	if date == "" && amount == "" {
		if url := bankURLRe.FindString(letter); url != "" {
			parts = append(parts, "Visit "+url)
		}
	}
	if strings.Contains(strings.ToLower(letter), "no action") {
		parts = append(parts, "No action needed")
	} else {
		parts = append(parts, "See letter for details")
	}
	sms := strings.Join(parts, " ")
	if len(sms) > smsLimit {
		sms = sms[:smsLimit]
	}
	return sms
}

// app picks the first substantive line as the notification headline.
func (p *Personalizer) app(letter, name string) string {
	lines := strings.Split(letter, "\n")
	limit := 10
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if len(line) > 20 && len(line) < 100 && !strings.HasPrefix(line, "[") && !strings.HasPrefix(line, "Dear") {
			return "Important: " + line
		}
	}
	return "You have a new message from your bank, " + name
}

func (p *Personalizer) letter(letter, greeting string) string {
	return greeting + "\n\n" + stripGreeting(letter)
}

var greetingLineRe = regexp.MustCompile(`(?i)^\s*Dear\s+[^\n]*\n+`)

func stripGreeting(letter string) string {
	return strings.TrimSpace(greetingLineRe.ReplaceAllString(letter, ""))
}
