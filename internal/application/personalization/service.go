package personalization

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/commstack/letterlens/internal/application"
	domai "github.com/commstack/letterlens/internal/domain/ai"
	"github.com/commstack/letterlens/internal/domain/customers"
	"github.com/commstack/letterlens/internal/domain/letters"
	domain "github.com/commstack/letterlens/internal/domain/personalization"
	"github.com/commstack/letterlens/internal/domain/rules"
	"github.com/commstack/letterlens/internal/domain/verify"
)

const smsLimit = 160

// Offline is the deterministic generator used when no model is configured
// or the model path yields nothing.
type Offline interface {
	Personalize(letter string, cust *customers.Customer, plan *domain.Plan) *domain.Bundle
}

// Service implements the personalization use-cases.
type Service struct {
	AI      domai.Personalizer // nil when no model credential is configured
	Offline Offline
	Rules   *rules.Engine
	Repo    domain.Repository
	Clock   application.Clock
}

// Outcome is the full result of one personalization run.
type Outcome struct {
	ID             domain.BundleID        `json:"id"`
	Bundle         domain.Bundle          `json:"bundle"`
	Plan           *domain.Plan           `json:"plan"`
	Cleaning       letters.CleanedLetter  `json:"cleaning"`
	Classification letters.Classification `json:"classification"`
	KeyPoints      []letters.KeyPoint     `json:"key_points"`
	Verification   verify.Report          `json:"verification"`
	Method         string                 `json:"method"`
	CreatedAt      time.Time              `json:"created_at"`
}

// Personalize cleans the letter, plans tone and emphasis, generates the
// channel bundle, verifies it against the source and stores the run.
func (s *Service) Personalize(ctx context.Context, tenant string, letter string, cust *customers.Customer) (*Outcome, error) {
	now := s.Clock.Now()

	cleaned := letters.Clean(letter)
	classification := letters.Classify(cleaned.Content)
	keyPoints := letters.ExtractKeyPoints(cleaned.Content)

	plan := domain.BuildPlan(cust)
	s.applyRules(plan, cust)
	for _, kp := range keyPoints {
		if kp.Importance == letters.ImportanceCritical {
			plan.MustMention = append(plan.MustMention, kp.Content)
		}
	}
	if classification.UrgencyLevel == "HIGH" {
		plan.Notes = append(plan.Notes, "urgent communication; lead with the deadline")
	}

	bundle, method := s.generate(ctx, cleaned.Content, cust, plan)
	capSMS(bundle)

	report := verify.Detect(cleaned.Content, bundle.Channels())

	rec := &domain.Record{
		ID:           domain.BundleID(uuid.New().String()),
		TenantID:     tenant,
		CustomerName: cust.DisplayName(),
		Bundle:       *bundle,
		RiskScore:    report.RiskScore,
		Verified:     len(report.HighSeverity()) == 0,
		CreatedAt:    now,
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving personalization: %w", err)
	}

	return &Outcome{
		ID:             rec.ID,
		Bundle:         *bundle,
		Plan:           plan,
		Cleaning:       cleaned,
		Classification: classification,
		KeyPoints:      keyPoints,
		Verification:   report,
		Method:         method,
		CreatedAt:      now,
	}, nil
}

// List returns a page of stored personalization runs
func (s *Service) List(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedRecords, error) {
	return s.Repo.Paginate(ctx, tenant, page, pageSize)
}

func (s *Service) generate(ctx context.Context, letter string, cust *customers.Customer, plan *domain.Plan) (*domain.Bundle, string) {
	if s.AI != nil {
		bundle, err := s.AI.PersonalizeLetter(ctx, letter, cust, plan)
		if err == nil && bundle != nil {
			return bundle, "ai_personalization"
		}
		log.Printf("personalization: ai path unavailable (%v), using offline generator", err)
	}
	return s.Offline.Personalize(letter, cust, plan), "pattern_personalization"
}

// applyRules lets configured business rules override plan fields.
func (s *Service) applyRules(plan *domain.Plan, cust *customers.Customer) {
	if s.Rules == nil {
		return
	}
	eval := s.Rules.Evaluate(cust.Context(), []string{"personalization"})
	if v, ok := eval.Values["tone"].(string); ok {
		plan.Tone = v
	}
	if v, ok := eval.Values["channel_emphasis"].(string); ok {
		plan.ChannelEmphasis = v
	}
	if v, ok := eval.Values["technical_level"].(string); ok {
		plan.TechnicalLevel = v
	}
	for _, t := range eval.Tags {
		plan.Notes = append(plan.Notes, "rule tag: "+t)
	}
}

func capSMS(b *domain.Bundle) {
	if len(b.SMS) > smsLimit {
		b.SMS = b.SMS[:smsLimit]
	}
}
