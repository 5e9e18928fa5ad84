package ai

import (
	"context"

	"github.com/commstack/letterlens/internal/domain/analysis"
	"github.com/commstack/letterlens/internal/domain/customers"
	"github.com/commstack/letterlens/internal/domain/personalization"
)

// Client is the model-backed analysis boundary. Implementations return
// ErrNoResult when the model produced nothing decodable; callers fall back to
// the pattern path instead of propagating the failure.
type Client interface {
	AnalyzeLetter(ctx context.Context, content, customerName string) (*analysis.Partial, error)
}

// Personalizer generates the per-channel bundle from a letter and a plan.
type Personalizer interface {
	PersonalizeLetter(ctx context.Context, letter string, cust *customers.Customer, plan *personalization.Plan) (*personalization.Bundle, error)
}
