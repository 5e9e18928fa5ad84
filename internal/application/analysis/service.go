package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/commstack/letterlens/internal/application"
	domai "github.com/commstack/letterlens/internal/domain/ai"
	domain "github.com/commstack/letterlens/internal/domain/analysis"
)

// Fallback is the offline scorer contract. It must never fail.
type Fallback interface {
	Analyze(content, customerName string, now time.Time) *domain.Result
}

// Service implements use-cases untuk letter analysis.
// Safe for concurrent use: each call operates on its own input and output.
type Service struct {
	AI        domai.Client // nil when no model credential is configured
	Fallback  Fallback
	Repo      domain.Repository
	Artifacts domain.ArtifactStore
	Clock     application.Clock
}

//
// ==== USE CASES ====
//

// AnalyzeCommand carries one analysis request
type AnalyzeCommand struct {
	TenantID     string
	CustomerName string
	Content      string
}

// Analyze always returns a fully populated result: model path when
// configured, pattern path otherwise or on model failure, error record when
// something unexpected breaks. The caller never sees a raised failure.
func (s *Service) Analyze(ctx context.Context, content, customerName string) (res *domain.Result) {
	now := s.Clock.Now()
	defer func() {
		if r := recover(); r != nil {
			er := domain.ErrorResult(fmt.Sprint(r), now)
			res = &er
		}
	}()

	if customerName == "" {
		customerName = "Customer"
	}

	if s.AI != nil {
		partial, err := s.AI.AnalyzeLetter(ctx, content, customerName)
		if err == nil && partial != nil {
			method := domain.MethodAI
			partial.Method = &method
			ts := now.Format(time.RFC3339)
			partial.Timestamp = &ts
			full := partial.Complete(now)
			full.Normalize()
			return &full
		}
		if errors.Is(err, domai.ErrQuotaExceeded) {
			log.Printf("analysis: ai quota exceeded, falling back to pattern path")
		} else {
			log.Printf("analysis: ai path unavailable (%v), falling back to pattern path", err)
		}
	}

	result := s.Fallback.Analyze(content, customerName, now)
	result.Normalize()
	return result
}

// AnalyzeAndStore runs one analysis and persists the record.
func (s *Service) AnalyzeAndStore(ctx context.Context, cmd AnalyzeCommand) (*domain.Record, error) {
	result := s.Analyze(ctx, cmd.Content, cmd.CustomerName)

	id := fmt.Sprintf("%s-%s", uuid.New().String(), result.Method)
	rec := &domain.Record{
		ID:           domain.AnalysisID(id),
		TenantID:     cmd.TenantID,
		CustomerName: cmd.CustomerName,
		Method:       result.Method,
		OverallScore: result.OverallScore,
		ReadyToSend:  result.ReadyToSend,
		Result:       *result,
		CreatedAt:    s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving analysis: %w", err)
	}
	return rec, nil
}

// Get ambil 1 analysis by id
func (s *Service) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Record, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// List returns a page of stored analyses
func (s *Service) List(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedRecords, error) {
	return s.Repo.Paginate(ctx, tenant, page, pageSize)
}

// Summary rekap hasil analysis N hari terakhir
func (s *Service) Summary(ctx context.Context, tenant string, sinceDays int) (domain.Summary, error) {
	return s.Repo.Summary(ctx, tenant, sinceDays)
}

// Export serializes a stored result verbatim and uploads it as a
// downloadable artifact, returning the artifact URL.
func (s *Service) Export(ctx context.Context, tenant string, id domain.AnalysisID) (string, error) {
	if s.Artifacts == nil {
		return "", fmt.Errorf("artifact store not configured")
	}
	rec, err := s.Repo.Get(ctx, tenant, id)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(rec.Result)
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	key := fmt.Sprintf("%s/analysis/%s.json", tenant, id)
	return s.Artifacts.Put(ctx, key, data, "application/json")
}
