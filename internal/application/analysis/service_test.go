package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commstack/letterlens/internal/application"
	domai "github.com/commstack/letterlens/internal/domain/ai"
	domain "github.com/commstack/letterlens/internal/domain/analysis"
	"github.com/commstack/letterlens/internal/infra/ai/pattern"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type fakeAI struct {
	partial *domain.Partial
	err     error
}

func (f *fakeAI) AnalyzeLetter(ctx context.Context, content, customerName string) (*domain.Partial, error) {
	return f.partial, f.err
}

type panickingFallback struct{}

func (panickingFallback) Analyze(content, customerName string, now time.Time) *domain.Result {
	panic("scorer blew up")
}

type memoryRepo struct {
	saved []*domain.Record
}

func (m *memoryRepo) Save(ctx context.Context, rec *domain.Record) error {
	m.saved = append(m.saved, rec)
	return nil
}

func (m *memoryRepo) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Record, error) {
	for _, r := range m.saved {
		if r.ID == id && r.TenantID == tenant {
			return r, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *memoryRepo) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedRecords, error) {
	return domain.PaginatedRecords{Data: m.saved, Page: 1, PageSize: pageSize, Total: int64(len(m.saved)), TotalPages: 1}, nil
}

func (m *memoryRepo) Summary(ctx context.Context, tenant string, sinceDays int) (domain.Summary, error) {
	return domain.Summary{TotalAnalyses: len(m.saved)}, nil
}

func newService(ai domai.Client, repo domain.Repository) *Service {
	return &Service{
		AI:       ai,
		Fallback: pattern.NewAnalyzer(),
		Repo:     repo,
		Clock:    application.FixedClock{T: testNow},
	}
}

func TestAnalyze_AIPath(t *testing.T) {
	score := 77
	summary := "Model verdict."
	ai := &fakeAI{partial: &domain.Partial{OverallScore: &score, ExecutiveSummary: &summary}}

	svc := newService(ai, nil)
	res := svc.Analyze(context.Background(), "Thank you for banking with us.", "Alice")

	assert.Equal(t, 77, res.OverallScore)
	assert.Equal(t, "Model verdict.", res.ExecutiveSummary)
	assert.Equal(t, domain.MethodAI, res.Method)
	assert.Equal(t, testNow.Format(time.RFC3339), res.Timestamp)
	// template fill keeps the record complete
	assert.Equal(t, domain.CategoryNeutral, res.Sentiment.Category)
	assert.NotNil(t, res.RedFlags)
}

func TestAnalyze_FallsBackWhenModelFails(t *testing.T) {
	ai := &fakeAI{err: domai.ErrNoResult}

	svc := newService(ai, nil)
	res := svc.Analyze(context.Background(), "Thank you for your business, we appreciate you", "Alice")

	assert.Equal(t, domain.MethodPattern, res.Method)
	assert.Equal(t, 100, res.OverallScore)
	assert.True(t, res.ReadyToSend)
}

func TestAnalyze_FallsBackOnQuota(t *testing.T) {
	ai := &fakeAI{err: domai.ErrQuotaExceeded}

	svc := newService(ai, nil)
	res := svc.Analyze(context.Background(), "Your statement is enclosed.", "")

	assert.Equal(t, domain.MethodPattern, res.Method)
}

func TestAnalyze_NoModelConfigured(t *testing.T) {
	svc := newService(nil, nil)
	res := svc.Analyze(context.Background(), "A fee applies.", "")

	assert.Equal(t, domain.MethodPattern, res.Method)
	assert.False(t, res.ReadyToSend)
}

func TestAnalyze_PanicBecomesErrorRecord(t *testing.T) {
	svc := &Service{
		Fallback: panickingFallback{},
		Clock:    application.FixedClock{T: testNow},
	}
	res := svc.Analyze(context.Background(), "anything", "")

	require.NotNil(t, res)
	assert.Equal(t, domain.MethodError, res.Method)
	assert.Equal(t, "Analysis failed: scorer blew up. Manual review required.", res.ExecutiveSummary)
	require.Len(t, res.RedFlags, 1)
	assert.Equal(t, "scorer blew up", res.RedFlags[0].Impact)
}

func TestAnalyzeAndStore(t *testing.T) {
	repo := &memoryRepo{}
	svc := newService(nil, repo)

	rec, err := svc.AnalyzeAndStore(context.Background(), AnalyzeCommand{
		TenantID:     "lloyds",
		CustomerName: "Alice",
		Content:      "Thank you for your business, we appreciate you",
	})
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)

	assert.Equal(t, "lloyds", rec.TenantID)
	assert.Equal(t, domain.MethodPattern, rec.Method)
	assert.Equal(t, 100, rec.OverallScore)
	assert.True(t, rec.ReadyToSend)
	// id carries the method suffix for quick eyeballing in logs
	assert.Contains(t, string(rec.ID), "-pattern_analysis")
}

type memoryArtifacts struct {
	keys map[string][]byte
}

func (m *memoryArtifacts) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if m.keys == nil {
		m.keys = map[string][]byte{}
	}
	m.keys[key] = data
	return "http://artifacts.local/" + key, nil
}

func TestExport(t *testing.T) {
	repo := &memoryRepo{}
	store := &memoryArtifacts{}
	svc := newService(nil, repo)
	svc.Artifacts = store

	rec, err := svc.AnalyzeAndStore(context.Background(), AnalyzeCommand{
		TenantID: "lloyds",
		Content:  "Your statement is enclosed.",
	})
	require.NoError(t, err)

	url, err := svc.Export(context.Background(), "lloyds", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://artifacts.local/lloyds/analysis/"+string(rec.ID)+".json", url)
	assert.Contains(t, string(store.keys["lloyds/analysis/"+string(rec.ID)+".json"]), `"overall_score":0`)
}

func TestExport_NoStoreConfigured(t *testing.T) {
	svc := newService(nil, &memoryRepo{})
	_, err := svc.Export(context.Background(), "lloyds", "x")
	assert.Error(t, err)
}
