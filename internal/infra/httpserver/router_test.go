package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commstack/letterlens/internal/application"
	appanalysis "github.com/commstack/letterlens/internal/application/analysis"
	apppers "github.com/commstack/letterlens/internal/application/personalization"
	domain "github.com/commstack/letterlens/internal/domain/analysis"
	domainpers "github.com/commstack/letterlens/internal/domain/personalization"
	"github.com/commstack/letterlens/internal/domain/rules"
	"github.com/commstack/letterlens/internal/infra/ai/pattern"
	"github.com/commstack/letterlens/internal/middleware"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type memAnalysisRepo struct {
	recs map[domain.AnalysisID]*domain.Record
}

func (m *memAnalysisRepo) Save(ctx context.Context, rec *domain.Record) error {
	if m.recs == nil {
		m.recs = map[domain.AnalysisID]*domain.Record{}
	}
	m.recs[rec.ID] = rec
	return nil
}

func (m *memAnalysisRepo) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Record, error) {
	rec, ok := m.recs[id]
	if !ok || rec.TenantID != tenant {
		return nil, sql.ErrNoRows
	}
	return rec, nil
}

func (m *memAnalysisRepo) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedRecords, error) {
	var out []*domain.Record
	for _, r := range m.recs {
		if r.TenantID == tenant {
			out = append(out, r)
		}
	}
	return domain.PaginatedRecords{Data: out, Page: 1, PageSize: pageSize, Total: int64(len(out)), TotalPages: 1}, nil
}

func (m *memAnalysisRepo) Summary(ctx context.Context, tenant string, sinceDays int) (domain.Summary, error) {
	return domain.Summary{TotalAnalyses: len(m.recs)}, nil
}

type memPersRepo struct {
	recs []*domainpers.Record
}

func (m *memPersRepo) Save(ctx context.Context, rec *domainpers.Record) error {
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memPersRepo) Paginate(ctx context.Context, tenant string, page, pageSize int) (domainpers.PaginatedRecords, error) {
	return domainpers.PaginatedRecords{Data: m.recs, Page: 1, PageSize: pageSize, Total: int64(len(m.recs)), TotalPages: 1}, nil
}

func newTestRouter() (http.Handler, *memAnalysisRepo, *memPersRepo) {
	analysisRepo := &memAnalysisRepo{}
	persRepo := &memPersRepo{}
	clock := application.FixedClock{T: testNow}

	analysisSvc := &appanalysis.Service{
		Fallback: pattern.NewAnalyzer(),
		Repo:     analysisRepo,
		Clock:    clock,
	}
	persSvc := &apppers.Service{
		Offline: pattern.NewPersonalizer(),
		Rules:   rules.New(nil),
		Repo:    persRepo,
		Clock:   clock,
	}
	return NewRouter(analysisSvc, persSvc, nil), analysisRepo, persRepo
}

func TestRouter_HealthProbes(t *testing.T) {
	h, _, _ := newTestRouter()

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_AnalyzeRoundTrip(t *testing.T) {
	h, _, _ := newTestRouter()

	body := `{"content": "Thank you for your business, we appreciate you", "customer_name": "Alice"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/lloyds/analysis", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 100, got.OverallScore)
	assert.True(t, got.ReadyToSend)
	assert.Equal(t, domain.MethodPattern, got.Method)

	// fetch it back by id
	req = httptest.NewRequest(http.MethodGet, "/v1/lloyds/analysis/"+string(got.ID), nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AnalyzeRejectsEmptyContent(t *testing.T) {
	h, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/lloyds/analysis", strings.NewReader(`{"content": ""}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_GetUnknownAnalysisIs404(t *testing.T) {
	h, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/lloyds/analysis/123e4567-e89b-12d3-a456-426614174000-pattern_analysis", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_GetMalformedAnalysisIDIs400(t *testing.T) {
	h, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/lloyds/analysis/bogus", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Summary(t *testing.T) {
	h, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/lloyds/summary?days=30", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got domain.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
}

func TestRouter_Personalize(t *testing.T) {
	h, _, persRepo := newTestRouter()

	body := `{
		"letter": "Dear Customer,\n\nFrom September 15, 2025 a monthly fee applies. No action is needed.",
		"customer": {"name": "Mrs Smith", "age": 67}
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/lloyds/personalize", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got apppers.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got.Bundle.Email, "Dear Mrs Smith,")
	assert.Equal(t, "pattern_personalization", got.Method)
	assert.Len(t, persRepo.recs, 1)
}

func TestRouter_PersonalizeSingleChannel(t *testing.T) {
	h, _, _ := newTestRouter()

	body := `{
		"letter": "Dear Customer,\n\nFrom September 15, 2025 a monthly fee applies. No action is needed.",
		"channel": "SMS",
		"customer": {"name": "Jake", "age": 24, "digital_logins_per_month": 45}
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/lloyds/personalize", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Channel string `json:"channel"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "sms", got.Channel)
	assert.NotEmpty(t, got.Content)
	assert.LessOrEqual(t, len(got.Content), 160)
}

func TestRouter_PersonalizeRejectsUnknownChannel(t *testing.T) {
	h, _, _ := newTestRouter()

	body := `{"letter": "Dear Customer,\n\nYour branch hours change.", "channel": "fax", "customer": {"name": "Jake"}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/lloyds/personalize", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_TenantMismatchIsForbidden(t *testing.T) {
	h, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/hsbc/summary", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.TenantKey, "lloyds"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_PersonalizeBatch(t *testing.T) {
	h, _, persRepo := newTestRouter()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("letter", "Dear Customer,\n\nYour branch hours change on 01/10/2025."))
	fw, err := mw.CreateFormFile("customers", "customers.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("name,age\nAlice,30\nBob,72\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/lloyds/personalize/batch", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Total   int `json:"total"`
		Results []struct {
			Customer string `json:"customer"`
			Error    string `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, "Alice", got.Results[0].Customer)
	assert.Empty(t, got.Results[0].Error)
	assert.Len(t, persRepo.recs, 2)
}

func TestRouter_PersonalizationList(t *testing.T) {
	h, _, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/lloyds/personalizations", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ExportWithoutStoreFails(t *testing.T) {
	h, repo, _ := newTestRouter()

	rec0 := &domain.Record{
		ID:       "123e4567-e89b-12d3-a456-426614174000-pattern_analysis",
		TenantID: "lloyds",
	}
	require.NoError(t, repo.Save(context.Background(), rec0))

	req := httptest.NewRequest(http.MethodPost, "/v1/lloyds/analysis/"+string(rec0.ID)+"/export", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
