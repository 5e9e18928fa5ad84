package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/commstack/letterlens/internal/application/analysis"
	apppers "github.com/commstack/letterlens/internal/application/personalization"
	domai "github.com/commstack/letterlens/internal/domain/ai"
	domain "github.com/commstack/letterlens/internal/domain/analysis"
	"github.com/commstack/letterlens/internal/domain/customers"
	infracustomers "github.com/commstack/letterlens/internal/infra/customers"
	"github.com/commstack/letterlens/internal/middleware"
)

type Router struct {
	analysisSvc *appanalysis.Service
	persSvc     *apppers.Service
}

func NewRouter(analysisSvc *appanalysis.Service, persSvc *apppers.Service, db *sql.DB) http.Handler {
	r := &Router{analysisSvc: analysisSvc, persSvc: persSvc}
	mux := chi.NewRouter()

	checkers := map[string]middleware.HealthChecker{}
	if db != nil {
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}
	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/analysis", r.wrap(r.handleAnalyze))
		rt.Get("/analysis", r.wrap(r.handleAnalysisList))
		rt.Get("/analysis/{id}", r.wrap(r.handleAnalysisGet))
		rt.Post("/analysis/{id}/export", r.wrap(r.handleAnalysisExport))
		rt.Get("/summary", r.wrap(r.handleSummary))
		rt.Post("/personalize", r.wrap(r.handlePersonalize))
		rt.Post("/personalize/batch", r.wrap(r.handlePersonalizeBatch))
		rt.Get("/personalizations", r.wrap(r.handlePersonalizationList))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return badRequestError{msg: fmt.Sprintf(format, args...)}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var br badRequestError
			if errors.As(err, &br) {
				http.Error(w, br.msg, http.StatusBadRequest)
				return
			}
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, domai.ErrQuotaExceeded) {
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
				return
			}
			if errors.Is(err, middleware.ErrTenantForbidden) {
				http.Error(w, err.Error(), http.StatusForbidden)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// tenantFrom validates the URL tenant and checks it against the
// authenticated tenant, kalau auth aktif.
func tenantFrom(req *http.Request) (string, error) {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return "", badRequest("%s", err)
	}
	if err := middleware.TenantAllowed(req.Context(), tenant); err != nil {
		return "", err
	}
	return tenant, nil
}

// POST /v1/{tenant}/analysis
// Body: {"content": "<letter text>", "customer_name": "..."}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}

	var body struct {
		Content      string `json:"content"`
		CustomerName string `json:"customer_name"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("decoding request: %v", err)
	}
	if err := middleware.ValidateLetterContent(body.Content); err != nil {
		return badRequest("%s", err)
	}
	if err := middleware.ValidateCustomerName(body.CustomerName); err != nil {
		return badRequest("%s", err)
	}

	middleware.IncrementAnalyses()
	rec, err := r.analysisSvc.AnalyzeAndStore(req.Context(), appanalysis.AnalyzeCommand{
		TenantID:     tenant,
		CustomerName: middleware.SanitizeString(body.CustomerName),
		Content:      body.Content,
	})
	if err != nil {
		return err
	}
	if rec.Method == domain.MethodError {
		middleware.IncrementAnalysesErrored()
	} else if rec.Method == domain.MethodPattern {
		middleware.IncrementAnalysesFallback()
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(rec)
}

// GET /v1/{tenant}/analysis?page=&page_size=
func (r *Router) handleAnalysisList(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.analysisSvc.List(req.Context(), tenant, page, middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/analysis/{id}
func (r *Router) handleAnalysisGet(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return badRequest("%s", err)
	}

	rec, err := r.analysisSvc.Get(req.Context(), tenant, domain.AnalysisID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(rec)
}

// POST /v1/{tenant}/analysis/{id}/export
func (r *Router) handleAnalysisExport(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return badRequest("%s", err)
	}

	url, err := r.analysisSvc.Export(req.Context(), tenant, domain.AnalysisID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]string{"artifact_url": url})
}

// GET /v1/{tenant}/summary?days=7
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))

	summary, err := r.analysisSvc.Summary(req.Context(), tenant, middleware.ValidateDays(days))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(summary)
}

// POST /v1/{tenant}/personalize
// Body: {"letter": "<letter text>", "customer": {...}, "channel": "sms"}
// The optional channel field narrows the response to a single channel.
func (r *Router) handlePersonalize(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}

	var body struct {
		Letter   string             `json:"letter"`
		Channel  string             `json:"channel"`
		Customer customers.Customer `json:"customer"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("decoding request: %v", err)
	}
	if err := middleware.ValidateLetterContent(body.Letter); err != nil {
		return badRequest("%s", err)
	}
	if body.Channel != "" {
		if err := middleware.ValidateChannel(body.Channel); err != nil {
			return badRequest("%s", err)
		}
	}

	middleware.IncrementPersonalizations()
	out, err := r.persSvc.Personalize(req.Context(), tenant, body.Letter, &body.Customer)
	if err != nil {
		middleware.IncrementPersonalizationsFailed()
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	if body.Channel != "" {
		channel := strings.ToLower(strings.TrimSpace(body.Channel))
		return json.NewEncoder(w).Encode(map[string]any{
			"channel":  channel,
			"content":  out.Bundle.Channels()[channel],
			"verified": len(out.Verification.HighSeverity()) == 0,
			"method":   out.Method,
		})
	}
	return json.NewEncoder(w).Encode(out)
}

// POST /v1/{tenant}/personalize/batch
// multipart/form-data with a "letter" field and a "customers" CSV file.
func (r *Router) handlePersonalizeBatch(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}

	if err := req.ParseMultipartForm(10 << 20); err != nil {
		return badRequest("parsing multipart form: %v", err)
	}
	letter := req.FormValue("letter")
	if err := middleware.ValidateLetterContent(letter); err != nil {
		return badRequest("%s", err)
	}

	file, _, err := req.FormFile("customers")
	if err != nil {
		return badRequest("customers file is required: %v", err)
	}
	defer file.Close()

	custs, err := infracustomers.LoadCSV(file)
	if err != nil {
		return badRequest("parsing customers csv: %v", err)
	}
	if len(custs) == 0 {
		return badRequest("customers csv has no rows")
	}

	type batchItem struct {
		Customer string           `json:"customer"`
		Outcome  *apppers.Outcome `json:"outcome,omitempty"`
		Error    string           `json:"error,omitempty"`
	}
	items := make([]batchItem, 0, len(custs))
	for _, c := range custs {
		middleware.IncrementPersonalizations()
		out, err := r.persSvc.Personalize(req.Context(), tenant, letter, c)
		if err != nil {
			middleware.IncrementPersonalizationsFailed()
			items = append(items, batchItem{Customer: c.DisplayName(), Error: err.Error()})
			continue
		}
		items = append(items, batchItem{Customer: c.DisplayName(), Outcome: out})
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"tenant":  tenant,
		"total":   len(items),
		"results": items,
	})
}

// GET /v1/{tenant}/personalizations?page=&page_size=
func (r *Router) handlePersonalizationList(w http.ResponseWriter, req *http.Request) error {
	tenant, err := tenantFrom(req)
	if err != nil {
		return err
	}
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.persSvc.List(req.Context(), tenant, page, middleware.ValidateLimit(size))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}
