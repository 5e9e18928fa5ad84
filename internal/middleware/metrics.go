package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal          uint64
	RequestsInProgress     uint64
	RequestsSuccess        uint64
	RequestsFailed         uint64
	AnalysesTotal          uint64
	AnalysesFallback       uint64
	AnalysesErrored        uint64
	PersonalizationsTotal  uint64
	PersonalizationsFailed uint64
	StartTime              time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// IncrementRequests increments total request counter
func IncrementRequests() {
	atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
}

// IncrementInProgress increments in-progress request counter
func IncrementInProgress() {
	atomic.AddUint64(&globalMetrics.RequestsInProgress, 1)
}

// DecrementInProgress decrements in-progress request counter
func DecrementInProgress() {
	atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0))
}

// IncrementSuccess increments successful request counter
func IncrementSuccess() {
	atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
}

// IncrementFailed increments failed request counter
func IncrementFailed() {
	atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
}

// IncrementAnalyses increments total analyses counter
func IncrementAnalyses() {
	atomic.AddUint64(&globalMetrics.AnalysesTotal, 1)
}

// IncrementAnalysesFallback counts analyses served by the pattern path
func IncrementAnalysesFallback() {
	atomic.AddUint64(&globalMetrics.AnalysesFallback, 1)
}

// IncrementAnalysesErrored counts analyses that produced an error record
func IncrementAnalysesErrored() {
	atomic.AddUint64(&globalMetrics.AnalysesErrored, 1)
}

// IncrementPersonalizations increments total personalizations counter
func IncrementPersonalizations() {
	atomic.AddUint64(&globalMetrics.PersonalizationsTotal, 1)
}

// IncrementPersonalizationsFailed increments failed personalizations counter
func IncrementPersonalizationsFailed() {
	atomic.AddUint64(&globalMetrics.PersonalizationsFailed, 1)
}

// GetMetrics returns current metrics
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":          atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_in_progress":    atomic.LoadUint64(&globalMetrics.RequestsInProgress),
		"requests_success":        atomic.LoadUint64(&globalMetrics.RequestsSuccess),
		"requests_failed":         atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"analyses_total":          atomic.LoadUint64(&globalMetrics.AnalysesTotal),
		"analyses_fallback":       atomic.LoadUint64(&globalMetrics.AnalysesFallback),
		"analyses_errored":        atomic.LoadUint64(&globalMetrics.AnalysesErrored),
		"personalizations_total":  atomic.LoadUint64(&globalMetrics.PersonalizationsTotal),
		"personalizations_failed": atomic.LoadUint64(&globalMetrics.PersonalizationsFailed),
		"uptime_seconds":          time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"num_gc":            m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		IncrementRequests()
		IncrementInProgress()
		defer DecrementInProgress()

		// Wrap response writer to capture status
		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		// Track success/failure based on status code
		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			IncrementSuccess()
		} else {
			IncrementFailed()
		}
	})
}

// MetricsHandler returns metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}
