package ai

import "errors"

// ErrNoResult indicates the model produced no decodable output. Treated as a
// fallback signal, never propagated past the analysis boundary.
var ErrNoResult = errors.New("ai: no usable result")

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")
