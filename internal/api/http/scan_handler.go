package http

import (
	"net/http"
	"strings"

	"tenantvault-backend/internal/jobs"
	"tenantvault-backend/internal/logger"
	"tenantvault-backend/internal/security"
	"tenantvault-backend/internal/service"
)

// ScanHandler exposes the scanner-token-gated internal endpoints: the
// manual scan trigger and the cached case metrics projection.
type ScanHandler struct {
	tokens  security.TokenManager
	runner  *jobs.JobRunner
	metrics service.MetricsService
}

func NewScanHandler(tokens security.TokenManager, runner *jobs.JobRunner, metrics service.MetricsService) *ScanHandler {
	return &ScanHandler{
		tokens:  tokens,
		runner:  runner,
		metrics: metrics,
	}
}

// HandleTriggerScan processes POST /internal/scan. The scan is the same
// batch the cron schedule runs; triggering it twice in a row is safe.
func (h *ScanHandler) HandleTriggerScan(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	logger.Info("Transition scan triggered via API")
	h.runner.RunDailyScan()
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// HandleCaseMetrics processes GET /internal/metrics/cases.
func (h *ScanHandler) HandleCaseMetrics(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	m, err := h.metrics.CaseMetrics(r.Context())
	if err != nil {
		logger.Error("Failed to compute case metrics", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// authorize rejects the request before any record is touched unless it
// carries a valid scanner-scope bearer token.
func (h *ScanHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return false
	}

	token := strings.TrimPrefix(auth, "Bearer ")
	if _, err := h.tokens.ValidateServiceToken(token, security.ScopeScanner); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return false
	}
	return true
}
