package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the lifecycle endpoints. objects may be nil when a
// cloud storage provider serves the signed URLs directly.
func NewRouter(webhook *PaymentWebhookHandler, scan *ScanHandler, objects *ObjectHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/webhooks/payment", webhook.HandlePaymentCompleted).Methods(http.MethodPost)

	r.HandleFunc("/internal/scan", scan.HandleTriggerScan).Methods(http.MethodPost)
	r.HandleFunc("/internal/metrics/cases", scan.HandleCaseMetrics).Methods(http.MethodGet)

	if objects != nil {
		r.HandleFunc("/api/v1/upload/{token}", objects.HandleUpload).Methods(http.MethodPut)
		r.HandleFunc("/api/v1/download/{token}", objects.HandleDownload).Methods(http.MethodGet)
	}

	return r
}
