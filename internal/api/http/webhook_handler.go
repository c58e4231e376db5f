package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"tenantvault-backend/internal/domain"
	"tenantvault-backend/internal/logger"
	"tenantvault-backend/internal/repository"
	"tenantvault-backend/internal/security"
	"tenantvault-backend/internal/service"
)

// SignatureHeader carries the payment processor's HMAC over the raw body.
const SignatureHeader = "X-Vault-Signature"

// PaymentWebhookHandler ingests payment-completed events. Delivery is
// at-least-once, so a replayed event answers 200 with a duplicate status
// rather than an error.
type PaymentWebhookHandler struct {
	purchases service.PurchaseService
	secret    string
}

func NewPaymentWebhookHandler(purchases service.PurchaseService, webhookSecret string) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		purchases: purchases,
		secret:    webhookSecret,
	}
}

// paymentEventPayload is the wire shape of a payment-completed event.
// Unknown fields are rejected at this boundary; nothing is defaulted.
type paymentEventPayload struct {
	RecordID     int64  `json:"record_id"`
	PackType     string `json:"pack_type"`
	PaymentRef   string `json:"payment_ref"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
	StayTypeHint string `json:"stay_type_hint,omitempty"`
	Years        int32  `json:"years,omitempty"`
}

var wirePackTypes = map[string]domain.PackType{
	"checkin":           domain.PackTypeCheckin,
	"moveout":           domain.PackTypeMoveout,
	"bundle":            domain.PackTypeBundle,
	"short_stay":        domain.PackTypeShortStay,
	"related_contracts": domain.PackTypeRelatedContracts,
	"storage_extension": domain.PackTypeStorageExtension,
}

var wireStayTypes = map[string]domain.StayType{
	"long_term":  domain.StayTypeLongTerm,
	"short_stay": domain.StayTypeShortStay,
}

// HandlePaymentCompleted processes POST /webhooks/payment.
func (h *PaymentWebhookHandler) HandlePaymentCompleted(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	// Nothing is trusted before the signature checks out.
	if err := security.VerifySignature(h.secret, body, r.Header.Get(SignatureHeader)); err != nil {
		logger.Warn("Rejected payment webhook with bad signature", "remote", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	var payload paymentEventPayload
	if err := dec.Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed event payload")
		return
	}

	pack, ok := wirePackTypes[payload.PackType]
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown pack type")
		return
	}

	// The hint is advisory; the case row is authoritative. An obviously
	// inconsistent hint still fails fast with no side effects.
	if payload.StayTypeHint != "" {
		hinted, ok := wireStayTypes[payload.StayTypeHint]
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown stay type hint")
			return
		}
		if !pack.ValidForStay(hinted) {
			writeError(w, http.StatusUnprocessableEntity, "pack not valid for hinted stay type")
			return
		}
	}

	outcome, _, err := h.purchases.ApplyPurchase(r.Context(), service.PurchaseEvent{
		CaseID:      payload.RecordID,
		PackType:    pack,
		PaymentRef:  payload.PaymentRef,
		AmountCents: payload.AmountCents,
		Currency:    payload.Currency,
		Years:       payload.Years,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEvent):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPackMismatch):
			writeError(w, http.StatusUnprocessableEntity, "pack not valid for this record")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "unknown record")
		default:
			logger.Error("Failed to apply purchase", "record_id", payload.RecordID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	status := "applied"
	if outcome == service.OutcomeDuplicate {
		status = "duplicate"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
