package service

import (
	"context"
	"errors"
	"time"

	"tenantvault-backend/internal/domain"
)

var (
	// ErrPackMismatch rejects a pack purchased for the wrong stay type.
	// No state changes when it is returned.
	ErrPackMismatch = errors.New("pack type not valid for this stay type")

	// ErrInvalidEvent rejects a malformed payment event.
	ErrInvalidEvent = errors.New("invalid payment event")
)

// ApplyOutcome is the result of applying a payment-completed event.
type ApplyOutcome string

const (
	OutcomeApplied ApplyOutcome = "APPLIED"
	// OutcomeDuplicate means the event was already applied. Webhook
	// retries land here; it is success, not an error.
	OutcomeDuplicate ApplyOutcome = "DUPLICATE"
)

// PurchaseEvent is a validated payment-completed event, decoded from the
// webhook payload at the boundary.
type PurchaseEvent struct {
	CaseID      int64
	PackType    domain.PackType
	PaymentRef  string
	AmountCents int64
	Currency    string
	Years       int32 // storage extensions only
}

type PurchaseService interface {
	// ApplyPurchase appends to the purchase ledger and recomputes the
	// case's retention fields, atomically. Safe under concurrent
	// redelivery of the same event.
	ApplyPurchase(ctx context.Context, ev PurchaseEvent) (ApplyOutcome, *domain.Case, error)
}

type EmailService interface {
	SendRetentionReminder(ctx context.Context, toEmail string, stay domain.StayType, level int32, daysRemaining int, caseTitle string) error
	SendFinalExpiryNotice(ctx context.Context, toEmail string, stay domain.StayType, caseTitle string, graceUntil time.Time) error
	SendStorageExtensionConfirmation(ctx context.Context, toEmail, caseTitle string, years int32, retentionUntil time.Time) error
	SendDeadlineReminder(ctx context.Context, toEmail, deadlineTitle string, dueDate time.Time, daysBefore int32) error
}

// CaseMetrics is the cached admin projection of case lifecycle counts.
type CaseMetrics struct {
	Active          int64     `json:"active"`
	PendingDeletion int64     `json:"pending_deletion"`
	ComputedAt      time.Time `json:"computed_at"`
}

type MetricsService interface {
	CaseMetrics(ctx context.Context) (*CaseMetrics, error)
}
