package domain

import "time"

type StayType string

const (
	StayTypeLongTerm  StayType = "LONG_TERM"
	StayTypeShortStay StayType = "SHORT_STAY"
)

type DeletionStatus string

const (
	DeletionStatusActive          DeletionStatus = "ACTIVE"
	DeletionStatusPendingDeletion DeletionStatus = "PENDING_DELETION"
)

// Case is one tenancy or booking a user tracks in the vault.
//
// Lifecycle fields are written by exactly two actors: the transition
// scanner and purchase ingestion. CheckinCompletedAt and
// HandoverCompletedAt are set once and never cleared; short-stay cases
// reuse them as arrival/departure timestamps.
type Case struct {
	ID                     int64          `json:"id"`
	OwnerID                int64          `json:"owner_id"`
	OwnerEmail             string         `json:"owner_email"`
	Title                  string         `json:"title"`
	StayType               StayType       `json:"stay_type"`
	CheckinCompletedAt     *time.Time     `json:"checkin_completed_at,omitempty"`
	HandoverCompletedAt    *time.Time     `json:"handover_completed_at,omitempty"`
	RetentionUntil         *time.Time     `json:"retention_until,omitempty"`
	StorageYearsPurchased  int32          `json:"storage_years_purchased"`
	DeletionStatus         DeletionStatus `json:"deletion_status"`
	GraceUntil             *time.Time     `json:"grace_until,omitempty"`
	RetentionReminderLevel int32          `json:"retention_reminder_level"`
	ExpiryNotifiedAt       *time.Time     `json:"expiry_notified_at,omitempty"`
	FinalExpiryNotifiedAt  *time.Time     `json:"final_expiry_notified_at,omitempty"`
	PurchaseType           *PackType      `json:"purchase_type,omitempty"`
	CreatedOn              time.Time      `json:"created_on"`
	UpdatedOn              time.Time      `json:"updated_on"`
}

// IsPaid reports whether any evidence pack has been applied to the case.
// Unpaid cases never receive deadline reminders.
func (c *Case) IsPaid() bool {
	return c.PurchaseType != nil
}
