package domain

import "time"

// Deadline is a user-configured lease deadline with reminder offsets.
// This reminder track is independent from storage retention: it fires a
// notice N days before DueDate for each configured offset, at most one
// send per calendar day, and only for paid cases.
type Deadline struct {
	ID                     int64      `json:"id"`
	CaseID                 int64      `json:"case_id"`
	OwnerID                int64      `json:"owner_id"`
	Title                  string     `json:"title"`
	DueDate                time.Time  `json:"due_date"`
	OffsetsDays            []int32    `json:"offsets_days"`
	LastNotificationSentAt *time.Time `json:"last_notification_sent_at,omitempty"`
	CreatedOn              time.Time  `json:"created_on"`
}

// DefaultDeadlineOffsets is used when a deadline is created without
// explicit offsets: a week before, the day before, and the day itself.
var DefaultDeadlineOffsets = []int32{7, 1, 0}
