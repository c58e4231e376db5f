package jobs

import (
	"context"
	"time"

	"tenantvault-backend/internal/logger"
)

// SendDeadlineReminders handles the lease-deadline track, which is
// independent of storage retention. Each deadline fires once per
// configured offset, at most one send per calendar day, and only for
// cases that are actually paid; preview cases never get deadline mail
// even with a deadline configured.
func (jr *JobRunner) SendDeadlineReminders() {
	jr.runWithRecovery("SendDeadlineReminders", func() {
		ctx := context.Background()
		now := jr.now()
		today := startOfDay(now)

		deadlines, err := jr.repos.Deadlines.ListUpcoming(ctx, today)
		if err != nil {
			logger.Error("Failed to list upcoming deadlines", "error", err)
			return
		}

		sent := 0
		for _, d := range deadlines {
			// Day-granularity gate: one send per deadline per day.
			if d.LastNotificationSentAt != nil && sameDay(*d.LastNotificationSentAt, now) {
				continue
			}

			daysUntil := int32(startOfDay(d.DueDate).Sub(today).Hours() / 24)
			matched := false
			for _, offset := range d.OffsetsDays {
				if offset == daysUntil {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}

			c, err := jr.repos.Cases.GetByID(ctx, d.CaseID)
			if err != nil {
				logger.Error("Failed to load case for deadline",
					"deadline_id", d.ID,
					"case_id", d.CaseID,
					"error", err)
				continue
			}
			if !c.IsPaid() {
				continue
			}

			err = jr.services.Email.SendDeadlineReminder(ctx, c.OwnerEmail, d.Title, d.DueDate, daysUntil)
			if err != nil {
				logger.Error("Failed to send deadline reminder",
					"deadline_id", d.ID,
					"case_id", d.CaseID,
					"email", c.OwnerEmail,
					"error", err)
				continue
			}

			if err := jr.repos.Deadlines.MarkNotified(ctx, d.ID, now); err != nil {
				logger.Error("Failed to mark deadline as notified",
					"deadline_id", d.ID,
					"error", err)
				continue
			}

			sent++
			logger.Debug("Sent deadline reminder",
				"deadline_id", d.ID,
				"case_id", d.CaseID,
				"days_until", daysUntil)
		}

		logger.Info("Deadline reminders sent", "count", sent)
	})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return startOfDay(a).Equal(startOfDay(b))
}
