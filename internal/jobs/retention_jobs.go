package jobs

import (
	"context"
	"math"
	"time"

	"tenantvault-backend/internal/domain"
	"tenantvault-backend/internal/logger"
)

// DaysRemaining counts the days until expiry, rounding partial days up.
// A case expiring in one hour has one day remaining, not zero.
func DaysRemaining(now, until time.Time) int {
	return int(math.Ceil(until.Sub(now).Hours() / 24))
}

// TargetReminderLevel maps the remaining days onto an escalation level.
// The windows narrow with each level: 1 for the widest, 3 for last call,
// 0 outside all of them. Expired cases (daysRemaining <= 0) get no
// reminder; the expiry transition handles those.
func TargetReminderLevel(daysRemaining, level1Days, level2Days, level3Days int) int32 {
	switch {
	case daysRemaining <= 0:
		return 0
	case daysRemaining <= level3Days:
		return 3
	case daysRemaining <= level2Days:
		return 2
	case daysRemaining <= level1Days:
		return 1
	}
	return 0
}

// EscalateRetentionReminders raises reminder levels for active cases
// approaching expiry. Each level fires exactly once per purchase cycle:
// the level only advances after the email send succeeds, so a failed send
// is retried on the next scan, and re-running with an unchanged clock is
// a no-op.
func (jr *JobRunner) EscalateRetentionReminders() {
	jr.runWithRecovery("EscalateRetentionReminders", func() {
		ctx := context.Background()
		now := jr.now()
		cfg := jr.config.Retention

		cases, err := jr.repos.Cases.ListReminderCandidates(ctx, now)
		if err != nil {
			logger.Error("Failed to list reminder candidates", "error", err)
			return
		}

		sent := 0
		for i := range cases {
			c := &cases[i]
			days := DaysRemaining(now, *c.RetentionUntil)
			target := TargetReminderLevel(days, cfg.ReminderLevel1Days, cfg.ReminderLevel2Days, cfg.ReminderLevel3Days)
			if target <= c.RetentionReminderLevel {
				continue
			}

			err := jr.services.Email.SendRetentionReminder(ctx, c.OwnerEmail, c.StayType, target, days, c.Title)
			if err != nil {
				logger.Error("Failed to send retention reminder",
					"case_id", c.ID,
					"email", c.OwnerEmail,
					"target_level", target,
					"error", err)
				continue
			}

			c.RetentionReminderLevel = target
			if target >= 2 && c.ExpiryNotifiedAt == nil {
				t := now
				c.ExpiryNotifiedAt = &t
			}
			if err := jr.repos.Cases.Update(ctx, c); err != nil {
				logger.Error("Failed to persist reminder level",
					"case_id", c.ID,
					"level", target,
					"error", err)
				continue
			}

			sent++
			logger.Debug("Sent retention reminder",
				"case_id", c.ID,
				"level", target,
				"days_remaining", days)
		}

		logger.Info("Retention reminders sent", "count", sent)
	})
}

// ExpirePastRetention moves active cases whose retention has lapsed into
// the deletion grace period, then delivers the one-shot final expiry
// notice to any pending-deletion case still missing it.
func (jr *JobRunner) ExpirePastRetention() {
	jr.runWithRecovery("ExpirePastRetention", func() {
		ctx := context.Background()
		now := jr.now()

		expired, err := jr.repos.Cases.ListExpired(ctx, now)
		if err != nil {
			logger.Error("Failed to list expired cases", "error", err)
			return
		}

		moved := 0
		for i := range expired {
			c := &expired[i]
			grace := now.AddDate(0, 0, jr.config.Retention.GraceDays)
			c.DeletionStatus = domain.DeletionStatusPendingDeletion
			c.GraceUntil = &grace

			if err := jr.repos.Cases.Update(ctx, c); err != nil {
				logger.Error("Failed to move case to pending deletion",
					"case_id", c.ID,
					"error", err)
				continue
			}
			moved++
			logger.Debug("Case entered deletion grace period",
				"case_id", c.ID,
				"grace_until", grace)
		}
		logger.Info("Expired cases moved to pending deletion", "count", moved)

		// Final notices are a separate pass so a failed send is retried
		// daily for as long as the grace period lasts.
		pending, err := jr.repos.Cases.ListPendingFinalNotice(ctx)
		if err != nil {
			logger.Error("Failed to list cases pending final notice", "error", err)
			return
		}

		notified := 0
		for i := range pending {
			c := &pending[i]
			if c.GraceUntil == nil {
				// Violates the pending-deletion invariant; a bug, not
				// a condition to recover from here.
				logger.Error("Pending-deletion case without grace_until", "case_id", c.ID)
				continue
			}

			err := jr.services.Email.SendFinalExpiryNotice(ctx, c.OwnerEmail, c.StayType, c.Title, *c.GraceUntil)
			if err != nil {
				logger.Error("Failed to send final expiry notice",
					"case_id", c.ID,
					"email", c.OwnerEmail,
					"error", err)
				continue
			}

			t := now
			c.FinalExpiryNotifiedAt = &t
			if err := jr.repos.Cases.Update(ctx, c); err != nil {
				logger.Error("Failed to persist final notice flag",
					"case_id", c.ID,
					"error", err)
				continue
			}
			notified++
		}
		logger.Info("Final expiry notices sent", "count", notified)
	})
}
