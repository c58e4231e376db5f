package jobs

import (
	"context"

	"tenantvault-backend/internal/domain"
	"tenantvault-backend/internal/logger"

	"github.com/google/uuid"
)

// PurgeExpiredCases irreversibly removes cases whose deletion grace
// period has run out: storage objects first, then the audit entry, then
// the database row with everything hanging off it.
//
// Storage cleanup is best-effort. A failed object delete is logged as an
// accepted orphan and never blocks the row purge; the audit write is
// fire-and-forget for the same reason. Each case runs in its own error
// boundary so one bad case cannot stall the batch.
func (jr *JobRunner) PurgeExpiredCases() {
	jr.runWithRecovery("PurgeExpiredCases", func() {
		ctx := context.Background()
		now := jr.now()

		cases, err := jr.repos.Cases.ListGraceExpired(ctx, now)
		if err != nil {
			logger.Error("Failed to list grace-expired cases", "error", err)
			return
		}

		purged := 0
		for i := range cases {
			c := &cases[i]

			assets, err := jr.repos.Assets.ListByCase(ctx, c.ID)
			if err != nil {
				logger.Error("Failed to list assets for purge",
					"case_id", c.ID,
					"error", err)
				continue
			}

			if len(assets) > 0 {
				keys := make([]string, 0, len(assets))
				for _, a := range assets {
					keys = append(keys, a.StorageKey)
				}
				failed, err := jr.services.Storage.DeleteObjects(ctx, keys)
				if err != nil {
					logger.Error("Storage cleanup incomplete, orphaned objects remain",
						"case_id", c.ID,
						"failed_keys", failed,
						"error", err)
				}
			}

			audit := &domain.PurgeAudit{
				ID:         uuid.NewString(),
				Event:      domain.AuditEventPurge,
				CaseID:     c.ID,
				OwnerID:    c.OwnerID,
				Reason:     "retention grace period expired",
				AssetCount: int32(len(assets)),
				OccurredOn: now,
			}
			if err := jr.repos.Audits.Create(ctx, audit); err != nil {
				logger.Error("Failed to write purge audit entry",
					"case_id", c.ID,
					"error", err)
			}

			if err := jr.repos.Cases.DeleteCascade(ctx, c.ID); err != nil {
				logger.Error("Failed to delete case row",
					"case_id", c.ID,
					"error", err)
				continue
			}

			purged++
			logger.Info("Purged case",
				"case_id", c.ID,
				"owner_id", c.OwnerID,
				"asset_count", len(assets))
		}

		logger.Info("Purge completed", "count", purged)
	})
}
