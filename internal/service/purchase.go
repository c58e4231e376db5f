package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tenantvault-backend/internal/config"
	"tenantvault-backend/internal/domain"
	"tenantvault-backend/internal/logger"
	"tenantvault-backend/internal/repository"
)

type purchaseService struct {
	store repository.Store
	email EmailService
	cfg   config.RetentionConfig
	now   func() time.Time
}

func NewPurchaseService(store repository.Store, email EmailService, cfg config.RetentionConfig) PurchaseService {
	return &purchaseService{
		store: store,
		email: email,
		cfg:   cfg,
		now:   time.Now,
	}
}

// NewPurchaseServiceWithClock is used by tests that need a fixed time.
func NewPurchaseServiceWithClock(store repository.Store, email EmailService, cfg config.RetentionConfig, now func() time.Time) PurchaseService {
	return &purchaseService{store: store, email: email, cfg: cfg, now: now}
}

func (s *purchaseService) ApplyPurchase(ctx context.Context, ev PurchaseEvent) (ApplyOutcome, *domain.Case, error) {
	if err := validateEvent(ev); err != nil {
		return "", nil, err
	}

	outcome := OutcomeApplied
	var updated *domain.Case

	// Ledger insert and retention update commit together: a crash between
	// the two must not leave a purchase with no retention effect.
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		c, err := tx.Cases().GetByID(ctx, ev.CaseID)
		if err != nil {
			return err
		}

		if !ev.PackType.ValidForStay(c.StayType) {
			return fmt.Errorf("%w: %s pack on %s case %d", ErrPackMismatch, ev.PackType, c.StayType, c.ID)
		}

		if ev.PackType.IsEvidencePack() {
			exists, err := tx.Purchases().ExistsForPack(ctx, c.ID, ev.PackType)
			if err != nil {
				return err
			}
			if exists {
				outcome = OutcomeDuplicate
				updated = c
				return nil
			}
		}

		p := &domain.Purchase{
			CaseID:      c.ID,
			OwnerID:     c.OwnerID,
			PackType:    ev.PackType,
			AmountCents: ev.AmountCents,
			Currency:    ev.Currency,
			PaymentRef:  ev.PaymentRef,
			Years:       ev.Years,
		}
		if err := tx.Purchases().Create(ctx, p); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				// Lost the race against a concurrent delivery of the
				// same event; the winner already did the work.
				outcome = OutcomeDuplicate
				updated = c
				return nil
			}
			return err
		}

		s.applyRetention(c, ev)
		if err := tx.Cases().Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	if outcome == OutcomeApplied {
		s.confirm(ctx, updated, ev)
	}
	return outcome, updated, nil
}

// applyRetention recomputes the case lifecycle fields for a freshly
// inserted purchase. Runs inside the ingestion transaction.
func (s *purchaseService) applyRetention(c *domain.Case, ev PurchaseEvent) {
	now := s.now()

	switch ev.PackType {
	case domain.PackTypeShortStay:
		// Departure date anchors the window when the stay is over,
		// otherwise the purchase does.
		base := now
		if c.HandoverCompletedAt != nil {
			base = *c.HandoverCompletedAt
		}
		until := base.AddDate(0, 0, s.cfg.ShortStayDays)
		c.RetentionUntil = &until
		s.resetReminderCadence(c)

	case domain.PackTypeCheckin, domain.PackTypeMoveout, domain.PackTypeBundle:
		until := now.AddDate(0, s.cfg.LongTermMonths, 0)
		c.RetentionUntil = &until
		s.resetReminderCadence(c)

	case domain.PackTypeStorageExtension:
		base := now
		if c.RetentionUntil != nil && c.RetentionUntil.After(now) {
			base = *c.RetentionUntil
		}
		until := base.AddDate(int(ev.Years), 0, 0)
		c.RetentionUntil = &until
		c.StorageYearsPurchased += ev.Years
		s.resetReminderCadence(c)

	case domain.PackTypeRelatedContracts:
		// Feature unlock only; retention untouched.
	}

	if ev.PackType.IsEvidencePack() {
		pt := ev.PackType
		c.PurchaseType = &pt
	}

	// Re-entitlement: a successful purchase is the only way back from
	// pending deletion other than the purge itself.
	if c.DeletionStatus == domain.DeletionStatusPendingDeletion {
		c.DeletionStatus = domain.DeletionStatusActive
		c.GraceUntil = nil
	}
}

// resetReminderCadence gives the new, later expiry a fresh reminder run.
// Stale one-shot flags would otherwise silently swallow the next cycle.
func (s *purchaseService) resetReminderCadence(c *domain.Case) {
	c.RetentionReminderLevel = 0
	c.ExpiryNotifiedAt = nil
	c.FinalExpiryNotifiedAt = nil
}

// confirm sends the post-commit confirmation email. Failures are logged
// only; the purchase is already durable.
func (s *purchaseService) confirm(ctx context.Context, c *domain.Case, ev PurchaseEvent) {
	if ev.PackType != domain.PackTypeStorageExtension || c.RetentionUntil == nil {
		return
	}
	if err := s.email.SendStorageExtensionConfirmation(ctx, c.OwnerEmail, c.Title, ev.Years, *c.RetentionUntil); err != nil {
		logger.Error("Failed to send storage extension confirmation",
			"case_id", c.ID, "email", c.OwnerEmail, "error", err)
	}
}

func validateEvent(ev PurchaseEvent) error {
	if ev.CaseID <= 0 {
		return fmt.Errorf("%w: missing record id", ErrInvalidEvent)
	}
	if ev.PaymentRef == "" {
		return fmt.Errorf("%w: missing payment ref", ErrInvalidEvent)
	}
	if !ev.PackType.IsEvidencePack() && ev.PackType != domain.PackTypeStorageExtension {
		return fmt.Errorf("%w: unknown pack type %q", ErrInvalidEvent, ev.PackType)
	}
	if ev.PackType == domain.PackTypeStorageExtension && ev.Years < 1 {
		return fmt.Errorf("%w: storage extension requires years >= 1", ErrInvalidEvent)
	}
	if ev.PackType != domain.PackTypeStorageExtension && ev.Years != 0 {
		return fmt.Errorf("%w: years only valid on storage extensions", ErrInvalidEvent)
	}
	return nil
}
