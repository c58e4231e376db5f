package entitlement

import (
	"time"

	"tenantvault-backend/internal/domain"
)

// Entitlements is the capability set a case currently grants its owner.
// It is a pure projection of the case row and its purchase ledger; nothing
// here mutates state. Downstream features (PDF export, uploads, the AI
// assistant) consult these flags and nothing else.
//
// For short-stay cases the checkin/handover pair reads as arrival/departure.
type Entitlements struct {
	HasCheckinPack      bool `json:"has_checkin_pack"`
	HasMoveoutPack      bool `json:"has_moveout_pack"`
	HasBundle           bool `json:"has_bundle"`
	HasShortStayPack    bool `json:"has_short_stay_pack"`
	HasRelatedContracts bool `json:"has_related_contracts"`

	CanUploadCheckin  bool `json:"can_upload_checkin"`
	CanUploadHandover bool `json:"can_upload_handover"`
	CanSealCheckin    bool `json:"can_seal_checkin"`
	CanSealHandover   bool `json:"can_seal_handover"`
	CanExportCheckin  bool `json:"can_export_checkin"`
	CanExportHandover bool `json:"can_export_handover"`

	IsExpired      bool       `json:"is_expired"`
	StorageYears   int32      `json:"storage_years"`
	RetentionUntil *time.Time `json:"retention_until,omitempty"`

	// AvailablePacks is for upsell display only. It must never gate
	// access; only the Has* flags do.
	AvailablePacks []domain.PackType `json:"available_packs"`
}

// HasPack reports pack ownership including the bundle implication: a
// bundle purchase satisfies both the checkin and the moveout check even
// though no CHECKIN/MOVEOUT purchase row exists.
func (e *Entitlements) HasPack(p domain.PackType) bool {
	switch p {
	case domain.PackTypeCheckin:
		return e.HasCheckinPack || e.HasBundle
	case domain.PackTypeMoveout:
		return e.HasMoveoutPack || e.HasBundle
	case domain.PackTypeBundle:
		return e.HasBundle
	case domain.PackTypeShortStay:
		return e.HasShortStayPack
	case domain.PackTypeRelatedContracts:
		return e.HasRelatedContracts
	}
	return false
}

// Resolve computes the capability set for a case at the given instant.
//
// Uploading is free in both phases until the phase is sealed; purchase
// gates sealing and export only. Export additionally requires the phase
// to have actually been sealed.
func Resolve(now time.Time, c *domain.Case, purchases []domain.Purchase) Entitlements {
	e := Entitlements{
		StorageYears:   c.StorageYearsPurchased,
		RetentionUntil: c.RetentionUntil,
	}

	for _, p := range purchases {
		switch p.PackType {
		case domain.PackTypeCheckin:
			e.HasCheckinPack = true
		case domain.PackTypeMoveout:
			e.HasMoveoutPack = true
		case domain.PackTypeBundle:
			e.HasBundle = true
		case domain.PackTypeShortStay:
			e.HasShortStayPack = true
		case domain.PackTypeRelatedContracts:
			e.HasRelatedContracts = true
		}
	}

	e.CanUploadCheckin = c.CheckinCompletedAt == nil
	e.CanUploadHandover = c.HandoverCompletedAt == nil

	checkinPack, handoverPack := sealingPacks(c.StayType)
	e.CanSealCheckin = e.HasPack(checkinPack)
	e.CanSealHandover = e.HasPack(handoverPack)
	e.CanExportCheckin = e.HasPack(checkinPack) && c.CheckinCompletedAt != nil
	e.CanExportHandover = e.HasPack(handoverPack) && c.HandoverCompletedAt != nil

	if c.RetentionUntil != nil && now.After(*c.RetentionUntil) {
		e.IsExpired = true
	}

	for _, pack := range domain.EvidencePacks {
		if pack.ValidForStay(c.StayType) && !e.HasPack(pack) {
			e.AvailablePacks = append(e.AvailablePacks, pack)
		}
	}
	// Storage extensions are repeatable, always on offer.
	e.AvailablePacks = append(e.AvailablePacks, domain.PackTypeStorageExtension)

	return e
}

// sealingPacks returns the pack required to seal each phase. Long-term
// tenancies split the two phases across the checkin and moveout packs;
// a short stay covers both with the single short-stay pack.
func sealingPacks(stay domain.StayType) (checkin, handover domain.PackType) {
	if stay == domain.StayTypeShortStay {
		return domain.PackTypeShortStay, domain.PackTypeShortStay
	}
	return domain.PackTypeCheckin, domain.PackTypeMoveout
}
