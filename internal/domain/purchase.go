package domain

import "time"

type PackType string

const (
	PackTypeCheckin          PackType = "CHECKIN"
	PackTypeMoveout          PackType = "MOVEOUT"
	PackTypeBundle           PackType = "BUNDLE"
	PackTypeShortStay        PackType = "SHORT_STAY"
	PackTypeRelatedContracts PackType = "RELATED_CONTRACTS"
	PackTypeStorageExtension PackType = "STORAGE_EXTENSION"
)

// EvidencePacks are the pack types a case owns at most once. A second
// payment event for the same (case, pack) is a duplicate, not a new grant.
var EvidencePacks = []PackType{
	PackTypeCheckin,
	PackTypeMoveout,
	PackTypeBundle,
	PackTypeShortStay,
	PackTypeRelatedContracts,
}

// IsEvidencePack reports whether p is a one-per-case pack type.
// Storage extensions are repeatable and excluded.
func (p PackType) IsEvidencePack() bool {
	for _, ep := range EvidencePacks {
		if p == ep {
			return true
		}
	}
	return false
}

// ValidForStay reports whether p can be purchased for the given stay type.
// Phase packs belong to long-term tenancies, the short-stay pack to
// short stays. RELATED_CONTRACTS and STORAGE_EXTENSION apply to both.
func (p PackType) ValidForStay(stay StayType) bool {
	switch p {
	case PackTypeCheckin, PackTypeMoveout, PackTypeBundle:
		return stay == StayTypeLongTerm
	case PackTypeShortStay:
		return stay == StayTypeShortStay
	case PackTypeRelatedContracts, PackTypeStorageExtension:
		return true
	}
	return false
}

// Purchase is one completed payment event, immutable once inserted.
// PaymentRef is the upstream payment processor reference and is unique
// across all purchases.
type Purchase struct {
	ID          int64     `json:"id"`
	CaseID      int64     `json:"case_id"`
	OwnerID     int64     `json:"owner_id"`
	PackType    PackType  `json:"pack_type"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	PaymentRef  string    `json:"payment_ref"`
	Years       int32     `json:"years,omitempty"` // storage extensions only
	CreatedOn   time.Time `json:"created_on"`
}
