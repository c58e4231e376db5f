package domain

import "time"

type AuditEvent string

const (
	AuditEventPurge AuditEvent = "PURGE"
)

// PurgeAudit records that a case was irreversibly removed by the
// transition scanner. Writing it is best-effort and never blocks the purge.
type PurgeAudit struct {
	ID         string     `json:"id"` // uuid
	Event      AuditEvent `json:"event"`
	CaseID     int64      `json:"case_id"`
	OwnerID    int64      `json:"owner_id"`
	Reason     string     `json:"reason"`
	AssetCount int32      `json:"asset_count"`
	OccurredOn time.Time  `json:"occurred_on"`
}
