package domain

import "time"

type AssetKind string

const (
	AssetKindPhoto    AssetKind = "PHOTO"
	AssetKindVideo    AssetKind = "VIDEO"
	AssetKindDocument AssetKind = "DOCUMENT"
)

// Asset is a stored file owned by exactly one case. Its storage object is
// removed when the owning case is purged or deleted.
type Asset struct {
	ID         int64     `json:"id"`
	CaseID     int64     `json:"case_id"`
	Kind       AssetKind `json:"kind"`
	StorageKey string    `json:"storage_key"`
	FileName   string    `json:"file_name"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedOn  time.Time `json:"created_on"`
}
