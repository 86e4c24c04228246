package models

import "time"

// TenantRecord is the storage row for a tenant document. The document is
// read and written whole; Version backs the optimistic concurrency check
// on save.
type TenantRecord struct {
	ID      string `gorm:"primaryKey;size:64" json:"id"`
	Doc     []byte `gorm:"type:jsonb;not null" json:"doc"`
	Version int64  `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
