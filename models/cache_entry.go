package models

import "time"

// CacheEntry is one key → JSON blob row. API responses, user state and the
// connectivity timestamp all live in this table; writes are last-write-wins
// per key.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}
