package models

import "gorm.io/gorm"

// Device is one registered app installation. All user-scoped storage keys
// are prefixed with its DeviceID.
type Device struct {
	gorm.Model
	DeviceID string `gorm:"uniqueIndex;not null" json:"deviceId"`
}
