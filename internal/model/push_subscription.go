package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// A subscription follows one or more hostels and receives domain event
// notifications for them.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Hostels []*Hostel `gorm:"many2many:subscription_hostel_mapping;"`
}
