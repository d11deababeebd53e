package model

import "time"

// Room application statuses. Approved and rejected are terminal; a
// rejected application is never re-opened.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// RoomApplication is a resident's request for one unit of a room type's
// vacancy. Capacity is claimed at approval time, not at apply time, so
// Vacant on the referenced RoomType reflects confirmed occupancy only.
type RoomApplication struct {
	ID            int64     `gorm:"primaryKey"`
	ResidentID    string    `gorm:"index;size:128;not null"`
	OwnerID       string    `gorm:"index;size:128;not null"`
	HostelID      int64     `gorm:"index;not null"`
	RoomTypeLabel string    `gorm:"size:64;not null"`
	Status        string    `gorm:"size:16;not null"`
	AppliedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time
}
