package model

import "time"

// Hostel represents a PG/hostel property managed by a single owner.
// Owner and resident identities are opaque strings supplied by the
// external identity provider; the engine only stores and compares them.
type Hostel struct {
	ID        int64     `gorm:"primaryKey"`
	OwnerID   string    `gorm:"uniqueIndex;size:128;not null"`
	Name      string    `gorm:"size:256;not null"`
	Location  string    `gorm:"size:256"`
	Pincode   string    `gorm:"size:6;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	RoomTypes []RoomType `gorm:"foreignKey:HostelID"`
}

// RoomType is an allocatable unit of room capacity within a hostel.
// Vacant is mutated only through the ledger and always satisfies
// 0 <= Vacant <= TotalCapacity.
type RoomType struct {
	ID            int64  `gorm:"primaryKey"`
	HostelID      int64  `gorm:"not null;uniqueIndex:idx_room_type_hostel_label"`
	TypeLabel     string `gorm:"size:64;not null;uniqueIndex:idx_room_type_hostel_label"`
	TotalCapacity int    `gorm:"not null"`
	Vacant        int    `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
