package model

import "time"

// Meal categories, shared by menu items and slots.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnacks    = "snacks"
)

// ValidMealType reports whether s is a recognized meal category.
func ValidMealType(s string) bool {
	switch s {
	case MealBreakfast, MealLunch, MealDinner, MealSnacks:
		return true
	}
	return false
}

// MealMenuItem is reference data describing a dish an owner serves.
type MealMenuItem struct {
	ID          int64  `gorm:"primaryKey"`
	OwnerID     string `gorm:"index;size:128;not null"`
	Name        string `gorm:"size:256;not null"`
	Description string `gorm:"size:1024"`
	Category    string `gorm:"size:16;not null"`
	CreatedAt   time.Time
}

// MealSlot is an allocatable unit of meal seats for one menu item on one
// date. BookedSeats is mutated only through the ledger and always
// satisfies 0 <= BookedSeats <= TotalSeats.
type MealSlot struct {
	ID          int64  `gorm:"primaryKey"`
	OwnerID     string `gorm:"index;size:128;not null"`
	HostelID    int64  `gorm:"index;not null"`
	MenuItemID  int64  `gorm:"not null"`
	Date        string `gorm:"size:10;not null;index"` // YYYY-MM-DD in the venue's timezone
	MealType    string `gorm:"size:16;not null"`
	TotalSeats  int    `gorm:"not null"`
	BookedSeats int    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Associations
	MenuItem MealMenuItem `gorm:"foreignKey:MenuItemID"`
}

// Booking statuses. Bookings are never deleted; cancellation flips the
// status and releases the seat, and a later re-book flips it back.
const (
	BookingActive    = "active"
	BookingCancelled = "cancelled"
)

// MealBooking records one resident's seat in one slot. The unique index
// enforces the at-most-one-booking-per-(resident, slot) invariant at the
// storage layer as well as in the workflow.
type MealBooking struct {
	ID         int64     `gorm:"primaryKey"`
	ResidentID string    `gorm:"size:128;not null;uniqueIndex:idx_booking_resident_slot"`
	MealSlotID int64     `gorm:"not null;uniqueIndex:idx_booking_resident_slot"`
	Status     string    `gorm:"size:16;not null"`
	BookedAt   time.Time `gorm:"not null"`
	UpdatedAt  time.Time
}
