package model

import "time"

// Maintenance ticket statuses. Completed is terminal.
const (
	TicketPending    = "pending"
	TicketInProgress = "in-progress"
	TicketCompleted  = "completed"
)

// ValidTicketStatus reports whether s is a recognized ticket status.
func ValidTicketStatus(s string) bool {
	switch s {
	case TicketPending, TicketInProgress, TicketCompleted:
		return true
	}
	return false
}

// MaintenanceTicket is a resident's repair request. RoomLabel is kept
// verbatim; RoomBlock/RoomFloor/RoomSeq hold the parsed form when the
// label could be parsed, zero values otherwise.
type MaintenanceTicket struct {
	ID          int64  `gorm:"primaryKey"`
	ResidentID  string `gorm:"index;size:128;not null"`
	OwnerID     string `gorm:"index;size:128;not null"`
	HostelID    int64  `gorm:"index;not null"`
	RoomLabel   string `gorm:"size:64"`
	RoomBlock   string `gorm:"size:64"`
	RoomFloor   int
	RoomSeq     int
	Category    string    `gorm:"size:64;not null"`
	Description string    `gorm:"size:2048;not null"`
	Status      string    `gorm:"size:16;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time
}
