package workflow

import (
	"context"
	"fmt"
	"time"

	"staysync-backend/internal/model"
	"staysync-backend/internal/parse"
	"staysync-backend/internal/store"
)

// MaintenanceService owns the repair ticket state machine. Tickets have
// no capacity constraint; their status moves through
// pending -> in-progress -> completed with completed terminal.
type MaintenanceService struct {
	store  store.Store
	events *Events
	now    func() time.Time
}

// NewMaintenanceService creates a maintenance ticket service.
func NewMaintenanceService(s store.Store, ev *Events) *MaintenanceService {
	return &MaintenanceService{store: s, events: ev, now: time.Now}
}

// CreateTicket files a repair request against a hostel. Creation always
// succeeds for valid input and yields a pending ticket. Room labels like
// "A-203" are additionally parsed into block/floor/seq for the owner's
// grouped view; a label that does not parse is kept verbatim.
func (s *MaintenanceService) CreateTicket(ctx context.Context, residentID string, hostelID int64, roomLabel, category, description string) (model.MaintenanceTicket, error) {
	if residentID == "" || category == "" || description == "" {
		return model.MaintenanceTicket{}, fmt.Errorf("resident, category and description are required: %w", store.ErrInvalidInput)
	}

	hostel, err := s.store.GetHostel(ctx, hostelID)
	if err != nil {
		return model.MaintenanceTicket{}, err
	}

	ticket := model.MaintenanceTicket{
		ResidentID:  residentID,
		OwnerID:     hostel.OwnerID,
		HostelID:    hostelID,
		RoomLabel:   roomLabel,
		Category:    category,
		Description: description,
		Status:      model.TicketPending,
		CreatedAt:   s.now(),
	}
	if roomLabel != "" {
		if parsed, err := parse.RoomLabel(roomLabel); err == nil {
			ticket.RoomBlock = parsed.Block
			ticket.RoomFloor = parsed.Floor
			ticket.RoomSeq = parsed.Seq
		}
	}

	if err := s.store.CreateTicket(ctx, &ticket); err != nil {
		return model.MaintenanceTicket{}, err
	}
	return ticket, nil
}

// SetStatus moves a ticket to the given status. The target is validated
// against the status enum, not against a linear order: an owner may set
// a pending ticket straight to completed. Leaving completed is the one
// forbidden direction.
func (s *MaintenanceService) SetStatus(ctx context.Context, ownerID string, ticketID int64, status string) (model.MaintenanceTicket, error) {
	if !model.ValidTicketStatus(status) {
		return model.MaintenanceTicket{}, fmt.Errorf("unknown status %q: %w", status, store.ErrInvalidTransition)
	}

	ticket, err := s.store.GetTicket(ctx, ticketID)
	if err != nil {
		return model.MaintenanceTicket{}, err
	}
	if ticket.OwnerID != ownerID {
		return model.MaintenanceTicket{}, fmt.Errorf("ticket %d: %w", ticketID, store.ErrAccessDenied)
	}
	if !TicketTransitionAllowed(ticket.Status, status) {
		return model.MaintenanceTicket{}, fmt.Errorf("%q -> %q: %w", ticket.Status, status, store.ErrInvalidTransition)
	}

	if ticket.Status == status {
		return ticket, nil
	}

	from := ticket.Status
	ticket.Status = status
	if err := s.store.TransitionTicket(ctx, &ticket, from); err != nil {
		return model.MaintenanceTicket{}, err
	}

	s.events.Publish(Event{
		Kind:     EventTicketStatusChanged,
		HostelID: ticket.HostelID,
		Message:  fmt.Sprintf("Maintenance ticket for %s is now %s", ticket.Category, status),
	})
	return ticket, nil
}

// TicketsForResident lists a resident's tickets, newest first.
func (s *MaintenanceService) TicketsForResident(ctx context.Context, residentID string) ([]model.MaintenanceTicket, error) {
	return s.store.ListTicketsByResident(ctx, residentID)
}

// TicketsForOwner lists an owner's tickets grouped by block and floor.
func (s *MaintenanceService) TicketsForOwner(ctx context.Context, ownerID string) ([]model.MaintenanceTicket, error) {
	return s.store.ListTicketsByOwner(ctx, ownerID)
}
