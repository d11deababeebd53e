package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"staysync-backend/config"
	"staysync-backend/internal/ledger"
	"staysync-backend/internal/model"
	"staysync-backend/internal/store"
)

const slotDateLayout = "2006-01-02"

// MealService owns menu items, meal slot scheduling, and seat booking.
// Eligibility is time-gated: a same-day slot closes at a per-meal-type
// cutoff in the venue's local time, past slots are never bookable, and
// future-dated slots are always bookable.
type MealService struct {
	store   store.Store
	ledger  *ledger.Ledger
	events  *Events
	loc     *time.Location
	cutoffs map[string]int // meal type -> minutes past midnight
	now     func() time.Time
}

// NewMealService creates a meal service from the booking configuration.
// cfg.Cutoffs must carry a cutoff per meal type; config.Load fills the
// defaults before the config reaches here. A meal type with no cutoff
// never opens on its own day.
func NewMealService(s store.Store, l *ledger.Ledger, ev *Events, cfg config.BookingConfig) (*MealService, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid booking timezone %q: %w", cfg.Timezone, err)
	}

	cutoffs := make(map[string]int, len(cfg.Cutoffs))
	for mealType, raw := range cfg.Cutoffs {
		if !model.ValidMealType(mealType) {
			return nil, fmt.Errorf("cutoff for unknown meal type %q", mealType)
		}
		minutes, err := parseCutoff(raw)
		if err != nil {
			return nil, fmt.Errorf("cutoff for %s: %w", mealType, err)
		}
		cutoffs[mealType] = minutes
	}

	return &MealService{
		store:   s,
		ledger:  l,
		events:  ev,
		loc:     loc,
		cutoffs: cutoffs,
		now:     time.Now,
	}, nil
}

// parseCutoff converts an "HH:MM" string to minutes past midnight.
func parseCutoff(raw string) (int, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed cutoff %q", raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("malformed cutoff %q", raw)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed cutoff %q", raw)
	}
	return h*60 + m, nil
}

// CreateMenuItem records a dish an owner serves.
func (s *MealService) CreateMenuItem(ctx context.Context, ownerID, name, description, category string) (model.MealMenuItem, error) {
	if ownerID == "" || name == "" {
		return model.MealMenuItem{}, fmt.Errorf("owner and name are required: %w", store.ErrInvalidInput)
	}
	if !model.ValidMealType(category) {
		return model.MealMenuItem{}, fmt.Errorf("unknown category %q: %w", category, store.ErrInvalidInput)
	}

	item := model.MealMenuItem{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Category:    category,
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateMenuItem(ctx, &item); err != nil {
		return model.MealMenuItem{}, err
	}
	return item, nil
}

// MenuItemsForOwner lists an owner's menu items.
func (s *MealService) MenuItemsForOwner(ctx context.Context, ownerID string) ([]model.MealMenuItem, error) {
	return s.store.ListMenuItemsByOwner(ctx, ownerID)
}

// ScheduleSlot creates a meal slot with no seats booked. A non-positive
// seat count can never be constructed.
func (s *MealService) ScheduleSlot(ctx context.Context, ownerID string, hostelID, menuItemID int64, date, mealType string, totalSeats int) (model.MealSlot, error) {
	if totalSeats <= 0 {
		return model.MealSlot{}, fmt.Errorf("total seats must be positive: %w", store.ErrInvalidCapacity)
	}
	if !model.ValidMealType(mealType) {
		return model.MealSlot{}, fmt.Errorf("unknown meal type %q: %w", mealType, store.ErrInvalidInput)
	}
	if _, err := time.ParseInLocation(slotDateLayout, date, s.loc); err != nil {
		return model.MealSlot{}, fmt.Errorf("malformed date %q: %w", date, store.ErrInvalidInput)
	}

	hostel, err := s.store.GetHostel(ctx, hostelID)
	if err != nil {
		return model.MealSlot{}, err
	}
	if hostel.OwnerID != ownerID {
		return model.MealSlot{}, fmt.Errorf("hostel %d: %w", hostelID, store.ErrAccessDenied)
	}
	if _, err := s.store.GetMenuItem(ctx, menuItemID); err != nil {
		return model.MealSlot{}, err
	}

	slot := model.MealSlot{
		OwnerID:     ownerID,
		HostelID:    hostelID,
		MenuItemID:  menuItemID,
		Date:        date,
		MealType:    mealType,
		TotalSeats:  totalSeats,
		BookedSeats: 0,
	}
	if err := s.store.CreateSlot(ctx, &slot); err != nil {
		return model.MealSlot{}, err
	}
	return slot, nil
}

// SlotsForHostel lists a hostel's meal slots ordered by date.
func (s *MealService) SlotsForHostel(ctx context.Context, hostelID int64) ([]model.MealSlot, error) {
	return s.store.ListSlotsByHostel(ctx, hostelID)
}

// slotOpen reports whether the slot's booking window is still open at
// the service clock's current time.
func (s *MealService) slotOpen(slot model.MealSlot) bool {
	now := s.now().In(s.loc)
	today := now.Format(slotDateLayout)

	// ISO dates compare correctly as strings.
	if slot.Date > today {
		return true
	}
	if slot.Date < today {
		return false
	}
	return now.Hour()*60+now.Minute() < s.cutoffs[slot.MealType]
}

// BookSlot books one seat in a slot for a resident. Preconditions, in
// order: the slot exists, its window is open, the resident holds an
// approved application for the slot's hostel, the resident has no active
// booking for the slot, and a seat is still free. A resident who
// cancelled earlier re-books onto the same record, preserving the
// at-most-one-booking-per-pair invariant.
func (s *MealService) BookSlot(ctx context.Context, residentID string, slotID int64) (model.MealBooking, error) {
	if residentID == "" {
		return model.MealBooking{}, fmt.Errorf("resident is required: %w", store.ErrInvalidInput)
	}

	slot, err := s.store.GetSlot(ctx, slotID)
	if err != nil {
		return model.MealBooking{}, err
	}
	if !s.slotOpen(slot) {
		return model.MealBooking{}, fmt.Errorf("slot %d (%s %s): %w", slotID, slot.Date, slot.MealType, store.ErrWindowClosed)
	}

	enrolled, err := s.store.HasApprovedApplication(ctx, residentID, slot.HostelID)
	if err != nil {
		return model.MealBooking{}, err
	}
	if !enrolled {
		return model.MealBooking{}, fmt.Errorf("resident %s, hostel %d: %w", residentID, slot.HostelID, store.ErrNotEnrolled)
	}

	existing, err := s.store.FindBooking(ctx, residentID, slotID)
	switch {
	case err == nil && existing.Status == model.BookingActive:
		return model.MealBooking{}, fmt.Errorf("resident %s, slot %d: %w", residentID, slotID, store.ErrAlreadyBooked)
	case err == nil:
		return s.rebook(ctx, existing)
	case !errors.Is(err, store.ErrNotFound):
		return model.MealBooking{}, err
	}

	if err := s.ledger.ClaimSeats(ctx, slotID, 1); err != nil {
		return model.MealBooking{}, err
	}

	booking := model.MealBooking{
		ResidentID: residentID,
		MealSlotID: slotID,
		Status:     model.BookingActive,
		BookedAt:   s.now(),
	}
	if err := s.store.CreateBooking(ctx, &booking); err != nil {
		if relErr := s.ledger.ReleaseSeats(ctx, slotID, 1); relErr != nil {
			log.Printf("failed to release seat after booking error (slot %d): %v", slotID, relErr)
		}
		// A concurrent first booking can land between the lookup and the
		// insert; the unique index on (resident, slot) reports it here.
		if _, findErr := s.store.FindBooking(ctx, residentID, slotID); findErr == nil {
			return model.MealBooking{}, fmt.Errorf("resident %s, slot %d: %w", residentID, slotID, store.ErrAlreadyBooked)
		}
		return model.MealBooking{}, err
	}

	s.events.Publish(Event{
		Kind:     EventSlotBooked,
		HostelID: slot.HostelID,
		Message:  fmt.Sprintf("%s slot on %s booked", slot.MealType, slot.Date),
	})
	return booking, nil
}

// rebook reactivates a cancelled booking, claiming the seat again.
func (s *MealService) rebook(ctx context.Context, booking model.MealBooking) (model.MealBooking, error) {
	if err := s.ledger.ClaimSeats(ctx, booking.MealSlotID, 1); err != nil {
		return model.MealBooking{}, err
	}

	booking.Status = model.BookingActive
	booking.BookedAt = s.now()
	if err := s.store.TransitionBooking(ctx, &booking, model.BookingCancelled); err != nil {
		if relErr := s.ledger.ReleaseSeats(ctx, booking.MealSlotID, 1); relErr != nil {
			log.Printf("failed to release seat after rebook error (slot %d): %v", booking.MealSlotID, relErr)
		}
		if errors.Is(err, store.ErrInvalidTransition) {
			return model.MealBooking{}, fmt.Errorf("resident %s, slot %d: %w",
				booking.ResidentID, booking.MealSlotID, store.ErrAlreadyBooked)
		}
		return model.MealBooking{}, err
	}
	return booking, nil
}

// CancelBooking releases a resident's seat. The booking record is kept
// for audit with its status flipped to cancelled.
func (s *MealService) CancelBooking(ctx context.Context, residentID string, bookingID int64) (model.MealBooking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return model.MealBooking{}, err
	}
	if booking.ResidentID != residentID {
		return model.MealBooking{}, fmt.Errorf("booking %d: %w", bookingID, store.ErrAccessDenied)
	}
	if booking.Status == model.BookingCancelled {
		return model.MealBooking{}, fmt.Errorf("cancel from %q: %w", booking.Status, store.ErrInvalidTransition)
	}

	booking.Status = model.BookingCancelled
	if err := s.store.TransitionBooking(ctx, &booking, model.BookingActive); err != nil {
		return model.MealBooking{}, err
	}

	// Only the guarded-write winner releases; a racing second cancel
	// cannot free the seat twice.
	if err := s.ledger.ReleaseSeats(ctx, booking.MealSlotID, 1); err != nil {
		log.Printf("failed to release seat after cancel (slot %d): %v", booking.MealSlotID, err)
	}
	return booking, nil
}

// BookingsForResident lists a resident's bookings, newest first.
func (s *MealService) BookingsForResident(ctx context.Context, residentID string) ([]model.MealBooking, error) {
	return s.store.ListBookingsByResident(ctx, residentID)
}
