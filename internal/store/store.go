package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"staysync-backend/internal/model"
)

// Store defines the persistence operations the workflows depend on.
// Every entity is reachable by id, with owner/resident/hostel indexes for
// the filtered queries the dashboards need; nothing scans a whole
// collection per operation.
type Store interface {
	DB() *gorm.DB

	CreateHostel(ctx context.Context, h *model.Hostel) error
	GetHostel(ctx context.Context, id int64) (model.Hostel, error)
	GetHostelByOwner(ctx context.Context, ownerID string) (model.Hostel, error)
	ListHostels(ctx context.Context) ([]model.Hostel, error)
	GetRoomType(ctx context.Context, hostelID int64, typeLabel string) (model.RoomType, error)

	CreateApplication(ctx context.Context, app *model.RoomApplication) error
	GetApplication(ctx context.Context, id int64) (model.RoomApplication, error)
	TransitionApplication(ctx context.Context, app *model.RoomApplication, from string) error
	HasPendingApplication(ctx context.Context, residentID string, hostelID int64, typeLabel string) (bool, error)
	HasApprovedApplication(ctx context.Context, residentID string, hostelID int64) (bool, error)
	ListApplicationsByResident(ctx context.Context, residentID string) ([]model.RoomApplication, error)
	ListApplicationsByOwner(ctx context.Context, ownerID string) ([]model.RoomApplication, error)

	CreateMenuItem(ctx context.Context, item *model.MealMenuItem) error
	GetMenuItem(ctx context.Context, id int64) (model.MealMenuItem, error)
	ListMenuItemsByOwner(ctx context.Context, ownerID string) ([]model.MealMenuItem, error)

	CreateSlot(ctx context.Context, slot *model.MealSlot) error
	GetSlot(ctx context.Context, id int64) (model.MealSlot, error)
	ListSlotsByHostel(ctx context.Context, hostelID int64) ([]model.MealSlot, error)

	CreateBooking(ctx context.Context, b *model.MealBooking) error
	TransitionBooking(ctx context.Context, b *model.MealBooking, from string) error
	GetBooking(ctx context.Context, id int64) (model.MealBooking, error)
	FindBooking(ctx context.Context, residentID string, slotID int64) (model.MealBooking, error)
	ListBookingsByResident(ctx context.Context, residentID string) ([]model.MealBooking, error)

	CreateTicket(ctx context.Context, t *model.MaintenanceTicket) error
	GetTicket(ctx context.Context, id int64) (model.MaintenanceTicket, error)
	TransitionTicket(ctx context.Context, t *model.MaintenanceTicket, from string) error
	ListTicketsByResident(ctx context.Context, residentID string) ([]model.MaintenanceTicket, error)
	ListTicketsByOwner(ctx context.Context, ownerID string) ([]model.MaintenanceTicket, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// asNotFound converts gorm's record-not-found into the domain sentinel.
func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- Hostels ---

func (s *gormStore) CreateHostel(ctx context.Context, h *model.Hostel) error {
	if err := s.db.WithContext(ctx).Create(h).Error; err != nil {
		return fmt.Errorf("create hostel: %w", err)
	}
	return nil
}

func (s *gormStore) GetHostel(ctx context.Context, id int64) (model.Hostel, error) {
	var h model.Hostel
	err := s.db.WithContext(ctx).Preload("RoomTypes").First(&h, id).Error
	return h, asNotFound(err)
}

func (s *gormStore) GetHostelByOwner(ctx context.Context, ownerID string) (model.Hostel, error) {
	var h model.Hostel
	err := s.db.WithContext(ctx).Preload("RoomTypes").First(&h, "owner_id = ?", ownerID).Error
	return h, asNotFound(err)
}

func (s *gormStore) ListHostels(ctx context.Context) ([]model.Hostel, error) {
	var hostels []model.Hostel
	err := s.db.WithContext(ctx).Preload("RoomTypes").Find(&hostels).Error
	return hostels, err
}

func (s *gormStore) GetRoomType(ctx context.Context, hostelID int64, typeLabel string) (model.RoomType, error) {
	var rt model.RoomType
	err := s.db.WithContext(ctx).
		First(&rt, "hostel_id = ? AND type_label = ?", hostelID, typeLabel).Error
	return rt, asNotFound(err)
}

// --- Room applications ---

func (s *gormStore) CreateApplication(ctx context.Context, app *model.RoomApplication) error {
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (s *gormStore) GetApplication(ctx context.Context, id int64) (model.RoomApplication, error) {
	var app model.RoomApplication
	err := s.db.WithContext(ctx).First(&app, id).Error
	return app, asNotFound(err)
}

// TransitionApplication writes an application's new status iff the row
// still holds the expected one. The guard lives in the UPDATE itself, so
// two pooled connections racing over the same application cannot both
// commit; the loser gets ErrInvalidTransition.
func (s *gormStore) TransitionApplication(ctx context.Context, app *model.RoomApplication, from string) error {
	res := s.db.WithContext(ctx).Model(&model.RoomApplication{}).
		Where("id = ? AND status = ?", app.ID, from).
		Update("status", app.Status)
	if res.Error != nil {
		return fmt.Errorf("transition application: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("application %d is no longer %q: %w", app.ID, from, ErrInvalidTransition)
	}
	return nil
}

func (s *gormStore) HasPendingApplication(ctx context.Context, residentID string, hostelID int64, typeLabel string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.RoomApplication{}).
		Where("resident_id = ? AND hostel_id = ? AND room_type_label = ? AND status = ?",
			residentID, hostelID, typeLabel, model.ApplicationPending).
		Count(&count).Error
	return count > 0, err
}

func (s *gormStore) HasApprovedApplication(ctx context.Context, residentID string, hostelID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.RoomApplication{}).
		Where("resident_id = ? AND hostel_id = ? AND status = ?",
			residentID, hostelID, model.ApplicationApproved).
		Count(&count).Error
	return count > 0, err
}

func (s *gormStore) ListApplicationsByResident(ctx context.Context, residentID string) ([]model.RoomApplication, error) {
	var apps []model.RoomApplication
	err := s.db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Order("applied_at DESC").
		Find(&apps).Error
	return apps, err
}

func (s *gormStore) ListApplicationsByOwner(ctx context.Context, ownerID string) ([]model.RoomApplication, error) {
	var apps []model.RoomApplication
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("applied_at DESC").
		Find(&apps).Error
	return apps, err
}

// --- Meal menu items ---

func (s *gormStore) CreateMenuItem(ctx context.Context, item *model.MealMenuItem) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	return nil
}

func (s *gormStore) GetMenuItem(ctx context.Context, id int64) (model.MealMenuItem, error) {
	var item model.MealMenuItem
	err := s.db.WithContext(ctx).First(&item, id).Error
	return item, asNotFound(err)
}

func (s *gormStore) ListMenuItemsByOwner(ctx context.Context, ownerID string) ([]model.MealMenuItem, error) {
	var items []model.MealMenuItem
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&items).Error
	return items, err
}

// --- Meal slots ---

func (s *gormStore) CreateSlot(ctx context.Context, slot *model.MealSlot) error {
	if err := s.db.WithContext(ctx).Create(slot).Error; err != nil {
		return fmt.Errorf("create meal slot: %w", err)
	}
	return nil
}

func (s *gormStore) GetSlot(ctx context.Context, id int64) (model.MealSlot, error) {
	var slot model.MealSlot
	err := s.db.WithContext(ctx).Preload("MenuItem").First(&slot, id).Error
	return slot, asNotFound(err)
}

func (s *gormStore) ListSlotsByHostel(ctx context.Context, hostelID int64) ([]model.MealSlot, error) {
	var slots []model.MealSlot
	err := s.db.WithContext(ctx).Preload("MenuItem").
		Where("hostel_id = ?", hostelID).
		Order("date, meal_type").
		Find(&slots).Error
	return slots, err
}

// --- Meal bookings ---

func (s *gormStore) CreateBooking(ctx context.Context, b *model.MealBooking) error {
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// TransitionBooking is the guarded status write for bookings; BookedAt
// travels with the status so a re-book stamps its own time.
func (s *gormStore) TransitionBooking(ctx context.Context, b *model.MealBooking, from string) error {
	res := s.db.WithContext(ctx).Model(&model.MealBooking{}).
		Where("id = ? AND status = ?", b.ID, from).
		Updates(map[string]any{"status": b.Status, "booked_at": b.BookedAt})
	if res.Error != nil {
		return fmt.Errorf("transition booking: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("booking %d is no longer %q: %w", b.ID, from, ErrInvalidTransition)
	}
	return nil
}

func (s *gormStore) GetBooking(ctx context.Context, id int64) (model.MealBooking, error) {
	var b model.MealBooking
	err := s.db.WithContext(ctx).First(&b, id).Error
	return b, asNotFound(err)
}

func (s *gormStore) FindBooking(ctx context.Context, residentID string, slotID int64) (model.MealBooking, error) {
	var b model.MealBooking
	err := s.db.WithContext(ctx).
		First(&b, "resident_id = ? AND meal_slot_id = ?", residentID, slotID).Error
	return b, asNotFound(err)
}

func (s *gormStore) ListBookingsByResident(ctx context.Context, residentID string) ([]model.MealBooking, error) {
	var bookings []model.MealBooking
	err := s.db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Order("booked_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// --- Maintenance tickets ---

func (s *gormStore) CreateTicket(ctx context.Context, t *model.MaintenanceTicket) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (s *gormStore) GetTicket(ctx context.Context, id int64) (model.MaintenanceTicket, error) {
	var t model.MaintenanceTicket
	err := s.db.WithContext(ctx).First(&t, id).Error
	return t, asNotFound(err)
}

func (s *gormStore) TransitionTicket(ctx context.Context, t *model.MaintenanceTicket, from string) error {
	res := s.db.WithContext(ctx).Model(&model.MaintenanceTicket{}).
		Where("id = ? AND status = ?", t.ID, from).
		Update("status", t.Status)
	if res.Error != nil {
		return fmt.Errorf("transition ticket: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("ticket %d is no longer %q: %w", t.ID, from, ErrInvalidTransition)
	}
	return nil
}

func (s *gormStore) ListTicketsByResident(ctx context.Context, residentID string) ([]model.MaintenanceTicket, error) {
	var tickets []model.MaintenanceTicket
	err := s.db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (s *gormStore) ListTicketsByOwner(ctx context.Context, ownerID string) ([]model.MaintenanceTicket, error) {
	var tickets []model.MaintenanceTicket
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("room_block, room_floor, room_seq, created_at DESC").
		Find(&tickets).Error
	return tickets, err
}
