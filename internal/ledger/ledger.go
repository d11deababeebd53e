// Package ledger owns the capacity counters of every allocatable unit
// (room type vacancies, meal slot seats) and provides the only legal
// mutation path for them.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"staysync-backend/internal/model"
	"staysync-backend/internal/store"
)

// Ledger performs atomic claim/release operations on unit counters.
// Each unit is a single point of serialization: a per-unit mutex
// serializes in-process callers, and the underlying UPDATE carries a
// capacity guard with a rows-affected check, so a partial read followed
// by an unsynchronized write can never over-allocate.
type Ledger struct {
	db *gorm.DB

	mu    sync.Mutex
	units map[string]*sync.Mutex
}

// New creates a ledger over the given database handle.
func New(db *gorm.DB) *Ledger {
	return &Ledger{
		db:    db,
		units: make(map[string]*sync.Mutex),
	}
}

// unitLock returns the mutex serializing mutations of one unit.
func (l *Ledger) unitLock(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.units[key]
	if !ok {
		lock = &sync.Mutex{}
		l.units[key] = lock
	}
	return lock
}

func roomKey(hostelID int64, typeLabel string) string {
	return fmt.Sprintf("room/%d/%s", hostelID, typeLabel)
}

func slotKey(slotID int64) string {
	return fmt.Sprintf("slot/%d", slotID)
}

// ClaimVacancy decrements the vacancy counter of a room type by n iff at
// least n vacancies remain. A full unit returns ErrCapacityExhausted
// immediately; there is no queuing.
func (l *Ledger) ClaimVacancy(ctx context.Context, hostelID int64, typeLabel string, n int) error {
	if n <= 0 {
		return store.ErrInvalidCapacity
	}

	lock := l.unitLock(roomKey(hostelID, typeLabel))
	lock.Lock()
	defer lock.Unlock()

	res := l.db.WithContext(ctx).Model(&model.RoomType{}).
		Where("hostel_id = ? AND type_label = ? AND vacant >= ?", hostelID, typeLabel, n).
		UpdateColumn("vacant", gorm.Expr("vacant - ?", n))
	if res.Error != nil {
		return fmt.Errorf("claim vacancy: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return l.claimFailure(ctx, &model.RoomType{}, "hostel_id = ? AND type_label = ?", hostelID, typeLabel)
	}
	return nil
}

// ReleaseVacancy increments the vacancy counter of a room type by n,
// clamped so it never exceeds the type's total capacity.
func (l *Ledger) ReleaseVacancy(ctx context.Context, hostelID int64, typeLabel string, n int) error {
	if n <= 0 {
		return store.ErrInvalidCapacity
	}

	lock := l.unitLock(roomKey(hostelID, typeLabel))
	lock.Lock()
	defer lock.Unlock()

	res := l.db.WithContext(ctx).Model(&model.RoomType{}).
		Where("hostel_id = ? AND type_label = ?", hostelID, typeLabel).
		UpdateColumn("vacant", gorm.Expr(
			"CASE WHEN vacant + ? > total_capacity THEN total_capacity ELSE vacant + ? END", n, n))
	if res.Error != nil {
		return fmt.Errorf("release vacancy: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ClaimSeats increments the booked-seats counter of a meal slot by n iff
// at least n seats remain free.
func (l *Ledger) ClaimSeats(ctx context.Context, slotID int64, n int) error {
	if n <= 0 {
		return store.ErrInvalidCapacity
	}

	lock := l.unitLock(slotKey(slotID))
	lock.Lock()
	defer lock.Unlock()

	res := l.db.WithContext(ctx).Model(&model.MealSlot{}).
		Where("id = ? AND booked_seats + ? <= total_seats", slotID, n).
		UpdateColumn("booked_seats", gorm.Expr("booked_seats + ?", n))
	if res.Error != nil {
		return fmt.Errorf("claim seats: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return l.claimFailure(ctx, &model.MealSlot{}, "id = ?", slotID)
	}
	return nil
}

// ReleaseSeats decrements the booked-seats counter of a meal slot by n,
// clamped at zero.
func (l *Ledger) ReleaseSeats(ctx context.Context, slotID int64, n int) error {
	if n <= 0 {
		return store.ErrInvalidCapacity
	}

	lock := l.unitLock(slotKey(slotID))
	lock.Lock()
	defer lock.Unlock()

	res := l.db.WithContext(ctx).Model(&model.MealSlot{}).
		Where("id = ?", slotID).
		UpdateColumn("booked_seats", gorm.Expr(
			"CASE WHEN booked_seats - ? < 0 THEN 0 ELSE booked_seats - ? END", n, n))
	if res.Error != nil {
		return fmt.Errorf("release seats: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// claimFailure distinguishes a missing unit from an exhausted one after a
// guarded update touched no rows.
func (l *Ledger) claimFailure(ctx context.Context, unit any, query string, args ...any) error {
	var count int64
	if err := l.db.WithContext(ctx).Model(unit).Where(query, args...).Count(&count).Error; err != nil {
		return fmt.Errorf("claim lookup: %w", err)
	}
	if count == 0 {
		return store.ErrNotFound
	}
	return store.ErrCapacityExhausted
}
