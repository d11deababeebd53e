package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"staysync-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_GetHostel(t *testing.T) {
	t.Run("found with room types preloaded", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		store := NewGormStore(gormDB)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "hostels"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "location", "pincode"}).
				AddRow(1, "owner@pg.test", "Sunrise PG", "Pune", "411001"))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "room_types"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "hostel_id", "type_label", "total_capacity", "vacant"}).
				AddRow(1, 1, "Single", 4, 2))

		hostel, err := store.GetHostel(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Sunrise PG", hostel.Name)
		require.Len(t, hostel.RoomTypes, 1)
		assert.Equal(t, 2, hostel.RoomTypes[0].Vacant)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to the domain sentinel", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		store := NewGormStore(gormDB)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "hostels"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := store.GetHostel(context.Background(), 42)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStore_HasPendingApplication(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "room_applications"`)).
		WithArgs("alice@mail.test", int64(7), "Single", model.ApplicationPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	has, err := store.HasPendingApplication(context.Background(), "alice@mail.test", 7, "Single")
	require.NoError(t, err)
	assert.True(t, has)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_FindBooking(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "meal_bookings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "resident_id", "meal_slot_id", "status", "booked_at"}).
			AddRow(3, "alice@mail.test", 9, model.BookingActive, time.Now()))

	booking, err := store.FindBooking(context.Background(), "alice@mail.test", 9)
	require.NoError(t, err)
	assert.Equal(t, int64(3), booking.ID)
	assert.Equal(t, model.BookingActive, booking.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateTicket(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	dbErr := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "maintenance_tickets"`)).
		WillReturnError(dbErr)
	mock.ExpectRollback()

	ticket := model.MaintenanceTicket{
		ResidentID:  "alice@mail.test",
		OwnerID:     "owner@pg.test",
		HostelID:    1,
		Category:    "plumbing",
		Description: "leaking tap",
		Status:      model.TicketPending,
	}
	err := store.CreateTicket(context.Background(), &ticket)
	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "create ticket")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ListTicketsByOwner(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	// The owner view groups by block/floor/seq, so the query must carry
	// that ordering.
	mock.ExpectQuery(`SELECT \* FROM "maintenance_tickets" WHERE owner_id = .+ ORDER BY room_block, room_floor, room_seq, created_at DESC`).
		WithArgs("owner@pg.test").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "room_block", "room_floor", "room_seq"}).
			AddRow(1, "owner@pg.test", "A", 2, 3).
			AddRow(2, "owner@pg.test", "B", 1, 4))

	tickets, err := store.ListTicketsByOwner(context.Background(), "owner@pg.test")
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "A", tickets[0].RoomBlock)

	assert.NoError(t, mock.ExpectationsWereMet())
}
