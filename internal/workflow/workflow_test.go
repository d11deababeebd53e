package workflow

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"staysync-backend/config"
	"staysync-backend/internal/db"
	"staysync-backend/internal/ledger"
	"staysync-backend/internal/model"
	"staysync-backend/internal/store"
)

var testDBSeq atomic.Int64

// newTestDB opens a private in-memory SQLite database with the full
// schema. A single connection keeps SQLite's shared-cache locking out
// of the way so concurrency tests exercise the engine, not the driver.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:workflow_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

type testEnv struct {
	db          *gorm.DB
	store       store.Store
	ledger      *ledger.Ledger
	events      *Events
	hostels     *HostelService
	rooms       *RoomService
	meals       *MealService
	maintenance *MaintenanceService
}

// newTestEnv wires the full workflow stack over a fresh database, with
// every service clock pinned to a fixed instant in UTC.
func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	gdb := newTestDB(t)
	s := store.NewGormStore(gdb)
	l := ledger.New(gdb)
	ev := NewEvents(16)

	meals, err := NewMealService(s, l, ev, config.BookingConfig{
		Timezone: "UTC",
		Cutoffs:  config.DefaultCutoffs,
	})
	require.NoError(t, err)

	env := &testEnv{
		db:          gdb,
		store:       s,
		ledger:      l,
		events:      ev,
		hostels:     NewHostelService(s),
		rooms:       NewRoomService(s, l, ev),
		meals:       meals,
		maintenance: NewMaintenanceService(s, ev),
	}
	clock := func() time.Time { return now }
	env.rooms.now = clock
	env.meals.now = clock
	env.maintenance.now = clock
	return env
}

// seedHostel creates a hostel for ownerID with the given room types.
func (env *testEnv) seedHostel(t *testing.T, ownerID string, roomTypes ...RoomTypeSpec) model.Hostel {
	t.Helper()

	hostel, err := env.hostels.CreateHostel(context.Background(), ownerID,
		ownerID+"'s PG", "Koramangala", "560034", roomTypes)
	require.NoError(t, err)
	return hostel
}

// seedApproved creates and approves an application so the resident is
// enrolled in the hostel.
func (env *testEnv) seedApproved(t *testing.T, residentID, ownerID string, hostelID int64, typeLabel string) model.RoomApplication {
	t.Helper()

	ctx := context.Background()
	app, err := env.rooms.Apply(ctx, residentID, hostelID, typeLabel)
	require.NoError(t, err)
	approved, err := env.rooms.Approve(ctx, ownerID, app.ID)
	require.NoError(t, err)
	return approved
}

// vacantCount reads the current vacancy of a room type straight from the
// database.
func (env *testEnv) vacantCount(t *testing.T, hostelID int64, typeLabel string) int {
	t.Helper()

	rt, err := env.store.GetRoomType(context.Background(), hostelID, typeLabel)
	require.NoError(t, err)
	return rt.Vacant
}

// bookedSeats reads the current booked-seats counter of a slot.
func (env *testEnv) bookedSeats(t *testing.T, slotID int64) int {
	t.Helper()

	slot, err := env.store.GetSlot(context.Background(), slotID)
	require.NoError(t, err)
	return slot.BookedSeats
}
