package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staysync-backend/internal/model"
	"staysync-backend/internal/store"
)

var testNow = time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

func TestApply(t *testing.T) {
	env := newTestEnv(t, testNow)
	ctx := context.Background()
	hostel := env.seedHostel(t, "owner@pg.test", RoomTypeSpec{Label: "Single", Total: 4, Vacant: 2})

	app, err := env.rooms.Apply(ctx, "alice@mail.test", hostel.ID, "Single")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationPending, app.Status)
	assert.Equal(t, "owner@pg.test", app.OwnerID)
	assert.Equal(t, testNow, app.AppliedAt.UTC())

	// Applying never reserves capacity.
	assert.Equal(t, 2, env.vacantCount(t, hostel.ID, "Single"))

	t.Run("duplicate pending is rejected", func(t *testing.T) {
		_, err := env.rooms.Apply(ctx, "alice@mail.test", hostel.ID, "Single")
		assert.ErrorIs(t, err, store.ErrDuplicatePending)
	})

	t.Run("unknown room type", func(t *testing.T) {
		_, err := env.rooms.Apply(ctx, "alice@mail.test", hostel.ID, "Double")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unknown hostel", func(t *testing.T) {
		_, err := env.rooms.Apply(ctx, "alice@mail.test", hostel.ID+99, "Single")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("missing resident", func(t *testing.T) {
		_, err := env.rooms.Apply(ctx, "", hostel.ID, "Single")
		assert.ErrorIs(t, err, store.ErrInvalidInput)
	})
}

func TestApprove(t *testing.T) {
	env := newTestEnv(t, testNow)
	ctx := context.Background()
	hostel := env.seedHostel(t, "owner@pg.test", RoomTypeSpec{Label: "Single", Total: 3, Vacant: 1})

	app, err := env.rooms.Apply(ctx, "alice@mail.test", hostel.ID, "Single")
	require.NoError(t, err)

	t.Run("only the owning owner may approve", func(t *testing.T) {
		_, err := env.rooms.Approve(ctx, "other@pg.test", app.ID)
		assert.ErrorIs(t, err, store.ErrAccessDenied)
	})

	approved, err := env.rooms.Approve(ctx, "owner@pg.test", app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationApproved, approved.Status)
	assert.Equal(t, 0, env.vacantCount(t, hostel.ID, "Single"))

	t.Run("approve is not re-playable", func(t *testing.T) {
		_, err := env.rooms.Approve(ctx, "owner@pg.test", app.ID)
		assert.ErrorIs(t, err, store.ErrInvalidTransition)
		assert.Equal(t, 0, env.vacantCount(t, hostel.ID, "Single"))
	})

	t.Run("exhausted capacity leaves the application pending", func(t *testing.T) {
		second, err := env.rooms.Apply(ctx, "bob@mail.test", hostel.ID, "Single")
		require.NoError(t, err)

		_, err = env.rooms.Approve(ctx, "owner@pg.test", second.ID)
		assert.ErrorIs(t, err, store.ErrCapacityExhausted)

		reloaded, err := env.store.GetApplication(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationPending, reloaded.Status)
		assert.Equal(t, 0, env.vacantCount(t, hostel.ID, "Single"))
	})
}

func TestReject(t *testing.T) {
	env := newTestEnv(t, testNow)
	ctx := context.Background()
	hostel := env.seedHostel(t, "owner@pg.test", RoomTypeSpec{Label: "Single", Total: 3, Vacant: 2})

	t.Run("reject pending has no capacity effect", func(t *testing.T) {
		app, err := env.rooms.Apply(ctx, "alice@mail.test", hostel.ID, "Single")
		require.NoError(t, err)

		rejected, err := env.rooms.Reject(ctx, "owner@pg.test", app.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationRejected, rejected.Status)
		assert.Equal(t, 2, env.vacantCount(t, hostel.ID, "Single"))

		// Rejection is terminal and idempotent against retries.
		_, err = env.rooms.Reject(ctx, "owner@pg.test", app.ID)
		assert.ErrorIs(t, err, store.ErrInvalidTransition)
		reloaded, err := env.store.GetApplication(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationRejected, reloaded.Status)
	})

	t.Run("reject after approve releases the vacancy", func(t *testing.T) {
		app := env.seedApproved(t, "bob@mail.test", "owner@pg.test", hostel.ID, "Single")
		assert.Equal(t, 1, env.vacantCount(t, hostel.ID, "Single"))

		rejected, err := env.rooms.Reject(ctx, "owner@pg.test", app.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationRejected, rejected.Status)
		assert.Equal(t, 2, env.vacantCount(t, hostel.ID, "Single"))
	})

	t.Run("only the owning owner may reject", func(t *testing.T) {
		app, err := env.rooms.Apply(ctx, "carol@mail.test", hostel.ID, "Single")
		require.NoError(t, err)

		_, err = env.rooms.Reject(ctx, "other@pg.test", app.ID)
		assert.ErrorIs(t, err, store.ErrAccessDenied)
	})
}

// TestApproveConcurrent races two approvals for the last vacancy:
// exactly one must win and the counter must never go negative.
func TestApproveConcurrent(t *testing.T) {
	env := newTestEnv(t, testNow)
	ctx := context.Background()
	hostel := env.seedHostel(t, "owner@pg.test", RoomTypeSpec{Label: "Single", Total: 1, Vacant: 1})

	appA, err := env.rooms.Apply(ctx, "alice@mail.test", hostel.ID, "Single")
	require.NoError(t, err)
	appB, err := env.rooms.Apply(ctx, "bob@mail.test", hostel.ID, "Single")
	require.NoError(t, err)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i, id := range []int64{appA.ID, appB.ID} {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			_, results[i] = env.rooms.Approve(ctx, "owner@pg.test", id)
		}(i, id)
	}
	wg.Wait()

	var approved, exhausted int
	for _, err := range results {
		switch {
		case err == nil:
			approved++
		case assert.ErrorIs(t, err, store.ErrCapacityExhausted):
			exhausted++
		}
	}
	assert.Equal(t, 1, approved, "exactly one approval must win")
	assert.Equal(t, 1, exhausted, "the loser must see exhausted capacity")
	assert.Equal(t, 0, env.vacantCount(t, hostel.ID, "Single"))
}

func TestRejectConcurrent(t *testing.T) {
	env := newTestEnv(t, testNow)
	ctx := context.Background()
	hostel := env.seedHostel(t, "owner@pg.test", RoomTypeSpec{Label: "Single", Total: 3, Vacant: 1})
	app := env.seedApproved(t, "alice@mail.test", "owner@pg.test", hostel.ID, "Single")
	require.Equal(t, 0, env.vacantCount(t, hostel.ID, "Single"))

	const rejecters = 4
	results := make([]error, rejecters)
	var wg sync.WaitGroup
	for i := 0; i < rejecters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = env.rooms.Reject(ctx, "owner@pg.test", app.ID)
		}(i)
	}
	wg.Wait()

	var won int
	for _, err := range results {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, store.ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, won, "exactly one rejection must win")
	assert.Equal(t, 1, env.vacantCount(t, hostel.ID, "Single"), "the vacancy must be released exactly once")
}

func TestStaleStatusWriteIsRejected(t *testing.T) {
	env := newTestEnv(t, testNow)
	ctx := context.Background()
	hostel := env.seedHostel(t, "owner@pg.test", RoomTypeSpec{Label: "Single", Total: 2, Vacant: 2})

	app, err := env.rooms.Apply(ctx, "alice@mail.test", hostel.ID, "Single")
	require.NoError(t, err)

	// Two writers read the same pending application; the second write
	// carries a status guard that no longer matches.
	first := app
	first.Status = model.ApplicationApproved
	require.NoError(t, env.store.TransitionApplication(ctx, &first, model.ApplicationPending))

	second := app
	second.Status = model.ApplicationRejected
	err = env.store.TransitionApplication(ctx, &second, model.ApplicationPending)
	assert.ErrorIs(t, err, store.ErrInvalidTransition)

	reloaded, err := env.store.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationApproved, reloaded.Status)
}

func TestApplicationListings(t *testing.T) {
	env := newTestEnv(t, testNow)
	ctx := context.Background()
	hostelA := env.seedHostel(t, "owner-a@pg.test", RoomTypeSpec{Label: "Single", Total: 2, Vacant: 2})
	hostelB := env.seedHostel(t, "owner-b@pg.test", RoomTypeSpec{Label: "Double", Total: 2, Vacant: 2})

	_, err := env.rooms.Apply(ctx, "alice@mail.test", hostelA.ID, "Single")
	require.NoError(t, err)
	_, err = env.rooms.Apply(ctx, "alice@mail.test", hostelB.ID, "Double")
	require.NoError(t, err)
	_, err = env.rooms.Apply(ctx, "bob@mail.test", hostelA.ID, "Single")
	require.NoError(t, err)

	mine, err := env.rooms.ApplicationsForResident(ctx, "alice@mail.test")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	forOwner, err := env.rooms.ApplicationsForOwner(ctx, "owner-a@pg.test")
	require.NoError(t, err)
	assert.Len(t, forOwner, 2)
}
