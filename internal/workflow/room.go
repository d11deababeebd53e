package workflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"staysync-backend/internal/ledger"
	"staysync-backend/internal/model"
	"staysync-backend/internal/store"
)

// RoomService owns the room application state machine:
//
//	pending --approve--> approved   (claims one vacancy)
//	pending --reject--> rejected    (no capacity effect)
//	approved --reject--> rejected   (correction path, releases the vacancy)
//
// Approved and rejected are terminal for approve; rejected is terminal
// outright.
type RoomService struct {
	store  store.Store
	ledger *ledger.Ledger
	events *Events
	now    func() time.Time
}

// NewRoomService creates a room application service.
func NewRoomService(s store.Store, l *ledger.Ledger, ev *Events) *RoomService {
	return &RoomService{store: s, ledger: l, events: ev, now: time.Now}
}

// Apply creates a pending application for one unit of a room type.
// Capacity is not claimed here: vacancy reflects confirmed occupancy,
// not pending demand.
func (s *RoomService) Apply(ctx context.Context, residentID string, hostelID int64, typeLabel string) (model.RoomApplication, error) {
	if residentID == "" || typeLabel == "" {
		return model.RoomApplication{}, fmt.Errorf("resident and room type are required: %w", store.ErrInvalidInput)
	}

	hostel, err := s.store.GetHostel(ctx, hostelID)
	if err != nil {
		return model.RoomApplication{}, err
	}
	if _, err := s.store.GetRoomType(ctx, hostelID, typeLabel); err != nil {
		return model.RoomApplication{}, err
	}

	pending, err := s.store.HasPendingApplication(ctx, residentID, hostelID, typeLabel)
	if err != nil {
		return model.RoomApplication{}, err
	}
	if pending {
		return model.RoomApplication{}, fmt.Errorf("resident %s, hostel %d, type %q: %w",
			residentID, hostelID, typeLabel, store.ErrDuplicatePending)
	}

	app := model.RoomApplication{
		ResidentID:    residentID,
		OwnerID:       hostel.OwnerID,
		HostelID:      hostelID,
		RoomTypeLabel: typeLabel,
		Status:        model.ApplicationPending,
		AppliedAt:     s.now(),
	}
	if err := s.store.CreateApplication(ctx, &app); err != nil {
		return model.RoomApplication{}, err
	}
	return app, nil
}

// Approve transitions a pending application to approved, claiming one
// vacancy of the matching room type. When the unit is full the claim
// fails with ErrCapacityExhausted and the application stays pending; the
// owner can reject it or retry once capacity frees up.
func (s *RoomService) Approve(ctx context.Context, ownerID string, appID int64) (model.RoomApplication, error) {
	app, err := s.store.GetApplication(ctx, appID)
	if err != nil {
		return model.RoomApplication{}, err
	}
	if app.OwnerID != ownerID {
		return model.RoomApplication{}, fmt.Errorf("application %d: %w", appID, store.ErrAccessDenied)
	}
	if app.Status != model.ApplicationPending {
		return model.RoomApplication{}, fmt.Errorf("approve from %q: %w", app.Status, store.ErrInvalidTransition)
	}

	if err := s.ledger.ClaimVacancy(ctx, app.HostelID, app.RoomTypeLabel, 1); err != nil {
		return model.RoomApplication{}, err
	}

	app.Status = model.ApplicationApproved
	if err := s.store.TransitionApplication(ctx, &app, model.ApplicationPending); err != nil {
		// Undo the claim so the counter stays consistent with the record.
		// A concurrent approval that won the status write keeps its own
		// claim; this one must not leak a second unit.
		if relErr := s.ledger.ReleaseVacancy(ctx, app.HostelID, app.RoomTypeLabel, 1); relErr != nil {
			log.Printf("failed to release vacancy after approve conflict (hostel %d, type %q): %v",
				app.HostelID, app.RoomTypeLabel, relErr)
		}
		return model.RoomApplication{}, err
	}

	s.events.Publish(Event{
		Kind:     EventApplicationApproved,
		HostelID: app.HostelID,
		Message:  fmt.Sprintf("Room application for %s approved", app.RoomTypeLabel),
	})
	return app, nil
}

// Reject transitions an application to rejected. Rejection is terminal:
// rejecting an already-rejected application is a no-op that returns
// ErrInvalidTransition. Rejecting a previously approved application is
// the correction path and releases the claimed vacancy once the status
// write commits.
func (s *RoomService) Reject(ctx context.Context, ownerID string, appID int64) (model.RoomApplication, error) {
	app, err := s.store.GetApplication(ctx, appID)
	if err != nil {
		return model.RoomApplication{}, err
	}
	if app.OwnerID != ownerID {
		return model.RoomApplication{}, fmt.Errorf("application %d: %w", appID, store.ErrAccessDenied)
	}
	if app.Status == model.ApplicationRejected {
		return model.RoomApplication{}, fmt.Errorf("reject from %q: %w", app.Status, store.ErrInvalidTransition)
	}

	from := app.Status
	app.Status = model.ApplicationRejected
	if err := s.store.TransitionApplication(ctx, &app, from); err != nil {
		return model.RoomApplication{}, err
	}

	// Only the writer that won the guarded transition releases, so a
	// vacancy can never be freed twice for one application.
	if from == model.ApplicationApproved {
		if err := s.ledger.ReleaseVacancy(ctx, app.HostelID, app.RoomTypeLabel, 1); err != nil {
			log.Printf("failed to release vacancy after reject (hostel %d, type %q): %v",
				app.HostelID, app.RoomTypeLabel, err)
		}
	}
	return app, nil
}

// ApplicationsForResident lists a resident's applications, newest first.
func (s *RoomService) ApplicationsForResident(ctx context.Context, residentID string) ([]model.RoomApplication, error) {
	return s.store.ListApplicationsByResident(ctx, residentID)
}

// ApplicationsForOwner lists the applications addressed to an owner.
func (s *RoomService) ApplicationsForOwner(ctx context.Context, ownerID string) ([]model.RoomApplication, error) {
	return s.store.ListApplicationsByOwner(ctx, ownerID)
}
