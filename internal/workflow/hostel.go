package workflow

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"staysync-backend/internal/model"
	"staysync-backend/internal/store"
)

var pincodeRe = regexp.MustCompile(`^\d{6}$`)

// RoomTypeSpec describes one room type of a new hostel.
type RoomTypeSpec struct {
	Label  string
	Total  int
	Vacant int
}

// HostelService owns hostel registration and the browse view residents
// book against.
type HostelService struct {
	store store.Store
}

// NewHostelService creates a hostel service.
func NewHostelService(s store.Store) *HostelService {
	return &HostelService{store: s}
}

// CreateHostel registers an owner's hostel with its room types. Each
// owner manages exactly one hostel. Room type counters are validated
// before anything is written: a unit violating 0 <= vacant <= total can
// never be constructed.
func (s *HostelService) CreateHostel(ctx context.Context, ownerID, name, location, pincode string, roomTypes []RoomTypeSpec) (model.Hostel, error) {
	if ownerID == "" || name == "" {
		return model.Hostel{}, fmt.Errorf("owner and name are required: %w", store.ErrInvalidInput)
	}
	if !pincodeRe.MatchString(pincode) {
		return model.Hostel{}, fmt.Errorf("pincode must be exactly 6 digits: %w", store.ErrInvalidInput)
	}
	if len(roomTypes) == 0 {
		return model.Hostel{}, fmt.Errorf("at least one room type is required: %w", store.ErrInvalidInput)
	}

	seen := make(map[string]bool, len(roomTypes))
	units := make([]model.RoomType, 0, len(roomTypes))
	for _, rt := range roomTypes {
		if rt.Label == "" {
			return model.Hostel{}, fmt.Errorf("room type label is required: %w", store.ErrInvalidInput)
		}
		if seen[rt.Label] {
			return model.Hostel{}, fmt.Errorf("duplicate room type %q: %w", rt.Label, store.ErrInvalidInput)
		}
		seen[rt.Label] = true
		if rt.Total < 0 || rt.Vacant < 0 || rt.Vacant > rt.Total {
			return model.Hostel{}, fmt.Errorf("room type %q: %w", rt.Label, store.ErrInvalidCapacity)
		}
		units = append(units, model.RoomType{
			TypeLabel:     rt.Label,
			TotalCapacity: rt.Total,
			Vacant:        rt.Vacant,
		})
	}

	if _, err := s.store.GetHostelByOwner(ctx, ownerID); err == nil {
		return model.Hostel{}, fmt.Errorf("owner %s already manages a hostel: %w", ownerID, store.ErrInvalidInput)
	} else if !errors.Is(err, store.ErrNotFound) {
		return model.Hostel{}, err
	}

	hostel := model.Hostel{
		OwnerID:   ownerID,
		Name:      name,
		Location:  location,
		Pincode:   pincode,
		RoomTypes: units,
	}
	if err := s.store.CreateHostel(ctx, &hostel); err != nil {
		return model.Hostel{}, err
	}
	return hostel, nil
}

// ListHostels returns all hostels with their room type vacancies.
func (s *HostelService) ListHostels(ctx context.Context) ([]model.Hostel, error) {
	return s.store.ListHostels(ctx)
}

// HostelForOwner returns the hostel managed by the given owner.
func (s *HostelService) HostelForOwner(ctx context.Context, ownerID string) (model.Hostel, error) {
	return s.store.GetHostelByOwner(ctx, ownerID)
}
