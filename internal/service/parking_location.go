package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/internal/repository"
)

type ParkingLocationInput struct {
	Name            string
	Address         string
	Lat             *float64
	Lng             *float64
	TotalSpaces     int
	AvailableSpaces int
	HourlyRate      *float64
	DailyRate       *float64
	MonthlyRate     *float64
	Features        []string
	OpeningHours    entity.OpeningHours
	Contact         entity.Contact
	Manager         entity.Manager
}

func (s *Service) CreateParkingLocation(
	ctx context.Context, actor *entity.User, in ParkingLocationInput,
) (*entity.ParkingLocation, error) {
	if !entity.CanAct(actor, entity.PortalWilaya) {
		return nil, entity.ErrForbidden
	}

	if in.Name == "" || in.Address == "" {
		return nil, entity.ErrMissingRequiredField
	}

	if in.TotalSpaces <= 0 || !entity.ValidSpaces(in.AvailableSpaces, in.TotalSpaces) {
		return nil, entity.ErrSpacesOutOfRange
	}

	if in.Features == nil {
		in.Features = []string{}
	}

	now := time.Now().UTC()

	loc := &entity.ParkingLocation{
		ID:              newID(),
		Name:            in.Name,
		Address:         in.Address,
		Lat:             in.Lat,
		Lng:             in.Lng,
		TotalSpaces:     in.TotalSpaces,
		AvailableSpaces: in.AvailableSpaces,
		HourlyRate:      in.HourlyRate,
		DailyRate:       in.DailyRate,
		MonthlyRate:     in.MonthlyRate,
		Features:        in.Features,
		Status:          entity.LocationStatusActive,
		OpeningHours:    in.OpeningHours,
		Contact:         in.Contact,
		Manager:         in.Manager,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	activity := entity.NewActivity(
		entity.ActivityParkingLocationCreated,
		fmt.Sprintf("%s created parking location %q", actor.FullName, loc.Name),
		actor.FullName,
		entity.PortalWilaya,
	).WithUser(actor.ID.String())

	err := s.repo.CreateParkingLocation(ctx, loc, activity)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, activity)

	return loc, nil
}

type ParkingLocationListInput struct {
	Status entity.LocationStatus
	Page   uint64
	Limit  uint64
}

func (s *Service) ParkingLocations(
	ctx context.Context, actor *entity.User, in ParkingLocationListInput,
) ([]entity.ParkingLocation, int, error) {
	if !entity.CanAct(actor, entity.PortalWilaya) {
		return nil, 0, entity.ErrForbidden
	}

	if in.Status != "" && !in.Status.IsValid() {
		return nil, 0, entity.ErrInvalidStatus
	}

	page, limit := normalizePaging(in.Page, in.Limit)

	return s.repo.ParkingLocations(ctx, repository.ParkingLocationFilter{
		Status: in.Status,
		Page:   page,
		Limit:  limit,
	})
}

func (s *Service) ParkingLocationByID(
	ctx context.Context, actor *entity.User, locationID uuid.UUID,
) (*entity.ParkingLocation, error) {
	if !entity.CanAct(actor, entity.PortalWilaya) {
		return nil, entity.ErrForbidden
	}

	return s.repo.ParkingLocationByID(ctx, locationID)
}

type UpdateParkingLocationInput struct {
	Name            *string
	Address         *string
	Lat             *float64
	Lng             *float64
	TotalSpaces     *int
	AvailableSpaces *int
	HourlyRate      *float64
	DailyRate       *float64
	MonthlyRate     *float64
	Features        []string
	OpeningHours    *entity.OpeningHours
	Contact         *entity.Contact
	Manager         *entity.Manager
}

func (s *Service) UpdateParkingLocation(
	ctx context.Context, actor *entity.User, locationID uuid.UUID, in UpdateParkingLocationInput,
) (*entity.ParkingLocation, error) {
	if !entity.CanAct(actor, entity.PortalWilaya) {
		return nil, entity.ErrForbidden
	}

	loc, err := s.repo.ParkingLocationByID(ctx, locationID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, entity.ErrMissingRequiredField
		}

		loc.Name = *in.Name
	}

	if in.Address != nil {
		if *in.Address == "" {
			return nil, entity.ErrMissingRequiredField
		}

		loc.Address = *in.Address
	}

	if in.Lat != nil {
		loc.Lat = in.Lat
	}

	if in.Lng != nil {
		loc.Lng = in.Lng
	}

	if in.TotalSpaces != nil {
		loc.TotalSpaces = *in.TotalSpaces
	}

	if in.AvailableSpaces != nil {
		loc.AvailableSpaces = *in.AvailableSpaces
	}

	if loc.TotalSpaces <= 0 || !entity.ValidSpaces(loc.AvailableSpaces, loc.TotalSpaces) {
		return nil, entity.ErrSpacesOutOfRange
	}

	if in.HourlyRate != nil {
		loc.HourlyRate = in.HourlyRate
	}

	if in.DailyRate != nil {
		loc.DailyRate = in.DailyRate
	}

	if in.MonthlyRate != nil {
		loc.MonthlyRate = in.MonthlyRate
	}

	if in.Features != nil {
		loc.Features = in.Features
	}

	if in.OpeningHours != nil {
		loc.OpeningHours = *in.OpeningHours
	}

	if in.Contact != nil {
		loc.Contact = *in.Contact
	}

	if in.Manager != nil {
		loc.Manager = *in.Manager
	}

	activity := entity.NewActivity(
		entity.ActivityParkingLocationUpdated,
		fmt.Sprintf("%s updated parking location %q", actor.FullName, loc.Name),
		actor.FullName,
		entity.PortalWilaya,
	).WithUser(actor.ID.String())

	err = s.repo.UpdateParkingLocation(ctx, loc, activity)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, activity)

	return loc, nil
}

func (s *Service) UpdateParkingLocationStatus(
	ctx context.Context, actor *entity.User, locationID uuid.UUID, status entity.LocationStatus,
) (*entity.ParkingLocation, error) {
	if !entity.CanAct(actor, entity.PortalWilaya) {
		return nil, entity.ErrForbidden
	}

	if !status.IsValid() {
		return nil, entity.ErrInvalidStatus
	}

	loc, err := s.repo.ParkingLocationByID(ctx, locationID)
	if err != nil {
		return nil, err
	}

	activity := entity.NewActivity(
		entity.ActivityParkingLocationStatus,
		fmt.Sprintf("%s set parking location %q to %s", actor.FullName, loc.Name, status),
		actor.FullName,
		entity.PortalWilaya,
	).WithUser(actor.ID.String())

	err = s.repo.UpdateParkingLocationStatus(ctx, locationID, status, activity)
	if err != nil {
		return nil, err
	}

	loc.Status = status

	s.emit(ctx, activity)

	return loc, nil
}

// UpdateAvailableSpaces adjusts the live counter. The capacity invariant is
// re-checked under a row lock in the repository, so a stale read here cannot
// let the counter exceed capacity.
func (s *Service) UpdateAvailableSpaces(
	ctx context.Context, actor *entity.User, locationID uuid.UUID, available int,
) (*entity.ParkingLocation, error) {
	if !entity.CanAct(actor, entity.PortalWilaya) {
		return nil, entity.ErrForbidden
	}

	loc, err := s.repo.ParkingLocationByID(ctx, locationID)
	if err != nil {
		return nil, err
	}

	activity := entity.NewActivity(
		entity.ActivityParkingSpacesUpdated,
		fmt.Sprintf("%s set available spaces of %q to %d", actor.FullName, loc.Name, available),
		actor.FullName,
		entity.PortalWilaya,
	).WithUser(actor.ID.String())

	err = s.repo.UpdateAvailableSpaces(ctx, locationID, available, activity)
	if err != nil {
		return nil, err
	}

	loc.AvailableSpaces = available

	s.emit(ctx, activity)

	return loc, nil
}

func (s *Service) DeleteParkingLocation(ctx context.Context, actor *entity.User, locationID uuid.UUID) error {
	if actor.Role != entity.RoleAdmin {
		return entity.ErrForbidden
	}

	loc, err := s.repo.ParkingLocationByID(ctx, locationID)
	if err != nil {
		return err
	}

	activity := entity.NewActivity(
		entity.ActivityParkingLocationDeleted,
		fmt.Sprintf("%s deleted parking location %q", actor.FullName, loc.Name),
		actor.FullName,
		entity.PortalWilaya,
	).WithUser(actor.ID.String())

	err = s.repo.DeleteParkingLocation(ctx, locationID, activity)
	if err != nil {
		return err
	}

	s.emit(ctx, activity)

	return nil
}

func (s *Service) ParkingLocationStatsOverview(ctx context.Context, actor *entity.User) (entity.LocationStats, error) {
	if !entity.CanAct(actor, entity.PortalWilaya) {
		return entity.LocationStats{}, entity.ErrForbidden
	}

	return s.repo.ParkingLocationStats(ctx)
}
