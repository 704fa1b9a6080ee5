package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/internal/repository"
)

type CreateParkingRequestInput struct {
	Title           string
	Description     string
	Location        entity.Location
	Requester       entity.Requester
	Priority        entity.Priority
	RequestedSpaces int
	EstimatedCost   *float64
	Documents       []string
}

func (s *Service) CreateParkingRequest(
	ctx context.Context, actor *entity.User, in CreateParkingRequestInput,
) (*entity.ParkingRequest, error) {
	if in.Title == "" {
		return nil, entity.ErrMissingRequiredField
	}

	if in.RequestedSpaces <= 0 {
		return nil, entity.ErrSpacesOutOfRange
	}

	if in.Priority == "" {
		in.Priority = entity.PriorityMedium
	}

	if !in.Priority.IsValid() {
		return nil, entity.ErrInvalidPriority
	}

	// requester defaults to the submitting account
	if in.Requester.Name == "" {
		in.Requester.Name = actor.FullName
	}

	if in.Requester.Email == "" {
		in.Requester.Email = actor.Email
	}

	if in.Requester.Phone == "" {
		in.Requester.Phone = actor.Phone
	}

	if in.Requester.IDCard == "" {
		in.Requester.IDCard = actor.IDCard
	}

	if in.Documents == nil {
		in.Documents = []string{}
	}

	now := time.Now().UTC()

	req := &entity.ParkingRequest{
		ID:              newID(),
		Title:           in.Title,
		Description:     in.Description,
		Location:        in.Location,
		Requester:       in.Requester,
		Status:          entity.RequestStatusPending,
		Priority:        in.Priority,
		RequestedSpaces: in.RequestedSpaces,
		EstimatedCost:   in.EstimatedCost,
		Documents:       in.Documents,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	activity := entity.NewActivity(
		entity.ActivityParkingRequestCreated,
		fmt.Sprintf("%s created parking request %q", actor.FullName, req.Title),
		actor.FullName,
		entity.PortalWilaya,
	).WithUser(actor.ID.String())

	err := s.repo.CreateParkingRequest(ctx, req, activity)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, activity)

	return req, nil
}

type ParkingRequestListInput struct {
	Status   entity.RequestStatus
	Priority entity.Priority
	Page     uint64
	Limit    uint64
}

func (s *Service) ParkingRequests(
	ctx context.Context, actor *entity.User, in ParkingRequestListInput,
) ([]entity.ParkingRequest, int, error) {
	if !entity.CanAct(actor, entity.PortalWilaya) {
		return nil, 0, entity.ErrForbidden
	}

	if in.Status != "" && !in.Status.IsValid() {
		return nil, 0, entity.ErrInvalidStatus
	}

	if in.Priority != "" && !in.Priority.IsValid() {
		return nil, 0, entity.ErrInvalidPriority
	}

	page, limit := normalizePaging(in.Page, in.Limit)

	return s.repo.ParkingRequests(ctx, repository.ParkingRequestFilter{
		Status:   in.Status,
		Priority: in.Priority,
		Page:     page,
		Limit:    limit,
	})
}

func (s *Service) ParkingRequestByID(
	ctx context.Context, actor *entity.User, requestID uuid.UUID,
) (*entity.ParkingRequest, error) {
	if !entity.CanAct(actor, entity.PortalWilaya) {
		return nil, entity.ErrForbidden
	}

	return s.repo.ParkingRequestByID(ctx, requestID)
}

type UpdateParkingRequestInput struct {
	Title           *string
	Description     *string
	Location        *entity.Location
	Priority        *entity.Priority
	RequestedSpaces *int
	EstimatedCost   *float64
	Documents       []string
}

func (s *Service) UpdateParkingRequest(
	ctx context.Context, actor *entity.User, requestID uuid.UUID, in UpdateParkingRequestInput,
) (*entity.ParkingRequest, error) {
	if !entity.CanAct(actor, entity.PortalWilaya) {
		return nil, entity.ErrForbidden
	}

	req, err := s.repo.ParkingRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if req.Status.IsTerminal() {
		return nil, entity.ErrReviewImmutable
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, entity.ErrMissingRequiredField
		}

		req.Title = *in.Title
	}

	if in.Description != nil {
		req.Description = *in.Description
	}

	if in.Location != nil {
		req.Location = *in.Location
	}

	if in.Priority != nil {
		if !in.Priority.IsValid() {
			return nil, entity.ErrInvalidPriority
		}

		req.Priority = *in.Priority
	}

	if in.RequestedSpaces != nil {
		if *in.RequestedSpaces <= 0 {
			return nil, entity.ErrSpacesOutOfRange
		}

		req.RequestedSpaces = *in.RequestedSpaces
	}

	if in.EstimatedCost != nil {
		req.EstimatedCost = in.EstimatedCost
	}

	if in.Documents != nil {
		req.Documents = in.Documents
	}

	activity := entity.NewActivity(
		entity.ActivityParkingRequestUpdated,
		fmt.Sprintf("%s updated parking request %q", actor.FullName, req.Title),
		actor.FullName,
		entity.PortalWilaya,
	).WithUser(actor.ID.String())

	err = s.repo.UpdateParkingRequest(ctx, req, activity)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, activity)

	return req, nil
}

func (s *Service) UpdateParkingRequestStatus(
	ctx context.Context, actor *entity.User, requestID uuid.UUID, status entity.RequestStatus, reviewNotes *string,
) (*entity.ParkingRequest, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, entity.ErrForbidden
	}

	if !status.IsValid() {
		return nil, entity.ErrInvalidStatus
	}

	req, err := s.repo.ParkingRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !req.CanTransitionTo(status) {
		return nil, entity.ErrInvalidTransition
	}

	activity := entity.NewActivity(
		entity.ActivityParkingRequestStatusUpdated,
		fmt.Sprintf("%s moved parking request %q from %s to %s", actor.FullName, req.Title, req.Status, status),
		actor.FullName,
		entity.PortalWilaya,
	).WithUser(actor.ID.String())

	err = s.repo.UpdateParkingRequestStatus(ctx, requestID, req.Status, status, actor.FullName, reviewNotes, activity)
	if err != nil {
		return nil, err
	}

	req.Status = status
	req.ReviewedBy = &actor.FullName

	if reviewNotes != nil {
		req.ReviewNotes = reviewNotes
	}

	s.emit(ctx, activity)

	return req, nil
}

func (s *Service) DeleteParkingRequest(ctx context.Context, actor *entity.User, requestID uuid.UUID) error {
	if actor.Role != entity.RoleAdmin {
		return entity.ErrForbidden
	}

	req, err := s.repo.ParkingRequestByID(ctx, requestID)
	if err != nil {
		return err
	}

	activity := entity.NewActivity(
		entity.ActivityParkingRequestDeleted,
		fmt.Sprintf("%s deleted parking request %q", actor.FullName, req.Title),
		actor.FullName,
		entity.PortalWilaya,
	).WithUser(actor.ID.String())

	err = s.repo.DeleteParkingRequest(ctx, requestID, activity)
	if err != nil {
		return err
	}

	s.emit(ctx, activity)

	return nil
}

func (s *Service) ParkingRequestStatsOverview(ctx context.Context, actor *entity.User) (entity.RequestStats, error) {
	if !entity.CanAct(actor, entity.PortalWilaya) {
		return entity.RequestStats{}, entity.ErrForbidden
	}

	return s.repo.ParkingRequestStats(ctx)
}
