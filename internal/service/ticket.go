package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/internal/repository"
)

type UserRequestInput struct {
	FullName   string
	Email      string
	Phone      string
	IDCard     string
	Department string
	Position   string
}

// SubmitUserRequest is the unauthenticated account-request intake. It
// creates a pending user_request ticket on the business portal owned by the
// external sentinel.
func (s *Service) SubmitUserRequest(ctx context.Context, in UserRequestInput) (*entity.Ticket, error) {
	err := requireFields(map[string]string{
		"fullName": in.FullName,
		"email":    in.Email,
		"phone":    in.Phone,
		"idCard":   in.IDCard,
	})
	if err != nil {
		return nil, err
	}

	if err := ValidateEmail(in.Email); err != nil {
		return nil, err
	}

	if err := ValidatePhone(in.Phone); err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, in.Email, in.IDCard); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	ticket := &entity.Ticket{
		ID:          newID(),
		Title:       fmt.Sprintf("Account request: %s", in.FullName),
		Description: fmt.Sprintf("External account request from %s (%s)", in.FullName, in.Email),
		Type:        entity.TicketTypeUserRequest,
		Status:      entity.TicketStatusPending,
		Priority:    entity.PriorityMedium,
		Portal:      entity.PortalBusiness,
		UserID:      entity.ExternalUserID,
		UserRequestData: &entity.UserRequestData{
			FullName:   in.FullName,
			Email:      NormalizeEmail(in.Email),
			Phone:      in.Phone,
			IDCard:     in.IDCard,
			Department: in.Department,
			Position:   in.Position,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	activity := entity.NewActivity(
		entity.ActivityTicketCreated,
		fmt.Sprintf("account request submitted by %s", in.FullName),
		in.FullName,
		ticket.Portal,
	).WithTicket(ticket.ID).WithUser(entity.ExternalUserID)

	err = s.repo.CreateTicket(ctx, ticket, activity)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, activity)

	return ticket, nil
}

type CreateTicketInput struct {
	Title       string
	Description string
	Type        entity.TicketType
	Priority    entity.Priority
	Images      []string
	Location    entity.Location
}

func (s *Service) CreateTicket(ctx context.Context, actor *entity.User, in CreateTicketInput) (*entity.Ticket, error) {
	if in.Title == "" {
		return nil, entity.ErrMissingRequiredField
	}

	if !in.Type.IsValid() {
		return nil, entity.ErrInvalidType
	}

	if in.Priority == "" {
		in.Priority = entity.PriorityMedium
	}

	if !in.Priority.IsValid() {
		return nil, entity.ErrInvalidPriority
	}

	if in.Images == nil {
		in.Images = []string{}
	}

	now := time.Now().UTC()

	ticket := &entity.Ticket{
		ID:          newID(),
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Status:      entity.TicketStatusPending,
		Priority:    in.Priority,
		Images:      in.Images,
		Location:    in.Location,
		Portal:      actor.Portal,
		UserID:      actor.ID.String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	activity := entity.NewActivity(
		entity.ActivityTicketCreated,
		fmt.Sprintf("%s created ticket %q", actor.FullName, ticket.Title),
		actor.FullName,
		ticket.Portal,
	).WithTicket(ticket.ID).WithUser(actor.ID.String())

	err := s.repo.CreateTicket(ctx, ticket, activity)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, activity)

	return ticket, nil
}

type TicketListInput struct {
	Status   entity.TicketStatus
	Type     entity.TicketType
	Priority entity.Priority
	UserID   string
	Page     uint64
	Limit    uint64
}

// Tickets lists tickets visible to the actor. Non-admins see only their
// portal; employees additionally see only their own tickets, while police
// officers see the whole police portal.
func (s *Service) Tickets(ctx context.Context, actor *entity.User, in TicketListInput) ([]entity.Ticket, int, error) {
	if in.Status != "" && !in.Status.IsValid() {
		return nil, 0, entity.ErrInvalidStatus
	}

	if in.Type != "" && !in.Type.IsValid() {
		return nil, 0, entity.ErrInvalidType
	}

	if in.Priority != "" && !in.Priority.IsValid() {
		return nil, 0, entity.ErrInvalidPriority
	}

	filter := repository.TicketFilter{
		Status:   in.Status,
		Type:     in.Type,
		Priority: in.Priority,
		UserID:   in.UserID,
	}

	if actor.Role != entity.RoleAdmin {
		filter.Portal = actor.Portal
	}

	if actor.Role == entity.RoleEmployee {
		filter.UserID = actor.ID.String()
	}

	filter.Page, filter.Limit = normalizePaging(in.Page, in.Limit)

	return s.repo.Tickets(ctx, filter)
}

func (s *Service) TicketsByPortal(
	ctx context.Context, actor *entity.User, portal entity.Portal, page, limit uint64,
) ([]entity.Ticket, int, error) {
	if !portal.IsValid() {
		return nil, 0, entity.ErrInvalidPortal
	}

	if !entity.CanAct(actor, portal) {
		return nil, 0, entity.ErrForbidden
	}

	page, limit = normalizePaging(page, limit)

	filter := repository.TicketFilter{Portal: portal, Page: page, Limit: limit}

	// employees see their own tickets only, same as the main listing
	if actor.Role == entity.RoleEmployee {
		filter.UserID = actor.ID.String()
	}

	return s.repo.Tickets(ctx, filter)
}

func (s *Service) TicketByID(ctx context.Context, actor *entity.User, ticketID uuid.UUID) (*entity.Ticket, error) {
	ticket, err := s.repo.TicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !entity.CanAct(actor, ticket.Portal) {
		return nil, entity.ErrForbidden
	}

	return ticket, nil
}

type UpdateTicketInput struct {
	Title       *string
	Description *string
	Type        *entity.TicketType
	Priority    *entity.Priority
	Images      []string
	Location    *entity.Location
}

func (s *Service) UpdateTicket(
	ctx context.Context, actor *entity.User, ticketID uuid.UUID, in UpdateTicketInput,
) (*entity.Ticket, error) {
	ticket, err := s.repo.TicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !entity.CanModifyOwned(actor, ticket.Portal, ticket.UserID) {
		return nil, entity.ErrForbidden
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, entity.ErrMissingRequiredField
		}

		ticket.Title = *in.Title
	}

	if in.Description != nil {
		ticket.Description = *in.Description
	}

	if in.Type != nil {
		if !in.Type.IsValid() {
			return nil, entity.ErrInvalidType
		}

		ticket.Type = *in.Type
	}

	if in.Priority != nil {
		if !in.Priority.IsValid() {
			return nil, entity.ErrInvalidPriority
		}

		ticket.Priority = *in.Priority
	}

	if in.Images != nil {
		ticket.Images = in.Images
	}

	if in.Location != nil {
		ticket.Location = *in.Location
	}

	activity := entity.NewActivity(
		entity.ActivityTicketUpdated,
		fmt.Sprintf("%s updated ticket %q", actor.FullName, ticket.Title),
		actor.FullName,
		ticket.Portal,
	).WithTicket(ticket.ID).WithUser(actor.ID.String())

	err = s.repo.UpdateTicket(ctx, ticket, activity)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, activity)

	return ticket, nil
}

func (s *Service) UpdateTicketStatus(
	ctx context.Context, actor *entity.User, ticketID uuid.UUID, status entity.TicketStatus, resolution *string,
) (*entity.Ticket, error) {
	if !status.IsValid() {
		return nil, entity.ErrInvalidStatus
	}

	ticket, err := s.repo.TicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !entity.CanAct(actor, ticket.Portal) {
		return nil, entity.ErrForbidden
	}

	if !ticket.CanTransitionTo(status) {
		return nil, entity.ErrInvalidTransition
	}

	activity := entity.NewActivity(
		entity.ActivityTicketStatusUpdated,
		fmt.Sprintf("%s moved ticket %q from %s to %s", actor.FullName, ticket.Title, ticket.Status, status),
		actor.FullName,
		ticket.Portal,
	).WithTicket(ticket.ID).WithUser(actor.ID.String())

	err = s.repo.UpdateTicketStatus(ctx, ticketID, ticket.Status, status, resolution, activity)
	if err != nil {
		return nil, err
	}

	ticket.Status = status
	if resolution != nil {
		ticket.Resolution = resolution
	}

	s.emit(ctx, activity)

	return ticket, nil
}

func (s *Service) AssignTicket(
	ctx context.Context, actor *entity.User, ticketID uuid.UUID, officer string,
) (*entity.Ticket, error) {
	if officer == "" {
		return nil, entity.ErrMissingRequiredField
	}

	if !entity.CanAssign(actor) {
		return nil, entity.ErrForbidden
	}

	ticket, err := s.repo.TicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !entity.CanAct(actor, ticket.Portal) {
		return nil, entity.ErrForbidden
	}

	activity := entity.NewActivity(
		entity.ActivityTicketAssigned,
		fmt.Sprintf("%s assigned ticket %q to %s", actor.FullName, ticket.Title, officer),
		actor.FullName,
		ticket.Portal,
	).WithTicket(ticket.ID).WithUser(actor.ID.String())

	err = s.repo.AssignTicket(ctx, ticketID, officer, activity)
	if err != nil {
		return nil, err
	}

	ticket.AssignedOfficer = &officer

	s.emit(ctx, activity)

	return ticket, nil
}

func (s *Service) DeleteTicket(ctx context.Context, actor *entity.User, ticketID uuid.UUID) error {
	ticket, err := s.repo.TicketByID(ctx, ticketID)
	if err != nil {
		return err
	}

	if !entity.CanModifyOwned(actor, ticket.Portal, ticket.UserID) {
		return entity.ErrForbidden
	}

	activity := entity.NewActivity(
		entity.ActivityTicketDeleted,
		fmt.Sprintf("%s deleted ticket %q", actor.FullName, ticket.Title),
		actor.FullName,
		ticket.Portal,
	).WithTicket(ticket.ID).WithUser(actor.ID.String())

	err = s.repo.DeleteTicket(ctx, ticketID, activity)
	if err != nil {
		return err
	}

	s.emit(ctx, activity)

	return nil
}

// ApprovedUser is the account created from a user_request ticket. The
// one-time password is returned exactly once and never stored in clear.
type ApprovedUser struct {
	User            *entity.User
	OneTimePassword string
}

// ApproveUserRequest turns a pending user_request ticket into an account.
// Account insert, ticket transition and the audit row commit together; a
// duplicate email or id card rolls the whole approval back.
func (s *Service) ApproveUserRequest(
	ctx context.Context, actor *entity.User, ticketID uuid.UUID,
) (*ApprovedUser, error) {
	ticket, err := s.repo.TicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !entity.CanAct(actor, ticket.Portal) {
		return nil, entity.ErrForbidden
	}

	if ticket.Type != entity.TicketTypeUserRequest {
		return nil, entity.ErrNotUserRequest
	}

	if ticket.Status != entity.TicketStatusPending {
		return nil, entity.ErrInvalidTransition
	}

	data := ticket.UserRequestData
	if data == nil {
		return nil, entity.ErrNoUserRequestData
	}

	password, err := generateOneTimePassword()
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		ID:                    newID(),
		FullName:              data.FullName,
		Email:                 NormalizeEmail(data.Email),
		Phone:                 data.Phone,
		IDCard:                data.IDCard,
		PasswordHash:          string(hash),
		Role:                  entity.RoleAdmin,
		Portal:                entity.PortalBusiness,
		Status:                entity.UserStatusActive,
		PasswordResetRequired: true,
		CreatedAt:             time.Now().UTC(),
	}

	if data.Department != "" {
		user.Department = &data.Department
	}

	if data.Position != "" {
		user.Position = &data.Position
	}

	activity := entity.NewActivity(
		entity.ActivityUserRequestApproved,
		fmt.Sprintf("%s approved account request of %s", actor.FullName, user.FullName),
		actor.FullName,
		ticket.Portal,
	).WithTicket(ticket.ID).WithUser(user.ID.String())

	err = s.repo.ApproveUserRequest(ctx, ticketID, user, activity)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, activity)

	return &ApprovedUser{User: user, OneTimePassword: password}, nil
}

func (s *Service) TicketStatsOverview(ctx context.Context, actor *entity.User) (entity.TicketStats, error) {
	var portal entity.Portal

	if actor.Role != entity.RoleAdmin {
		portal = actor.Portal
	}

	return s.repo.TicketStats(ctx, portal)
}
