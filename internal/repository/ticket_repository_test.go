package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/suite"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/internal/repository"
)

type TicketRepositoryTestSuite struct {
	suite.Suite
	repo *repository.Repository
}

func (ts *TicketRepositoryTestSuite) SetupTest() {
	ts.repo = repository.New(repository.SetupTestDatabase(ts.T()))
}

func TestTicketRepositoryTestSuite(t *testing.T) { //nolint:paralleltest
	suite.Run(t, new(TicketRepositoryTestSuite))
}

func testTicket(portal entity.Portal, userID string) *entity.Ticket {
	now := time.Now().UTC()

	return &entity.Ticket{
		ID:        uuid.Must(uuid.NewV4()),
		Title:     "Test ticket",
		Type:      entity.TicketTypeEquipment,
		Status:    entity.TicketStatusPending,
		Priority:  entity.PriorityMedium,
		Images:    []string{},
		Portal:    portal,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (ts *TicketRepositoryTestSuite) TestCreateAndFetchTicket() {
	ctx := context.Background()
	ticket := testTicket(entity.PortalPolice, uuid.Must(uuid.NewV4()).String())

	err := ts.repo.CreateTicket(ctx, ticket, testActivity(entity.ActivityTicketCreated, ticket.Portal))
	ts.Require().NoError(err)

	got, err := ts.repo.TicketByID(ctx, ticket.ID)
	ts.Require().NoError(err)
	ts.Require().Equal(ticket.Title, got.Title)
	ts.Require().Equal(entity.TicketStatusPending, got.Status)
	ts.Require().Empty(got.Images)

	_, err = ts.repo.TicketByID(ctx, uuid.Must(uuid.NewV4()))
	ts.Require().ErrorIs(err, entity.ErrTicketNotFound)
}

func (ts *TicketRepositoryTestSuite) TestUpdateTicketStatus() {
	ctx := context.Background()
	ticket := testTicket(entity.PortalPolice, uuid.Must(uuid.NewV4()).String())

	err := ts.repo.CreateTicket(ctx, ticket, testActivity(entity.ActivityTicketCreated, ticket.Portal))
	ts.Require().NoError(err)

	ts.Run("guarded_transition", func() {
		err := ts.repo.UpdateTicketStatus(
			ctx, ticket.ID, entity.TicketStatusPending, entity.TicketStatusInProgress, nil,
			testActivity(entity.ActivityTicketStatusUpdated, ticket.Portal),
		)
		ts.Require().NoError(err)

		got, err := ts.repo.TicketByID(ctx, ticket.ID)
		ts.Require().NoError(err)
		ts.Require().Equal(entity.TicketStatusInProgress, got.Status)
	})

	ts.Run("stale_from_status", func() {
		// the row is in_progress now, so the pending guard must not match
		err := ts.repo.UpdateTicketStatus(
			ctx, ticket.ID, entity.TicketStatusPending, entity.TicketStatusResolved, nil,
			testActivity(entity.ActivityTicketStatusUpdated, ticket.Portal),
		)
		ts.Require().ErrorIs(err, entity.ErrInvalidTransition)
	})

	ts.Run("resolution_persisted", func() {
		resolution := "replaced the unit"

		err := ts.repo.UpdateTicketStatus(
			ctx, ticket.ID, entity.TicketStatusInProgress, entity.TicketStatusResolved, &resolution,
			testActivity(entity.ActivityTicketStatusUpdated, ticket.Portal),
		)
		ts.Require().NoError(err)

		got, err := ts.repo.TicketByID(ctx, ticket.ID)
		ts.Require().NoError(err)
		ts.Require().Equal(entity.TicketStatusResolved, got.Status)
		ts.Require().NotNil(got.Resolution)
		ts.Require().Equal(resolution, *got.Resolution)
	})
}

func (ts *TicketRepositoryTestSuite) TestAssignTicket() {
	ctx := context.Background()
	ticket := testTicket(entity.PortalPolice, uuid.Must(uuid.NewV4()).String())

	err := ts.repo.CreateTicket(ctx, ticket, testActivity(entity.ActivityTicketCreated, ticket.Portal))
	ts.Require().NoError(err)

	err = ts.repo.AssignTicket(
		ctx, ticket.ID, "Officer Benali", testActivity(entity.ActivityTicketAssigned, ticket.Portal),
	)
	ts.Require().NoError(err)

	got, err := ts.repo.TicketByID(ctx, ticket.ID)
	ts.Require().NoError(err)
	ts.Require().NotNil(got.AssignedOfficer)
	ts.Require().Equal("Officer Benali", *got.AssignedOfficer)
}

func (ts *TicketRepositoryTestSuite) TestApproveUserRequest() {
	ctx := context.Background()

	newRequestTicket := func(email, idCard string) *entity.Ticket {
		ticket := testTicket(entity.PortalBusiness, entity.ExternalUserID)
		ticket.Type = entity.TicketTypeUserRequest
		ticket.UserRequestData = &entity.UserRequestData{
			FullName: "Applicant",
			Email:    email,
			Phone:    "+213555333444",
			IDCard:   idCard,
		}

		return ticket
	}

	ts.Run("creates_user_and_approves_ticket", func() {
		ticket := newRequestTicket("applicant@sicada.dz", "approve_001")

		err := ts.repo.CreateTicket(ctx, ticket, testActivity(entity.ActivityTicketCreated, ticket.Portal))
		ts.Require().NoError(err)

		user := testUser(entity.RoleAdmin, entity.PortalBusiness)

		err = ts.repo.ApproveUserRequest(
			ctx, ticket.ID, user, testActivity(entity.ActivityUserRequestApproved, ticket.Portal),
		)
		ts.Require().NoError(err)

		got, err := ts.repo.TicketByID(ctx, ticket.ID)
		ts.Require().NoError(err)
		ts.Require().Equal(entity.TicketStatusApproved, got.Status)

		_, err = ts.repo.UserByID(ctx, user.ID)
		ts.Require().NoError(err)
	})

	ts.Run("duplicate_account_rolls_back", func() {
		existing := testUser(entity.RoleEmployee, entity.PortalBusiness)

		err := ts.repo.CreateUser(ctx, existing, testActivity(entity.ActivityUserRegistered, existing.Portal))
		ts.Require().NoError(err)

		ticket := newRequestTicket(existing.Email, "approve_002")

		err = ts.repo.CreateTicket(ctx, ticket, testActivity(entity.ActivityTicketCreated, ticket.Portal))
		ts.Require().NoError(err)

		clash := testUser(entity.RoleAdmin, entity.PortalBusiness)
		clash.Email = existing.Email

		err = ts.repo.ApproveUserRequest(
			ctx, ticket.ID, clash, testActivity(entity.ActivityUserRequestApproved, ticket.Portal),
		)
		ts.Require().ErrorIs(err, entity.ErrDuplicateEmail)

		got, err := ts.repo.TicketByID(ctx, ticket.ID)
		ts.Require().NoError(err)
		ts.Require().Equal(entity.TicketStatusPending, got.Status)
	})

	ts.Run("already_approved", func() {
		ticket := newRequestTicket("second@sicada.dz", "approve_003")

		err := ts.repo.CreateTicket(ctx, ticket, testActivity(entity.ActivityTicketCreated, ticket.Portal))
		ts.Require().NoError(err)

		first := testUser(entity.RoleAdmin, entity.PortalBusiness)

		err = ts.repo.ApproveUserRequest(
			ctx, ticket.ID, first, testActivity(entity.ActivityUserRequestApproved, ticket.Portal),
		)
		ts.Require().NoError(err)

		second := testUser(entity.RoleAdmin, entity.PortalBusiness)

		err = ts.repo.ApproveUserRequest(
			ctx, ticket.ID, second, testActivity(entity.ActivityUserRequestApproved, ticket.Portal),
		)
		ts.Require().ErrorIs(err, entity.ErrInvalidTransition)
	})
}
