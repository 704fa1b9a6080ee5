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

type UserRepositoryTestSuite struct {
	suite.Suite
	repo *repository.Repository
}

func (ts *UserRepositoryTestSuite) SetupTest() {
	ts.repo = repository.New(repository.SetupTestDatabase(ts.T()))
}

func TestUserRepositoryTestSuite(t *testing.T) { //nolint:paralleltest
	suite.Run(t, new(UserRepositoryTestSuite))
}

func testUser(role entity.Role, portal entity.Portal) *entity.User {
	id := uuid.Must(uuid.NewV4())

	return &entity.User{
		ID:           id,
		FullName:     "Test User",
		Email:        "user_" + id.String() + "@sicada.dz",
		Phone:        "+213555000000",
		IDCard:       "card_" + id.String(),
		PasswordHash: "$2a$04$notarealhashbutlongenoughtostore1234567890",
		Role:         role,
		Portal:       portal,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}
}

func testActivity(activityType string, portal entity.Portal) entity.Activity {
	return entity.NewActivity(activityType, "test activity", "Test User", portal)
}

func (ts *UserRepositoryTestSuite) TestCreateAndFetchUser() {
	ctx := context.Background()
	user := testUser(entity.RoleEmployee, entity.PortalBusiness)

	err := ts.repo.CreateUser(ctx, user, testActivity(entity.ActivityUserRegistered, user.Portal))
	ts.Require().NoError(err)

	ts.Run("by_id", func() {
		got, err := ts.repo.UserByID(ctx, user.ID)
		ts.Require().NoError(err)
		ts.Require().Equal(user.Email, got.Email)
		ts.Require().Equal(entity.UserStatusActive, got.Status)
	})

	ts.Run("by_email_case_insensitive", func() {
		got, err := ts.repo.UserByEmail(ctx, user.Email)
		ts.Require().NoError(err)
		ts.Require().Equal(user.ID, got.ID)
	})

	ts.Run("unknown_id", func() {
		_, err := ts.repo.UserByID(ctx, uuid.Must(uuid.NewV4()))
		ts.Require().ErrorIs(err, entity.ErrUserNotFound)
	})
}

func (ts *UserRepositoryTestSuite) TestDuplicateEmail() {
	ctx := context.Background()
	user := testUser(entity.RoleEmployee, entity.PortalBusiness)

	err := ts.repo.CreateUser(ctx, user, testActivity(entity.ActivityUserRegistered, user.Portal))
	ts.Require().NoError(err)

	dup := testUser(entity.RoleEmployee, entity.PortalBusiness)
	dup.Email = user.Email

	err = ts.repo.CreateUser(ctx, dup, testActivity(entity.ActivityUserRegistered, dup.Portal))
	ts.Require().ErrorIs(err, entity.ErrDuplicateEmail)

	dup = testUser(entity.RoleEmployee, entity.PortalBusiness)
	dup.IDCard = user.IDCard

	err = ts.repo.CreateUser(ctx, dup, testActivity(entity.ActivityUserRegistered, dup.Portal))
	ts.Require().ErrorIs(err, entity.ErrDuplicateIDCard)
}

func (ts *UserRepositoryTestSuite) TestUsersFiltering() {
	ctx := context.Background()

	for _, u := range []*entity.User{
		testUser(entity.RoleEmployee, entity.PortalBusiness),
		testUser(entity.RoleEmployee, entity.PortalBusiness),
		testUser(entity.RolePoliceOfficer, entity.PortalPolice),
	} {
		err := ts.repo.CreateUser(ctx, u, testActivity(entity.ActivityUserRegistered, u.Portal))
		ts.Require().NoError(err)
	}

	ts.Run("by_portal", func() {
		users, total, err := ts.repo.Users(ctx, repository.UserFilter{
			Portal: entity.PortalBusiness,
			Page:   1,
			Limit:  10,
		})
		ts.Require().NoError(err)
		ts.Require().Equal(2, total)
		ts.Require().Len(users, 2)
	})

	ts.Run("by_role", func() {
		users, total, err := ts.repo.Users(ctx, repository.UserFilter{
			Role:  entity.RolePoliceOfficer,
			Page:  1,
			Limit: 10,
		})
		ts.Require().NoError(err)
		ts.Require().Equal(1, total)
		ts.Require().Equal(entity.PortalPolice, users[0].Portal)
	})

	ts.Run("pagination", func() {
		users, total, err := ts.repo.Users(ctx, repository.UserFilter{Page: 2, Limit: 2})
		ts.Require().NoError(err)
		ts.Require().Equal(3, total)
		ts.Require().Len(users, 1)
	})
}

func (ts *UserRepositoryTestSuite) TestUpdateUserStatus() {
	ctx := context.Background()
	user := testUser(entity.RoleEmployee, entity.PortalBusiness)

	err := ts.repo.CreateUser(ctx, user, testActivity(entity.ActivityUserRegistered, user.Portal))
	ts.Require().NoError(err)

	err = ts.repo.UpdateUserStatus(
		ctx, user.ID, entity.UserStatusInactive, testActivity(entity.ActivityUserStatusUpdated, user.Portal),
	)
	ts.Require().NoError(err)

	got, err := ts.repo.UserByID(ctx, user.ID)
	ts.Require().NoError(err)
	ts.Require().Equal(entity.UserStatusInactive, got.Status)
}

func (ts *UserRepositoryTestSuite) TestUpdateUserPassword() {
	ctx := context.Background()
	user := testUser(entity.RoleEmployee, entity.PortalBusiness)
	user.PasswordResetRequired = true

	err := ts.repo.CreateUser(ctx, user, testActivity(entity.ActivityUserRegistered, user.Portal))
	ts.Require().NoError(err)

	err = ts.repo.UpdateUserPassword(
		ctx, user.ID, "$2a$04$anotherfakehashvalue1234567890abcdefghij",
		testActivity(entity.ActivityPasswordChanged, user.Portal),
	)
	ts.Require().NoError(err)

	got, err := ts.repo.UserByID(ctx, user.ID)
	ts.Require().NoError(err)
	ts.Require().False(got.PasswordResetRequired)
}

func (ts *UserRepositoryTestSuite) TestDeleteUser() {
	ctx := context.Background()
	user := testUser(entity.RoleEmployee, entity.PortalBusiness)

	err := ts.repo.CreateUser(ctx, user, testActivity(entity.ActivityUserRegistered, user.Portal))
	ts.Require().NoError(err)

	err = ts.repo.DeleteUser(ctx, user.ID, testActivity(entity.ActivityUserDeleted, user.Portal))
	ts.Require().NoError(err)

	_, err = ts.repo.UserByID(ctx, user.ID)
	ts.Require().ErrorIs(err, entity.ErrUserNotFound)

	err = ts.repo.DeleteUser(ctx, user.ID, testActivity(entity.ActivityUserDeleted, user.Portal))
	ts.Require().ErrorIs(err, entity.ErrUserNotFound)
}

func (ts *UserRepositoryTestSuite) TestUserStats() {
	ctx := context.Background()

	active := testUser(entity.RoleEmployee, entity.PortalBusiness)
	inactive := testUser(entity.RolePoliceOfficer, entity.PortalPolice)
	inactive.Status = entity.UserStatusInactive

	for _, u := range []*entity.User{active, inactive} {
		err := ts.repo.CreateUser(ctx, u, testActivity(entity.ActivityUserRegistered, u.Portal))
		ts.Require().NoError(err)
	}

	stats, err := ts.repo.UserStats(ctx)
	ts.Require().NoError(err)
	ts.Require().Equal(2, stats.TotalUsers)
	ts.Require().Equal(1, stats.ActiveUsers)
	ts.Require().Equal(1, stats.UsersByPortal[string(entity.PortalBusiness)])
	ts.Require().Equal(1, stats.UsersByRole[string(entity.RolePoliceOfficer)])
}
