package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/sicada/admin-service/internal/entity"
	"github.com/sicada/admin-service/internal/repository"
)

type ActivityRepositoryTestSuite struct {
	suite.Suite
	repo *repository.Repository
}

func (ts *ActivityRepositoryTestSuite) SetupTest() {
	ts.repo = repository.New(repository.SetupTestDatabase(ts.T()))
}

func TestActivityRepositoryTestSuite(t *testing.T) { //nolint:paralleltest
	suite.Run(t, new(ActivityRepositoryTestSuite))
}

func (ts *ActivityRepositoryTestSuite) TestActivitiesFiltering() {
	ctx := context.Background()

	for _, portal := range []entity.Portal{
		entity.PortalBusiness,
		entity.PortalBusiness,
		entity.PortalPolice,
	} {
		err := ts.repo.LogActivity(ctx, testActivity(entity.ActivityTicketCreated, portal))
		ts.Require().NoError(err)
	}

	ts.Run("by_portal", func() {
		activities, total, err := ts.repo.Activities(ctx, repository.ActivityFilter{
			Portal: entity.PortalBusiness,
			Page:   1,
			Limit:  10,
		})
		ts.Require().NoError(err)
		ts.Require().Equal(2, total)
		ts.Require().Len(activities, 2)
	})

	ts.Run("all", func() {
		activities, total, err := ts.repo.Activities(ctx, repository.ActivityFilter{Page: 1, Limit: 10})
		ts.Require().NoError(err)
		ts.Require().Equal(3, total)
		ts.Require().Len(activities, 3)
	})
}

func (ts *ActivityRepositoryTestSuite) TestRecentActivities() {
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		err := ts.repo.LogActivity(ctx, testActivity(entity.ActivityUserLogin, entity.PortalBusiness))
		ts.Require().NoError(err)
	}

	recent, err := ts.repo.RecentActivities(ctx, 5)
	ts.Require().NoError(err)
	ts.Require().Len(recent, 5)
}
