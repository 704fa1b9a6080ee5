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

type ParkingLocationRepositoryTestSuite struct {
	suite.Suite
	repo *repository.Repository
}

func (ts *ParkingLocationRepositoryTestSuite) SetupTest() {
	ts.repo = repository.New(repository.SetupTestDatabase(ts.T()))
}

func TestParkingLocationRepositoryTestSuite(t *testing.T) { //nolint:paralleltest
	suite.Run(t, new(ParkingLocationRepositoryTestSuite))
}

func testLocation(total, available int) *entity.ParkingLocation {
	now := time.Now().UTC()

	return &entity.ParkingLocation{
		ID:              uuid.Must(uuid.NewV4()),
		Name:            "Lot " + uuid.Must(uuid.NewV4()).String()[:8],
		Address:         "1 Rue Didouche Mourad",
		TotalSpaces:     total,
		AvailableSpaces: available,
		Features:        []string{},
		Status:          entity.LocationStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (ts *ParkingLocationRepositoryTestSuite) TestCreateAndFetchLocation() {
	ctx := context.Background()
	loc := testLocation(100, 80)

	err := ts.repo.CreateParkingLocation(
		ctx, loc, testActivity(entity.ActivityParkingLocationCreated, entity.PortalWilaya),
	)
	ts.Require().NoError(err)

	got, err := ts.repo.ParkingLocationByID(ctx, loc.ID)
	ts.Require().NoError(err)
	ts.Require().Equal(loc.Name, got.Name)
	ts.Require().Equal(100, got.TotalSpaces)
	ts.Require().Equal(80, got.AvailableSpaces)

	_, err = ts.repo.ParkingLocationByID(ctx, uuid.Must(uuid.NewV4()))
	ts.Require().ErrorIs(err, entity.ErrLocationNotFound)
}

func (ts *ParkingLocationRepositoryTestSuite) TestUpdateAvailableSpaces() {
	ctx := context.Background()
	loc := testLocation(50, 50)

	err := ts.repo.CreateParkingLocation(
		ctx, loc, testActivity(entity.ActivityParkingLocationCreated, entity.PortalWilaya),
	)
	ts.Require().NoError(err)

	ts.Run("within_capacity", func() {
		err := ts.repo.UpdateAvailableSpaces(
			ctx, loc.ID, 20, testActivity(entity.ActivityParkingSpacesUpdated, entity.PortalWilaya),
		)
		ts.Require().NoError(err)

		got, err := ts.repo.ParkingLocationByID(ctx, loc.ID)
		ts.Require().NoError(err)
		ts.Require().Equal(20, got.AvailableSpaces)
	})

	ts.Run("over_capacity", func() {
		err := ts.repo.UpdateAvailableSpaces(
			ctx, loc.ID, 51, testActivity(entity.ActivityParkingSpacesUpdated, entity.PortalWilaya),
		)
		ts.Require().ErrorIs(err, entity.ErrSpacesOutOfRange)

		got, err := ts.repo.ParkingLocationByID(ctx, loc.ID)
		ts.Require().NoError(err)
		ts.Require().Equal(20, got.AvailableSpaces)
	})

	ts.Run("negative", func() {
		err := ts.repo.UpdateAvailableSpaces(
			ctx, loc.ID, -1, testActivity(entity.ActivityParkingSpacesUpdated, entity.PortalWilaya),
		)
		ts.Require().ErrorIs(err, entity.ErrSpacesOutOfRange)
	})

	ts.Run("unknown_location", func() {
		err := ts.repo.UpdateAvailableSpaces(
			ctx, uuid.Must(uuid.NewV4()), 1, testActivity(entity.ActivityParkingSpacesUpdated, entity.PortalWilaya),
		)
		ts.Require().ErrorIs(err, entity.ErrLocationNotFound)
	})
}

func (ts *ParkingLocationRepositoryTestSuite) TestLocationStats() {
	ctx := context.Background()

	active := testLocation(100, 60)
	maintenance := testLocation(40, 0)
	maintenance.Status = entity.LocationStatusMaintenance

	for _, loc := range []*entity.ParkingLocation{active, maintenance} {
		err := ts.repo.CreateParkingLocation(
			ctx, loc, testActivity(entity.ActivityParkingLocationCreated, entity.PortalWilaya),
		)
		ts.Require().NoError(err)
	}

	stats, err := ts.repo.ParkingLocationStats(ctx)
	ts.Require().NoError(err)
	ts.Require().Equal(2, stats.Total)
	ts.Require().Equal(140, stats.TotalSpaces)
	ts.Require().Equal(60, stats.AvailableSpaces)
	ts.Require().Equal(1, stats.ByStatus[string(entity.LocationStatusActive)])
	ts.Require().Equal(1, stats.ByStatus[string(entity.LocationStatusMaintenance)])
}
